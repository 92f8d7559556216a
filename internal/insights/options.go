package insights

import (
	"errors"
	"fmt"
	"time"

	"dbperf-analytics/internal/aggregators"
	"dbperf-analytics/internal/models"
)

const DefaultConnectOperation = "connect"

// Options are the analysis knobs. They are fixed for the lifetime of a SeriesService.
type Options struct {
	RollingWindow    int
	GapThreshold     time.Duration
	ConcurrencyWidth models.BucketWidth
	ThroughputWidth  models.BucketWidth
	TopN             int
	HistogramBins    int
	Granularity      models.Granularity
	// ConnectOperation is compared against all other operations in the rolling comparison.
	ConnectOperation string
}

func DefaultOptions() Options {
	return Options{
		RollingWindow:    50,
		GapThreshold:     300 * time.Second,
		ConcurrencyWidth: models.Bucket100ms,
		ThroughputWidth:  models.BucketMinute,
		TopN:             10,
		HistogramBins:    50,
		Granularity:      models.GranularityDatabaseOperation,
		ConnectOperation: DefaultConnectOperation,
	}
}

// Validate reports every invalid option at once.
func (o Options) Validate() error {
	var errs []error
	if o.RollingWindow <= 0 {
		errs = append(errs, fmt.Errorf("%w: rolling window %d must be positive", aggregators.ErrInvalidWindow, o.RollingWindow))
	}
	if o.GapThreshold <= 0 {
		errs = append(errs, fmt.Errorf("%w: gap threshold %s must be positive", aggregators.ErrInvalidThreshold, o.GapThreshold))
	}
	if err := o.ConcurrencyWidth.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("concurrency bucket: %w", err))
	}
	if err := o.ThroughputWidth.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("throughput bucket: %w", err))
	}
	if o.TopN <= 0 {
		errs = append(errs, fmt.Errorf("%w: top n %d must be positive", aggregators.ErrInvalidTopN, o.TopN))
	}
	if o.HistogramBins <= 0 {
		errs = append(errs, fmt.Errorf("%w: histogram bins %d must be positive", aggregators.ErrInvalidBins, o.HistogramBins))
	}
	if _, err := models.ParseGranularity(string(o.Granularity)); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
