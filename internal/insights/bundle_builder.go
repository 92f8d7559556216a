package insights

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"dbperf-analytics/internal/aggregators"
	"dbperf-analytics/internal/models"
)

const (
	groupAll = "all"

	labelTimestamp = "Timestamp"
	labelDuration  = "Duration (ms)"

	seriesPerMinuteCount = "perMinuteCount"
	seriesConcurrency    = "concurrency"
)

// bundleBuilder turns one filtered view of the log into a SeriesBundle. It holds
// only immutable configuration and can be shared across goroutines.
type bundleBuilder struct {
	opts        Options
	throughput  aggregators.BucketAggregator
	concurrency aggregators.BucketAggregator
}

func newBundleBuilder(opts Options) (*bundleBuilder, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	throughput, err := aggregators.NewBucketAggregator(opts.ThroughputWidth, aggregators.KindCount)
	if err != nil {
		return nil, err
	}
	concurrency, err := aggregators.NewBucketAggregator(opts.ConcurrencyWidth, aggregators.KindCount)
	if err != nil {
		return nil, err
	}
	return &bundleBuilder{opts: opts, throughput: throughput, concurrency: concurrency}, nil
}

// build filters first and then derives every series from the filtered records only.
func (b *bundleBuilder) build(log *models.OperationLog, filter models.FilterSelection) (*models.SeriesBundle, error) {
	records := filter.Apply(log.Records)

	bundle := &models.SeriesBundle{
		Filter:          filter,
		Granularity:     b.opts.Granularity,
		RecordCount:     len(records),
		RawDuration:     []models.Series{},
		RawTimeBetween:  []models.Series{},
		RollingDuration: []models.Series{},
		ConnectVsOther:  []models.Series{},
	}

	groups := aggregators.GroupBy(records, b.opts.Granularity.KeyOf)
	keys := sortedGroupKeys(groups.Keys)

	for _, key := range keys {
		items := groups.Get(key)
		bundle.RawDuration = append(bundle.RawDuration, rawSeries(key.Label(), items,
			"Raw Operation Duration Over Time", labelDuration,
			func(r *models.OperationRecord) models.OptionalFloat { return models.Defined(r.DurationMs) }))
		bundle.RawTimeBetween = append(bundle.RawTimeBetween, rawSeries(key.Label(), items,
			"Raw Time Between Operations Over Time", "Time Between (ms)",
			func(r *models.OperationRecord) models.OptionalFloat { return r.TimeBetweenMs }))

		rolling, err := b.rollingSegments(key.Label(), items)
		if err != nil {
			return nil, err
		}
		bundle.RollingDuration = append(bundle.RollingDuration, rolling...)
	}

	connectVsOther, err := b.connectVsOther(records)
	if err != nil {
		return nil, err
	}
	bundle.ConnectVsOther = connectVsOther

	if bundle.PerMinuteCount, err = b.throughputSeries(records); err != nil {
		if !errors.Is(err, aggregators.ErrTooManyBuckets) {
			return nil, err
		}
		bundle.Warnings = append(bundle.Warnings, models.SeriesWarning{Series: seriesPerMinuteCount, Reason: err.Error()})
	}
	if bundle.Concurrency, err = b.concurrencySeries(records); err != nil {
		if !errors.Is(err, aggregators.ErrTooManyBuckets) {
			return nil, err
		}
		bundle.Warnings = append(bundle.Warnings, models.SeriesWarning{Series: seriesConcurrency, Reason: err.Error()})
	}

	durations, timeBetween := valuesOf(records)
	if bundle.DurationHistogram, err = b.histogram(durations,
		"Distribution of Operation Durations (ms)", labelDuration); err != nil {
		return nil, err
	}
	if bundle.TimeBetweenHistogram, err = b.histogram(timeBetween,
		"Distribution of Time Between Operations (ms)", "Time Between (ms)"); err != nil {
		return nil, err
	}

	bundle.DurationByOperation = boxSummaries(records, func(r *models.OperationRecord) string { return r.Operation })
	bundle.DurationByDatabase = boxSummaries(records, func(r *models.OperationRecord) string { return r.Database })
	bundle.DurationByGroup = boxSummaries(records, func(r *models.OperationRecord) string {
		return models.GranularityDatabaseOperation.KeyOf(r).Label()
	})

	slowest, err := aggregators.TopN(records, b.opts.TopN, func(r *models.OperationRecord) float64 { return r.DurationMs })
	if err != nil {
		return nil, err
	}
	if slowest == nil {
		slowest = []*models.OperationRecord{}
	}
	bundle.Slowest = slowest

	return bundle, nil
}

func rawSeries(group string, items []*models.OperationRecord, title, yLabel string, valueOf func(*models.OperationRecord) models.OptionalFloat) models.Series {
	s := newSeries(group, title, yLabel)
	for _, r := range items {
		s.Points = append(s.Points, models.Point{X: r.Timestamp, Y: valueOf(r), Label: r.Operation})
	}
	return s
}

// rollingSegments smooths the whole group first and then cuts the smoothed line at
// idle gaps, one series per segment.
func (b *bundleBuilder) rollingSegments(group string, items []*models.OperationRecord) ([]models.Series, error) {
	rolling, err := aggregators.RollingAverage(durationsOf(items), b.opts.RollingWindow)
	if err != nil {
		return nil, err
	}
	segments, err := aggregators.SplitByGap(items, timestampOf, b.opts.GapThreshold)
	if err != nil {
		return nil, err
	}

	out := make([]models.Series, 0, len(segments))
	offset := 0
	for i, seg := range segments {
		s := newSeries(group, "Operation Duration Over Time (Rolling Average)", labelDuration)
		s.Segment = i
		for j, r := range seg.Items {
			s.Points = append(s.Points, models.Point{X: r.Timestamp, Y: rolling[offset+j], Label: r.Operation})
		}
		offset += len(seg.Items)
		out = append(out, s)
	}
	return out, nil
}

func (b *bundleBuilder) connectVsOther(records []*models.OperationRecord) ([]models.Series, error) {
	split := aggregators.GroupBy(records, func(r *models.OperationRecord) bool {
		return r.Operation == b.opts.ConnectOperation
	})

	out := []models.Series{}
	for _, part := range []struct {
		isConnect bool
		name      string
	}{
		{isConnect: false, name: "Other Operations"},
		{isConnect: true, name: "Connect Operations"},
	} {
		items := split.Get(part.isConnect)
		if len(items) == 0 {
			continue
		}
		rolling, err := aggregators.RollingAverage(durationsOf(items), b.opts.RollingWindow)
		if err != nil {
			return nil, err
		}
		s := newSeries(part.name, "Connect vs Other Operations (Rolling Average)", "Duration (ms) - Rolling Average")
		for i, r := range items {
			s.Points = append(s.Points, models.Point{X: r.Timestamp, Y: rolling[i], Label: r.Operation})
		}
		out = append(out, s)
	}
	return out, nil
}

func (b *bundleBuilder) throughputSeries(records []*models.OperationRecord) (models.Series, error) {
	title := "Number of Database Operations per " + widthName(b.opts.ThroughputWidth)
	s := newSeries(groupAll, title, "Count")

	samples := make([]aggregators.Sample, len(records))
	for i, r := range records {
		samples[i] = aggregators.Sample{Timestamp: r.Timestamp, Group: groupAll}
	}
	resampled, err := b.throughput.Aggregate(samples, []string{groupAll})
	if err != nil {
		return s, err
	}
	return bucketSeries(s, resampled), nil
}

// concurrencySeries counts operation starts per short bucket for each database and
// sums the counts across databases.
func (b *bundleBuilder) concurrencySeries(records []*models.OperationRecord) (models.Series, error) {
	s := newSeries(groupAll, "Database Concurrency Over Time", "Concurrent Operations")

	databases := aggregators.GroupBy(records, func(r *models.OperationRecord) string { return r.Database }).Keys
	sort.Strings(databases)

	samples := make([]aggregators.Sample, len(records))
	for i, r := range records {
		samples[i] = aggregators.Sample{Timestamp: r.Timestamp, Group: r.Database}
	}
	resampled, err := b.concurrency.Aggregate(samples, databases)
	if err != nil {
		return s, err
	}
	return bucketSeries(s, resampled), nil
}

func (b *bundleBuilder) histogram(values []float64, title, xLabel string) (models.Histogram, error) {
	bins, err := aggregators.NewHistogram(values, b.opts.HistogramBins)
	if err != nil {
		return models.Histogram{}, err
	}
	if bins == nil {
		bins = []models.HistogramBin{}
	}
	return models.Histogram{Title: title, XLabel: xLabel, YLabel: "Frequency", Bins: bins}, nil
}

func bucketSeries(s models.Series, resampled *aggregators.BucketSeries) models.Series {
	totals := resampled.Totals()
	for i, bucket := range resampled.Buckets {
		s.Points = append(s.Points, models.Point{X: bucket.Start, Y: totals[i]})
	}
	return s
}

func boxSummaries(records []*models.OperationRecord, labelOf func(*models.OperationRecord) string) []models.BoxSummary {
	groups := aggregators.GroupBy(records, labelOf)
	labels := append([]string(nil), groups.Keys...)
	sort.Strings(labels)

	out := make([]models.BoxSummary, 0, len(labels))
	for _, label := range labels {
		out = append(out, aggregators.Summarize(label, durationsOf(groups.Get(label))))
	}
	return out
}

func newSeries(group, title, yLabel string) models.Series {
	return models.Series{Group: group, Title: title, XLabel: labelTimestamp, YLabel: yLabel, Points: []models.Point{}}
}

func sortedGroupKeys(keys []models.GroupKey) []models.GroupKey {
	out := append([]models.GroupKey(nil), keys...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Database != out[j].Database {
			return out[i].Database < out[j].Database
		}
		return out[i].Operation < out[j].Operation
	})
	return out
}

func valuesOf(records []*models.OperationRecord) (durations, timeBetween []float64) {
	durations = durationsOf(records)
	for _, r := range records {
		if v, ok := r.TimeBetweenMs.Value(); ok {
			timeBetween = append(timeBetween, v)
		}
	}
	return durations, timeBetween
}

func durationsOf(records []*models.OperationRecord) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = r.DurationMs
	}
	return out
}

func timestampOf(r *models.OperationRecord) time.Time {
	return r.Timestamp
}

func widthName(w models.BucketWidth) string {
	switch w {
	case models.BucketSecond:
		return "Second"
	case models.BucketMinute:
		return "Minute"
	case models.BucketHour:
		return "Hour"
	default:
		return fmt.Sprint(w)
	}
}
