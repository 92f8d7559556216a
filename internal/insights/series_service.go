package insights

import (
	"context"
	"time"

	"dbperf-analytics/internal/models"
	"dbperf-analytics/internal/shared/loggers"
	"dbperf-analytics/internal/shared/metrics"
	"dbperf-analytics/internal/shared/svcerrors"
	"dbperf-analytics/internal/shared/validators"
	"dbperf-analytics/internal/stores"
)

//go:generate mockgen -source=series_service.go -destination=./mocks/series_service_mock.go -package=mocks
type SeriesService interface {
	// Compute derives the full series bundle for filter. Every call recomputes from the
	// immutable log unless a cached bundle for the same filter exists.
	Compute(ctx context.Context, filter models.FilterSelection) (*models.SeriesBundle, error)
	// Filters returns the selection of every database and operation in the log.
	Filters(ctx context.Context) (*models.FilterSelection, error)
}

type seriesService struct {
	logStore  stores.OperationLogStore
	builder   *bundleBuilder
	cache     *bundleCache
	validator *validators.Validate
}

// NewSeriesService validates opts and returns an error for any invalid option.
// A cacheSize of zero or less disables caching.
func NewSeriesService(logStore stores.OperationLogStore, opts Options, cacheSize int) (SeriesService, error) {
	builder, err := newBundleBuilder(opts)
	if err != nil {
		return nil, err
	}

	var cache *bundleCache
	if cacheSize > 0 {
		if cache, err = newBundleCache(cacheSize); err != nil {
			return nil, err
		}
	}

	return &seriesService{
		logStore:  logStore,
		builder:   builder,
		cache:     cache,
		validator: validators.New(),
	}, nil
}

func (s *seriesService) Compute(ctx context.Context, filter models.FilterSelection) (*models.SeriesBundle, error) {
	logger := loggers.Ctx(ctx)

	if err := s.validator.Struct(filter); err != nil {
		svcErr := errValidationFailed("database and operation names must not be blank", err)
		s.record(cacheDisabled, svcErr)
		return nil, svcErr
	}

	key := filter.Key()
	outcome := cacheDisabled
	if s.cache != nil {
		if cached, ok := s.cache.get(key); ok {
			logger.Debug().Str(loggers.FieldFilterKey, key).Msg("series bundle served from cache")
			s.record(cacheHit, nil)
			// Equivalent selections share a cache entry; echo the caller's own filter.
			bundle := *cached
			bundle.Filter = filter
			return &bundle, nil
		}
		outcome = cacheMiss
	}

	log, err := s.logStore.Get(ctx)
	if err != nil {
		svcErr := errInternalOperationLogStoreFailed(err)
		s.record(outcome, svcErr)
		return nil, svcErr
	}

	started := time.Now()
	bundle, err := s.builder.build(log, filter)
	if err != nil {
		svcErr := errInternalComputeFailed(err)
		s.record(outcome, svcErr)
		return nil, svcErr
	}
	metricBundleComputeSeconds.WithLabelValues(string(s.builder.opts.Granularity)).Observe(time.Since(started).Seconds())

	for _, w := range bundle.Warnings {
		logger.Warn().
			Str(loggers.FieldFilterKey, key).
			Str(loggers.FieldSeries, w.Series).
			Str(loggers.FieldReason, w.Reason).
			Msg("series left empty")
		metricSeriesWarningTotal.WithLabelValues(w.Series).Inc()
	}

	logger.Debug().
		Str(loggers.FieldFilterKey, key).
		Int(loggers.FieldRecordSize, bundle.RecordCount).
		Dur(loggers.FieldDuration, time.Since(started)).
		Msg("computed series bundle")

	if s.cache != nil {
		s.cache.add(key, bundle)
	}
	s.record(outcome, nil)
	return bundle, nil
}

func (s *seriesService) Filters(ctx context.Context) (*models.FilterSelection, error) {
	log, err := s.logStore.Get(ctx)
	if err != nil {
		return nil, errInternalOperationLogStoreFailed(err)
	}
	all := models.SelectAll(log)
	return &all, nil
}

func (s *seriesService) record(outcome string, svcErr *svcerrors.ServiceError) {
	code := metrics.ValueNoError
	if svcErr != nil {
		code = svcErr.Code
	}
	metricBundleComputedTotal.WithLabelValues(outcome, code).Inc()
}
