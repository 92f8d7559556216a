package insights

import (
	"dbperf-analytics/internal/shared/metrics"
)

const (
	cacheHit      = "hit"
	cacheMiss     = "miss"
	cacheDisabled = "disabled"
)

var (
	// metricBundleComputedTotal counts Compute calls by cache outcome. A hit skips the
	// pipeline entirely.
	metricBundleComputedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubInsights,
			Name:      "bundle_computed_total",
		},
		[]string{"cache", metrics.FieldErrorCode},
	)

	metricBundleComputeSeconds = metrics.NewHistogramVec(
		metrics.HistogramOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubInsights,
			Name:      "bundle_compute_seconds",
			Buckets:   metrics.DefBuckets,
		},
		[]string{"granularity"},
	)

	metricSeriesWarningTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubInsights,
			Name:      "series_warning_total",
		},
		[]string{"series"},
	)
)
