package reports

import (
	"dbperf-analytics/internal/shared/metrics"
)

var (
	metricReportsExportedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubReports,
			Name:      "exported_total",
		},
		[]string{metrics.FieldErrorCode},
	)

	metricArtifactBytes = metrics.NewHistogramVec(
		metrics.HistogramOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubReports,
			Name:      "artifact_bytes",
			Buckets:   metrics.ExponentialBuckets(1024, 4, 9),
		},
		[]string{"artifact"},
	)
)
