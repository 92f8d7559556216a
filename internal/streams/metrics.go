package streams

import (
	"dbperf-analytics/internal/shared/metrics"
)

const streamExportRequested = "export_requested"

var (
	metricExportRequestedProducedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubStream,
			Name:      "export_requested_published_total",
		},
		[]string{"stream_id"},
	)

	metricExportRequestedConsumedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubStream,
			Name:      "export_requested_consumed_total",
		},
		[]string{"stream_id", metrics.FieldErrorCode},
	)
)
