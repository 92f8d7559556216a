package ingestors

import (
	"dbperf-analytics/internal/shared/metrics"
)

var (
	metricRecordsReadTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubIngestion,
			Name:      "records_read_total",
		},
		[]string{"source"},
	)

	// metricRecordsExcludedTotal counts rows dropped while reading, by reason
	// (e.g. reason="negative_duration").
	metricRecordsExcludedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubIngestion,
			Name:      "records_excluded_total",
		},
		[]string{"source", "reason"},
	)

	// metricLogRecords is the size of the log held in memory after the last read.
	metricLogRecords = metrics.NewGaugeVec(
		metrics.GaugeOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubIngestion,
			Name:      "log_records",
		},
		[]string{"source"},
	)
)
