package streams

import (
	"context"

	"dbperf-analytics/internal/events"
)

// ExportProducer publishes ExportRequestedEvents to a partitioned queue.
//
// The partition key is the report id, so every event for one report lands on the same
// partition and is handled by a single worker. Different reports export in parallel.
//
//go:generate mockgen -source=export_producer.go -destination=./mocks/export_producer_mock.go -package=mocks
type ExportProducer interface {
	Produce(ctx context.Context, event events.ExportRequestedEvent) error
}

type exportProducer struct {
	queue *PartitionedQueue[events.ExportRequestedEvent]
}

func NewExportProducer(queue *PartitionedQueue[events.ExportRequestedEvent]) ExportProducer {
	return &exportProducer{
		queue: queue,
	}
}

func (producer *exportProducer) Produce(ctx context.Context, event events.ExportRequestedEvent) error {
	if err := producer.queue.Publish(ctx, event.ReportID, event); err != nil {
		return err
	}
	metricExportRequestedProducedTotal.WithLabelValues(streamExportRequested).Inc()
	return nil
}
