package streams

import (
	"context"
	"fmt"
	"runtime/debug"
	"strconv"
	"sync"

	"dbperf-analytics/internal/events"
	"dbperf-analytics/internal/reports"
	"dbperf-analytics/internal/shared/loggers"
	"dbperf-analytics/internal/shared/metrics"
	"dbperf-analytics/internal/shared/svcerrors"
)

//go:generate mockgen -source=export_consumer.go -destination=./mocks/export_consumer_mock.go -package=mocks
type ExportConsumer interface {
	Start(ctx context.Context)
	Stop()
}

type exportConsumer struct {
	queue         *PartitionedQueue[events.ExportRequestedEvent]
	exportService reports.ExportService

	wg sync.WaitGroup

	stopOnce sync.Once
	stopCh   chan struct{}

	logger loggers.Logger
}

func NewExportConsumer(queue *PartitionedQueue[events.ExportRequestedEvent], exportService reports.ExportService, logger loggers.Logger) ExportConsumer {
	return &exportConsumer{
		queue:         queue,
		exportService: exportService,
		stopCh:        make(chan struct{}),
		logger:        logger,
	}
}

// Start spawns 1 worker goroutine per partition.
func (consumer *exportConsumer) Start(ctx context.Context) {
	for partitionIndex := 0; partitionIndex < consumer.queue.PartitionCount(); partitionIndex++ {
		ch := consumer.queue.partitions[partitionIndex]
		consumer.wg.Add(1)
		go func() {
			defer consumer.wg.Done()
			consumer.runPartitionWorker(ctx, partitionIndex, ch)
		}()
	}
}

// Stop waits for workers to stop (best called during app shutdown).
func (consumer *exportConsumer) Stop() {
	consumer.stopOnce.Do(func() { close(consumer.stopCh) })
	consumer.wg.Wait()
}

func (consumer *exportConsumer) runPartitionWorker(ctx context.Context, partitionIndex int, ch <-chan events.ExportRequestedEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-consumer.stopCh:
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			consumer.handle(ctx, partitionIndex, event)
		}
	}
}

func (consumer *exportConsumer) handle(ctx context.Context, partitionIndex int, event events.ExportRequestedEvent) {
	ctx = consumer.logger.With().
		Str(loggers.FieldPartition, strconv.Itoa(partitionIndex)).
		Str(loggers.FieldRequestID, event.RequestID).
		Str(loggers.FieldReportID, event.ReportID).
		Logger().WithContext(ctx)

	// Handle panic recovery to prevent worker goroutine from crashing
	defer func() {
		if r := recover(); r != nil {
			loggers.Ctx(ctx).Error().
				Bytes(loggers.FieldErrorStack, debug.Stack()).
				Msg("consumer panic recovered")

			var panicErr error
			if err, ok := r.(error); ok {
				panicErr = err
			} else {
				panicErr = fmt.Errorf("%v", r)
			}

			svcErr := svcerrors.NewInternalErrorPanic(panicErr)
			metricExportRequestedConsumedTotal.WithLabelValues(streamExportRequested, svcErr.Code).Inc()
		}
	}()

	if _, err := consumer.exportService.Export(ctx, event.ReportID, event.Filter); err != nil {
		svcErr, ok := svcerrors.AsServiceError(err)
		if !ok {
			svcErr = svcerrors.NewInternalErrorUndefined(err)
		}
		loggers.Ctx(ctx).Error().
			Err(err).
			Str(loggers.FieldErrorCode, svcErr.Code).
			Msg("report export failed")
		metricExportRequestedConsumedTotal.WithLabelValues(streamExportRequested, svcErr.Code).Inc()
		return
	}
	metricExportRequestedConsumedTotal.WithLabelValues(streamExportRequested, metrics.ValueNoError).Inc()
}
