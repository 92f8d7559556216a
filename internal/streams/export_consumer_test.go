package streams

import (
	"context"
	"sync"
	"testing"
	"time"

	"dbperf-analytics/internal/events"
	"dbperf-analytics/internal/models"
	reportmocks "dbperf-analytics/internal/reports/mocks"
	"dbperf-analytics/internal/shared/loggers"
	"dbperf-analytics/internal/shared/svcerrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func waitOrFail(t *testing.T, wg *sync.WaitGroup) {
	t.Helper()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for exports")
	}
}

func TestExportPipeline_ProduceAndConsume(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockExportService := reportmocks.NewMockExportService(ctrl)
	queue := NewPartitionedQueue[events.ExportRequestedEvent]()
	logger, _ := loggers.New("info")

	producer := NewExportProducer(queue)
	consumer := NewExportConsumer(queue, mockExportService, logger)

	reportIDs := []string{"01ARZ3NDEKTSV4RRFFQ69G5FAV", "01J9ZQ6K3V8W2G5XJ0D4R7N1TB", "01J9ZQ6K3SWB1M0XG3A9E2HC7Q"}

	var wg sync.WaitGroup
	wg.Add(len(reportIDs))

	var mu sync.Mutex
	exported := make([]string, 0, len(reportIDs))
	for _, id := range reportIDs {
		mockExportService.EXPECT().
			Export(gomock.Any(), id, gomock.Any()).
			DoAndReturn(func(ctx context.Context, reportID string, filter models.FilterSelection) (*models.ReportManifest, error) {
				defer wg.Done()
				mu.Lock()
				exported = append(exported, reportID)
				mu.Unlock()
				return &models.ReportManifest{ReportID: reportID}, nil
			})
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	consumer.Start(ctx)

	for _, id := range reportIDs {
		require.NoError(t, producer.Produce(ctx, events.ExportRequestedEvent{ReportID: id}))
	}

	waitOrFail(t, &wg)
	consumer.Stop()

	assert.ElementsMatch(t, reportIDs, exported)
}

func TestExportConsumer_SurvivesFailuresAndPanics(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockExportService := reportmocks.NewMockExportService(ctrl)
	// a single partition keeps the events in order on one worker
	queue := newPartitionedQueue[events.ExportRequestedEvent](1, 8)
	logger, _ := loggers.New("info")
	consumer := NewExportConsumer(queue, mockExportService, logger)

	var wg sync.WaitGroup
	wg.Add(3)

	gomock.InOrder(
		mockExportService.EXPECT().
			Export(gomock.Any(), "panics", gomock.Any()).
			DoAndReturn(func(context.Context, string, models.FilterSelection) (*models.ReportManifest, error) {
				defer wg.Done()
				panic("renderer blew up")
			}),
		mockExportService.EXPECT().
			Export(gomock.Any(), "fails", gomock.Any()).
			DoAndReturn(func(context.Context, string, models.FilterSelection) (*models.ReportManifest, error) {
				defer wg.Done()
				return nil, svcerrors.NewInternalError("REP_9000", assert.AnError)
			}),
		mockExportService.EXPECT().
			Export(gomock.Any(), "succeeds", gomock.Any()).
			DoAndReturn(func(context.Context, string, models.FilterSelection) (*models.ReportManifest, error) {
				defer wg.Done()
				return &models.ReportManifest{ReportID: "succeeds"}, nil
			}),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for _, id := range []string{"panics", "fails", "succeeds"} {
		require.NoError(t, queue.Publish(ctx, id, events.ExportRequestedEvent{ReportID: id}))
	}
	consumer.Start(ctx)

	waitOrFail(t, &wg)
	consumer.Stop()
}

func TestExportConsumer_StopsWhenQueueClosed(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	queue := newPartitionedQueue[events.ExportRequestedEvent](2, 1)
	logger, _ := loggers.New("info")
	consumer := NewExportConsumer(queue, reportmocks.NewMockExportService(ctrl), logger)

	consumer.Start(context.Background())
	queue.Close()

	done := make(chan struct{})
	go func() {
		consumer.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("consumer did not stop")
	}
}
