package app

import (
	"context"
	"fmt"
	"time"

	"dbperf-analytics/internal/ingestors"
	"dbperf-analytics/internal/insights"
	"dbperf-analytics/internal/models"
	"dbperf-analytics/internal/reports"
	"dbperf-analytics/internal/shared/configs"
	"dbperf-analytics/internal/shared/filestorages"
	"dbperf-analytics/internal/shared/loggers"
	"dbperf-analytics/internal/stores"
)

// Core holds the services shared by the HTTP server and the CLI commands.
type Core struct {
	Log           *models.OperationLog
	SeriesService insights.SeriesService
	ExportService reports.ExportService
}

// NewCore reads the operation log once and builds the services over it.
// Every failure here is a setup error.
func NewCore(ctx context.Context, config *configs.Config, logger loggers.Logger) (*Core, error) {
	opts, err := AnalysisOptions(config.Analysis)
	if err != nil {
		return nil, fmt.Errorf("invalid analysis options: %w", err)
	}

	readerLogger := logger.With().Str(loggers.FieldComponent, "ingestion").Logger()
	log, err := readLog(readerLogger.WithContext(ctx), config.Source)
	if err != nil {
		return nil, err
	}

	cacheSize := 0
	if config.Cache.Enabled {
		cacheSize = config.Cache.Size
	}
	logStore := stores.NewOperationLogStore(log)
	seriesService, err := insights.NewSeriesService(logStore, opts, cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize series service: %w", err)
	}

	// Initialize blob store
	fileStorage, err := filestorages.NewFileStorage(config.FileStorage.RootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	reportStore := stores.NewReportStore(fileStorage)
	exportService := reports.NewExportService(seriesService, reportStore)

	return &Core{
		Log:           log,
		SeriesService: seriesService,
		ExportService: exportService,
	}, nil
}

// AnalysisOptions converts the analysis config into insights options. Range checks are
// left to insights.Options.Validate.
func AnalysisOptions(cfg configs.AnalysisConfig) (insights.Options, error) {
	gap, err := time.ParseDuration(cfg.GapThreshold)
	if err != nil {
		return insights.Options{}, fmt.Errorf("gap_threshold: %w", err)
	}
	concurrency, err := models.ParseBucketWidth(cfg.ConcurrencyBucket)
	if err != nil {
		return insights.Options{}, fmt.Errorf("concurrency_bucket: %w", err)
	}
	throughput, err := models.ParseBucketWidth(cfg.ThroughputBucket)
	if err != nil {
		return insights.Options{}, fmt.Errorf("throughput_bucket: %w", err)
	}
	granularity, err := models.ParseGranularity(cfg.Granularity)
	if err != nil {
		return insights.Options{}, fmt.Errorf("granularity: %w", err)
	}

	return insights.Options{
		RollingWindow:    cfg.RollingWindow,
		GapThreshold:     gap,
		ConcurrencyWidth: concurrency,
		ThroughputWidth:  throughput,
		TopN:             cfg.TopN,
		HistogramBins:    cfg.HistogramBins,
		Granularity:      granularity,
		ConnectOperation: cfg.ConnectOperation,
	}, nil
}

func readLog(ctx context.Context, source configs.SourceConfig) (*models.OperationLog, error) {
	switch source.Kind {
	case "csv":
		log, err := ingestors.NewCSVLogReader(source.Path).Read(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to read operation log %q: %w", source.Path, err)
		}
		return log, nil
	case "sql":
		db, err := ingestors.OpenDB(source.Driver, source.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s database: %w", source.Driver, err)
		}
		defer func() { _ = db.Close() }()

		reader, err := ingestors.NewSQLLogReader(db, source.Driver, source.Table)
		if err != nil {
			return nil, err
		}
		log, err := reader.Read(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to read operation log table %q: %w", source.Table, err)
		}
		return log, nil
	default:
		return nil, fmt.Errorf("%w: %q", ingestors.ErrUnsupportedKind, source.Kind)
	}
}
