package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"dbperf-analytics/internal/events"
	internalhttp "dbperf-analytics/internal/http"
	"dbperf-analytics/internal/shared/configs"
	"dbperf-analytics/internal/shared/loggers"
	"dbperf-analytics/internal/streams"
)

// App holds all server dependencies and manages lifecycle.
type App struct {
	config    *configs.Config
	appLogger loggers.Logger
	server    *http.Server
	core      *Core

	exportQueue      *streams.PartitionedQueue[events.ExportRequestedEvent]
	exportConsumer   streams.ExportConsumer
	backgroundCtx    context.Context
	backgroundCancel context.CancelFunc
}

// New creates and initializes a new App instance.
func New(ctx context.Context, config *configs.Config) (*App, error) {
	appLogger, err := loggers.New(config.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	appLogger = appLogger.With().
		Str(loggers.FieldApp, "dbperf-analytics").
		Logger()

	core, err := NewCore(ctx, config, appLogger)
	if err != nil {
		return nil, err
	}

	// Initialize export stream
	exportQueue := streams.NewPartitionedQueue[events.ExportRequestedEvent]()
	exportProducer := streams.NewExportProducer(exportQueue)
	consumerLogger := appLogger.With().Str(loggers.FieldComponent, "consumer").Logger()
	exportConsumer := streams.NewExportConsumer(exportQueue, core.ExportService, consumerLogger)

	// Initialize http router
	httpLogger := appLogger.With().Str(loggers.FieldComponent, "http").Logger()
	router := internalhttp.NewRouter(internalhttp.Services{
		Series:         core.SeriesService,
		Exports:        core.ExportService,
		ExportProducer: exportProducer,
	}, httpLogger, internalhttp.RateLimit{
		RPS:   config.RateLimit.RPS,
		Burst: config.RateLimit.Burst,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", config.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: time.Duration(config.Server.ReadHeaderTimeout) * time.Second,
		ReadTimeout:       time.Duration(config.Server.ReadTimeout) * time.Second,
		WriteTimeout:      time.Duration(config.Server.WriteTimeout) * time.Second,
		IdleTimeout:       time.Duration(config.Server.IdleTimeout) * time.Second,
	}

	return &App{
		config:         config,
		appLogger:      appLogger,
		server:         server,
		core:           core,
		exportQueue:    exportQueue,
		exportConsumer: exportConsumer,
	}, nil
}

// Start starts the HTTP server in a blocking manner.
func (app *App) Start() error {
	app.appLogger.Info().
		Int(loggers.FieldRecordSize, len(app.core.Log.Records)).
		Msgf("Starting dbperf-analytics service on port %d (log_level=%s, source=%s, file_storage_root_dir=%s)",
			app.config.Server.Port,
			app.config.Log.Level,
			app.config.Source.Kind,
			app.config.FileStorage.RootDir)

	// start background consumers
	app.backgroundCtx, app.backgroundCancel = context.WithCancel(context.Background())
	app.exportConsumer.Start(app.backgroundCtx)

	return app.server.ListenAndServe()
}

// Shutdown gracefully shuts down the application. Exports still queued stay pending.
func (app *App) Shutdown(ctx context.Context) error {
	// 1) Shutdown server
	app.appLogger.Info().Msg("Shutting down server...")
	if err := app.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	app.appLogger.Info().Msg("Server stopped")

	// 2) Stop accepting exports, then cancel background consumers
	app.exportQueue.Close()
	if app.backgroundCancel != nil {
		app.backgroundCancel()
		app.appLogger.Info().Msg("Background consumers cancelled")
	}

	// 3) Wait for background consumers to finish
	app.exportConsumer.Stop()
	app.appLogger.Info().Msg("Background consumers stopped")

	return nil
}

// ShutdownTimeout is how long Shutdown may wait for in-flight requests.
func (app *App) ShutdownTimeout() time.Duration {
	return time.Duration(app.config.Server.ShutdownTimeout) * time.Second
}
