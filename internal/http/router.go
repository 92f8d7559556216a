package http

import (
	"net/http"

	"dbperf-analytics/internal/insights"
	"dbperf-analytics/internal/reports"
	"dbperf-analytics/internal/shared/loggers"
	"dbperf-analytics/internal/shared/metrics"
	"dbperf-analytics/internal/streams"

	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"
)

// RateLimit configures the token bucket shared by the compute routes. RPS <= 0 disables it.
type RateLimit struct {
	RPS   float64
	Burst int
}

// Services are the application services the router exposes.
type Services struct {
	Series         insights.SeriesService
	Exports        reports.ExportService
	ExportProducer streams.ExportProducer
}

// NewRouter creates and configures the HTTP router.
func NewRouter(services Services, httpLogger loggers.Logger, rateLimit RateLimit) http.Handler {
	router := chi.NewRouter()
	setupMiddleware(router, httpLogger)

	// Initialize handlers
	seriesHandler := NewSeriesHandler(services.Series)
	filtersHandler := NewFiltersHandler(services.Series)
	createReportHandler := NewCreateReportHandler(services.Exports, services.ExportProducer)
	getReportHandler := NewGetReportHandler(services.Exports)
	getArtifactHandler := NewGetArtifactHandler(services.Exports)

	// Routes
	router.Group(func(r chi.Router) {
		if rateLimit.RPS > 0 {
			r.Use(mwRateLimit(rate.NewLimiter(rate.Limit(rateLimit.RPS), max(rateLimit.Burst, 1))))
		}
		r.Post("/series", errorHandlingAdapter(seriesHandler))
		r.Post("/reports", errorHandlingAdapter(createReportHandler))
	})
	router.Get("/filters", errorHandlingAdapter(filtersHandler))
	router.Get("/reports/{"+paramReportID+"}", errorHandlingAdapter(getReportHandler))
	router.Get("/reports/{"+paramReportID+"}/artifacts/{"+paramArtifact+"}", errorHandlingAdapter(getArtifactHandler))
	router.Get("/healthz", errorHandlingAdapter(NewHealthHandler()))
	router.Get("/metrics", metrics.Handler().ServeHTTP)

	return router
}
