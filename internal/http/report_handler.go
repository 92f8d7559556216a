package http

import (
	"io"
	"net/http"
	"path"
	"time"

	"dbperf-analytics/internal/events"
	"dbperf-analytics/internal/models"
	"dbperf-analytics/internal/reports"
	"dbperf-analytics/internal/streams"

	"github.com/go-chi/chi/v5"
)

const (
	paramReportID = "reportID"
	paramArtifact = "artifact"
)

var artifactContentTypes = map[string]string{
	".json":    contentTypeJSON,
	".yaml":    "application/yaml",
	".parquet": "application/vnd.apache.parquet",
	".txt":     "text/plain; charset=utf-8",
}

type createReportHandler struct {
	exportService  reports.ExportService
	exportProducer streams.ExportProducer
	now            func() time.Time
}

func NewCreateReportHandler(exportService reports.ExportService, exportProducer streams.ExportProducer) AppHttpHandler {
	return &createReportHandler{
		exportService:  exportService,
		exportProducer: exportProducer,
		now:            time.Now,
	}
}

// Handle processes POST /reports requests. The export itself runs in the background.
func (h *createReportHandler) Handle(w http.ResponseWriter, r *http.Request) error {
	filter, err := decodeFilter(w, r)
	if err != nil {
		return err
	}

	reportID, err := h.exportService.Request(r.Context(), filter)
	if err != nil {
		return err
	}

	event := events.ExportRequestedEvent{
		ReportID:    reportID,
		RequestID:   requestID(r),
		Filter:      filter,
		RequestedAt: h.now().UTC(),
	}
	if err := h.exportProducer.Produce(r.Context(), event); err != nil {
		return errInternalEnqueueFailed(err)
	}

	w.Header().Set("Location", "/reports/"+reportID)
	return writeJSON(w, http.StatusAccepted, models.ReportState{
		ReportID:  reportID,
		Status:    models.ReportStatusPending,
		Artifacts: []string{reports.ArtifactRequest},
	})
}

type getReportHandler struct {
	exportService reports.ExportService
}

func NewGetReportHandler(exportService reports.ExportService) AppHttpHandler {
	return &getReportHandler{exportService: exportService}
}

// Handle processes GET /reports/{reportID} requests.
func (h *getReportHandler) Handle(w http.ResponseWriter, r *http.Request) error {
	state, err := h.exportService.State(r.Context(), chi.URLParam(r, paramReportID))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, state)
}

type getArtifactHandler struct {
	exportService reports.ExportService
}

func NewGetArtifactHandler(exportService reports.ExportService) AppHttpHandler {
	return &getArtifactHandler{exportService: exportService}
}

// Handle processes GET /reports/{reportID}/artifacts/{artifact} requests.
func (h *getArtifactHandler) Handle(w http.ResponseWriter, r *http.Request) error {
	name := chi.URLParam(r, paramArtifact)
	rc, err := h.exportService.Open(r.Context(), chi.URLParam(r, paramReportID), name)
	if err != nil {
		return err
	}
	defer rc.Close()

	ct, ok := artifactContentTypes[path.Ext(name)]
	if !ok {
		ct = "application/octet-stream"
	}
	w.Header().Set("Content-Type", ct)
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, rc)
	return nil
}
