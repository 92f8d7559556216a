package http

import (
	"encoding/json"
	"mime"
	"net/http"

	"dbperf-analytics/internal/insights"
	"dbperf-analytics/internal/models"
)

const maxFilterRequestBytes = 1 << 20

// decodeFilter reads a JSON FilterSelection body. A missing content type is accepted.
func decodeFilter(w http.ResponseWriter, r *http.Request) (models.FilterSelection, error) {
	var filter models.FilterSelection
	if ct := contentType(r); ct != "" {
		mediaType, _, err := mime.ParseMediaType(ct)
		if err != nil || mediaType != contentTypeJSON {
			return filter, errUnsupportedMedia(ct)
		}
	}

	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxFilterRequestBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&filter); err != nil {
		return filter, errInvalidRequestBody(err)
	}
	return filter, nil
}

type seriesHandler struct {
	seriesService insights.SeriesService
}

func NewSeriesHandler(seriesService insights.SeriesService) AppHttpHandler {
	return &seriesHandler{
		seriesService: seriesService,
	}
}

// Handle processes POST /series requests.
func (h *seriesHandler) Handle(w http.ResponseWriter, r *http.Request) error {
	filter, err := decodeFilter(w, r)
	if err != nil {
		return err
	}

	bundle, err := h.seriesService.Compute(r.Context(), filter)
	if err != nil {
		return err
	}

	return writeJSON(w, http.StatusOK, bundle)
}

type filtersHandler struct {
	seriesService insights.SeriesService
}

func NewFiltersHandler(seriesService insights.SeriesService) AppHttpHandler {
	return &filtersHandler{
		seriesService: seriesService,
	}
}

// Handle processes GET /filters requests.
func (h *filtersHandler) Handle(w http.ResponseWriter, r *http.Request) error {
	filters, err := h.seriesService.Filters(r.Context())
	if err != nil {
		return err
	}

	return writeJSON(w, http.StatusOK, filters)
}

type healthHandler struct{}

func NewHealthHandler() AppHttpHandler {
	return healthHandler{}
}

// Handle processes GET /healthz requests.
func (healthHandler) Handle(w http.ResponseWriter, _ *http.Request) error {
	return writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
