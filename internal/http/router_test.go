package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	insightmocks "dbperf-analytics/internal/insights/mocks"
	"dbperf-analytics/internal/models"
	"dbperf-analytics/internal/shared/loggers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestRouter_Healthz(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	logger, _ := loggers.New("info")
	router := NewRouter(Services{Series: insightmocks.NewMockSeriesService(ctrl)}, logger, RateLimit{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestRouter_SeriesBadJSON(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	logger, _ := loggers.New("info")
	router := NewRouter(Services{Series: insightmocks.NewMockSeriesService(ctrl)}, logger, RateLimit{})

	req := httptest.NewRequest(http.MethodPost, "/series", strings.NewReader(`not json`))
	req.Header.Set(headerRequestID, "req-1")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)

	var errorResponse ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &errorResponse))
	assert.Equal(t, "req-1", errorResponse.RequestID)
	assert.Equal(t, "invalid_argument", errorResponse.ErrorCategory)
	assert.Equal(t, codeInvalidRequestBody, errorResponse.ErrorCode)
}

func TestRouter_SeriesRateLimited(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSeriesService := insightmocks.NewMockSeriesService(ctrl)
	mockSeriesService.EXPECT().
		Compute(gomock.Any(), gomock.Any()).
		Return(&models.SeriesBundle{}, nil).
		Times(2)

	logger, _ := loggers.New("info")
	// one token per hour: only the burst gets through
	router := NewRouter(Services{Series: mockSeriesService}, logger, RateLimit{RPS: 1.0 / 3600, Burst: 2})

	codes := make([]int, 0, 3)
	var last *httptest.ResponseRecorder
	for range 3 {
		req := httptest.NewRequest(http.MethodPost, "/series", strings.NewReader(`{"databases":[],"operations":[]}`))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
		last = rr
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.Equal(t, "1", last.Header().Get(headerRetryAfter))

	var errorResponse ErrorResponse
	require.NoError(t, json.Unmarshal(last.Body.Bytes(), &errorResponse))
	assert.Equal(t, "resource_exhausted", errorResponse.ErrorCategory)
	assert.Equal(t, codeRateLimitExceeded, errorResponse.ErrorCode)
	assert.NotEmpty(t, errorResponse.RequestID)
}

func TestRouter_FiltersNotRateLimited(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSeriesService := insightmocks.NewMockSeriesService(ctrl)
	mockSeriesService.EXPECT().
		Filters(gomock.Any()).
		Return(&models.FilterSelection{Databases: []string{}, Operations: []string{}}, nil).
		Times(3)

	logger, _ := loggers.New("info")
	router := NewRouter(Services{Series: mockSeriesService}, logger, RateLimit{RPS: 1.0 / 3600, Burst: 1})

	for range 3 {
		req := httptest.NewRequest(http.MethodGet, "/filters", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
	}
}
