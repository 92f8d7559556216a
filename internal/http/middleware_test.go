package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"dbperf-analytics/internal/shared/loggers"
	"dbperf-analytics/internal/shared/svcerrors"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestMwRequestID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		provided string
	}{
		{name: "generated when missing"},
		{name: "kept when provided", provided: "custom-request-id-12345"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			logger, _ := loggers.New("info")
			var seen string
			handler := mwRequestID(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = requestID(r)
				assert.NotNil(t, loggers.Ctx(r.Context()))
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodPost, "/series", nil)
			if tt.provided != "" {
				req.Header.Set(headerRequestID, tt.provided)
			}
			handler.ServeHTTP(httptest.NewRecorder(), req)

			if tt.provided != "" {
				assert.Equal(t, tt.provided, seen)
			} else {
				// generated ids are ULIDs
				assert.Len(t, seen, 26)
			}
		})
	}
}

func TestMwRecoverer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		panic any
	}{
		{name: "string panic", panic: "test panic"},
		{name: "error panic", panic: assert.AnError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			logger, _ := loggers.New("info")
			handler := mwRecoverer(mwRequestID(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				panic(tt.panic)
			})))

			rr := httptest.NewRecorder()
			assert.NotPanics(t, func() {
				handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/series", nil))
			})

			assert.Equal(t, http.StatusInternalServerError, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

			var errorResponse ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &errorResponse))
			assert.NotEmpty(t, errorResponse.RequestID)
			assert.Equal(t, "internal", errorResponse.ErrorCategory)
			assert.Equal(t, "SYS_9000", errorResponse.ErrorCode)
			assert.Equal(t, "internal server error", errorResponse.ErrorDescription)
		})
	}
}

func TestMwRecoverer_PassesThroughWhenNoPanic(t *testing.T) {
	t.Parallel()

	logger, _ := loggers.New("info")
	handler := mwRecoverer(mwRequestID(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("success"))
	})))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/filters", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "success", rr.Body.String())
}

func TestMwRequestCompletionLog(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	logger, err := loggers.NewWithWriter("info", &logs)
	require.NoError(t, err)

	router := chi.NewRouter()
	setupMiddleware(router, logger)
	router.Get("/reports/{reportID}", errorHandlingAdapter(&testHandler{
		handleFunc: func(w http.ResponseWriter, r *http.Request) error {
			return svcerrors.NewNotFoundError("TEST_4040", "report not found", nil)
		},
	}))

	req := httptest.NewRequest(http.MethodGet, "/reports/01JTEST", nil)
	req.Header.Set(headerUserAgent, "curl/8.4.0")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusNotFound, rr.Code)

	var entry map[string]any
	for _, line := range bytes.Split(bytes.TrimSpace(logs.Bytes()), []byte("\n")) {
		var candidate map[string]any
		require.NoError(t, json.Unmarshal(line, &candidate))
		if candidate["message"] == "request completed" {
			entry = candidate
		}
	}
	require.NotNil(t, entry, "completion log line")
	assert.Equal(t, "/reports/01JTEST", entry[loggers.FieldHttpPath])
	assert.EqualValues(t, http.StatusNotFound, entry[loggers.FieldHttpStatus])
	assert.Equal(t, "TEST_4040", entry[loggers.FieldErrorCode])
	assert.NotEmpty(t, entry[loggers.FieldRequestID])
	assert.Positive(t, entry["bytes"])
}

func TestMwRateLimit(t *testing.T) {
	t.Parallel()

	limiter := rate.NewLimiter(rate.Limit(0.001), 2)
	router := chi.NewRouter()
	router.Use(mwAppResponseWriter)
	router.With(mwRateLimit(limiter)).Post("/series", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	codes := make([]int, 0, 3)
	var last *httptest.ResponseRecorder
	for range 3 {
		last = httptest.NewRecorder()
		router.ServeHTTP(last, httptest.NewRequest(http.MethodPost, "/series", nil))
		codes = append(codes, last.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.Equal(t, retryAfterSeconds, last.Header().Get(headerRetryAfter))

	var errorResponse ErrorResponse
	require.NoError(t, json.Unmarshal(last.Body.Bytes(), &errorResponse))
	assert.Equal(t, "resource_exhausted", errorResponse.ErrorCategory)
	assert.Equal(t, codeRateLimitExceeded, errorResponse.ErrorCode)
}

func TestSetupMiddleware_Integration(t *testing.T) {
	t.Parallel()

	logger, _ := loggers.New("info")
	router := chi.NewRouter()
	setupMiddleware(router, logger)

	router.Get("/test-id", func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, requestID(r), "request ID should be set")
		w.WriteHeader(http.StatusOK)
	})
	router.Get("/test-panic", func(w http.ResponseWriter, r *http.Request) {
		panic("integration test panic")
	})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/test-id", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	assert.NotPanics(t, func() {
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/test-panic", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rr.Code)

	var errorResponse ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &errorResponse))
	assert.NotEmpty(t, errorResponse.RequestID)
	assert.Equal(t, "SYS_9000", errorResponse.ErrorCode)
}

func TestRoutePattern(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path string
		want string
	}{
		{name: "matched route", path: "/reports/01ARZ3NDEKTSV4RRFFQ69G5FAV", want: "/reports/{reportID}"},
		{name: "unknown path", path: "/nope/12345", want: routeUnmatched},
		{name: "another unknown path", path: "/wp-admin.php", want: routeUnmatched},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got string
			router := chi.NewRouter()
			router.Use(func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					next.ServeHTTP(w, r)
					got = routePattern(r)
				})
			})
			router.Get("/reports/{reportID}", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.want, got)
		})
	}

	// outside any chi router
	assert.Equal(t, routeUnmatched, routePattern(httptest.NewRequest(http.MethodGet, "/raw/path", nil)))
}
