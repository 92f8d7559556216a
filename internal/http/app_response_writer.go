package http

import (
	"net/http"

	"dbperf-analytics/internal/shared/svcerrors"

	"github.com/go-chi/chi/v5/middleware"
)

// appResponseWriter records what a handler sent so that the metrics and completion log
// middlewares can report it after the fact.
type appResponseWriter struct {
	middleware.WrapResponseWriter
	svcError *svcerrors.ServiceError
}

func newAppResponseWriter(w http.ResponseWriter, protoMajor int) *appResponseWriter {
	return &appResponseWriter{
		WrapResponseWriter: middleware.NewWrapResponseWriter(w, protoMajor),
	}
}

func (w *appResponseWriter) SetServiceError(svcError *svcerrors.ServiceError) {
	w.svcError = svcError
}

func (w *appResponseWriter) ErrorCode() string {
	if w.svcError != nil {
		return w.svcError.Code
	}
	return ""
}

// StatusOrOK returns the written status code, or 200 when the handler never called WriteHeader.
func (w *appResponseWriter) StatusOrOK() int {
	if status := w.Status(); status != 0 {
		return status
	}
	return http.StatusOK
}

// responseSummary reads status, error code and body size from w when it is an appResponseWriter.
func responseSummary(w http.ResponseWriter) (status int, errorCode string, size int) {
	appWriter, ok := w.(*appResponseWriter)
	if !ok {
		return http.StatusOK, "", 0
	}
	return appWriter.StatusOrOK(), appWriter.ErrorCode(), appWriter.BytesWritten()
}
