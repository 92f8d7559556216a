package http

import (
	"dbperf-analytics/internal/shared/svcerrors"
)

// Transport errors
const (
	codeInvalidRequestBody = "HTTP_1000"
	codeUnsupportedMedia   = "HTTP_1001"
	codeRateLimitExceeded  = "HTTP_1002"

	codeInternalEncodeFailed  = "HTTP_9000"
	codeInternalEnqueueFailed = "HTTP_9001"
)

func errInvalidRequestBody(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInvalidArgumentError(codeInvalidRequestBody, "request body must be a JSON filter selection", cause)
}

func errUnsupportedMedia(contentType string) *svcerrors.ServiceError {
	return svcerrors.NewInvalidArgumentError(codeUnsupportedMedia, "unsupported content type: "+contentType, nil)
}

func errRateLimitExceeded() *svcerrors.ServiceError {
	return svcerrors.NewResourceExhaustedError(codeRateLimitExceeded, "too many requests", nil)
}

func errInternalEncodeFailed(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(codeInternalEncodeFailed, cause)
}

func errInternalEnqueueFailed(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(codeInternalEnqueueFailed, cause)
}
