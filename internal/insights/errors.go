package insights

import (
	"fmt"

	"dbperf-analytics/internal/shared/svcerrors"
)

// SeriesService errors
const (
	codeValidationFailed = "INS_1000"

	codeInternalOperationLogStoreFailed = "INS_9000"
	codeInternalComputeFailed           = "INS_9001"
)

// errValidationFailed returns an error for an invalid filter selection.
func errValidationFailed(msg string, cause error) *svcerrors.ServiceError {
	return svcerrors.NewInvalidArgumentError(codeValidationFailed, msg, cause)
}

func errInternalOperationLogStoreFailed(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(codeInternalOperationLogStoreFailed, fmt.Errorf("operationLogStoreFailed: %w", cause))
}

func errInternalComputeFailed(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(codeInternalComputeFailed, fmt.Errorf("computeFailed: %w", cause))
}
