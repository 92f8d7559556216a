package reports

import (
	"fmt"

	"dbperf-analytics/internal/shared/svcerrors"
)

// ExportService errors
const (
	codeInvalidReportID     = "REP_1000"
	codeInvalidArtifactName = "REP_1001"
	codeReportNotFound      = "REP_1002"
	codeReportExists        = "REP_1003"
	codeValidationFailed    = "REP_1004"

	codeInternalReportStoreFailed = "REP_9000"
	codeInternalRenderFailed      = "REP_9001"
)

func errInvalidReportID(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInvalidArgumentError(codeInvalidReportID, "report id must be a ULID", cause)
}

func errInvalidArtifactName(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInvalidArgumentError(codeInvalidArtifactName, "invalid artifact name", cause)
}

func errReportNotFound(cause error) *svcerrors.ServiceError {
	return svcerrors.NewNotFoundError(codeReportNotFound, "report not found", cause)
}

func errReportExists(cause error) *svcerrors.ServiceError {
	return svcerrors.NewResourceConflictError(codeReportExists, "report already exported", cause)
}

func errInternalReportStoreFailed(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(codeInternalReportStoreFailed, fmt.Errorf("reportStoreFailed: %w", cause))
}

func errInternalRenderFailed(artifact string, cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(codeInternalRenderFailed, fmt.Errorf("renderFailed %s: %w", artifact, cause))
}

func errValidationFailed(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInvalidArgumentError(codeValidationFailed, "database and operation names must not be blank", cause)
}
