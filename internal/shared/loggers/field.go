package loggers

const (
	FieldApp        = "app"
	FieldComponent  = "component"
	FieldHttpMethod = "http_method"
	FieldHttpPath   = "http_path"
	FieldHttpStatus = "http_status"
	FieldClient     = "client"

	FieldDuration   = "duration"
	FieldRequestID  = "request_id"
	FieldErrorStack = "error_stack"
	FieldErrorCode  = "error_code"

	FieldSource     = "source"
	FieldLine       = "line"
	FieldReason     = "reason"
	FieldFilterKey  = "filter_key"
	FieldRecordSize = "record_count"
	FieldReportID   = "report_id"
	FieldArtifact   = "artifact"
	FieldPartition  = "partition_id"
	FieldSeries     = "series"
)
