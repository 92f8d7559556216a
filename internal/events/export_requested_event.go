package events

import (
	"time"

	"dbperf-analytics/internal/models"
)

// ExportRequestedEvent asks a background worker to render the report for one filter.
// It is produced after the request was recorded and consumed by the export workers.
//
// Example JSON:
//
//	{
//	  "reportId": "01J9ZQ6K3V8W2G5XJ0D4R7N1TB",
//	  "requestId": "01J9ZQ6K3SWB1M0XG3A9E2HC7Q",
//	  "filter": {"databases": ["oracle"], "operations": ["select"]},
//	  "requestedAt": "2026-10-19T08:15:00Z"
//	}
type ExportRequestedEvent struct {
	ReportID    string                 `json:"reportId"`
	RequestID   string                 `json:"requestId"`
	Filter      models.FilterSelection `json:"filter"`
	RequestedAt time.Time              `json:"requestedAt"`
}
