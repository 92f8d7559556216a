package models

import "time"

// ReportManifest describes a completed export. It is written last, so its presence
// marks the report as complete.
//
// Example JSON:
//
//	{
//	  "reportId": "01J9ZQ6K3V8W2G5XJ0D4R7N1TB",
//	  "filter": {"databases": ["oracle"], "operations": ["select", "update"]},
//	  "recordCount": 1240,
//	  "artifacts": ["bundle.json", "bundle.yaml", "series.parquet", "slowest.parquet", "summary.txt"],
//	  "createdAt": "2026-10-19T08:15:02Z"
//	}
type ReportManifest struct {
	ReportID    string          `json:"reportId" yaml:"reportId"`
	Filter      FilterSelection `json:"filter" yaml:"filter"`
	RecordCount int             `json:"recordCount" yaml:"recordCount"`
	Artifacts   []string        `json:"artifacts" yaml:"artifacts"`
	CreatedAt   time.Time       `json:"createdAt" yaml:"createdAt"`
}

type ReportStatus string

const (
	ReportStatusPending   ReportStatus = "pending"
	ReportStatusCompleted ReportStatus = "completed"
)

// ReportState is the externally visible progress of one report.
type ReportState struct {
	ReportID  string       `json:"reportId" yaml:"reportId"`
	Status    ReportStatus `json:"status" yaml:"status"`
	Artifacts []string     `json:"artifacts" yaml:"artifacts"`
}
