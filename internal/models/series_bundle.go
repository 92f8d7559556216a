package models

import "time"

// Point is one (x, y) sample of a time series. Label carries the operation name
// for per-record points.
type Point struct {
	X     time.Time     `json:"x" yaml:"x"`
	Y     OptionalFloat `json:"y" yaml:"y"`
	Label string        `json:"label,omitempty" yaml:"label,omitempty"`
}

// Series is an ordered sequence of points plus the metadata a renderer needs.
type Series struct {
	Group  string `json:"group" yaml:"group"`
	Title  string `json:"title" yaml:"title"`
	XLabel string `json:"xLabel" yaml:"xLabel"`
	YLabel string `json:"yLabel" yaml:"yLabel"`
	// Segment is the index of the gap-free run this series belongs to within its group.
	Segment int     `json:"segment" yaml:"segment"`
	Points  []Point `json:"points" yaml:"points"`
}

type HistogramBin struct {
	Lower float64 `json:"lower" yaml:"lower"`
	Upper float64 `json:"upper" yaml:"upper"`
	Count int     `json:"count" yaml:"count"`
}

type Histogram struct {
	Title  string         `json:"title" yaml:"title"`
	XLabel string         `json:"xLabel" yaml:"xLabel"`
	YLabel string         `json:"yLabel" yaml:"yLabel"`
	Bins   []HistogramBin `json:"bins" yaml:"bins"`
}

// BoxSummary holds the five-number summary and mean of one group's values.
type BoxSummary struct {
	Label  string  `json:"label" yaml:"label"`
	Count  int     `json:"count" yaml:"count"`
	Min    float64 `json:"min" yaml:"min"`
	Q1     float64 `json:"q1" yaml:"q1"`
	Median float64 `json:"median" yaml:"median"`
	Q3     float64 `json:"q3" yaml:"q3"`
	Max    float64 `json:"max" yaml:"max"`
	Mean   float64 `json:"mean" yaml:"mean"`
}

// SeriesBundle is everything a renderer needs to draw the dashboard for one filter.
//
// Example JSON (abridged):
//
//	{
//	  "filter": {"databases": ["oracle"], "operations": ["select"]},
//	  "granularity": "database_operation",
//	  "rawDuration": [{"group": "oracle/select", "title": "Raw Operation Duration Over Time", "points": [...]}],
//	  "rollingDuration": [{"group": "oracle/select", "segment": 0, "points": [{"x": "...", "y": null}, ...]}],
//	  "perMinuteCount": {"group": "all", "points": [...]},
//	  "concurrency": {"group": "all", "points": [...]},
//	  "slowest": [{"seq": 17, "durationMs": 930, ...}]
//	}
type SeriesBundle struct {
	Filter      FilterSelection `json:"filter" yaml:"filter"`
	Granularity Granularity     `json:"granularity" yaml:"granularity"`
	RecordCount int             `json:"recordCount" yaml:"recordCount"`

	RawDuration     []Series `json:"rawDuration" yaml:"rawDuration"`
	RawTimeBetween  []Series `json:"rawTimeBetween" yaml:"rawTimeBetween"`
	RollingDuration []Series `json:"rollingDuration" yaml:"rollingDuration"`
	ConnectVsOther  []Series `json:"connectVsOther" yaml:"connectVsOther"`
	PerMinuteCount  Series   `json:"perMinuteCount" yaml:"perMinuteCount"`
	Concurrency     Series   `json:"concurrency" yaml:"concurrency"`

	DurationHistogram    Histogram `json:"durationHistogram" yaml:"durationHistogram"`
	TimeBetweenHistogram Histogram `json:"timeBetweenHistogram" yaml:"timeBetweenHistogram"`

	DurationByOperation []BoxSummary `json:"durationByOperation" yaml:"durationByOperation"`
	DurationByDatabase  []BoxSummary `json:"durationByDatabase" yaml:"durationByDatabase"`
	DurationByGroup     []BoxSummary `json:"durationByGroup" yaml:"durationByGroup"`

	Slowest []*OperationRecord `json:"slowest" yaml:"slowest"`

	// Warnings lists series left empty because they could not be derived for this
	// selection. The rest of the bundle is still complete.
	Warnings []SeriesWarning `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// SeriesWarning names a series that was emitted empty and why.
type SeriesWarning struct {
	Series string `json:"series" yaml:"series"`
	Reason string `json:"reason" yaml:"reason"`
}
