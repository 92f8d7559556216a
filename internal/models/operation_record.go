package models

import (
	"slices"
	"sort"
	"time"
)

// OperationRecord is one timed database operation from the performance log.
type OperationRecord struct {
	// Seq is the position in global ingestion order, starting at 0.
	Seq        int       `json:"seq" yaml:"seq"`
	Timestamp  time.Time `json:"timestamp" yaml:"timestamp"`
	Operation  string    `json:"operation" yaml:"operation"`
	Database   string    `json:"database" yaml:"database"`
	DurationMs float64   `json:"durationMs" yaml:"durationMs"`
	// TimeBetweenMs is the gap to the previous record in global order.
	// Undefined for the first record of the log.
	TimeBetweenMs OptionalFloat `json:"timeBetweenMs" yaml:"timeBetweenMs"`
}

// OperationLog is the immutable, time-ordered log loaded once at startup.
// Nothing downstream of the reader mutates it.
type OperationLog struct {
	Records    []*OperationRecord
	Databases  []string
	Operations []string
}

// NewOperationLog orders records by timestamp, keeping input order for equal
// timestamps, then sets Seq and TimeBetweenMs on each record from the global order.
// The given slice itself is left in its original order.
func NewOperationLog(records []*OperationRecord) *OperationLog {
	ordered := slices.Clone(records)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})

	databases := make(map[string]struct{})
	operations := make(map[string]struct{})
	for i, r := range ordered {
		r.Seq = i
		if i == 0 {
			r.TimeBetweenMs = Undefined()
		} else {
			gap := r.Timestamp.Sub(ordered[i-1].Timestamp)
			r.TimeBetweenMs = Defined(float64(gap) / float64(time.Millisecond))
		}
		databases[r.Database] = struct{}{}
		operations[r.Operation] = struct{}{}
	}

	return &OperationLog{
		Records:    ordered,
		Databases:  sortedKeys(databases),
		Operations: sortedKeys(operations),
	}
}

// Span returns the first and last timestamps of the log. ok is false for an empty log.
func (l *OperationLog) Span() (first, last time.Time, ok bool) {
	if len(l.Records) == 0 {
		return time.Time{}, time.Time{}, false
	}
	return l.Records[0].Timestamp, l.Records[len(l.Records)-1].Timestamp, true
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
