package ingestors

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"dbperf-analytics/internal/models"
	"dbperf-analytics/internal/shared/loggers"
)

const (
	ColumnDatabase    = "database"
	ColumnOperation   = "operation"
	ColumnTimestamp   = "timestamp"
	ColumnDurationMs  = "duration_ms"
	ColumnTimeBetween = "time_between_ms"
)

// timestampLayouts are tried in order. Layouts without a zone are read as UTC.
var timestampLayouts = []string{
	"2006-01-02 15:04:05.000",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	time.RFC3339Nano,
	time.RFC3339,
}

// LogReader loads the whole operation log once. Bad rows are skipped with a warning;
// an unreadable source is an error.
//
//go:generate mockgen -source=log_reader.go -destination=./mocks/log_reader_mock.go -package=mocks
type LogReader interface {
	Read(ctx context.Context) (*models.OperationLog, error)
}

// rawRecord is one row before validation. Values come straight from the source driver
// or CSV cell, so they may be strings, bytes, numbers or times.
type rawRecord struct {
	line      int
	database  any
	operation any
	timestamp any
	duration  any
}

// recordCollector validates raw rows and builds the final log.
type recordCollector struct {
	source   string
	records  []*models.OperationRecord
	excluded int
}

func newRecordCollector(source string) *recordCollector {
	return &recordCollector{source: source}
}

func (c *recordCollector) add(ctx context.Context, raw rawRecord) {
	record, reason := parseRecord(raw)
	if reason != "" {
		c.exclude(ctx, raw.line, reason)
		return
	}
	c.records = append(c.records, record)
}

func (c *recordCollector) exclude(ctx context.Context, line int, reason string) {
	c.excluded++
	metricRecordsExcludedTotal.WithLabelValues(c.source, reason).Inc()
	loggers.Ctx(ctx).Warn().
		Str(loggers.FieldSource, c.source).
		Int(loggers.FieldLine, line).
		Str(loggers.FieldReason, reason).
		Msg("record excluded from operation log")
}

func (c *recordCollector) finish(ctx context.Context) *models.OperationLog {
	metricRecordsReadTotal.WithLabelValues(c.source).Add(float64(len(c.records)))
	log := models.NewOperationLog(c.records)
	metricLogRecords.WithLabelValues(c.source).Set(float64(len(log.Records)))

	loggers.Ctx(ctx).Info().
		Str(loggers.FieldSource, c.source).
		Int(loggers.FieldRecordSize, len(log.Records)).
		Int("excluded", c.excluded).
		Strs("databases", log.Databases).
		Strs("operations", log.Operations).
		Msg("operation log loaded")
	return log
}

func parseRecord(raw rawRecord) (*models.OperationRecord, string) {
	database := asString(raw.database)
	if database == "" {
		return nil, reasonMissingDatabase
	}
	operation := asString(raw.operation)
	if operation == "" {
		return nil, reasonMissingOperation
	}

	ts, reason := parseTimestamp(raw.timestamp)
	if reason != "" {
		return nil, reason
	}
	duration, reason := parseDuration(raw.duration)
	if reason != "" {
		return nil, reason
	}

	return &models.OperationRecord{
		Timestamp:  ts,
		Database:   database,
		Operation:  operation,
		DurationMs: duration,
	}, ""
}

// Bucketing works on Unix nanoseconds, so only instants an int64 of them can hold
// are accepted.
var (
	minTimestamp = time.Unix(0, math.MinInt64).UTC()
	maxTimestamp = time.Unix(0, math.MaxInt64).UTC()
)

func parseTimestamp(v any) (time.Time, string) {
	if t, ok := v.(time.Time); ok {
		if t.IsZero() {
			return time.Time{}, reasonMissingTimestamp
		}
		return checkTimestampRange(t)
	}

	s := asString(v)
	if s == "" {
		return time.Time{}, reasonMissingTimestamp
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return checkTimestampRange(t)
		}
	}
	return time.Time{}, reasonInvalidTimestamp
}

func checkTimestampRange(t time.Time) (time.Time, string) {
	if t.Before(minTimestamp) || t.After(maxTimestamp) {
		return time.Time{}, reasonTimestampRange
	}
	return t.UTC(), ""
}

func parseDuration(v any) (float64, string) {
	var d float64
	switch x := v.(type) {
	case float64:
		d = x
	case float32:
		d = float64(x)
	case int64:
		d = float64(x)
	case int:
		d = float64(x)
	default:
		s := asString(v)
		if s == "" {
			return 0, reasonMissingDuration
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, reasonInvalidDuration
		}
		d = parsed
	}

	if math.IsNaN(d) || math.IsInf(d, 0) {
		return 0, reasonNonFiniteDuration
	}
	if d < 0 {
		return 0, reasonNegativeDuration
	}
	return d, ""
}

func asString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case []byte:
		return strings.TrimSpace(string(x))
	default:
		return strings.TrimSpace(fmt.Sprint(x))
	}
}
