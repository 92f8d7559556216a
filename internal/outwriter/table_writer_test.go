package outwriter

import (
	"bytes"
	"testing"
	"time"

	"dbperf-analytics/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteSlowestTable(t *testing.T) {
	t.Parallel()

	t0 := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	records := []*models.OperationRecord{
		{Seq: 7, Timestamp: t0, Database: "oracle", Operation: "select", DurationMs: 930, TimeBetweenMs: models.Defined(12)},
		{Seq: 0, Timestamp: t0.Add(-time.Minute), Database: "mysql", Operation: "connect", DurationMs: 410, TimeBetweenMs: models.Undefined()},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteSlowestTable(&buf, records))

	out := buf.String()
	assert.Contains(t, out, "2024-03-01 10:00:00.000")
	assert.Contains(t, out, "930.00")
	assert.Contains(t, out, "410.00")
	assert.Contains(t, out, "oracle")
	assert.Contains(t, out, "connect")
	// a buffer is never a terminal, so no escape sequences
	assert.NotContains(t, out, "\x1b[")
}

func TestWriteSummaryTable(t *testing.T) {
	t.Parallel()

	boxes := []models.BoxSummary{
		{Label: "select", Count: 4, Min: 1, Q1: 2, Median: 3, Q3: 4, Max: 5, Mean: 3},
		{Label: "insert", Count: 0},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteSummaryTable(&buf, boxes))

	out := buf.String()
	assert.Contains(t, out, "select")
	assert.Contains(t, out, "insert")
	assert.Contains(t, out, "3.00")
	assert.NotContains(t, out, "\x1b[")
}

func TestWriteSlowestTable_Empty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteSlowestTable(&buf, nil))
}

func TestHighlighter(t *testing.T) {
	t.Parallel()

	h := newHighlighter(&bytes.Buffer{}, []float64{1, 2, 3, 4, 100})
	assert.False(t, h.enabled)
	assert.Equal(t, "100.00", h.format(100))

	h.enabled = true
	assert.Greater(t, h.threshold, 4.0)
	assert.Less(t, h.threshold, 100.0)
	assert.Equal(t, "4.00", h.format(4))
}
