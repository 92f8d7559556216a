package outwriter

import (
	"bytes"
	"io"
	"testing"
	"time"

	"dbperf-analytics/internal/models"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readRows[T any](t *testing.T, data []byte) []T {
	t.Helper()

	reader := parquet.NewGenericReader[T](bytes.NewReader(data))
	defer reader.Close()

	rows := make([]T, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	return rows[:n]
}

func TestSeriesRows(t *testing.T) {
	t.Parallel()

	rows := SeriesRows(sampleBundle())
	require.Len(t, rows, 3)

	assert.Equal(t, "rollingDuration", rows[0].Kind)
	assert.Nil(t, rows[0].Y)
	require.NotNil(t, rows[1].Y)
	assert.Equal(t, 15.0, *rows[1].Y)
	assert.Equal(t, "perMinuteCount", rows[2].Kind)
	assert.Equal(t, "all", rows[2].Group)
}

func TestWriteSeriesParquet(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteSeriesParquet(&buf, sampleBundle()))
	assert.Greater(t, buf.Len(), 0)

	rows := readRows[SeriesPointRow](t, buf.Bytes())
	require.Len(t, rows, 3)
	assert.Equal(t, "oracle/select", rows[0].Group)
	assert.Nil(t, rows[0].Y)
	require.NotNil(t, rows[1].Y)
	assert.Equal(t, 15.0, *rows[1].Y)
}

func TestWriteSlowestParquet(t *testing.T) {
	t.Parallel()

	t0 := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	records := []*models.OperationRecord{
		{Seq: 3, Timestamp: t0, Database: "oracle", Operation: "update", DurationMs: 88.5, TimeBetweenMs: models.Defined(4)},
		{Seq: 0, Timestamp: t0, Database: "oracle", Operation: "connect", DurationMs: 40, TimeBetweenMs: models.Undefined()},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteSlowestParquet(&buf, records))

	rows := readRows[SlowestRow](t, buf.Bytes())
	require.Len(t, rows, 2)
	assert.Equal(t, int64(3), rows[0].Seq)
	assert.Equal(t, 88.5, rows[0].DurationMs)
	require.NotNil(t, rows[0].TimeBetweenMs)
	assert.Equal(t, 4.0, *rows[0].TimeBetweenMs)
	assert.Nil(t, rows[1].TimeBetweenMs)
	assert.True(t, t0.Equal(rows[1].Timestamp))
}
