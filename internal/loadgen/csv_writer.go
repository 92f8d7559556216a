package loadgen

import (
	"encoding/csv"
	"io"
	"strconv"

	"dbperf-analytics/internal/ingestors"
)

const timestampLayout = "2006-01-02 15:04:05.000"

var header = []string{
	ingestors.ColumnDatabase,
	ingestors.ColumnOperation,
	ingestors.ColumnTimestamp,
	ingestors.ColumnDurationMs,
	ingestors.ColumnTimeBetween,
}

// WriteCSV writes entries with a header row. Timestamps carry millisecond precision and no zone.
func WriteCSV(w io.Writer, entries []Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, e := range entries {
		row := []string{
			e.Database,
			e.Operation,
			e.Timestamp.UTC().Format(timestampLayout),
			strconv.FormatInt(e.DurationMs, 10),
			strconv.FormatInt(e.TimeBetweenMs, 10),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
