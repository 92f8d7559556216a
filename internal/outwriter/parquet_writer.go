package outwriter

import (
	"fmt"
	"io"
	"time"

	"dbperf-analytics/internal/models"

	"github.com/parquet-go/parquet-go"
)

// SeriesPointRow is one point of one series in the Parquet export.
type SeriesPointRow struct {
	// Kind names the bundle field the series came from, e.g. rollingDuration
	Kind    string    `parquet:"kind,snappy"`
	Group   string    `parquet:"group,snappy"`
	Title   string    `parquet:"title,snappy"`
	Segment int32     `parquet:"segment,snappy"`
	X       time.Time `parquet:"x,snappy"`
	// Y is null where the value is undefined
	Y     *float64 `parquet:"y,optional,snappy"`
	Label *string  `parquet:"label,optional,snappy"`
}

// SlowestRow is one record of the slowest-operations export.
type SlowestRow struct {
	Seq           int64     `parquet:"seq,snappy"`
	Timestamp     time.Time `parquet:"timestamp,snappy"`
	Database      string    `parquet:"database,snappy"`
	Operation     string    `parquet:"operation,snappy"`
	DurationMs    float64   `parquet:"duration_ms,snappy"`
	TimeBetweenMs *float64  `parquet:"time_between_ms,optional,snappy"`
}

// WriteSeriesParquet flattens every time series of the bundle into rows.
func WriteSeriesParquet(w io.Writer, bundle *models.SeriesBundle) error {
	rows := SeriesRows(bundle)

	writer := parquet.NewGenericWriter[SeriesPointRow](w)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}

// WriteSlowestParquet writes the given records in their given order.
func WriteSlowestParquet(w io.Writer, records []*models.OperationRecord) error {
	rows := make([]SlowestRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, SlowestRow{
			Seq:           int64(r.Seq),
			Timestamp:     r.Timestamp.UTC(),
			Database:      r.Database,
			Operation:     r.Operation,
			DurationMs:    r.DurationMs,
			TimeBetweenMs: r.TimeBetweenMs.Ptr(),
		})
	}

	writer := parquet.NewGenericWriter[SlowestRow](w)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}

// SeriesRows flattens the bundle's series in a fixed kind order.
func SeriesRows(bundle *models.SeriesBundle) []SeriesPointRow {
	var rows []SeriesPointRow
	appendAll := func(kind string, series ...models.Series) {
		for _, s := range series {
			for _, p := range s.Points {
				row := SeriesPointRow{
					Kind:    kind,
					Group:   s.Group,
					Title:   s.Title,
					Segment: int32(s.Segment),
					X:       p.X.UTC(),
					Y:       p.Y.Ptr(),
				}
				if p.Label != "" {
					label := p.Label
					row.Label = &label
				}
				rows = append(rows, row)
			}
		}
	}

	appendAll("rawDuration", bundle.RawDuration...)
	appendAll("rawTimeBetween", bundle.RawTimeBetween...)
	appendAll("rollingDuration", bundle.RollingDuration...)
	appendAll("connectVsOther", bundle.ConnectVsOther...)
	appendAll("perMinuteCount", bundle.PerMinuteCount)
	appendAll("concurrency", bundle.Concurrency)
	return rows
}
