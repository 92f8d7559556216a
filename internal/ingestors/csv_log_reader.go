package ingestors

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"dbperf-analytics/internal/models"
	"dbperf-analytics/internal/shared/loggers"
)

const sourceCSV = "csv"

var requiredColumns = []string{ColumnDatabase, ColumnOperation, ColumnTimestamp, ColumnDurationMs}

type csvLogReader struct {
	path string
}

// NewCSVLogReader reads a header-driven CSV log. Columns may appear in any order and
// extra columns are ignored. A time_between_ms column is ignored because the gap is
// recomputed over the whole log.
func NewCSVLogReader(path string) LogReader {
	return &csvLogReader{path: path}
}

func (r *csvLogReader) Read(ctx context.Context) (*models.OperationLog, error) {
	file, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnreadable, err)
	}
	defer file.Close()

	loggers.Ctx(ctx).Debug().Str(loggers.FieldSource, r.path).Msg("reading csv operation log")
	return readCSV(ctx, file)
}

func readCSV(ctx context.Context, in io.Reader) (*models.OperationLog, error) {
	reader := csv.NewReader(in)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file", ErrMalformedHeader)
		}
		return nil, fmt.Errorf("%w: %w", ErrSourceUnreadable, err)
	}
	columns, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	collector := newRecordCollector(sourceCSV)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				collector.exclude(ctx, parseErr.Line, reasonMalformedRow)
				continue
			}
			return nil, fmt.Errorf("%w: %w", ErrSourceUnreadable, err)
		}
		if isBlankRow(row) {
			continue
		}
		line, _ := reader.FieldPos(0)

		collector.add(ctx, rawRecord{
			line:      line,
			database:  cell(row, columns[ColumnDatabase]),
			operation: cell(row, columns[ColumnOperation]),
			timestamp: cell(row, columns[ColumnTimestamp]),
			duration:  cell(row, columns[ColumnDurationMs]),
		})
	}

	return collector.finish(ctx), nil
}

func mapColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, dup := columns[name]; dup {
			return nil, fmt.Errorf("%w: duplicate column %q", ErrMalformedHeader, name)
		}
		columns[name] = i
	}

	var missing []string
	for _, c := range requiredColumns {
		if _, ok := columns[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing columns %s", ErrMalformedHeader, strings.Join(missing, ", "))
	}
	return columns, nil
}

// cell returns "" for short rows so the missing value is reported per field.
func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return row[idx]
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
