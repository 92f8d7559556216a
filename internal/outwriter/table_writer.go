package outwriter

import (
	"fmt"
	"io"
	"os"
	"sort"

	"dbperf-analytics/internal/aggregators"
	"dbperf-analytics/internal/models"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

const (
	timestampLayout   = "2006-01-02 15:04:05.000"
	highlightQuantile = 0.9
)

// WriteSlowestTable prints the slowest operations, one row per record.
// Durations above the table's 90th percentile are highlighted on a terminal.
func WriteSlowestTable(w io.Writer, records []*models.OperationRecord) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Seq", "Timestamp", "Database", "Operation", "Duration (ms)", "Time Between (ms)"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	durations := make([]float64, 0, len(records))
	for _, r := range records {
		durations = append(durations, r.DurationMs)
	}
	hl := newHighlighter(w, durations)

	data := make([][]string, 0, len(records))
	for _, r := range records {
		data = append(data, []string{
			fmt.Sprintf("%d", r.Seq),
			r.Timestamp.UTC().Format(timestampLayout),
			r.Database,
			r.Operation,
			hl.format(r.DurationMs),
			r.TimeBetweenMs.String(),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// WriteSummaryTable prints one row per box summary. Medians above the
// table's 90th percentile are highlighted on a terminal.
func WriteSummaryTable(w io.Writer, boxes []models.BoxSummary) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Group", "Count", "Min", "Q1", "Median", "Q3", "Max", "Mean"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	medians := make([]float64, 0, len(boxes))
	for _, b := range boxes {
		if b.Count > 0 {
			medians = append(medians, b.Median)
		}
	}
	hl := newHighlighter(w, medians)

	data := make([][]string, 0, len(boxes))
	for _, b := range boxes {
		data = append(data, []string{
			b.Label,
			fmt.Sprintf("%d", b.Count),
			fmtMs(b.Min),
			fmtMs(b.Q1),
			hl.format(b.Median),
			fmtMs(b.Q3),
			fmtMs(b.Max),
			fmtMs(b.Mean),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

type highlighter struct {
	threshold float64
	enabled   bool
	hot       *color.Color
}

func newHighlighter(w io.Writer, values []float64) *highlighter {
	hot := color.New(color.FgRed, color.Bold)
	enabled := len(values) > 0 && isTerminal(w)
	if enabled {
		hot.EnableColor()
	} else {
		hot.DisableColor()
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return &highlighter{
		threshold: aggregators.Quantile(sorted, highlightQuantile),
		enabled:   enabled,
		hot:       hot,
	}
}

func (h *highlighter) format(v float64) string {
	s := fmtMs(v)
	if h.enabled && v > h.threshold {
		return h.hot.Sprint(s)
	}
	return s
}

func fmtMs(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func isTerminal(w io.Writer) bool {
	if color.NoColor {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
