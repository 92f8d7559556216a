package reports

import (
	"fmt"
	"io"

	"dbperf-analytics/internal/models"
	"dbperf-analytics/internal/outwriter"
)

// writeSummary renders the plain-text companion of a report: the box summaries and the
// slowest operations as tables.
func writeSummary(w io.Writer, bundle *models.SeriesBundle) error {
	if _, err := fmt.Fprintf(w, "Records: %d\nDatabases: %v\nOperations: %v\n",
		bundle.RecordCount, bundle.Filter.Databases, bundle.Filter.Operations); err != nil {
		return err
	}
	for _, warning := range bundle.Warnings {
		if _, err := fmt.Fprintf(w, "Skipped series %s: %s\n", warning.Series, warning.Reason); err != nil {
			return err
		}
	}

	sections := []struct {
		title string
		boxes []models.BoxSummary
	}{
		{"Duration (ms) by operation", bundle.DurationByOperation},
		{"Duration (ms) by database", bundle.DurationByDatabase},
		{"Duration (ms) by group", bundle.DurationByGroup},
	}
	for _, section := range sections {
		if _, err := fmt.Fprintf(w, "\n%s\n", section.title); err != nil {
			return err
		}
		if err := outwriter.WriteSummaryTable(w, section.boxes); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "\nSlowest operations\n"); err != nil {
		return err
	}
	return outwriter.WriteSlowestTable(w, bundle.Slowest)
}
