package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"dbperf-analytics/internal/insights"
	"dbperf-analytics/internal/models"
	"dbperf-analytics/internal/outwriter"

	"github.com/spf13/cobra"
)

func newReportCommand(loadConfig configLoader) *cobra.Command {
	var (
		databases  []string
		operations []string
		format     string
		outputFile string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the series bundle for a filter selection.",
		Long: `Compute the series bundle for the selected databases and operations.

Without --databases or --operations every value found in the log is selected.
The table format prints the box summaries and the slowest operations. The json
and yaml formats print the full bundle.

Examples:
  dbperf report --input perf_log.csv
  dbperf report --input perf_log.csv --databases oracle --operations select,insert
  dbperf report --input perf_log.csv --format json --output-file bundle.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			outFormat, err := outwriter.ParseFormat(format)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			core, logger, err := newCore(ctx, cmd, cfg)
			if err != nil {
				return err
			}
			ctx = logger.WithContext(ctx)

			filter, err := resolveFilter(ctx, core.SeriesService, cmd, databases, operations)
			if err != nil {
				return err
			}
			bundle, err := core.SeriesService.Compute(ctx, filter)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if outputFile != "" {
				f, err := os.Create(outputFile)
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer f.Close()
				w = f
			}
			return writeReport(w, bundle, outFormat)
		},
	}

	addFilterFlags(cmd, &databases, &operations)
	cmd.Flags().StringVarP(&format, "format", "f", string(outwriter.FormatTable), "Output format: table, json or yaml")
	cmd.Flags().StringVarP(&outputFile, "output-file", "o", "", "Write the report to a file instead of stdout")
	return cmd
}

func addFilterFlags(cmd *cobra.Command, databases, operations *[]string) {
	cmd.Flags().StringSliceVar(databases, "databases", nil, "Databases to include (default all)")
	cmd.Flags().StringSliceVar(operations, "operations", nil, "Operations to include (default all)")
}

// resolveFilter fills any dimension the user did not set with every value in the log.
func resolveFilter(ctx context.Context, service insights.SeriesService, cmd *cobra.Command, databases, operations []string) (models.FilterSelection, error) {
	all, err := service.Filters(ctx)
	if err != nil {
		return models.FilterSelection{}, err
	}

	filter := models.FilterSelection{Databases: databases, Operations: operations}
	if !cmd.Flags().Changed("databases") {
		filter.Databases = all.Databases
	}
	if !cmd.Flags().Changed("operations") {
		filter.Operations = all.Operations
	}
	return filter, nil
}

func writeReport(w io.Writer, bundle *models.SeriesBundle, format outwriter.Format) error {
	if format != outwriter.FormatTable {
		return outwriter.EncodeBundle(w, bundle, format)
	}

	fmt.Fprintf(w, "Records: %d\n\nDuration (ms) by operation\n", bundle.RecordCount)
	if err := outwriter.WriteSummaryTable(w, bundle.DurationByOperation); err != nil {
		return err
	}
	fmt.Fprintf(w, "\nDuration (ms) by database\n")
	if err := outwriter.WriteSummaryTable(w, bundle.DurationByDatabase); err != nil {
		return err
	}
	fmt.Fprintf(w, "\nSlowest operations\n")
	return outwriter.WriteSlowestTable(w, bundle.Slowest)
}
