package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newExportCommand(loadConfig configLoader) *cobra.Command {
	var (
		databases  []string
		operations []string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a report bundle to the storage directory.",
		Long: `Render every report artifact for a filter selection into the storage
directory: the request, the bundle as JSON and YAML, the series and slowest
operations as Parquet, a text summary and the manifest.

Examples:
  dbperf export --input perf_log.csv --storage-dir ./data
  dbperf export --input perf_log.csv --databases oracle,mysql`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
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
			reportID, err := core.ExportService.Request(ctx, filter)
			if err != nil {
				return err
			}
			manifest, err := core.ExportService.Export(ctx, reportID, filter)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Report %s (%d records)\n", manifest.ReportID, manifest.RecordCount)
			for _, artifact := range manifest.Artifacts {
				fmt.Fprintf(w, "  %s\n", artifact)
			}
			return nil
		},
	}

	addFilterFlags(cmd, &databases, &operations)
	return cmd
}
