// Package cli defines the dbperf command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"

	"dbperf-analytics/internal/app"
	"dbperf-analytics/internal/shared/configs"
	"dbperf-analytics/internal/shared/loggers"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// flagKeys maps flag names to config keys. Only flags present on the running command are bound.
var flagKeys = map[string]string{
	"log-level":          "log.level",
	"storage-dir":        "file_storage.root_dir",
	"source":             "source.kind",
	"input":              "source.path",
	"driver":             "source.driver",
	"dsn":                "source.dsn",
	"table":              "source.table",
	"window":             "analysis.rolling_window",
	"gap":                "analysis.gap_threshold",
	"concurrency-bucket": "analysis.concurrency_bucket",
	"throughput-bucket":  "analysis.throughput_bucket",
	"top-n":              "analysis.top_n",
	"bins":               "analysis.histogram_bins",
	"granularity":        "analysis.granularity",
	"connect-operation":  "analysis.connect_operation",
	"cache":              "cache.enabled",
	"port":               "server.port",
	"rate-limit":         "rate_limit.rps",
}

// NewRootCommand builds the dbperf command tree writing results to stdout and logs to stderr.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "dbperf",
		Short: "Analyze database operation performance logs.",
		Long: `Derive analytical time series from a log of timestamped database operations.

The log is read once at startup from a CSV file or a SQL table. Every view is
recomputed from that immutable log for the selected databases and operations:
raw and rolling-average durations split at idle gaps, per-minute throughput,
100 ms concurrency, histograms, box summaries and the slowest operations.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Path to config file (YAML)")
	flags.String("log-level", "info", "Log level: debug, info, warn or error")
	flags.String("storage-dir", "./data", "Root directory for report artifacts")
	flags.String("source", "csv", "Log source: csv or sql")
	flags.StringP("input", "i", "", "Path to the CSV operation log")
	flags.String("driver", "sqlite", "SQL driver: sqlite, mysql or pgx")
	flags.String("dsn", "", "SQL data source name")
	flags.String("table", "operations", "SQL table holding the operation log")
	flags.Int("window", 50, "Rolling average window in records")
	flags.String("gap", "300s", "Idle gap that starts a new segment")
	flags.String("concurrency-bucket", "100ms", "Concurrency bucket width")
	flags.String("throughput-bucket", "minute", "Throughput bucket width")
	flags.Int("top-n", 10, "Number of slowest operations to keep")
	flags.Int("bins", 50, "Histogram bin count")
	flags.String("granularity", "database_operation", "Series grouping: database or database_operation")
	flags.String("connect-operation", "connect", "Operation compared against all others")

	loadConfig := func(cmd *cobra.Command) (*configs.Config, error) {
		return configs.LoadConfig(configPath, cmd.Flags(), boundFlags(cmd.Flags()))
	}

	root.AddCommand(newServeCommand(loadConfig))
	root.AddCommand(newReportCommand(loadConfig))
	root.AddCommand(newExportCommand(loadConfig))
	return root
}

type configLoader func(cmd *cobra.Command) (*configs.Config, error)

func boundFlags(flags *pflag.FlagSet) map[string]string {
	bound := make(map[string]string, len(flagKeys))
	for name, key := range flagKeys {
		if flags.Lookup(name) != nil {
			bound[name] = key
		}
	}
	return bound
}

// newCore loads the log with a console logger on the command's error stream.
func newCore(ctx context.Context, cmd *cobra.Command, cfg *configs.Config) (*app.Core, loggers.Logger, error) {
	logger, err := loggers.NewConsole(cfg.Log.Level, cmd.ErrOrStderr())
	if err != nil {
		return nil, logger, fmt.Errorf("failed to initialize logger: %w", err)
	}

	core, err := app.NewCore(logger.WithContext(ctx), cfg, logger)
	if err != nil {
		return nil, logger, err
	}
	return core, logger, nil
}
