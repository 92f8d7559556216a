package configs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "configs.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_ValidConfig(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `server:
  port: 9090
  read_header_timeout: 5
  read_timeout: 10
  write_timeout: 10
  idle_timeout: 60
  shutdown_timeout: 15
log:
  level: debug
file_storage:
  root_dir: ./data
source:
  kind: sql
  driver: pgx
  dsn: postgres://bench@localhost/bench
  table: bench.perf_log
analysis:
  rolling_window: 20
  gap_threshold: 120s
  concurrency_bucket: 250ms
  throughput_bucket: second
  top_n: 5
  histogram_bins: 30
  granularity: database
  connect_operation: open
cache:
  enabled: false
  size: 0
rate_limit:
  rps: 2.5
  burst: 5
`)

	cfg, err := LoadConfig(path, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 15, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "./data", cfg.FileStorage.RootDir)
	assert.Equal(t, SourceConfig{Kind: "sql", Driver: "pgx", DSN: "postgres://bench@localhost/bench", Table: "bench.perf_log"}, cfg.Source)
	assert.Equal(t, AnalysisConfig{
		RollingWindow:     20,
		GapThreshold:      "120s",
		ConcurrencyBucket: "250ms",
		ThroughputBucket:  "second",
		TopN:              5,
		HistogramBins:     30,
		Granularity:       "database",
		ConnectOperation:  "open",
	}, cfg.Analysis)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, 2.5, cfg.RateLimit.RPS)
	assert.Equal(t, 5, cfg.RateLimit.Burst)
}

func TestLoadConfig_DefaultsWithFlags(t *testing.T) {
	t.Parallel()

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("input", "", "")
	flags.Int("port", 0, "")
	flags.Int("window", 50, "")
	require.NoError(t, flags.Parse([]string{"--input", "perf_log.csv", "--port", "7070"}))

	cfg, err := LoadConfig("", flags, map[string]string{
		"input":  "source.path",
		"port":   "server.port",
		"window": "analysis.rolling_window",
	})
	require.NoError(t, err)

	assert.Equal(t, "perf_log.csv", cfg.Source.Path)
	assert.Equal(t, 7070, cfg.Server.Port)
	// unchanged flags never override defaults
	assert.Equal(t, 50, cfg.Analysis.RollingWindow)
	assert.Equal(t, "csv", cfg.Source.Kind)
	assert.Equal(t, "300s", cfg.Analysis.GapThreshold)
	assert.Equal(t, "100ms", cfg.Analysis.ConcurrencyBucket)
	assert.Equal(t, "minute", cfg.Analysis.ThroughputBucket)
	assert.Equal(t, "database_operation", cfg.Analysis.Granularity)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 64, cfg.Cache.Size)
	assert.Equal(t, 20.0, cfg.RateLimit.RPS)
}

// Not parallel: t.Setenv.
func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `source:
  path: from_file.csv
analysis:
  top_n: 3
`)
	t.Setenv("DBPERF_ANALYSIS_TOP_N", "25")
	t.Setenv("DBPERF_LOG_LEVEL", "warn")

	cfg, err := LoadConfig(path, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "from_file.csv", cfg.Source.Path)
	assert.Equal(t, 25, cfg.Analysis.TopN)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadConfig_ValidationErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{
			name:    "csv without path",
			content: "source:\n  kind: csv\n",
			wantMsg: "source.path (required_if=Kind csv)",
		},
		{
			name:    "sql without dsn",
			content: "source:\n  kind: sql\n  driver: mysql\n",
			wantMsg: "source.dsn (required_if=Kind sql)",
		},
		{
			name:    "unsafe table name",
			content: "source:\n  kind: sql\n  driver: sqlite\n  dsn: bench.db\n  table: \"perf; drop\"\n",
			wantMsg: "source.table (sqlident)",
		},
		{
			name:    "unknown driver",
			content: "source:\n  kind: sql\n  driver: oracle\n  dsn: x\n",
			wantMsg: "source.driver (oneof=sqlite mysql pgx)",
		},
		{
			name:    "invalid port range",
			content: "source:\n  path: a.csv\nserver:\n  port: 70000\n",
			wantMsg: "server.port (max=65535)",
		},
		{
			name:    "invalid gap threshold",
			content: "source:\n  path: a.csv\nanalysis:\n  gap_threshold: soon\n",
			wantMsg: "analysis.gap_threshold (posduration)",
		},
		{
			name:    "invalid granularity",
			content: "source:\n  path: a.csv\nanalysis:\n  granularity: table\n",
			wantMsg: "analysis.granularity (oneof=database database_operation)",
		},
		{
			name:    "negative cache size",
			content: "source:\n  path: a.csv\ncache:\n  size: -1\n",
			wantMsg: "cache.size (min=0)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg, err := LoadConfig(writeConfig(t, tt.content), nil, nil)
			assert.Nil(t, cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "config validation failed")
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestLoadConfig_InvalidLogLevelIsNotValidatedHere(t *testing.T) {
	t.Parallel()

	cfg, err := LoadConfig(writeConfig(t, "source:\n  path: a.csv\nlog:\n  level: invalid\n"), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "invalid", cfg.Log.Level)
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	t.Parallel()

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yml"), nil, nil)
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_UnknownFlag(t *testing.T) {
	t.Parallel()

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	cfg, err := LoadConfig("", flags, map[string]string{"nope": "source.path"})
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown flag "nope"`)
}
