package configs

// Config holds all configuration for the application.
type Config struct {
	Server      ServerConfig      `mapstructure:"server" validate:"required"`
	Log         LogConfig         `mapstructure:"log" validate:"required"`
	FileStorage FileStorageConfig `mapstructure:"file_storage" validate:"required"`
	Source      SourceConfig      `mapstructure:"source" validate:"required"`
	Analysis    AnalysisConfig    `mapstructure:"analysis" validate:"required"`
	Cache       CacheConfig       `mapstructure:"cache"`
	RateLimit   RateLimitConfig   `mapstructure:"rate_limit"`
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Port              int `mapstructure:"port" validate:"required,min=1,max=65535"`
	ReadHeaderTimeout int `mapstructure:"read_header_timeout" validate:"required,min=1"` // seconds
	ReadTimeout       int `mapstructure:"read_timeout" validate:"required,min=1"`        // seconds (headers+body)
	WriteTimeout      int `mapstructure:"write_timeout" validate:"required,min=1"`       // seconds (response)
	IdleTimeout       int `mapstructure:"idle_timeout" validate:"required,min=1"`        // seconds (keep-alive)
	ShutdownTimeout   int `mapstructure:"shutdown_timeout" validate:"required,min=1"`    // seconds
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required"`
}

// FileStorageConfig holds file storage configuration.
type FileStorageConfig struct {
	RootDir string `mapstructure:"root_dir" validate:"required"`
}

// SourceConfig selects where the operation log is read from.
type SourceConfig struct {
	Kind   string `mapstructure:"kind" validate:"required,oneof=csv sql"`
	Path   string `mapstructure:"path" validate:"required_if=Kind csv"`
	Driver string `mapstructure:"driver" validate:"required_if=Kind sql,omitempty,oneof=sqlite mysql pgx"`
	DSN    string `mapstructure:"dsn" validate:"required_if=Kind sql"`
	Table  string `mapstructure:"table" validate:"required_if=Kind sql,omitempty,sqlident"`
}

// AnalysisConfig holds the analysis knobs. Bucket widths accept second, minute, hour
// or a Go duration such as 100ms.
type AnalysisConfig struct {
	RollingWindow     int    `mapstructure:"rolling_window" validate:"required,min=1"`
	GapThreshold      string `mapstructure:"gap_threshold" validate:"required,posduration"`
	ConcurrencyBucket string `mapstructure:"concurrency_bucket" validate:"required"`
	ThroughputBucket  string `mapstructure:"throughput_bucket" validate:"required"`
	TopN              int    `mapstructure:"top_n" validate:"required,min=1"`
	HistogramBins     int    `mapstructure:"histogram_bins" validate:"required,min=1"`
	Granularity       string `mapstructure:"granularity" validate:"required,oneof=database database_operation"`
	ConnectOperation  string `mapstructure:"connect_operation" validate:"required"`
}

// CacheConfig holds the series bundle cache configuration.
type CacheConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Size    int  `mapstructure:"size" validate:"min=0"`
}

// RateLimitConfig holds the compute routes token bucket. An rps of 0 disables limiting.
type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps" validate:"min=0"`
	Burst int     `mapstructure:"burst" validate:"min=0"`
}
