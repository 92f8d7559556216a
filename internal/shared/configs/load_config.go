package configs

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"dbperf-analytics/internal/shared/validators"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. DBPERF_SOURCE_PATH for source.path.
const EnvPrefix = "DBPERF"

var defaults = map[string]any{
	"server.port":                 8080,
	"server.read_header_timeout":  5,
	"server.read_timeout":         10,
	"server.write_timeout":        30,
	"server.idle_timeout":         60,
	"server.shutdown_timeout":     10,
	"log.level":                   "info",
	"file_storage.root_dir":       "./data",
	"source.kind":                 "csv",
	"source.path":                 "",
	"source.driver":               "sqlite",
	"source.dsn":                  "",
	"source.table":                "operations",
	"analysis.rolling_window":     50,
	"analysis.gap_threshold":      "300s",
	"analysis.concurrency_bucket": "100ms",
	"analysis.throughput_bucket":  "minute",
	"analysis.top_n":              10,
	"analysis.histogram_bins":     50,
	"analysis.granularity":        "database_operation",
	"analysis.connect_operation":  "connect",
	"cache.enabled":               true,
	"cache.size":                  64,
	"rate_limit.rps":              20,
	"rate_limit.burst":            40,
}

// LoadConfig merges, from lowest to highest precedence: defaults, the YAML file at
// configPath (skipped when empty), DBPERF_ environment variables, and the changed flags
// of flags whose names appear in flagKeys. flags may be nil.
var LoadConfig = func(configPath string, flags *pflag.FlagSet, flagKeys map[string]string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	// Read from file
	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %q: %w", configPath, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for flagName, key := range flagKeys {
			flag := flags.Lookup(flagName)
			if flag == nil {
				return nil, fmt.Errorf("unknown flag %q bound to %q", flagName, key)
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("failed to bind flag %q: %w", flagName, err)
			}
		}
	}

	// Unmarshal into Config
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate config
	validate := validators.New()
	validate.RegisterTagNameFunc(mapstructureName)
	if err := validate.Struct(&cfg); err != nil {
		var validationErrors []string
		var ve validators.ValidationErrors
		if errors.As(err, &ve) {
			for _, e := range ve {
				validationErrors = append(validationErrors, formatValidationError(e))
			}
		} else {
			validationErrors = append(validationErrors, err.Error())
		}
		return nil, fmt.Errorf("config validation failed: %s", strings.Join(validationErrors, ", "))
	}

	return &cfg, nil
}

func mapstructureName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("mapstructure"), ",")
	if name == "" || name == "-" {
		return field.Name
	}
	return name
}

// formatValidationError formats a single validation error into a readable string.
func formatValidationError(e validators.FieldError) string {
	field := e.Field()

	// Build field path from the config keys (e.g., "Config.source.path" -> "source.path")
	if parts := strings.Split(e.Namespace(), "."); len(parts) >= 2 {
		field = strings.Join(parts[1:], ".")
	}

	if e.Param() == "" {
		return fmt.Sprintf("%s (%s)", field, e.Tag())
	}
	return fmt.Sprintf("%s (%s=%s)", field, e.Tag(), e.Param())
}
