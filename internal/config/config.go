package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// ArtifactConfig holds the S3-compatible store that built bases are
// published to.
type ArtifactConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Prefix    string `mapstructure:"prefix"`
}

// Enabled reports whether enough is configured to publish.
func (a ArtifactConfig) Enabled() bool {
	return a.Endpoint != "" && a.Bucket != ""
}

// Config holds all runtime configuration for a ggce session.
// Values are populated from .ggce.yaml, GGCE_* env vars, and CLI flags.
type Config struct {
	Verbose       bool           `mapstructure:"verbose"`
	Strict        bool           `mapstructure:"strict"`
	LogLevel      string         `mapstructure:"log_level"`
	TelemetryPath string         `mapstructure:"telemetry_path"`
	BasisDB       string         `mapstructure:"basis_db"`
	CacheSize     int            `mapstructure:"cache_size"`
	Debounce      string         `mapstructure:"debounce"`
	Artifact      ArtifactConfig `mapstructure:"artifact"`
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() (Config, error) {
	viper.SetDefault("verbose", false)
	viper.SetDefault("strict", false)
	viper.SetDefault("log_level", "info")
	viper.SetDefault("telemetry_path", "")
	viper.SetDefault("basis_db", "")
	viper.SetDefault("cache_size", 16)
	viper.SetDefault("debounce", "300ms")
	viper.SetDefault("artifact.endpoint", "")
	viper.SetDefault("artifact.region", "us-east-1")
	viper.SetDefault("artifact.access_key", "")
	viper.SetDefault("artifact.secret_key", "")
	viper.SetDefault("artifact.bucket", "")
	viper.SetDefault("artifact.use_ssl", true)
	viper.SetDefault("artifact.prefix", "ggce")

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	if cfg.CacheSize < 1 {
		return Config{}, fmt.Errorf("config: cache_size must be >= 1, got %d", cfg.CacheSize)
	}
	return cfg, nil
}
