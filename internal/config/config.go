// Package config handles configuration loading for NewSense.
// It supports YAML config files with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Store     StoreConfig     `mapstructure:"store"     yaml:"store"`
	Marketaux MarketauxConfig `mapstructure:"marketaux" yaml:"marketaux"`
	Sweep     SweepConfig     `mapstructure:"sweep"     yaml:"sweep"`
	API       APIConfig       `mapstructure:"api"       yaml:"api"`
	Logging   LoggingConfig   `mapstructure:"logging"   yaml:"logging"`
}

// StoreConfig holds article store settings.
type StoreConfig struct {
	Path string `mapstructure:"path" yaml:"path"` // SQLite database file
}

// MarketauxConfig holds the news API source settings.
type MarketauxConfig struct {
	Token string `mapstructure:"token" yaml:"token"` // overrides the descriptor's demo token
	Limit int    `mapstructure:"limit" yaml:"limit"` // result cap per fetch
}

// SweepConfig holds ingestion sweep settings.
type SweepConfig struct {
	Interval       time.Duration `mapstructure:"interval"        yaml:"interval"`        // e.g. "2h"
	SourceParallel int           `mapstructure:"source_parallel" yaml:"source_parallel"` // concurrent feed fetches
	FeedLimit      int           `mapstructure:"feed_limit"      yaml:"feed_limit"`      // entries kept per feed
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	Host        string   `mapstructure:"host"         yaml:"host"`
	Port        int      `mapstructure:"port"         yaml:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.newsense/config.yaml (home directory)
//  3. /etc/newsense/config.yaml (system)
//
// Environment variables override config file values.
// Format: NEWSENSE_<SECTION>_<KEY>, e.g., NEWSENSE_MARKETAUX_TOKEN
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".newsense"))
	v.AddConfigPath("/etc/newsense")

	v.SetEnvPrefix("NEWSENSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required to exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)
	return &cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix("NEWSENSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)
	return &cfg, nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// Store defaults
	v.SetDefault("store.path", "newsense.db")

	// Marketaux defaults; the descriptor ships a demo token
	v.SetDefault("marketaux.token", "")
	v.SetDefault("marketaux.limit", 20)

	// Sweep defaults
	v.SetDefault("sweep.interval", "2h")
	v.SetDefault("sweep.source_parallel", 1)
	v.SetDefault("sweep.feed_limit", 10)

	// API defaults
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.cors_origins", []string{"*"})

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// overrideFromEnv explicitly reads sensitive keys from environment variables.
func overrideFromEnv(cfg *Config) {
	if token := os.Getenv("NEWSENSE_MARKETAUX_TOKEN"); token != "" {
		cfg.Marketaux.Token = token
	}
	// Compatibility with the pre-rewrite deployment environment.
	if token := os.Getenv("MARKETAUX_API_TOKEN"); token != "" && cfg.Marketaux.Token == "" {
		cfg.Marketaux.Token = token
	}
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
