// Package config loads application configuration from file and
// environment via viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Catalog CatalogConfig `mapstructure:"catalog"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Retry   RetryConfig   `mapstructure:"retry"`
	Player  PlayerConfig  `mapstructure:"player"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// CatalogConfig holds remote catalog configuration
type CatalogConfig struct {
	URL      string `mapstructure:"url"`       // Catalog API base URL
	CDNURL   string `mapstructure:"cdn_url"`   // CDN edge for playback URLs
	PageSize int    `mapstructure:"page_size"` // Items per fetched page
}

// CacheConfig holds collection cache configuration
type CacheConfig struct {
	Enabled         bool `mapstructure:"enabled"`
	MaxItems        int  `mapstructure:"max_items"`        // Per-collection item cap
	TTLMinutes      int  `mapstructure:"ttl_minutes"`      // Entry lifetime
	AutoCleanup     bool `mapstructure:"auto_cleanup"`     // Background sweep
	CleanupIntervalSeconds int `mapstructure:"cleanup_interval_seconds"`
}

// TTL returns the cache entry lifetime as a duration.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLMinutes) * time.Minute
}

// CleanupInterval returns the sweep period as a duration.
func (c CacheConfig) CleanupInterval() time.Duration {
	return time.Duration(c.CleanupIntervalSeconds) * time.Second
}

// RetryConfig holds fetch retry configuration
type RetryConfig struct {
	MaxRetries        int     `mapstructure:"max_retries"`
	InitialDelayMS    int     `mapstructure:"initial_delay_ms"`
	BackoffMultiplier float64 `mapstructure:"backoff_multiplier"`
}

// InitialDelay returns the first backoff delay as a duration.
func (r RetryConfig) InitialDelay() time.Duration {
	return time.Duration(r.InitialDelayMS) * time.Millisecond
}

// PlayerConfig holds media player configuration
type PlayerConfig struct {
	Command string   `mapstructure:"command"`
	Args    []string `mapstructure:"args"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			URL:      "https://api.lumetv.net",
			CDNURL:   "",
			PageSize: 20,
		},
		Cache: CacheConfig{
			Enabled:                true,
			MaxItems:               500,
			TTLMinutes:             30,
			AutoCleanup:            true,
			CleanupIntervalSeconds: 60,
		},
		Retry: RetryConfig{
			MaxRetries:        3,
			InitialDelayMS:    1000,
			BackoffMultiplier: 2,
		},
		Player: PlayerConfig{
			Command: "mpv",
			Args:    []string{},
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "lume", "lume.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "lume", "lume.log")
	}
}

// defaultConfigPath returns the default config file path for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "lume")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "lume")
	}
}

// LoadConfig loads configuration from file and environment
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(defaultConfigPath())
	viper.AddConfigPath(".")

	// Environment variable overrides
	viper.SetEnvPrefix("LUME")
	viper.AutomaticEnv()

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}
