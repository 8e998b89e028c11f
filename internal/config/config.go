// Package config provides configuration management for tintd using Viper.
// It supports configuration from files, environment variables, and defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jmylchreest/tintd/internal/cache"
	"github.com/jmylchreest/tintd/internal/colour"
	"github.com/jmylchreest/tintd/internal/reactor"
)

// Config holds all configuration for the daemon.
type Config struct {
	// StateDir is where synthesized palettes are persisted.
	StateDir string `mapstructure:"state_dir"`
	// WallpaperState is the shell's wallpaper state file to watch.
	WallpaperState string `mapstructure:"wallpaper_state"`
	// ApplyDir is where finished palettes are committed for the shell.
	ApplyDir string `mapstructure:"apply_dir"`
	// Debounce is the coalescing window for change notifications.
	Debounce time.Duration `mapstructure:"debounce"`

	Extraction ExtractionConfig `mapstructure:"extraction"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// ExtractionConfig tunes the colour clustering stage.
type ExtractionConfig struct {
	Clusters      int `mapstructure:"clusters"`
	MaxIterations int `mapstructure:"max_iterations"`
	MaxSamples    int `mapstructure:"max_samples"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from an optional file path, environment variables
// (prefixed TINTD_) and defaults, in increasing order of precedence for the
// environment over the file.
func Load(path string) (*Config, error) {
	v := viper.New()
	if err := setDefaults(v); err != nil {
		return nil, err
	}

	v.SetEnvPrefix("TINTD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if configDir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(configDir, "tintd"))
		}
		if err := v.ReadInConfig(); err != nil {
			// A missing default config file is fine; anything else is not.
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults seeds every key with a sensible default.
func setDefaults(v *viper.Viper) error {
	stateDir, err := cache.DefaultDir()
	if err != nil {
		return err
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return fmt.Errorf("failed to determine config directory: %w", err)
	}

	v.SetDefault("state_dir", stateDir)
	v.SetDefault("wallpaper_state", filepath.Join(configDir, "tintd", "wallpapers.json"))
	v.SetDefault("apply_dir", filepath.Join(configDir, "tintd", "themes"))
	v.SetDefault("debounce", reactor.DefaultDebounce)
	v.SetDefault("extraction.clusters", colour.DefaultClusters)
	v.SetDefault("extraction.max_iterations", colour.DefaultMaxIterations)
	v.SetDefault("extraction.max_samples", colour.DefaultMaxSamples)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	return nil
}

// Validate checks the configuration for values the daemon cannot run with.
func (c *Config) Validate() error {
	if c.StateDir == "" {
		return fmt.Errorf("state_dir must not be empty")
	}
	if c.WallpaperState == "" {
		return fmt.Errorf("wallpaper_state must not be empty")
	}
	if c.ApplyDir == "" {
		return fmt.Errorf("apply_dir must not be empty")
	}
	if c.Debounce <= 0 {
		return fmt.Errorf("debounce must be positive, got %s", c.Debounce)
	}
	if c.Extraction.Clusters < 1 || c.Extraction.Clusters > 64 {
		return fmt.Errorf("extraction.clusters must be between 1 and 64, got %d", c.Extraction.Clusters)
	}
	if c.Extraction.MaxIterations < 1 {
		return fmt.Errorf("extraction.max_iterations must be at least 1, got %d", c.Extraction.MaxIterations)
	}
	if c.Extraction.MaxSamples < 64 {
		return fmt.Errorf("extraction.max_samples must be at least 64, got %d", c.Extraction.MaxSamples)
	}
	switch c.Logging.Level {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of trace, debug, info, warn, error; got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}
	return nil
}
