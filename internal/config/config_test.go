package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/tintd/internal/colour"
	"github.com/jmylchreest/tintd/internal/reactor"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.NotEmpty(t, cfg.StateDir)
	assert.NotEmpty(t, cfg.WallpaperState)
	assert.NotEmpty(t, cfg.ApplyDir)
	assert.Equal(t, reactor.DefaultDebounce, cfg.Debounce)
	assert.Equal(t, colour.DefaultClusters, cfg.Extraction.Clusters)
	assert.Equal(t, colour.DefaultMaxIterations, cfg.Extraction.MaxIterations)
	assert.Equal(t, colour.DefaultMaxSamples, cfg.Extraction.MaxSamples)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoadFromFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
debounce: 500ms
extraction:
  clusters: 8
logging:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 500*time.Millisecond, cfg.Debounce)
	assert.Equal(t, 8, cfg.Extraction.Clusters)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	// Unset keys keep their defaults.
	assert.Equal(t, colour.DefaultMaxSamples, cfg.Extraction.MaxSamples)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadEnvironmentOverride(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv("TINTD_LOGGING_LEVEL", "error")
	t.Setenv("TINTD_EXTRACTION_CLUSTERS", "12")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.Logging.Level)
	assert.Equal(t, 12, cfg.Extraction.Clusters)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			StateDir:       "/tmp/state",
			WallpaperState: "/tmp/wallpapers.json",
			ApplyDir:       "/tmp/themes",
			Debounce:       250 * time.Millisecond,
			Extraction: ExtractionConfig{
				Clusters:      6,
				MaxIterations: 16,
				MaxSamples:    4096,
			},
			Logging: LoggingConfig{Level: "info", Format: "text"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"empty state dir", func(c *Config) { c.StateDir = "" }, "state_dir"},
		{"empty wallpaper state", func(c *Config) { c.WallpaperState = "" }, "wallpaper_state"},
		{"empty apply dir", func(c *Config) { c.ApplyDir = "" }, "apply_dir"},
		{"zero debounce", func(c *Config) { c.Debounce = 0 }, "debounce"},
		{"too few clusters", func(c *Config) { c.Extraction.Clusters = 0 }, "clusters"},
		{"too many clusters", func(c *Config) { c.Extraction.Clusters = 65 }, "clusters"},
		{"zero iterations", func(c *Config) { c.Extraction.MaxIterations = 0 }, "max_iterations"},
		{"too few samples", func(c *Config) { c.Extraction.MaxSamples = 32 }, "max_samples"},
		{"bad level", func(c *Config) { c.Logging.Level = "verbose" }, "logging.level"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
