package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 10, cfg.Generate.Size)
	assert.Equal(t, "H", cfg.Generate.ErrorCorrection)
	assert.Equal(t, 30, cfg.Scan.TimeoutSec)
	assert.NotEmpty(t, cfg.DatabasePath)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"size too large", func(c *Config) { c.Generate.Size = 51 }, "generate.size"},
		{"border negative", func(c *Config) { c.Generate.Border = -1 }, "generate.border"},
		{"bad error correction", func(c *Config) { c.Generate.ErrorCorrection = "Z" }, "error_correction"},
		{"confidence above one", func(c *Config) { c.Scan.MinConfidence = 1.5 }, "min_confidence"},
		{"zero timeout", func(c *Config) { c.Scan.TimeoutSec = 0 }, "timeout_sec"},
		{"empty db path", func(c *Config) { c.DatabasePath = "" }, "database_path"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	resetViper(t)
	chdir(t, t.TempDir())

	cfg, err := NewLoader().Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Generate.Size, cfg.Generate.Size)
}

func TestLoadWithFile(t *testing.T) {
	resetViper(t)
	path := filepath.Join(t.TempDir(), "qrstudio.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log_level: debug
generate:
  size: 12
  border: 2
scan:
  min_confidence: 0.4
`), 0o644))

	cfg, err := NewLoader().LoadWithFile(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 12, cfg.Generate.Size)
	assert.Equal(t, 2, cfg.Generate.Border)
	assert.InDelta(t, 0.4, cfg.Scan.MinConfidence, 1e-9)
	// Unset keys keep their defaults.
	assert.Equal(t, "H", cfg.Generate.ErrorCorrection)
}

func TestLoadWithFile_Missing(t *testing.T) {
	resetViper(t)
	_, err := NewLoader().LoadWithFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestLoadWithFile_InvalidValues(t *testing.T) {
	resetViper(t)
	path := filepath.Join(t.TempDir(), "qrstudio.yaml")
	require.NoError(t, os.WriteFile(path, []byte("generate:\n  size: 999\n"), 0o644))

	_, err := NewLoader().LoadWithFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestWriteConfigToFile_RoundTrip(t *testing.T) {
	resetViper(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")

	loader := NewLoader()
	chdir(t, dir)
	_, err := loader.Load()
	require.NoError(t, err)

	loader.Set("generate.size", 15)
	require.NoError(t, loader.WriteConfigToFile(path))

	resetViper(t)
	cfg, err := NewLoader().LoadWithFile(path)
	require.NoError(t, err)
	assert.Equal(t, 15, cfg.Generate.Size)
}
