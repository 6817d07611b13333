// Package config loads and persists application settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/qrstudio/qrstudio/internal/model"
)

// Config is the full application configuration.
type Config struct {
	DatabasePath string `mapstructure:"database_path"`
	LogLevel     string `mapstructure:"log_level"`
	Verbose      bool   `mapstructure:"verbose"`

	Generate GenerateConfig `mapstructure:"generate"`
	Scan     ScanConfig     `mapstructure:"scan"`
	Batch    BatchConfig    `mapstructure:"batch"`
}

// GenerateConfig holds default styling for new codes.
type GenerateConfig struct {
	Size            int     `mapstructure:"size"`
	Border          int     `mapstructure:"border"`
	ErrorCorrection string  `mapstructure:"error_correction"`
	OutputFormat    string  `mapstructure:"output_format"`
	LogoScale       float64 `mapstructure:"logo_scale"`
}

// ScanConfig holds decode and camera settings.
type ScanConfig struct {
	MinConfidence float64 `mapstructure:"min_confidence"`
	TimeoutSec    int     `mapstructure:"timeout_sec"`
	CameraIndex   int     `mapstructure:"camera_index"`
	Width         int     `mapstructure:"width"`
	Height        int     `mapstructure:"height"`
	FPS           int     `mapstructure:"fps"`
}

// BatchConfig holds batch run settings.
type BatchConfig struct {
	OutputDir    string `mapstructure:"output_dir"`
	ShowProgress bool   `mapstructure:"show_progress"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() *Config {
	dbPath := "qrstudio.db"
	if home, err := os.UserHomeDir(); err == nil {
		dbPath = filepath.Join(home, ".qrstudio", "qrstudio.db")
	}
	return &Config{
		DatabasePath: dbPath,
		LogLevel:     "info",
		Generate: GenerateConfig{
			Size:            model.DefaultSize,
			Border:          model.DefaultBorder,
			ErrorCorrection: string(model.ECHigh),
			OutputFormat:    string(model.FormatPNG),
			LogoScale:       model.DefaultLogoScale,
		},
		Scan: ScanConfig{
			MinConfidence: 0,
			TimeoutSec:    30,
			CameraIndex:   0,
			Width:         1280,
			Height:        720,
			FPS:           30,
		},
		Batch: BatchConfig{
			OutputDir:    "qrcodes",
			ShowProgress: true,
		},
	}
}

// Validate checks the configuration for values the pipelines cannot work
// with.
func (c *Config) Validate() error {
	if c.Generate.Size < model.MinModuleSize || c.Generate.Size > model.MaxModuleSize {
		return fmt.Errorf("generate.size must be between %d and %d", model.MinModuleSize, model.MaxModuleSize)
	}
	if c.Generate.Border < model.MinBorder || c.Generate.Border > model.MaxBorder {
		return fmt.Errorf("generate.border must be between %d and %d", model.MinBorder, model.MaxBorder)
	}
	switch model.ECLevel(c.Generate.ErrorCorrection) {
	case model.ECLow, model.ECMedium, model.ECQuartile, model.ECHigh:
	default:
		return fmt.Errorf("generate.error_correction must be L, M, Q or H")
	}
	if c.Scan.MinConfidence < 0 || c.Scan.MinConfidence > 1 {
		return fmt.Errorf("scan.min_confidence must be between 0 and 1")
	}
	if c.Scan.TimeoutSec <= 0 {
		return fmt.Errorf("scan.timeout_sec must be positive")
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("database_path must not be empty")
	}
	return nil
}
