package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the base name for configuration files (without
	// extension).
	ConfigFileName = "qrstudio"

	// EnvPrefix is the prefix for environment variables.
	EnvPrefix = "QRSTUDIO"
)

// Loader reads configuration from files, environment and defaults.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a loader on the global viper instance so cobra flag
// bindings take effect.
func NewLoader() *Loader {
	return &Loader{v: viper.GetViper()}
}

// Load resolves the configuration from search paths, environment variables
// and defaults, then validates it.
func (l *Loader) Load() (*Config, error) {
	l.v.SetConfigName(ConfigFileName)
	l.v.SetConfigType("yaml")
	l.addConfigPaths()
	l.setupEnvironment()
	l.setDefaults()

	if err := l.v.ReadInConfig(); err != nil {
		// Missing config file is fine: defaults and env vars carry it.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}
	return l.unmarshal()
}

// LoadWithFile resolves configuration from one specific file.
func (l *Loader) LoadWithFile(configFile string) (*Config, error) {
	if configFile == "" {
		return l.Load()
	}
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configFile)
	}

	l.v.SetConfigFile(configFile)
	l.setupEnvironment()
	l.setDefaults()

	if err := l.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", configFile, err)
	}
	return l.unmarshal()
}

func (l *Loader) unmarshal() (*Config, error) {
	var config Config
	if err := l.v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &config, nil
}

// Set overrides a single key, e.g. from an interactive settings change.
func (l *Loader) Set(key string, value interface{}) {
	l.v.Set(key, value)
}

// WriteConfigToFile persists the resolved settings.
func (l *Loader) WriteConfigToFile(filename string) error {
	return l.v.WriteConfigAs(filename)
}

// ConfigFileUsed returns the path of the file the settings came from.
func (l *Loader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

func (l *Loader) addConfigPaths() {
	l.v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		l.v.AddConfigPath(filepath.Join(home, ".qrstudio"))
	}
	if configDir, exists := os.LookupEnv("XDG_CONFIG_HOME"); exists {
		l.v.AddConfigPath(filepath.Join(configDir, "qrstudio"))
	} else if home, err := os.UserHomeDir(); err == nil {
		l.v.AddConfigPath(filepath.Join(home, ".config", "qrstudio"))
	}
}

func (l *Loader) setupEnvironment() {
	l.v.SetEnvPrefix(EnvPrefix)
	l.v.AutomaticEnv()
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
}

func (l *Loader) setDefaults() {
	defaults := DefaultConfig()

	l.v.SetDefault("database_path", defaults.DatabasePath)
	l.v.SetDefault("log_level", defaults.LogLevel)
	l.v.SetDefault("verbose", defaults.Verbose)

	l.v.SetDefault("generate.size", defaults.Generate.Size)
	l.v.SetDefault("generate.border", defaults.Generate.Border)
	l.v.SetDefault("generate.error_correction", defaults.Generate.ErrorCorrection)
	l.v.SetDefault("generate.output_format", defaults.Generate.OutputFormat)
	l.v.SetDefault("generate.logo_scale", defaults.Generate.LogoScale)

	l.v.SetDefault("scan.min_confidence", defaults.Scan.MinConfidence)
	l.v.SetDefault("scan.timeout_sec", defaults.Scan.TimeoutSec)
	l.v.SetDefault("scan.camera_index", defaults.Scan.CameraIndex)
	l.v.SetDefault("scan.width", defaults.Scan.Width)
	l.v.SetDefault("scan.height", defaults.Scan.Height)
	l.v.SetDefault("scan.fps", defaults.Scan.FPS)

	l.v.SetDefault("batch.output_dir", defaults.Batch.OutputDir)
	l.v.SetDefault("batch.show_progress", defaults.Batch.ShowProgress)
}
