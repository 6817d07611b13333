// Package cmd wires the qrstudio commands together.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/qrstudio/qrstudio/internal/config"
	"github.com/qrstudio/qrstudio/internal/store"
)

var (
	configLoader *config.Loader
	globalConfig *config.Config
	cfgFile      string
)

var rootCmd = &cobra.Command{
	Use:   "qrstudio",
	Short: "Generate, style, scan and organize QR codes",
	Long: `qrstudio generates styled QR codes (gradients, logos, multiple output
formats), keeps a searchable history with reusable style templates, scans
codes back out of image files or a camera, and batch-generates from lists.

Examples:
  qrstudio generate "https://example.com" --type url --format svg
  qrstudio batch payloads.csv --output-dir ./codes
  qrstudio scan photo.png --min-confidence 0.5
  qrstudio history search --keyword example --tag work`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is search in ., ~/.qrstudio, $XDG_CONFIG_HOME/qrstudio)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output (equivalent to --log-level=debug)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("database", "", "history database path (overrides config)")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("database_path", rootCmd.PersistentFlags().Lookup("database"))

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if globalConfig == nil {
			initConfig()
		}

		var level slog.Level
		if globalConfig.Verbose {
			level = slog.LevelDebug
		} else {
			switch globalConfig.LogLevel {
			case "debug":
				level = slog.LevelDebug
			case "warn":
				level = slog.LevelWarn
			case "error":
				level = slog.LevelError
			default:
				level = slog.LevelInfo
			}
		}
		logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)
	}
}

func initConfig() {
	configLoader = config.NewLoader()

	var err error
	if cfgFile != "" {
		globalConfig, err = configLoader.LoadWithFile(cfgFile)
	} else {
		globalConfig, err = configLoader.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
}

func getConfig() *config.Config {
	if globalConfig == nil {
		initConfig()
	}
	return globalConfig
}

// openHistory opens the history store. Failure degrades to no persistence:
// the returned store is nil, every operation on it is a no-op, and the
// session keeps working.
func openHistory() *store.Store {
	cfg := getConfig()
	s, err := store.Open(cfg.DatabasePath, slog.Default())
	if err != nil {
		slog.Warn("history unavailable, continuing without persistence",
			"path", cfg.DatabasePath, "error", err)
		return nil
	}
	return s
}

// guard is the per-command error boundary. Long-running work never kills
// the process; it reports and returns.
func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("operation failed: %v", r)
		}
	}()
	if e := fn(); e != nil {
		return fmt.Errorf("operation failed: %v", e)
	}
	return nil
}
