package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or persist the resolved settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the resolved settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		return guard(func() error {
			cfg := getConfig()
			out := cmd.OutOrStdout()
			if used := configLoader.ConfigFileUsed(); used != "" {
				fmt.Fprintf(out, "# loaded from %s\n", used)
			}
			fmt.Fprintf(out, "database_path: %s\n", cfg.DatabasePath)
			fmt.Fprintf(out, "log_level: %s\n", cfg.LogLevel)
			fmt.Fprintf(out, "generate: size=%d border=%d ec=%s format=%s logo_scale=%.2f\n",
				cfg.Generate.Size, cfg.Generate.Border, cfg.Generate.ErrorCorrection,
				cfg.Generate.OutputFormat, cfg.Generate.LogoScale)
			fmt.Fprintf(out, "scan: min_confidence=%.2f timeout=%ds camera=%d %dx%d@%dfps\n",
				cfg.Scan.MinConfidence, cfg.Scan.TimeoutSec, cfg.Scan.CameraIndex,
				cfg.Scan.Width, cfg.Scan.Height, cfg.Scan.FPS)
			fmt.Fprintf(out, "batch: output_dir=%s show_progress=%t\n",
				cfg.Batch.OutputDir, cfg.Batch.ShowProgress)
			return nil
		})
	},
}

var settingsSaveCmd = &cobra.Command{
	Use:   "save [file]",
	Short: "Write the resolved settings to a config file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return guard(func() error {
			getConfig()

			path := ""
			if len(args) > 0 {
				path = args[0]
			} else {
				home, err := os.UserHomeDir()
				if err != nil {
					return fmt.Errorf("resolving home directory: %w", err)
				}
				dir := filepath.Join(home, ".qrstudio")
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("creating config directory: %w", err)
				}
				path = filepath.Join(dir, "qrstudio.yaml")
			}

			if err := configLoader.WriteConfigToFile(path); err != nil {
				return fmt.Errorf("writing settings: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Settings written to %s\n", path)
			return nil
		})
	},
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd, settingsSaveCmd)
	rootCmd.AddCommand(settingsCmd)
}
