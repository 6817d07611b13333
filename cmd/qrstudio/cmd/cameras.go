package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/qrstudio/qrstudio/internal/scan"
)

var camerasCmd = &cobra.Command{
	Use:   "cameras",
	Short: "List usable capture devices",
	RunE: func(cmd *cobra.Command, args []string) error {
		return guard(func() error { return runCameras(cmd) })
	},
}

func init() {
	rootCmd.AddCommand(camerasCmd)
}

func runCameras(cmd *cobra.Command) error {
	cfg := getConfig()
	deviceCfg := scan.DeviceConfig{
		Width:      cfg.Scan.Width,
		Height:     cfg.Scan.Height,
		FPS:        cfg.Scan.FPS,
		BufferSize: 1,
	}
	for _, cam := range scan.Enumerate(scan.RegisteredBackends(), deviceCfg, nil) {
		fmt.Fprintf(cmd.OutOrStdout(), "%d: %s\n", cam.Index, cam.Name)
	}
	return nil
}
