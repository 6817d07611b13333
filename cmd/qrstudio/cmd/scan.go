package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/qrstudio/qrstudio/internal/export"
	"github.com/qrstudio/qrstudio/internal/scan"
)

var scanCmd = &cobra.Command{
	Use:   "scan [image files...]",
	Short: "Decode QR codes from image files or a camera",
	Long: `Decode QR codes from the given image files, or capture from a camera
with --camera. Results below the confidence floor are dropped; unreadable
files are skipped with a warning.

Examples:
  qrstudio scan photo.png scan2.jpg
  qrstudio scan photo.png --min-confidence 0.5 --export results.csv
  qrstudio scan --camera --timeout 60`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return guard(func() error { return runScan(cmd, args) })
	},
}

func init() {
	scanCmd.Flags().Bool("camera", false, "capture from a camera instead of files")
	scanCmd.Flags().Int("index", -1, "camera index (default from config)")
	scanCmd.Flags().Float64("min-confidence", -1, "drop results scored below this (0-1, default from config)")
	scanCmd.Flags().Int("timeout", 0, "camera capture timeout in seconds (default from config)")
	scanCmd.Flags().String("export", "", "write results to a file (.csv, .json or text)")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg := getConfig()

	minConfidence := cfg.Scan.MinConfidence
	if v, _ := cmd.Flags().GetFloat64("min-confidence"); v >= 0 {
		minConfidence = v
	}

	var results []scan.Result
	useCamera, _ := cmd.Flags().GetBool("camera")
	if useCamera {
		var err error
		results, err = runCameraScan(cmd, minConfidence)
		if err != nil {
			return err
		}
	} else {
		if len(args) == 0 {
			return fmt.Errorf("nothing to scan: pass image files or --camera")
		}
		files, err := scan.DiscoverImageFiles(args)
		if err != nil {
			return err
		}
		scanner := scan.NewFileScanner(minConfidence, nil)
		results = scanner.ScanFiles(files)
	}

	printResults(cmd, results)

	if exportPath, _ := cmd.Flags().GetString("export"); exportPath != "" {
		if err := export.ScanResultsFile(exportPath, results); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d results to %s\n", len(results), exportPath)
	}
	return nil
}

func runCameraScan(cmd *cobra.Command, minConfidence float64) ([]scan.Result, error) {
	cfg := getConfig()
	backends := scan.RegisteredBackends()
	if len(backends) == 0 {
		return nil, fmt.Errorf("no camera backend available on this platform")
	}

	index := cfg.Scan.CameraIndex
	if v, _ := cmd.Flags().GetInt("index"); v >= 0 {
		index = v
	}
	timeout := time.Duration(cfg.Scan.TimeoutSec) * time.Second
	if v, _ := cmd.Flags().GetInt("timeout"); v > 0 {
		timeout = time.Duration(v) * time.Second
	}

	session := &scan.Session{
		Backends: backends,
		Index:    index,
		Config: scan.DeviceConfig{
			Width:      cfg.Scan.Width,
			Height:     cfg.Scan.Height,
			FPS:        cfg.Scan.FPS,
			BufferSize: 1,
		},
		Timeout:       timeout,
		MinConfidence: minConfidence,
	}
	return session.Run()
}

func printResults(cmd *cobra.Command, results []scan.Result) {
	out := cmd.OutOrStdout()
	if len(results) == 0 {
		fmt.Fprintln(out, "No codes found")
		return
	}
	for i, r := range results {
		fmt.Fprintf(out, "Result %d: %s\n", i+1, r.Data)
		fmt.Fprintf(out, "  source=%s type=%s confidence=%.2f", r.Source, r.Format, r.Confidence)
		if r.Orientation != "" {
			fmt.Fprintf(out, " orientation=%q", r.Orientation)
		}
		fmt.Fprintln(out)
	}
}
