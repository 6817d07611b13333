package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/qrstudio/qrstudio/internal/batch"
)

var batchCmd = &cobra.Command{
	Use:   "batch <input-file>",
	Short: "Generate QR codes for every payload in a list",
	Long: `Generate one code per line of the input file. CSV input carries
payload[,tags[,notes]] per row with tags separated by ';'; any other file
is one payload per line. Ctrl-C stops the run after the current item and
keeps everything generated so far.

Examples:
  qrstudio batch payloads.csv --output-dir ./codes
  qrstudio batch urls.txt --format svg --fg "#003366"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return guard(func() error { return runBatch(cmd, args[0]) })
	},
}

func init() {
	addStyleFlags(batchCmd)
	batchCmd.Flags().String("output-dir", "", "directory for generated files (default from config)")
	batchCmd.Flags().Bool("no-progress", false, "suppress the progress display")
	batchCmd.Flags().Bool("no-save", false, "do not record generated codes in the history")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, inputPath string) error {
	cfg := getConfig()

	entries, err := batch.LoadEntries(inputPath)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("no payloads in %s", inputPath)
	}

	base := recordFromFlags(cmd, "placeholder")
	records := batch.Records(entries, base)

	outputDir, _ := cmd.Flags().GetString("output-dir")
	if outputDir == "" {
		outputDir = cfg.Batch.OutputDir
	}

	var progress batch.ProgressCallback = batch.NewLogProgress(slog.Default(), slog.LevelDebug)
	noProgress, _ := cmd.Flags().GetBool("no-progress")
	if cfg.Batch.ShowProgress && !noProgress {
		progress = batch.NewMultiProgress(
			batch.NewConsoleProgress(cmd.ErrOrStderr(), ""),
			progress,
		)
	}

	opts := []batch.Option{
		batch.WithProgress(progress),
		batch.WithLogger(slog.Default()),
	}
	if noSave, _ := cmd.Flags().GetBool("no-save"); !noSave {
		history := openHistory()
		defer history.Close()
		opts = append(opts, batch.WithHistory(history))
	}

	task := batch.NewTask(outputDir, opts...)

	// Ctrl-C requests cooperative cancellation; the item in flight finishes.
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	defer signal.Stop(interrupt)
	go func() {
		<-interrupt
		task.Stop()
	}()

	summary := task.Run(records)

	fmt.Fprintf(cmd.OutOrStdout(), "Run %s: %d generated, %d failed of %d",
		summary.RunID, summary.Completed, summary.Failed, summary.Total)
	if summary.Stopped {
		fmt.Fprint(cmd.OutOrStdout(), " (stopped early)")
	}
	fmt.Fprintln(cmd.OutOrStdout())

	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d items failed", summary.Failed, summary.Total)
	}
	return nil
}
