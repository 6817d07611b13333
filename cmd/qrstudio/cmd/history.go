package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/qrstudio/qrstudio/internal/export"
	"github.com/qrstudio/qrstudio/internal/model"
	"github.com/qrstudio/qrstudio/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse and manage previously generated codes",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the history, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return guard(func() error {
			history := openHistory()
			defer history.Close()
			printRecords(cmd, history.ListAll())
			return nil
		})
	},
}

var historySearchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search the history by keyword, kind and tags",
	Long: `Search the history. --keyword matches payload and notes as a
substring, --type matches the kind exactly, every --tag given must be
present on the record.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return guard(func() error { return runHistorySearch(cmd) })
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one record in full",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return guard(func() error {
			history := openHistory()
			defer history.Close()
			rec := history.Load(args[0])
			if rec == nil {
				return fmt.Errorf("record not found: %s", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), rec.Summary())
			if rec.Data != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "\nPayload:\n%s\n", rec.Data)
			}
			return nil
		})
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete one record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return guard(func() error {
			history := openHistory()
			defer history.Close()
			if !history.Delete(args[0]) {
				return fmt.Errorf("record not found: %s", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		})
	},
}

var historyStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show history statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return guard(func() error {
			history := openHistory()
			defer history.Close()
			printStatistics(cmd, history.Statistics())
			return nil
		})
	},
}

var historyExportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Dump the full history as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return guard(func() error {
			history := openHistory()
			defer history.Close()
			records := history.ListAll()

			f, err := os.Create(args[0])
			if err != nil {
				return fmt.Errorf("creating export file: %w", err)
			}
			defer f.Close()
			if err := export.HistoryJSON(f, records); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d records to %s\n", len(records), args[0])
			return nil
		})
	},
}

func init() {
	historySearchCmd.Flags().String("keyword", "", "substring to look for in payloads and notes")
	historySearchCmd.Flags().String("type", "", "payload kind to match exactly")
	historySearchCmd.Flags().StringSlice("tag", nil, "tag that must be present (repeatable)")
	historySearchCmd.Flags().Int("limit", 20, "page size")
	historySearchCmd.Flags().Int("offset", 0, "page offset")

	historyCmd.AddCommand(historyListCmd, historySearchCmd, historyShowCmd,
		historyDeleteCmd, historyStatsCmd, historyExportCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistorySearch(cmd *cobra.Command) error {
	history := openHistory()
	defer history.Close()

	keyword, _ := cmd.Flags().GetString("keyword")
	kindStr, _ := cmd.Flags().GetString("type")
	tags, _ := cmd.Flags().GetStringSlice("tag")
	limit, _ := cmd.Flags().GetInt("limit")
	offset, _ := cmd.Flags().GetInt("offset")

	var kind model.Kind
	if kindStr != "" {
		kind = model.ParseKind(kindStr)
	}

	records, total := history.Search(keyword, kind, tags, limit, offset)
	printRecords(cmd, records)
	fmt.Fprintf(cmd.OutOrStdout(), "%d of %d matches shown\n", len(records), total)
	return nil
}

func printRecords(cmd *cobra.Command, records []model.Record) {
	out := cmd.OutOrStdout()
	if len(records) == 0 {
		fmt.Fprintln(out, "No records")
		return
	}
	for _, r := range records {
		payload := r.Data
		if len(payload) > 40 {
			payload = payload[:40] + "..."
		}
		fmt.Fprintf(out, "%s  %-8s  %-19s  %s\n", r.ID, r.Kind, r.CreatedAt, payload)
	}
}

func printStatistics(cmd *cobra.Command, stats store.Statistics) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Records:   %d\n", stats.TotalRecords)
	fmt.Fprintf(out, "Templates: %d\n", stats.TemplateCount)
	fmt.Fprintf(out, "Mean payload length: %.1f\n", stats.MeanPayloadBytes)

	if len(stats.ByKind) > 0 {
		fmt.Fprintln(out, "By kind:")
		kinds := make([]string, 0, len(stats.ByKind))
		for k := range stats.ByKind {
			kinds = append(kinds, k)
		}
		sort.Strings(kinds)
		for _, k := range kinds {
			fmt.Fprintf(out, "  %-10s %d\n", k, stats.ByKind[k])
		}
	}
	if len(stats.RecentPerDay) > 0 {
		fmt.Fprintln(out, "Last 7 days:")
		days := make([]string, 0, len(stats.RecentPerDay))
		for d := range stats.RecentPerDay {
			days = append(days, d)
		}
		sort.Strings(days)
		for _, d := range days {
			fmt.Fprintf(out, "  %s  %d\n", d, stats.RecentPerDay[d])
		}
	}
}
