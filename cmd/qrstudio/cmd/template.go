package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/qrstudio/qrstudio/internal/render"
	"github.com/qrstudio/qrstudio/internal/store"
)

// parseTemplateID parses a store-assigned template id from the command line.
func parseTemplateID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid template id: %s", s)
	}
	return id, nil
}

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Manage reusable style templates",
}

var templateSaveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Save the given style flags as a template",
	Long: `Save a named style template. The style comes from the usual styling
flags, or from an existing history record with --from.

Examples:
  qrstudio template save corporate --fg "#003366" --gradient-start "#003366" --gradient-end "#0099FF"
  qrstudio template save reuse-me --from a1b2c3d4`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return guard(func() error { return runTemplateSave(cmd, args[0]) })
	},
}

var templateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		return guard(func() error {
			history := openHistory()
			defer history.Close()
			category, _ := cmd.Flags().GetString("category")
			templates := history.Templates(category)
			if len(templates) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No templates")
				return nil
			}
			for _, t := range templates {
				fmt.Fprintf(cmd.OutOrStdout(), "%-4d %-20s %s\n", t.ID, t.Name, t.Category)
			}
			return nil
		})
	},
}

var templateShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one template's style",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return guard(func() error {
			history := openHistory()
			defer history.Close()
			id, err := parseTemplateID(args[0])
			if err != nil {
				return err
			}
			tpl := history.Template(id)
			if tpl == nil {
				return fmt.Errorf("template not found: %s", args[0])
			}
			config, err := json.MarshalIndent(tpl.Config, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (id %d, %s)\n%s\n", tpl.Name, tpl.ID, tpl.Category, config)
			return nil
		})
	},
}

var templateDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return guard(func() error {
			history := openHistory()
			defer history.Close()
			id, err := parseTemplateID(args[0])
			if err != nil {
				return err
			}
			if !history.DeleteTemplate(id) {
				return fmt.Errorf("template not found: %s", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		})
	},
}

var templateApplyCmd = &cobra.Command{
	Use:   "apply <template-id> <record-id>",
	Short: "Re-render an existing record with a template's style",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return guard(func() error { return runTemplateApply(cmd, args[0], args[1]) })
	},
}

func init() {
	addStyleFlags(templateSaveCmd)
	templateSaveCmd.Flags().String("from", "", "copy the style of an existing record")
	templateSaveCmd.Flags().String("category", "general", "template category")

	templateListCmd.Flags().String("category", "", "only list templates in this category")

	templateApplyCmd.Flags().StringP("output", "o", "", "output file (default qrcode_<id>.<ext>)")

	templateCmd.AddCommand(templateSaveCmd, templateListCmd, templateShowCmd,
		templateDeleteCmd, templateApplyCmd)
	rootCmd.AddCommand(templateCmd)
}

func runTemplateSave(cmd *cobra.Command, name string) error {
	history := openHistory()
	defer history.Close()

	var style map[string]any
	if from, _ := cmd.Flags().GetString("from"); from != "" {
		rec := history.Load(from)
		if rec == nil {
			return fmt.Errorf("record not found: %s", from)
		}
		style = rec.Style()
	} else {
		rec := recordFromFlags(cmd, "template")
		style = rec.Style()
	}

	category, _ := cmd.Flags().GetString("category")
	tpl := store.Template{Name: name, Config: style, Category: category}
	id := history.SaveTemplate(tpl)
	if id == 0 {
		return fmt.Errorf("template could not be saved")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved template %q (id %d)\n", name, id)
	return nil
}

func runTemplateApply(cmd *cobra.Command, templateID, recordID string) error {
	history := openHistory()
	defer history.Close()

	id, err := parseTemplateID(templateID)
	if err != nil {
		return err
	}
	tpl := history.Template(id)
	if tpl == nil {
		return fmt.Errorf("template not found: %s", templateID)
	}
	rec := history.Load(recordID)
	if rec == nil {
		return fmt.Errorf("record not found: %s", recordID)
	}

	rec.Apply(tpl.Config)
	if err := rec.Validate(); err != nil {
		return err
	}

	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = render.Filename(*rec)
	}
	if err := render.Save(*rec, output); err != nil {
		return err
	}
	history.Save(*rec)

	fmt.Fprintf(cmd.OutOrStdout(), "Rendered %s with template %q to %s\n", recordID, tpl.Name, output)
	return nil
}
