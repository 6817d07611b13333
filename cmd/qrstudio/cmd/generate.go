package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/qrstudio/qrstudio/internal/model"
	"github.com/qrstudio/qrstudio/internal/render"
)

var generateCmd = &cobra.Command{
	Use:   "generate <payload>",
	Short: "Generate one styled QR code",
	Long: `Generate a QR code for the given payload, style it, write the image
and record it in the history.

Examples:
  qrstudio generate "https://example.com" --type url
  qrstudio generate "hello" --gradient-start "#FF0000" --gradient-end "#0000FF"
  qrstudio generate "hello" --logo logo.png --logo-scale 0.25 --format svg`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return guard(func() error { return runGenerate(cmd, args[0]) })
	},
}

func init() {
	addStyleFlags(generateCmd)
	generateCmd.Flags().StringP("output", "o", "", "output file (default qrcode_<id>.<ext>)")
	generateCmd.Flags().String("template", "", "apply a saved style template by id before flags")
	generateCmd.Flags().StringSlice("tag", nil, "tag to attach (repeatable)")
	generateCmd.Flags().String("notes", "", "free-form notes stored with the record")
	generateCmd.Flags().Bool("no-save", false, "do not record the code in the history")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, payload string) error {
	rec := recordFromFlags(cmd, payload)

	history := openHistory()
	defer history.Close()

	if templateArg, _ := cmd.Flags().GetString("template"); templateArg != "" {
		templateID, err := parseTemplateID(templateArg)
		if err != nil {
			return err
		}
		tpl := history.Template(templateID)
		if tpl == nil {
			return fmt.Errorf("template not found: %s", templateArg)
		}
		base := model.New(payload, rec.Kind)
		base.Apply(tpl.Config)
		base.ID = rec.ID
		// Flags win over the template, so re-apply them on top.
		applyFlagOverrides(cmd, &base, rec)
		rec = base
	}

	if tags, _ := cmd.Flags().GetStringSlice("tag"); len(tags) > 0 {
		rec.Tags = tags
	}
	rec.Notes, _ = cmd.Flags().GetString("notes")
	rec.Normalize()

	if err := rec.Validate(); err != nil {
		return err
	}

	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = render.Filename(rec)
	}
	if err := render.Save(rec, output); err != nil {
		return err
	}

	if noSave, _ := cmd.Flags().GetBool("no-save"); !noSave {
		history.Save(rec)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s\n\nSaved to %s\n", rec.Summary(), output)
	return nil
}

// applyFlagOverrides copies explicitly-set flag values from src onto dst,
// letting command-line flags override a template.
func applyFlagOverrides(cmd *cobra.Command, dst *model.Record, src model.Record) {
	flags := cmd.Flags()
	if flags.Changed("size") {
		dst.Size = src.Size
	}
	if flags.Changed("border") {
		dst.Border = src.Border
	}
	if flags.Changed("symbol-version") {
		dst.Version = src.Version
	}
	if flags.Changed("error-correction") {
		dst.ErrorCorrection = src.ErrorCorrection
	}
	if flags.Changed("fg") {
		dst.ForegroundColor = src.ForegroundColor
	}
	if flags.Changed("bg") {
		dst.BackgroundColor = src.BackgroundColor
	}
	if flags.Changed("gradient-start") {
		dst.GradientStart = src.GradientStart
	}
	if flags.Changed("gradient-end") {
		dst.GradientEnd = src.GradientEnd
	}
	if flags.Changed("gradient-type") {
		dst.GradientType = src.GradientType
	}
	if flags.Changed("logo") {
		dst.LogoPath = src.LogoPath
		dst.LogoScale = src.LogoScale
	}
	if flags.Changed("logo-scale") {
		dst.LogoScale = src.LogoScale
	}
	if flags.Changed("format") {
		dst.OutputFormat = src.OutputFormat
	}
}
