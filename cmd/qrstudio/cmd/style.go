package cmd

import (
	"github.com/spf13/cobra"

	"github.com/qrstudio/qrstudio/internal/model"
)

// addStyleFlags registers the shared styling flags used by generate, batch
// and template save.
func addStyleFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.String("type", "text", "payload kind (url, text, wifi, vcard, email, sms, phone, location, event, bitcoin, contact, whatsapp)")
	flags.Int("size", 0, "module size in pixels (default from config)")
	flags.Int("border", -1, "quiet zone width in modules (default from config)")
	flags.Int("symbol-version", 0, "forced symbol version 1-40 (0 = automatic)")
	flags.String("error-correction", "", "error correction level: L, M, Q or H")
	flags.String("fg", "", "foreground color, e.g. #000000")
	flags.String("bg", "", "background color, e.g. #FFFFFF")
	flags.String("gradient-start", "", "gradient start color (requires --gradient-end)")
	flags.String("gradient-end", "", "gradient end color (requires --gradient-start)")
	flags.String("gradient-type", "linear", "gradient layout: linear or radial")
	flags.String("logo", "", "path to a logo image pasted in the center")
	flags.Float64("logo-scale", 0, "logo size as a fraction of the canvas (0.05-0.5)")
	flags.String("format", "", "output format: png, jpeg, svg, pdf, bmp")
}

// recordFromFlags builds a record from the payload, the configured
// defaults and any style flags set on the command.
func recordFromFlags(cmd *cobra.Command, payload string) model.Record {
	cfg := getConfig()
	flags := cmd.Flags()

	kind, _ := flags.GetString("type")
	rec := model.New(payload, model.ParseKind(kind))
	rec.Size = cfg.Generate.Size
	rec.Border = cfg.Generate.Border
	rec.ErrorCorrection = model.ParseECLevel(cfg.Generate.ErrorCorrection)
	rec.OutputFormat = model.ParseFormat(cfg.Generate.OutputFormat)

	if v, _ := flags.GetInt("size"); v > 0 {
		rec.Size = v
	}
	if v, _ := flags.GetInt("border"); v >= 0 {
		rec.Border = v
	}
	if v, _ := flags.GetInt("symbol-version"); v > 0 {
		rec.Version = v
	}
	if v, _ := flags.GetString("error-correction"); v != "" {
		rec.ErrorCorrection = model.ParseECLevel(v)
	}
	if v, _ := flags.GetString("fg"); v != "" {
		rec.ForegroundColor = v
	}
	if v, _ := flags.GetString("bg"); v != "" {
		rec.BackgroundColor = v
	}
	if v, _ := flags.GetString("gradient-start"); v != "" {
		rec.GradientStart = v
	}
	if v, _ := flags.GetString("gradient-end"); v != "" {
		rec.GradientEnd = v
	}
	if v, _ := flags.GetString("gradient-type"); v != "" {
		rec.GradientType = model.GradientType(v)
	}
	if v, _ := flags.GetString("logo"); v != "" {
		rec.LogoPath = v
		rec.LogoScale = cfg.Generate.LogoScale
	}
	if v, _ := flags.GetFloat64("logo-scale"); v > 0 {
		rec.LogoScale = v
	}
	if v, _ := flags.GetString("format"); v != "" {
		rec.OutputFormat = model.ParseFormat(v)
	}
	rec.Normalize()
	return rec
}
