package model

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Default values applied when a field is absent from user input or from an
// older database file.
const (
	DefaultVersion         = 0
	DefaultErrorCorrection = ECHigh
	DefaultSize            = 10
	DefaultBorder          = 4
	DefaultForeground      = "#000000"
	DefaultBackground      = "#FFFFFF"
	DefaultLogoScale       = 0.2
	DefaultOutputFormat    = FormatPNG
)

// Geometry limits for a Record.
const (
	MinModuleSize = 1
	MaxModuleSize = 50
	MinBorder     = 0
	MaxBorder     = 10
	MaxVersion    = 40
	MinLogoScale  = 0.05
	MaxLogoScale  = 0.5
)

// Kind labels the semantic category of a payload. It is a user-facing tag
// only and never alters how the payload is encoded.
type Kind string

const (
	KindURL      Kind = "URL"
	KindText     Kind = "TEXT"
	KindWiFi     Kind = "WIFI"
	KindVCard    Kind = "VCARD"
	KindEmail    Kind = "EMAIL"
	KindSMS      Kind = "SMS"
	KindPhone    Kind = "PHONE"
	KindLocation Kind = "LOCATION"
	KindEvent    Kind = "EVENT"
	KindBitcoin  Kind = "BITCOIN"
	KindContact  Kind = "CONTACT"
	KindWhatsApp Kind = "WHATSAPP"
)

// Kinds lists every payload category in display order.
func Kinds() []Kind {
	return []Kind{
		KindURL, KindText, KindWiFi, KindVCard, KindEmail, KindSMS,
		KindPhone, KindLocation, KindEvent, KindBitcoin, KindContact,
		KindWhatsApp,
	}
}

// ParseKind maps a stored type string to a Kind. Unknown or invalid values
// fall back to KindText so a single bad row never poisons a listing.
func ParseKind(s string) Kind {
	k := Kind(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Kinds() {
		if k == known {
			return k
		}
	}
	return KindText
}

// ECLevel is a QR error-correction level.
type ECLevel string

const (
	ECLow      ECLevel = "L"
	ECMedium   ECLevel = "M"
	ECQuartile ECLevel = "Q"
	ECHigh     ECLevel = "H"
)

// RecoverableFraction returns the nominal fraction of symbol damage the
// level can recover from.
func (l ECLevel) RecoverableFraction() float64 {
	switch l {
	case ECLow:
		return 0.07
	case ECMedium:
		return 0.15
	case ECQuartile:
		return 0.25
	default:
		return 0.30
	}
}

// ParseECLevel maps a stored level string to an ECLevel, defaulting to H.
func ParseECLevel(s string) ECLevel {
	switch ECLevel(strings.ToUpper(strings.TrimSpace(s))) {
	case ECLow:
		return ECLow
	case ECMedium:
		return ECMedium
	case ECQuartile:
		return ECQuartile
	default:
		return ECHigh
	}
}

// GradientType selects how a two-color gradient is laid across the symbol.
type GradientType string

const (
	GradientLinear GradientType = "linear"
	GradientRadial GradientType = "radial"
)

// Format is an output container format label. Labels the renderer cannot
// serve natively fall back to PNG at save time.
type Format string

const (
	FormatPNG  Format = "PNG"
	FormatJPEG Format = "JPEG"
	FormatSVG  Format = "SVG"
	FormatPDF  Format = "PDF"
	FormatBMP  Format = "BMP"
	FormatGIF  Format = "GIF"
)

// ParseFormat maps a stored format string to a Format, defaulting to PNG.
func ParseFormat(s string) Format {
	switch Format(strings.ToUpper(strings.TrimSpace(s))) {
	case FormatJPEG, Format("JPG"):
		return FormatJPEG
	case FormatSVG:
		return FormatSVG
	case FormatPDF:
		return FormatPDF
	case FormatBMP:
		return FormatBMP
	case FormatGIF:
		return FormatGIF
	default:
		return FormatPNG
	}
}

// Ext returns the file extension (with dot) for the format.
func (f Format) Ext() string {
	switch f {
	case FormatJPEG:
		return ".jpg"
	case FormatSVG:
		return ".svg"
	case FormatPDF:
		return ".pdf"
	case FormatBMP:
		return ".bmp"
	case FormatGIF:
		return ".gif"
	default:
		return ".png"
	}
}

// Record describes one code-generation request and its styling. It is pure
// data: construct it, normalize it, validate it, then hand it to the render
// pipeline or the store. A saved record is superseded by re-saving under the
// same ID, never mutated in place.
type Record struct {
	ID              string       `json:"id"`
	Data            string       `json:"data"`
	Kind            Kind         `json:"qr_type"`
	Version         int          `json:"version"`
	ErrorCorrection ECLevel      `json:"error_correction"`
	Size            int          `json:"size"`
	Border          int          `json:"border"`
	ForegroundColor string       `json:"foreground_color"`
	BackgroundColor string       `json:"background_color"`
	LogoPath        string       `json:"logo_path,omitempty"`
	LogoScale       float64      `json:"logo_scale"`
	GradientStart   string       `json:"gradient_start,omitempty"`
	GradientEnd     string       `json:"gradient_end,omitempty"`
	GradientType    GradientType `json:"gradient_type"`
	CreatedAt       string       `json:"created_at"`
	Tags            []string     `json:"tags"`
	Notes           string       `json:"notes"`
	OutputFormat    Format       `json:"output_format"`
}

// New builds a record with the documented defaults and a fresh identifier.
func New(data string, kind Kind) Record {
	r := Record{
		ID:              NewID(data),
		Data:            data,
		Kind:            kind,
		Version:         DefaultVersion,
		ErrorCorrection: DefaultErrorCorrection,
		Size:            DefaultSize,
		Border:          DefaultBorder,
		ForegroundColor: DefaultForeground,
		BackgroundColor: DefaultBackground,
		LogoScale:       DefaultLogoScale,
		GradientType:    GradientLinear,
		OutputFormat:    DefaultOutputFormat,
	}
	r.Normalize()
	return r
}

// NewID derives a short identifier from the payload and the current wall
// clock. Eight hex digits; collisions overwrite on save.
func NewID(data string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s_%d", data, time.Now().UnixNano())))
	return hex.EncodeToString(sum[:])[:8]
}

// Normalize fills derived fields and enforces the logo-scale clamp. It is
// idempotent and must run before a record is validated, rendered or stored.
func (r *Record) Normalize() {
	if r.CreatedAt == "" {
		r.CreatedAt = time.Now().Format(time.RFC3339)
	}
	if r.Tags == nil {
		r.Tags = []string{}
	}
	if r.LogoScale < MinLogoScale {
		r.LogoScale = MinLogoScale
	} else if r.LogoScale > MaxLogoScale {
		r.LogoScale = MaxLogoScale
	}
	// Without a logo the scale always reverts to the default, regardless of
	// what was previously stored.
	if r.LogoPath == "" {
		r.LogoScale = DefaultLogoScale
	}
}

// Validate checks every invariant the render pipeline relies on. The
// returned error message is suitable for direct display.
func (r *Record) Validate() error {
	if strings.TrimSpace(r.Data) == "" {
		return fmt.Errorf("payload must not be empty")
	}
	if r.Size < MinModuleSize || r.Size > MaxModuleSize {
		return fmt.Errorf("module size must be between %d and %d", MinModuleSize, MaxModuleSize)
	}
	if r.Border < MinBorder || r.Border > MaxBorder {
		return fmt.Errorf("border must be between %d and %d", MinBorder, MaxBorder)
	}
	if r.Version < 0 || r.Version > MaxVersion {
		return fmt.Errorf("version must be between 0 and %d (0 means automatic)", MaxVersion)
	}
	switch r.ErrorCorrection {
	case ECLow, ECMedium, ECQuartile, ECHigh:
	default:
		return fmt.Errorf("error correction level must be L, M, Q or H")
	}
	if r.LogoScale < MinLogoScale || r.LogoScale > MaxLogoScale {
		return fmt.Errorf("logo scale must be between 5%% and 50%%")
	}
	if !IsValidColor(r.ForegroundColor) {
		return fmt.Errorf("invalid foreground color: %q", r.ForegroundColor)
	}
	if !IsValidColor(r.BackgroundColor) {
		return fmt.Errorf("invalid background color: %q", r.BackgroundColor)
	}
	if r.GradientStart != "" && !IsValidColor(r.GradientStart) {
		return fmt.Errorf("invalid gradient start color: %q", r.GradientStart)
	}
	if r.GradientEnd != "" && !IsValidColor(r.GradientEnd) {
		return fmt.Errorf("invalid gradient end color: %q", r.GradientEnd)
	}
	if (r.GradientStart == "") != (r.GradientEnd == "") {
		return fmt.Errorf("gradient requires both start and end colors")
	}
	if r.GradientType != GradientLinear && r.GradientType != GradientRadial {
		return fmt.Errorf("gradient type must be linear or radial")
	}
	return nil
}

// HasGradient reports whether the record requests a gradient fill. A set
// gradient pair fully overrides the flat foreground color.
func (r *Record) HasGradient() bool {
	return r.GradientStart != "" && r.GradientEnd != ""
}

// CoerceLogoScale converts a stored logo-scale value to a fraction. Older
// files stored whole-number percentages and occasionally strings; this is
// the single compatibility decoder for that legacy representation.
func CoerceLogoScale(v any) float64 {
	var f float64
	switch val := v.(type) {
	case nil:
		return DefaultLogoScale
	case float64:
		f = val
	case float32:
		f = float64(val)
	case int:
		f = float64(val)
	case int64:
		f = float64(val)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return DefaultLogoScale
		}
		f = parsed
	default:
		return DefaultLogoScale
	}
	if f == 0 {
		return DefaultLogoScale
	}
	// Values above 1 were stored as whole-number percentages.
	if f > 1 {
		f /= 100.0
	}
	return f
}

// FromMap builds a record from a loose key/value bag (template overlays,
// JSON imports, legacy rows). Absent fields take the documented defaults;
// malformed optional fields degrade instead of failing the whole record.
func FromMap(m map[string]any) Record {
	r := Record{
		ID:              stringField(m, "id"),
		Data:            stringField(m, "data"),
		Kind:            ParseKind(stringField(m, "qr_type")),
		Version:         intField(m, "version", DefaultVersion),
		ErrorCorrection: ParseECLevel(stringField(m, "error_correction")),
		Size:            intField(m, "size", DefaultSize),
		Border:          intField(m, "border", DefaultBorder),
		ForegroundColor: stringFieldDefault(m, "foreground_color", DefaultForeground),
		BackgroundColor: stringFieldDefault(m, "background_color", DefaultBackground),
		LogoPath:        stringField(m, "logo_path"),
		LogoScale:       CoerceLogoScale(m["logo_scale"]),
		GradientStart:   stringField(m, "gradient_start"),
		GradientEnd:     stringField(m, "gradient_end"),
		GradientType:    GradientType(stringFieldDefault(m, "gradient_type", string(GradientLinear))),
		CreatedAt:       stringField(m, "created_at"),
		Tags:            tagsField(m["tags"]),
		Notes:           stringField(m, "notes"),
		OutputFormat:    ParseFormat(stringField(m, "output_format")),
	}
	if r.ID == "" {
		r.ID = NewID(r.Data)
	}
	r.Normalize()
	return r
}

// Apply overlays the non-empty fields of a partial style bag onto the
// record. Templates are diffs, not standalone records.
func (r *Record) Apply(style map[string]any) {
	if v, ok := style["qr_type"]; ok {
		r.Kind = ParseKind(fmt.Sprint(v))
	}
	if _, ok := style["version"]; ok {
		r.Version = intField(style, "version", r.Version)
	}
	if v, ok := style["error_correction"]; ok {
		r.ErrorCorrection = ParseECLevel(fmt.Sprint(v))
	}
	if _, ok := style["size"]; ok {
		r.Size = intField(style, "size", r.Size)
	}
	if _, ok := style["border"]; ok {
		r.Border = intField(style, "border", r.Border)
	}
	for key, dst := range map[string]*string{
		"foreground_color": &r.ForegroundColor,
		"background_color": &r.BackgroundColor,
		"gradient_start":   &r.GradientStart,
		"gradient_end":     &r.GradientEnd,
		"logo_path":        &r.LogoPath,
	} {
		if v := stringField(style, key); v != "" {
			*dst = v
		}
	}
	if v, ok := style["gradient_type"]; ok {
		r.GradientType = GradientType(fmt.Sprint(v))
	}
	if v, ok := style["logo_scale"]; ok {
		r.LogoScale = CoerceLogoScale(v)
	}
	if v, ok := style["output_format"]; ok {
		r.OutputFormat = ParseFormat(fmt.Sprint(v))
	}
	r.Normalize()
}

// Style extracts the record's visual parameters as a partial-style bag,
// the shape stored for templates.
func (r *Record) Style() map[string]any {
	style := map[string]any{
		"qr_type":          string(r.Kind),
		"version":          r.Version,
		"error_correction": string(r.ErrorCorrection),
		"size":             r.Size,
		"border":           r.Border,
		"foreground_color": r.ForegroundColor,
		"background_color": r.BackgroundColor,
		"gradient_type":    string(r.GradientType),
		"output_format":    string(r.OutputFormat),
	}
	if r.GradientStart != "" {
		style["gradient_start"] = r.GradientStart
	}
	if r.GradientEnd != "" {
		style["gradient_end"] = r.GradientEnd
	}
	if r.LogoPath != "" {
		style["logo_path"] = r.LogoPath
		style["logo_scale"] = r.LogoScale
	}
	return style
}

// Summary renders a human-readable description for interactive display.
func (r *Record) Summary() string {
	version := "auto"
	if r.Version > 0 {
		version = strconv.Itoa(r.Version)
	}
	lines := []string{
		fmt.Sprintf("ID: %s", r.ID),
		fmt.Sprintf("Kind: %s", r.Kind),
		fmt.Sprintf("Version: %s", version),
		fmt.Sprintf("Error correction: %s (%.0f%%)", r.ErrorCorrection, r.ErrorCorrection.RecoverableFraction()*100),
		fmt.Sprintf("Module size: %dpx", r.Size),
		fmt.Sprintf("Border: %d modules", r.Border),
		fmt.Sprintf("Foreground: %s", r.ForegroundColor),
		fmt.Sprintf("Background: %s", r.BackgroundColor),
		fmt.Sprintf("Payload length: %d", len(r.Data)),
		fmt.Sprintf("Created: %s", r.CreatedAt),
		fmt.Sprintf("Output format: %s", r.OutputFormat),
	}
	if r.LogoPath != "" {
		lines = append(lines,
			fmt.Sprintf("Logo: %s", r.LogoPath),
			fmt.Sprintf("Logo scale: %d%%", int(r.LogoScale*100)))
	}
	if r.HasGradient() {
		lines = append(lines, fmt.Sprintf("Gradient: %s -> %s (%s)", r.GradientStart, r.GradientEnd, r.GradientType))
	}
	if len(r.Tags) > 0 {
		lines = append(lines, fmt.Sprintf("Tags: %s", strings.Join(r.Tags, ", ")))
	}
	if r.Notes != "" {
		notes := r.Notes
		if len(notes) > 50 {
			notes = notes[:50] + "..."
		}
		lines = append(lines, fmt.Sprintf("Notes: %s", notes))
	}
	return strings.Join(lines, "\n")
}

func stringField(m map[string]any, key string) string {
	if v, ok := m[key]; ok && v != nil {
		if s, ok := v.(string); ok {
			return s
		}
		return fmt.Sprint(v)
	}
	return ""
}

func stringFieldDefault(m map[string]any, key, def string) string {
	if s := stringField(m, key); s != "" {
		return s
	}
	return def
}

func intField(m map[string]any, key string, def int) int {
	v, ok := m[key]
	if !ok || v == nil {
		return def
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case string:
		if parsed, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return parsed
		}
	}
	return def
}

func tagsField(v any) []string {
	switch tags := v.(type) {
	case nil:
		return []string{}
	case []string:
		return tags
	case []any:
		out := make([]string, 0, len(tags))
		for _, t := range tags {
			out = append(out, fmt.Sprint(t))
		}
		return out
	case string:
		if tags == "" {
			return []string{}
		}
		var out []string
		if err := json.Unmarshal([]byte(tags), &out); err != nil || out == nil {
			return []string{}
		}
		return out
	}
	return []string{}
}
