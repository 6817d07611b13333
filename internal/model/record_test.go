package model

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	r := New("https://example.com", KindURL)

	assert.Len(t, r.ID, 8)
	assert.Equal(t, "https://example.com", r.Data)
	assert.Equal(t, KindURL, r.Kind)
	assert.Equal(t, DefaultVersion, r.Version)
	assert.Equal(t, ECHigh, r.ErrorCorrection)
	assert.Equal(t, DefaultSize, r.Size)
	assert.Equal(t, DefaultBorder, r.Border)
	assert.Equal(t, DefaultForeground, r.ForegroundColor)
	assert.Equal(t, DefaultBackground, r.BackgroundColor)
	assert.Equal(t, DefaultLogoScale, r.LogoScale)
	assert.Equal(t, GradientLinear, r.GradientType)
	assert.Equal(t, FormatPNG, r.OutputFormat)
	assert.NotNil(t, r.Tags)
	assert.NotEmpty(t, r.CreatedAt)

	_, err := time.Parse(time.RFC3339, r.CreatedAt)
	require.NoError(t, err)
}

func TestNormalize_LogoScaleClamp(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		scale    float64
		expected float64
	}{
		{"below minimum", "logo.png", 0.01, 0.05},
		{"above maximum", "logo.png", 0.9, 0.5},
		{"in range", "logo.png", 0.3, 0.3},
		{"no logo path resets", "", 0.4, 0.2},
		{"no logo path resets even out of range", "", 7.5, 0.2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New("data", KindText)
			r.LogoPath = tt.path
			r.LogoScale = tt.scale
			r.Normalize()
			assert.InDelta(t, tt.expected, r.LogoScale, 1e-9)
		})
	}
}

func TestValidate(t *testing.T) {
	valid := func() Record {
		r := New("hello", KindText)
		return r
	}

	t.Run("valid record", func(t *testing.T) {
		r := valid()
		require.NoError(t, r.Validate())
	})

	t.Run("empty payload", func(t *testing.T) {
		r := valid()
		r.Data = "   "
		assert.ErrorContains(t, r.Validate(), "payload")
	})

	t.Run("module size out of range", func(t *testing.T) {
		r := valid()
		r.Size = 51
		assert.ErrorContains(t, r.Validate(), "module size")
		r.Size = 0
		assert.ErrorContains(t, r.Validate(), "module size")
	})

	t.Run("border out of range", func(t *testing.T) {
		r := valid()
		r.Border = 11
		assert.ErrorContains(t, r.Validate(), "border")
	})

	t.Run("version out of range", func(t *testing.T) {
		r := valid()
		r.Version = 41
		assert.ErrorContains(t, r.Validate(), "version")
	})

	t.Run("bad error correction", func(t *testing.T) {
		r := valid()
		r.ErrorCorrection = ECLevel("X")
		assert.ErrorContains(t, r.Validate(), "error correction")
	})

	t.Run("bad foreground color", func(t *testing.T) {
		r := valid()
		r.ForegroundColor = "red"
		assert.ErrorContains(t, r.Validate(), "foreground")
	})

	t.Run("gradient requires both colors", func(t *testing.T) {
		r := valid()
		r.GradientStart = "#FF0000"
		err := r.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "both start and end")

		r = valid()
		r.GradientEnd = "#00FF00"
		err = r.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "both start and end")
	})

	t.Run("bad gradient type", func(t *testing.T) {
		r := valid()
		r.GradientType = GradientType("diagonal")
		assert.ErrorContains(t, r.Validate(), "gradient type")
	})
}

func TestHasGradient(t *testing.T) {
	r := New("x", KindText)
	assert.False(t, r.HasGradient())
	r.GradientStart = "#000000"
	assert.False(t, r.HasGradient())
	r.GradientEnd = "#FFFFFF"
	assert.True(t, r.HasGradient())
}

func TestNewID_DistinctForSamePayload(t *testing.T) {
	a := NewID("same")
	time.Sleep(time.Microsecond)
	b := NewID("same")
	assert.Len(t, a, 8)
	assert.NotEqual(t, a, b)
}

func TestCoerceLogoScale(t *testing.T) {
	tests := []struct {
		name     string
		in       any
		expected float64
	}{
		{"nil", nil, 0.2},
		{"fraction", 0.35, 0.35},
		{"percent int", 60, 0.6},
		{"percent float", 45.0, 0.45},
		{"string fraction", "0.25", 0.25},
		{"string percent", "30", 0.3},
		{"garbage string", "huge", 0.2},
		{"zero", 0.0, 0.2},
		{"bool", true, 0.2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, CoerceLogoScale(tt.in), 1e-9)
		})
	}
}

func TestFromMap_Defensive(t *testing.T) {
	r := FromMap(map[string]any{
		"data":    "hello",
		"qr_type": "nonsense",
		"tags":    `["a","b"]`,
	})

	assert.Equal(t, KindText, r.Kind)
	assert.Equal(t, ECHigh, r.ErrorCorrection)
	assert.Equal(t, DefaultSize, r.Size)
	assert.Equal(t, DefaultBorder, r.Border)
	assert.Equal(t, []string{"a", "b"}, r.Tags)
	assert.NotEmpty(t, r.ID)
	assert.NotEmpty(t, r.CreatedAt)
}

func TestFromMap_MalformedTagsYieldEmptyList(t *testing.T) {
	r := FromMap(map[string]any{"data": "x", "tags": `{"not":"a list"`})
	assert.Equal(t, []string{}, r.Tags)
}

func TestApply_TemplateOverlay(t *testing.T) {
	r := New("payload", KindURL)
	r.Apply(map[string]any{
		"foreground_color": "#123456",
		"gradient_start":   "#FF0000",
		"gradient_end":     "#0000FF",
		"gradient_type":    "radial",
		"size":             20,
		"logo_path":        "logo.png",
		"logo_scale":       60,
	})

	assert.Equal(t, "#123456", r.ForegroundColor)
	assert.Equal(t, GradientRadial, r.GradientType)
	assert.Equal(t, 20, r.Size)
	// 60 is a legacy percentage: 0.6, clamped down to the maximum.
	assert.InDelta(t, 0.5, r.LogoScale, 1e-9)
	// Untouched fields survive.
	assert.Equal(t, "payload", r.Data)
	assert.Equal(t, DefaultBorder, r.Border)
}

func TestStyleRoundTrip(t *testing.T) {
	r := New("payload", KindWiFi)
	r.ForegroundColor = "#112233"
	r.GradientStart = "#FF0000"
	r.GradientEnd = "#00FF00"
	r.LogoPath = "logo.png"
	r.LogoScale = 0.3
	r.Normalize()

	other := New("other", KindText)
	other.Apply(r.Style())

	assert.Equal(t, r.ForegroundColor, other.ForegroundColor)
	assert.Equal(t, r.GradientStart, other.GradientStart)
	assert.Equal(t, r.GradientEnd, other.GradientEnd)
	assert.InDelta(t, r.LogoScale, other.LogoScale, 1e-9)
	assert.Equal(t, "other", other.Data)
}

func TestSummary(t *testing.T) {
	r := New("https://example.com", KindURL)
	r.Tags = []string{"work"}
	r.Notes = strings.Repeat("n", 60)

	s := r.Summary()
	assert.Contains(t, s, r.ID)
	assert.Contains(t, s, "Version: auto")
	assert.Contains(t, s, "Tags: work")
	assert.Contains(t, s, "...")
}
