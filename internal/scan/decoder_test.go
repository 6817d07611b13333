package scan

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qrstudio/qrstudio/internal/model"
	"github.com/qrstudio/qrstudio/internal/render"
)

func renderedSymbol(t *testing.T, payload string) *model.Record {
	t.Helper()
	rec := model.New(payload, model.KindText)
	rec.Size = 10
	rec.Border = 4
	return &rec
}

func TestDecodeImage_RoundTrip(t *testing.T) {
	rec := renderedSymbol(t, "https://example.com/round-trip")
	img, err := render.Render(*rec)
	require.NoError(t, err)

	results := decodeImage(img, "test")
	require.Len(t, results, 1)

	r := results[0]
	assert.Equal(t, "https://example.com/round-trip", r.Data)
	assert.Equal(t, "test", r.Source)
	assert.Equal(t, "QR_CODE", r.Format)
	assert.Positive(t, r.Confidence)
	assert.NotEmpty(t, r.Timestamp)
	assert.NotEmpty(t, r.Polygon)
	assert.Positive(t, r.Rect.Width)
	assert.Positive(t, r.Rect.Height)
}

func TestDecodeImage_GradientSymbolStillDecodes(t *testing.T) {
	rec := renderedSymbol(t, "gradient payload")
	rec.GradientStart = "#000066"
	rec.GradientEnd = "#330033"

	img, err := render.Render(*rec)
	require.NoError(t, err)

	results := decodeImage(img, "test")
	require.Len(t, results, 1)
	assert.Equal(t, "gradient payload", results[0].Data)
}

func TestDecodeImage_NoSymbol(t *testing.T) {
	results := decodeImage(whiteFrame(64, 64), "test")
	assert.Empty(t, results)
}

func TestBoundingRect(t *testing.T) {
	t.Run("empty polygon", func(t *testing.T) {
		assert.Equal(t, Rect{}, boundingRect(nil))
	})

	t.Run("box around the locator points", func(t *testing.T) {
		poly := []Point{{30, 40}, {130, 40}, {130, 160}}
		rect := boundingRect(poly)
		assert.Equal(t, Rect{Left: 30, Top: 40, Width: 100, Height: 120}, rect)
	})

	t.Run("decoded result carries its rect", func(t *testing.T) {
		rec := renderedSymbol(t, "rect payload")
		img, err := render.Render(*rec)
		require.NoError(t, err)

		results := decodeImage(img, "test")
		require.Len(t, results, 1)
		assert.Equal(t, boundingRect(results[0].Polygon), results[0].Rect)
	})
}

func TestConfidence(t *testing.T) {
	t.Run("empty polygon", func(t *testing.T) {
		assert.Zero(t, confidence(nil))
	})

	t.Run("large symbol with full locator set", func(t *testing.T) {
		poly := []Point{{0, 0}, {200, 0}, {200, 200}, {0, 200}}
		assert.InDelta(t, 1.0, confidence(poly), 1e-9)
	})

	t.Run("small symbol scores lower", func(t *testing.T) {
		poly := []Point{{0, 0}, {50, 0}, {50, 50}, {0, 50}}
		// 2500/10000 = 0.25 area factor, full point factor.
		assert.InDelta(t, 0.25, confidence(poly), 1e-9)
	})

	t.Run("missing points reduce the score", func(t *testing.T) {
		full := confidence([]Point{{0, 0}, {200, 0}, {200, 200}, {0, 200}})
		partial := confidence([]Point{{0, 0}, {200, 0}, {200, 200}})
		assert.Less(t, partial, full)
	})

	t.Run("rounded to two places", func(t *testing.T) {
		poly := []Point{{0, 0}, {57.3, 0}, {57.3, 57.3}, {0, 57.3}}
		c := confidence(poly)
		assert.InDelta(t, c, math.Round(c*100)/100, 1e-12)
	})
}

func TestOrientation(t *testing.T) {
	tests := []struct {
		name     string
		polygon  []Point
		expected string
	}{
		{"too few points", []Point{{0, 0}}, "unknown"},
		{"upright", []Point{{0, 100}, {0, 0}, {100, 0}}, "normal"},
		{"quarter turn", []Point{{100, 100}, {0, 100}, {0, 200}}, "rotated 90"},
		{"upside down", []Point{{100, 0}, {100, 100}, {0, 100}}, "rotated 180"},
		{"three quarter turn", []Point{{0, 100}, {100, 100}, {100, 0}}, "rotated 270"},
		{"diagonal", []Point{{0, 0}, {0, 100}, {100, 170}}, "tilted"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, orientation(tt.polygon))
		})
	}
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "plain", sanitize("plain"))
	assert.Equal(t, "héllo", sanitize("héllo"))
	// Invalid bytes become replacement runes instead of propagating.
	assert.Equal(t, "a�b", sanitize("a\xffb"))
}
