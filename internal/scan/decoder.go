package scan

import (
	"image"
	"math"
	"strings"
	"time"

	"github.com/makiuchi-d/gozxing"
	multiqr "github.com/makiuchi-d/gozxing/multi/qrcode"
	"github.com/makiuchi-d/gozxing/qrcode"
	"golang.org/x/text/unicode/norm"
)

// decodeImage finds every readable QR symbol in the image. It returns nil
// when nothing decodes; that is an ordinary outcome, not an error.
func decodeImage(img image.Image, source string) []Result {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return nil
	}
	hints := map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_TRY_HARDER: true,
	}

	raw, err := multiqr.NewQRCodeMultiReader().DecodeMultiple(bmp, hints)
	if err != nil || len(raw) == 0 {
		// The multi reader misses some single symbols the plain reader
		// finds, so fall back before giving up.
		single, serr := qrcode.NewQRCodeReader().Decode(bmp, hints)
		if serr != nil {
			return nil
		}
		raw = []*gozxing.Result{single}
	}

	now := time.Now().Format(time.RFC3339)
	out := make([]Result, 0, len(raw))
	for _, r := range raw {
		polygon := resultPolygon(r)
		out = append(out, Result{
			Source:      source,
			Data:        sanitize(r.GetText()),
			Format:      r.GetBarcodeFormat().String(),
			Confidence:  confidence(polygon),
			Timestamp:   now,
			Rect:        boundingRect(polygon),
			Polygon:     polygon,
			Orientation: orientation(polygon),
		})
	}
	return out
}

func resultPolygon(r *gozxing.Result) []Point {
	points := r.GetResultPoints()
	out := make([]Point, 0, len(points))
	for _, p := range points {
		if p == nil {
			continue
		}
		out = append(out, Point{X: p.GetX(), Y: p.GetY()})
	}
	return out
}

// boundingRect is the axis-aligned box around the locator points.
func boundingRect(polygon []Point) Rect {
	if len(polygon) == 0 {
		return Rect{}
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range polygon {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{Left: minX, Top: minY, Width: maxX - minX, Height: maxY - minY}
}

// confidence scores a hit from the symbol's footprint: bigger symbols with
// a full set of locator points decode more reliably. The score is a rough
// heuristic in [0, 1], rounded to two places.
func confidence(polygon []Point) float64 {
	if len(polygon) == 0 {
		return 0
	}
	r := boundingRect(polygon)
	area := r.Width * r.Height

	score := math.Min(area/10000, 1) * math.Min(float64(len(polygon))/4, 1)
	return math.Round(score*100) / 100
}

// orientation estimates how the symbol sits in the frame from the angle of
// its top edge, snapped to the nearest quarter turn.
func orientation(polygon []Point) string {
	if len(polygon) < 3 {
		return "unknown"
	}
	// Locator points arrive bottom-left, top-left, top-right; the top edge
	// runs from the second to the third.
	dx := polygon[2].X - polygon[1].X
	dy := polygon[2].Y - polygon[1].Y
	deg := math.Atan2(dy, dx) * 180 / math.Pi
	if deg < 0 {
		deg += 360
	}

	const tolerance = 15.0
	switch {
	case deg < tolerance || deg > 360-tolerance:
		return "normal"
	case math.Abs(deg-90) < tolerance:
		return "rotated 90"
	case math.Abs(deg-180) < tolerance:
		return "rotated 180"
	case math.Abs(deg-270) < tolerance:
		return "rotated 270"
	default:
		return "tilted"
	}
}

// sanitize forces decoded text to valid, composed UTF-8. Symbols encoded
// with legacy charsets decode lossily rather than propagating garbage.
func sanitize(s string) string {
	return norm.NFC.String(strings.ToValidUTF8(s, "�"))
}
