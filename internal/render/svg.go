package render

import (
	"fmt"
	"strings"

	"github.com/qrstudio/qrstudio/internal/model"
)

// SVG emits the record as a vector document. Gradient fills use a native
// SVG gradient definition; the geometry matches the raster canvas exactly.
func SVG(rec model.Record) (string, error) {
	rec.Normalize()
	if err := rec.Validate(); err != nil {
		return "", err
	}
	qr, err := encode(rec)
	if err != nil {
		return "", err
	}
	bitmap := qr.Bitmap()
	modules := len(bitmap)
	side := (modules + 2*rec.Border) * rec.Size
	offset := rec.Border * rec.Size

	var b strings.Builder
	fmt.Fprintf(&b, `<?xml version="1.0" encoding="UTF-8"?>`+"\n")
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		side, side, side, side)

	fill := rec.ForegroundColor
	if rec.HasGradient() {
		fill = "url(#grad)"
		b.WriteString("  <defs>\n")
		if rec.GradientType == model.GradientRadial {
			fmt.Fprintf(&b, `    <radialGradient id="grad" cx="50%%" cy="50%%" r="71%%">`+"\n")
		} else {
			fmt.Fprintf(&b, `    <linearGradient id="grad" x1="0%%" y1="0%%" x2="100%%" y2="100%%">`+"\n")
		}
		fmt.Fprintf(&b, `      <stop offset="0%%" stop-color="%s"/>`+"\n", rec.GradientStart)
		fmt.Fprintf(&b, `      <stop offset="100%%" stop-color="%s"/>`+"\n", rec.GradientEnd)
		if rec.GradientType == model.GradientRadial {
			b.WriteString("    </radialGradient>\n")
		} else {
			b.WriteString("    </linearGradient>\n")
		}
		b.WriteString("  </defs>\n")
	}

	fmt.Fprintf(&b, `  <rect width="%d" height="%d" fill="%s"/>`+"\n", side, side, rec.BackgroundColor)
	for y, row := range bitmap {
		for x, set := range row {
			if !set {
				continue
			}
			fmt.Fprintf(&b, `  <rect x="%d" y="%d" width="%d" height="%d" fill="%s"/>`+"\n",
				offset+x*rec.Size, offset+y*rec.Size, rec.Size, rec.Size, fill)
		}
	}
	b.WriteString("</svg>\n")
	return b.String(), nil
}
