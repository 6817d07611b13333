package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"

	"github.com/disintegration/imaging"

	"github.com/qrstudio/qrstudio/internal/model"
)

// Logo size limits in pixels. The lower bound keeps a logo scannable on
// tiny canvases; the upper bound keeps it from covering more data modules
// than the error-correction level can recover.
const minLogoPixels = 20

// overlayLogo pastes the record's logo, resized and circle-masked, onto the
// canvas center.
func overlayLogo(canvas *image.RGBA, rec model.Record) error {
	if _, err := os.Stat(rec.LogoPath); err != nil {
		return fmt.Errorf("logo file not found: %s: %w", rec.LogoPath, err)
	}
	logo, err := imaging.Open(rec.LogoPath)
	if err != nil {
		return fmt.Errorf("reading logo %s: %w", rec.LogoPath, err)
	}

	bounds := canvas.Bounds()
	side := bounds.Dx()
	if bounds.Dy() < side {
		side = bounds.Dy()
	}
	target := int(float64(side) * rec.LogoScale)
	if target < minLogoPixels {
		target = minLogoPixels
	}
	if target > side/2 {
		target = side / 2
	}

	resized := imaging.Resize(logo, target, target, imaging.Lanczos)
	mask := circleMask(target)

	x := (bounds.Dx() - target) / 2
	y := (bounds.Dy() - target) / 2
	dst := image.Rect(x, y, x+target, y+target)
	draw.DrawMask(canvas, dst, resized, image.Point{}, mask, image.Point{}, draw.Over)
	return nil
}

// circleMask builds an alpha disc of the given diameter.
func circleMask(diameter int) *image.Alpha {
	mask := image.NewAlpha(image.Rect(0, 0, diameter, diameter))
	r := float64(diameter) / 2
	for y := 0; y < diameter; y++ {
		for x := 0; x < diameter; x++ {
			dx := float64(x) + 0.5 - r
			dy := float64(y) + 0.5 - r
			if dx*dx+dy*dy <= r*r {
				mask.SetAlpha(x, y, color.Alpha{A: 0xFF})
			}
		}
	}
	return mask
}
