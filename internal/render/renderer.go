// Package render turns a validated record into styled QR imagery: raster
// canvases with flat or gradient fills and an optional centered logo, plus
// vector (SVG) and document (PDF) containers.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/skip2/go-qrcode"

	"github.com/qrstudio/qrstudio/internal/model"
)

// Render rasterizes the record onto a square canvas of exactly
// (modules + 2*border) * moduleSize pixels.
func Render(rec model.Record) (image.Image, error) {
	rec.Normalize()
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	qr, err := encode(rec)
	if err != nil {
		return nil, err
	}
	bitmap := qr.Bitmap()
	modules := len(bitmap)

	side := (modules + 2*rec.Border) * rec.Size
	offset := rec.Border * rec.Size

	bg, err := model.ParseHexColor(rec.BackgroundColor)
	if err != nil {
		return nil, err
	}
	canvas := image.NewRGBA(image.Rect(0, 0, side, side))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	if rec.HasGradient() {
		if err := drawGradient(canvas, bitmap, rec); err != nil {
			return nil, err
		}
	} else {
		fg, err := model.ParseHexColor(rec.ForegroundColor)
		if err != nil {
			return nil, err
		}
		qr.ForegroundColor = fg
		qr.BackgroundColor = bg
		symbol := qr.Image(-rec.Size)
		draw.Draw(canvas,
			image.Rect(offset, offset, offset+modules*rec.Size, offset+modules*rec.Size),
			symbol, symbol.Bounds().Min, draw.Src)
	}

	if rec.LogoPath != "" {
		if err := overlayLogo(canvas, rec); err != nil {
			return nil, err
		}
	}
	return canvas, nil
}

// encode builds the symbol without a quiet zone; the renderer pads the
// border itself so the canvas geometry is exact.
func encode(rec model.Record) (*qrcode.QRCode, error) {
	level := recoveryLevel(rec.ErrorCorrection)
	var (
		qr  *qrcode.QRCode
		err error
	)
	if rec.Version > 0 {
		qr, err = qrcode.NewWithForcedVersion(rec.Data, rec.Version, level)
	} else {
		qr, err = qrcode.New(rec.Data, level)
	}
	if err != nil {
		return nil, fmt.Errorf("encoding payload: %w", err)
	}
	qr.DisableBorder = true
	return qr, nil
}

func recoveryLevel(l model.ECLevel) qrcode.RecoveryLevel {
	switch l {
	case model.ECLow:
		return qrcode.Low
	case model.ECMedium:
		return qrcode.Medium
	case model.ECQuartile:
		return qrcode.High
	default:
		return qrcode.Highest
	}
}

// drawGradient paints each set module with a color interpolated between the
// gradient endpoints. Linear runs corner to corner; radial runs from the
// symbol center out to the diagonal.
func drawGradient(canvas *image.RGBA, bitmap [][]bool, rec model.Record) error {
	start, err := model.ParseHexColor(rec.GradientStart)
	if err != nil {
		return err
	}
	end, err := model.ParseHexColor(rec.GradientEnd)
	if err != nil {
		return err
	}

	modules := len(bitmap)
	offset := rec.Border * rec.Size
	center := float64(modules) / 2
	maxDist := math.Sqrt2 * center

	for y, row := range bitmap {
		for x, set := range row {
			if !set {
				continue
			}
			var ratio float64
			if rec.GradientType == model.GradientRadial {
				ratio = math.Hypot(float64(x)-center, float64(y)-center) / maxDist
			} else {
				ratio = float64(x+y) / float64(2*modules)
			}
			if ratio > 1 {
				ratio = 1
			}
			cell := image.Rect(
				offset+x*rec.Size, offset+y*rec.Size,
				offset+(x+1)*rec.Size, offset+(y+1)*rec.Size)
			draw.Draw(canvas, cell, image.NewUniform(lerpColor(start, end, ratio)),
				image.Point{}, draw.Src)
		}
	}
	return nil
}

// lerpColor interpolates per channel with truncation, matching the stored
// gradient colors produced by earlier releases bit for bit.
func lerpColor(a, b color.RGBA, ratio float64) color.RGBA {
	return color.RGBA{
		R: uint8(int(a.R) + int(float64(int(b.R)-int(a.R))*ratio)),
		G: uint8(int(a.G) + int(float64(int(b.G)-int(a.G))*ratio)),
		B: uint8(int(a.B) + int(float64(int(b.B)-int(a.B))*ratio)),
		A: 0xFF,
	}
}
