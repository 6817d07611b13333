package scan

import (
	"image"
	"image/color"
	"image/draw"
	"math"
)

var (
	overlayPolygonColor = color.RGBA{0x00, 0xFF, 0x00, 0xFF}
	overlayCenterColor  = color.RGBA{0xFF, 0x00, 0x00, 0xFF}
)

// Overlay returns a copy of the frame with each hit's polygon and center
// dot drawn on it.
func Overlay(frame image.Image, results []Result) *image.RGBA {
	b := frame.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), frame, b.Min, draw.Src)

	for _, r := range results {
		if len(r.Polygon) >= 2 {
			drawPolygon(dst, r.Polygon, overlayPolygonColor, 2)
		}
		if len(r.Polygon) > 0 {
			c := r.Center()
			drawDot(dst, int(math.Round(c.X)), int(math.Round(c.Y)), overlayCenterColor, 4)
		}
	}
	return dst
}

// drawPolygon draws connected segments and closes the loop.
func drawPolygon(dst *image.RGBA, pts []Point, col color.Color, thickness int) {
	ip := make([]image.Point, len(pts))
	for i, p := range pts {
		ip[i] = image.Pt(int(math.Round(p.X)), int(math.Round(p.Y)))
	}
	for i := range ip {
		drawLine(dst, ip[i], ip[(i+1)%len(ip)], col, thickness)
	}
}

// drawLine is a simple Bresenham variant.
func drawLine(dst *image.RGBA, a, b image.Point, col color.Color, thickness int) {
	x0, y0 := a.X, a.Y
	x1, y1 := b.X, b.Y
	dx := int(math.Abs(float64(x1 - x0)))
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -int(math.Abs(float64(y1 - y0)))
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		drawDot(dst, x0, y0, col, thickness)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func drawDot(dst *image.RGBA, x, y int, col color.Color, size int) {
	if size < 1 {
		size = 1
	}
	r := (size - 1) / 2
	for yy := y - r; yy <= y+r; yy++ {
		for xx := x - r; xx <= x+r; xx++ {
			if image.Pt(xx, yy).In(dst.Bounds()) {
				dst.Set(xx, yy, col)
			}
		}
	}
}
