// Package scan decodes QR symbols from image files and camera frames.
package scan

// Point is one symbol corner in image coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned bounding box in image coordinates.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Result is one decoded symbol.
type Result struct {
	Source      string  `json:"source"`
	Data        string  `json:"data"`
	Format      string  `json:"type"`
	Confidence  float64 `json:"confidence"`
	Timestamp   string  `json:"timestamp"`
	Rect        Rect    `json:"rect"`
	Polygon     []Point `json:"polygon,omitempty"`
	Orientation string  `json:"orientation,omitempty"`
}

// Center returns the centroid of the result polygon.
func (r Result) Center() Point {
	if len(r.Polygon) == 0 {
		return Point{}
	}
	var sx, sy float64
	for _, p := range r.Polygon {
		sx += p.X
		sy += p.Y
	}
	n := float64(len(r.Polygon))
	return Point{X: sx / n, Y: sy / n}
}
