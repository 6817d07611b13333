package model

import (
	"fmt"
	"image/color"
	"regexp"
	"strconv"
)

var hexColorPattern = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)

// IsValidColor reports whether s is a 3- or 6-digit hex color with a
// leading '#'.
func IsValidColor(s string) bool {
	return hexColorPattern.MatchString(s)
}

// ParseHexColor converts a hex color string to an opaque RGBA value.
// 3-digit shorthand expands each digit ("#1af" -> "#11aaff").
func ParseHexColor(s string) (color.RGBA, error) {
	if !IsValidColor(s) {
		return color.RGBA{}, fmt.Errorf("invalid color format: %q", s)
	}
	hex := s[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	r, _ := strconv.ParseUint(hex[0:2], 16, 8)
	g, _ := strconv.ParseUint(hex[2:4], 16, 8)
	b, _ := strconv.ParseUint(hex[4:6], 16, 8)
	return color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 0xFF}, nil
}
