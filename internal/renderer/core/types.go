// Package core provides shared types for the renderer subsystem.
// This package breaks import cycles between renderer and backend.
package core

import (
	"fmt"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is an 8-bit RGBA color.
type Color struct {
	R, G, B, A uint8
}

// Common colors.
var (
	White = RGB(255, 255, 255)
	Black = RGB(0, 0, 0)
)

// RGB creates a fully opaque color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 255}
}

// RGBA creates a color with explicit alpha.
func RGBA(r, g, b, a uint8) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// ParseColor parses "#rgb", "#rrggbb" or "#rrggbbaa". The leading '#' is
// optional.
func ParseColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")

	alpha := uint8(255)
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6:
	case 8:
		var a uint8
		if _, err := fmt.Sscanf(hex[6:], "%02x", &a); err != nil {
			return Color{}, fmt.Errorf("invalid hex color: %s", s)
		}
		alpha = a
		hex = hex[:6]
	default:
		return Color{}, fmt.Errorf("invalid hex color length: %s", s)
	}

	c, err := colorful.Hex("#" + hex)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color: %s", s)
	}
	r, g, b := c.RGB255()
	return Color{R: r, G: g, B: b, A: alpha}, nil
}

// Normalized returns the channels scaled to [0,1].
func (c Color) Normalized() [4]float32 {
	return [4]float32{
		float32(c.R) / 255,
		float32(c.G) / 255,
		float32(c.B) / 255,
		float32(c.A) / 255,
	}
}

// FromNormalized converts [0,1] channels back to a Color, clamping values
// outside the range.
func FromNormalized(ch [4]float32) Color {
	rgb := colorful.Color{R: float64(ch[0]), G: float64(ch[1]), B: float64(ch[2])}.Clamped()
	r, g, b := rgb.RGB255()
	return Color{R: r, G: g, B: b, A: unit8(ch[3])}
}

func unit8(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	default:
		return uint8(v*255 + 0.5)
	}
}

// Blend mixes c toward other by t in [0,1], interpolating in Lab space.
// Alpha is interpolated linearly.
func (c Color) Blend(other Color, t float64) Color {
	if t <= 0 {
		return c
	}
	if t >= 1 {
		return other
	}
	from := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
	to := colorful.Color{R: float64(other.R) / 255, G: float64(other.G) / 255, B: float64(other.B) / 255}
	r, g, b := from.BlendLab(to, t).Clamped().RGB255()
	a := float64(c.A)*(1-t) + float64(other.A)*t
	return Color{R: r, G: g, B: b, A: uint8(a + 0.5)}
}

// String returns the color as "#RRGGBBAA".
func (c Color) String() string {
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}
