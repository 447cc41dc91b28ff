// Package atlas maps characters to texture coordinates inside a fixed-layout
// glyph image.
//
// A glyph atlas is an image partitioned into Rows x Columns equally sized
// cells. The character with code point c is drawn from cell c, counting
// left to right, top to bottom. Code points that do not fit in the layout
// resolve to FallbackSlot so lookups never fail.
package atlas

import (
	"errors"
	"fmt"
	"math"
)

// Slots with a fixed meaning in every layout.
const (
	// BlankSlot is the glyph a cleared cell shows. Its top-left UV is (0,0).
	BlankSlot = 0

	// FallbackSlot is substituted for code points outside the layout.
	FallbackSlot = 1
)

// ErrInvalidLayout is returned for layouts that cannot hold the blank and
// fallback slots.
var ErrInvalidLayout = errors.New("invalid atlas layout")

// Layout describes the glyph grid of an atlas image.
type Layout struct {
	Rows    int
	Columns int
}

// DefaultLayout is the 16x16 code page layout used by curses-style fonts.
var DefaultLayout = Layout{Rows: 16, Columns: 16}

// Slots returns the number of glyph cells in the layout.
func (l Layout) Slots() int {
	return l.Rows * l.Columns
}

// UStep returns the width of one glyph cell in texture space.
func (l Layout) UStep() float32 {
	return 1 / float32(l.Columns)
}

// VStep returns the height of one glyph cell in texture space.
func (l Layout) VStep() float32 {
	return 1 / float32(l.Rows)
}

// Validate checks that the layout has room for the reserved slots.
func (l Layout) Validate() error {
	if l.Rows <= 0 || l.Columns <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidLayout, l.Columns, l.Rows)
	}
	if l.Slots() <= FallbackSlot {
		return fmt.Errorf("%w: %d slots, need at least %d", ErrInvalidLayout, l.Slots(), FallbackSlot+1)
	}
	return nil
}

// String returns the layout as "COLUMNSxROWS".
func (l Layout) String() string {
	return fmt.Sprintf("%dx%d", l.Columns, l.Rows)
}

// UV is a texture coordinate pair.
type UV struct {
	U, V float32
}

// Corner indices into a UVRect. The order matches the vertex order of a
// grid quad.
const (
	TopLeft = iota
	BottomLeft
	TopRight
	BottomRight
)

// UVRect holds the texture coordinates of the four corners of a glyph cell.
type UVRect [4]UV

// Atlas resolves characters to glyph cells. It is immutable and safe for
// concurrent use.
type Atlas struct {
	layout Layout
}

// New creates an atlas for the given layout.
func New(layout Layout) (*Atlas, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	return &Atlas{layout: layout}, nil
}

// Default returns an atlas using DefaultLayout.
func Default() *Atlas {
	return &Atlas{layout: DefaultLayout}
}

// Layout returns the atlas geometry.
func (a *Atlas) Layout() Layout {
	return a.layout
}

// Slot returns the glyph cell used for r.
func (a *Atlas) Slot(r rune) int {
	if r < 0 || int64(r) >= int64(a.layout.Slots()) {
		return FallbackSlot
	}
	return int(r)
}

// Resolve returns the texture coordinates of the glyph for r.
func (a *Atlas) Resolve(r rune) UVRect {
	return a.SlotRect(a.Slot(r))
}

// SlotRect returns the texture coordinates of a glyph cell. Slots outside
// the layout are treated as FallbackSlot.
func (a *Atlas) SlotRect(slot int) UVRect {
	if slot < 0 || slot >= a.layout.Slots() {
		slot = FallbackSlot
	}
	cols := float32(a.layout.Columns)
	rows := float32(a.layout.Rows)
	i := slot % a.layout.Columns
	j := slot / a.layout.Columns

	// Computed by division rather than step accumulation so the last
	// row and column end exactly at 1.
	u0 := float32(i) / cols
	v0 := float32(j) / rows
	u1 := float32(i+1) / cols
	v1 := float32(j+1) / rows

	return UVRect{
		TopLeft:     {U: u0, V: v0},
		BottomLeft:  {U: u0, V: v1},
		TopRight:    {U: u1, V: v0},
		BottomRight: {U: u1, V: v1},
	}
}

// SlotAt returns the glyph cell whose top-left corner is at (u, v).
// Coordinates are snapped to the nearest cell boundary and clamped to the
// layout.
func (a *Atlas) SlotAt(u, v float32) int {
	i := snap(u, a.layout.Columns)
	j := snap(v, a.layout.Rows)
	return j*a.layout.Columns + i
}

func snap(x float32, n int) int {
	i := int(math.Floor(float64(x)*float64(n) + 0.5))
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// PixelRect returns the pixel rectangle of a glyph cell in an atlas image
// of the given size.
func (l Layout) PixelRect(slot, imageWidth, imageHeight int) (x0, y0, x1, y1 int) {
	gw := imageWidth / l.Columns
	gh := imageHeight / l.Rows
	i := slot % l.Columns
	j := slot / l.Columns
	return i * gw, j * gh, (i + 1) * gw, (j + 1) * gh
}
