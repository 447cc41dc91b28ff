package atlas

import (
	"image"
	"image/color"
	"unicode"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// BuiltinFont renders a glyph image for layout from the 7x13 bitmap face in
// x/image. Cells are one advance (7 pixels) wide, so the 6 pixel glyphs
// keep a blank column between neighbours. Slot n holds the glyph for code
// point n when the face has one. BlankSlot stays empty and FallbackSlot is
// a hollow box.
func BuiltinFont(layout Layout) *Font {
	if layout.Validate() != nil {
		layout = DefaultLayout
	}

	face := basicfont.Face7x13
	gw, gh := face.Advance, face.Height
	img := image.NewRGBA(image.Rect(0, 0, gw*layout.Columns, gh*layout.Rows))

	// Fallback box.
	x0, y0, x1, y1 := layout.PixelRect(FallbackSlot, gw*layout.Columns, gh*layout.Rows)
	box := image.Rect(x0+1, y0+1, x1-1, y1-1)
	draw.Draw(img, box, image.White, image.Point{}, draw.Src)
	draw.Draw(img, box.Inset(1), image.Transparent, image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: face,
	}
	for slot := FallbackSlot + 1; slot < layout.Slots(); slot++ {
		r := rune(slot)
		if unicode.IsSpace(r) || !unicode.IsPrint(r) {
			continue
		}
		x0, y0, _, _ := layout.PixelRect(slot, gw*layout.Columns, gh*layout.Rows)
		d.Dot = fixed.P(x0, y0+face.Ascent)
		d.DrawString(string(r))
	}

	return &Font{img: img, layout: layout, format: "builtin"}
}
