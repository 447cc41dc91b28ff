package atlas

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF fonts
	_ "image/jpeg" // register JPEG fonts
	_ "image/png"  // register PNG fonts

	_ "golang.org/x/image/bmp"  // register BMP fonts
	_ "golang.org/x/image/webp" // register WebP fonts

	"golang.org/x/image/draw"
)

// Font errors.
var (
	// ErrFontDecode indicates the font bytes are not a supported image.
	ErrFontDecode = errors.New("font decode failed")

	// ErrFontGeometry indicates the image cannot be split into the layout.
	ErrFontGeometry = errors.New("font geometry does not match layout")
)

// FontError describes a failure to load a font image.
type FontError struct {
	Op     string // "decode" or "validate"
	Format string // Image format, if it was detected
	Err    error
}

func (e *FontError) Error() string {
	if e.Format != "" {
		return fmt.Sprintf("font %s (%s): %v", e.Op, e.Format, e.Err)
	}
	return fmt.Sprintf("font %s: %v", e.Op, e.Err)
}

func (e *FontError) Unwrap() error {
	return e.Err
}

// Font is a decoded glyph image split into a Layout.
type Font struct {
	img    *image.RGBA
	layout Layout
	format string
}

// DecodeFont decodes an encoded glyph image and checks that its pixel size
// divides evenly into the layout.
func DecodeFont(data []byte, layout Layout) (*Font, error) {
	if err := layout.Validate(); err != nil {
		return nil, &FontError{Op: "validate", Err: err}
	}

	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &FontError{Op: "decode", Err: fmt.Errorf("%w: %v", ErrFontDecode, err)}
	}

	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)

	f, err := NewFont(dst, layout)
	if err != nil {
		var fe *FontError
		if errors.As(err, &fe) {
			fe.Format = format
		}
		return nil, err
	}
	f.format = format
	return f, nil
}

// NewFont wraps an already decoded RGBA image. The image must divide evenly
// into the layout.
func NewFont(img *image.RGBA, layout Layout) (*Font, error) {
	if err := layout.Validate(); err != nil {
		return nil, &FontError{Op: "validate", Err: err}
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 || b.Dx()%layout.Columns != 0 || b.Dy()%layout.Rows != 0 {
		return nil, &FontError{
			Op:  "validate",
			Err: fmt.Errorf("%w: %dx%d pixels for %s glyphs", ErrFontGeometry, b.Dx(), b.Dy(), layout),
		}
	}
	return &Font{img: img, layout: layout, format: "rgba"}, nil
}

// Image returns the glyph image. Callers must not modify it.
func (f *Font) Image() *image.RGBA {
	return f.img
}

// Layout returns the glyph grid of the font.
func (f *Font) Layout() Layout {
	return f.layout
}

// Format returns the name of the decoded image format.
func (f *Font) Format() string {
	return f.format
}

// Size returns the pixel size of the whole font image.
func (f *Font) Size() (width, height int) {
	b := f.img.Bounds()
	return b.Dx(), b.Dy()
}

// GlyphSize returns the pixel size of a single glyph cell.
func (f *Font) GlyphSize() (width, height int) {
	w, h := f.Size()
	return w / f.layout.Columns, h / f.layout.Rows
}

// Glyph returns the sub-image holding the glyph cell slot.
func (f *Font) Glyph(slot int) *image.RGBA {
	if slot < 0 || slot >= f.layout.Slots() {
		slot = FallbackSlot
	}
	w, h := f.Size()
	x0, y0, x1, y1 := f.layout.PixelRect(slot, w, h)
	r := image.Rect(x0, y0, x1, y1).Add(f.img.Bounds().Min)
	return f.img.SubImage(r).(*image.RGBA)
}
