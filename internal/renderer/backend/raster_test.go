package backend

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/dshills/glyphgrid/internal/renderer/atlas"
	"github.com/dshills/glyphgrid/internal/renderer/core"
)

func newTestRaster(t *testing.T, cols, rows int) (*Raster, *Texture) {
	t.Helper()
	tex, err := NewTexture(atlas.BuiltinFont(atlas.DefaultLayout))
	if err != nil {
		t.Fatalf("NewTexture failed: %v", err)
	}
	r := NewRaster(tex, cols, rows)
	if err := r.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	return r, tex
}

// litPixels counts non-black pixels inside rect.
func litPixels(img *image.RGBA, rect image.Rectangle) int {
	n := 0
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			c := img.RGBAAt(x, y)
			if c.R != 0 || c.G != 0 || c.B != 0 {
				n++
			}
		}
	}
	return n
}

func TestRasterSize(t *testing.T) {
	r, _ := newTestRaster(t, 4, 2)

	// Builtin glyphs are 7x13.
	w, h := r.Size()
	if w != 28 || h != 26 {
		t.Errorf("expected 28x26, got %dx%d", w, h)
	}
}

func TestRasterDrawsGlyphInItsCell(t *testing.T) {
	r, _ := newTestRaster(t, 4, 2)
	g := newTestGrid(t, 4, 2)

	red := core.RGB(255, 0, 0)
	g.PutChar(1, 0, 'A', red)

	if err := r.Draw(g.Mesh()); err != nil {
		t.Fatalf("Draw failed: %v", err)
	}
	if err := r.Present(); err != nil {
		t.Fatalf("Present failed: %v", err)
	}

	frame := r.Frame()
	cell := image.Rect(7, 0, 14, 13)
	if litPixels(frame, cell) == 0 {
		t.Fatal("expected glyph pixels in cell (1,0)")
	}
	if lit := litPixels(frame, frame.Bounds()); lit != litPixels(frame, cell) {
		t.Errorf("pixels drawn outside the glyph cell: %d total", lit)
	}

	for y := cell.Min.Y; y < cell.Max.Y; y++ {
		for x := cell.Min.X; x < cell.Max.X; x++ {
			c := frame.RGBAAt(x, y)
			if c.G != 0 || c.B != 0 {
				t.Fatalf("pixel (%d,%d) = %v, expected red tint only", x, y, c)
			}
		}
	}
}

func TestRasterBlankFrame(t *testing.T) {
	r, _ := newTestRaster(t, 3, 3)
	g := newTestGrid(t, 3, 3)

	_ = r.Draw(g.Mesh())
	_ = r.Present()

	frame := r.Frame()
	if lit := litPixels(frame, frame.Bounds()); lit != 0 {
		t.Errorf("blank grid should render black, got %d lit pixels", lit)
	}
	if got := frame.RGBAAt(0, 0); got != (color.RGBA{A: 255}) {
		t.Errorf("expected opaque black background, got %v", got)
	}
}

func TestRasterDoubleBuffered(t *testing.T) {
	r, _ := newTestRaster(t, 2, 1)
	g := newTestGrid(t, 2, 1)

	g.PutChar(0, 0, '#', core.White)
	_ = r.Draw(g.Mesh())

	// Nothing is visible until Present.
	if lit := litPixels(r.Frame(), r.Frame().Bounds()); lit != 0 {
		t.Errorf("draw must not touch the front buffer, got %d lit pixels", lit)
	}

	_ = r.Present()
	if litPixels(r.Frame(), r.Frame().Bounds()) == 0 {
		t.Error("present should show the drawn frame")
	}
	if r.Presents() != 1 {
		t.Errorf("expected 1 present, got %d", r.Presents())
	}
}

func TestRasterReleasedTexture(t *testing.T) {
	r, tex := newTestRaster(t, 1, 1)
	g := newTestGrid(t, 1, 1)

	tex.Release()
	if err := r.Draw(g.Mesh()); !errors.Is(err, ErrReleased) {
		t.Errorf("expected ErrReleased, got %v", err)
	}
}

func TestRasterBadIndex(t *testing.T) {
	r, _ := newTestRaster(t, 1, 1)
	mesh := core.Mesh{
		Vertices: make([]core.Vertex, 4),
		Indices:  []core.Index{0, 1, 3, 2, 0, 9},
	}
	if err := r.Draw(mesh); err == nil {
		t.Error("expected error for out-of-range index")
	}
}

func TestRasterEncodePNGScaled(t *testing.T) {
	r, _ := newTestRaster(t, 2, 1)
	g := newTestGrid(t, 2, 1)
	g.PutChar(1, 0, 'Q', core.White)
	_ = r.Draw(g.Mesh())
	_ = r.Present()

	var buf bytes.Buffer
	if err := r.EncodePNG(&buf, 3); err != nil {
		t.Fatalf("EncodePNG failed: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 42 || b.Dy() != 39 {
		t.Errorf("expected 42x39 capture, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestRasterSavePNG(t *testing.T) {
	r, _ := newTestRaster(t, 1, 1)
	g := newTestGrid(t, 1, 1)
	_ = r.Draw(g.Mesh())
	_ = r.Present()

	path := filepath.Join(t.TempDir(), "frame.png")
	if err := r.SavePNG(path, 1); err != nil {
		t.Fatalf("SavePNG failed: %v", err)
	}
}

func TestRasterRequiresInit(t *testing.T) {
	tex, _ := NewTexture(atlas.BuiltinFont(atlas.DefaultLayout))
	r := NewRaster(tex, 1, 1)
	if err := r.Draw(core.Mesh{}); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized, got %v", err)
	}
	if err := r.EncodePNG(&bytes.Buffer{}, 1); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized, got %v", err)
	}
}

func TestModulate(t *testing.T) {
	texel := color.RGBA{200, 200, 200, 200}
	got := modulate(texel, [4]float32{1, 0.5, 0, 1})
	want := color.RGBA{200, 100, 0, 200}
	if got != want {
		t.Errorf("expected %v, got %v", want, got)
	}
}
