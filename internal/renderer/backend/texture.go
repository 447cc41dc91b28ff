package backend

import (
	"image"
	"sync"

	"github.com/dshills/glyphgrid/internal/renderer/atlas"
)

// Texture owns the glyph image a backend samples from. A Texture exists only
// after its font decoded successfully, and Release frees it exactly once.
type Texture struct {
	mu       sync.Mutex
	img      *image.RGBA
	layout   atlas.Layout
	glyphW   int
	glyphH   int
	released bool
	once     sync.Once
	onFree   func()
}

// NewTexture uploads the font image into a texture. The font's pixels are
// copied, so the font may be discarded afterwards.
func NewTexture(f *atlas.Font) (*Texture, error) {
	if f == nil || f.Image() == nil {
		return nil, ErrReleased
	}
	src := f.Image()
	img := image.NewRGBA(image.Rect(0, 0, src.Bounds().Dx(), src.Bounds().Dy()))
	for y := 0; y < img.Rect.Dy(); y++ {
		srcOff := src.PixOffset(src.Rect.Min.X, src.Rect.Min.Y+y)
		copy(img.Pix[y*img.Stride:y*img.Stride+img.Rect.Dx()*4], src.Pix[srcOff:srcOff+img.Rect.Dx()*4])
	}
	gw, gh := f.GlyphSize()
	return &Texture{img: img, layout: f.Layout(), glyphW: gw, glyphH: gh}, nil
}

// OnRelease registers fn to run when the texture is released.
func (t *Texture) OnRelease(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onFree = fn
}

// Release frees the texture. Calls after the first are no-ops.
func (t *Texture) Release() {
	t.once.Do(func() {
		t.mu.Lock()
		fn := t.onFree
		t.img = nil
		t.released = true
		t.mu.Unlock()
		if fn != nil {
			fn()
		}
	})
}

// Released reports whether Release has been called.
func (t *Texture) Released() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.released
}

// Image returns the texture pixels, or ErrReleased.
func (t *Texture) Image() (*image.RGBA, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.released {
		return nil, ErrReleased
	}
	return t.img, nil
}

// Layout returns the glyph grid of the texture.
func (t *Texture) Layout() atlas.Layout {
	return t.layout
}

// GlyphSize returns the pixel size of one glyph.
func (t *Texture) GlyphSize() (width, height int) {
	return t.glyphW, t.glyphH
}
