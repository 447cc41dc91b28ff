package backend

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"
	"sync"

	"golang.org/x/image/draw"

	"github.com/dshills/glyphgrid/internal/renderer/core"
)

// Raster is a software renderer. It rasterizes the grid's indexed quads
// into an RGBA image by sampling the glyph texture and multiplying by the
// vertex color, the same way a textured-quad shader would. Output size is
// the grid size times the glyph pixel size.
type Raster struct {
	mu      sync.Mutex
	texture *Texture

	width, height int
	front, back   *image.RGBA
	background    color.RGBA

	initialized bool
	shutdown    bool
	presents    int
}

// NewRaster creates a raster renderer for a columns×rows grid.
func NewRaster(tex *Texture, columns, rows int) *Raster {
	gw, gh := tex.GlyphSize()
	return &Raster{
		texture:    tex,
		width:      columns * gw,
		height:     rows * gh,
		background: color.RGBA{A: 255},
	}
}

func (r *Raster) Init() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.texture.Image(); err != nil {
		return err
	}
	if r.width <= 0 || r.height <= 0 {
		return fmt.Errorf("raster: invalid output size %dx%d", r.width, r.height)
	}
	bounds := image.Rect(0, 0, r.width, r.height)
	r.front = image.NewRGBA(bounds)
	r.back = image.NewRGBA(bounds)
	fill(r.front, r.background)
	r.initialized = true
	return nil
}

func (r *Raster) Shutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.shutdown = true
}

func (r *Raster) Size() (int, int) {
	return r.width, r.height
}

// Draw rasterizes the mesh into the back buffer.
func (r *Raster) Draw(mesh core.Mesh) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.initialized {
		return ErrNotInitialized
	}
	if r.shutdown {
		return ErrShutdown
	}
	tex, err := r.texture.Image()
	if err != nil {
		return err
	}

	fill(r.back, r.background)
	for i := 0; i+core.IndicesPerCell <= len(mesh.Indices); i += core.IndicesPerCell {
		if err := r.drawQuad(tex, mesh, mesh.Indices[i:i+core.IndicesPerCell]); err != nil {
			return err
		}
	}
	return nil
}

// drawQuad fills the screen rectangle covered by the two triangles of one
// quad. Grid quads are axis aligned, so the bounding boxes of positions and
// UVs fully describe them.
func (r *Raster) drawQuad(tex *image.RGBA, mesh core.Mesh, idx []core.Index) error {
	minX, minY := float32(math.MaxFloat32), float32(math.MaxFloat32)
	maxX, maxY := -minX, -minY
	minU, minV := minX, minY
	maxU, maxV := maxX, maxY

	for _, ix := range idx {
		if int(ix) >= len(mesh.Vertices) {
			return fmt.Errorf("raster: index %d out of range (%d vertices)", ix, len(mesh.Vertices))
		}
		v := mesh.Vertices[ix]
		minX, maxX = min(minX, v.Position[0]), max(maxX, v.Position[0])
		minY, maxY = min(minY, v.Position[1]), max(maxY, v.Position[1])
		minU, maxU = min(minU, v.UV[0]), max(maxU, v.UV[0])
		minV, maxV = min(minV, v.UV[1]), max(maxV, v.UV[1])
	}
	tint := mesh.Vertices[idx[0]].Color

	// NDC to pixels; y grows downward in the image.
	dst := image.Rect(
		toPixel((minX+1)/2, r.width),
		toPixel((1-maxY)/2, r.height),
		toPixel((maxX+1)/2, r.width),
		toPixel((1-minY)/2, r.height),
	).Intersect(r.back.Bounds())

	tb := tex.Bounds()
	src := image.Rect(
		tb.Min.X+toPixel(minU, tb.Dx()),
		tb.Min.Y+toPixel(minV, tb.Dy()),
		tb.Min.X+toPixel(maxU, tb.Dx()),
		tb.Min.Y+toPixel(maxV, tb.Dy()),
	)
	if dst.Empty() || src.Empty() {
		return nil
	}

	for y := dst.Min.Y; y < dst.Max.Y; y++ {
		sy := src.Min.Y + (y-dst.Min.Y)*src.Dy()/dst.Dy()
		for x := dst.Min.X; x < dst.Max.X; x++ {
			sx := src.Min.X + (x-dst.Min.X)*src.Dx()/dst.Dx()
			texel := tex.RGBAAt(sx, sy)
			if texel.A == 0 {
				continue
			}
			over(r.back, x, y, modulate(texel, tint))
		}
	}
	return nil
}

// Present swaps the back buffer to the front.
func (r *Raster) Present() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.initialized {
		return ErrNotInitialized
	}
	r.front, r.back = r.back, r.front
	r.presents++
	return nil
}

// Presents returns the number of frames presented.
func (r *Raster) Presents() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.presents
}

// Frame returns a copy of the last presented frame.
func (r *Raster) Frame() *image.RGBA {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.front == nil {
		return nil
	}
	out := image.NewRGBA(r.front.Bounds())
	copy(out.Pix, r.front.Pix)
	return out
}

// EncodePNG writes the last presented frame as PNG, scaled by an integer
// factor with nearest-neighbor filtering.
func (r *Raster) EncodePNG(w io.Writer, scale int) error {
	frame := r.Frame()
	if frame == nil {
		return ErrNotInitialized
	}
	if scale > 1 {
		b := frame.Bounds()
		scaled := image.NewRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
		draw.NearestNeighbor.Scale(scaled, scaled.Bounds(), frame, b, draw.Src, nil)
		frame = scaled
	}
	return png.Encode(w, frame)
}

// SavePNG writes the last presented frame to path.
func (r *Raster) SavePNG(path string, scale int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := r.EncodePNG(f, scale); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func toPixel(unit float32, size int) int {
	return int(math.Round(float64(unit) * float64(size)))
}

func fill(img *image.RGBA, c color.RGBA) {
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

// modulate multiplies a premultiplied texel by a normalized RGBA color.
func modulate(texel color.RGBA, tint [4]float32) color.RGBA {
	mul := func(c uint8, f float32) uint8 {
		return uint8(math.Round(float64(c) * float64(clampUnit(f))))
	}
	return color.RGBA{
		R: mul(texel.R, tint[0]*tint[3]),
		G: mul(texel.G, tint[1]*tint[3]),
		B: mul(texel.B, tint[2]*tint[3]),
		A: mul(texel.A, tint[3]),
	}
}

// over composites a premultiplied source pixel onto img.
func over(img *image.RGBA, x, y int, src color.RGBA) {
	dst := img.RGBAAt(x, y)
	inv := 255 - uint32(src.A)
	blend := func(s, d uint8) uint8 {
		return uint8(uint32(s) + (uint32(d)*inv+127)/255)
	}
	img.SetRGBA(x, y, color.RGBA{
		R: blend(src.R, dst.R),
		G: blend(src.G, dst.G),
		B: blend(src.B, dst.B),
		A: blend(src.A, dst.A),
	})
}

func clampUnit(f float32) float32 {
	return min(max(f, 0), 1)
}
