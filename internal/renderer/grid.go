package renderer

import (
	"errors"
	"fmt"

	"github.com/dshills/glyphgrid/internal/renderer/atlas"
	"github.com/dshills/glyphgrid/internal/renderer/core"
)

// ErrInvalidSize is returned when a grid is created with a non-positive
// dimension.
var ErrInvalidSize = errors.New("grid dimensions must be positive")

// Grid is a fixed-size array of character cells. Each cell owns one quad of
// four vertices. Vertex positions and the index buffer are computed once by
// New; Clear, PutChar and PutStr only rewrite UV and color attributes.
//
// A Grid is not safe for concurrent use. The frame loop lends it to the
// application's Draw callback, which must not keep it after returning.
type Grid struct {
	width  int
	height int
	atlas  *atlas.Atlas

	vertices []core.Vertex
	indices  []core.Index
	dirty    bool
}

// New creates a grid of width columns and height rows whose glyphs are
// resolved through a.
func New(width, height int, a *atlas.Atlas) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	if a == nil {
		a = atlas.Default()
	}

	cells := width * height
	g := &Grid{
		width:    width,
		height:   height,
		atlas:    a,
		vertices: make([]core.Vertex, cells*core.VerticesPerCell),
		indices:  make([]core.Index, cells*core.IndicesPerCell),
		dirty:    true,
	}

	xStep := 2 / float32(width)
	yStep := 2 / float32(height)
	for col := 0; col < width; col++ {
		for row := 0; row < height; row++ {
			cell := core.CellIndex(col, row, height)
			x0 := 2*float32(col)/float32(width) - 1
			y0 := 1 - 2*float32(row)/float32(height)
			x1 := x0 + xStep
			y1 := y0 - yStep

			base := cell * core.VerticesPerCell
			g.vertices[base+atlas.TopLeft].Position = [2]float32{x0, y0}
			g.vertices[base+atlas.BottomLeft].Position = [2]float32{x0, y1}
			g.vertices[base+atlas.TopRight].Position = [2]float32{x1, y0}
			g.vertices[base+atlas.BottomRight].Position = [2]float32{x1, y1}

			// Two triangles sharing the TL-BR diagonal.
			b := core.Index(base)
			copy(g.indices[cell*core.IndicesPerCell:], []core.Index{
				b, b + 1, b + 3,
				b + 2, b, b + 3,
			})
		}
	}

	return g, nil
}

// Width returns the number of columns.
func (g *Grid) Width() int {
	return g.width
}

// Height returns the number of rows.
func (g *Grid) Height() int {
	return g.height
}

// Atlas returns the atlas glyphs are resolved through.
func (g *Grid) Atlas() *atlas.Atlas {
	return g.atlas
}

// Clear resets every cell to the blank glyph. Positions and colors are left
// untouched.
func (g *Grid) Clear() {
	for i := range g.vertices {
		g.vertices[i].UV = [2]float32{0, 0}
	}
	g.dirty = true
}

// InBounds reports whether (col, row) addresses a cell.
func (g *Grid) InBounds(col, row int) bool {
	return col >= 0 && col < g.width && row >= 0 && row < g.height
}

// PutChar draws r with color c at (col, row). Writes outside the grid are
// ignored.
func (g *Grid) PutChar(col, row int, r rune, c core.Color) {
	if !g.InBounds(col, row) {
		return
	}

	uvs := g.atlas.Resolve(r)
	rgba := c.Normalized()
	base := core.CellIndex(col, row, g.height) * core.VerticesPerCell
	for i, uv := range uvs {
		v := &g.vertices[base+i]
		v.UV = [2]float32{uv.U, uv.V}
		v.Color = rgba
	}
	g.dirty = true
}

// PutStr draws s starting at (col, row), one rune per cell moving right.
// Runes that fall outside the grid are dropped individually.
func (g *Grid) PutStr(col, row int, s string, c core.Color) {
	i := 0
	for _, r := range s {
		g.PutChar(col+i, row, r, c)
		i++
	}
}

// Cell returns a copy of the four vertices of (col, row).
func (g *Grid) Cell(col, row int) ([core.VerticesPerCell]core.Vertex, bool) {
	var out [core.VerticesPerCell]core.Vertex
	if !g.InBounds(col, row) {
		return out, false
	}
	base := core.CellIndex(col, row, g.height) * core.VerticesPerCell
	copy(out[:], g.vertices[base:base+core.VerticesPerCell])
	return out, true
}

// Vertices returns the vertex buffer. The slice is owned by the grid.
func (g *Grid) Vertices() []core.Vertex {
	return g.vertices
}

// Indices returns the index buffer. The slice is owned by the grid.
func (g *Grid) Indices() []core.Index {
	return g.indices
}

// Dirty reports whether attributes changed since the last MarkClean.
func (g *Grid) Dirty() bool {
	return g.dirty
}

// MarkClean records that the current attributes have been submitted.
func (g *Grid) MarkClean() {
	g.dirty = false
}

// Mesh returns the geometry view handed to a renderer.
func (g *Grid) Mesh() core.Mesh {
	return core.Mesh{
		Vertices: g.vertices,
		Indices:  g.indices,
		Columns:  g.width,
		Rows:     g.height,
		Dirty:    g.dirty,
	}
}
