package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/glyphgrid/internal/renderer/atlas"
	"github.com/dshills/glyphgrid/internal/renderer/core"
)

func newGrid(t *testing.T, w, h int) *Grid {
	t.Helper()
	g, err := New(w, h, atlas.Default())
	require.NoError(t, err)
	return g
}

func snapshot(g *Grid) []core.Vertex {
	out := make([]core.Vertex, len(g.Vertices()))
	copy(out, g.Vertices())
	return out
}

func isBlank(v [core.VerticesPerCell]core.Vertex) bool {
	for _, vx := range v {
		if vx.UV != [2]float32{0, 0} {
			return false
		}
	}
	return true
}

func TestNewRejectsInvalidSize(t *testing.T) {
	for _, dims := range [][2]int{{0, 10}, {10, 0}, {-1, 5}, {0, 0}} {
		_, err := New(dims[0], dims[1], nil)
		assert.ErrorIs(t, err, ErrInvalidSize, "dims %v", dims)
	}
}

func TestNewBuildsStaticGeometry(t *testing.T) {
	g := newGrid(t, 4, 3)

	assert.Equal(t, 4, g.Width())
	assert.Equal(t, 3, g.Height())
	assert.Len(t, g.Vertices(), 4*3*core.VerticesPerCell)
	assert.Len(t, g.Indices(), 4*3*core.IndicesPerCell)

	// Top-left cell spans the top-left corner of NDC space.
	cell, ok := g.Cell(0, 0)
	require.True(t, ok)
	assert.Equal(t, [2]float32{-1, 1}, cell[atlas.TopLeft].Position)
	assert.InDelta(t, -0.5, cell[atlas.TopRight].Position[0], 1e-6)
	assert.InDelta(t, 1-2.0/3.0, cell[atlas.BottomLeft].Position[1], 1e-6)

	// Bottom-right cell ends at the bottom-right corner.
	cell, ok = g.Cell(3, 2)
	require.True(t, ok)
	assert.InDelta(t, 1, cell[atlas.BottomRight].Position[0], 1e-6)
	assert.InDelta(t, -1, cell[atlas.BottomRight].Position[1], 1e-6)
}

func TestIndicesFormTwoTrianglesPerQuad(t *testing.T) {
	g := newGrid(t, 2, 2)
	idx := g.Indices()

	for cell := 0; cell < 4; cell++ {
		b := core.Index(cell * core.VerticesPerCell)
		got := idx[cell*core.IndicesPerCell : (cell+1)*core.IndicesPerCell]
		assert.Equal(t, []core.Index{b, b + 1, b + 3, b + 2, b, b + 3}, got, "cell %d", cell)
	}
}

func TestWriteIndexMatchesQuadConstruction(t *testing.T) {
	const w, h = 7, 5
	g := newGrid(t, w, h)

	for col := 0; col < w; col++ {
		for row := 0; row < h; row++ {
			g.Clear()
			g.PutChar(col, row, 'X', core.White)

			// Exactly one quad changed, and its corners lie inside the
			// NDC rectangle of (col, row).
			x0 := 2*float32(col)/w - 1
			y0 := 1 - 2*float32(row)/h
			x1 := x0 + 2.0/w
			y1 := y0 - 2.0/h

			written := 0
			for i := 0; i < len(g.Vertices()); i += core.VerticesPerCell {
				quad := g.Vertices()[i : i+core.VerticesPerCell]
				if quad[0].UV == [2]float32{0, 0} {
					continue
				}
				written++
				for _, v := range quad {
					assert.InDelta(t, (x0+x1)/2, v.Position[0], float64(x1-x0)/2+1e-5)
					assert.InDelta(t, (y0+y1)/2, v.Position[1], float64(y0-y1)/2+1e-5)
				}
			}
			require.Equal(t, 1, written, "PutChar(%d,%d) touched %d quads", col, row, written)
		}
	}
}

func TestPutCharWritesResolvedUVAndColor(t *testing.T) {
	g := newGrid(t, 10, 10)
	a := g.Atlas()
	c := core.RGBA(255, 128, 0, 51)

	for _, r := range []rune{'A', 'z', '@', 'é', '世'} {
		g.PutChar(3, 4, r, c)
		cell, ok := g.Cell(3, 4)
		require.True(t, ok)

		want := a.Resolve(r)
		for i, v := range cell {
			assert.Equal(t, [2]float32{want[i].U, want[i].V}, v.UV, "rune %q corner %d", r, i)
			assert.Equal(t, [4]float32{1, 128.0 / 255, 0, 0.2}, v.Color)
		}
	}
}

func TestPutCharOutOfRangeIsNoop(t *testing.T) {
	g := newGrid(t, 8, 6)
	g.PutStr(0, 0, "seed", core.White)
	before := snapshot(g)

	for _, pos := range [][2]int{{-1, 0}, {0, -1}, {8, 0}, {0, 6}, {100, 100}, {-5, -5}} {
		g.PutChar(pos[0], pos[1], 'Q', core.RGB(1, 2, 3))
	}

	assert.Equal(t, before, g.Vertices())
}

func TestClearIsIdempotent(t *testing.T) {
	g := newGrid(t, 5, 5)
	g.PutStr(0, 2, "hello", core.White)

	g.Clear()
	once := snapshot(g)
	g.Clear()

	assert.Equal(t, once, g.Vertices())
	for col := 0; col < 5; col++ {
		for row := 0; row < 5; row++ {
			cell, _ := g.Cell(col, row)
			assert.True(t, isBlank(cell), "cell (%d,%d) not blank", col, row)
		}
	}
}

func TestClearKeepsPositions(t *testing.T) {
	g := newGrid(t, 3, 3)
	positions := make([][2]float32, 0, len(g.Vertices()))
	for _, v := range g.Vertices() {
		positions = append(positions, v.Position)
	}

	g.PutStr(0, 0, "abc", core.White)
	g.Clear()

	for i, v := range g.Vertices() {
		assert.Equal(t, positions[i], v.Position)
	}
}

func TestPutStrEquivalentToPutChar(t *testing.T) {
	a := newGrid(t, 10, 3)
	b := newGrid(t, 10, 3)

	a.PutStr(8, 1, "AB", core.White)
	b.PutChar(8, 1, 'A', core.White)
	b.PutChar(9, 1, 'B', core.White)

	assert.Equal(t, b.Vertices(), a.Vertices())
}

func TestPutStrClipsAtEdge(t *testing.T) {
	g := newGrid(t, 4, 1)
	g.PutStr(2, 0, "xyz", core.White)

	c2, _ := g.Cell(2, 0)
	c3, _ := g.Cell(3, 0)
	c0, _ := g.Cell(0, 0)
	assert.False(t, isBlank(c2))
	assert.False(t, isBlank(c3))
	assert.True(t, isBlank(c0), "overflow must not wrap")
}

func TestPutStrCountsRunesNotBytes(t *testing.T) {
	g := newGrid(t, 4, 1)
	g.PutStr(0, 0, "éa", core.White)

	c1, _ := g.Cell(1, 0)
	want := g.Atlas().Resolve('a')
	assert.Equal(t, [2]float32{want[0].U, want[0].V}, c1[0].UV)
}

func TestHelloWorldScenario(t *testing.T) {
	g := newGrid(t, 80, 50)
	g.Clear()

	text := "Hello world!"
	col := (g.Width() - len(text)) / 2
	row := g.Height() / 2
	require.Equal(t, 34, col)
	require.Equal(t, 25, row)

	g.PutStr(col, row, text, core.White)

	white := core.White.Normalized()
	written := 0
	for c := 0; c < 80; c++ {
		for r := 0; r < 50; r++ {
			cell, _ := g.Cell(c, r)
			inText := r == 25 && c >= 34 && c < 34+12
			if !inText {
				assert.True(t, isBlank(cell), "cell (%d,%d) should be blank", c, r)
				continue
			}
			// The space glyph sits in slot 32, not the blank slot, so it
			// counts as written too.
			ch := rune(text[c-34])
			assert.False(t, isBlank(cell), "cell (%d,%d) should hold %q", c, r, ch)
			for _, v := range cell {
				assert.Equal(t, white, v.Color)
			}
			written++
		}
	}
	assert.Equal(t, 12, written)
}

func TestDirtyTracking(t *testing.T) {
	g := newGrid(t, 2, 2)
	assert.True(t, g.Dirty(), "new grid must be dirty")

	g.MarkClean()
	assert.False(t, g.Dirty())

	g.PutChar(5, 5, 'x', core.White)
	assert.False(t, g.Dirty(), "ignored write must not dirty the grid")

	g.PutChar(1, 1, 'x', core.White)
	assert.True(t, g.Mesh().Dirty)

	g.MarkClean()
	g.Clear()
	assert.True(t, g.Dirty())
}

func TestMeshCellAtMatchesGridCell(t *testing.T) {
	g := newGrid(t, 6, 4)
	g.PutChar(5, 3, 'k', core.RGB(9, 9, 9))

	m := g.Mesh()
	cell, _ := g.Cell(5, 3)
	assert.Equal(t, cell[:], m.CellAt(5, 3))
	assert.Equal(t, 24, m.Cells())
}
