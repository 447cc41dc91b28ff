package backend

import (
	"github.com/dshills/glyphgrid/internal/renderer/atlas"
	"github.com/dshills/glyphgrid/internal/renderer/core"
)

// TermCell is one character cell of a text display.
type TermCell struct {
	Rune  rune
	Color core.Color
}

// emptyCell is what a cleared cell holds.
var emptyCell = TermCell{Rune: ' ', Color: core.White}

// CellBuffer provides double-buffered cell output with change tracking.
// It maintains two buffers: front (displayed) and back (drawing).
// On sync, it computes the diff and only reports changed cells.
type CellBuffer struct {
	width, height int
	front         []TermCell
	back          []TermCell
	fullRedraw    bool
}

// NewCellBuffer creates a cell buffer with the given dimensions.
func NewCellBuffer(width, height int) *CellBuffer {
	cb := &CellBuffer{width: width, height: height, fullRedraw: true}
	cb.allocate()
	return cb
}

func (cb *CellBuffer) allocate() {
	n := max(cb.width, 0) * max(cb.height, 0)
	cb.front = make([]TermCell, n)
	cb.back = make([]TermCell, n)
	for i := range cb.back {
		cb.front[i] = emptyCell
		cb.back[i] = emptyCell
	}
}

// Resize resizes the buffer. Content is discarded and the next diff is a
// full redraw.
func (cb *CellBuffer) Resize(width, height int) {
	if width == cb.width && height == cb.height {
		return
	}
	cb.width = width
	cb.height = height
	cb.allocate()
	cb.fullRedraw = true
}

// Size returns the buffer dimensions.
func (cb *CellBuffer) Size() (width, height int) {
	return cb.width, cb.height
}

// SetCell sets a cell in the back buffer. Out-of-range writes are ignored.
func (cb *CellBuffer) SetCell(x, y int, cell TermCell) {
	if x < 0 || x >= cb.width || y < 0 || y >= cb.height {
		return
	}
	cb.back[y*cb.width+x] = cell
}

// GetCell returns a cell from the back buffer.
func (cb *CellBuffer) GetCell(x, y int) TermCell {
	if x < 0 || x >= cb.width || y < 0 || y >= cb.height {
		return emptyCell
	}
	return cb.back[y*cb.width+x]
}

// GetFrontCell returns a cell from the front buffer (currently displayed).
func (cb *CellBuffer) GetFrontCell(x, y int) TermCell {
	if x < 0 || x >= cb.width || y < 0 || y >= cb.height {
		return emptyCell
	}
	return cb.front[y*cb.width+x]
}

// Clear clears the back buffer with empty cells.
func (cb *CellBuffer) Clear() {
	for i := range cb.back {
		cb.back[i] = emptyCell
	}
}

// LoadMesh rewrites the back buffer from grid geometry. Each quad's
// top-left UV is mapped back to its atlas slot and then to a rune through
// the charset; the top-left vertex color becomes the cell color.
func (cb *CellBuffer) LoadMesh(mesh core.Mesh, a *atlas.Atlas, cs atlas.Charset) {
	cb.Clear()
	if mesh.Rows <= 0 || mesh.Cells() == 0 {
		return
	}
	for cell := 0; cell < mesh.Cells(); cell++ {
		col, row := cell/mesh.Rows, cell%mesh.Rows
		if col >= cb.width || row >= cb.height {
			continue
		}
		tl := mesh.CellVertices(cell)[atlas.TopLeft]
		slot := a.SlotAt(tl.UV[0], tl.UV[1])
		if slot == atlas.BlankSlot {
			continue
		}
		cb.back[row*cb.width+col] = TermCell{
			Rune:  cs.Rune(slot),
			Color: core.FromNormalized(tl.Color),
		}
	}
}

// DiffChange represents a cell change for synchronization.
type DiffChange struct {
	X, Y int
	Cell TermCell
}

// ComputeDiff returns the changes needed to update the display.
// Returns nil if no changes are needed.
func (cb *CellBuffer) ComputeDiff() []DiffChange {
	var changes []DiffChange
	for i := range cb.back {
		if cb.fullRedraw || cb.back[i] != cb.front[i] {
			changes = append(changes, DiffChange{
				X:    i % cb.width,
				Y:    i / cb.width,
				Cell: cb.back[i],
			})
		}
	}
	return changes
}

// Sync copies the back buffer to the front buffer.
// Call this after applying changes to the display.
func (cb *CellBuffer) Sync() {
	copy(cb.front, cb.back)
	cb.fullRedraw = false
}

// MarkFullRedraw forces a complete redraw on next sync.
func (cb *CellBuffer) MarkFullRedraw() {
	cb.fullRedraw = true
}

// IsDirty returns true if there are pending changes.
func (cb *CellBuffer) IsDirty() bool {
	if cb.fullRedraw {
		return true
	}
	for i := range cb.back {
		if cb.back[i] != cb.front[i] {
			return true
		}
	}
	return false
}
