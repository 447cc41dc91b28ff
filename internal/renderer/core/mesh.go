package core

// Vertex is one corner of a cell quad. The layout matches the shader input
// of a GPU renderer:
//
//	position: vec2
//	uv:       vec2
//	color:    vec4
type Vertex struct {
	Position [2]float32
	UV       [2]float32
	Color    [4]float32
}

// Index is an element index into a vertex buffer.
type Index = uint32

// Quad sizes.
const (
	VerticesPerCell = 4
	IndicesPerCell  = 6
)

// Mesh is the geometry of a grid handed to a renderer for one frame.
// Indices and positions never change for the lifetime of a grid; only the
// UV and Color attributes are rewritten between frames. Renderers must not
// retain the slices after Draw returns.
type Mesh struct {
	Vertices []Vertex
	Indices  []Index

	// Columns and Rows are the grid dimensions in cells.
	Columns int
	Rows    int

	// Dirty is true when any attribute changed since the last present.
	Dirty bool
}

// CellVertices returns the four vertices of the cell at the given linear
// cell index.
func (m Mesh) CellVertices(cell int) []Vertex {
	base := cell * VerticesPerCell
	return m.Vertices[base : base+VerticesPerCell]
}

// Cells returns the number of cells in the mesh.
func (m Mesh) Cells() int {
	return len(m.Vertices) / VerticesPerCell
}

// CellIndex returns the linear index of the cell at (col, row) in a grid
// with the given number of rows. Cells are stored column-major. Quad
// construction and glyph writes must both go through this function.
func CellIndex(col, row, rows int) int {
	return col*rows + row
}

// CellAt returns the vertices of the cell at (col, row).
func (m Mesh) CellAt(col, row int) []Vertex {
	return m.CellVertices(CellIndex(col, row, m.Rows))
}
