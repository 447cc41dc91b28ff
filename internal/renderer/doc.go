// Package renderer provides the character grid the application draws into.
//
// A Grid is a fixed array of cells addressed by (column, row). Every cell is
// a quad of four vertices in normalized device coordinates, so the grid can
// be handed to a GPU-style renderer as a vertex/index buffer pair:
//
//	┌─────────────────────────────────────────┐
//	│   Application Draw(*Grid)               │
//	├─────────────────────────────────────────┤
//	│   Grid: PutChar / PutStr / Clear        │
//	│   atlas.Atlas: rune -> UV rectangle     │
//	├─────────────────────────────────────────┤
//	│   core.Mesh (vertices + indices)        │
//	├─────────────────────────────────────────┤
//	│   backend.Backend                       │
//	│   Raster │ Terminal (tcell) │ Headless  │
//	└─────────────────────────────────────────┘
//
// Topology is fixed at construction: positions and indices never change.
// Only UV and color attributes are rewritten each frame.
//
// Usage:
//
//	g, _ := renderer.New(80, 50, atlas.Default())
//	g.Clear()
//	g.PutStr(34, 25, "Hello world!", core.White)
//	_ = b.Draw(g.Mesh())
package renderer
