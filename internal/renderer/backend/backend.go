// Package backend provides the renderers that turn a grid mesh into pixels
// or terminal cells.
package backend

import (
	"errors"

	"github.com/dshills/glyphgrid/internal/renderer/core"
)

// Backend errors.
var (
	// ErrNotInitialized is returned when drawing before Init succeeded.
	ErrNotInitialized = errors.New("backend not initialized")

	// ErrShutdown is returned when drawing after Shutdown.
	ErrShutdown = errors.New("backend shut down")

	// ErrReleased is returned when using a released resource.
	ErrReleased = errors.New("resource released")

	// ErrScreenTooSmall is returned by Init when the display cannot hold
	// the grid.
	ErrScreenTooSmall = errors.New("screen too small for grid")
)

// Backend defines the interface for display backends.
// Implementations receive the grid geometry once per frame and put it on
// screen.
type Backend interface {
	// Init acquires the backend's display resources.
	// Must be called before any other methods.
	Init() error

	// Shutdown releases backend resources. Safe to call more than once.
	Shutdown()

	// Draw renders one frame of geometry into the back buffer. The mesh
	// slices are only valid for the duration of the call.
	Draw(mesh core.Mesh) error

	// Present makes the back buffer visible.
	Present() error

	// Size returns the output size in the backend's native unit (pixels
	// for raster output, cells for terminals).
	Size() (width, height int)
}

// NullBackend is a no-op backend for testing. It keeps a copy of the last
// mesh it was asked to draw.
type NullBackend struct {
	width, height int

	initialized bool
	shutdown    bool

	draws    int
	presents int
	last     core.Mesh

	// DrawErr, when set, is returned from Draw.
	DrawErr error
}

// NewNullBackend creates a null backend reporting the given size.
func NewNullBackend(width, height int) *NullBackend {
	return &NullBackend{width: width, height: height}
}

func (b *NullBackend) Init() error {
	b.initialized = true
	return nil
}

func (b *NullBackend) Shutdown() {
	b.shutdown = true
}

func (b *NullBackend) Draw(mesh core.Mesh) error {
	if !b.initialized {
		return ErrNotInitialized
	}
	if b.shutdown {
		return ErrShutdown
	}
	if b.DrawErr != nil {
		return b.DrawErr
	}
	b.draws++
	b.last = core.Mesh{
		Vertices: append([]core.Vertex(nil), mesh.Vertices...),
		Indices:  append([]core.Index(nil), mesh.Indices...),
		Columns:  mesh.Columns,
		Rows:     mesh.Rows,
		Dirty:    mesh.Dirty,
	}
	return nil
}

func (b *NullBackend) Present() error {
	if !b.initialized {
		return ErrNotInitialized
	}
	b.presents++
	return nil
}

func (b *NullBackend) Size() (int, int) {
	return b.width, b.height
}

// Draws returns the number of successful Draw calls.
func (b *NullBackend) Draws() int { return b.draws }

// Presents returns the number of Present calls.
func (b *NullBackend) Presents() int { return b.presents }

// LastMesh returns a copy of the most recently drawn mesh.
func (b *NullBackend) LastMesh() core.Mesh { return b.last }

// IsShutdown reports whether Shutdown was called.
func (b *NullBackend) IsShutdown() bool { return b.shutdown }
