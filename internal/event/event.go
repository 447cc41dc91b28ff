package event

import (
	"fmt"

	"github.com/dshills/glyphgrid/internal/input/key"
)

// Type identifies the kind of an event.
type Type uint8

const (
	// TypeNone is the zero value and is ignored by consumers.
	TypeNone Type = iota
	TypeKeyPress
	TypeKeyRelease
	TypePointerMove
	TypeResize
	TypeCloseRequest
)

// String returns the event type name.
func (t Type) String() string {
	switch t {
	case TypeNone:
		return "none"
	case TypeKeyPress:
		return "key.press"
	case TypeKeyRelease:
		return "key.release"
	case TypePointerMove:
		return "pointer.move"
	case TypeResize:
		return "resize"
	case TypeCloseRequest:
		return "close"
	default:
		return fmt.Sprintf("Type(%d)", t)
	}
}

// Event is a single input or window notification.
type Event struct {
	Type Type

	// Key is set for TypeKeyPress and TypeKeyRelease.
	Key key.Key

	// X, Y hold the pointer cell for TypePointerMove.
	X, Y int

	// Width, Height hold the new surface size for TypeResize.
	Width, Height int
}

// KeyPress returns a key press event.
func KeyPress(k key.Key) Event {
	return Event{Type: TypeKeyPress, Key: k}
}

// KeyRelease returns a key release event.
func KeyRelease(k key.Key) Event {
	return Event{Type: TypeKeyRelease, Key: k}
}

// PointerMove returns a pointer event at cell (col, row).
func PointerMove(col, row int) Event {
	return Event{Type: TypePointerMove, X: col, Y: row}
}

// Resize returns a resize notification.
func Resize(width, height int) Event {
	return Event{Type: TypeResize, Width: width, Height: height}
}

// CloseRequest returns a close request.
func CloseRequest() Event {
	return Event{Type: TypeCloseRequest}
}

// String returns a compact description for logging.
func (e Event) String() string {
	switch e.Type {
	case TypeKeyPress, TypeKeyRelease:
		return fmt.Sprintf("%s(%s)", e.Type, e.Key)
	case TypePointerMove:
		return fmt.Sprintf("%s(%d,%d)", e.Type, e.X, e.Y)
	case TypeResize:
		return fmt.Sprintf("%s(%dx%d)", e.Type, e.Width, e.Height)
	default:
		return e.Type.String()
	}
}

// Source delivers events to the frame loop.
type Source interface {
	// Drain appends every event queued since the previous call to dst and
	// returns the extended slice. It must not block.
	Drain(dst []Event) []Event

	// ReportsReleases reports whether the source delivers TypeKeyRelease.
	ReportsReleases() bool

	// Close stops the source and releases its resources.
	Close() error
}
