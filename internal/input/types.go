package input

import (
	"fmt"
	"slices"
	"strings"

	"github.com/dshills/glyphgrid/internal/input/key"
)

// Snapshot is the read-only view of input state an application sees during
// one Update call. Implementations must not be retained past the call.
type Snapshot interface {
	// IsPressed reports whether k is currently down.
	IsPressed(k key.Key) bool

	// MousePosition returns the last known pointer cell.
	MousePosition() (col, row int)

	// PressedKeys returns the pressed keys in ascending order.
	PressedKeys() []key.Key
}

// Aggregator accumulates input events for one frame interval.
// It is not safe for concurrent use.
type Aggregator struct {
	pressed  map[key.Key]struct{}
	mouseCol int
	mouseRow int
}

// NewAggregator creates an empty aggregator with the pointer at (0, 0).
func NewAggregator() *Aggregator {
	return &Aggregator{
		pressed: make(map[key.Key]struct{}),
	}
}

// IsPressed reports whether k is in the pressed set.
func (a *Aggregator) IsPressed(k key.Key) bool {
	_, ok := a.pressed[k]
	return ok
}

// MousePosition returns the last known pointer cell.
func (a *Aggregator) MousePosition() (int, int) {
	return a.mouseCol, a.mouseRow
}

// PressedKeys returns the pressed keys in ascending order.
func (a *Aggregator) PressedKeys() []key.Key {
	keys := make([]key.Key, 0, len(a.pressed))
	for k := range a.pressed {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Len returns the number of pressed keys.
func (a *Aggregator) Len() int {
	return len(a.pressed)
}

// Press adds k to the pressed set. Pressing a pressed key is a no-op.
func (a *Aggregator) Press(k key.Key) {
	if k == key.KeyNone {
		return
	}
	a.pressed[k] = struct{}{}
}

// Release removes k from the pressed set.
func (a *Aggregator) Release(k key.Key) {
	delete(a.pressed, k)
}

// SetMousePosition records the pointer cell.
func (a *Aggregator) SetMousePosition(col, row int) {
	a.mouseCol = col
	a.mouseRow = row
}

// ClearPresses empties the pressed set. The pointer position is kept.
func (a *Aggregator) ClearPresses() {
	clear(a.pressed)
}

// String returns a compact description for logging.
func (a *Aggregator) String() string {
	names := make([]string, 0, len(a.pressed))
	for _, k := range a.PressedKeys() {
		names = append(names, k.String())
	}
	return fmt.Sprintf("keys=[%s] mouse=(%d,%d)", strings.Join(names, " "), a.mouseCol, a.mouseRow)
}

// PressPolicy selects how long a key stays in the pressed set.
type PressPolicy int

const (
	// PolicyAuto picks Level or Edge from the event source's capabilities.
	PolicyAuto PressPolicy = iota

	// PolicyLevel keeps a key pressed until its release event.
	PolicyLevel

	// PolicyEdge clears the pressed set after every update.
	PolicyEdge
)

// String returns the policy name used in configuration.
func (p PressPolicy) String() string {
	switch p {
	case PolicyAuto:
		return "auto"
	case PolicyLevel:
		return "level"
	case PolicyEdge:
		return "edge"
	default:
		return fmt.Sprintf("PressPolicy(%d)", int(p))
	}
}

// ParsePressPolicy parses "auto", "level" or "edge" (case-insensitive).
func ParsePressPolicy(s string) (PressPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return PolicyAuto, nil
	case "level":
		return PolicyLevel, nil
	case "edge":
		return PolicyEdge, nil
	default:
		return PolicyAuto, fmt.Errorf("unknown press policy %q (must be auto, level, or edge)", s)
	}
}

// Resolve returns the concrete policy for a source. PolicyAuto becomes
// PolicyLevel when the source reports releases, PolicyEdge otherwise.
func (p PressPolicy) Resolve(reportsReleases bool) PressPolicy {
	if p != PolicyAuto {
		return p
	}
	if reportsReleases {
		return PolicyLevel
	}
	return PolicyEdge
}
