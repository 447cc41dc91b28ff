package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/glyphgrid/internal/input/key"
)

func TestPressRelease(t *testing.T) {
	a := NewAggregator()

	a.Press(key.KeySpace)
	assert.True(t, a.IsPressed(key.KeySpace))

	a.Release(key.KeySpace)
	assert.False(t, a.IsPressed(key.KeySpace))
}

func TestPressIsIdempotent(t *testing.T) {
	a := NewAggregator()

	a.Press(key.KeyA)
	size := a.Len()
	a.Press(key.KeyA)

	assert.Equal(t, size, a.Len())
	assert.Equal(t, []key.Key{key.KeyA}, a.PressedKeys())

	// One release undoes any number of presses.
	a.Release(key.KeyA)
	assert.False(t, a.IsPressed(key.KeyA))
}

func TestReleaseUnpressedKey(t *testing.T) {
	a := NewAggregator()
	a.Release(key.KeyQ)
	assert.Zero(t, a.Len())
}

func TestPressNoneIgnored(t *testing.T) {
	a := NewAggregator()
	a.Press(key.KeyNone)
	assert.Zero(t, a.Len())
}

func TestClearPressesKeepsMouse(t *testing.T) {
	a := NewAggregator()
	a.Press(key.KeyUp)
	a.Press(key.KeyLeft)
	a.SetMousePosition(12, 7)

	a.ClearPresses()

	assert.Zero(t, a.Len())
	assert.False(t, a.IsPressed(key.KeyUp))
	col, row := a.MousePosition()
	assert.Equal(t, 12, col)
	assert.Equal(t, 7, row)
}

func TestPressedKeysSorted(t *testing.T) {
	a := NewAggregator()
	for _, k := range []key.Key{key.KeyZ, key.KeyEnter, key.KeyA, key.KeyF2} {
		a.Press(k)
	}
	assert.Equal(t, []key.Key{key.KeyEnter, key.KeyF2, key.KeyA, key.KeyZ}, a.PressedKeys())
	assert.Equal(t, "keys=[Enter F2 A Z] mouse=(0,0)", a.String())
}

func TestAggregatorIsSnapshot(t *testing.T) {
	var s Snapshot = NewAggregator()
	assert.False(t, s.IsPressed(key.KeyA))
}

func TestParsePressPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    PressPolicy
		wantErr bool
	}{
		{"", PolicyAuto, false},
		{"auto", PolicyAuto, false},
		{"LEVEL", PolicyLevel, false},
		{" edge ", PolicyEdge, false},
		{"sticky", PolicyAuto, true},
	}

	for _, tt := range tests {
		got, err := ParsePressPolicy(tt.in)
		if tt.wantErr {
			require.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, got, must(ParsePressPolicy(got.String())))
	}
}

func must(p PressPolicy, err error) PressPolicy {
	if err != nil {
		panic(err)
	}
	return p
}

func TestPolicyResolve(t *testing.T) {
	assert.Equal(t, PolicyLevel, PolicyAuto.Resolve(true))
	assert.Equal(t, PolicyEdge, PolicyAuto.Resolve(false))
	assert.Equal(t, PolicyEdge, PolicyEdge.Resolve(true))
	assert.Equal(t, PolicyLevel, PolicyLevel.Resolve(false))
}
