package loader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func environ(vars ...string) EnvOption {
	return WithEnviron(func() []string { return vars })
}

func TestEnvLoaderLoad(t *testing.T) {
	l := NewEnvLoader("GLYPHGRID_",
		environ(
			"GLYPHGRID_FRAME_RATE=30",
			"GLYPHGRID_LOG_LEVEL=debug",
			"GLYPHGRID_WIDTH=120",
			"GLYPHGRID_SCRIPT_PATH=",
			"HOME=/root",
			"malformed",
		),
		WithAlias("GLYPHGRID_FRAME_RATE", "frameRate"),
	)

	config, err := l.Load()
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"frameRate": int64(30),
		"log":       map[string]any{"level": "debug"},
		"width":     int64(120),
		"script":    map[string]any{"path": ""},
	}, config)
}

func TestEnvLoaderAliasWithoutPrefix(t *testing.T) {
	l := NewEnvLoader("GLYPHGRID_",
		environ("FONT=/tmp/font.png", "OTHER=1"),
		WithAlias("FONT", "fontPath"),
	)
	config, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"fontPath": "/tmp/font.png"}, config)
}

func TestEnvLoaderRawStrings(t *testing.T) {
	l := NewEnvLoader("GLYPHGRID_",
		environ("GLYPHGRID_TITLE=1", "GLYPHGRID_HEIGHT=1"),
		WithRawStrings("title"),
	)
	config, err := l.Load()
	require.NoError(t, err)

	assert.Equal(t, "1", config["title"])
	assert.Equal(t, int64(1), config["height"])
}

func TestEnvLoaderProcessEnvironment(t *testing.T) {
	t.Setenv("GLYPHGRID_TEST_RASTER_CAPTURE_SCALE", "2")

	config, err := NewEnvLoader("GLYPHGRID_TEST_").Load()
	require.NoError(t, err)
	v, ok := getByPath(config, "raster.captureScale")
	assert.True(t, ok)
	assert.Equal(t, int64(2), v)
}

func TestEnvLoaderPathFor(t *testing.T) {
	l := NewEnvLoader("GLYPHGRID_")

	tests := map[string]string{
		"GLYPHGRID_RASTER_CAPTURE_PATH": "raster.capturePath",
		"GLYPHGRID_INPUT_PRESS_POLICY":  "input.pressPolicy",
		"GLYPHGRID_LOG_LEVEL":           "log.level",
		"GLYPHGRID_HEIGHT":              "height",
	}
	for env, want := range tests {
		assert.Equal(t, want, l.pathFor(env), env)
	}
}

func TestConvert(t *testing.T) {
	tests := []struct {
		input string
		want  any
	}{
		{"true", true},
		{"YES", true},
		{"off", false},
		{"1", int64(1)},
		{"-10", int64(-10)},
		{"3.14", 3.14},
		{"terminal", "terminal"},
		{"out.png", "out.png"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, convert(tt.input), tt.input)
	}
}

func TestSetPathReplacesScalars(t *testing.T) {
	m := map[string]any{"raster": "flat"}
	setPath(m, "raster.captureScale", int64(3))
	assert.Equal(t, map[string]any{"raster": map[string]any{"captureScale": int64(3)}}, m)
}

// getByPath reads a value from a nested map by dot-separated path.
func getByPath(data map[string]any, path string) (any, bool) {
	current := any(data)
	for _, part := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		val, exists := m[part]
		if !exists {
			return nil, false
		}
		current = val
	}
	return current, true
}
