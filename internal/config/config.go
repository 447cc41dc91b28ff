package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/glyphgrid/internal/config/loader"
	"github.com/dshills/glyphgrid/internal/input"
	"github.com/dshills/glyphgrid/internal/renderer/atlas"
)

// Renderer names accepted by Config.Renderer.
const (
	RendererTerminal = "terminal"
	RendererRaster   = "raster"
	RendererHeadless = "headless"
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "GLYPHGRID_"

// Config holds everything needed to start a run.
type Config struct {
	// Title names the run in logs and the terminal title.
	Title string `toml:"title"`

	// Width and Height are the grid size in cells.
	Width  int `toml:"width"`
	Height int `toml:"height"`

	// FontPath points at the glyph atlas image. Relative paths resolve
	// against the directory of the config file. Empty selects the builtin
	// font.
	FontPath string `toml:"fontPath"`

	// FontCharset says which character each atlas slot depicts: "latin1"
	// or "cp437".
	FontCharset string `toml:"fontCharset"`

	// Renderer is "terminal", "raster" or "headless".
	Renderer string `toml:"renderer"`

	// FrameRate caps frames per second. Zero runs uncapped.
	FrameRate int `toml:"frameRate"`

	// MaxFrames stops the run after that many presented frames. Zero runs
	// until a close request.
	MaxFrames uint64 `toml:"maxFrames"`

	Atlas  AtlasConfig  `toml:"atlas"`
	Input  InputConfig  `toml:"input"`
	Log    LogConfig    `toml:"log"`
	Raster RasterConfig `toml:"raster"`
	Script ScriptConfig `toml:"script"`

	// Font holds raw atlas image bytes. When set it takes precedence over
	// FontPath.
	Font []byte `toml:"-"`

	// Dir is the directory relative paths resolve against.
	Dir string `toml:"-"`
}

// AtlasConfig is the glyph atlas grid geometry.
type AtlasConfig struct {
	Columns int `toml:"columns"`
	Rows    int `toml:"rows"`
}

// InputConfig configures input aggregation.
type InputConfig struct {
	// PressPolicy is "auto", "level" or "edge".
	PressPolicy string `toml:"pressPolicy"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `toml:"level"`
	// File receives log output. Empty logs to stderr, except for terminal
	// runs which then discard logs.
	File string `toml:"file"`
}

// RasterConfig configures the software rasterizer.
type RasterConfig struct {
	// CapturePath receives a PNG of the last frame when the run ends.
	CapturePath string `toml:"capturePath"`
	// CaptureScale enlarges the capture by an integer factor.
	CaptureScale int `toml:"captureScale"`
}

// ScriptConfig configures Lua applications.
type ScriptConfig struct {
	Path string `toml:"path"`
	// Watch reloads the script when the file changes.
	Watch bool `toml:"watch"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Title:       "glyphgrid",
		Width:       80,
		Height:      50,
		FontCharset: atlas.CharsetLatin1.String(),
		Renderer:    RendererTerminal,
		FrameRate:   60,
		Atlas: AtlasConfig{
			Columns: atlas.DefaultLayout.Columns,
			Rows:    atlas.DefaultLayout.Rows,
		},
		Input:  InputConfig{PressPolicy: input.PolicyAuto.String()},
		Log:    LogConfig{Level: "info"},
		Raster: RasterConfig{CaptureScale: 1},
	}
}

// Option configures Load.
type Option func(*loadOptions)

type loadOptions struct {
	fs        loader.FileSystem
	envPrefix string
}

// WithFileSystem reads config files from fsys instead of the OS.
func WithFileSystem(fsys loader.FileSystem) Option {
	return func(o *loadOptions) {
		o.fs = fsys
	}
}

// WithEnvPrefix changes the environment prefix. An empty prefix disables
// environment overrides.
func WithEnvPrefix(prefix string) Option {
	return func(o *loadOptions) {
		o.envPrefix = prefix
	}
}

// Load builds a Config from defaults, the file at path (if path is not
// empty) and the environment, then validates it.
func Load(path string, opts ...Option) (*Config, error) {
	o := loadOptions{fs: loader.DefaultFS(), envPrefix: EnvPrefix}
	for _, opt := range opts {
		opt(&o)
	}

	merged, err := defaultsMap()
	if err != nil {
		return nil, err
	}

	dir := ""
	if path != "" {
		fileMap, err := loadFile(o.fs, path)
		if err != nil {
			return nil, err
		}
		merged = loader.DeepMerge(merged, fileMap)
		dir = filepath.Dir(path)
	}

	if o.envPrefix != "" {
		envMap, err := newEnvLoader(o.envPrefix).Load()
		if err != nil {
			return nil, fmt.Errorf("loading environment: %w", err)
		}
		merged = loader.DeepMerge(merged, envMap)
	}

	cfg, err := decode(merged)
	if err != nil {
		if path != "" {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return nil, err
	}
	cfg.Dir = dir

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(fsys loader.FileSystem, path string) (map[string]any, error) {
	if _, err := fsys.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	l, err := loader.ForPath(fsys, path)
	if err != nil {
		return nil, err
	}
	return l.Load()
}

func newEnvLoader(prefix string) *loader.EnvLoader {
	return loader.NewEnvLoader(prefix,
		loader.WithAlias(prefix+"FONT_PATH", "fontPath"),
		loader.WithAlias(prefix+"FONT_CHARSET", "fontCharset"),
		loader.WithAlias(prefix+"FRAME_RATE", "frameRate"),
		loader.WithAlias(prefix+"MAX_FRAMES", "maxFrames"),
		loader.WithRawStrings(
			"title", "fontPath", "fontCharset", "renderer",
			"input.pressPolicy", "log.level", "log.file",
			"raster.capturePath", "script.path",
		),
	)
}

// defaultsMap renders Default as a generic map so file and environment
// layers merge over it key by key.
func defaultsMap() (map[string]any, error) {
	data, err := toml.Marshal(Default())
	if err != nil {
		return nil, fmt.Errorf("encoding defaults: %w", err)
	}
	var m map[string]any
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decoding defaults: %w", err)
	}
	return m, nil
}

// decode converts the merged map into a Config. Keys Config does not
// declare are rejected.
func decode(m map[string]any) (*Config, error) {
	data, err := toml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}

	cfg := &Config{}
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownSetting, unknownKeys(strict))
		}
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

func unknownKeys(e *toml.StrictMissingError) string {
	keys := make([]string, 0, len(e.Errors))
	for _, de := range e.Errors {
		keys = append(keys, strings.Join(de.Key(), "."))
	}
	return strings.Join(keys, ", ")
}

var logLevels = map[string]bool{
	"": true, "debug": true, "info": true, "warn": true, "warning": true, "error": true,
}

// Validate checks every setting and reports all failures together.
func (c *Config) Validate() error {
	var errs ValidationErrors
	fail := func(path, msg string, value any) {
		errs = append(errs, &ValidationError{Path: path, Message: msg, Value: value})
	}

	if c.Width <= 0 {
		fail("width", "must be positive", c.Width)
	}
	if c.Height <= 0 {
		fail("height", "must be positive", c.Height)
	}
	switch c.Renderer {
	case RendererTerminal, RendererRaster, RendererHeadless:
	default:
		fail("renderer", "must be terminal, raster, or headless", c.Renderer)
	}
	if c.FrameRate < 0 {
		fail("frameRate", "must not be negative", c.FrameRate)
	}
	if err := c.AtlasLayout().Validate(); err != nil {
		fail("atlas", err.Error(), c.AtlasLayout())
	}
	if _, err := atlas.ParseCharset(c.FontCharset); err != nil {
		fail("fontCharset", err.Error(), c.FontCharset)
	}
	if _, err := input.ParsePressPolicy(c.Input.PressPolicy); err != nil {
		fail("input.pressPolicy", err.Error(), c.Input.PressPolicy)
	}
	if !logLevels[strings.ToLower(strings.TrimSpace(c.Log.Level))] {
		fail("log.level", "must be debug, info, warn, or error", c.Log.Level)
	}
	if c.Raster.CaptureScale < 1 {
		fail("raster.captureScale", "must be at least 1", c.Raster.CaptureScale)
	}
	if c.Script.Watch && c.Script.Path == "" {
		fail("script.watch", "requires script.path", c.Script.Watch)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// AtlasLayout returns the configured atlas geometry.
func (c *Config) AtlasLayout() atlas.Layout {
	return atlas.Layout{Columns: c.Atlas.Columns, Rows: c.Atlas.Rows}
}

// Charset returns the parsed font charset, CharsetLatin1 when invalid.
func (c *Config) Charset() atlas.Charset {
	cs, _ := atlas.ParseCharset(c.FontCharset)
	return cs
}

// PressPolicy returns the parsed press policy, PolicyAuto when invalid.
func (c *Config) PressPolicy() input.PressPolicy {
	p, _ := input.ParsePressPolicy(c.Input.PressPolicy)
	return p
}

// Resolve returns path made absolute against the config directory.
func (c *Config) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || c.Dir == "" {
		return path
	}
	return filepath.Join(c.Dir, path)
}

// LoadFont returns the atlas image bytes: Font when set, otherwise the
// contents of FontPath. Both empty returns nil, selecting the builtin
// font.
func (c *Config) LoadFont() ([]byte, error) {
	if len(c.Font) > 0 {
		return c.Font, nil
	}
	if c.FontPath == "" {
		return nil, nil
	}
	data, err := os.ReadFile(c.Resolve(c.FontPath))
	if err != nil {
		return nil, fmt.Errorf("reading font: %w", err)
	}
	return data, nil
}
