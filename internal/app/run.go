package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dshills/glyphgrid/internal/config"
	"github.com/dshills/glyphgrid/internal/event"
	"github.com/dshills/glyphgrid/internal/renderer"
	"github.com/dshills/glyphgrid/internal/renderer/atlas"
	"github.com/dshills/glyphgrid/internal/renderer/backend"
)

// Run prepares everything cfg describes and drives application until it
// quits, a frame fails or ctx is done. A nil cfg runs with
// config.Default().
//
// Failures before the first frame are returned as *SetupError. Resources
// acquired during setup are released in reverse order on every return
// path.
func Run(ctx context.Context, cfg *config.Config, application Application, opts ...Option) error {
	if application == nil {
		return NewSetupError(StageConfig, ErrNilApplication)
	}
	if cfg == nil {
		cfg = config.Default()
	}

	b := newBootstrapper(cfg, collectOptions(opts))
	if err := b.bootstrap(); err != nil {
		return err
	}
	defer func() { _ = b.cleanup() }()

	logger := b.logger
	logger.Info("starting %q: grid=%dx%d renderer=%s atlas=%s", cfg.Title, cfg.Width, cfg.Height, b.rendererName(), b.atlas.Layout())

	if ls, ok := application.(LoggerSetter); ok {
		ls.SetLogger(logger.WithComponent("app"))
	}

	loop := newFrameLoop(application, b.grid, b.source, b.backend, b.loopOptions())
	runErr := loop.Run(ctx)

	if runErr == nil && b.raster != nil && cfg.Raster.CapturePath != "" {
		path := cfg.Resolve(cfg.Raster.CapturePath)
		if err := b.raster.SavePNG(path, cfg.Raster.CaptureScale); err != nil {
			runErr = fmt.Errorf("capturing frame: %w", err)
		} else {
			logger.Info("captured last frame to %s", path)
		}
	}

	logSummary(logger, loop.Metrics().Snapshot())
	if err := b.cleanup(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

func logSummary(logger *Logger, s MetricsSnapshot) {
	logger.WithFields(map[string]any{
		"frames":  s.Frames,
		"events":  s.Events,
		"presses": s.KeyPresses(),
	}).Info("run finished in %s: avg %.1f fps, frame min/avg/max %s/%s/%s",
		s.Uptime.Round(time.Millisecond), s.AvgFPS(), s.FrameMin, s.FrameAvg, s.FrameMax)
	for st := StatePollEvents; st <= StatePresent; st++ {
		logger.Debug("phase %s total %s", st, s.Phases[st])
	}
}

// bootstrapper builds the run's components in dependency order and tears
// them down in reverse.
type bootstrapper struct {
	cfg  *config.Config
	opts options

	logger  *Logger
	logFile io.Closer
	atlas   *atlas.Atlas
	font    *atlas.Font
	texture *backend.Texture
	grid    *renderer.Grid
	backend backend.Backend
	raster  *backend.Raster
	source  event.Source

	initOrder []string
}

func newBootstrapper(cfg *config.Config, opts options) *bootstrapper {
	return &bootstrapper{
		cfg:       cfg,
		opts:      opts,
		initOrder: make([]string, 0, 8),
	}
}

// bootstrap initializes all components. On failure, it cleans up
// already-initialized components.
func (b *bootstrapper) bootstrap() error {
	steps := []func() error{
		b.initConfig,
		b.initLogger,
		b.initAtlas,
		b.initFont,
		b.initTexture,
		b.initGrid,
		b.initBackend,
		b.initSources,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			b.logger.Error("%v", err)
			b.cleanup()
			return err
		}
	}
	return nil
}

func (b *bootstrapper) initConfig() error {
	b.logger = NewNullLogger()
	if err := b.cfg.Validate(); err != nil {
		return NewSetupError(StageConfig, err)
	}
	return nil
}

func (b *bootstrapper) initLogger() error {
	if b.opts.logger != nil {
		b.logger = b.opts.logger
		return nil
	}

	level, err := ParseLogLevel(b.cfg.Log.Level)
	if err != nil {
		return NewSetupError(StageLog, err)
	}

	var out io.Writer
	switch {
	case b.cfg.Log.File != "":
		f, err := os.OpenFile(b.cfg.Resolve(b.cfg.Log.File), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return NewSetupError(StageLog, err)
		}
		b.logFile = f
		b.initOrder = append(b.initOrder, "log")
		out = f
	case b.cfg.Renderer == config.RendererTerminal && b.opts.backend == nil:
		// The screen owns the terminal.
		return nil
	default:
		out = os.Stderr
	}

	b.logger = NewLogger(LoggerConfig{
		Level:  level,
		Output: out,
		Prefix: DefaultLogPrefix,
	}).ForRun()
	return nil
}

func (b *bootstrapper) initAtlas() error {
	a, err := atlas.New(b.cfg.AtlasLayout())
	if err != nil {
		return NewSetupError(StageAtlas, err)
	}
	b.atlas = a
	return nil
}

func (b *bootstrapper) initFont() error {
	data, err := b.cfg.LoadFont()
	if err != nil {
		return NewSetupError(StageFont, err)
	}
	if data == nil {
		b.font = atlas.BuiltinFont(b.atlas.Layout())
		b.logger.Debug("using builtin font")
		return nil
	}

	f, err := atlas.DecodeFont(data, b.atlas.Layout())
	if err != nil {
		return NewSetupError(StageFont, err)
	}
	gw, gh := f.GlyphSize()
	b.logger.Debug("decoded %s font: glyph %dx%d", f.Format(), gw, gh)
	b.font = f
	return nil
}

func (b *bootstrapper) initTexture() error {
	tex, err := backend.NewTexture(b.font)
	if err != nil {
		return NewSetupError(StageTexture, err)
	}
	tex.OnRelease(func() { b.logger.Debug("texture released") })
	b.texture = tex
	b.initOrder = append(b.initOrder, "texture")
	return nil
}

func (b *bootstrapper) initGrid() error {
	g, err := renderer.New(b.cfg.Width, b.cfg.Height, b.atlas)
	if err != nil {
		return NewSetupError(StageGrid, err)
	}
	b.grid = g
	return nil
}

func (b *bootstrapper) initBackend() error {
	be := b.opts.backend
	if be == nil {
		switch b.cfg.Renderer {
		case config.RendererTerminal:
			term, err := backend.NewTerminal(b.atlas, b.cfg.Charset())
			if err != nil {
				return NewSetupError(StageBackend, err)
			}
			term.RequireSize(b.cfg.Width, b.cfg.Height)
			term.SetTitle(b.cfg.Title)
			be = term
		case config.RendererRaster:
			b.raster = backend.NewRaster(b.texture, b.cfg.Width, b.cfg.Height)
			be = b.raster
		default:
			be = backend.NewNullBackend(b.cfg.Width, b.cfg.Height)
		}
	} else if r, ok := be.(*backend.Raster); ok {
		b.raster = r
	}

	if err := be.Init(); err != nil {
		return NewSetupError(StageBackend, err)
	}
	b.backend = be
	b.initOrder = append(b.initOrder, "backend")
	return nil
}

// initSources merges option sources with the backend when the backend
// also delivers events.
func (b *bootstrapper) initSources() error {
	sources := append([]event.Source(nil), b.opts.sources...)
	if src, ok := b.backend.(event.Source); ok {
		sources = append(sources, src)
	}

	switch len(sources) {
	case 0:
		b.source = event.NewQueue(0)
	case 1:
		b.source = sources[0]
	default:
		b.source = event.Merge(sources...)
	}
	b.initOrder = append(b.initOrder, "source")
	return nil
}

// loopOptions resolves the frame loop options from cfg and the Run
// options. Explicit options win.
func (b *bootstrapper) loopOptions() options {
	o := b.opts
	o.logger = b.logger.WithComponent("loop")
	if !o.policySet {
		o.policy = b.cfg.PressPolicy()
	}
	if !o.intervalSet && b.cfg.FrameRate > 0 {
		o.interval = time.Second / time.Duration(b.cfg.FrameRate)
	}
	if !o.maxFramesSet {
		o.maxFrames = b.cfg.MaxFrames
	}
	o.fillDefaults()
	return o
}

func (b *bootstrapper) rendererName() string {
	if b.opts.backend != nil {
		return fmt.Sprintf("%T", b.opts.backend)
	}
	return b.cfg.Renderer
}

// cleanup releases components in reverse setup order and returns every
// release error. Calling it again does nothing.
func (b *bootstrapper) cleanup() error {
	var errs ErrorList
	for i := len(b.initOrder) - 1; i >= 0; i-- {
		errs.Add(b.cleanupComponent(b.initOrder[i]))
	}
	b.initOrder = b.initOrder[:0]
	return errs.AsError()
}

func (b *bootstrapper) cleanupComponent(component string) error {
	switch component {
	case "source":
		if b.source != nil {
			if err := b.source.Close(); err != nil {
				b.logger.Warn("closing event source: %v", err)
				return fmt.Errorf("closing event source: %w", err)
			}
		}
	case "backend":
		if b.backend != nil {
			b.backend.Shutdown()
		}
	case "texture":
		if b.texture != nil {
			b.texture.Release()
		}
	case "log":
		if b.logFile != nil {
			f := b.logFile
			b.logFile = nil
			if err := f.Close(); err != nil {
				return fmt.Errorf("closing log file: %w", err)
			}
		}
	}
	return nil
}
