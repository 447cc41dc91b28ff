package lua

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/glyphgrid/internal/app"
	"github.com/dshills/glyphgrid/internal/input"
	"github.com/dshills/glyphgrid/internal/renderer"
)

// Script callbacks. Only draw is required.
const (
	fnInit   = "init"
	fnUpdate = "update"
	fnDraw   = "draw"
	fnQuit   = "quit"
)

// App runs a Lua script as a frame loop application. It implements
// app.Application, app.Quitter and app.LoggerSetter.
type App struct {
	path      string
	logger    *app.Logger
	stateOpts []StateOption
	watch     bool

	api     *api
	state   *State
	watcher *Watcher

	err     error
	reloads int
}

// Option configures an App.
type Option func(*App)

// WithLogger sets the logger for script errors and print output.
func WithLogger(l *app.Logger) Option {
	return func(a *App) {
		a.logger = l
	}
}

// WithWatch reloads the script when its file changes.
func WithWatch(enabled bool) Option {
	return func(a *App) {
		a.watch = enabled
	}
}

// WithStateOptions passes options to every Lua state the app creates.
func WithStateOptions(opts ...StateOption) Option {
	return func(a *App) {
		a.stateOpts = append(a.stateOpts, opts...)
	}
}

// Load runs the script at path and returns the application. The script
// must define draw(); init(), update() and quit() are optional.
func Load(path string, opts ...Option) (*App, error) {
	a := &App{
		path: path,
		api:  &api{},
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = app.NewNullLogger()
	}
	a.logger = scriptLogger(a.logger, path)

	state, err := a.load()
	if err != nil {
		return nil, err
	}
	a.state = state

	if a.watch {
		w, err := NewWatcher(path)
		if err != nil {
			state.Close()
			return nil, fmt.Errorf("watching %s: %w", path, err)
		}
		a.watcher = w
	}
	return a, nil
}

// load creates a fresh state and runs the script's top level and init.
func (a *App) load() (*State, error) {
	opts := append([]StateOption{WithOutput(logWriter{a})}, a.stateOpts...)
	s := NewState(opts...)
	a.api.register(s)

	if err := s.DoFile(a.path); err != nil {
		s.Close()
		return nil, &ScriptError{Path: a.path, Func: "load", Err: err}
	}
	if !s.HasFunc(fnDraw) {
		s.Close()
		return nil, &ScriptError{Path: a.path, Func: "load", Err: ErrNoDraw}
	}
	if s.HasFunc(fnInit) {
		if _, err := s.Call(fnInit); err != nil {
			s.Close()
			return nil, &ScriptError{Path: a.path, Func: fnInit, Err: err}
		}
	}
	return s, nil
}

// SetLogger replaces the logger. Run calls it with the run logger.
func (a *App) SetLogger(l *app.Logger) {
	a.logger = scriptLogger(l, a.path)
}

func scriptLogger(l *app.Logger, path string) *app.Logger {
	return l.WithComponent("script").WithField("path", path)
}

// Reload replaces the running script with the file's current contents.
// When the new version fails to load the old one keeps running.
func (a *App) Reload() error {
	s, err := a.load()
	if err != nil {
		a.report(err)
		return err
	}
	a.state.Close()
	a.state = s
	a.reloads++
	a.err = nil
	a.logger.Info("script reloaded")
	return nil
}

// Reloads returns the number of successful reloads.
func (a *App) Reloads() int {
	return a.reloads
}

// Err returns the most recent script error, nil after a clean reload.
func (a *App) Err() error {
	return a.err
}

// Update picks up pending file changes and calls the script's update.
func (a *App) Update(in input.Snapshot) {
	a.api.input = in
	if a.watcher != nil {
		select {
		case <-a.watcher.Changed():
			_ = a.Reload()
		default:
		}
	}
	a.callOptional(fnUpdate)
}

// Draw calls the script's draw with the grid bound.
func (a *App) Draw(g *renderer.Grid) {
	a.api.grid = g
	a.callOptional(fnDraw)
}

// Quit calls the script's quit and releases the Lua state.
func (a *App) Quit() {
	a.callOptional(fnQuit)
	if a.watcher != nil {
		if err := a.watcher.Close(); err != nil {
			a.logger.Warn("closing watcher: %v", err)
		}
	}
	a.state.Close()
}

func (a *App) callOptional(fn string) {
	if !a.state.HasFunc(fn) {
		return
	}
	if _, err := a.state.Call(fn); err != nil {
		a.report(&ScriptError{Path: a.path, Func: fn, Err: err})
	}
}

// report records err and logs it unless it repeats the previous error, so
// a failing draw does not log every frame.
func (a *App) report(err error) {
	repeated := a.err != nil && a.err.Error() == err.Error()
	a.err = err
	if !repeated {
		a.logger.Error("%v", err)
	}
}

// IsScriptError reports whether err came from script code.
func IsScriptError(err error) bool {
	var se *ScriptError
	return errors.As(err, &se)
}

// logWriter sends script print output to the app's current logger, one
// entry per line.
type logWriter struct {
	app *App
}

func (w logWriter) Write(p []byte) (int, error) {
	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		w.app.logger.Info("print: %s", line)
	}
	return len(p), nil
}
