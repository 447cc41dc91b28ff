package app

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/dshills/glyphgrid/internal/event"
	"github.com/dshills/glyphgrid/internal/input"
	"github.com/dshills/glyphgrid/internal/renderer"
	"github.com/dshills/glyphgrid/internal/renderer/backend"
)

// State is a phase of the frame loop.
type State int

const (
	// StateIdle is between frames.
	StateIdle State = iota
	// StatePollEvents drains the event source into the input snapshot.
	StatePollEvents
	// StateApplyUpdate hands the snapshot to the application.
	StateApplyUpdate
	// StateDraw clears the grid and lets the application draw.
	StateDraw
	// StatePresent hands the grid geometry to the backend.
	StatePresent
	// StateQuit is terminal. No phase runs after it.
	StateQuit

	stateCount
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePollEvents:
		return "poll"
	case StateApplyUpdate:
		return "update"
	case StateDraw:
		return "draw"
	case StatePresent:
		return "present"
	case StateQuit:
		return "quit"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Application is implemented by programs driven by the frame loop.
// Both callbacks run on the loop goroutine and must not keep the grid or
// snapshot after returning.
type Application interface {
	// Draw writes this frame's cells. The grid is cleared beforehand.
	Draw(grid *renderer.Grid)

	// Update observes the input accumulated since the previous frame.
	Update(in input.Snapshot)
}

// Quitter is optionally implemented by applications that want to run
// cleanup when the loop quits. Quit is called exactly once.
type Quitter interface {
	Quit()
}

// LoggerSetter is optionally implemented by applications that log. Run
// hands them its run logger before the first frame.
type LoggerSetter interface {
	SetLogger(l *Logger)
}

// FrameLoop sequences event polling, application update, drawing and
// presenting. It is single-threaded: Step and Run must be called from one
// goroutine.
type FrameLoop struct {
	app     Application
	grid    *renderer.Grid
	source  event.Source
	backend backend.Backend

	input  *input.Aggregator
	policy input.PressPolicy

	logger    *Logger
	metrics   *Metrics
	interval  time.Duration
	observer  func(State)
	maxFrames uint64

	state  State
	frames uint64
	quit   bool
	events []event.Event
}

// NewFrameLoop creates a frame loop. Options that only concern Run
// (backend and source overrides) are ignored.
func NewFrameLoop(app Application, grid *renderer.Grid, source event.Source, b backend.Backend, opts ...Option) *FrameLoop {
	return newFrameLoop(app, grid, source, b, newOptions(opts))
}

func newFrameLoop(app Application, grid *renderer.Grid, source event.Source, b backend.Backend, o options) *FrameLoop {
	if source == nil {
		source = event.NewQueue(0)
	}

	policy := o.policy.Resolve(source.ReportsReleases())
	l := &FrameLoop{
		app:       app,
		grid:      grid,
		source:    source,
		backend:   b,
		input:     input.NewAggregator(),
		policy:    policy,
		logger:    o.logger,
		metrics:   o.metrics,
		interval:  o.interval,
		observer:  o.observer,
		maxFrames: o.maxFrames,
		state:     StateIdle,
	}
	l.logger.Debug("frame loop ready: policy=%s grid=%dx%d", policy, grid.Width(), grid.Height())
	return l
}

// State returns the current phase.
func (l *FrameLoop) State() State {
	return l.state
}

// Policy returns the effective press policy.
func (l *FrameLoop) Policy() input.PressPolicy {
	return l.policy
}

// Frames returns the number of frames presented.
func (l *FrameLoop) Frames() uint64 {
	return l.frames
}

// Input returns the loop's input snapshot.
func (l *FrameLoop) Input() input.Snapshot {
	return l.input
}

// Metrics returns the loop's metrics.
func (l *FrameLoop) Metrics() *Metrics {
	return l.metrics
}

// Step runs one frame: PollEvents, ApplyUpdate, Draw, Present. A close
// request seen while polling moves the loop to StateQuit and skips the
// remaining phases. Once quit, Step does nothing and returns StateQuit.
func (l *FrameLoop) Step() (state State, err error) {
	if l.quit {
		return StateQuit, nil
	}

	defer func() {
		if r := recover(); r != nil {
			err = &FrameError{Frame: l.frames + 1, Phase: l.state, Err: NewRecoveredPanicError(r, string(debug.Stack()))}
			state = l.state
		}
	}()

	frameStart := time.Now()

	l.enter(StatePollEvents)
	if l.poll() {
		l.requestQuit("close requested")
		return StateQuit, nil
	}
	l.leave(StatePollEvents, frameStart)

	phaseStart := time.Now()
	l.enter(StateApplyUpdate)
	l.app.Update(l.input)
	if l.policy == input.PolicyEdge {
		l.input.ClearPresses()
	}
	l.leave(StateApplyUpdate, phaseStart)

	phaseStart = time.Now()
	l.enter(StateDraw)
	l.grid.Clear()
	l.app.Draw(l.grid)
	l.leave(StateDraw, phaseStart)

	phaseStart = time.Now()
	l.enter(StatePresent)
	if err := l.present(); err != nil {
		return StatePresent, &FrameError{Frame: l.frames + 1, Phase: StatePresent, Err: err}
	}
	l.leave(StatePresent, phaseStart)

	l.frames++
	l.metrics.RecordFrame(time.Since(frameStart))

	if l.maxFrames > 0 && l.frames >= l.maxFrames {
		l.requestQuit("frame limit reached")
		return StateQuit, nil
	}

	l.enter(StateIdle)
	return StateIdle, nil
}

// poll drains the source into the aggregator. It returns true when a close
// request was seen; events after it are discarded.
func (l *FrameLoop) poll() bool {
	l.events = l.source.Drain(l.events[:0])
	for _, ev := range l.events {
		l.metrics.RecordEvent(ev.Type)
		switch ev.Type {
		case event.TypeKeyPress:
			l.input.Press(ev.Key)
		case event.TypeKeyRelease:
			l.input.Release(ev.Key)
		case event.TypePointerMove:
			l.input.SetMousePosition(ev.X, ev.Y)
		case event.TypeResize:
			l.logger.Debug("surface resized to %dx%d; grid stays %dx%d", ev.Width, ev.Height, l.grid.Width(), l.grid.Height())
		case event.TypeCloseRequest:
			return true
		}
	}
	return false
}

func (l *FrameLoop) present() error {
	if err := l.backend.Draw(l.grid.Mesh()); err != nil {
		return err
	}
	if err := l.backend.Present(); err != nil {
		return err
	}
	l.grid.MarkClean()
	return nil
}

// requestQuit moves the loop to StateQuit and runs the application's Quit
// hook. Later calls do nothing.
func (l *FrameLoop) requestQuit(reason string) {
	if l.quit {
		return
	}
	l.quit = true
	l.enter(StateQuit)
	l.logger.Info("quitting after %d frames: %s", l.frames, reason)
	if q, ok := l.app.(Quitter); ok {
		q.Quit()
	}
}

// Run steps the loop until it quits, a frame fails or ctx is done.
// Cancelling ctx is treated as a close request and returns nil. Run never
// blocks waiting for events; with a frame interval set it sleeps between
// frames to cap the frame rate.
func (l *FrameLoop) Run(ctx context.Context) error {
	var timer *time.Timer
	if l.interval > 0 {
		timer = time.NewTimer(l.interval)
		timer.Stop()
		defer timer.Stop()
	}

	for {
		if ctx.Err() != nil {
			l.requestQuit("context done")
			return nil
		}

		start := time.Now()
		state, err := l.Step()
		if err != nil {
			l.logger.Error("frame loop stopped: %v", err)
			return err
		}
		if state == StateQuit {
			return nil
		}

		if timer == nil {
			continue
		}
		wait := l.interval - time.Since(start)
		if wait <= 0 {
			continue
		}
		timer.Reset(wait)
		select {
		case <-ctx.Done():
			l.requestQuit("context done")
			return nil
		case <-timer.C:
		}
	}
}

func (l *FrameLoop) enter(s State) {
	l.state = s
	if l.observer != nil {
		l.observer(s)
	}
}

func (l *FrameLoop) leave(s State, since time.Time) {
	l.metrics.RecordPhase(s, time.Since(since))
}
