package app

import (
	"time"

	"github.com/dshills/glyphgrid/internal/event"
	"github.com/dshills/glyphgrid/internal/input"
	"github.com/dshills/glyphgrid/internal/renderer/backend"
)

// Option configures a FrameLoop or a Run.
type Option func(*options)

type options struct {
	policy    input.PressPolicy
	policySet bool

	logger   *Logger
	metrics  *Metrics
	observer func(State)

	interval    time.Duration
	intervalSet bool

	maxFrames    uint64
	maxFramesSet bool

	// Run only.
	backend backend.Backend
	sources []event.Source
}

// WithPolicy overrides the press policy. PolicyAuto is resolved against
// the event source.
func WithPolicy(p input.PressPolicy) Option {
	return func(o *options) {
		o.policy = p
		o.policySet = true
	}
}

// WithLogger sets the logger.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithFrameInterval sets the minimum time between frame starts. Zero runs
// frames back to back.
func WithFrameInterval(d time.Duration) Option {
	return func(o *options) {
		o.interval = d
		o.intervalSet = true
	}
}

// WithObserver registers fn to be called on every state transition.
func WithObserver(fn func(State)) Option {
	return func(o *options) {
		o.observer = fn
	}
}

// WithMaxFrames quits the loop after n presented frames. Zero means no
// limit.
func WithMaxFrames(n uint64) Option {
	return func(o *options) {
		o.maxFrames = n
		o.maxFramesSet = true
	}
}

// WithBackend makes Run present through b instead of the configured
// renderer. Run initializes and shuts down b.
func WithBackend(b backend.Backend) Option {
	return func(o *options) {
		o.backend = b
	}
}

// WithSource adds an event source to Run. Sources are merged with the
// terminal's own events when the terminal renderer is used.
func WithSource(s event.Source) Option {
	return func(o *options) {
		if s != nil {
			o.sources = append(o.sources, s)
		}
	}
}

func collectOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

func newOptions(opts []Option) options {
	o := collectOptions(opts)
	o.fillDefaults()
	return o
}

func (o *options) fillDefaults() {
	if o.logger == nil {
		o.logger = NewNullLogger()
	}
	if o.metrics == nil {
		o.metrics = NewMetrics()
	}
}
