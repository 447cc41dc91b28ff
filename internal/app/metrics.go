package app

import (
	"sync"
	"time"

	"github.com/dshills/glyphgrid/internal/event"
)

// timing accumulates a series of durations.
type timing struct {
	n     uint64
	total time.Duration
	min   time.Duration
	max   time.Duration
	last  time.Duration
}

func (t *timing) add(d time.Duration) {
	if t.n == 0 || d < t.min {
		t.min = d
	}
	if d > t.max {
		t.max = d
	}
	t.n++
	t.total += d
	t.last = d
}

func (t timing) avg() time.Duration {
	if t.n == 0 {
		return 0
	}
	return t.total / time.Duration(t.n)
}

// Metrics records frame loop timing and event counts. It is safe for
// concurrent use, so a snapshot may be taken while the loop runs. A nil
// *Metrics records nothing.
type Metrics struct {
	mu      sync.Mutex
	started time.Time
	frames  timing
	phases  [stateCount]time.Duration
	events  map[event.Type]uint64
}

// NewMetrics returns an empty recorder whose uptime starts now.
func NewMetrics() *Metrics {
	return &Metrics{
		started: time.Now(),
		events:  make(map[event.Type]uint64),
	}
}

// RecordFrame records one complete frame.
func (m *Metrics) RecordFrame(d time.Duration) {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.frames.add(d)
	m.mu.Unlock()
}

// RecordPhase adds time spent in one loop phase. Unknown phases are
// ignored.
func (m *Metrics) RecordPhase(phase State, d time.Duration) {
	if m == nil || phase < 0 || phase >= stateCount {
		return
	}
	m.mu.Lock()
	m.phases[phase] += d
	m.mu.Unlock()
}

// RecordEvent counts one event taken from the source.
func (m *Metrics) RecordEvent(t event.Type) {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.events[t]++
	m.mu.Unlock()
}

// Reset clears everything and restarts the uptime clock.
func (m *Metrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started = time.Now()
	m.frames = timing{}
	m.phases = [stateCount]time.Duration{}
	m.events = make(map[event.Type]uint64)
}

// Snapshot copies the current values.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := MetricsSnapshot{
		Uptime:       time.Since(m.started),
		Frames:       m.frames.n,
		FrameMin:     m.frames.min,
		FrameAvg:     m.frames.avg(),
		FrameMax:     m.frames.max,
		FrameLast:    m.frames.last,
		Phases:       make(map[State]time.Duration),
		EventsByType: make(map[event.Type]uint64, len(m.events)),
	}
	for st, d := range m.phases {
		if d > 0 {
			s.Phases[State(st)] = d
		}
	}
	for t, n := range m.events {
		s.EventsByType[t] = n
		s.Events += n
	}
	return s
}

// MetricsSnapshot is a point-in-time copy of Metrics.
type MetricsSnapshot struct {
	Uptime time.Duration

	Frames    uint64
	FrameMin  time.Duration
	FrameAvg  time.Duration
	FrameMax  time.Duration
	FrameLast time.Duration

	// Phases holds the total time per phase; phases never entered are
	// absent.
	Phases map[State]time.Duration

	Events       uint64
	EventsByType map[event.Type]uint64
}

// KeyPresses returns the number of key press events.
func (s MetricsSnapshot) KeyPresses() uint64 {
	return s.EventsByType[event.TypeKeyPress]
}

// AvgFPS is the frame rate implied by the average frame time.
func (s MetricsSnapshot) AvgFPS() float64 {
	return perSecond(s.FrameAvg)
}

// CurrentFPS is the frame rate implied by the last frame time.
func (s MetricsSnapshot) CurrentFPS() float64 {
	return perSecond(s.FrameLast)
}

func perSecond(d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(time.Second) / float64(d)
}
