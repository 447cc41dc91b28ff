package event

import (
	"errors"
	"sync"
)

// ErrQueueClosed is returned when pushing to a closed queue.
var ErrQueueClosed = errors.New("event queue closed")

// ErrQueueFull is returned when a bounded queue has no room.
var ErrQueueFull = errors.New("event queue full")

// Queue is an in-memory Source. Push may be called from any goroutine;
// Drain is called by the frame loop.
type Queue struct {
	mu       sync.Mutex
	events   []Event
	limit    int
	releases bool
	closed   bool
	dropped  uint64
}

// QueueOption configures a Queue.
type QueueOption func(*Queue)

// WithReleases marks the queue as delivering key release events.
func WithReleases(reports bool) QueueOption {
	return func(q *Queue) {
		q.releases = reports
	}
}

// NewQueue creates a queue holding at most limit pending events. A limit of
// zero or less means unbounded.
func NewQueue(limit int, opts ...QueueOption) *Queue {
	q := &Queue{limit: limit, releases: true}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Push appends events to the queue. Events that do not fit are dropped and
// ErrQueueFull is returned.
func (q *Queue) Push(events ...Event) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrQueueClosed
	}
	for _, ev := range events {
		if q.limit > 0 && len(q.events) >= q.limit {
			q.dropped++
			return ErrQueueFull
		}
		q.events = append(q.events, ev)
	}
	return nil
}

// Drain implements Source.
func (q *Queue) Drain(dst []Event) []Event {
	q.mu.Lock()
	defer q.mu.Unlock()

	dst = append(dst, q.events...)
	q.events = q.events[:0]
	return dst
}

// Len returns the number of pending events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}

// Dropped returns the number of events rejected because the queue was full.
func (q *Queue) Dropped() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}

// ReportsReleases implements Source.
func (q *Queue) ReportsReleases() bool {
	return q.releases
}

// Close implements Source. Pending events remain drainable.
func (q *Queue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	return nil
}

// Merge combines several sources into one. Events are drained from each
// source in order. The merged source reports releases only if all of its
// sources do.
func Merge(sources ...Source) Source {
	return merged(sources)
}

type merged []Source

func (m merged) Drain(dst []Event) []Event {
	for _, s := range m {
		dst = s.Drain(dst)
	}
	return dst
}

func (m merged) ReportsReleases() bool {
	for _, s := range m {
		if !s.ReportsReleases() {
			return false
		}
	}
	return len(m) > 0
}

func (m merged) Close() error {
	var errs []error
	for _, s := range m {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
