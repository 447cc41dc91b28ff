package event

import (
	"errors"
	"sync"
	"testing"

	"github.com/dshills/glyphgrid/internal/input/key"
)

func TestEventString(t *testing.T) {
	tests := []struct {
		ev   Event
		want string
	}{
		{KeyPress(key.KeySpace), "key.press(Space)"},
		{KeyRelease(key.KeyA), "key.release(A)"},
		{PointerMove(3, 4), "pointer.move(3,4)"},
		{Resize(80, 24), "resize(80x24)"},
		{CloseRequest(), "close"},
		{Event{}, "none"},
	}

	for _, tt := range tests {
		if got := tt.ev.String(); got != tt.want {
			t.Errorf("expected %q, got %q", tt.want, got)
		}
	}
}

func TestQueueDrainEmptiesQueue(t *testing.T) {
	q := NewQueue(0)
	if err := q.Push(KeyPress(key.KeyA), PointerMove(1, 2)); err != nil {
		t.Fatalf("Push failed: %v", err)
	}

	got := q.Drain(nil)
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
	if got[0] != KeyPress(key.KeyA) || got[1] != PointerMove(1, 2) {
		t.Errorf("events out of order: %v", got)
	}

	if got := q.Drain(nil); len(got) != 0 {
		t.Errorf("expected empty drain, got %v", got)
	}
}

func TestQueueDrainAppends(t *testing.T) {
	q := NewQueue(0)
	_ = q.Push(CloseRequest())

	dst := []Event{KeyPress(key.KeyB)}
	dst = q.Drain(dst)
	if len(dst) != 2 || dst[1].Type != TypeCloseRequest {
		t.Errorf("expected appended close request, got %v", dst)
	}
}

func TestQueueLimit(t *testing.T) {
	q := NewQueue(2)
	err := q.Push(KeyPress(key.Key1), KeyPress(key.Key2), KeyPress(key.Key3))
	if !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}
	if q.Len() != 2 {
		t.Errorf("expected 2 queued events, got %d", q.Len())
	}
	if q.Dropped() != 1 {
		t.Errorf("expected 1 dropped event, got %d", q.Dropped())
	}
}

func TestQueueClosed(t *testing.T) {
	q := NewQueue(0)
	_ = q.Push(KeyPress(key.KeyA))
	_ = q.Close()

	if err := q.Push(KeyPress(key.KeyB)); !errors.Is(err, ErrQueueClosed) {
		t.Errorf("expected ErrQueueClosed, got %v", err)
	}
	if got := q.Drain(nil); len(got) != 1 {
		t.Errorf("pending events should survive Close, got %v", got)
	}
}

func TestQueueConcurrentPush(t *testing.T) {
	q := NewQueue(0)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = q.Push(PointerMove(j, j))
			}
		}()
	}
	wg.Wait()

	if got := len(q.Drain(nil)); got != 800 {
		t.Errorf("expected 800 events, got %d", got)
	}
}

func TestQueueReportsReleases(t *testing.T) {
	if !NewQueue(0).ReportsReleases() {
		t.Error("queue should report releases by default")
	}
	if NewQueue(0, WithReleases(false)).ReportsReleases() {
		t.Error("WithReleases(false) not applied")
	}
}

func TestMerge(t *testing.T) {
	a := NewQueue(0)
	b := NewQueue(0, WithReleases(false))
	_ = a.Push(KeyPress(key.KeyA))
	_ = b.Push(CloseRequest())

	m := Merge(a, b)
	got := m.Drain(nil)
	if len(got) != 2 || got[0].Type != TypeKeyPress || got[1].Type != TypeCloseRequest {
		t.Errorf("unexpected merged drain: %v", got)
	}
	if m.ReportsReleases() {
		t.Error("merge must not report releases when one source does not")
	}
	if !Merge(a).ReportsReleases() {
		t.Error("single releasing source should report releases")
	}
	if err := m.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
