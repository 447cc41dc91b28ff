package backend

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/glyphgrid/internal/event"
	"github.com/dshills/glyphgrid/internal/input/key"
	"github.com/dshills/glyphgrid/internal/renderer/atlas"
	"github.com/dshills/glyphgrid/internal/renderer/core"
)

// terminalQueueSize bounds the events buffered between the pump goroutine
// and the frame loop.
const terminalQueueSize = 256

// Terminal implements Backend and event.Source using tcell. Each grid cell
// is shown as one terminal character; the glyph is recovered from the quad
// UVs through the atlas and charset.
type Terminal struct {
	mu      sync.Mutex
	screen  tcell.Screen
	atlas   *atlas.Atlas
	charset atlas.Charset
	buffer  *CellBuffer

	cols, rows int
	title      string

	events  chan event.Event
	dropped atomic.Uint64
	done    chan struct{}

	initialized bool
	finiOnce    sync.Once
	finished    atomic.Bool
	closed      atomic.Bool
}

// NewTerminal creates a terminal backend on the controlling terminal.
func NewTerminal(a *atlas.Atlas, cs atlas.Charset) (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewTerminalWithScreen(screen, a, cs), nil
}

// NewTerminalWithScreen creates a terminal backend on an existing screen.
// Tests pass a tcell simulation screen.
func NewTerminalWithScreen(screen tcell.Screen, a *atlas.Atlas, cs atlas.Charset) *Terminal {
	if a == nil {
		a = atlas.Default()
	}
	return &Terminal{
		screen:  screen,
		atlas:   a,
		charset: cs,
		events:  make(chan event.Event, terminalQueueSize),
		done:    make(chan struct{}),
	}
}

// RequireSize makes Init fail with ErrScreenTooSmall unless the terminal
// has at least cols x rows cells. Call it before Init.
func (t *Terminal) RequireSize(cols, rows int) {
	t.cols, t.rows = cols, rows
}

// SetTitle sets the window title shown once the screen is up. Call it
// before Init.
func (t *Terminal) SetTitle(title string) {
	t.title = title
}

func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.screen.Init(); err != nil {
		return err
	}
	if w, h := t.screen.Size(); w < t.cols || h < t.rows {
		t.screen.Fini()
		return fmt.Errorf("%w: need %dx%d cells, terminal has %dx%d", ErrScreenTooSmall, t.cols, t.rows, w, h)
	}
	if t.title != "" {
		t.screen.SetTitle(t.title)
	}
	t.screen.EnableMouse()
	t.screen.HideCursor()
	t.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack))
	t.screen.Clear()

	w, h := t.screen.Size()
	t.buffer = NewCellBuffer(w, h)
	t.initialized = true

	go t.pump()
	return nil
}

// pump forwards screen events to the loop until the screen is finalized.
func (t *Terminal) pump() {
	defer close(t.done)
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}
		out, ok := convertEvent(ev)
		if !ok || t.closed.Load() {
			continue
		}
		if out.Type == event.TypeResize {
			t.invalidate()
		}
		select {
		case t.events <- out:
		default:
			t.dropped.Add(1)
		}
	}
}

// invalidate makes the next Present repaint every cell. A resized terminal
// may have lost what was shown.
func (t *Terminal) invalidate() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.buffer != nil {
		t.buffer.MarkFullRedraw()
	}
}

// Shutdown finalizes the screen and waits for the pump to exit.
func (t *Terminal) Shutdown() {
	t.mu.Lock()
	started := t.initialized
	t.mu.Unlock()

	t.finiOnce.Do(func() {
		t.finished.Store(true)
		t.closed.Store(true)
		if !started {
			return
		}
		t.screen.Fini()
		<-t.done
	})
}

func (t *Terminal) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.screen.Size()
}

// Draw converts the mesh into terminal cells in the back buffer.
func (t *Terminal) Draw(mesh core.Mesh) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized {
		return ErrNotInitialized
	}
	if t.finished.Load() {
		return ErrShutdown
	}

	t.buffer.Resize(t.screen.Size())
	t.buffer.LoadMesh(mesh, t.atlas, t.charset)
	return nil
}

// Present writes changed cells to the screen and shows them.
func (t *Terminal) Present() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized {
		return ErrNotInitialized
	}
	if t.finished.Load() {
		return ErrShutdown
	}

	if !t.buffer.IsDirty() {
		return nil
	}
	for _, ch := range t.buffer.ComputeDiff() {
		t.screen.SetContent(ch.X, ch.Y, ch.Cell.Rune, nil, convertStyle(ch.Cell.Color))
	}
	t.buffer.Sync()
	t.screen.Show()
	return nil
}

// Drain appends all pending terminal events to dst without blocking.
func (t *Terminal) Drain(dst []event.Event) []event.Event {
	for {
		select {
		case ev := <-t.events:
			dst = append(dst, ev)
		default:
			return dst
		}
	}
}

// ReportsReleases is false: terminals only deliver key presses.
func (t *Terminal) ReportsReleases() bool {
	return false
}

// Close stops event delivery. The screen stays up until Shutdown.
func (t *Terminal) Close() error {
	t.closed.Store(true)
	return nil
}

// Dropped returns the number of events discarded because the loop fell
// behind.
func (t *Terminal) Dropped() uint64 {
	return t.dropped.Load()
}

// PostKey injects a key press as if it had been typed.
func (t *Terminal) PostKey(k key.Key) {
	tk, r := convertToTcellKey(k)
	_ = t.screen.PostEvent(tcell.NewEventKey(tk, r, tcell.ModNone)) // best-effort; event queue may be full
}

// Cell returns the character currently shown at (x, y).
func (t *Terminal) Cell(x, y int) TermCell {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.buffer == nil {
		return emptyCell
	}
	return t.buffer.GetFrontCell(x, y)
}

// convertStyle maps a cell color to a tcell style on a black background.
// Partially transparent colors are blended toward the background.
func convertStyle(c core.Color) tcell.Style {
	if c.A < 255 {
		c = core.Black.Blend(c, float64(c.A)/255)
	}
	fg := tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
	return tcell.StyleDefault.Foreground(fg).Background(tcell.ColorBlack)
}

// convertEvent converts tcell events to loop events.
func convertEvent(ev tcell.Event) (event.Event, bool) {
	switch e := ev.(type) {
	case *tcell.EventKey:
		if e.Key() == tcell.KeyCtrlC {
			return event.CloseRequest(), true
		}
		k := convertKey(e)
		if k == key.KeyNone {
			return event.Event{}, false
		}
		return event.KeyPress(k), true

	case *tcell.EventMouse:
		x, y := e.Position()
		return event.PointerMove(x, y), true

	case *tcell.EventResize:
		w, h := e.Size()
		return event.Resize(w, h), true

	default:
		return event.Event{}, false
	}
}

// convertKey converts a tcell key event to our Key type.
func convertKey(e *tcell.EventKey) key.Key {
	switch e.Key() {
	case tcell.KeyRune:
		return key.FromRune(e.Rune())
	case tcell.KeyEscape:
		return key.KeyEscape
	case tcell.KeyEnter:
		return key.KeyEnter
	case tcell.KeyTab:
		return key.KeyTab
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return key.KeyBackspace
	case tcell.KeyDelete:
		return key.KeyDelete
	case tcell.KeyInsert:
		return key.KeyInsert
	case tcell.KeyHome:
		return key.KeyHome
	case tcell.KeyEnd:
		return key.KeyEnd
	case tcell.KeyPgUp:
		return key.KeyPageUp
	case tcell.KeyPgDn:
		return key.KeyPageDown
	case tcell.KeyUp:
		return key.KeyUp
	case tcell.KeyDown:
		return key.KeyDown
	case tcell.KeyLeft:
		return key.KeyLeft
	case tcell.KeyRight:
		return key.KeyRight
	}
	if e.Key() >= tcell.KeyF1 && e.Key() <= tcell.KeyF12 {
		return key.KeyF1 + key.Key(e.Key()-tcell.KeyF1)
	}
	return key.KeyNone
}

// convertToTcellKey converts our Key to a tcell key and rune.
func convertToTcellKey(k key.Key) (tcell.Key, rune) {
	switch k {
	case key.KeyEscape:
		return tcell.KeyEscape, 0
	case key.KeyEnter:
		return tcell.KeyEnter, 0
	case key.KeyTab:
		return tcell.KeyTab, 0
	case key.KeyBackspace:
		return tcell.KeyBackspace2, 0
	case key.KeyDelete:
		return tcell.KeyDelete, 0
	case key.KeyInsert:
		return tcell.KeyInsert, 0
	case key.KeyHome:
		return tcell.KeyHome, 0
	case key.KeyEnd:
		return tcell.KeyEnd, 0
	case key.KeyPageUp:
		return tcell.KeyPgUp, 0
	case key.KeyPageDown:
		return tcell.KeyPgDn, 0
	case key.KeyUp:
		return tcell.KeyUp, 0
	case key.KeyDown:
		return tcell.KeyDown, 0
	case key.KeyLeft:
		return tcell.KeyLeft, 0
	case key.KeyRight:
		return tcell.KeyRight, 0
	}
	if k.IsFunctionKey() {
		return tcell.KeyF1 + tcell.Key(k-key.KeyF1), 0
	}
	if r := k.Rune(); r != 0 {
		return tcell.KeyRune, r
	}
	return tcell.KeyRune, 0
}
