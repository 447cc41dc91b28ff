// Package demo holds the built-in applications selectable from the
// command line.
package demo

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dshills/glyphgrid/internal/app"
	"github.com/dshills/glyphgrid/internal/input"
	"github.com/dshills/glyphgrid/internal/input/key"
	"github.com/dshills/glyphgrid/internal/renderer"
	"github.com/dshills/glyphgrid/internal/renderer/core"
)

// ErrUnknownDemo is returned by New for an unregistered name.
var ErrUnknownDemo = errors.New("unknown demo")

// Greeting is the text drawn by the hello demo.
const Greeting = "Hello world!"

var registry = map[string]func() app.Application{
	"empty":    func() app.Application { return Empty{} },
	"hello":    func() app.Application { return Hello{} },
	"keyboard": func() app.Application { return &Keyboard{} },
	"mouse":    func() app.Application { return &Mouse{} },
}

// Names returns the registered demo names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// New returns a fresh instance of the named demo.
func New(name string) (app.Application, error) {
	ctor, ok := registry[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w %q (have %s)", ErrUnknownDemo, name, strings.Join(Names(), ", "))
	}
	return ctor(), nil
}

// Empty draws nothing.
type Empty struct{}

func (Empty) Update(input.Snapshot) {}
func (Empty) Draw(*renderer.Grid)   {}

// Hello draws Greeting centered on the grid.
type Hello struct{}

func (Hello) Update(input.Snapshot) {}

func (Hello) Draw(g *renderer.Grid) {
	col := (g.Width() - len(Greeting)) / 2
	g.PutStr(col, g.Height()/2, Greeting, core.White)
}

// Keyboard appends '@' to a line of text on every frame in which Space is
// pressed.
type Keyboard struct {
	text []rune
}

// Text returns the accumulated text.
func (k *Keyboard) Text() string {
	return string(k.text)
}

func (k *Keyboard) Update(in input.Snapshot) {
	if in.IsPressed(key.KeySpace) {
		k.text = append(k.text, '@')
	}
}

func (k *Keyboard) Draw(g *renderer.Grid) {
	g.PutStr(0, 0, string(k.text), core.White)
}

// Mouse draws '@' at the pointer cell.
type Mouse struct {
	col, row int
}

func (m *Mouse) Update(in input.Snapshot) {
	m.col, m.row = in.MousePosition()
}

func (m *Mouse) Draw(g *renderer.Grid) {
	g.PutChar(m.col, m.row, '@', core.White)
}
