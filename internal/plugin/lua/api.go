package lua

import (
	"fmt"
	"unicode/utf8"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/glyphgrid/internal/input"
	"github.com/dshills/glyphgrid/internal/input/key"
	"github.com/dshills/glyphgrid/internal/renderer"
	"github.com/dshills/glyphgrid/internal/renderer/core"
)

// api binds the grid and input snapshot of the current frame to the
// script globals grid, input and color.
//
//	grid.put_char(col, row, ch [, color])   ch is a string or code point
//	grid.put_str(col, row, s [, color])
//	grid.width(), grid.height()
//	input.is_pressed(name)                   key names as in key.FromName
//	input.mouse()                            returns col, row
//	input.pressed()                          list of pressed key names
//	color.rgb(r, g, b [, a])                 returns "#RRGGBBAA"
//	color.blend(from, to, t)
//
// Colors are hex strings; the default is white.
type api struct {
	grid  *renderer.Grid
	input input.Snapshot
}

func (a *api) register(s *State) {
	s.RegisterModule("grid", map[string]lua.LGFunction{
		"put_char": a.putChar,
		"put_str":  a.putStr,
		"width":    a.width,
		"height":   a.height,
	})
	s.RegisterModule("input", map[string]lua.LGFunction{
		"is_pressed": a.isPressed,
		"mouse":      a.mouse,
		"pressed":    a.pressed,
	})
	s.RegisterModule("color", map[string]lua.LGFunction{
		"rgb":   colorRGB,
		"blend": colorBlend,
	})
}

func (a *api) checkGrid(L *lua.LState) *renderer.Grid {
	if a.grid == nil {
		L.RaiseError("grid is not available before the first draw")
	}
	return a.grid
}

func (a *api) putChar(L *lua.LState) int {
	g := a.checkGrid(L)
	col, row := L.CheckInt(1), L.CheckInt(2)

	var r rune
	switch v := L.Get(3).(type) {
	case lua.LNumber:
		r = rune(v)
	case lua.LString:
		r, _ = utf8.DecodeRuneInString(string(v))
	default:
		L.ArgError(3, "string or code point expected")
	}

	g.PutChar(col, row, r, optColor(L, 4))
	return 0
}

func (a *api) putStr(L *lua.LState) int {
	g := a.checkGrid(L)
	g.PutStr(L.CheckInt(1), L.CheckInt(2), L.CheckString(3), optColor(L, 4))
	return 0
}

func (a *api) width(L *lua.LState) int {
	L.Push(lua.LNumber(a.checkGrid(L).Width()))
	return 1
}

func (a *api) height(L *lua.LState) int {
	L.Push(lua.LNumber(a.checkGrid(L).Height()))
	return 1
}

func (a *api) isPressed(L *lua.LState) int {
	name := L.CheckString(1)
	k := key.FromName(name)
	if k == key.KeyNone {
		L.ArgError(1, "unknown key "+name)
	}
	L.Push(lua.LBool(a.input != nil && a.input.IsPressed(k)))
	return 1
}

func (a *api) mouse(L *lua.LState) int {
	col, row := 0, 0
	if a.input != nil {
		col, row = a.input.MousePosition()
	}
	L.Push(lua.LNumber(col))
	L.Push(lua.LNumber(row))
	return 2
}

func (a *api) pressed(L *lua.LState) int {
	t := L.NewTable()
	if a.input != nil {
		for _, k := range a.input.PressedKeys() {
			t.Append(lua.LString(k.String()))
		}
	}
	L.Push(t)
	return 1
}

func colorRGB(L *lua.LState) int {
	c := core.RGBA(
		checkChannel(L, 1),
		checkChannel(L, 2),
		checkChannel(L, 3),
		optChannel(L, 4, 255),
	)
	L.Push(lua.LString(c.String()))
	return 1
}

// checkChannel reads a color channel, raising an argument error outside
// 0..255.
func checkChannel(L *lua.LState, n int) uint8 {
	v := L.CheckInt(n)
	if v < 0 || v > 255 {
		L.ArgError(n, fmt.Sprintf("channel %d out of range 0..255", v))
	}
	return uint8(v)
}

func optChannel(L *lua.LState, n int, def uint8) uint8 {
	if L.Get(n) == lua.LNil {
		return def
	}
	return checkChannel(L, n)
}

func colorBlend(L *lua.LState) int {
	from := checkColor(L, 1)
	to := checkColor(L, 2)
	t := float64(L.CheckNumber(3))
	L.Push(lua.LString(from.Blend(to, t).String()))
	return 1
}

func checkColor(L *lua.LState, n int) core.Color {
	c, err := core.ParseColor(L.CheckString(n))
	if err != nil {
		L.ArgError(n, err.Error())
	}
	return c
}

func optColor(L *lua.LState, n int) core.Color {
	if L.Get(n) == lua.LNil {
		return core.White
	}
	return checkColor(L, n)
}
