package lua

import (
	"fmt"
	"io"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// Sandbox restricts a Lua state to computation and the registered grid
// API.
type Sandbox struct {
	L      *lua.LState
	output io.Writer
}

// NewSandbox creates a sandbox whose print writes to output.
func NewSandbox(L *lua.LState, output io.Writer) *Sandbox {
	if output == nil {
		output = io.Discard
	}
	return &Sandbox{L: L, output: output}
}

// dangerousFuncs load code from outside the script.
var dangerousFuncs = []string{
	"dofile",
	"loadfile",
	"load",
	"loadstring",
	"require",
	"module",
}

// Install removes code-loading functions and replaces print.
func (s *Sandbox) Install() {
	for _, name := range dangerousFuncs {
		s.L.SetGlobal(name, lua.LNil)
	}
	s.L.SetGlobal("print", s.L.NewFunction(s.print))
}

// print writes its arguments tab-separated, like the builtin.
func (s *Sandbox) print(L *lua.LState) int {
	n := L.GetTop()
	parts := make([]string, n)
	for i := 1; i <= n; i++ {
		parts[i-1] = L.ToStringMeta(L.Get(i)).String()
	}
	fmt.Fprintln(s.output, strings.Join(parts, "\t"))
	return 0
}
