package lua

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// DefaultCallTimeout bounds a single script callback.
const DefaultCallTimeout = time.Second

// safeLibs are opened in every state. None of them reach files, processes
// or other modules.
var safeLibs = []struct {
	name string
	open lua.LGFunction
}{
	{lua.BaseLibName, lua.OpenBase},
	{lua.TabLibName, lua.OpenTable},
	{lua.StringLibName, lua.OpenString},
	{lua.MathLibName, lua.OpenMath},
}

// State is a sandboxed gopher-lua state. LState is not goroutine-safe, so
// a State belongs to the frame loop goroutine.
type State struct {
	L *lua.LState

	timeout time.Duration
	out     io.Writer
	sandbox *Sandbox
	closed  bool
}

// StateOption configures a State.
type StateOption func(*State)

// WithCallTimeout limits each DoString, DoFile and Call. Zero means no
// limit.
func WithCallTimeout(d time.Duration) StateOption {
	return func(s *State) { s.timeout = d }
}

// WithOutput sends the script's print output to w.
func WithOutput(w io.Writer) StateOption {
	return func(s *State) { s.out = w }
}

// NewState opens a state with only the base, table, string and math
// libraries and installs the sandbox.
func NewState(opts ...StateOption) *State {
	s := &State{timeout: DefaultCallTimeout, out: io.Discard}
	for _, opt := range opts {
		opt(s)
	}

	s.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, lib := range safeLibs {
		s.L.Push(s.L.NewFunction(lib.open))
		s.L.Push(lua.LString(lib.name))
		s.L.Call(1, 0)
	}
	s.sandbox = NewSandbox(s.L, s.out)
	s.sandbox.Install()
	return s
}

// DoFile runs a script file.
func (s *State) DoFile(path string) error {
	return s.guarded(func() error { return s.L.DoFile(path) })
}

// DoString runs a chunk of source.
func (s *State) DoString(src string) error {
	return s.guarded(func() error { return s.L.DoString(src) })
}

// HasFunc reports whether global name is a function.
func (s *State) HasFunc(name string) bool {
	return !s.closed && s.L.GetGlobal(name).Type() == lua.LTFunction
}

// Call invokes global function name and returns every result, or an empty
// non-nil slice when there are none. The stack is left as it was found.
func (s *State) Call(name string, args ...lua.LValue) ([]lua.LValue, error) {
	if s.closed {
		return nil, ErrStateClosed
	}
	fn := s.L.GetGlobal(name)
	switch fn.Type() {
	case lua.LTFunction:
	case lua.LTNil:
		return nil, fmt.Errorf("%w: %s", ErrNoFunction, name)
	default:
		return nil, fmt.Errorf("%q is a %s, not a function", name, fn.Type())
	}

	base := s.L.GetTop()
	err := s.guarded(func() error {
		s.L.Push(fn)
		for _, a := range args {
			s.L.Push(a)
		}
		return s.L.PCall(len(args), lua.MultRet, nil)
	})
	if err != nil {
		s.L.SetTop(base)
		return nil, err
	}

	results := make([]lua.LValue, 0, s.L.GetTop()-base)
	for i := base + 1; i <= s.L.GetTop(); i++ {
		results = append(results, s.L.Get(i))
	}
	s.L.SetTop(base)
	return results, nil
}

// guarded runs fn with the call deadline attached and turns Go panics
// raised inside the VM into errors.
func (s *State) guarded(fn func() error) (err error) {
	if s.closed {
		return ErrStateClosed
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	if s.timeout <= 0 {
		return fn()
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	s.L.SetContext(ctx)
	defer s.L.RemoveContext()

	err = fn()
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		err = fmt.Errorf("%w after %s: %v", ErrExecutionTimeout, s.timeout, err)
	}
	return err
}

// GetGlobal returns a global, LNil once closed.
func (s *State) GetGlobal(name string) lua.LValue {
	if s.closed {
		return lua.LNil
	}
	return s.L.GetGlobal(name)
}

// SetGlobal sets a global. It does nothing once closed.
func (s *State) SetGlobal(name string, v lua.LValue) {
	if !s.closed {
		s.L.SetGlobal(name, v)
	}
}

// RegisterModule exposes funcs as fields of global table name.
func (s *State) RegisterModule(name string, funcs map[string]lua.LGFunction) {
	if !s.closed {
		s.L.SetGlobal(name, s.L.SetFuncs(s.L.NewTable(), funcs))
	}
}

func (s *State) IsClosed() bool { return s.closed }

// Close releases the state. Closing twice is allowed.
func (s *State) Close() {
	if !s.closed {
		s.L.Close()
		s.closed = true
	}
}
