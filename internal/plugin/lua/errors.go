package lua

import (
	"errors"
	"fmt"
)

// Errors for Lua script operations.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrExecutionTimeout is returned when a call exceeds its time limit.
	ErrExecutionTimeout = errors.New("lua execution timeout")

	// ErrNoFunction is returned when calling an undefined global function.
	ErrNoFunction = errors.New("lua function not defined")

	// ErrNoDraw is returned when a script does not define draw.
	ErrNoDraw = errors.New("script does not define draw()")
)

// ScriptError reports a failure inside a script callback.
type ScriptError struct {
	Path string // Script file
	Func string // Callback being run ("load" for the top-level chunk)
	Err  error
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Path, e.Func, e.Err)
}

func (e *ScriptError) Unwrap() error {
	return e.Err
}
