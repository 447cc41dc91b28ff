// Package app runs a grid application: it wires the font, atlas, grid,
// backend and event sources together and drives the frame loop.
package app

import (
	"errors"
	"fmt"
)

// Application errors.
var (
	// ErrSetup matches every error returned from Run before the frame loop
	// started.
	ErrSetup = errors.New("setup failed")

	// ErrNilApplication indicates Run was given no application.
	ErrNilApplication = errors.New("nil application")
)

// Setup stages reported in SetupError.Stage.
const (
	StageConfig  = "config"
	StageLog     = "log"
	StageAtlas   = "atlas"
	StageFont    = "font"
	StageTexture = "texture"
	StageGrid    = "grid"
	StageBackend = "backend"
)

// SetupError reports a failure while preparing a run. It matches ErrSetup
// as well as the wrapped cause.
type SetupError struct {
	Stage string // One of the Stage constants
	Err   error  // Underlying error
}

// NewSetupError creates a new SetupError.
func NewSetupError(stage string, err error) *SetupError {
	return &SetupError{Stage: stage, Err: err}
}

func (e *SetupError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("setup %s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("setup %s failed", e.Stage)
}

func (e *SetupError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is implements errors.Is for SetupError.
// Matches ErrSetup, the wrapper itself and the wrapped error.
func (e *SetupError) Is(target error) bool {
	if e == nil {
		return false
	}
	if target == ErrSetup {
		return true
	}
	if t, ok := target.(*SetupError); ok {
		return e == t
	}
	return errors.Is(e.Err, target)
}

// FrameError reports a failure inside the frame loop.
type FrameError struct {
	Frame uint64 // Frame number, starting at 1
	Phase State  // Phase that failed
	Err   error  // Underlying error
}

func (e *FrameError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("frame %d %s: %v", e.Frame, e.Phase, e.Err)
}

func (e *FrameError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// RecoveredPanicError wraps a panic raised by an application callback.
// The Error() text includes the stack trace when one was captured.
type RecoveredPanicError struct {
	Value any
	Stack string
}

// NewRecoveredPanicError creates a new RecoveredPanicError.
func NewRecoveredPanicError(value any, stack string) *RecoveredPanicError {
	return &RecoveredPanicError{
		Value: value,
		Stack: stack,
	}
}

func (e *RecoveredPanicError) Error() string {
	if e == nil {
		return ""
	}
	if e.Stack != "" {
		return fmt.Sprintf("panic: %v\n%s", e.Value, e.Stack)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// ErrorList collects multiple errors.
// ErrorList is not safe for concurrent use.
type ErrorList struct {
	errors []error
}

// Add adds an error to the list. Nil errors are ignored.
func (e *ErrorList) Add(err error) {
	if err != nil {
		e.errors = append(e.errors, err)
	}
}

// HasErrors returns true if there are any errors.
func (e *ErrorList) HasErrors() bool {
	return len(e.errors) > 0
}

// Len returns the number of errors.
func (e *ErrorList) Len() int {
	return len(e.errors)
}

// Error returns a combined error message.
func (e *ErrorList) Error() string {
	if e == nil || len(e.errors) == 0 {
		return ""
	}
	if len(e.errors) == 1 {
		return e.errors[0].Error()
	}
	return fmt.Sprintf("%d errors: first: %v", len(e.errors), e.errors[0])
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (e *ErrorList) Unwrap() []error {
	if e == nil {
		return nil
	}
	return e.errors
}

// AsError returns nil if there are no errors, otherwise returns the ErrorList.
func (e *ErrorList) AsError() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}
