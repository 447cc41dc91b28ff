package app

import (
	"errors"
	"strings"
	"testing"
)

func TestSetupError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *SetupError
		expected string
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
		{
			name:     "stage only",
			err:      &SetupError{Stage: StageFont},
			expected: "setup font failed",
		},
		{
			name:     "with cause",
			err:      NewSetupError(StageTexture, errors.New("released")),
			expected: "setup texture: released",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.err.Error()
			if result != tt.expected {
				t.Errorf("Error() = '%s', expected '%s'", result, tt.expected)
			}
		})
	}
}

func TestSetupError_Is(t *testing.T) {
	cause := errors.New("bad png")
	err := NewSetupError(StageFont, cause)

	if !errors.Is(err, ErrSetup) {
		t.Error("expected errors.Is(err, ErrSetup)")
	}
	if !errors.Is(err, cause) {
		t.Error("expected errors.Is(err, cause)")
	}
	if errors.Is(err, ErrNilApplication) {
		t.Error("unexpected match with unrelated sentinel")
	}

	var setupErr *SetupError
	if !errors.As(err, &setupErr) {
		t.Fatal("expected errors.As to find *SetupError")
	}
	if setupErr.Stage != StageFont {
		t.Errorf("expected stage 'font', got '%s'", setupErr.Stage)
	}

	var nilErr *SetupError
	if nilErr.Is(ErrSetup) {
		t.Error("nil SetupError should not match")
	}
	if nilErr.Unwrap() != nil {
		t.Error("nil SetupError should unwrap to nil")
	}
}

func TestFrameError(t *testing.T) {
	cause := errors.New("device lost")
	err := &FrameError{Frame: 3, Phase: StatePresent, Err: cause}

	if err.Error() != "frame 3 present: device lost" {
		t.Errorf("unexpected message: %s", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("expected FrameError to unwrap to its cause")
	}
}

func TestRecoveredPanicError(t *testing.T) {
	err := NewRecoveredPanicError("boom", "")
	if err.Error() != "panic: boom" {
		t.Errorf("unexpected message: %s", err.Error())
	}

	err = NewRecoveredPanicError("boom", "goroutine 1")
	if !strings.Contains(err.Error(), "goroutine 1") {
		t.Errorf("expected stack in message, got: %s", err.Error())
	}
}

func TestErrorList(t *testing.T) {
	var list ErrorList

	if list.HasErrors() {
		t.Error("expected empty list")
	}
	if list.AsError() != nil {
		t.Error("expected nil AsError for empty list")
	}

	first := errors.New("first")
	list.Add(first)
	list.Add(nil)

	if list.Len() != 1 {
		t.Errorf("expected 1 error, got %d", list.Len())
	}
	if list.Error() != "first" {
		t.Errorf("expected 'first', got '%s'", list.Error())
	}

	list.Add(NewSetupError(StageGrid, errors.New("zero width")))
	if list.Error() != "2 errors: first: first" {
		t.Errorf("unexpected message: %s", list.Error())
	}

	err := list.AsError()
	if !errors.Is(err, first) {
		t.Error("expected errors.Is to find first error")
	}
	if !errors.Is(err, ErrSetup) {
		t.Error("expected errors.Is to find the setup error")
	}
}
