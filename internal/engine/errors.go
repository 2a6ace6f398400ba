package engine

import (
	"errors"
	"fmt"

	"github.com/cybernetics/specnaz/internal/spec"
)

// HookError reports a failed hook together with where it was registered.
type HookError struct {
	// Group is the description of the group that registered the hook.
	Group string

	// Phase is the phase the hook was registered for.
	Phase spec.Phase

	// Err is the error the hook returned or the panic it raised.
	Err error
}

// Error implements the error interface.
func (e *HookError) Error() string {
	return fmt.Sprintf("%s hook in %q failed: %v", e.Phase, e.Group, e.Err)
}

// Unwrap returns the underlying hook failure.
func (e *HookError) Unwrap() error {
	return e.Err
}

// PanicError wraps a recovered panic whose value is not an error.
// A panic with an error value (such as runtime.Error from an integer
// division by zero) is reported as that error directly.
type PanicError struct {
	Value any
	Stack []byte
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// IsHookError returns true if err is or wraps a HookError.
// Uses errors.As to handle wrapped errors.
func IsHookError(err error) bool {
	var he *HookError
	return errors.As(err, &he)
}

// HookPhase returns the phase of the hook that caused err, if any.
func HookPhase(err error) (spec.Phase, bool) {
	var he *HookError
	if errors.As(err, &he) {
		return he.Phase, true
	}
	return 0, false
}
