package spec

import (
	"errors"
	"fmt"
	"strings"
)

// StructuralError reports a malformed trace. It is fatal: a builder that
// hit one never produces a tree, so nothing from the trace is executed.
type StructuralError struct {
	// Code identifies the error category.
	Code StructuralErrorCode

	// Message is a human-readable description.
	Message string

	// Path is the chain of open group descriptions when the error occurred.
	Path []string
}

// StructuralErrorCode categorizes structural errors.
type StructuralErrorCode string

const (
	// ErrCodeUnbalancedGroups indicates EndGroup without a matching BeginGroup.
	ErrCodeUnbalancedGroups StructuralErrorCode = "UNBALANCED_GROUPS"

	// ErrCodeNoOpenGroup indicates a hook or test registered outside any group.
	ErrCodeNoOpenGroup StructuralErrorCode = "NO_OPEN_GROUP"

	// ErrCodeUnclosedGroup indicates the trace finished with groups still open.
	ErrCodeUnclosedGroup StructuralErrorCode = "UNCLOSED_GROUP"

	// ErrCodeMultipleRoots indicates a second top-level group.
	ErrCodeMultipleRoots StructuralErrorCode = "MULTIPLE_ROOTS"

	// ErrCodeEmptyTrace indicates the trace declared no group at all.
	ErrCodeEmptyTrace StructuralErrorCode = "EMPTY_TRACE"

	// ErrCodeTracePanic indicates the trace function itself panicked.
	ErrCodeTracePanic StructuralErrorCode = "TRACE_PANIC"
)

// Error implements the error interface.
func (e *StructuralError) Error() string {
	if len(e.Path) > 0 {
		return fmt.Sprintf("%s: %s (in %q)", e.Code, e.Message, strings.Join(e.Path, " / "))
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsStructuralError returns true if err is or wraps a StructuralError.
func IsStructuralError(err error) bool {
	var se *StructuralError
	return errors.As(err, &se)
}

// ExpectationError reports that an expected-failure test's outcome did not
// meet its Expectation.
type ExpectationError struct {
	Message string

	// Actual is the error the body produced, nil if it produced none.
	Actual error
}

func (e *ExpectationError) Error() string {
	return e.Message
}
