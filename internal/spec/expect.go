package spec

import (
	"fmt"
	"reflect"
)

// Expectation describes the error an expected-failure test must produce.
//
// Expectation is an immutable value: WithMessage and WithoutCause return
// modified copies, so a partially built expectation can be shared.
//
//	spec.Throws[*ArithmeticError]().WithMessage("/ by zero").WithoutCause()
type Expectation struct {
	kind       reflect.Type
	message    string
	hasMessage bool
	noCause    bool
}

// Throws expects an error whose dynamic type is exactly E.
// E should be a concrete type; an interface type never matches exactly.
func Throws[E error]() Expectation {
	return Expectation{kind: reflect.TypeOf((*E)(nil)).Elem()}
}

// ThrowsKind expects an error whose dynamic type is exactly kind.
func ThrowsKind(kind reflect.Type) Expectation {
	return Expectation{kind: kind}
}

// WithMessage returns a copy that also requires err.Error() == message.
func (e Expectation) WithMessage(message string) Expectation {
	e.message = message
	e.hasMessage = true
	return e
}

// WithoutCause returns a copy that also requires the error to wrap nothing.
func (e Expectation) WithoutCause() Expectation {
	e.noCause = true
	return e
}

// Kind returns the expected dynamic error type.
func (e Expectation) Kind() reflect.Type {
	return e.kind
}

// Message returns the expected message and whether one was set.
func (e Expectation) Message() (string, bool) {
	return e.message, e.hasMessage
}

// RequiresNoCause reports whether a wrapped cause fails the expectation.
func (e Expectation) RequiresNoCause() bool {
	return e.noCause
}

// Check evaluates err, the outcome of an expected-failure body, against e.
// It returns nil when every requirement holds and an *ExpectationError
// describing the first violated requirement otherwise.
func (e Expectation) Check(err error) error {
	if err == nil {
		return &ExpectationError{Message: fmt.Sprintf("expected %s, nothing was thrown", kindName(e.kind))}
	}
	if actual := reflect.TypeOf(err); actual != e.kind {
		return &ExpectationError{
			Message: fmt.Sprintf("expected %s, got %s", kindName(e.kind), kindName(actual)),
			Actual:  err,
		}
	}
	if e.hasMessage && err.Error() != e.message {
		return &ExpectationError{
			Message: fmt.Sprintf("message mismatch: expected %q, got %q", e.message, err.Error()),
			Actual:  err,
		}
	}
	if e.noCause {
		if cause := CauseOf(err); cause != nil {
			return &ExpectationError{
				Message: fmt.Sprintf("expected no cause, found %v", cause),
				Actual:  err,
			}
		}
	}
	return nil
}

// CauseOf returns the first error wrapped by err, or nil.
// Both single (Unwrap() error) and joined (Unwrap() []error) wrapping count.
func CauseOf(err error) error {
	switch u := err.(type) {
	case interface{ Unwrap() error }:
		return u.Unwrap()
	case interface{ Unwrap() []error }:
		for _, cause := range u.Unwrap() {
			if cause != nil {
				return cause
			}
		}
	}
	return nil
}

func kindName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
