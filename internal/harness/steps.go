package harness

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/cybernetics/specnaz/internal/spec"
)

// Step ops.
const (
	OpSet    = "set"    // var = value
	OpAdd    = "add"    // var += value
	OpDiv    = "div"    // var /= value; a zero value raises *ArithmeticError
	OpExpect = "expect" // fails with *AssertionError unless var == value
	OpFail   = "fail"   // fails with *StepError
)

// Step is one operation on the scenario's variables.
type Step struct {
	Op      string `yaml:"op" json:"op"`
	Var     string `yaml:"var,omitempty" json:"var,omitempty"`
	Value   int    `yaml:"value,omitempty" json:"value,omitempty"`
	Message string `yaml:"message,omitempty" json:"message,omitempty"`

	// Cause, for fail, makes the StepError wrap an error with this message.
	Cause string `yaml:"cause,omitempty" json:"cause,omitempty"`
}

// ArithmeticError is raised by a division by zero.
type ArithmeticError struct {
	Message string
}

func (e *ArithmeticError) Error() string {
	return e.Message
}

// AssertionError is raised by an expect step that does not hold.
type AssertionError struct {
	Var  string
	Want int
	Got  int
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("expected %s == %d, got %d", e.Var, e.Want, e.Got)
}

// StepError is raised by a fail step.
type StepError struct {
	Message string
	Cause   error
}

func (e *StepError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *StepError) Unwrap() error {
	return e.Cause
}

// Throws kinds and the error types they match.
var throwsKinds = map[string]reflect.Type{
	"division_by_zero": reflect.TypeOf((**ArithmeticError)(nil)).Elem(),
	"assertion":        reflect.TypeOf((**AssertionError)(nil)).Elem(),
	"failure":          reflect.TypeOf((**StepError)(nil)).Elem(),
}

func expectation(t *ThrowsDoc) spec.Expectation {
	e := spec.ThrowsKind(throwsKinds[t.Kind])
	if t.Message != "" {
		e = e.WithMessage(t.Message)
	}
	if t.NoCause {
		e = e.WithoutCause()
	}
	return e
}

// apply executes steps in order against vars and stops at the first error.
func apply(steps []Step, vars map[string]int) error {
	for _, step := range steps {
		switch step.Op {
		case OpSet:
			vars[step.Var] = step.Value
		case OpAdd:
			vars[step.Var] += step.Value
		case OpDiv:
			if step.Value == 0 {
				return &ArithmeticError{Message: "/ by zero"}
			}
			vars[step.Var] /= step.Value
		case OpExpect:
			if got := vars[step.Var]; got != step.Value {
				return &AssertionError{Var: step.Var, Want: step.Value, Got: got}
			}
		case OpFail:
			se := &StepError{Message: step.Message}
			if step.Cause != "" {
				se.Cause = errors.New(step.Cause)
			}
			return se
		default:
			return fmt.Errorf("unknown op %q", step.Op)
		}
	}
	return nil
}

func parseMode(s string) (spec.Mode, error) {
	switch s {
	case "", "default":
		return spec.ModeDefault, nil
	case "focused":
		return spec.ModeFocused, nil
	case "ignored":
		return spec.ModeIgnored, nil
	default:
		return spec.ModeDefault, fmt.Errorf("unknown mode %q (want focused or ignored)", s)
	}
}

// Trace returns a trace that declares the scenario. Every replay starts
// from a fresh copy of Vars, so replays are independent.
func (s *Scenario) Trace() spec.Trace {
	return func(b spec.GroupBuilder) {
		vars := make(map[string]int, len(s.Vars))
		for k, v := range s.Vars {
			vars[k] = v
		}
		declareGroup(b, s.Root(), vars)
	}
}

func declareGroup(b spec.GroupBuilder, g GroupDoc, vars map[string]int) {
	mode, _ := parseMode(g.Mode)
	b.BeginGroup(g.Describe, mode)

	hooks := []struct {
		phase spec.Phase
		steps []Step
	}{
		{spec.BeforeAll, g.BeforeAll},
		{spec.BeforeEach, g.BeforeEach},
		{spec.AfterEach, g.AfterEach},
		{spec.AfterAll, g.AfterAll},
	}
	// Each entry is its own hook, so a failing entry never stops the
	// entries registered after it.
	for _, h := range hooks {
		for _, step := range h.steps {
			steps := []Step{step}
			b.RegisterHook(h.phase, func() error { return apply(steps, vars) })
		}
	}

	for _, tc := range g.Tests {
		mode, _ := parseMode(tc.Mode)
		steps := tc.Steps
		body := func() error { return apply(steps, vars) }
		if tc.Throws != nil {
			b.RegisterExpectedFailureTest(tc.Should, mode, expectation(tc.Throws), body)
			continue
		}
		b.RegisterTest(tc.Should, mode, body)
	}

	for _, child := range g.Groups {
		declareGroup(b, child, vars)
	}
	b.EndGroup()
}
