package spec

import "fmt"

// GroupBuilder is the capability a Trace declares a spec through.
//
// Implementations must never invoke the actions and bodies handed to
// them while building; they may only store or discard them.
type GroupBuilder interface {
	// BeginGroup opens a nested group. Every BeginGroup needs a later EndGroup.
	BeginGroup(description string, mode Mode)

	// EndGroup closes the innermost open group.
	EndGroup()

	// RegisterHook appends action to the current group's list for phase.
	RegisterHook(phase Phase, action Action)

	// RegisterTest appends a plain test to the current group.
	RegisterTest(description string, mode Mode, body Body)

	// RegisterExpectedFailureTest appends a test that passes only when body
	// fails in the way expect describes.
	RegisterExpectedFailureTest(description string, mode Mode, expect Expectation, body Body)
}

// Trace is a declarative spec: one straight-line pass of calls into a
// GroupBuilder. A Trace must be safe to replay any number of times against
// fresh builders and must declare exactly one top-level group.
type Trace func(b GroupBuilder)

// Replay runs trace against b. A panic raised by the trace itself is
// returned as a StructuralError with ErrCodeTracePanic.
func Replay(trace Trace, b GroupBuilder) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &StructuralError{
				Code:    ErrCodeTracePanic,
				Message: fmt.Sprintf("trace panicked: %v", r),
			}
		}
	}()
	trace(b)
	return nil
}

// Guard tracks group nesting for a builder and records the first
// structural error. Builders consult it before mutating their own state
// and ignore the call when it returns false.
type Guard struct {
	path       []string
	rootClosed bool
	err        error
}

// Begin validates opening a group named description.
func (g *Guard) Begin(description string) bool {
	if g.err != nil {
		return false
	}
	if g.rootClosed {
		g.fail(ErrCodeMultipleRoots, fmt.Sprintf("group %q declared after the top-level group was closed", description))
		return false
	}
	g.path = append(g.path, description)
	return true
}

// End validates closing the innermost group.
func (g *Guard) End() bool {
	if g.err != nil {
		return false
	}
	if len(g.path) == 0 {
		g.fail(ErrCodeUnbalancedGroups, "EndGroup without matching BeginGroup")
		return false
	}
	g.path = g.path[:len(g.path)-1]
	if len(g.path) == 0 {
		g.rootClosed = true
	}
	return true
}

// Register validates registering what (a hook or test) in the current group.
func (g *Guard) Register(what string) bool {
	if g.err != nil {
		return false
	}
	if len(g.path) == 0 {
		g.fail(ErrCodeNoOpenGroup, fmt.Sprintf("%s registered outside of any group", what))
		return false
	}
	return true
}

// Depth returns the number of currently open groups.
func (g *Guard) Depth() int {
	return len(g.path)
}

// Finish validates the end of a replay and returns the first structural
// error, if any.
func (g *Guard) Finish() error {
	if g.err != nil {
		return g.err
	}
	if len(g.path) > 0 {
		g.fail(ErrCodeUnclosedGroup, fmt.Sprintf("%d group(s) never closed", len(g.path)))
		return g.err
	}
	if !g.rootClosed {
		g.fail(ErrCodeEmptyTrace, "trace declared no group")
		return g.err
	}
	return nil
}

// Err returns the recorded structural error, or nil.
func (g *Guard) Err() error {
	return g.err
}

func (g *Guard) fail(code StructuralErrorCode, message string) {
	path := make([]string, len(g.path))
	copy(path, g.path)
	g.err = &StructuralError{Code: code, Message: message, Path: path}
}
