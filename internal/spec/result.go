package spec

import "fmt"

// Status is the outcome category of a test.
type Status int

const (
	StatusPassed Status = iota
	StatusFailed
	StatusSkipped
)

func (s Status) String() string {
	switch s {
	case StatusPassed:
		return "passed"
	case StatusFailed:
		return "failed"
	case StatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Result is the outcome of one test in one run.
// Err is set only for failures, Reason only for skips.
type Result struct {
	Status Status
	Err    error
	Reason string
}

// Passed returns a passing result.
func Passed() Result {
	return Result{Status: StatusPassed}
}

// Failed returns a failing result caused by err.
func Failed(err error) Result {
	return Result{Status: StatusFailed, Err: err}
}

// Skipped returns a result for a test that was not invoked.
func Skipped(reason string) Result {
	return Result{Status: StatusSkipped, Reason: reason}
}

// Message returns the human-readable detail of the result: the failure
// cause, the skip reason, or the empty string for a pass.
func (r Result) Message() string {
	switch r.Status {
	case StatusFailed:
		if r.Err == nil {
			return ""
		}
		return r.Err.Error()
	case StatusSkipped:
		return r.Reason
	default:
		return ""
	}
}

func (r Result) String() string {
	if msg := r.Message(); msg != "" {
		return fmt.Sprintf("%s(%s)", r.Status, msg)
	}
	return r.Status.String()
}

// Skip reasons reported by the engine.
const (
	ReasonIgnored    = "ignored"
	ReasonNotFocused = "not focused"
)
