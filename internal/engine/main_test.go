package engine

import (
	"fmt"
	"testing"

	"go.uber.org/goleak"

	"github.com/cybernetics/specnaz/internal/spec"
)

// TestMain fails the package if any test leaves a goroutine behind; the
// executor is strictly single-threaded.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// recorder is a test Notifier that renders each event as one line.
type recorder struct {
	events  []string
	results map[string]spec.Result
}

func newRecorder() *recorder {
	return &recorder{results: make(map[string]spec.Result)}
}

func (r *recorder) GroupEntered(description string) {
	r.events = append(r.events, "enter "+description)
}

func (r *recorder) GroupExited(description string) {
	r.events = append(r.events, "exit "+description)
}

func (r *recorder) TestStarted(description string) {
	r.events = append(r.events, "start "+description)
}

func (r *recorder) TestFinished(description string, result spec.Result) {
	r.results[description] = result
	r.events = append(r.events, fmt.Sprintf("finish %s %s", description, result.Status))
}

func (r *recorder) HookFailed(group string, phase spec.Phase, err error) {
	r.events = append(r.events, fmt.Sprintf("hook %s %s: %v", group, phase, err))
}

// journal collects the order in which hooks and bodies ran.
type journal struct {
	entries []string
}

func (j *journal) step(name string) func() error {
	return func() error {
		j.entries = append(j.entries, name)
		return nil
	}
}

func (j *journal) fail(name string, err error) func() error {
	return func() error {
		j.entries = append(j.entries, name)
		return err
	}
}

func execute(t *testing.T, trace spec.Trace) (*recorder, Summary) {
	t.Helper()
	rec := newRecorder()
	exec := New(WithRunIDGenerator(NewFixedGenerator("run-test")))
	summary, err := exec.Execute(trace, rec)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	return rec, summary
}
