package notify

import (
	"github.com/cybernetics/specnaz/internal/engine"
	"github.com/cybernetics/specnaz/internal/spec"
)

// TestRecord is the final result of one test, in finishing order.
type TestRecord struct {
	Seq     int    `json:"seq"`
	Path    string `json:"path"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Recorder keeps every event of the most recent run in memory.
type Recorder struct {
	t       tracker
	events  []Event
	results []TestRecord
	summary engine.Summary
}

var (
	_ engine.Notifier    = (*Recorder)(nil)
	_ engine.RunObserver = (*Recorder)(nil)
)

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Events returns the recorded events in order.
func (r *Recorder) Events() []Event {
	return r.events
}

// Results returns one record per finished test.
func (r *Recorder) Results() []TestRecord {
	return r.results
}

// Summary returns the summary delivered at the end of the run.
func (r *Recorder) Summary() engine.Summary {
	return r.summary
}

func (r *Recorder) RunStarted(runID, root string, total int) {
	r.events = nil
	r.results = nil
	r.summary = engine.Summary{}
	r.events = append(r.events, r.t.runStarted(runID, root, total))
}

func (r *Recorder) GroupEntered(description string) {
	r.events = append(r.events, r.t.groupEntered(description))
}

func (r *Recorder) GroupExited(description string) {
	r.events = append(r.events, r.t.groupExited(description))
}

func (r *Recorder) TestStarted(description string) {
	r.events = append(r.events, r.t.testStarted(description))
}

func (r *Recorder) TestFinished(description string, result spec.Result) {
	e := r.t.testFinished(description, result.Status.String(), result.Message())
	r.events = append(r.events, e)
	r.results = append(r.results, TestRecord{
		Seq:     len(r.results) + 1,
		Path:    e.Path,
		Status:  e.Status,
		Message: e.Message,
	})
}

func (r *Recorder) HookFailed(group string, phase spec.Phase, err error) {
	r.events = append(r.events, r.t.hookFailed(group, phase.String(), err.Error()))
}

func (r *Recorder) RunFinished(summary engine.Summary) {
	r.summary = summary
	r.events = append(r.events, r.t.runFinished(summary))
}
