package notify

import (
	"github.com/cybernetics/specnaz/internal/engine"
	"github.com/cybernetics/specnaz/internal/plan"
)

// Kind identifies an event type.
type Kind string

const (
	KindRunStarted   Kind = "run_started"
	KindGroupEntered Kind = "group_entered"
	KindGroupExited  Kind = "group_exited"
	KindTestStarted  Kind = "test_started"
	KindTestFinished Kind = "test_finished"
	KindHookFailed   Kind = "hook_failed"
	KindRunFinished  Kind = "run_finished"
)

// Event is one lifecycle event with its position in the stream.
//
// Path is the NFC-normalized ID of the group or test the event concerns
// (see plan.TestID), so it matches plan entry IDs.
type Event struct {
	Seq     int             `json:"seq"`
	Kind    Kind            `json:"kind"`
	RunID   string          `json:"run_id,omitempty"`
	Path    string          `json:"path,omitempty"`
	Status  string          `json:"status,omitempty"`
	Message string          `json:"message,omitempty"`
	Phase   string          `json:"phase,omitempty"`
	Total   int             `json:"total,omitempty"`
	Summary *engine.Summary `json:"summary,omitempty"`
}

// tracker turns bare notifier callbacks into Events. It numbers events
// and keeps the stack of open groups to compute paths.
type tracker struct {
	seq    int
	runID  string
	groups []string
}

func (t *tracker) next(kind Kind) Event {
	t.seq++
	return Event{Seq: t.seq, Kind: kind, RunID: t.runID}
}

func (t *tracker) runStarted(runID, root string, total int) Event {
	t.runID = runID
	t.seq = 0
	t.groups = t.groups[:0]
	e := t.next(KindRunStarted)
	e.Path = plan.TestID(nil, root)
	e.Total = total
	return e
}

func (t *tracker) groupEntered(description string) Event {
	e := t.next(KindGroupEntered)
	e.Path = plan.TestID(t.groups, description)
	t.groups = append(t.groups, description)
	return e
}

func (t *tracker) groupExited(description string) Event {
	if n := len(t.groups); n > 0 {
		t.groups = t.groups[:n-1]
	}
	e := t.next(KindGroupExited)
	e.Path = plan.TestID(t.groups, description)
	return e
}

func (t *tracker) testStarted(description string) Event {
	e := t.next(KindTestStarted)
	e.Path = plan.TestID(t.groups, description)
	return e
}

func (t *tracker) testFinished(description string, status, message string) Event {
	e := t.next(KindTestFinished)
	e.Path = plan.TestID(t.groups, description)
	e.Status = status
	e.Message = message
	return e
}

// hookFailed resolves group against the open stack, innermost first: an
// afterEach hook of an ancestor fails while a descendant is open.
func (t *tracker) hookFailed(group, phase, message string) Event {
	e := t.next(KindHookFailed)
	e.Path = group
	for i := len(t.groups) - 1; i >= 0; i-- {
		if t.groups[i] == group {
			e.Path = plan.TestID(t.groups[:i], group)
			break
		}
	}
	e.Phase = phase
	e.Message = message
	return e
}

func (t *tracker) runFinished(summary engine.Summary) Event {
	e := t.next(KindRunFinished)
	e.Path = plan.TestID(nil, summary.Root)
	e.Summary = &summary
	return e
}
