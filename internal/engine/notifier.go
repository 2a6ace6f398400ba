package engine

import "github.com/cybernetics/specnaz/internal/spec"

// Notifier receives lifecycle events in real time, in traversal order.
//
// Event order for a group with one passing test and a failing afterAll:
//
//	GroupEntered("g")
//	TestStarted("t")
//	TestFinished("t", Passed)
//	HookFailed("g", AfterAll, err)
//	GroupExited("g")
type Notifier interface {
	GroupEntered(description string)
	GroupExited(description string)
	TestStarted(description string)
	TestFinished(description string, result spec.Result)

	// HookFailed reports a hook failure that is not the deciding cause of
	// a test result: afterAll failures, afterEach failures after a test
	// already failed, beforeAll failures, and additional failures in a hook
	// chain after the first one.
	HookFailed(group string, phase spec.Phase, err error)
}

// RunObserver is optionally implemented by a Notifier that wants to know
// when a run starts and ends.
type RunObserver interface {
	RunStarted(runID string, root string, total int)
	RunFinished(summary Summary)
}

// NopNotifier discards every event.
type NopNotifier struct{}

func (NopNotifier) GroupEntered(string)                  {}
func (NopNotifier) GroupExited(string)                   {}
func (NopNotifier) TestStarted(string)                   {}
func (NopNotifier) TestFinished(string, spec.Result)     {}
func (NopNotifier) HookFailed(string, spec.Phase, error) {}
