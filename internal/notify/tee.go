package notify

import (
	"github.com/cybernetics/specnaz/internal/engine"
	"github.com/cybernetics/specnaz/internal/spec"
)

type tee []engine.Notifier

// Tee returns a Notifier that forwards every event to each of ns in order.
// Run start and finish are forwarded to those implementing
// engine.RunObserver. Nil notifiers are dropped.
func Tee(ns ...engine.Notifier) engine.Notifier {
	t := make(tee, 0, len(ns))
	for _, n := range ns {
		if n != nil {
			t = append(t, n)
		}
	}
	return t
}

var _ engine.RunObserver = tee(nil)

func (t tee) RunStarted(runID, root string, total int) {
	for _, n := range t {
		if o, ok := n.(engine.RunObserver); ok {
			o.RunStarted(runID, root, total)
		}
	}
}

func (t tee) GroupEntered(description string) {
	for _, n := range t {
		n.GroupEntered(description)
	}
}

func (t tee) GroupExited(description string) {
	for _, n := range t {
		n.GroupExited(description)
	}
}

func (t tee) TestStarted(description string) {
	for _, n := range t {
		n.TestStarted(description)
	}
}

func (t tee) TestFinished(description string, result spec.Result) {
	for _, n := range t {
		n.TestFinished(description, result)
	}
}

func (t tee) HookFailed(group string, phase spec.Phase, err error) {
	for _, n := range t {
		n.HookFailed(group, phase, err)
	}
}

func (t tee) RunFinished(summary engine.Summary) {
	for _, n := range t {
		if o, ok := n.(engine.RunObserver); ok {
			o.RunFinished(summary)
		}
	}
}
