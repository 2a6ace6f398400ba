package engine

import (
	"io"
	"log/slog"

	"github.com/cybernetics/specnaz/internal/spec"
	"github.com/cybernetics/specnaz/internal/tree"
)

// Summary is the tally of one run.
type Summary struct {
	RunID        string `json:"run_id"`
	Root         string `json:"root"`
	Total        int    `json:"total"`
	Passed       int    `json:"passed"`
	Failed       int    `json:"failed"`
	Skipped      int    `json:"skipped"`
	HookFailures int    `json:"hook_failures"`
}

// OK reports whether the run had no failed test and no hook failure.
func (s Summary) OK() bool {
	return s.Failed == 0 && s.HookFailures == 0
}

// Executor runs executable spec trees.
//
// An Executor holds no per-run state, so one Executor may run any number
// of trees one after another. Each Run owns its traversal state; separate
// trees may even be run from separate goroutines as long as they share no
// captured state.
type Executor struct {
	logger *slog.Logger
	runIDs RunIDGenerator
}

// Option configures an Executor.
type Option func(*Executor)

// WithLogger sets the logger for run and hook diagnostics.
// Default: a logger that discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) {
		e.logger = logger
	}
}

// WithRunIDGenerator sets the run ID source.
// Default: UUIDv7Generator.
func WithRunIDGenerator(gen RunIDGenerator) Option {
	return func(e *Executor) {
		e.runIDs = gen
	}
}

// New creates an Executor.
func New(opts ...Option) *Executor {
	e := &Executor{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		runIDs: UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute builds trace and runs it. The only error it returns is a
// structural error from building; test and hook failures are reported
// through n and the Summary.
func (e *Executor) Execute(trace spec.Trace, n Notifier) (Summary, error) {
	root, err := Build(trace)
	if err != nil {
		return Summary{}, err
	}
	return e.Run(root, n), nil
}

// Run traverses root depth-first, invoking hooks and bodies and notifying
// n of every lifecycle event. Run always completes.
func (e *Executor) Run(root *tree.Node[ExecutableGroup], n Notifier) Summary {
	if n == nil {
		n = NopNotifier{}
	}

	r := &run{
		notifier: n,
		logger:   e.logger,
		summary: Summary{
			RunID: e.runIDs.Generate(),
			Root:  root.Value.Description,
			Total: root.Value.TestsInSubtree,
		},
		focused: containsFocused(root),
	}
	r.runnable = runnableGroups(root, r.focused)
	r.logger = r.logger.With("run_id", r.summary.RunID)

	observer, _ := n.(RunObserver)
	if observer != nil {
		observer.RunStarted(r.summary.RunID, r.summary.Root, r.summary.Total)
	}
	r.logger.Info("run starting",
		"root", r.summary.Root,
		"tests", r.summary.Total,
		"focused", r.focused,
	)

	r.group(root, nil)

	r.logger.Info("run finished",
		"passed", r.summary.Passed,
		"failed", r.summary.Failed,
		"skipped", r.summary.Skipped,
		"hook_failures", r.summary.HookFailures,
	)
	if observer != nil {
		observer.RunFinished(r.summary)
	}
	return r.summary
}

// containsFocused reports whether any test in the tree is focused.
func containsFocused(root *tree.Node[ExecutableGroup]) bool {
	focused := false
	root.Walk(func(node *tree.Node[ExecutableGroup], _ int) bool {
		for _, tc := range node.Value.Tests {
			if tc.Mode == spec.ModeFocused {
				focused = true
			}
		}
		return !focused
	})
	return focused
}

// runnableGroups marks every group whose subtree holds at least one test
// that will actually be invoked. Computed once per run, children first.
func runnableGroups(root *tree.Node[ExecutableGroup], focused bool) map[*tree.Node[ExecutableGroup]]bool {
	marks := make(map[*tree.Node[ExecutableGroup]]bool)
	var mark func(node *tree.Node[ExecutableGroup]) bool
	mark = func(node *tree.Node[ExecutableGroup]) bool {
		runnable := false
		for _, child := range node.Children() {
			if mark(child) {
				runnable = true
			}
		}
		for _, tc := range node.Value.Tests {
			if skipReason(tc, focused) == "" {
				runnable = true
			}
		}
		marks[node] = runnable
		return runnable
	}
	mark(root)
	return marks
}

// skipReason returns why tc is not invoked in this run, or "".
func skipReason(tc spec.TestCase, focused bool) string {
	if tc.Mode == spec.ModeIgnored {
		return spec.ReasonIgnored
	}
	if focused && tc.Mode != spec.ModeFocused {
		return spec.ReasonNotFocused
	}
	return ""
}
