package engine

import (
	"log/slog"
	"runtime/debug"

	"github.com/cybernetics/specnaz/internal/spec"
	"github.com/cybernetics/specnaz/internal/tree"
)

// run holds the traversal state of one Executor.Run call.
type run struct {
	notifier Notifier
	logger   *slog.Logger
	summary  Summary
	focused  bool
	runnable map[*tree.Node[ExecutableGroup]]bool
}

// group processes one group node. chain holds the ancestors of node,
// root first, for composing beforeEach and afterEach hooks.
func (r *run) group(node *tree.Node[ExecutableGroup], chain []*ExecutableGroup) {
	g := &node.Value
	if g.TestsInSubtree == 0 {
		return
	}
	chain = append(chain[:len(chain):len(chain)], g)
	runnable := r.runnable[node]

	r.notifier.GroupEntered(g.Description)

	if runnable {
		if errs := r.invokeHooks(g, spec.BeforeAll); len(errs) > 0 {
			for _, err := range errs {
				r.hookFailed(err)
			}
			r.failSubtree(node, errs[0])
			r.afterAll(g)
			r.notifier.GroupExited(g.Description)
			return
		}
	}

	for _, tc := range g.Tests {
		r.test(tc, chain)
	}
	for _, child := range node.Children() {
		r.group(child, chain)
	}

	if runnable {
		r.afterAll(g)
	}
	r.notifier.GroupExited(g.Description)
}

// afterAll runs the group's afterAll hooks; failures never change results.
func (r *run) afterAll(g *ExecutableGroup) {
	for _, err := range r.invokeHooks(g, spec.AfterAll) {
		r.hookFailed(err)
	}
}

// failSubtree reports every runnable test below node as failed with cause,
// without invoking any hook or body. Tests that would have been skipped
// anyway keep their skip result.
func (r *run) failSubtree(node *tree.Node[ExecutableGroup], cause error) {
	for _, tc := range node.Value.Tests {
		r.notifier.TestStarted(tc.Description)
		if reason := skipReason(tc, r.focused); reason != "" {
			r.finish(tc, spec.Skipped(reason))
			continue
		}
		r.finish(tc, spec.Failed(cause))
	}
	for _, child := range node.Children() {
		if child.Value.TestsInSubtree == 0 {
			continue
		}
		r.notifier.GroupEntered(child.Value.Description)
		r.failSubtree(child, cause)
		r.notifier.GroupExited(child.Value.Description)
	}
}

// test runs one test case with the composed hook chain.
func (r *run) test(tc spec.TestCase, chain []*ExecutableGroup) {
	r.notifier.TestStarted(tc.Description)

	if reason := skipReason(tc, r.focused); reason != "" {
		r.finish(tc, spec.Skipped(reason))
		return
	}

	// beforeEach: root to leaf, every level attempted.
	var separate []error
	var beforeErrs []error
	for _, g := range chain {
		beforeErrs = append(beforeErrs, r.invokeHooks(g, spec.BeforeEach)...)
	}

	var result spec.Result
	if len(beforeErrs) > 0 {
		result = spec.Failed(beforeErrs[0])
		separate = append(separate, beforeErrs[1:]...)
	} else {
		result = evaluate(tc)
	}

	// afterEach: leaf to root, always.
	for i := len(chain) - 1; i >= 0; i-- {
		for _, err := range r.invokeHooks(chain[i], spec.AfterEach) {
			if result.Status == spec.StatusPassed {
				result = spec.Failed(err)
				continue
			}
			separate = append(separate, err)
		}
	}

	for _, err := range separate {
		r.hookFailed(err)
	}
	r.finish(tc, result)
}

// finish records and reports a test result.
func (r *run) finish(tc spec.TestCase, result spec.Result) {
	switch result.Status {
	case spec.StatusPassed:
		r.summary.Passed++
	case spec.StatusFailed:
		r.summary.Failed++
	case spec.StatusSkipped:
		r.summary.Skipped++
	}
	r.notifier.TestFinished(tc.Description, result)
}

// hookFailed reports a hook failure that did not decide a test result.
func (r *run) hookFailed(err error) {
	r.summary.HookFailures++
	he, ok := err.(*HookError)
	if !ok {
		he = &HookError{Err: err}
	}
	r.logger.Warn("hook failed",
		"group", he.Group,
		"phase", he.Phase.String(),
		"error", he.Err,
	)
	r.notifier.HookFailed(he.Group, he.Phase, he.Err)
}

// invokeHooks runs every hook of phase registered on g, in registration
// order, and returns their failures wrapped as *HookError.
func (r *run) invokeHooks(g *ExecutableGroup, phase spec.Phase) []error {
	var errs []error
	for _, hook := range g.hooks(phase) {
		if err := invoke(hook.Action); err != nil {
			errs = append(errs, &HookError{Group: g.Description, Phase: phase, Err: err})
		}
	}
	return errs
}

// evaluate runs a test body and interprets its outcome.
func evaluate(tc spec.TestCase) spec.Result {
	err := invoke(tc.Body)
	if tc.Expect != nil {
		if mismatch := tc.Expect.Check(err); mismatch != nil {
			return spec.Failed(mismatch)
		}
		return spec.Passed()
	}
	if err != nil {
		return spec.Failed(err)
	}
	return spec.Passed()
}

// invoke calls fn, converting a panic into an error. A nil fn is a no-op.
func invoke(fn func() error) (err error) {
	if fn == nil {
		return nil
	}
	defer func() {
		if v := recover(); v != nil {
			if perr, ok := v.(error); ok {
				err = perr
				return
			}
			err = &PanicError{Value: v, Stack: debug.Stack()}
		}
	}()
	return fn()
}
