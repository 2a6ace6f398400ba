// Package engine builds executable spec trees and runs them.
//
// The engine is the execution half of the trace-replay design: a
// spec.Trace replayed against Builder yields a tree of ExecutableGroup
// nodes carrying hooks and test bodies, and Executor walks that tree.
//
// ARCHITECTURE:
//
// Single-Threaded Traversal:
// One test, one hook invocation at a time, in declaration order,
// depth-first. Hooks and bodies routinely close over state shared by
// sibling tests and nested groups, so correctness depends on exactly-once,
// strictly ordered visitation. The executor never starts a goroutine.
//
// Group Processing:
//  1. A group with no tests anywhere below it is skipped silently.
//  2. GroupEntered, then the group's beforeAll hooks, once.
//  3. Own tests in declaration order, then child groups in declaration order.
//  4. The group's afterAll hooks, once, then GroupExited.
//
// Test Processing:
//
//	beforeEach: root -> ... -> leaf   (every level, registration order)
//	body / expectation check          (only if no beforeEach failed)
//	afterEach:  leaf -> ... -> root   (always)
//
// Failure Isolation:
// A hook or body failure (returned error or panic) is converted into a
// test result or a HookFailed notification. It never aborts the run: every
// reachable test gets exactly one TestFinished.
//
//   - beforeAll failure: every test below the group finishes Failed with
//     that cause without running any other hook or body of the subtree; the
//     group's afterAll hooks are still attempted.
//   - beforeEach failure: the test fails, its body is skipped, and the
//     afterEach chain still runs.
//   - afterEach failure: fails a test that had passed; reported separately
//     when the test had already failed.
//   - afterAll failure: reported separately; test results stay as they are.
//
// Several hooks of the same phase in one group all run, even after one of
// them failed. The first failure decides; the others are reported
// separately through HookFailed.
//
// Focus and Ignore:
// Ignored tests finish Skipped without running hooks. When the tree holds
// any focused test, every other test finishes Skipped as well. A group
// whose subtree holds no test that will actually run does not invoke its
// beforeAll or afterAll hooks.
package engine
