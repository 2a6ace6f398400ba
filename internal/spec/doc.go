// Package spec defines the vocabulary of a BDD-style specification: groups,
// hooks, tests and their results, and the GroupBuilder capability a spec
// trace is replayed against.
//
// A Trace is a plain function that declares a spec by calling a
// GroupBuilder. It never runs hooks or test bodies itself; it only hands
// them to the builder. This lets the same trace be replayed against two
// builders:
//
//   - the plan builder (package plan) which keeps structure and names only
//   - the execution builder (package engine) which keeps the closures too
//
// Most traces are written with the It DSL rather than the raw builder:
//
//	var Arithmetic = spec.Describes("arithmetic operations", func(it *spec.It) {
//	    var two int
//
//	    it.BeginsEach(func() error {
//	        two = 2
//	        return nil
//	    })
//
//	    it.Should("add two numbers correctly", func() error {
//	        if two+2 != 4 {
//	            return fmt.Errorf("expected 4, got %d", two+2)
//	        }
//	        return nil
//	    })
//
//	    it.ShouldThrow("fail when dividing by zero",
//	        spec.Throws[*ArithmeticError]().WithMessage("/ by zero").WithoutCause(),
//	        func() error { return divide(1, two-2) })
//	})
//
// State captured by hooks and bodies is created inside the trace function,
// so each replay owns fresh state.
//
// # Structural Errors
//
// Builders fail fast on malformed traces: ending a group that was never
// begun, registering outside any group, leaving groups open, or declaring
// more than one top-level group. The first such error is sticky; later
// calls are ignored and the builder refuses to produce a tree.
package spec
