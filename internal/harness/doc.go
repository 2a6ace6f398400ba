// Package harness loads, plans and runs specs.
//
// A spec is either Go code (a spec.Trace built with the spec DSL) or a
// scenario document in YAML or CUE. Documents declare integer variables
// and groups of hooks and tests whose bodies are lists of steps.
//
// # Scenario Format
//
//	name: arithmetic
//	vars: {two: -2}
//	describe: arithmetic operations
//	before_all:
//	  - {op: add, var: two, value: 2}
//	after_all:
//	  - {op: expect, var: two, value: 0}
//	tests:
//	  - should: add two numbers correctly
//	    steps:
//	      - {op: expect, var: two, value: 2}
//	  - should: fail when dividing by zero
//	    throws: {kind: division_by_zero, message: "/ by zero", no_cause: true}
//	    steps:
//	      - {op: div, var: two, value: 0}
//	groups:
//	  - describe: with a subgroup
//	    tests: [...]
//
// The same document may be written in CUE; it must evaluate to a concrete
// value of the same shape.
//
// # Step Ops
//
//   - set: var = value
//   - add: var += value
//   - div: var /= value, raising *ArithmeticError("/ by zero") for zero
//   - expect: raises *AssertionError unless var == value
//   - fail: raises *StepError with message, wrapping cause if given
//
// Throws kinds map to those errors: division_by_zero, assertion, failure.
//
// # Determinism
//
// Every replay of a scenario starts from fresh variables, so planning a
// scenario and running it any number of times never interfere. With a
// fixed run ID generator the recorded event stream is byte-for-byte
// reproducible, which the golden helpers rely on.
package harness
