package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cybernetics/specnaz/internal/engine"
	"github.com/cybernetics/specnaz/internal/notify"
	"github.com/cybernetics/specnaz/internal/spec"
)

func loadSpec(t *testing.T, path string) Spec {
	t.Helper()
	s, err := LoadFile(path)
	require.NoError(t, err)
	return FromScenario(s, path)
}

func newTestHarness(ids ...string) *Harness {
	return New(WithRunIDGenerator(engine.NewFixedGenerator(ids...)))
}

func TestRun_Arithmetic(t *testing.T) {
	h := newTestHarness("run-1")
	result, err := h.Run(loadSpec(t, "testdata/scenarios/arithmetic.yaml"), nil)
	require.NoError(t, err)

	assert.True(t, result.Pass)
	assert.Equal(t, "arithmetic", result.Spec)
	assert.Equal(t, engine.Summary{RunID: "run-1", Root: "arithmetic operations", Total: 5, Passed: 5}, result.Summary)

	var paths []string
	for _, tr := range result.Tests {
		assert.Equal(t, "passed", tr.Status, tr.Path)
		paths = append(paths, tr.Path)
	}
	assert.Equal(t, []string{
		"arithmetic operations / add two numbers correctly",
		"arithmetic operations / subtract two numbers correctly",
		"arithmetic operations / fail when dividing by zero",
		"arithmetic operations / with a subgroup / run all parent 'before' callbacks",
		"arithmetic operations / with a subgroup / and a third-degree subgroup / run all ancestors 'before' callbacks",
	}, paths)
}

func TestRun_PlanMatchesExecution(t *testing.T) {
	h := newTestHarness("run-1")
	s := loadSpec(t, "testdata/scenarios/arithmetic.yaml")

	p, err := h.Plan(s)
	require.NoError(t, err)
	result, err := h.Run(s, nil)
	require.NoError(t, err)

	require.Equal(t, p.Count(), len(result.Tests))
	for i, entry := range p.Entries() {
		assert.Equal(t, entry.ID, result.Tests[i].Path)
	}
}

func TestRun_ReplaysStartFromFreshVariables(t *testing.T) {
	h := newTestHarness("run-1", "run-2")
	s := loadSpec(t, "testdata/scenarios/arithmetic.yaml")

	first, err := h.Run(s, nil)
	require.NoError(t, err)
	second, err := h.Run(s, nil)
	require.NoError(t, err)

	assert.True(t, second.Pass)
	assert.Equal(t, first.Tests, second.Tests)
}

func TestRun_CUEScenario(t *testing.T) {
	h := newTestHarness("run-1")
	result, err := h.Run(loadSpec(t, "testdata/scenarios/division.cue"), nil)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	assert.Equal(t, 2, result.Summary.Passed)
	assert.Equal(t, 1, result.Summary.Failed)

	wrong := result.Tests[2]
	assert.Equal(t, "failed", wrong.Status)
	assert.Equal(t, "expected *harness.AssertionError, got *harness.ArithmeticError", wrong.Message)
}

func TestRun_ForwardsToNotifier(t *testing.T) {
	h := newTestHarness("run-1")
	live := notify.NewRecorder()

	result, err := h.Run(loadSpec(t, "testdata/scenarios/mixed.yaml"), live)
	require.NoError(t, err)

	assert.Equal(t, result.Events, live.Events())
	assert.Equal(t, result.Summary, live.Summary())
}

func TestRun_StructuralError(t *testing.T) {
	calls := 0
	s := Spec{Name: "broken", Trace: func(b spec.GroupBuilder) {
		b.RegisterTest("orphan", spec.ModeDefault, func() error { calls++; return nil })
	}}

	h := newTestHarness("run-1")
	_, err := h.Run(s, nil)
	require.Error(t, err)
	assert.True(t, spec.IsStructuralError(err))
	assert.Contains(t, err.Error(), "run broken")
	assert.Zero(t, calls)

	assert.Error(t, h.Validate(s))
	_, err = h.Plan(s)
	assert.True(t, spec.IsStructuralError(err))
}

func TestPlan_NeverRunsSteps(t *testing.T) {
	calls := 0
	s := Spec{Name: "go", Trace: spec.Describes("root", func(it *spec.It) {
		it.BeginsAll(func() error { calls++; return nil })
		it.Should("count", func() error { calls++; return nil })
	})}

	h := newTestHarness()
	p, err := h.Plan(s)
	require.NoError(t, err)
	require.NoError(t, h.Validate(s))

	assert.Equal(t, 1, p.Count())
	assert.Zero(t, calls)
}

func TestSuite(t *testing.T) {
	suite := NewSuite()
	require.NoError(t, suite.Add(Spec{Name: "math/add"}))
	require.NoError(t, suite.Add(Spec{Name: "math/div"}))
	require.NoError(t, suite.Add(Spec{Name: "strings"}))

	err := suite.Add(Spec{Name: "strings", Source: "dup.yaml"})
	var se *ScenarioError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, ErrCodeDuplicate, se.Code)
	assert.Equal(t, 3, suite.Len())

	all, err := suite.Filter("")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	math, err := suite.Filter("math/*")
	require.NoError(t, err)
	require.Len(t, math, 2)
	assert.Equal(t, "math/add", math[0].Name)

	_, err = suite.Filter("[")
	assert.Error(t, err)
}

func TestLoadSuite(t *testing.T) {
	suite, err := LoadSuite("testdata/scenarios")
	require.NoError(t, err)

	var names []string
	for _, s := range suite.Specs() {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"arithmetic", "division", "mixed"}, names)

	_, err = LoadSuite("testdata/scenarios", "testdata/scenarios/mixed.yaml")
	var se *ScenarioError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, ErrCodeDuplicate, se.Code)

	_, err = LoadSuite("testdata/missing")
	require.ErrorAs(t, err, &se)
	assert.Equal(t, ErrCodeReadFailed, se.Code)
}

func TestRun_FailingHookEntryDoesNotStopLaterEntries(t *testing.T) {
	sc, err := ParseScenario([]byte(`
name: cleanup
vars: {x: 0}
describe: root
before_each:
  - {op: add, var: x, value: 1}
after_each:
  - {op: fail, message: cleanup broke}
  - {op: add, var: x, value: -1}
tests:
  - should: first
    steps:
      - {op: expect, var: x, value: 1}
  - should: second
    steps:
      - {op: expect, var: x, value: 1}
`))
	require.NoError(t, err)

	result, err := newTestHarness("run-1").Run(FromScenario(sc, ""), nil)
	require.NoError(t, err)

	require.Len(t, result.Tests, 2)
	assert.Equal(t, "failed", result.Tests[0].Status)
	assert.Contains(t, result.Tests[0].Message, "cleanup broke")
	assert.Equal(t, "passed", result.Tests[1].Status, result.Tests[1].Message)
	assert.Equal(t, 1, result.Summary.Passed)
	assert.Equal(t, 1, result.Summary.Failed)
}

func TestRun_EachHookEntryIsSeparateHook(t *testing.T) {
	sc, err := ParseScenario([]byte(`
name: teardown
vars: {x: 0}
describe: root
after_all:
  - {op: fail, message: first}
  - {op: fail, message: second}
tests:
  - should: pass
`))
	require.NoError(t, err)

	result, err := newTestHarness("run-1").Run(FromScenario(sc, ""), nil)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Summary.HookFailures)
	var messages []string
	for _, e := range result.Events {
		if e.Kind == notify.KindHookFailed {
			messages = append(messages, e.Message)
		}
	}
	assert.Equal(t, []string{"first", "second"}, messages)
}
