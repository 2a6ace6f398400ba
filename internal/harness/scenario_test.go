package harness

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadScenario_ValidFile(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/arithmetic.yaml")
	require.NoError(t, err)

	assert.Equal(t, "arithmetic", s.Name)
	assert.Equal(t, "arithmetic operations", s.Describe)
	assert.Equal(t, map[string]int{"two": -2}, s.Vars)
	assert.Len(t, s.Tests, 3)
	require.Len(t, s.Groups, 1)
	assert.Equal(t, "with a subgroup", s.Groups[0].Describe)

	throws := s.Tests[2].Throws
	require.NotNil(t, throws)
	assert.Equal(t, ThrowsDoc{Kind: "division_by_zero", Message: "/ by zero", NoCause: true}, *throws)
}

func TestLoadScenarioCUE_ValidFile(t *testing.T) {
	s, err := LoadScenarioCUE("testdata/scenarios/division.cue")
	require.NoError(t, err)

	assert.Equal(t, "division", s.Name)
	assert.Equal(t, "integer division", s.Describe)
	assert.Equal(t, map[string]int{"n": 10}, s.Vars)
	require.Len(t, s.Tests, 3)
	assert.Equal(t, []Step{{Op: OpDiv, Var: "n", Value: 2}, {Op: OpExpect, Var: "n", Value: 5}}, s.Tests[0].Steps)
}

func TestLoadFile_DispatchesByExtension(t *testing.T) {
	yml, err := LoadFile("testdata/scenarios/mixed.yaml")
	require.NoError(t, err)
	assert.Equal(t, "mixed", yml.Name)

	cue, err := LoadFile("testdata/scenarios/division.cue")
	require.NoError(t, err)
	assert.Equal(t, "division", cue.Name)

	_, err = LoadFile("scenario.toml")
	var se *ScenarioError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, ErrCodeUnsupported, se.Code)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario("testdata/scenarios/nope.yaml")

	var se *ScenarioError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, ErrCodeReadFailed, se.Code)
	assert.Equal(t, "testdata/scenarios/nope.yaml", se.File)
}

func TestLoadScenario_UnknownField(t *testing.T) {
	path := writeScenario(t, "typo.yaml", `
name: typo
describe: root
test:
  - should: never load
`)
	_, err := LoadScenario(path)

	var se *ScenarioError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, ErrCodeParseFailed, se.Code)
	assert.Contains(t, err.Error(), "field test not found")
	assert.Contains(t, err.Error(), path)
}

func TestLoadScenarioCUE_UnknownField(t *testing.T) {
	path := writeScenario(t, "typo.cue", `
name: "typo"
describe: "root"
test: [{should: "never load"}]
`)
	_, err := LoadScenarioCUE(path)

	var se *ScenarioError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, ErrCodeParseFailed, se.Code)
	assert.Contains(t, err.Error(), "unknown field")
}

func TestLoadScenarioCUE_NotConcrete(t *testing.T) {
	path := writeScenario(t, "open.cue", `
name: string
describe: "root"
`)
	_, err := LoadScenarioCUE(path)

	var se *ScenarioError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, ErrCodeParseFailed, se.Code)
}

func TestParseScenario_Validation(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		code  string
		field string
	}{
		{
			name:  "missing name",
			doc:   "describe: root\n",
			code:  ErrCodeMissingField,
			field: "name",
		},
		{
			name:  "missing describe",
			doc:   "name: x\n",
			code:  ErrCodeMissingField,
			field: "describe",
		},
		{
			name:  "unknown op",
			doc:   "name: x\ndescribe: root\nbefore_each: [{op: mul}]\n",
			code:  ErrCodeUnknownOp,
			field: "before_each[0].op",
		},
		{
			name:  "missing op",
			doc:   "name: x\ndescribe: root\ntests: [{should: t, steps: [{var: a}]}]\n",
			code:  ErrCodeMissingField,
			field: "tests[0].steps[0].op",
		},
		{
			name:  "undeclared variable",
			doc:   "name: x\ndescribe: root\ngroups: [{describe: g, tests: [{should: t, steps: [{op: add, var: y, value: 1}]}]}]\n",
			code:  ErrCodeUndeclared,
			field: "groups[0].tests[0].steps[0].var",
		},
		{
			name:  "fail without message",
			doc:   "name: x\ndescribe: root\nafter_all: [{op: fail}]\n",
			code:  ErrCodeMissingField,
			field: "after_all[0].message",
		},
		{
			name:  "unknown throws kind",
			doc:   "name: x\ndescribe: root\ntests: [{should: t, throws: {kind: timeout}}]\n",
			code:  ErrCodeUnknownKind,
			field: "tests[0].throws.kind",
		},
		{
			name:  "unknown test mode",
			doc:   "name: x\ndescribe: root\ntests: [{should: t, mode: pending}]\n",
			code:  ErrCodeUnknownMode,
			field: "tests[0].mode",
		},
		{
			name:  "unknown group mode",
			doc:   "name: x\ndescribe: root\ngroups: [{describe: g, mode: later}]\n",
			code:  ErrCodeUnknownMode,
			field: "groups[0].mode",
		},
		{
			name:  "test without description",
			doc:   "name: x\ndescribe: root\ngroups: [{describe: g, groups: [{describe: h, tests: [{steps: []}]}]}]\n",
			code:  ErrCodeMissingField,
			field: "groups[0].groups[0].tests[0].should",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.doc))

			var se *ScenarioError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.code, se.Code)
			assert.Equal(t, tt.field, se.Field)
		})
	}
}

func TestFindScenarioFiles(t *testing.T) {
	files, err := FindScenarioFiles("testdata/scenarios")
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join("testdata", "scenarios", "arithmetic.yaml"),
		filepath.Join("testdata", "scenarios", "division.cue"),
		filepath.Join("testdata", "scenarios", "mixed.yaml"),
	}, files)
}

func TestApply(t *testing.T) {
	vars := map[string]int{"a": 0}

	require.NoError(t, apply([]Step{
		{Op: OpSet, Var: "a", Value: 10},
		{Op: OpAdd, Var: "a", Value: 5},
		{Op: OpDiv, Var: "a", Value: 3},
		{Op: OpExpect, Var: "a", Value: 5},
	}, vars))
	assert.Equal(t, 5, vars["a"])

	err := apply([]Step{{Op: OpDiv, Var: "a", Value: 0}, {Op: OpSet, Var: "a", Value: 99}}, vars)
	var ae *ArithmeticError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "/ by zero", ae.Error())
	assert.Equal(t, 5, vars["a"], "steps after a failure must not run")

	err = apply([]Step{{Op: OpExpect, Var: "a", Value: 6}}, vars)
	assert.Equal(t, &AssertionError{Var: "a", Want: 6, Got: 5}, err)
	assert.EqualError(t, err, "expected a == 6, got 5")

	err = apply([]Step{{Op: OpFail, Message: "boom", Cause: "root cause"}}, vars)
	var se *StepError
	require.ErrorAs(t, err, &se)
	assert.EqualError(t, err, "boom: root cause")
	require.NotNil(t, errors.Unwrap(err))
	assert.Equal(t, "root cause", errors.Unwrap(err).Error())
}
