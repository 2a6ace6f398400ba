package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cybernetics/specnaz/internal/testutil"
)

const passingScenario = `
name: counter
vars: {x: 0}
describe: a counter
before_each:
  - {op: set, var: x, value: 1}
tests:
  - should: start at one
    steps:
      - {op: expect, var: x, value: 1}
  - should: add
    steps:
      - {op: add, var: x, value: 2}
      - {op: expect, var: x, value: 3}
groups:
  - describe: when divided
    tests:
      - should: reject zero
        throws: {kind: division_by_zero}
        steps:
          - {op: div, var: x, value: 0}
`

const failingScenario = `
name: broken
vars: {x: 0}
describe: a broken counter
tests:
  - should: be five
    steps:
      - {op: expect, var: x, value: 5}
  - should: be skipped
    mode: ignored
`

const focusedScenario = `
name: focused
vars: {x: 0}
describe: focus
tests:
  - should: run alone
    mode: focused
  - should: not run
`

// writeScenario writes body to dir/name and returns its path.
func writeScenario(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

// isolate keeps config lookup away from any real .specnaz file.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	chdir(t, dir)
	return dir
}

// execute runs the root command with deterministic run IDs and clock.
func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	opts := &RootOptions{
		RunIDs: testutil.NewSequenceGenerator("cli"),
		Now:    testutil.NewStepClock(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), time.Second).Now,
	}
	cmd := newRootCommand(opts)
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(append([]string{"--no-color"}, args...))
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}
