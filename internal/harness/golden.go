package harness

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/cybernetics/specnaz/internal/engine"
)

// Snapshot renders the event stream of r as one JSON object per line.
// Run IDs must be fixed (see WithRunIDGenerator) for snapshots to be stable.
func Snapshot(r *Result) ([]byte, error) {
	var buf bytes.Buffer
	for _, e := range r.Events {
		line, err := json.Marshal(e)
		if err != nil {
			return nil, err
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// AssertGolden compares the event stream of result against
// testdata/golden/<name>.golden.
//
// Regenerate with:
//
//	go test ./internal/harness -run <Test> -update
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	snapshot, err := Snapshot(result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, snapshot)
	return nil
}

// RunWithGolden runs s with a fixed run ID and compares its event stream
// against the golden file named after the spec.
func RunWithGolden(t *testing.T, s Spec) error {
	t.Helper()

	h := New(WithRunIDGenerator(engine.NewFixedGenerator("run-golden")))
	result, err := h.Run(s, nil)
	if err != nil {
		return err
	}
	return AssertGolden(t, s.Name, result)
}
