package store

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/cybernetics/specnaz/internal/notify"
)

// createTestStore creates a new store in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRun creates a run record with minimal required fields.
func createTestRun(id, spec string, startedAt time.Time) Run {
	return Run{
		ID:        id,
		Spec:      spec,
		Root:      "root",
		StartedAt: startedAt,
		Total:     2,
		Passed:    1,
		Failed:    1,
	}
}

// createTestResults returns one passing and one failing result.
func createTestResults() []notify.TestRecord {
	return []notify.TestRecord{
		{Seq: 1, Path: "root / passes", Status: "passed"},
		{Seq: 2, Path: "root / fails", Status: "failed", Message: "expected x == 1, got 0"},
	}
}

// verifyPragma fails t unless pragma name reads back as want.
func verifyPragma(t *testing.T, s *Store, name, want string) {
	t.Helper()
	var got string
	if err := s.db.QueryRow(fmt.Sprintf("PRAGMA %s", name)).Scan(&got); err != nil {
		t.Fatalf("query %s: %v", name, err)
	}
	if got != want {
		t.Errorf("%s = %q, want %q", name, got, want)
	}
}

// schemaVersion reads the user_version of s.
func schemaVersion(t *testing.T, s *Store) int {
	t.Helper()
	var version int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		t.Fatalf("failed to get user_version: %v", err)
	}
	return version
}
