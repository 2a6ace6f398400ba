package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cybernetics/specnaz/internal/notify"
)

// ErrRunNotFound is returned when a run ID is not in the store.
var ErrRunNotFound = errors.New("run not found")

const runColumns = `id, spec, root, fingerprint, started_at, total, passed, failed, skipped, hook_failures`

// ListRuns returns recorded runs, oldest first. A non-empty spec restricts
// the list to runs of that spec.
//
// Returns an empty slice (not nil) if nothing was recorded.
func (s *Store) ListRuns(ctx context.Context, spec string) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs`
	var args []any
	if spec != "" {
		query += ` WHERE spec = ?`
		args = append(args, spec)
	}
	query += ` ORDER BY started_at ASC, id COLLATE BINARY ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadRun returns a single run by ID, or ErrRunNotFound.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("read run %s: %w", id, ErrRunNotFound)
	}
	return run, err
}

// ReadResults returns the results of a run in finishing order.
// Returns an empty slice (not nil) for an unknown run.
func (s *Store) ReadResults(ctx context.Context, runID string) ([]notify.TestRecord, error) {
	return s.readResults(ctx, `
		SELECT seq, path, status, message
		FROM results
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
}

// ReadFailures returns only the failed results of a run.
func (s *Store) ReadFailures(ctx context.Context, runID string) ([]notify.TestRecord, error) {
	return s.readResults(ctx, `
		SELECT seq, path, status, message
		FROM results
		WHERE run_id = ? AND status = 'failed'
		ORDER BY seq ASC
	`, runID)
}

func (s *Store) readResults(ctx context.Context, query string, args ...any) ([]notify.TestRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	results := []notify.TestRecord{}
	for rows.Next() {
		var r notify.TestRecord
		if err := rows.Scan(&r.Seq, &r.Path, &r.Status, &r.Message); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}
	return results, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var run Run
	var startedAt string
	err := row.Scan(
		&run.ID,
		&run.Spec,
		&run.Root,
		&run.Fingerprint,
		&startedAt,
		&run.Total,
		&run.Passed,
		&run.Failed,
		&run.Skipped,
		&run.HookFailures,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt)
	if err != nil {
		return Run{}, fmt.Errorf("parse started_at of run %s: %w", run.ID, err)
	}
	return run, nil
}
