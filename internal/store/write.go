package store

import (
	"context"
	"fmt"
	"time"

	"github.com/cybernetics/specnaz/internal/engine"
	"github.com/cybernetics/specnaz/internal/notify"
)

// Run is one recorded execution of a spec.
type Run struct {
	ID          string    `json:"id"`
	Spec        string    `json:"spec"`
	Root        string    `json:"root"`
	Fingerprint string    `json:"fingerprint,omitempty"`
	StartedAt   time.Time `json:"started_at"`

	Total        int `json:"total"`
	Passed       int `json:"passed"`
	Failed       int `json:"failed"`
	Skipped      int `json:"skipped"`
	HookFailures int `json:"hook_failures"`
}

// NewRun builds the record of a finished run.
func NewRun(spec, fingerprint string, startedAt time.Time, s engine.Summary) Run {
	return Run{
		ID:           s.RunID,
		Spec:         spec,
		Root:         s.Root,
		Fingerprint:  fingerprint,
		StartedAt:    startedAt.UTC(),
		Total:        s.Total,
		Passed:       s.Passed,
		Failed:       s.Failed,
		Skipped:      s.Skipped,
		HookFailures: s.HookFailures,
	}
}

// WriteRun inserts a run and its results in one transaction.
// Uses ON CONFLICT(id) DO NOTHING for idempotency: a run already recorded
// is left untouched, results included.
func (s *Store) WriteRun(ctx context.Context, run Run, results []notify.TestRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write run: begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, spec, root, fingerprint, started_at, total, passed, failed, skipped, hook_failures)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		run.Spec,
		run.Root,
		run.Fingerprint,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.Total,
		run.Passed,
		run.Failed,
		run.Skipped,
		run.HookFailures,
	)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO results (run_id, seq, path, status, message)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("write results: prepare: %w", err)
	}
	defer stmt.Close()

	for _, r := range results {
		if _, err := stmt.ExecContext(ctx, run.ID, r.Seq, r.Path, r.Status, r.Message); err != nil {
			return fmt.Errorf("write result %d of run %s: %w", r.Seq, run.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write run: commit: %w", err)
	}
	return nil
}

// DeleteRun removes a run and, through the foreign key, its results.
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("delete run %s: %w", id, ErrRunNotFound)
	}
	return nil
}
