// Package store provides SQLite-backed run history.
//
// Each execution of a spec is one row in runs, holding its summary, and
// one row per finished test in results.
//
// # Deterministic Ordering
//
//   - Runs list ORDER BY started_at ASC, id ASC COLLATE BINARY
//   - Results list ORDER BY seq ASC, the order tests finished in
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Writes are idempotent: recording a run whose ID already exists is a no-op.
package store
