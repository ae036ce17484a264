// Package store keeps the export history in SQLite.
//
// Every export run is recorded with its outcome, and every bitmap or sound
// it exported is recorded against the run:
//   - Runs: one row per export, identified by a UUIDv7 run id
//   - Exports: the assets a run wrote, in export order
//
// # Ordering
//
// Rows are ordered by their seq column, never by timestamps. Run seq is
// assigned by SQLite on insert; export seq counts up from 1 within a run.
// Every list query orders by seq so results are stable.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
