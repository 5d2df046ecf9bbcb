// Package store persists check runs and their member evaluations in SQLite.
//
// Two tables make up the log:
//   - runs: one row per scenario execution, finished with a case tally
//   - evaluations: one row per evaluated case, keyed by (run_id, seq)
//
// Inputs, arguments and outputs are stored as canonical JSON produced by
// internal/canon, so a replayed scenario writes byte-identical rows.
// Evaluation IDs are content addressed (canon.EvaluationID) and every
// write is idempotent on its primary key.
//
// Reads within a run are ordered by seq ASC, id ASC COLLATE BINARY.
// Runs are listed newest first by ID; run IDs are UUIDv7 and therefore
// sort by creation time without a wall-clock column.
//
// The database uses WAL mode, synchronous=NORMAL, a 5 second busy timeout
// and enforced foreign keys.
package store
