package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

const runColumns = `id, scenario, manifest, type_id, cases, failures, finished, pass`

const evaluationColumns = `id, run_id, seq, case_name, member, static, input, args, output, error_code, error, pass`

// ReadRun returns a single run. Returns sql.ErrNoRows if not found.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	return scanRun(row)
}

// ListRuns returns runs newest first. A non-positive limit returns all of
// them. The result is never nil.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY id COLLATE BINARY DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

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

// ReadEvaluations returns every evaluation of a run ordered by seq ASC,
// id ASC. The result is never nil.
func (s *Store) ReadEvaluations(ctx context.Context, runID string) ([]Evaluation, error) {
	return s.queryEvaluations(ctx, `
		SELECT `+evaluationColumns+`
		FROM evaluations
		WHERE run_id = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, runID)
}

// ReadFailures returns the failed evaluations of a run in seq order.
func (s *Store) ReadFailures(ctx context.Context, runID string) ([]Evaluation, error) {
	return s.queryEvaluations(ctx, `
		SELECT `+evaluationColumns+`
		FROM evaluations
		WHERE run_id = ? AND pass = 0
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, runID)
}

func (s *Store) queryEvaluations(ctx context.Context, query string, args ...any) ([]Evaluation, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query evaluations: %w", err)
	}
	defer rows.Close()

	evs := []Evaluation{}
	for rows.Next() {
		ev, err := scanEvaluation(rows)
		if err != nil {
			return nil, err
		}
		evs = append(evs, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate evaluations: %w", err)
	}
	return evs, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var run Run
	var finished, pass int
	if err := sc.Scan(
		&run.ID, &run.Scenario, &run.Manifest, &run.TypeID,
		&run.Cases, &run.Failures, &finished, &pass,
	); err != nil {
		if err == sql.ErrNoRows {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.Finished = finished != 0
	run.Pass = pass != 0
	return run, nil
}

func scanEvaluation(sc scanner) (Evaluation, error) {
	var ev Evaluation
	var static, pass int
	var input, args, output string
	if err := sc.Scan(
		&ev.ID, &ev.RunID, &ev.Seq, &ev.Case, &ev.Member, &static,
		&input, &args, &output, &ev.ErrorCode, &ev.Error, &pass,
	); err != nil {
		return Evaluation{}, fmt.Errorf("scan evaluation: %w", err)
	}
	ev.Static = static != 0
	ev.Pass = pass != 0
	ev.Input = json.RawMessage(input)
	ev.Args = json.RawMessage(args)
	ev.Output = json.RawMessage(output)
	return ev, nil
}
