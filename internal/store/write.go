package store

import (
	"context"
	"errors"
	"fmt"
)

// ErrRunNotFound is returned when finishing a run that was never written.
var ErrRunNotFound = errors.New("run not found")

// WriteRun records the start of a run. Writing the same ID twice is a
// no-op.
func (s *Store) WriteRun(ctx context.Context, run Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, scenario, manifest, type_id)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, run.ID, run.Scenario, run.Manifest, run.TypeID)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	return nil
}

// FinishRun stores the case tally of a run and marks it finished. The run
// passes when failures is zero.
func (s *Store) FinishRun(ctx context.Context, id string, cases, failures int) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE runs SET cases = ?, failures = ?, finished = 1, pass = ?
		WHERE id = ?
	`, cases, failures, boolInt(failures == 0), id)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("finish run %q: %w", id, ErrRunNotFound)
	}
	return nil
}

// WriteEvaluation appends one evaluation. The run must exist. Duplicate
// IDs and duplicate (run_id, seq) pairs are silently ignored, so replaying
// a recorded run is idempotent.
func (s *Store) WriteEvaluation(ctx context.Context, ev Evaluation) error {
	input, err := jsonText(ev.Input)
	if err != nil {
		return fmt.Errorf("write evaluation input: %w", err)
	}
	args, err := jsonText(ev.Args)
	if err != nil {
		return fmt.Errorf("write evaluation args: %w", err)
	}
	output, err := jsonText(ev.Output)
	if err != nil {
		return fmt.Errorf("write evaluation output: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO evaluations
		(id, run_id, seq, case_name, member, static, input, args, output, error_code, error, pass)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`,
		ev.ID,
		ev.RunID,
		ev.Seq,
		ev.Case,
		ev.Member,
		boolInt(ev.Static),
		input,
		args,
		output,
		ev.ErrorCode,
		ev.Error,
		boolInt(ev.Pass),
	)
	if err != nil {
		return fmt.Errorf("write evaluation: %w", err)
	}
	return nil
}
