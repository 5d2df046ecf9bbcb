package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/thevalue/internal/harness"
	"github.com/roach88/thevalue/internal/store"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	DB     string
	Filter string
	Golden string
	Update bool
}

// ScenarioResult summarizes one scenario run.
type ScenarioResult struct {
	Name     string   `json:"name"`
	File     string   `json:"file"`
	RunID    string   `json:"run_id,omitempty"`
	Pass     bool     `json:"pass"`
	Cases    int      `json:"cases"`
	Failures int      `json:"failures"`
	Errors   []string `json:"errors,omitempty"`
}

// CheckResult summarizes a check command.
type CheckResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// Text prints one line per scenario, its errors and a summary.
func (r CheckResult) Text(w io.Writer) {
	for _, s := range r.Scenarios {
		mark := "✓"
		if !s.Pass {
			mark = "✗"
		}
		fmt.Fprintf(w, "%s %s (%d cases)\n", mark, s.Name, s.Cases)
		for _, e := range s.Errors {
			fmt.Fprintf(w, "    %s\n", e)
		}
	}
	fmt.Fprintf(w, "\n%d passed, %d failed, %d total\n", r.Passed, r.Failed, r.Total)
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check <scenarios-dir>",
		Short: "Run check scenarios",
		Long: `Run every scenario file (*.yaml, *.yml) in a directory. Each scenario
builds a wrapper type, evaluates its cases in order and checks its
assertions. With --db each run and evaluation is recorded in SQLite.
With --golden each trace is compared with <dir>/<name>.golden, or
written there when --update is given.

Exit codes:
  0 - all scenarios passed
  1 - at least one scenario failed
  2 - command error (missing directory, unreadable scenario, store error)

Examples:
  thevalue check testdata/scenarios
  thevalue check scenarios --db runs.db --filter 'str*'
  thevalue check scenarios --golden testdata/golden --update`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "", "SQLite database recording the runs (default in-memory)")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "glob over scenario file names")
	cmd.Flags().StringVar(&opts.Golden, "golden", "", "directory of golden trace snapshots")
	cmd.Flags().BoolVar(&opts.Update, "update", false, "rewrite golden snapshots instead of comparing")

	return cmd
}

func runCheck(opts *CheckOptions, dir string, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)
	ctx := cmd.Context()

	info, err := os.Stat(dir)
	if err != nil {
		return f.fail(ExitCommandError, ErrCodeNotFound, "scenario directory", err)
	}
	if !info.IsDir() {
		return f.fail(ExitCommandError, ErrCodeNotFound, "scenario directory", fmt.Errorf("%s is not a directory", dir))
	}

	files, err := harness.Discover(dir, opts.Filter)
	if err != nil {
		return f.fail(ExitCommandError, ErrCodeGeneric, "discover scenarios", err)
	}

	var st *store.Store
	if opts.DB != "" {
		st, err = store.Open(opts.DB)
		if err != nil {
			return f.fail(ExitCommandError, ErrCodeStore, "open store", err)
		}
		defer st.Close()
	}

	result := CheckResult{Scenarios: []ScenarioResult{}}
	for _, file := range files {
		scenario, err := harness.LoadScenario(file)
		if err != nil {
			return f.fail(ExitCommandError, ErrCodeGeneric, "load scenario", err)
		}

		slog.Debug("running scenario", "scenario", scenario.Name, "file", file)
		run, err := harness.RunWithOptions(ctx, scenario, harness.Options{
			Store:  st,
			RunIDs: harness.UUIDRunIDs{},
			Logger: slog.Default(),
		})
		if err != nil {
			return f.fail(ExitCommandError, ErrCodeGeneric, "run scenario "+scenario.Name, err)
		}

		sr := ScenarioResult{
			Name:     scenario.Name,
			File:     file,
			RunID:    run.RunID,
			Pass:     run.Pass,
			Cases:    len(run.Trace),
			Failures: len(run.Errors),
			Errors:   run.Errors,
		}
		if opts.Golden != "" {
			msg, err := checkGolden(opts.Golden, scenario.Name, run, opts.Update)
			if err != nil {
				return f.fail(ExitCommandError, ErrCodeGeneric, "golden "+scenario.Name, err)
			}
			if msg != "" {
				sr.Pass = false
				sr.Failures++
				sr.Errors = append(sr.Errors, msg)
				if st != nil {
					if err := st.FinishRun(ctx, run.RunID, sr.Cases, sr.Failures); err != nil {
						return f.fail(ExitCommandError, ErrCodeStore, "record golden failure", err)
					}
				}
			}
		}

		result.Scenarios = append(result.Scenarios, sr)
		result.Total++
		if sr.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
	}

	if result.Failed > 0 {
		msg := fmt.Sprintf("%d of %d scenarios failed", result.Failed, result.Total)
		_ = f.Failure(ErrCodeCheckFailed, msg, result)
		return NewExitError(ExitFailure, ErrCodeCheckFailed+": "+msg)
	}
	return f.Success(result)
}

// checkGolden compares a run's snapshot with <dir>/<name>.golden, or
// writes it when update is set. A mismatch or a missing file is returned
// as a failure message; err is reserved for I/O problems.
func checkGolden(dir, name string, run *harness.Result, update bool) (string, error) {
	data, err := harness.Snapshot(name, run)
	if err != nil {
		return "", err
	}
	file := filepath.Join(dir, name+".golden")

	if update {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", err
		}
		return "", os.WriteFile(file, data, 0o644)
	}

	want, err := os.ReadFile(file)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Sprintf("golden: %s missing (run with --update)", file), nil
	}
	if err != nil {
		return "", err
	}
	if !bytes.Equal(want, data) {
		return fmt.Sprintf("golden: trace differs from %s", file), nil
	}
	return "", nil
}
