package cli

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/thevalue/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	DB       string
	Limit    int
	Failures bool
}

// RunList is the output of history without a run ID.
type RunList struct {
	Runs []store.Run `json:"runs"`
}

// Text prints one row per run.
func (r RunList) Text(w io.Writer) {
	if len(r.Runs) == 0 {
		fmt.Fprintln(w, "no runs")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tSCENARIO\tCASES\tFAILURES\tSTATUS")
	for _, run := range r.Runs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n", run.ID, run.Scenario, run.Cases, run.Failures, runStatus(run))
	}
	tw.Flush()
}

// RunDetail is the output of history for one run.
type RunDetail struct {
	Run         store.Run          `json:"run"`
	Evaluations []store.Evaluation `json:"evaluations"`
}

// Text prints the run header and its evaluations in order.
func (r RunDetail) Text(w io.Writer) {
	fmt.Fprintf(w, "run %s (%s) %s\n", r.Run.ID, r.Run.Scenario, runStatus(r.Run))
	if r.Run.Manifest != "" {
		fmt.Fprintf(w, "manifest %s\n", r.Run.Manifest)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, ev := range r.Evaluations {
		out := string(ev.Output)
		if ev.ErrorCode != "" {
			out = "error " + ev.ErrorCode
		}
		mark := "✓"
		if !ev.Pass {
			mark = "✗"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", ev.Seq, mark, ev.Case, ev.Member, out)
	}
	tw.Flush()
}

func runStatus(run store.Run) string {
	switch {
	case !run.Finished:
		return "unfinished"
	case run.Pass:
		return "pass"
	}
	return "fail"
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Browse recorded check runs",
		Long: `List the runs recorded by check --db, newest first, or show the
evaluations of one run in sequence order.

Examples:
  thevalue history --db runs.db
  thevalue history --db runs.db 0192f1c4-... --failures`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runID := ""
			if len(args) == 1 {
				runID = args[0]
			}
			return runHistory(opts, runID, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "", "SQLite database written by check (required)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum runs to list (0 for all)")
	cmd.Flags().BoolVar(&opts.Failures, "failures", false, "show only failed evaluations")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runHistory(opts *HistoryOptions, runID string, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)
	ctx := cmd.Context()

	st, err := store.Open(opts.DB)
	if err != nil {
		return f.fail(ExitCommandError, ErrCodeStore, "open store", err)
	}
	defer st.Close()

	if runID == "" {
		runs, err := st.ListRuns(ctx, opts.Limit)
		if err != nil {
			return f.fail(ExitFailure, ErrCodeStore, "list runs", err)
		}
		return f.Success(RunList{Runs: runs})
	}

	run, err := st.ReadRun(ctx, runID)
	if errors.Is(err, sql.ErrNoRows) {
		return f.fail(ExitCommandError, ErrCodeNotFound, "run "+runID+" not found", nil)
	}
	if err != nil {
		return f.fail(ExitFailure, ErrCodeStore, "read run", err)
	}

	read := st.ReadEvaluations
	if opts.Failures {
		read = st.ReadFailures
	}
	evs, err := read(ctx, runID)
	if err != nil {
		return f.fail(ExitFailure, ErrCodeStore, "read evaluations", err)
	}
	return f.Success(RunDetail{Run: run, Evaluations: evs})
}
