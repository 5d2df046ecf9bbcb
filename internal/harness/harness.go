package harness

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"slices"

	"github.com/google/uuid"

	"github.com/roach88/thevalue/internal/canon"
	"github.com/roach88/thevalue/internal/catalog"
	"github.com/roach88/thevalue/internal/manifest"
	"github.com/roach88/thevalue/internal/store"
	"github.com/roach88/thevalue/internal/testutil"
	"github.com/roach88/thevalue/internal/value"
)

// RunIDGenerator produces the ID of each run.
type RunIDGenerator interface {
	Generate() string
}

// UUIDRunIDs generates UUIDv7 run IDs, which sort by creation time.
type UUIDRunIDs struct{}

// Generate returns a fresh UUIDv7 string.
func (UUIDRunIDs) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Options configure a run. Zero fields get deterministic defaults.
type Options struct {
	// Store receives the run record. Nil runs against a fresh in-memory
	// store that is closed afterwards.
	Store *store.Store

	// Catalog resolves extension names. Nil means catalog.Default().
	Catalog *catalog.Catalog

	// Base is the type the addon chain starts from. Nil means value.Base.
	Base *value.Type

	// RunIDs generates the run ID. Nil uses the scenario's run_id, or
	// "test-run-default".
	RunIDs RunIDGenerator

	// Logger receives per-case logs. Nil discards them.
	Logger *slog.Logger
}

// Harness evaluates the cases of one scenario.
type Harness struct {
	store  *store.Store
	typ    *value.Type
	clock  *testutil.DeterministicClock
	runID  string
	logger *slog.Logger
}

// Run executes a scenario with default options: in-memory store, default
// catalog, fixed run ID and discarded logs.
func Run(scenario *Scenario) (*Result, error) {
	return RunWithOptions(context.Background(), scenario, Options{})
}

// RunWithOptions executes a scenario. It returns an error only when the
// scenario cannot be set up or recorded; failing cases are reported in
// the Result.
//
// Execution:
//  1. build the wrapper type from the manifest and inline addons
//  2. record the run
//  3. evaluate every case in order, one clock tick each, recording it
//  4. evaluate the assertions and finish the run with its tally
func RunWithOptions(ctx context.Context, scenario *Scenario, opts Options) (*Result, error) {
	cat := opts.Catalog
	if cat == nil {
		cat = catalog.Default()
	}
	base := opts.Base
	if base == nil {
		base = value.Base
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	typ, err := BuildType(scenario, base, cat)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", scenario.Name, err)
	}

	st := opts.Store
	if st == nil {
		st, err = store.Open(":memory:")
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		defer st.Close()
	}

	gen := opts.RunIDs
	if gen == nil {
		gen = testutil.NewFixedRunIDGenerator(scenario.RunID)
	}

	h := &Harness{
		store:  st,
		typ:    typ,
		clock:  testutil.NewDeterministicClock(),
		runID:  gen.Generate(),
		logger: logger,
	}
	return h.run(ctx, scenario)
}

// BuildType applies a scenario's manifest (if any) and then its inline
// addons, starting from base.
func BuildType(scenario *Scenario, base *value.Type, cat *catalog.Catalog) (*value.Type, error) {
	var typ *value.Type
	if scenario.Manifest != "" {
		m, err := manifest.Load(scenario.Manifest)
		if err != nil {
			return nil, err
		}
		if typ, err = manifest.Apply(m, base, cat); err != nil {
			return nil, err
		}
	} else {
		var err error
		if typ, err = base.Addon(nil); err != nil {
			return nil, err
		}
	}

	for i, a := range scenario.Addons {
		ext, err := cat.Lookup(a.Extension)
		if err != nil {
			return nil, fmt.Errorf("addons[%d]: %w", i, err)
		}
		if typ, err = typ.Addon(ext, a.Options()...); err != nil {
			return nil, fmt.Errorf("addons[%d] (%s): %w", i, a.Extension, err)
		}
	}
	return typ, nil
}

func (h *Harness) run(ctx context.Context, scenario *Scenario) (*Result, error) {
	result := NewResult()
	result.RunID = h.runID
	result.TypeID = h.typ.ID()

	if err := h.store.WriteRun(ctx, store.Run{
		ID:       h.runID,
		Scenario: scenario.Name,
		Manifest: scenario.Manifest,
		TypeID:   h.typ.ID(),
	}); err != nil {
		return nil, err
	}

	for i := range scenario.Cases {
		c := &scenario.Cases[i]
		ev := h.evaluate(c)
		if !ev.Pass {
			result.AddError(caseFailure(c, ev))
		}
		result.Trace = append(result.Trace, ev)

		if err := h.record(ctx, ev); err != nil {
			return nil, fmt.Errorf("case %q: %w", c.Name, err)
		}

		h.logger.Info("case evaluated",
			"seq", ev.Seq,
			"case", ev.Case,
			"member", ev.Member,
			"static", ev.Static,
			"pass", ev.Pass,
		)
	}

	for _, msg := range EvaluateAssertions(result, h.typ, scenario.Assertions) {
		result.AddError(msg)
	}

	if err := h.store.FinishRun(ctx, h.runID, len(scenario.Cases), len(result.Errors)); err != nil {
		return nil, err
	}
	return result, nil
}

// evaluate runs one case. The clock advances exactly once per case.
func (h *Harness) evaluate(c *Case) TraceEvent {
	ev := TraceEvent{
		Seq:    h.clock.Next(),
		Case:   c.Name,
		Member: c.Member,
		Static: c.Static,
		Input:  c.Value,
	}

	args, err := h.caseArgs(c)
	ev.Args = args
	if err == nil {
		// Addressed before invoking: members like set mutate the input.
		ev.ID, err = canon.EvaluationID(h.runID, ev.Seq, c.Member, c.Value, args)
		ev.Input = snapshot(c.Value)
	}
	var out any
	if err == nil {
		out, err = h.invoke(c, args)
	}

	if err != nil {
		ev.ErrorCode = string(value.Code(err))
		ev.Error = err.Error()
		ev.Pass = c.ExpectError != "" && ev.ErrorCode == c.ExpectError
		return ev
	}

	if _, err := canon.MarshalCanonical(out); err != nil {
		ev.Output = value.ToString(out)
		ev.Error = fmt.Sprintf("output: %v", err)
		return ev
	}
	ev.Output = out
	ev.Pass, ev.Error = checkOutput(c, out)
	return ev
}

// snapshot copies a value through its canonical JSON form. Values without
// one are returned unchanged.
func snapshot(v any) any {
	data, err := canon.MarshalCanonical(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return v
	}
	return out
}

func (h *Harness) caseArgs(c *Case) ([]any, error) {
	args := slices.Clone(c.Args)
	if args == nil {
		args = []any{}
	}
	if c.Pattern != "" {
		re, err := regexp.Compile(c.Pattern)
		if err != nil {
			return args, err
		}
		args = append(args, value.Pattern(re))
	}
	if c.Matcher != "" {
		m, ok := h.typ.Matcher(c.Matcher)
		if !ok {
			return args, fmt.Errorf("unknown matcher %q", c.Matcher)
		}
		args = append(args, m)
	}
	return args, nil
}

// invoke dispatches a case: static cases go through Type.Invoke with the
// value first; instance cases call methods and read everything else as a
// property unless Call is set.
func (h *Harness) invoke(c *Case, args []any) (any, error) {
	if c.Static {
		return h.typ.Invoke(c.Member, append([]any{c.Value}, args...)...)
	}
	w := h.typ.Of(c.Value)
	m, ok := h.typ.Member(c.Member)
	if c.Call || !ok || m.Kind() == value.MemberMethod {
		return w.Call(c.Member, args...)
	}
	return w.Prop(c.Member)
}

// checkOutput compares a successful output with the case's expectations
// by canonical encoding.
func checkOutput(c *Case, out any) (bool, string) {
	if c.ExpectError != "" {
		return false, fmt.Sprintf("expected error %s, got output", c.ExpectError)
	}
	if !c.HasExpect() {
		return true, ""
	}

	want, err := c.Expected()
	if err != nil {
		return false, err.Error()
	}
	wantJSON, err := canon.MarshalCanonical(want)
	if err != nil {
		return false, fmt.Sprintf("expect: %v", err)
	}
	gotJSON, err := canon.MarshalCanonical(out)
	if err != nil {
		return false, fmt.Sprintf("output: %v", err)
	}
	if !bytes.Equal(wantJSON, gotJSON) {
		return false, fmt.Sprintf("expected %s, got %s", wantJSON, gotJSON)
	}
	return true, ""
}

func caseFailure(c *Case, ev TraceEvent) string {
	switch {
	case ev.ErrorCode != "" && c.ExpectError != "":
		return fmt.Sprintf("case %q: expected error %s, got %s", c.Name, c.ExpectError, ev.ErrorCode)
	case ev.Error != "":
		return fmt.Sprintf("case %q: %s", c.Name, ev.Error)
	}
	return fmt.Sprintf("case %q failed", c.Name)
}

// record writes a trace event to the store.
func (h *Harness) record(ctx context.Context, ev TraceEvent) error {
	if ev.ID == "" {
		// Values without a canonical form cannot be addressed; the failure
		// is already in the result.
		return nil
	}
	input, err := store.CanonicalJSON(ev.Input)
	if err != nil {
		return err
	}
	args, err := store.CanonicalJSON(ev.Args)
	if err != nil {
		return err
	}
	output, err := store.CanonicalJSON(ev.Output)
	if err != nil {
		return err
	}
	return h.store.WriteEvaluation(ctx, store.Evaluation{
		ID:        ev.ID,
		RunID:     h.runID,
		Seq:       ev.Seq,
		Case:      ev.Case,
		Member:    ev.Member,
		Static:    ev.Static,
		Input:     input,
		Args:      args,
		Output:    output,
		ErrorCode: ev.ErrorCode,
		Error:     ev.Error,
		Pass:      ev.Pass,
	})
}
