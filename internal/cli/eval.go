package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/thevalue/internal/value"
)

// EvalOptions holds flags for the eval command.
type EvalOptions struct {
	*RootOptions
	Value    string
	Manifest string
	Static   bool
	Call     bool
}

// EvalResult is the output of one member evaluation.
type EvalResult struct {
	Member string          `json:"member"`
	Kind   string          `json:"kind"`
	Static bool            `json:"static,omitempty"`
	Input  json.RawMessage `json:"input"`
	Args   json.RawMessage `json:"args"`
	Output json.RawMessage `json:"output"`
}

// Text prints the output alone.
func (r EvalResult) Text(w io.Writer) {
	fmt.Fprintln(w, string(r.Output))
}

// NewEvalCommand creates the eval command.
func NewEvalCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EvalOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "eval <member> [args...]",
		Short: "Evaluate a member against a value",
		Long: `Evaluate one member of a wrapper type against a raw value.

The value and every argument are parsed as YAML. Methods are called with
the arguments; computed members and constants are read as properties
unless --call is given. --static uses the type-level form, where the
value is passed as the first argument.

Exit codes:
  0 - evaluated
  1 - the member failed (unknown member, not callable, bad argument, ...)
  2 - command error (bad manifest, unparsable value)

Examples:
  thevalue eval Type --value '[1, 2]'
  thevalue eval range 1 10 --value 5 --static
  thevalue eval upper --value hi --manifest text.yaml
  thevalue eval get a.b --value '{a: {b: 7}}' --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(opts, args[0], args[1:], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Value, "value", "", "raw value as YAML (default undefined)")
	cmd.Flags().StringVar(&opts.Manifest, "manifest", "", "manifest describing the wrapper type")
	cmd.Flags().BoolVar(&opts.Static, "static", false, "evaluate the type-level form")
	cmd.Flags().BoolVar(&opts.Call, "call", false, "call the member even when it is not a method")

	return cmd
}

func runEval(opts *EvalOptions, member string, rawArgs []string, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)

	typ, err := loadType(opts.Manifest)
	if err != nil {
		return f.fail(ExitCommandError, ErrCodeInvalidManifest, "load manifest", err)
	}

	var input any = value.Undefined
	if cmd.Flags().Changed("value") {
		if input, err = parseYAMLValue(opts.Value); err != nil {
			return f.fail(ExitCommandError, ErrCodeInvalidValue, "invalid --value", err)
		}
	}
	args, err := parseYAMLValues(rawArgs)
	if err != nil {
		return f.fail(ExitCommandError, ErrCodeInvalidValue, "invalid argument", err)
	}

	result := EvalResult{
		Member: member,
		Kind:   memberKind(typ, member),
		Static: opts.Static,
		Input:  canonicalJSON(input),
		Args:   canonicalJSON(args),
	}

	out, err := evaluate(typ, member, input, args, opts.Static, opts.Call)
	if err != nil {
		code := string(value.Code(err))
		if code == "" {
			code = ErrCodeGeneric
		}
		_ = f.Error(code, err.Error(), result)
		return WrapExitError(ExitFailure, "evaluation failed", err)
	}
	result.Output = canonicalJSON(out)
	return f.Success(result)
}

// evaluate dispatches like the check harness: static through Invoke,
// methods called, everything else read as a property.
func evaluate(typ *value.Type, member string, input any, args []any, static, call bool) (any, error) {
	if static {
		return typ.Invoke(member, append([]any{input}, args...)...)
	}
	w := typ.Of(input)
	m, ok := typ.Member(member)
	if call || !ok || m.Kind() == value.MemberMethod {
		return w.Call(member, args...)
	}
	return w.Prop(member)
}

func memberKind(typ *value.Type, name string) string {
	if m, ok := typ.Member(name); ok {
		return m.Kind().String()
	}
	if _, ok := typ.Matcher(name); ok {
		return "matcher"
	}
	return "unknown"
}
