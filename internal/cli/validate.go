package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/thevalue/internal/catalog"
	"github.com/roach88/thevalue/internal/manifest"
)

// ValidationResult holds the findings for one manifest.
type ValidationResult struct {
	Valid  bool             `json:"valid"`
	Name   string           `json:"name,omitempty"`
	Issues []manifest.Issue `json:"issues,omitempty"`
}

// Text prints a verdict line and one line per issue.
func (r ValidationResult) Text(w io.Writer) {
	if r.Valid {
		fmt.Fprintf(w, "✓ manifest %s valid\n", r.Name)
	} else {
		fmt.Fprintf(w, "✗ manifest %s invalid\n", r.Name)
	}
	for _, is := range r.Issues {
		fmt.Fprintf(w, "  %s\n", is)
	}
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <manifest>",
		Short: "Validate a manifest without applying it",
		Long: `Decode a YAML or CUE manifest and check it against the extension
catalog: unknown extensions, conflicting keys and rename, empty or
reserved member names are errors; selecting a property the extension
does not have is a warning.

Exit codes:
  0 - valid (warnings allowed)
  1 - the manifest has errors
  2 - the manifest cannot be read or decoded`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)

	m, err := manifest.Load(path)
	if err != nil {
		return f.fail(ExitCommandError, ErrCodeInvalidManifest, "load manifest", err)
	}

	issues := manifest.Validate(m, catalog.Default())
	result := ValidationResult{
		Valid:  !manifest.HasErrors(issues),
		Name:   m.Name,
		Issues: issues,
	}
	if !result.Valid {
		msg := fmt.Sprintf("manifest %s has errors", m.Name)
		_ = f.Failure(ErrCodeInvalidManifest, msg, result)
		return NewExitError(ExitFailure, msg)
	}
	return f.Success(result)
}
