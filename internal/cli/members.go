package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// MembersOptions holds flags for the members command.
type MembersOptions struct {
	*RootOptions
	Manifest string
}

// MemberInfo describes one installed member.
type MemberInfo struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// MembersResult lists a type's members and matchers.
type MembersResult struct {
	TypeID   string       `json:"type_id"`
	Manifest string       `json:"manifest,omitempty"`
	Members  []MemberInfo `json:"members"`
	Matchers []string     `json:"matchers"`
}

// Text prints a name/kind table followed by the matchers.
func (r MembersResult) Text(w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, m := range r.Members {
		fmt.Fprintf(tw, "%s\t%s\n", m.Name, m.Kind)
	}
	for _, name := range r.Matchers {
		fmt.Fprintf(tw, "%s\tmatcher\n", name)
	}
	tw.Flush()
}

// NewMembersCommand creates the members command.
func NewMembersCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MembersOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "members",
		Short: "List the members of a wrapper type",
		Long: `List every member of the base type, or of the type a manifest builds,
with its kind: method, computed(cached), computed(live) or constant.
Type-level matchers are listed last.

Examples:
  thevalue members
  thevalue members --manifest text.cue --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMembers(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Manifest, "manifest", "", "manifest describing the wrapper type")

	return cmd
}

func runMembers(opts *MembersOptions, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)

	typ, err := loadType(opts.Manifest)
	if err != nil {
		return f.fail(ExitCommandError, ErrCodeInvalidManifest, "load manifest", err)
	}

	result := MembersResult{
		TypeID:   typ.ID(),
		Manifest: opts.Manifest,
		Members:  []MemberInfo{},
		Matchers: typ.Matchers(),
	}
	for _, name := range typ.Members() {
		m, _ := typ.Member(name)
		result.Members = append(result.Members, MemberInfo{Name: name, Kind: m.Kind().String()})
	}
	return f.Success(result)
}
