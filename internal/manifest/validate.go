package manifest

import (
	"fmt"
	"slices"

	"github.com/roach88/thevalue/internal/catalog"
)

// Severity of a validation issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one validation finding.
type Issue struct {
	Severity Severity `json:"severity"`
	Field    string   `json:"field"`
	Message  string   `json:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s: %s", i.Severity, i.Field, i.Message)
}

// Validate checks a decoded manifest against a catalog without applying
// it. Errors are conditions Apply would fail on; warnings are selections
// that would install an undefined member.
func Validate(m *Manifest, cat *catalog.Catalog) []Issue {
	var issues []Issue
	add := func(sev Severity, field, format string, args ...any) {
		issues = append(issues, Issue{Severity: sev, Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if m.Name == "" {
		add(SeverityError, "name", "name is required")
	}

	for i, a := range m.Addons {
		field := fmt.Sprintf("addons[%d]", i)
		if a.Keys != nil && a.Rename != nil {
			add(SeverityError, field, "keys and rename are mutually exclusive")
		}

		ext, err := cat.Lookup(a.Extension)
		if err != nil {
			add(SeverityError, field+".extension", "%v", err)
			continue
		}
		names := ext.Names()

		for _, k := range a.Keys {
			if k == "valueOf" {
				add(SeverityError, field+".keys", "%q is reserved", k)
			}
			if !slices.Contains(names, k) {
				add(SeverityWarning, field+".keys", "%s has no property %q; it will be undefined", a.Extension, k)
			}
		}

		froms := make([]string, 0, len(a.Rename))
		for from := range a.Rename {
			froms = append(froms, from)
		}
		slices.Sort(froms)
		for _, from := range froms {
			to := a.Rename[from]
			switch to {
			case "":
				add(SeverityError, field+".rename."+from, "target name must not be empty")
			case "valueOf":
				add(SeverityError, field+".rename."+from, "%q is reserved", to)
			}
			if !slices.Contains(names, from) {
				add(SeverityWarning, field+".rename."+from, "%s has no property %q; %q will be undefined", a.Extension, from, to)
			}
		}
	}
	return issues
}

// HasErrors reports whether any issue is an error.
func HasErrors(issues []Issue) bool {
	return slices.ContainsFunc(issues, func(i Issue) bool { return i.Severity == SeverityError })
}
