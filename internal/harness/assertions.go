package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/thevalue/internal/value"
)

// AssertionError describes a failed assertion.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	return fmt.Sprintf("assertion failed: %s: expected %s, actual %s", e.Type, e.Expected, e.Actual)
}

// EvaluateAssertions checks each assertion against the built type and the
// trace and returns one message per failure.
func EvaluateAssertions(result *Result, typ *value.Type, assertions []Assertion) []string {
	var failures []string
	for i, a := range assertions {
		var err error
		switch a.Type {
		case AssertMembersInclude:
			err = assertMembersInclude(typ, a)
		case AssertMembersExclude:
			err = assertMembersExclude(typ, a)
		case AssertMemberKind:
			err = assertMemberKind(typ, a)
		case AssertTraceCount:
			err = assertTraceCount(result.Trace, a)
		default:
			err = fmt.Errorf("unknown assertion type %q", a.Type)
		}
		if err != nil {
			failures = append(failures, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return failures
}

func assertMembersInclude(typ *value.Type, a Assertion) error {
	var missing []string
	for _, name := range a.Members {
		if _, ok := typ.Member(name); !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &AssertionError{
		Type:     a.Type,
		Expected: "members " + strings.Join(a.Members, ", "),
		Actual:   "missing " + strings.Join(missing, ", "),
	}
}

func assertMembersExclude(typ *value.Type, a Assertion) error {
	var present []string
	for _, name := range a.Members {
		if _, ok := typ.Member(name); ok {
			present = append(present, name)
		}
	}
	if len(present) == 0 {
		return nil
	}
	return &AssertionError{
		Type:     a.Type,
		Expected: "no members " + strings.Join(a.Members, ", "),
		Actual:   "present " + strings.Join(present, ", "),
	}
}

func assertMemberKind(typ *value.Type, a Assertion) error {
	m, ok := typ.Member(a.Member)
	if !ok {
		return &AssertionError{Type: a.Type, Expected: a.Member + " " + a.Kind, Actual: "no such member"}
	}
	if got := m.Kind().String(); got != a.Kind {
		return &AssertionError{Type: a.Type, Expected: a.Member + " " + a.Kind, Actual: got}
	}
	return nil
}

func assertTraceCount(trace []TraceEvent, a Assertion) error {
	n := 0
	for _, ev := range trace {
		if ev.Member == a.Member {
			n++
		}
	}
	if n != a.Count {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("%d evaluations of %s", a.Count, a.Member),
			Actual:   fmt.Sprintf("%d", n),
		}
	}
	return nil
}
