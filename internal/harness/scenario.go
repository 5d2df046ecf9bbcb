package harness

import (
	"bytes"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/roach88/thevalue/internal/manifest"
)

// Scenario is a check file: a wrapper type built from a manifest and
// inline addons, and a list of member evaluations against it.
type Scenario struct {
	// Name uniquely identifies the scenario and names its golden file.
	Name string `yaml:"name"`

	Description string `yaml:"description"`

	// Manifest is an optional manifest path. Relative paths are resolved
	// against the scenario file's directory by LoadScenario.
	Manifest string `yaml:"manifest,omitempty"`

	// Addons are applied after the manifest's chain.
	Addons []manifest.AddonSpec `yaml:"addons,omitempty"`

	// RunID fixes the run ID for deterministic evaluation IDs. When empty
	// the harness options supply one.
	RunID string `yaml:"run_id,omitempty"`

	Cases []Case `yaml:"cases"`

	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Case evaluates one member against one raw value.
type Case struct {
	Name   string `yaml:"name"`
	Value  any    `yaml:"value"`
	Member string `yaml:"member"`
	Args   []any  `yaml:"args,omitempty"`

	// Pattern appends a regular-expression matcher to Args.
	Pattern string `yaml:"pattern,omitempty"`

	// Matcher appends a named type-level matcher (ARRAY, DECIMAL, ...).
	Matcher string `yaml:"matcher,omitempty"`

	// Static evaluates through the type's free form instead of an instance.
	Static bool `yaml:"static,omitempty"`

	// Call forces a call even when the member is not a method.
	Call bool `yaml:"call,omitempty"`

	// Expect is the expected output. An absent node means any successful
	// output passes; an explicit null expects null or undefined.
	Expect yaml.Node `yaml:"expect,omitempty"`

	// ExpectError is the expected error code, e.g. UNKNOWN_MEMBER.
	ExpectError string `yaml:"expect_error,omitempty"`
}

// HasExpect reports whether the case declares an expected output.
func (c *Case) HasExpect() bool {
	return c.Expect.Kind != 0
}

// Expected decodes the expected output.
func (c *Case) Expected() (any, error) {
	var v any
	if err := c.Expect.Decode(&v); err != nil {
		return nil, fmt.Errorf("case %q: decode expect: %w", c.Name, err)
	}
	return v, nil
}

// Assertion types over a finished run.
const (
	AssertMembersInclude = "members_include"
	AssertMembersExclude = "members_exclude"
	AssertMemberKind     = "member_kind"
	AssertTraceCount     = "trace_count"
)

// Assertion checks the built type or the trace after all cases ran.
type Assertion struct {
	Type    string   `yaml:"type"`
	Members []string `yaml:"members,omitempty"`
	Member  string   `yaml:"member,omitempty"`
	Kind    string   `yaml:"kind,omitempty"`
	Count   int      `yaml:"count,omitempty"`
}

// LoadScenario reads a scenario file. Unknown fields are rejected and a
// relative manifest path is resolved against the file's directory.
func LoadScenario(file string) (*Scenario, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}

	s, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	if s.Manifest != "" && !filepath.IsAbs(s.Manifest) {
		s.Manifest = filepath.Join(filepath.Dir(file), s.Manifest)
	}
	return s, nil
}

// ParseScenario decodes and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var s Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}
	if err := validateScenario(&s); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &s, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(s.Cases) == 0 {
		return fmt.Errorf("cases list is required and must be non-empty")
	}

	for i, a := range s.Addons {
		if a.Extension == "" {
			return fmt.Errorf("addons[%d]: extension is required", i)
		}
	}

	names := make(map[string]bool, len(s.Cases))
	for i, c := range s.Cases {
		if c.Name == "" {
			return fmt.Errorf("cases[%d]: name is required", i)
		}
		if names[c.Name] {
			return fmt.Errorf("cases[%d]: duplicate case name %q", i, c.Name)
		}
		names[c.Name] = true
		if c.Member == "" {
			return fmt.Errorf("cases[%d]: member is required", i)
		}
		if c.HasExpect() && c.ExpectError != "" {
			return fmt.Errorf("cases[%d]: expect and expect_error are mutually exclusive", i)
		}
		if c.Pattern != "" {
			if _, err := regexp.Compile(c.Pattern); err != nil {
				return fmt.Errorf("cases[%d]: pattern: %w", i, err)
			}
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, a); err != nil {
			return err
		}
	}
	return nil
}

func validateAssertion(index int, a Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertMembersInclude, AssertMembersExclude:
		if len(a.Members) == 0 {
			return fmt.Errorf("assertions[%d]: members list is required for %s", index, a.Type)
		}
	case AssertMemberKind:
		if a.Member == "" || a.Kind == "" {
			return fmt.Errorf("assertions[%d]: member and kind are required for member_kind", index)
		}
	case AssertTraceCount:
		if a.Member == "" {
			return fmt.Errorf("assertions[%d]: member is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}

// Discover lists the scenario files (*.yaml, *.yml) directly inside dir
// whose base names match the glob filter; an empty filter matches all.
// The result is sorted.
func Discover(dir, filter string) ([]string, error) {
	if filter != "" {
		if _, err := path.Match(filter, ""); err != nil {
			return nil, fmt.Errorf("bad filter %q: %w", filter, err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read scenario dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if ext := filepath.Ext(name); ext != ".yaml" && ext != ".yml" {
			continue
		}
		if filter != "" {
			if ok, _ := path.Match(filter, name); !ok {
				continue
			}
		}
		files = append(files, filepath.Join(dir, name))
	}
	slices.Sort(files)
	return files, nil
}
