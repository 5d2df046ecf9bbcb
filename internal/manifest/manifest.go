// Package manifest loads declarative addon chains from YAML or CUE files
// and applies them to wrapper types.
//
// A manifest names catalog extensions and the addressing mode to merge
// each one with:
//
//	name: text
//	addons:
//	  - extension: strings
//	    keys: [upper, trim]
//	  - extension: types
//	    rename: {isMap: Map}
//	    getter: true
package manifest

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"gopkg.in/yaml.v3"

	"github.com/roach88/thevalue/internal/catalog"
	"github.com/roach88/thevalue/internal/value"
)

//go:embed schema.cue
var schemaSource string

// Manifest is an ordered chain of addon steps.
type Manifest struct {
	Name        string      `yaml:"name" json:"name"`
	Description string      `yaml:"description,omitempty" json:"description,omitempty"`
	Addons      []AddonSpec `yaml:"addons" json:"addons"`
}

// AddonSpec is one addon call: which catalog extension to merge and how.
type AddonSpec struct {
	Extension string            `yaml:"extension" json:"extension"`
	Keys      []string          `yaml:"keys,omitempty" json:"keys,omitempty"`
	Rename    map[string]string `yaml:"rename,omitempty" json:"rename,omitempty"`
	Getter    bool              `yaml:"getter,omitempty" json:"getter,omitempty"`
	NoCache   bool              `yaml:"no_cache,omitempty" json:"no_cache,omitempty"`
}

// Options converts the entry into addon options.
func (a AddonSpec) Options() []value.AddonOption {
	var opts []value.AddonOption
	if a.Keys != nil {
		opts = append(opts, value.Keys(a.Keys...))
	}
	if a.Rename != nil {
		opts = append(opts, value.Rename(a.Rename))
	}
	if a.Getter {
		opts = append(opts, value.AsGetter())
	}
	if a.NoCache {
		opts = append(opts, value.NoCache())
	}
	return opts
}

// Error reports a manifest that cannot be decoded.
type Error struct {
	File    string
	Field   string
	Message string
	Pos     token.Pos
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Field, e.Message)
	}
	if e.File != "" {
		return fmt.Sprintf("%s: %s: %s", e.File, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Load reads a manifest, choosing the decoder by file extension (.cue,
// .yaml or .yml).
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m *Manifest
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".cue":
		m, err = ParseCUE(data, path)
	case ".yaml", ".yml":
		m, err = Parse(data)
	default:
		return nil, &Error{File: path, Field: "file", Message: fmt.Sprintf("unsupported manifest extension %q", ext)}
	}
	if err != nil {
		var me *Error
		if errors.As(err, &me) && me.File == "" {
			me.File = path
		}
		return nil, err
	}
	slog.Debug("manifest loaded", "path", path, "name", m.Name, "addons", len(m.Addons))
	return m, nil
}

// Parse decodes a YAML manifest. Unknown fields are rejected.
func Parse(data []byte) (*Manifest, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &Error{Field: "yaml", Message: "manifest is empty"}
		}
		return nil, &Error{Field: "yaml", Message: err.Error()}
	}
	if m.Name == "" {
		return nil, &Error{Field: "name", Message: "name is required"}
	}
	for i, a := range m.Addons {
		if a.Extension == "" {
			return nil, &Error{Field: fmt.Sprintf("addons[%d].extension", i), Message: "extension is required"}
		}
	}
	return &m, nil
}

// ParseCUE decodes a CUE manifest after unifying it with the embedded
// #Manifest schema. Definitions are closed, so unknown fields fail.
func ParseCUE(src []byte, filename string) (*Manifest, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile manifest schema: %w", err)
	}

	v := ctx.CompileBytes(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	unified := schema.LookupPath(cue.ParsePath("#Manifest")).Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	var m Manifest
	if err := unified.Decode(&m); err != nil {
		return nil, formatCUEError(err)
	}
	return &m, nil
}

// formatCUEError keeps the first CUE error with its position.
func formatCUEError(err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &Error{Field: "cue", Message: err.Error()}
	}
	first := errs[0]
	e := &Error{Field: "cue", Message: first.Error()}
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		e.Pos = positions[0]
	}
	return e
}

// Apply runs the manifest's addon chain starting from base. Applied to the
// base type, the first step derives a fresh type; later steps extend that
// type in place. An empty chain still yields a fresh type when base is the
// base type, so the result is always safe to extend further.
func Apply(m *Manifest, base *value.Type, cat *catalog.Catalog) (*value.Type, error) {
	t, err := base.Addon(nil)
	if err != nil {
		return nil, err
	}
	for i, a := range m.Addons {
		ext, err := cat.Lookup(a.Extension)
		if err != nil {
			return nil, fmt.Errorf("manifest %q addons[%d]: %w", m.Name, i, err)
		}
		if t, err = t.Addon(ext, a.Options()...); err != nil {
			return nil, fmt.Errorf("manifest %q addons[%d] (%s): %w", m.Name, i, a.Extension, err)
		}
	}
	slog.Info("manifest applied", "manifest", m.Name, "type", t.ID(), "members", len(t.Members()))
	return t, nil
}
