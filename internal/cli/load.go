package cli

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/roach88/thevalue/internal/canon"
	"github.com/roach88/thevalue/internal/catalog"
	"github.com/roach88/thevalue/internal/manifest"
	"github.com/roach88/thevalue/internal/value"
)

// loadType returns the type described by a manifest, or value.Base when
// no manifest is given.
func loadType(manifestPath string) (*value.Type, error) {
	if manifestPath == "" {
		return value.Base, nil
	}
	m, err := manifest.Load(manifestPath)
	if err != nil {
		return nil, err
	}
	return manifest.Apply(m, value.Base, catalog.Default())
}

// parseYAMLValue decodes a command-line value written as YAML: "1" is a
// number, "[a, b]" a sequence, "{a: 1}" an object and anything else that
// is not valid YAML syntax an error.
func parseYAMLValue(src string) (any, error) {
	var v any
	if err := yaml.Unmarshal([]byte(src), &v); err != nil {
		return nil, fmt.Errorf("parse %q: %w", src, err)
	}
	return v, nil
}

func parseYAMLValues(srcs []string) ([]any, error) {
	out := make([]any, len(srcs))
	for i, src := range srcs {
		v, err := parseYAMLValue(src)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		out[i] = v
	}
	return out, nil
}

// canonicalJSON renders v for output. Values without a canonical form
// (NaN, infinities) fall back to their string coercion.
func canonicalJSON(v any) json.RawMessage {
	data, err := canon.MarshalCanonical(v)
	if err != nil {
		data = canon.MustMarshalCanonical(value.ToString(v))
	}
	return json.RawMessage(data)
}
