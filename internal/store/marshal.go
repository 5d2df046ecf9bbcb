package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/thevalue/internal/canon"
)

// jsonText converts a canonical JSON column value to TEXT. Missing values
// are stored as JSON null so the column stays NOT NULL.
func jsonText(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "null", nil
	}
	if !json.Valid(raw) {
		return "", fmt.Errorf("invalid JSON %q", raw)
	}
	return string(raw), nil
}

// CanonicalJSON encodes a raw value for an Evaluation column.
func CanonicalJSON(v any) (json.RawMessage, error) {
	data, err := canon.MarshalCanonical(v)
	if err != nil {
		return nil, fmt.Errorf("canonical json: %w", err)
	}
	return json.RawMessage(data), nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
