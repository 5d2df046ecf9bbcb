package store

import "encoding/json"

// Run is one execution of a check scenario.
type Run struct {
	ID       string `json:"id"`
	Scenario string `json:"scenario"`
	Manifest string `json:"manifest,omitempty"`
	TypeID   string `json:"type_id"`
	Cases    int    `json:"cases"`
	Failures int    `json:"failures"`
	Finished bool   `json:"finished"`
	Pass     bool   `json:"pass"`
}

// Evaluation is one member evaluation within a run.
type Evaluation struct {
	ID        string          `json:"id"`
	RunID     string          `json:"run_id"`
	Seq       int64           `json:"seq"`
	Case      string          `json:"case"`
	Member    string          `json:"member"`
	Static    bool            `json:"static,omitempty"`
	Input     json.RawMessage `json:"input"`
	Args      json.RawMessage `json:"args"`
	Output    json.RawMessage `json:"output"`
	ErrorCode string          `json:"error_code,omitempty"`
	Error     string          `json:"error,omitempty"`
	Pass      bool            `json:"pass"`
}
