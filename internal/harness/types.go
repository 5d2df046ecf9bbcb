package harness

// TraceEvent records one evaluated case.
type TraceEvent struct {
	Seq       int64  `json:"seq"`
	ID        string `json:"id"`
	Case      string `json:"case"`
	Member    string `json:"member"`
	Static    bool   `json:"static,omitempty"`
	Input     any    `json:"input"`
	Args      []any  `json:"args"`
	Output    any    `json:"output"`
	ErrorCode string `json:"error_code,omitempty"`
	Error     string `json:"error,omitempty"`
	Pass      bool   `json:"pass"`
}

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true when every case and assertion held.
	Pass bool `json:"pass"`

	RunID  string `json:"run_id"`
	TypeID string `json:"type_id"`

	// Trace holds the cases in evaluation order.
	Trace []TraceEvent `json:"trace"`

	// Errors describes each failed case or assertion.
	Errors []string `json:"errors,omitempty"`
}

// NewResult returns a passing, empty result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError records a failure.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Failures counts the failed trace events.
func (r *Result) Failures() int {
	n := 0
	for _, ev := range r.Trace {
		if !ev.Pass {
			n++
		}
	}
	return n
}
