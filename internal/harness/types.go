package harness

import "github.com/roach88/tokenmeta/internal/metadata"

// TraceEntry records one executed step.
type TraceEntry struct {
	Seq    int      `json:"seq"`
	Op     string   `json:"op"`
	Scope  string   `json:"scope"`
	Entity uint64   `json:"entity,omitempty"`
	Key    string   `json:"key"`
	Values []string `json:"values"`
	Error  string   `json:"error,omitempty"`
}

// RenderedDocument is the outcome of one document check.
type RenderedDocument struct {
	Label string `json:"label"`
	JSON  string `json:"json,omitempty"`
	URI   string `json:"-"`
	Error string `json:"error,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every step, document and assertion matched.
	Pass bool `json:"pass"`

	// Trace lists executed steps in order.
	Trace []TraceEntry `json:"trace"`

	// Documents lists rendered documents in check order.
	Documents []RenderedDocument `json:"documents"`

	// Events are the change notifications emitted by successful steps.
	Events []metadata.Event `json:"-"`

	// Errors contains mismatch messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:      true,
		Trace:     []TraceEntry{},
		Documents: []RenderedDocument{},
		Errors:    []string{},
	}
}

// AddError records a mismatch and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
