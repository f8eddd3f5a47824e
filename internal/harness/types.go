package harness

import (
	"github.com/roach88/cork/internal/engine"
)

// TraceEvent is one broadcast observed during a scenario, in protocol
// form plus the store revision that produced it.
type TraceEvent struct {
	Type     string  `json:"type"` // "updated" or "failed"
	Revision int64   `json:"revision"`
	Value    *int64  `json:"value,omitempty"`
	Error    *string `json:"error,omitempty"`
	BitWidth int     `json:"bitWidth"`
}

// StepRecord is the observed outcome of one step.
type StepRecord struct {
	Index   int    `json:"index"`
	Kind    string `json:"kind"`
	Outcome string `json:"outcome"`
	Seq     int64  `json:"seq,omitempty"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	Pass bool `json:"pass"`

	// Trace contains every broadcast in order.
	Trace []TraceEvent `json:"trace"`

	// Steps records what each step did.
	Steps []StepRecord `json:"steps"`

	// Errors contains validation error messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Final is the state after the last step.
	Final engine.State `json:"-"`

	// Discarded counts stale completions dropped by the engine.
	Discarded int64 `json:"discarded"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Steps:  []StepRecord{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddMessageTrace appends a broadcast to the trace.
func (r *Result) AddMessageTrace(revision int64, m engine.Message) {
	p := m.Protocol()
	ev := TraceEvent{
		Revision: revision,
		Value:    p.Value,
		Error:    p.Error,
		BitWidth: p.BitWidth,
	}
	switch m.(type) {
	case engine.Updated:
		ev.Type = "updated"
	case engine.Failed:
		ev.Type = "failed"
	}
	r.Trace = append(r.Trace, ev)
}
