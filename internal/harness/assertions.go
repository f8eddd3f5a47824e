package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/cork/internal/engine"
)

// AssertionError is returned when an assertion fails.
// It includes the full trace to help debug the failure.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	Trace    []TraceEvent
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for i, ev := range e.Trace {
		fmt.Fprintf(&buf, "  [%d] %s\n", i+1, formatTraceEvent(ev))
	}

	return buf.String()
}

func formatTraceEvent(ev TraceEvent) string {
	switch {
	case ev.Value != nil:
		return fmt.Sprintf("rev %d %s value=%d bitWidth=%d", ev.Revision, ev.Type, *ev.Value, ev.BitWidth)
	case ev.Error != nil:
		return fmt.Sprintf("rev %d %s error=%q bitWidth=%d", ev.Revision, ev.Type, *ev.Error, ev.BitWidth)
	default:
		return fmt.Sprintf("rev %d %s", ev.Revision, ev.Type)
	}
}

// assertTraceContains checks that some broadcast matches the message
// (subset match: unset fields are ignored).
func assertTraceContains(trace []TraceEvent, a Assertion) error {
	for _, ev := range trace {
		if matchMessage(ev, a.Message) {
			return nil
		}
	}
	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: describeMatch(a.Message),
		Actual:   "no matching broadcast",
		Trace:    trace,
	}
}

func matchMessage(ev TraceEvent, m *MessageMatch) bool {
	if m.Value != nil && (ev.Value == nil || *ev.Value != *m.Value) {
		return false
	}
	if m.Error != "" && (ev.Error == nil || *ev.Error != m.Error) {
		return false
	}
	if m.BitWidth != 0 && ev.BitWidth != m.BitWidth {
		return false
	}
	return true
}

func describeMatch(m *MessageMatch) string {
	var parts []string
	if m.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%d", *m.Value))
	}
	if m.Error != "" {
		parts = append(parts, fmt.Sprintf("error=%q", m.Error))
	}
	if m.BitWidth != 0 {
		parts = append(parts, fmt.Sprintf("bitWidth=%d", m.BitWidth))
	}
	if len(parts) == 0 {
		return "any broadcast"
	}
	return "broadcast with " + strings.Join(parts, " ")
}

// assertTraceCount checks the number of broadcasts.
func assertTraceCount(trace []TraceEvent, a Assertion) error {
	if len(trace) == a.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertTraceCount,
		Expected: fmt.Sprintf("%d broadcasts", a.Count),
		Actual:   fmt.Sprintf("%d broadcasts", len(trace)),
		Trace:    trace,
	}
}

// assertDiscarded checks the number of stale completions dropped.
func assertDiscarded(result *Result, a Assertion) error {
	if result.Discarded == int64(a.Count) {
		return nil
	}
	return &AssertionError{
		Type:     AssertDiscarded,
		Expected: fmt.Sprintf("%d discarded completions", a.Count),
		Actual:   fmt.Sprintf("%d discarded completions", result.Discarded),
		Trace:    result.Trace,
	}
}

// checkExpect compares an outcome and state against an expect clause and
// returns one message per mismatch.
func checkExpect(where string, exp *Expect, outcome string, st engine.State) []string {
	var errs []string
	mismatch := func(field string, want, got any) {
		errs = append(errs, fmt.Sprintf("%s: %s: expected %v, got %v", where, field, want, got))
	}

	wantOutcome := exp.Outcome
	if wantOutcome == "" {
		wantOutcome = OutcomeOK
	}
	if outcome != wantOutcome {
		mismatch("outcome", wantOutcome, outcome)
	}

	if exp.Status != "" && exp.Status != st.Status.String() {
		mismatch("status", exp.Status, st.Status)
	}
	if exp.Value != nil && (!st.Ok() || *exp.Value != st.Value) {
		mismatch("value", *exp.Value, describeValue(st))
	}
	if exp.Width != nil && (!st.Ok() || *exp.Width != st.Width.Bits()) {
		mismatch("width", *exp.Width, describeWidth(st))
	}
	if exp.Error != "" && exp.Error != st.Error {
		mismatch("error", fmt.Sprintf("%q", exp.Error), fmt.Sprintf("%q", st.Error))
	}

	if exp.Binary == "" && exp.Octal == "" && exp.Hex == "" && exp.Unsigned == "" {
		return errs
	}
	r, ok := st.Representation()
	if !ok {
		return append(errs, fmt.Sprintf("%s: representation: expected one, state is %s", where, st.Status))
	}
	for _, f := range []struct{ name, want, got string }{
		{"binary", exp.Binary, r.Binary},
		{"octal", exp.Octal, r.Octal},
		{"hex", exp.Hex, r.Hex},
		{"unsigned", exp.Unsigned, r.Unsigned},
	} {
		if f.want != "" && f.want != f.got {
			mismatch(f.name, f.want, f.got)
		}
	}
	return errs
}

func describeValue(st engine.State) string {
	if !st.Ok() {
		return "no value (" + st.Status.String() + ")"
	}
	return fmt.Sprintf("%d", st.Value)
}

func describeWidth(st engine.State) string {
	if !st.Ok() {
		return "no width (" + st.Status.String() + ")"
	}
	return fmt.Sprintf("%d", st.Width.Bits())
}

// EvaluateAssertions runs all assertions against a finished result and
// returns the failure messages.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		var err error
		switch a.Type {
		case AssertTraceContains:
			err = assertTraceContains(result.Trace, a)
		case AssertTraceCount:
			err = assertTraceCount(result.Trace, a)
		case AssertDiscarded:
			err = assertDiscarded(result, a)
		case AssertFinalState:
			for _, msg := range checkExpect(fmt.Sprintf("assertions[%d]", i), a.Expect, OutcomeOK, result.Final) {
				errs = append(errs, msg)
			}
			continue
		default:
			err = fmt.Errorf("assertions[%d]: unknown assertion type %q", i, a.Type)
		}
		if err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}
