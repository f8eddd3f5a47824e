package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/cork/internal/engine"
)

// TraceSnapshot captures everything observable about a scenario run.
// It is serialized as canonical JSON for deterministic comparison.
type TraceSnapshot struct {
	ScenarioName string
	Steps        []StepRecord
	Trace        []TraceEvent
	Final        engine.State
	Discarded    int64
}

// toCanonicalMap converts the snapshot into plain maps and slices, leaving
// out unset fields since canonical JSON forbids null.
func (s *TraceSnapshot) toCanonicalMap() map[string]any {
	steps := make([]any, len(s.Steps))
	for i, st := range s.Steps {
		m := map[string]any{
			"index":   st.Index,
			"kind":    st.Kind,
			"outcome": st.Outcome,
		}
		if st.Seq != 0 {
			m["seq"] = st.Seq
		}
		steps[i] = m
	}

	trace := make([]any, len(s.Trace))
	for i, ev := range s.Trace {
		m := map[string]any{
			"type":     ev.Type,
			"revision": ev.Revision,
			"bitWidth": ev.BitWidth,
		}
		if ev.Value != nil {
			m["value"] = *ev.Value
		}
		if ev.Error != nil {
			m["error"] = *ev.Error
		}
		trace[i] = m
	}

	final := map[string]any{
		"status":   s.Final.Status.String(),
		"revision": s.Final.Revision,
	}
	if r, ok := s.Final.Representation(); ok {
		final["value"] = s.Final.Value
		final["width"] = s.Final.Width.Bits()
		final["minimal"] = s.Final.Minimal().Bits()
		final["binary"] = r.Binary
		final["octal"] = r.Octal
		final["hex"] = r.Hex
		final["unsigned"] = r.Unsigned
	}
	if s.Final.Error != "" {
		final["error"] = s.Final.Error
	}

	return map[string]any{
		"scenario_name": s.ScenarioName,
		"steps":         steps,
		"trace":         trace,
		"final":         final,
		"discarded":     s.Discarded,
	}
}

// Marshal returns the snapshot as canonical JSON.
func (s *TraceSnapshot) Marshal() ([]byte, error) {
	return MarshalCanonical(s.toCanonicalMap())
}

// Snapshot builds the golden snapshot of a finished result.
func Snapshot(scenarioName string, result *Result) *TraceSnapshot {
	return &TraceSnapshot{
		ScenarioName: scenarioName,
		Steps:        result.Steps,
		Trace:        result.Trace,
		Final:        result.Final,
		Discarded:    result.Discarded,
	}
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an already computed result against its golden file.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := Snapshot(scenarioName, result).Marshal()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)
	return nil
}
