package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/cork/internal/numeral"
	"github.com/roach88/cork/internal/repr"
)

// Scenario defines a conformance test scenario: a sequence of user
// actions against a running engine, plus assertions on the resulting
// broadcasts and final state.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Mode is the literal mode used by evaluate steps that do not set one.
	// Default: hex.
	Mode numeral.Mode `yaml:"mode,omitempty"`

	// Evaluator scripts evaluator replies for specific expressions.
	// Unscripted expressions are evaluated for real.
	Evaluator []ScriptedReply `yaml:"evaluator,omitempty"`

	// Steps are executed in order. Each may carry an expectation.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final trace and state.
	Assertions []Assertion `yaml:"assertions"`
}

// ScriptedReply overrides the evaluator's answer for one expression.
// Exactly one of Result and Error must be set.
type ScriptedReply struct {
	Expr   string `yaml:"expr"`
	Result string `yaml:"result,omitempty"`
	Error  string `yaml:"error,omitempty"`
}

// Step is one user action. Exactly one of Evaluate, Release, Toggle and
// Width must be set.
type Step struct {
	// Evaluate submits an expression.
	Evaluate string `yaml:"evaluate,omitempty"`

	// Mode overrides Scenario.Mode for this evaluate step.
	Mode numeral.Mode `yaml:"mode,omitempty"`

	// Hold keeps the evaluation in flight until a later release step.
	Hold bool `yaml:"hold,omitempty"`

	// Release lets a held evaluation finish and waits for its outcome.
	Release string `yaml:"release,omitempty"`

	// Toggle flips the bit at this position.
	Toggle *int `yaml:"toggle,omitempty"`

	// Width selects a display width.
	Width *int `yaml:"width,omitempty"`

	// Expect checks the step's outcome and the state right after it.
	// Not allowed on held evaluate steps.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Kind returns the step's action name.
func (s Step) Kind() string {
	switch {
	case s.Evaluate != "":
		return StepEvaluate
	case s.Release != "":
		return StepRelease
	case s.Toggle != nil:
		return StepToggle
	case s.Width != nil:
		return StepWidth
	default:
		return ""
	}
}

// Step kinds.
const (
	StepEvaluate = "evaluate"
	StepRelease  = "release"
	StepToggle   = "toggle"
	StepWidth    = "width"
)

// Expect specifies an expected step outcome and state. Unset fields are
// not checked.
type Expect struct {
	// Outcome is one of the Outcome* constants. Default: ok.
	Outcome string `yaml:"outcome,omitempty"`

	Status   string `yaml:"status,omitempty"`
	Value    *int64 `yaml:"value,omitempty"`
	Width    *int   `yaml:"width,omitempty"`
	Error    string `yaml:"error,omitempty"`
	Binary   string `yaml:"binary,omitempty"`
	Octal    string `yaml:"octal,omitempty"`
	Hex      string `yaml:"hex,omitempty"`
	Unsigned string `yaml:"unsigned,omitempty"`
}

// Step outcomes.
const (
	OutcomeOK              = "ok"
	OutcomeEvaluationError = "evaluation_error"
	OutcomeParseError      = "parse_error"
	OutcomeRangeError      = "range_error"
	OutcomeStateError      = "state_error"
	OutcomeSuperseded      = "superseded"
)

var validOutcomes = map[string]bool{
	OutcomeOK:              true,
	OutcomeEvaluationError: true,
	OutcomeParseError:      true,
	OutcomeRangeError:      true,
	OutcomeStateError:      true,
	OutcomeSuperseded:      true,
}

// Assertion validates the trace or the final state.
type Assertion struct {
	// Type specifies the assertion type:
	// - "trace_contains": some broadcast matches Message (subset match)
	// - "trace_count": exactly Count broadcasts were made
	// - "final_state": the final state matches Expect
	// - "discarded": exactly Count stale completions were dropped
	Type string `yaml:"type"`

	// Message is the expected broadcast (trace_contains).
	Message *MessageMatch `yaml:"message,omitempty"`

	// Expect is the expected final state (final_state).
	Expect *Expect `yaml:"expect,omitempty"`

	// Count is the expected number (trace_count, discarded).
	Count int `yaml:"count,omitempty"`
}

// MessageMatch is a subset match on a protocol message.
type MessageMatch struct {
	Value    *int64 `yaml:"value,omitempty"`
	Error    string `yaml:"error,omitempty"`
	BitWidth int    `yaml:"bitWidth,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceCount    = "trace_count"
	AssertFinalState    = "final_state"
	AssertDiscarded     = "discarded"
)

// LoadScenario reads and parses a scenario YAML file.
// Unknown fields are rejected.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates a scenario document.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// LoadDir loads every *.yaml and *.yml scenario in dir, sorted by file name.
func LoadDir(dir string) ([]*Scenario, error) {
	var paths []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		paths = append(paths, matches...)
	}
	sort.Strings(paths)

	if len(paths) == 0 {
		return nil, fmt.Errorf("no scenarios found in %s", dir)
	}

	scenarios := make([]*Scenario, 0, len(paths))
	for _, p := range paths {
		s, err := LoadScenario(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(p), err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Mode != "" {
		if _, err := numeral.ParseMode(string(s.Mode)); err != nil {
			return err
		}
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, r := range s.Evaluator {
		if r.Expr == "" {
			return fmt.Errorf("evaluator[%d]: expr is required", i)
		}
		if (r.Result == "") == (r.Error == "") {
			return fmt.Errorf("evaluator[%d]: exactly one of result and error is required", i)
		}
	}

	held := make(map[string]bool)
	for i, step := range s.Steps {
		if err := validateStep(i, step, held); err != nil {
			return err
		}
	}
	if len(held) > 0 {
		pending := make([]string, 0, len(held))
		for expr := range held {
			pending = append(pending, expr)
		}
		sort.Strings(pending)
		return fmt.Errorf("held evaluation %q is never released", pending[0])
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(i int, step Step, held map[string]bool) error {
	set := 0
	for _, ok := range []bool{step.Evaluate != "", step.Release != "", step.Toggle != nil, step.Width != nil} {
		if ok {
			set++
		}
	}
	if set != 1 {
		return fmt.Errorf("steps[%d]: exactly one of evaluate, release, toggle, width is required", i)
	}

	switch step.Kind() {
	case StepEvaluate:
		if step.Mode != "" {
			if _, err := numeral.ParseMode(string(step.Mode)); err != nil {
				return fmt.Errorf("steps[%d]: %w", i, err)
			}
		}
		if step.Hold {
			if step.Expect != nil {
				return fmt.Errorf("steps[%d]: expect belongs on the release step of a held evaluation", i)
			}
			held[step.Evaluate] = true
		}
	case StepRelease:
		if !held[step.Release] {
			return fmt.Errorf("steps[%d]: release of %q which is not held", i, step.Release)
		}
		delete(held, step.Release)
	case StepWidth:
		if _, err := repr.WidthOf(*step.Width); err != nil && (step.Expect == nil || step.Expect.Outcome != OutcomeRangeError) {
			return fmt.Errorf("steps[%d]: %w", i, err)
		}
	}

	if step.Hold && step.Kind() != StepEvaluate {
		return fmt.Errorf("steps[%d]: hold only applies to evaluate", i)
	}
	if step.Expect != nil && step.Expect.Outcome != "" && !validOutcomes[step.Expect.Outcome] {
		return fmt.Errorf("steps[%d].expect: unknown outcome %q", i, step.Expect.Outcome)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertTraceContains:
		if a.Message == nil {
			return fmt.Errorf("assertions[%d]: message is required for trace_contains", index)
		}
	case AssertTraceCount, AssertDiscarded:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for %s", index, a.Type)
		}
	case AssertFinalState:
		if a.Expect == nil {
			return fmt.Errorf("assertions[%d]: expect is required for final_state", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
