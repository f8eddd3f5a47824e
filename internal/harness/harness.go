package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/roach88/cork/internal/engine"
	"github.com/roach88/cork/internal/expr"
	"github.com/roach88/cork/internal/numeral"
	"github.com/roach88/cork/internal/repr"
	"github.com/roach88/cork/internal/testutil"
)

// DefaultTimeout bounds a whole scenario run.
const DefaultTimeout = 10 * time.Second

// Harness drives one scenario against a real engine.
type Harness struct {
	engine    *engine.Engine
	evaluator *testutil.ScriptedEvaluator
	mode      numeral.Mode
	logger    *slog.Logger

	// pending holds the outcome channels of held evaluations.
	pending map[string]chan stepOutcome
}

type stepOutcome struct {
	req engine.Request
	err error
}

// traceCollector records broadcasts. Observe runs on the engine goroutine.
type traceCollector struct {
	mu       sync.Mutex
	revision int64
	result   *Result
}

func (c *traceCollector) Observe(m engine.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.revision++
	c.result.AddMessageTrace(c.revision, m)
}

// Run executes a test scenario and returns the result.
//
// Each scenario gets a fresh engine with sequential request ids, and the
// real expression evaluator behind any scripted replies. The returned
// error reports infrastructure failures (timeouts); scenario mismatches
// are reported in Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario)
}

// RunContext is Run with a caller-supplied context.
func RunContext(ctx context.Context, scenario *Scenario) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	scripted := testutil.NewScriptedEvaluator(&expr.Evaluator{})
	for _, r := range scenario.Evaluator {
		scripted.Script(r.Expr, testutil.Reply{Text: r.Result, Err: r.Error})
	}

	eng := engine.New(scripted,
		engine.WithRequestIDs(testutil.NewSequentialIDs(scenario.Name)),
		engine.WithResultMode(numeral.ModeHex),
	)

	mode := scenario.Mode
	if mode == "" {
		mode = numeral.ModeHex
	}

	h := &Harness{
		engine:    eng,
		evaluator: scripted,
		mode:      mode,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		pending:   make(map[string]chan stepOutcome),
	}

	result := NewResult()
	collector := &traceCollector{result: result}
	sub := eng.Subscribe(collector)
	defer sub.Close()

	runErr := make(chan error, 1)
	go func() {
		runErr <- eng.Run(ctx)
	}()

	stepErr := h.executeSteps(ctx, scenario.Steps, result, collector)

	eng.Stop()
	if err := <-runErr; err != nil && stepErr == nil {
		stepErr = fmt.Errorf("engine: %w", err)
	}
	if stepErr != nil {
		return nil, stepErr
	}

	result.Final = eng.Current()
	result.Discarded = eng.Discarded()

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

// executeSteps runs the steps in order and checks each expect clause.
// collector.mu guards result while the engine is running.
func (h *Harness) executeSteps(ctx context.Context, steps []Step, result *Result, collector *traceCollector) error {
	for i, step := range steps {
		outcome, held, err := h.executeStep(ctx, step)
		if err != nil {
			return fmt.Errorf("step %d (%s): %w", i, step.Kind(), err)
		}

		rec := StepRecord{Index: i, Kind: step.Kind(), Seq: outcome.req.Seq}
		if held {
			rec.Outcome = "held"
		} else {
			rec.Outcome = classify(outcome.err)
		}

		h.logger.Info("step completed",
			"step", i,
			"kind", rec.Kind,
			"outcome", rec.Outcome,
			"seq", rec.Seq,
		)

		state := h.engine.Current()

		collector.mu.Lock()
		result.Steps = append(result.Steps, rec)
		if step.Expect != nil {
			for _, msg := range checkExpect(fmt.Sprintf("steps[%d]", i), step.Expect, rec.Outcome, state) {
				result.AddError(msg)
			}
		}
		collector.mu.Unlock()
	}
	return nil
}

// executeStep performs one step. held is true for an evaluation left in
// flight by a hold step.
func (h *Harness) executeStep(ctx context.Context, step Step) (out stepOutcome, held bool, err error) {
	switch step.Kind() {
	case StepEvaluate:
		mode := step.Mode
		if mode == "" {
			mode = h.mode
		}
		if step.Hold {
			return h.hold(ctx, step.Evaluate, mode)
		}
		req, evalErr := h.engine.Evaluate(ctx, step.Evaluate, mode)
		out = stepOutcome{req: req, err: evalErr}

	case StepRelease:
		ch, ok := h.pending[step.Release]
		if !ok {
			return out, false, fmt.Errorf("%q is not held", step.Release)
		}
		delete(h.pending, step.Release)
		h.evaluator.Release(step.Release)
		select {
		case out = <-ch:
		case <-ctx.Done():
			return out, false, ctx.Err()
		}

	case StepToggle:
		out.err = h.engine.ToggleBit(ctx, *step.Toggle)

	case StepWidth:
		out.err = h.engine.SetWidth(ctx, repr.BitWidth(*step.Width))

	default:
		return out, false, fmt.Errorf("empty step")
	}

	if errors.Is(out.err, context.DeadlineExceeded) || errors.Is(out.err, context.Canceled) {
		return out, false, out.err
	}
	return out, false, nil
}

// hold submits an evaluation that the scripted evaluator keeps in flight,
// and returns once the engine has started it.
func (h *Harness) hold(ctx context.Context, text string, mode numeral.Mode) (stepOutcome, bool, error) {
	entered := h.evaluator.Hold(text)

	ch := make(chan stepOutcome, 1)
	go func() {
		req, err := h.engine.Evaluate(ctx, text, mode)
		ch <- stepOutcome{req: req, err: err}
	}()

	select {
	case <-entered:
	case <-ctx.Done():
		return stepOutcome{}, false, ctx.Err()
	}

	h.pending[text] = ch
	return stepOutcome{req: engine.Request{Seq: h.engine.Clock().Current()}}, true, nil
}

// classify maps a step error to its outcome name.
func classify(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, engine.ErrSuperseded):
		return OutcomeSuperseded
	case engine.IsEvaluationError(err):
		return OutcomeEvaluationError
	case numeral.IsParseError(err):
		return OutcomeParseError
	case repr.IsRangeError(err):
		return OutcomeRangeError
	case engine.IsStateError(err):
		return OutcomeStateError
	default:
		return "error: " + err.Error()
	}
}
