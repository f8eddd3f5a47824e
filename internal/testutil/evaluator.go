package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/roach88/cork/internal/engine"
	"github.com/roach88/cork/internal/numeral"
)

// Reply is a canned evaluator outcome. A non-empty Err wins over Text.
type Reply struct {
	Text string
	Err  string
}

// ScriptedEvaluator is an engine.Evaluator whose answers are set by the
// test. It can also hold an expression in flight until the test releases
// it, which is how stale completions are produced deterministically.
//
// Expressions with no scripted reply go to Fallback; with no Fallback they
// fail with an error naming the expression.
//
// Thread-safety: safe for concurrent use via internal mutex.
type ScriptedEvaluator struct {
	Fallback engine.Evaluator

	mu      sync.Mutex
	replies map[string]Reply
	holds   map[string]*hold
	calls   []string
}

type hold struct {
	gate    chan struct{}
	entered chan struct{}
	taken   bool
}

// NewScriptedEvaluator creates an evaluator with no scripted replies.
func NewScriptedEvaluator(fallback engine.Evaluator) *ScriptedEvaluator {
	return &ScriptedEvaluator{
		Fallback: fallback,
		replies:  make(map[string]Reply),
		holds:    make(map[string]*hold),
	}
}

// Script sets the reply for expr.
func (s *ScriptedEvaluator) Script(expr string, r Reply) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies[expr] = r
}

// Hold makes the next evaluation of expr block until Release(expr). The
// returned channel is closed once that evaluation has started.
func (s *ScriptedEvaluator) Hold(expr string) <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := &hold{gate: make(chan struct{}), entered: make(chan struct{})}
	s.holds[expr] = h
	return h.entered
}

// Release lets a held evaluation of expr finish. Releasing an expression
// that is not held is a no-op.
func (s *ScriptedEvaluator) Release(expr string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if h, ok := s.holds[expr]; ok {
		close(h.gate)
		delete(s.holds, expr)
	}
}

// Calls returns the expressions evaluated so far, in call order.
func (s *ScriptedEvaluator) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.calls))
	copy(out, s.calls)
	return out
}

// Evaluate implements engine.Evaluator.
func (s *ScriptedEvaluator) Evaluate(ctx context.Context, expr string, mode numeral.Mode) (string, error) {
	s.mu.Lock()
	s.calls = append(s.calls, expr)
	reply, scripted := s.replies[expr]
	h := s.holds[expr]
	if h != nil && h.taken {
		h = nil
	}
	if h != nil {
		h.taken = true
	}
	s.mu.Unlock()

	if h != nil {
		close(h.entered)
		select {
		case <-h.gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	switch {
	case scripted && reply.Err != "":
		return "", errors.New(reply.Err)
	case scripted:
		return reply.Text, nil
	case s.Fallback != nil:
		return s.Fallback.Evaluate(ctx, expr, mode)
	default:
		return "", fmt.Errorf("no scripted reply for %q", expr)
	}
}
