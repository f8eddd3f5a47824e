package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/roach88/cork/internal/numeral"
	"github.com/roach88/cork/internal/repr"
)

// Evaluator is the external expression service. It is the only operation
// the engine suspends on.
type Evaluator interface {
	Evaluate(ctx context.Context, expr string, mode numeral.Mode) (string, error)
}

// resultModer is implemented by evaluators that know which numeral mode
// their output text is written in.
type resultModer interface {
	ResultMode() numeral.Mode
}

// Engine is the single-writer event loop around a ValueStore.
//
// Evaluation requests, evaluator completions, bit toggles and width
// changes are all funnelled through one FIFO queue and handled by Run in
// submission order. Evaluator calls run in their own goroutines and post
// their outcome back to the queue as a completion.
//
// Thread-safety model:
//   - Submit, Evaluate, ToggleBit, SetWidth, Subscribe: safe from any goroutine
//   - Run: must be called from exactly one goroutine
//
// INVARIANTS:
//   - request sequence numbers are issued in the same order requests are queued
//   - a completion is applied only if its Seq equals the latest issued Seq
//   - store transitions happen only on the Run goroutine
type Engine struct {
	store      *ValueStore
	evaluator  Evaluator
	resultMode numeral.Mode
	clock      *Clock
	ids        RequestIDGenerator
	queue      *eventQueue

	// submitMu keeps Seq order and queue order identical.
	submitMu sync.Mutex

	// latest is the Seq of the newest evaluate event seen by Run.
	// Owned by the Run goroutine.
	latest int64

	inflight  sync.WaitGroup
	discarded atomic.Int64

	// settled is the Seq of the newest request whose outcome reached the
	// store. Stored before the store publishes.
	settled atomic.Int64
}

// EngineOption allows configuration of engine parameters.
type EngineOption func(*Engine)

// WithStore makes the engine drive an existing store.
func WithStore(s *ValueStore) EngineOption {
	return func(e *Engine) {
		e.store = s
	}
}

// WithClock sets the clock used to number requests.
func WithClock(c *Clock) EngineOption {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithRequestIDs sets the request id generator.
// Default: UUIDv7Generator.
func WithRequestIDs(g RequestIDGenerator) EngineOption {
	return func(e *Engine) {
		e.ids = g
	}
}

// WithResultMode sets the mode used to parse evaluator output.
// Default: the evaluator's ResultMode if it has one, else hex.
func WithResultMode(m numeral.Mode) EngineOption {
	return func(e *Engine) {
		e.resultMode = m
	}
}

// New creates an Engine that evaluates expressions with ev.
func New(ev Evaluator, opts ...EngineOption) *Engine {
	e := &Engine{
		evaluator:  ev,
		resultMode: numeral.ModeHex,
		clock:      NewClock(),
		ids:        UUIDv7Generator{},
		queue:      newEventQueue(),
	}
	if rm, ok := ev.(resultModer); ok {
		e.resultMode = rm.ResultMode()
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.store == nil {
		e.store = NewValueStore()
	}
	return e
}

// Submit queues an evaluation and returns immediately. The outcome is
// delivered to subscribers. Returns ErrStopped if the engine has stopped.
func (e *Engine) Submit(expr string, mode numeral.Mode) (Request, error) {
	return e.submit(expr, mode, nil)
}

// Evaluate queues an evaluation and waits until Run has handled its
// outcome. It returns the evaluator's error as an *EvaluationError, a
// *numeral.ParseError for malformed output, or ErrSuperseded if a newer
// request was submitted before this one completed.
func (e *Engine) Evaluate(ctx context.Context, expr string, mode numeral.Mode) (Request, error) {
	done := make(chan error, 1)
	req, err := e.submit(expr, mode, done)
	if err != nil {
		return req, err
	}
	return req, await(ctx, done)
}

func (e *Engine) submit(expr string, mode numeral.Mode, done chan error) (Request, error) {
	e.submitMu.Lock()
	defer e.submitMu.Unlock()

	req := Request{
		Seq:  e.clock.Next(),
		ID:   e.ids.Generate(),
		Expr: expr,
		Mode: mode,
	}
	if !e.queue.Enqueue(Event{Type: EventTypeEvaluate, Request: &req, done: done}) {
		return req, ErrStopped
	}
	return req, nil
}

// ToggleBit flips one bit of the canonical value and waits for the
// transition to be published.
func (e *Engine) ToggleBit(ctx context.Context, pos int) error {
	return e.call(ctx, Event{Type: EventTypeToggle, Position: pos})
}

// SetWidth changes the display width and waits for the transition to be
// published.
func (e *Engine) SetWidth(ctx context.Context, w repr.BitWidth) error {
	return e.call(ctx, Event{Type: EventTypeSetWidth, Width: w})
}

func (e *Engine) call(ctx context.Context, ev Event) error {
	ev.done = make(chan error, 1)
	if !e.queue.Enqueue(ev) {
		return ErrStopped
	}
	return await(ctx, ev.done)
}

func await(ctx context.Context, done <-chan error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}

// Run starts the single-writer event loop.
// Blocks until ctx is cancelled or Stop is called.
//
// On exit the queue is closed, in-flight evaluator calls are cancelled and
// awaited, and every event still queued is answered with ErrStopped.
func (e *Engine) Run(ctx context.Context) error {
	slog.Info("engine starting")

	evalCtx, cancel := context.WithCancel(ctx)
	defer e.shutdown(cancel)

	for {
		event, ok := e.queue.TryDequeue()
		if ok {
			if err := e.processEvent(evalCtx, event); err != nil {
				logEventError(event, err)
				event.reply(err)
			}
			continue
		}

		select {
		case <-ctx.Done():
			slog.Info("engine stopping: context cancelled")
			return ctx.Err()

		case <-e.queue.Wait():
			if e.queue.Closed() && e.queue.Len() == 0 {
				slog.Info("engine stopping: queue closed")
				return nil
			}
		}
	}
}

func (e *Engine) shutdown(cancel context.CancelFunc) {
	e.queue.Close()
	cancel()
	e.inflight.Wait()

	for {
		event, ok := e.queue.TryDequeue()
		if !ok {
			return
		}
		event.reply(ErrStopped)
	}
}

// Stop closes the event queue, which causes Run to return.
func (e *Engine) Stop() {
	e.queue.Close()
}

// processEvent routes an event to its handler. Handlers reply to the
// event themselves; a returned error means the event itself was invalid.
// Called only from the Run goroutine.
func (e *Engine) processEvent(ctx context.Context, event Event) error {
	switch event.Type {
	case EventTypeEvaluate:
		if event.Request == nil {
			return fmt.Errorf("evaluate event missing request")
		}
		e.startEvaluation(ctx, event)
		return nil

	case EventTypeCompletion:
		if event.Result == nil {
			return fmt.Errorf("completion event missing result")
		}
		e.processCompletion(event)
		return nil

	case EventTypeToggle:
		err := e.store.ToggleBit(event.Position)
		if err != nil {
			slog.Debug("toggle not applied", "position", event.Position, "error", err)
		}
		event.reply(err)
		return nil

	case EventTypeSetWidth:
		err := e.store.SetWidth(event.Width)
		if err != nil {
			slog.Debug("width change not applied", "width", int(event.Width), "error", err)
		}
		event.reply(err)
		return nil

	default:
		return fmt.Errorf("unknown event type: %d", event.Type)
	}
}

// startEvaluation records req as the latest request and hands it to the
// evaluator in a new goroutine. The completion carries the caller's reply
// channel back through the queue.
func (e *Engine) startEvaluation(ctx context.Context, event Event) {
	req := *event.Request
	e.latest = req.Seq
	e.store.BeginEvaluation()

	slog.Debug("evaluation started",
		"seq", req.Seq,
		"request_id", req.ID,
		"mode", req.Mode,
	)

	e.inflight.Add(1)
	go func() {
		defer e.inflight.Done()

		text, err := e.evaluator.Evaluate(ctx, req.Expr, req.Mode)
		completion := Event{
			Type:    EventTypeCompletion,
			Request: &req,
			Result:  &Result{Seq: req.Seq, ID: req.ID, Text: text, Err: err},
			done:    event.done,
		}
		if !e.queue.Enqueue(completion) {
			completion.reply(ErrStopped)
		}
	}()
}

// processCompletion applies an evaluator outcome, unless a newer request
// has been issued since, in which case the outcome is dropped.
func (e *Engine) processCompletion(event Event) {
	res := event.Result

	if res.Seq != e.latest {
		e.discarded.Add(1)
		slog.Warn("discarding stale completion",
			"seq", res.Seq,
			"latest", e.latest,
			"request_id", res.ID,
		)
		event.reply(ErrSuperseded)
		return
	}
	e.settled.Store(res.Seq)

	if res.Err != nil {
		e.store.Fail(res.Err.Error())
		slog.Info("evaluation failed",
			"seq", res.Seq,
			"request_id", res.ID,
			"error", res.Err,
		)
		event.reply(&EvaluationError{RequestID: res.ID, Seq: res.Seq, Err: res.Err})
		return
	}

	if err := e.store.ApplyResult(res.Text, e.resultMode); err != nil {
		slog.Warn("evaluator returned malformed numeral",
			"seq", res.Seq,
			"request_id", res.ID,
			"text", res.Text,
			"error", err,
		)
		event.reply(err)
		return
	}

	st := e.store.Current()
	slog.Info("evaluation completed",
		"seq", res.Seq,
		"request_id", res.ID,
		"value", st.Value,
		"width", st.Width.Bits(),
	)
	event.reply(nil)
}

// Store returns the value store driven by the engine.
func (e *Engine) Store() *ValueStore {
	return e.store
}

// Subscribe registers an observer on the engine's store.
func (e *Engine) Subscribe(o Observer) *Subscription {
	return e.store.Subscribe(o)
}

// Current returns a snapshot of the canonical state.
func (e *Engine) Current() State {
	return e.store.Current()
}

// Phase reports whether an evaluation is outstanding.
func (e *Engine) Phase() Phase {
	return e.store.Phase()
}

// Clock returns the engine's logical clock.
func (e *Engine) Clock() *Clock {
	return e.clock
}

// QueueLen returns the current number of pending events.
func (e *Engine) QueueLen() int {
	return e.queue.Len()
}

// Discarded returns how many stale completions have been dropped.
func (e *Engine) Discarded() int64 {
	return e.discarded.Load()
}

// Settled returns the Seq of the newest evaluation whose result or failure
// has been published, or 0 if none has. Observers may call it from Observe:
// the broadcast carrying that outcome already sees the new value.
func (e *Engine) Settled() int64 {
	return e.settled.Load()
}

// logEventError logs an event that could not be processed at all.
func logEventError(event Event, err error) {
	switch {
	case event.Request != nil:
		slog.Error("event processing failed",
			"error", err,
			"event_type", event.Type.String(),
			"seq", event.Request.Seq,
			"request_id", event.Request.ID,
		)
	default:
		slog.Error("event processing failed",
			"error", err,
			"event_type", event.Type.String(),
		)
	}
}
