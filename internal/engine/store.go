package engine

import (
	"log/slog"
	"sync"

	"github.com/roach88/cork/internal/numeral"
	"github.com/roach88/cork/internal/repr"
)

// Observer receives every broadcast from a ValueStore.
//
// Observe is called synchronously while the store holds its lock, so an
// observer must not call back into the store. Hand the message off (e.g.
// to a channel) if further work is needed.
type Observer interface {
	Observe(Message)
}

// ObserverFunc adapts a plain function to the Observer interface.
type ObserverFunc func(Message)

// Observe implements Observer.
func (f ObserverFunc) Observe(m Message) { f(m) }

// ValueStore owns the canonical state and its observers.
//
// All transitions are serialized by a single mutex and every observer is
// notified, in registration order, before the next transition starts.
// Observers therefore never see an intermediate state, and broadcasts
// never interleave.
//
// INVARIANTS:
//   - exactly one State is live
//   - State.Width >= repr.MinimalWidth(State.Value) whenever State.Ok()
//   - a rejected transition leaves State untouched and broadcasts nothing
type ValueStore struct {
	mu        sync.Mutex
	state     State
	phase     Phase
	observers []*Subscription
}

// NewValueStore creates a store in the empty, idle state.
func NewValueStore() *ValueStore {
	return &ValueStore{}
}

// Subscription is the handle returned by Subscribe. Close releases it.
type Subscription struct {
	store    *ValueStore
	observer Observer
	once     sync.Once
}

// Close stops delivery to the observer. Safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.store.unsubscribe(s)
	})
}

// Subscribe registers o. If the store already holds a state, o receives it
// immediately so it can render without waiting for the next transition.
func (s *ValueStore) Subscribe(o Observer) *Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub := &Subscription{store: s, observer: o}
	s.observers = append(s.observers, sub)

	if msg := s.state.Message(); msg != nil {
		o.Observe(msg)
	}
	return sub
}

func (s *ValueStore) unsubscribe(sub *Subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, o := range s.observers {
		if o == sub {
			s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
			return
		}
	}
}

// Current returns a snapshot of the canonical state.
func (s *ValueStore) Current() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Phase reports whether an evaluation is outstanding.
func (s *ValueStore) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// BeginEvaluation marks an evaluation as outstanding. The canonical state
// is not touched until the result arrives.
func (s *ValueStore) BeginEvaluation() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = PhaseEvaluating
}

// ApplyResult parses numeral text produced by the evaluator and publishes
// Ok(value, MinimalWidth(value)). Malformed text publishes Err with the
// parse error's message and the error is returned.
func (s *ValueStore) ApplyResult(text string, mode numeral.Mode) error {
	v, err := numeral.Parse(text, mode)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.phase = PhaseIdle
	if err != nil {
		s.publish(State{Status: StatusErr, Error: err.Error()})
		return err
	}
	s.publish(State{Status: StatusOk, Value: v, Width: repr.MinimalWidth(v)})
	return nil
}

// Fail publishes Err(message). Any previously held value is cleared.
func (s *ValueStore) Fail(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.phase = PhaseIdle
	s.publish(State{Status: StatusErr, Error: message})
}

// ToggleBit flips bit pos of the held value at the held width.
// The width is unchanged.
func (s *ValueStore) ToggleBit(pos int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.Ok() {
		return &StateError{Action: "toggle bit", Status: s.state.Status}
	}

	v, err := repr.ToggleBit(s.state.Value, s.state.Width, pos)
	if err != nil {
		slog.Error("toggle rejected",
			"value", s.state.Value,
			"width", s.state.Width.Bits(),
			"position", pos,
			"error", err,
		)
		return err
	}

	s.publish(State{Status: StatusOk, Value: v, Width: s.state.Width})
	return nil
}

// SetWidth changes the display width of the held value. A width narrower
// than the value's minimal width is auto-raised.
func (s *ValueStore) SetWidth(w repr.BitWidth) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.Ok() {
		return &StateError{Action: "set width", Status: s.state.Status}
	}

	if _, err := repr.WidthOf(int(w)); err != nil {
		slog.Error("width change rejected", "width", int(w), "error", err)
		return err
	}

	width := repr.Reconcile(w, repr.MinimalWidth(s.state.Value))
	if width != w {
		slog.Debug("width auto-raised", "requested", w.Bits(), "width", width.Bits())
	}

	s.publish(State{Status: StatusOk, Value: s.state.Value, Width: width})
	return nil
}

// publish installs next as the live state and notifies every observer.
// Caller must hold s.mu.
func (s *ValueStore) publish(next State) {
	next.Revision = s.state.Revision + 1
	s.state = next

	msg := next.Message()
	for _, sub := range s.observers {
		sub.observer.Observe(msg)
	}
}
