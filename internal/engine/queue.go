package engine

import (
	"sync"

	"github.com/roach88/cork/internal/repr"
)

// EventType distinguishes between event kinds.
type EventType int

const (
	// EventTypeEvaluate starts an evaluation for a submitted request.
	EventTypeEvaluate EventType = iota + 1
	// EventTypeCompletion carries an evaluator outcome back to the loop.
	EventTypeCompletion
	// EventTypeToggle flips one bit of the canonical value.
	EventTypeToggle
	// EventTypeSetWidth changes the display width of the canonical value.
	EventTypeSetWidth
)

func (t EventType) String() string {
	switch t {
	case EventTypeEvaluate:
		return "evaluate"
	case EventTypeCompletion:
		return "completion"
	case EventTypeToggle:
		return "toggle"
	case EventTypeSetWidth:
		return "set_width"
	default:
		return "unknown"
	}
}

// Event is one unit of work for the Run loop.
//
// Only the fields relevant to Type are set. done, when non-nil, receives
// exactly one reply once the event has been handled (or dropped).
type Event struct {
	Type     EventType
	Request  *Request
	Result   *Result
	Position int
	Width    repr.BitWidth

	done chan error
}

// reply delivers err to the waiter, if any. done is buffered so the loop
// never blocks on a caller that gave up waiting.
func (e Event) reply(err error) {
	if e.done != nil {
		e.done <- err
	}
}

// eventQueue is a thread-safe, unbounded FIFO queue for events.
//
// Callers enqueue from any goroutine; the Run loop is the only consumer.
// signal has a buffer of one so that multiple enqueues coalesce into a
// single wake-up, and it is closed by Close to release the waiter.
type eventQueue struct {
	mu     sync.Mutex
	events []Event
	closed bool
	signal chan struct{}
}

func newEventQueue() *eventQueue {
	return &eventQueue{
		events: make([]Event, 0, 16),
		signal: make(chan struct{}, 1),
	}
}

// Enqueue adds an event to the back of the queue.
// Returns false if the queue is closed.
func (q *eventQueue) Enqueue(e Event) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}

	q.events = append(q.events, e)

	select {
	case q.signal <- struct{}{}:
	default:
	}

	return true
}

// TryDequeue removes the front event without blocking.
// Returns (Event{}, false) if the queue is empty.
func (q *eventQueue) TryDequeue() (Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.events) == 0 {
		return Event{}, false
	}

	e := q.events[0]
	// Clear the slot so the backing array does not pin Request/Result.
	q.events[0] = Event{}

	if len(q.events) == 1 {
		q.events = q.events[:0]
	} else {
		q.events = q.events[1:]
	}

	return e, true
}

// Wait returns a channel that fires when events may be available, or is
// closed once the queue is closed.
func (q *eventQueue) Wait() <-chan struct{} {
	return q.signal
}

// Len returns the current queue length.
func (q *eventQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}

// Closed reports whether Close has been called.
func (q *eventQueue) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// Close rejects further enqueues and wakes the waiter.
func (q *eventQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}

	q.closed = true
	close(q.signal)
}
