// Package engine owns cork's canonical value and keeps every view of it in
// sync.
//
// ARCHITECTURE:
//
// Value Store:
// ValueStore holds the single live State, Ok(value, width) or Err(message),
// and an ordered list of observers. Each transition is published as one
// Message (Updated or Failed) delivered synchronously to every observer
// before the next transition is accepted.
//
// Single-Writer Event Loop:
// Engine.Run drains a FIFO queue of evaluate, completion, toggle and
// set-width events. The evaluator call is the only suspending step; it runs
// in its own goroutine and posts a completion event back to the queue.
//
// Event Processing Flow:
//  1. Submit stamps the request with the next Clock value and a request id
//  2. Run marks the store Evaluating and starts the evaluator
//  3. The completion re-enters the queue
//  4. If its Seq is still the latest, the store publishes Ok or Err;
//     otherwise the completion is discarded as stale
//
// Bit toggles and width changes are only valid against an Ok state and are
// applied in submission order. Contract violations (*repr.RangeError) are
// logged at error level and leave the state untouched.
package engine
