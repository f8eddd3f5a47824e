package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrStopped is returned when a request reaches an engine whose event
	// loop is no longer running.
	ErrStopped = errors.New("engine stopped")

	// ErrSuperseded is returned to the caller of an evaluation whose result
	// arrived after a newer evaluation was submitted. The result is dropped.
	ErrSuperseded = errors.New("evaluation superseded by a newer request")
)

// EvaluationError wraps a failure reported by the Evaluator. Error()
// returns the evaluator's message verbatim, since that is what the user sees.
type EvaluationError struct {
	RequestID string
	Seq       int64
	Err       error
}

// Error implements the error interface.
func (e *EvaluationError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the evaluator's error.
func (e *EvaluationError) Unwrap() error {
	return e.Err
}

// StateError reports a user action that is only valid against an Ok
// state, e.g. toggling a bit while the store holds an error.
type StateError struct {
	Action string
	Status Status
}

// Error implements the error interface.
func (e *StateError) Error() string {
	return fmt.Sprintf("%s requires a value (state is %s)", e.Action, e.Status)
}

// IsEvaluationError returns true if err is or wraps an *EvaluationError.
func IsEvaluationError(err error) bool {
	var ee *EvaluationError
	return errors.As(err, &ee)
}

// IsStateError returns true if err is or wraps a *StateError.
func IsStateError(err error) bool {
	var se *StateError
	return errors.As(err, &se)
}
