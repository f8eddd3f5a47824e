package expr

import (
	"errors"
	"fmt"
)

// SyntaxError reports a line that does not parse.
type SyntaxError struct {
	// Pos is the byte offset into the line.
	Pos     int
	Message string
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at %d: %s", e.Pos, e.Message)
}

// EvalError reports a well-formed expression that cannot be evaluated,
// e.g. division by zero or overflow.
type EvalError struct {
	Message string
}

// Error implements the error interface.
func (e *EvalError) Error() string {
	return e.Message
}

// IsSyntaxError returns true if err is or wraps a *SyntaxError.
func IsSyntaxError(err error) bool {
	var se *SyntaxError
	return errors.As(err, &se)
}

// IsEvalError returns true if err is or wraps an *EvalError.
func IsEvalError(err error) bool {
	var ee *EvalError
	return errors.As(err, &ee)
}
