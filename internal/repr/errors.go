package repr

import (
	"errors"
	"fmt"
)

// RangeErrorCode categorizes contract violations.
type RangeErrorCode string

const (
	// ErrCodeValueRange indicates a value outside the signed range of a width.
	ErrCodeValueRange RangeErrorCode = "VALUE_OUT_OF_RANGE"

	// ErrCodeBitPosition indicates a bit position outside [0, width).
	ErrCodeBitPosition RangeErrorCode = "BIT_OUT_OF_RANGE"

	// ErrCodeInvalidWidth indicates a width that is not on the ladder.
	ErrCodeInvalidWidth RangeErrorCode = "INVALID_WIDTH"

	// ErrCodeMalformedBits indicates a bit pattern that does not match its width.
	ErrCodeMalformedBits RangeErrorCode = "MALFORMED_BITS"
)

// RangeError reports an internal precondition violation.
//
// Callers are expected to prevent these proactively (disabled UI cells,
// width reconciliation). A RangeError reaching a user is a bug, so the
// engine logs it loudly and rejects the operation without a state change.
type RangeError struct {
	Code    RangeErrorCode
	Message string

	// Width is the width the operation was attempted at (0 if unknown).
	Width BitWidth
}

// Error implements the error interface.
func (e *RangeError) Error() string {
	if e.Width != 0 {
		return fmt.Sprintf("%s: %s (width=%d)", e.Code, e.Message, e.Width)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsRangeError returns true if err is or wraps a *RangeError.
func IsRangeError(err error) bool {
	var re *RangeError
	return errors.As(err, &re)
}

func newValueRangeError(v int64, w BitWidth) *RangeError {
	return &RangeError{
		Code:    ErrCodeValueRange,
		Message: fmt.Sprintf("value %d outside [%d, %d]", v, w.Min(), w.Max()),
		Width:   w,
	}
}

func newBitPositionError(pos int, w BitWidth) *RangeError {
	return &RangeError{
		Code:    ErrCodeBitPosition,
		Message: fmt.Sprintf("bit position %d outside [0, %d)", pos, w.Bits()),
		Width:   w,
	}
}
