// Package numeral converts between int64 values and the numeral text
// exchanged with the expression evaluator.
//
// Two concerns live here:
//   - Parse reads the evaluator's result text: an optional '-', then either
//     a 0x-prefixed hexadecimal numeral (ModeHex) or a plain base-10 numeral
//     (ModeDec). Underscores are digit separators. Any other shape, and any
//     value outside the int64 range, is a *ParseError.
//   - Format renders a value with a radix prefix (0x, 0d, 0o, 0b) and
//     optional digit-group punctuation, the way results are printed on the
//     command line.
package numeral

import (
	"errors"
	"fmt"
	"strings"
)

// Mode selects how bare numerals are read: as hexadecimal or decimal.
type Mode string

const (
	ModeHex Mode = "hex"
	ModeDec Mode = "dec"
)

// ValidModes lists the accepted modes in display order.
var ValidModes = []Mode{ModeHex, ModeDec}

// ParseMode accepts "hex" or "dec".
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeHex:
		return ModeHex, nil
	case ModeDec:
		return ModeDec, nil
	}
	return "", fmt.Errorf("invalid mode %q: must be one of %v", s, ValidModes)
}

// Radix is an output base.
type Radix string

const (
	RadixHex Radix = "hex"
	RadixDec Radix = "dec"
	RadixOct Radix = "oct"
	RadixBin Radix = "bin"
)

// Radixes lists every output base in the order `--all` prints them.
var Radixes = []Radix{RadixBin, RadixOct, RadixDec, RadixHex}

// ParseRadix accepts "hex", "dec", "oct" or "bin".
func ParseRadix(s string) (Radix, error) {
	switch Radix(strings.ToLower(strings.TrimSpace(s))) {
	case RadixHex:
		return RadixHex, nil
	case RadixDec:
		return RadixDec, nil
	case RadixOct:
		return RadixOct, nil
	case RadixBin:
		return RadixBin, nil
	}
	return "", fmt.Errorf("invalid radix %q: must be one of %v", s, Radixes)
}

// Base returns the numeric base of r.
func (r Radix) Base() int {
	switch r {
	case RadixHex:
		return 16
	case RadixOct:
		return 8
	case RadixBin:
		return 2
	default:
		return 10
	}
}

// Prefix returns the literal prefix for r ("0x", "0d", "0o", "0b").
func (r Radix) Prefix() string {
	switch r {
	case RadixHex:
		return "0x"
	case RadixOct:
		return "0o"
	case RadixBin:
		return "0b"
	default:
		return "0d"
	}
}

// Label is the long name used in multi-radix listings.
func (r Radix) Label() string {
	switch r {
	case RadixHex:
		return "Hexadecimal"
	case RadixOct:
		return "Octal"
	case RadixBin:
		return "Binary"
	default:
		return "Decimal"
	}
}

// ParseError reports evaluator output that does not match the numeral
// contract.
type ParseError struct {
	Text   string
	Mode   Mode
	Reason string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("unexpected number format %q (%s mode): %s", e.Text, e.Mode, e.Reason)
}

// IsParseError returns true if err is or wraps a *ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
