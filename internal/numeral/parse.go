package numeral

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// Parse reads evaluator result text into an int64.
//
// The leading '-' is stripped before the magnitude is parsed and re-applied
// afterwards, so "-0x8000000000000000" yields math.MinInt64 while
// "0x8000000000000000" is out of range.
func Parse(text string, mode Mode) (int64, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, &ParseError{Text: text, Mode: mode, Reason: "empty result"}
	}

	negative := strings.HasPrefix(s, "-")
	if negative {
		s = s[1:]
	}

	var base int
	switch mode {
	case ModeHex:
		if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
			return 0, &ParseError{Text: text, Mode: mode, Reason: "expected hex prefix 0x"}
		}
		s = s[2:]
		base = 16
	case ModeDec:
		base = 10
	default:
		return 0, &ParseError{Text: text, Mode: mode, Reason: "unknown mode"}
	}

	digits := strings.ReplaceAll(s, "_", "")
	if digits == "" {
		return 0, &ParseError{Text: text, Mode: mode, Reason: "missing digits"}
	}
	mag, err := strconv.ParseUint(digits, base, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, &ParseError{Text: text, Mode: mode, Reason: "exceeds 64-bit range"}
		}
		return 0, &ParseError{Text: text, Mode: mode, Reason: "invalid digits"}
	}

	if negative {
		if mag > uint64(math.MaxInt64)+1 {
			return 0, &ParseError{Text: text, Mode: mode, Reason: "exceeds 64-bit signed range"}
		}
		// Two's-complement negation of the magnitude; exact for 2^63.
		return int64(-mag), nil
	}
	if mag > math.MaxInt64 {
		return 0, &ParseError{Text: text, Mode: mode, Reason: "exceeds 64-bit signed range"}
	}
	return int64(mag), nil
}
