package numeral

import (
	"strconv"
	"strings"
)

// Format renders v as prefix + sign-magnitude digits in radix r, e.g.
// 127 → "0x7f", -1 → "-0x1". With punctuate set, digits are grouped from
// the right with '_' (groups of 4 for bin/hex, 3 for dec/oct):
// 127 in binary → "0b111_1111".
func Format(v int64, r Radix, punctuate bool) string {
	// uint64(-v) is exact for math.MinInt64 as well.
	mag := uint64(v)
	sign := ""
	if v < 0 {
		mag = uint64(-v)
		sign = "-"
	}

	digits := strconv.FormatUint(mag, r.Base())
	if punctuate {
		digits = group(digits, groupSize(r))
	}
	return sign + r.Prefix() + digits
}

// Formatter carries the output preferences used by the CLI.
type Formatter struct {
	Radix     Radix
	Punctuate bool
}

// Format renders v using the formatter's preferences.
func (f Formatter) Format(v int64) string {
	r := f.Radix
	if r == "" {
		r = RadixHex
	}
	return Format(v, r, f.Punctuate)
}

func groupSize(r Radix) int {
	switch r {
	case RadixBin, RadixHex:
		return 4
	default:
		return 3
	}
}

func group(digits string, size int) string {
	if len(digits) <= size {
		return digits
	}
	var b strings.Builder
	head := len(digits) % size
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += size {
		if b.Len() > 0 {
			b.WriteByte('_')
		}
		b.WriteString(digits[i : i+size])
	}
	return b.String()
}
