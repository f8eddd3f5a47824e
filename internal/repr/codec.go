package repr

import (
	"fmt"
	"strconv"
	"strings"
)

// Representation is the text bundle rendered for a (value, width) pair.
// Every field is derived from the unsigned encoding and zero-padded:
//
//	len(Binary) == width
//	len(Hex)    == ceil(width/4)
//	len(Octal)  == ceil(width/3)
type Representation struct {
	Binary   string `json:"binary"`
	Octal    string `json:"octal"`
	Hex      string `json:"hexadecimal"`
	Unsigned string `json:"unsignedDecimal"`
}

// HexDigits returns ceil(w/4).
func HexDigits(w BitWidth) int {
	return (w.Bits() + 3) / 4
}

// OctalDigits returns ceil(w/3).
func OctalDigits(w BitWidth) int {
	return (w.Bits() + 2) / 3
}

// UnsignedEncoding folds v into its two's-complement bit pattern at w:
// v itself when v >= 0, otherwise v + 2^w.
func UnsignedEncoding(v int64, w BitWidth) (uint64, error) {
	if !w.Valid() {
		return 0, &RangeError{Code: ErrCodeInvalidWidth, Message: fmt.Sprintf("bit width %d not in {8, 16, 32, 64}", int(w))}
	}
	if !w.Contains(v) {
		return 0, newValueRangeError(v, w)
	}
	// Converting to uint64 already yields v + 2^64 for negatives; masking
	// reduces that to v + 2^w.
	return uint64(v) & w.mask(), nil
}

// FromUnsigned sign-extends a w-bit pattern back into a signed value.
// Bits above w must be clear.
func FromUnsigned(u uint64, w BitWidth) (int64, error) {
	if !w.Valid() {
		return 0, &RangeError{Code: ErrCodeInvalidWidth, Message: fmt.Sprintf("bit width %d not in {8, 16, 32, 64}", int(w))}
	}
	if u&^w.mask() != 0 {
		return 0, &RangeError{
			Code:    ErrCodeValueRange,
			Message: fmt.Sprintf("encoding %#x wider than %d bits", u, w.Bits()),
			Width:   w,
		}
	}
	if w == W64 {
		return int64(u), nil
	}
	signBit := uint64(1) << (w - 1)
	if u&signBit != 0 {
		return int64(u) - int64(1)<<w, nil
	}
	return int64(u), nil
}

// Encode renders v at width w.
//
// Returns a *RangeError if v does not fit the signed range of w. Callers
// keep width >= MinimalWidth(v), so an error here is a contract violation.
func Encode(v int64, w BitWidth) (Representation, error) {
	u, err := UnsignedEncoding(v, w)
	if err != nil {
		return Representation{}, err
	}
	return Representation{
		Binary:   pad(strconv.FormatUint(u, 2), w.Bits()),
		Octal:    pad(strconv.FormatUint(u, 8), OctalDigits(w)),
		Hex:      pad(strings.ToUpper(strconv.FormatUint(u, 16)), HexDigits(w)),
		Unsigned: strconv.FormatUint(u, 10),
	}, nil
}

// MustEncode is Encode for callers that have already enforced the width
// invariant. Panics on a contract violation.
func MustEncode(v int64, w BitWidth) Representation {
	r, err := Encode(v, w)
	if err != nil {
		panic(err)
	}
	return r
}

// Decode is the inverse of Encode on the Binary field: it reads a
// width-length string of '0'/'1' and returns the signed value.
func Decode(binary string, w BitWidth) (int64, error) {
	if !w.Valid() {
		return 0, &RangeError{Code: ErrCodeInvalidWidth, Message: fmt.Sprintf("bit width %d not in {8, 16, 32, 64}", int(w))}
	}
	if len(binary) != w.Bits() {
		return 0, &RangeError{
			Code:    ErrCodeMalformedBits,
			Message: fmt.Sprintf("expected %d binary digits, got %d", w.Bits(), len(binary)),
			Width:   w,
		}
	}
	u, err := strconv.ParseUint(binary, 2, 64)
	if err != nil {
		return 0, &RangeError{
			Code:    ErrCodeMalformedBits,
			Message: fmt.Sprintf("invalid binary digits %q", binary),
			Width:   w,
		}
	}
	return FromUnsigned(u, w)
}

// DecodeBit reports bit pos of the w-bit encoding of v.
func DecodeBit(v int64, w BitWidth, pos int) (bool, error) {
	u, err := UnsignedEncoding(v, w)
	if err != nil {
		return false, err
	}
	if pos < 0 || pos >= w.Bits() {
		return false, newBitPositionError(pos, w)
	}
	return u>>uint(pos)&1 == 1, nil
}

func pad(digits string, n int) string {
	if len(digits) >= n {
		return digits
	}
	return strings.Repeat("0", n-len(digits)) + digits
}
