package repr

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// BitWidth is one rung of the width ladder. The zero value is not a valid
// width; use the W* constants or ParseWidth.
type BitWidth int

const (
	W8  BitWidth = 8
	W16 BitWidth = 16
	W32 BitWidth = 32
	W64 BitWidth = 64
)

// Widths is the ladder in ascending order. MinimalWidth walks it in this
// order, so it must never be reordered.
var Widths = [...]BitWidth{W8, W16, W32, W64}

// Valid reports whether w is on the ladder.
func (w BitWidth) Valid() bool {
	switch w {
	case W8, W16, W32, W64:
		return true
	}
	return false
}

// Bits returns the width as a plain int.
func (w BitWidth) Bits() int {
	return int(w)
}

// String renders the width the way the selector labels it, e.g. "16bit".
func (w BitWidth) String() string {
	return strconv.Itoa(int(w)) + "bit"
}

// Min returns the most negative value representable at w.
func (w BitWidth) Min() int64 {
	if w == W64 {
		return math.MinInt64
	}
	return -(int64(1) << (w - 1))
}

// Max returns the most positive value representable at w.
func (w BitWidth) Max() int64 {
	if w == W64 {
		return math.MaxInt64
	}
	return int64(1)<<(w-1) - 1
}

// Contains reports whether v lies in the signed range of w.
func (w BitWidth) Contains(v int64) bool {
	return w.Valid() && v >= w.Min() && v <= w.Max()
}

// mask returns 2^w - 1.
func (w BitWidth) mask() uint64 {
	if w == W64 {
		return math.MaxUint64
	}
	return uint64(1)<<w - 1
}

// ParseWidth accepts "8", "16", "32", "64", optionally suffixed by "bit".
func ParseWidth(s string) (BitWidth, error) {
	trimmed := strings.TrimSuffix(strings.TrimSpace(strings.ToLower(s)), "bit")
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, &RangeError{Code: ErrCodeInvalidWidth, Message: fmt.Sprintf("invalid bit width %q", s)}
	}
	return WidthOf(n)
}

// WidthOf converts a plain int into a BitWidth.
func WidthOf(n int) (BitWidth, error) {
	w := BitWidth(n)
	if !w.Valid() {
		return 0, &RangeError{Code: ErrCodeInvalidWidth, Message: fmt.Sprintf("bit width %d not in {8, 16, 32, 64}", n)}
	}
	return w, nil
}

// MinimalWidth returns the narrowest ladder width whose signed range holds v.
// Every int64 fits in W64, so the ladder always terminates.
func MinimalWidth(v int64) BitWidth {
	for _, w := range Widths {
		if v >= w.Min() && v <= w.Max() {
			return w
		}
	}
	return W64
}

// Reconcile returns the width to render at after the user selects one.
// A selection narrower than minimal is auto-raised, never accepted.
// An invalid selection falls back to minimal.
func Reconcile(selected, minimal BitWidth) BitWidth {
	if !selected.Valid() || selected < minimal {
		return minimal
	}
	return selected
}

// WidthOption describes one entry of the width selector.
type WidthOption struct {
	Width   BitWidth
	Enabled bool
}

// Selectable lists the ladder with each option enabled only if it can hold v.
func Selectable(v int64) []WidthOption {
	minimal := MinimalWidth(v)
	opts := make([]WidthOption, len(Widths))
	for i, w := range Widths {
		opts[i] = WidthOption{Width: w, Enabled: w >= minimal}
	}
	return opts
}
