package repr

// ToggleBit flips bit pos of the w-bit encoding of v and returns the new
// signed value.
//
// The sign is re-derived from bit w-1 of the flipped pattern, so toggling
// the sign bit itself moves v between the non-negative and negative halves
// of the range (0 at W8 with pos 7 becomes -128). For a fixed (w, pos) the
// operation is its own inverse.
//
// Returns a *RangeError if pos is outside [0, w) or v does not fit w.
func ToggleBit(v int64, w BitWidth, pos int) (int64, error) {
	u, err := UnsignedEncoding(v, w)
	if err != nil {
		return 0, err
	}
	if pos < 0 || pos >= w.Bits() {
		return 0, newBitPositionError(pos, w)
	}
	return FromUnsigned(u^(uint64(1)<<uint(pos)), w)
}

// Bits returns the 64 grid cells for v at w, least significant first.
// Cells at index >= w are always false.
func Bits(v int64, w BitWidth) ([64]bool, error) {
	var cells [64]bool
	u, err := UnsignedEncoding(v, w)
	if err != nil {
		return cells, err
	}
	for i := 0; i < w.Bits(); i++ {
		cells[i] = u>>uint(i)&1 == 1
	}
	return cells, nil
}
