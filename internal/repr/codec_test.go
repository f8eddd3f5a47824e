package repr

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_Scenarios(t *testing.T) {
	tests := []struct {
		name     string
		value    int64
		width    BitWidth
		expected Representation
	}{
		{
			name:  "five at 8 bits",
			value: 5,
			width: W8,
			expected: Representation{
				Binary:   "00000101",
				Octal:    "005",
				Hex:      "05",
				Unsigned: "5",
			},
		},
		{
			name:  "minus one at 8 bits",
			value: -1,
			width: W8,
			expected: Representation{
				Binary:   "11111111",
				Octal:    "377",
				Hex:      "FF",
				Unsigned: "255",
			},
		},
		{
			name:  "minus one at 64 bits",
			value: -1,
			width: W64,
			expected: Representation{
				Binary:   "1111111111111111111111111111111111111111111111111111111111111111",
				Octal:    "1777777777777777777777",
				Hex:      "FFFFFFFFFFFFFFFF",
				Unsigned: "18446744073709551615",
			},
		},
		{
			name:  "most negative 16 bit",
			value: -32768,
			width: W16,
			expected: Representation{
				Binary:   "1000000000000000",
				Octal:    "100000",
				Hex:      "8000",
				Unsigned: "32768",
			},
		},
		{
			name:  "zero at 32 bits",
			value: 0,
			width: W32,
			expected: Representation{
				Binary:   "00000000000000000000000000000000",
				Octal:    "00000000000",
				Hex:      "00000000",
				Unsigned: "0",
			},
		},
		{
			name:  "min int64",
			value: math.MinInt64,
			width: W64,
			expected: Representation{
				Binary:   "1000000000000000000000000000000000000000000000000000000000000000",
				Octal:    "1000000000000000000000",
				Hex:      "8000000000000000",
				Unsigned: "9223372036854775808",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.value, tt.width)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestEncode_PaddingExactness(t *testing.T) {
	values := []int64{0, 1, -1, 127, -128}
	for _, w := range Widths {
		for _, v := range values {
			r, err := Encode(v, w)
			require.NoError(t, err)
			assert.Len(t, r.Binary, w.Bits(), "binary length at %s", w)
			assert.Len(t, r.Hex, HexDigits(w), "hex length at %s", w)
			assert.Len(t, r.Octal, OctalDigits(w), "octal length at %s", w)
		}
	}

	assert.Equal(t, 2, HexDigits(W8))
	assert.Equal(t, 3, OctalDigits(W8))
	assert.Equal(t, 6, OctalDigits(W16))
	assert.Equal(t, 11, OctalDigits(W32))
	assert.Equal(t, 22, OctalDigits(W64))
}

func TestEncode_RejectsValueOutsideWidth(t *testing.T) {
	_, err := Encode(200, W8)
	require.Error(t, err)
	assert.True(t, IsRangeError(err))

	var re *RangeError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, ErrCodeValueRange, re.Code)
	assert.Equal(t, W8, re.Width)
}

func TestEncode_RejectsInvalidWidth(t *testing.T) {
	_, err := Encode(1, BitWidth(12))
	require.Error(t, err)

	var re *RangeError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, ErrCodeInvalidWidth, re.Code)
}

func TestDecode_RoundTrip(t *testing.T) {
	values := []int64{
		0, 1, -1, 5, 127, -128, 200, -200, 32767, -32768, 65535,
		math.MaxInt32, math.MinInt32, 1 << 40, -(1 << 40),
		math.MaxInt64, math.MinInt64,
	}

	for _, v := range values {
		for _, w := range Widths {
			if w < MinimalWidth(v) {
				continue
			}
			r, err := Encode(v, w)
			require.NoError(t, err)

			got, err := Decode(r.Binary, w)
			require.NoError(t, err)
			assert.Equal(t, v, got, "round trip of %d at %s", v, w)
		}
	}
}

func TestDecode_Malformed(t *testing.T) {
	_, err := Decode("0101", W8)
	assert.True(t, IsRangeError(err))

	_, err = Decode("0101010x", W8)
	assert.True(t, IsRangeError(err))
}

func TestUnsignedEncoding(t *testing.T) {
	u, err := UnsignedEncoding(-1, W8)
	require.NoError(t, err)
	assert.Equal(t, uint64(255), u)

	u, err = UnsignedEncoding(-1, W16)
	require.NoError(t, err)
	assert.Equal(t, uint64(65535), u)

	u, err = UnsignedEncoding(42, W32)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), u)

	u, err = UnsignedEncoding(math.MinInt64, W64)
	require.NoError(t, err)
	assert.Equal(t, uint64(1)<<63, u)
}

func TestFromUnsigned(t *testing.T) {
	v, err := FromUnsigned(0x80, W8)
	require.NoError(t, err)
	assert.Equal(t, int64(-128), v)

	v, err = FromUnsigned(0x7F, W8)
	require.NoError(t, err)
	assert.Equal(t, int64(127), v)

	_, err = FromUnsigned(0x100, W8)
	assert.True(t, IsRangeError(err))
}

func TestDecodeBit(t *testing.T) {
	set, err := DecodeBit(5, W8, 0)
	require.NoError(t, err)
	assert.True(t, set)

	set, err = DecodeBit(5, W8, 1)
	require.NoError(t, err)
	assert.False(t, set)

	set, err = DecodeBit(-1, W8, 7)
	require.NoError(t, err)
	assert.True(t, set)

	_, err = DecodeBit(5, W8, 8)
	require.Error(t, err)
	var re *RangeError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, ErrCodeBitPosition, re.Code)

	_, err = DecodeBit(5, W8, -1)
	assert.True(t, IsRangeError(err))
}

func TestMustEncode_PanicsOnContractViolation(t *testing.T) {
	assert.Panics(t, func() { MustEncode(1000, W8) })
	assert.NotPanics(t, func() { MustEncode(100, W8) })
}
