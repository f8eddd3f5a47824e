// Package repr implements fixed-width two's-complement representation of
// signed 64-bit integers.
//
// The package has three parts:
//   - Codec: Encode / Decode / DecodeBit convert a (value, width) pair to and
//     from zero-padded binary, octal, hexadecimal and unsigned decimal text.
//   - Width policy: MinimalWidth picks the narrowest width in the ladder
//     {8, 16, 32, 64} that holds a value; Reconcile auto-raises a selected
//     width that is narrower than that minimum.
//   - Mutation: ToggleBit flips one bit of the encoding and sign-extends the
//     result back into a signed value.
//
// INVARIANTS:
//   - width >= MinimalWidth(value) for every pair accepted by Encode
//   - UnsignedEncoding(value, width) is always in [0, 2^width - 1]
//   - every output is a pure function of (value, width)
//
// All functions are pure and safe for concurrent use. Violations of the
// invariants are reported as *RangeError and never produce partial output.
package repr
