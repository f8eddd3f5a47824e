// Package expr implements the integer expression language evaluated by cork.
//
// A line is one of:
//
//	<expr>                     evaluate and print
//	<expr> to hex|dec|oct|bin  evaluate and print in the given radix
//	set of hex|dec|oct|bin     change the output radix (sessions only)
//	set mode hex|dec           change how bare literals are read (sessions only)
//	                           (empty line)
//
// Literals carry an optional prefix (0x, 0d, 0o, 0b) and may contain '_'
// separators. Bare literals are read as hexadecimal in hex mode and as
// decimal in dec mode. `ans` refers to the previous result of a Session.
//
// Binary operators, from lowest to highest precedence (all left
// associative):
//
//	|
//	^
//	&
//	<<  >>
//	+   -
//	*   /   %
//
// Unary '-' and '~' bind tighter than any binary operator. Arithmetic is
// checked: overflow, division by zero and shift counts outside [0, 63] are
// evaluation errors rather than wrapped results.
package expr
