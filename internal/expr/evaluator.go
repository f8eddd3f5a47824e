package expr

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/cork/internal/numeral"
)

var (
	// ErrEmptyExpression is returned when the evaluator is given a blank line.
	ErrEmptyExpression = errors.New("empty expression")

	// ErrSetDirective rejects "set" lines outside a session.
	ErrSetDirective error = &EvalError{Message: "set directive not allowed in inline expression"}
)

// Evaluator is the stateless expression service used by the engine.
//
// Every successful evaluation is rendered as hexadecimal numeral text
// ("0x…" or "-0x…"), which is the shape numeral.Parse expects in hex mode,
// regardless of the mode used to read bare literals.
type Evaluator struct {
	// Punctuate inserts '_' digit separators into the result text.
	Punctuate bool
}

// ResultMode is the numeral mode the evaluator's output must be parsed with.
func (e *Evaluator) ResultMode() numeral.Mode {
	return numeral.ModeHex
}

// Evaluate parses and evaluates one line and renders the value in hex.
func (e *Evaluator) Evaluate(ctx context.Context, line string, mode numeral.Mode) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	r, err := EvalInline(line, mode)
	if err != nil {
		return "", err
	}
	return numeral.Format(r.Value, numeral.RadixHex, e.Punctuate), nil
}

// Inline is the outcome of one self-contained line.
type Inline struct {
	Value int64
	// Radix is the target of a "to <radix>" suffix, or "" when the line
	// is a plain expression.
	Radix numeral.Radix
}

// EvalInline parses and evaluates a line that has no session around it:
// "ans" is 0, set directives are rejected with ErrSetDirective and blank
// lines with ErrEmptyExpression. Parse errors are returned unwrapped.
func EvalInline(line string, mode numeral.Mode) (Inline, error) {
	cmd, err := ParseLine(line, mode)
	if err != nil {
		return Inline{}, err
	}

	var (
		node  Expr
		radix numeral.Radix
	)
	switch c := cmd.(type) {
	case ExprCommand:
		node = c.Expr
	case ConvertCommand:
		node, radix = c.Expr, c.Radix
	case SetCommand:
		return Inline{}, ErrSetDirective
	case EmptyCommand:
		return Inline{}, ErrEmptyExpression
	default:
		return Inline{}, fmt.Errorf("unknown command %T", cmd)
	}

	v, err := Eval(node, 0)
	if err != nil {
		return Inline{}, fmt.Errorf("failed to evaluate %q: %w", line, err)
	}
	return Inline{Value: v, Radix: radix}, nil
}
