package expr

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/roach88/cork/internal/numeral"
)

// ParseLine parses one line of input. Bare literals are read according to
// mode.
func ParseLine(line string, mode numeral.Mode) (Command, error) {
	toks, err := lex(line)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks, mode: mode}

	if p.peek().kind == tokEOF {
		return EmptyCommand{}, nil
	}
	if p.peekWord("set") {
		return p.parseSet()
	}

	e, err := p.parseExpr(1)
	if err != nil {
		return nil, err
	}

	if p.peekWord("to") {
		p.next()
		radixTok := p.next()
		if radixTok.kind != tokWord {
			return nil, &SyntaxError{Pos: radixTok.pos, Message: fmt.Sprintf("expected radix after 'to', found %s", radixTok)}
		}
		radix, err := numeral.ParseRadix(radixTok.text)
		if err != nil {
			return nil, &SyntaxError{Pos: radixTok.pos, Message: err.Error()}
		}
		if err := p.expectEOF(); err != nil {
			return nil, err
		}
		return ConvertCommand{Expr: e, Radix: radix}, nil
	}

	if err := p.expectEOF(); err != nil {
		return nil, err
	}
	return ExprCommand{Expr: e}, nil
}

type parser struct {
	toks []token
	idx  int
	mode numeral.Mode
}

func (p *parser) peek() token {
	return p.toks[p.idx]
}

func (p *parser) next() token {
	t := p.toks[p.idx]
	if t.kind != tokEOF {
		p.idx++
	}
	return t
}

func (p *parser) peekWord(w string) bool {
	t := p.peek()
	return t.kind == tokWord && strings.EqualFold(t.text, w)
}

func (p *parser) expectEOF() error {
	if t := p.peek(); t.kind != tokEOF {
		return &SyntaxError{Pos: t.pos, Message: fmt.Sprintf("unexpected %s", t)}
	}
	return nil
}

func (p *parser) parseSet() (Command, error) {
	p.next() // "set"
	key := p.next()
	value := p.next()
	if key.kind != tokWord || value.kind != tokWord {
		return nil, &SyntaxError{Pos: key.pos, Message: "expected 'set <key> <value>'"}
	}
	if err := p.expectEOF(); err != nil {
		return nil, err
	}
	return SetCommand{Key: strings.ToLower(key.text), Value: strings.ToLower(value.text)}, nil
}

// parseExpr is a precedence-climbing loop over binary operators with
// precedence >= minPrec.
func (p *parser) parseExpr(minPrec int) (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		t := p.peek()
		if t.kind != tokOp {
			return left, nil
		}
		op := Op(t.text)
		prec := precedence[op]
		if prec == 0 || prec < minPrec {
			return left, nil
		}
		p.next()

		right, err := p.parseExpr(prec + 1)
		if err != nil {
			return nil, err
		}
		left = Binary{Op: op, Left: left, Right: right}
	}
}

func (p *parser) parseUnary() (Expr, error) {
	t := p.peek()
	if t.kind == tokOp && (t.text == "-" || t.text == "~") {
		p.next()

		// A negated literal is folded here so that -0x8000000000000000
		// (math.MinInt64) is expressible.
		if t.text == "-" && p.peek().kind == tokWord {
			if mag, radix, ok, err := p.literal(p.peek()); ok || err != nil {
				if err != nil {
					return nil, err
				}
				p.next()
				if mag > uint64(math.MaxInt64)+1 {
					return nil, &SyntaxError{Pos: t.pos, Message: "number out of 64-bit range"}
				}
				return Num{Value: int64(-mag), Radix: radix}, nil
			}
		}

		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if t.text == "-" {
			return Unary{Op: OpNeg, X: x}, nil
		}
		return Unary{Op: OpNot, X: x}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Expr, error) {
	t := p.next()
	switch t.kind {
	case tokLParen:
		e, err := p.parseExpr(1)
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.kind != tokRParen {
			return nil, &SyntaxError{Pos: closing.pos, Message: fmt.Sprintf("expected ')', found %s", closing)}
		}
		return e, nil

	case tokWord:
		if strings.EqualFold(t.text, "ans") {
			return Ans{}, nil
		}
		mag, radix, ok, err := p.literal(t)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &SyntaxError{Pos: t.pos, Message: fmt.Sprintf("%q is not a %s number", t.text, p.mode)}
		}
		if mag > math.MaxInt64 {
			return nil, &SyntaxError{Pos: t.pos, Message: "number out of 64-bit range"}
		}
		return Num{Value: int64(mag), Radix: radix}, nil

	default:
		return nil, &SyntaxError{Pos: t.pos, Message: fmt.Sprintf("expected number, found %s", t)}
	}
}

// literal reads a word as an unsigned magnitude. ok is false when the word
// is not a number at all (err is then nil). A prefix that is followed by
// digits invalid for it falls back to the bare-literal reading, so "0bad"
// in hex mode is 0x0bad.
func (p *parser) literal(t token) (mag uint64, radix numeral.Radix, ok bool, err error) {
	word := t.text
	if len(word) > 2 && word[0] == '0' {
		var prefixed numeral.Radix
		switch word[1] {
		case 'x', 'X':
			prefixed = numeral.RadixHex
		case 'd', 'D':
			prefixed = numeral.RadixDec
		case 'o', 'O':
			prefixed = numeral.RadixOct
		case 'b', 'B':
			prefixed = numeral.RadixBin
		}
		if prefixed != "" {
			mag, err := parseDigits(word[2:], prefixed.Base())
			if err == nil {
				return mag, prefixed, true, nil
			}
			if errors.Is(err, strconv.ErrRange) {
				return 0, "", false, &SyntaxError{Pos: t.pos, Message: "number out of 64-bit range"}
			}
		}
	}

	bare := numeral.RadixDec
	if p.mode == numeral.ModeHex {
		bare = numeral.RadixHex
	}
	mag, err = parseDigits(word, bare.Base())
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, "", false, &SyntaxError{Pos: t.pos, Message: "number out of 64-bit range"}
		}
		return 0, "", false, nil
	}
	return mag, bare, true, nil
}

func parseDigits(s string, base int) (uint64, error) {
	digits := strings.ReplaceAll(s, "_", "")
	if digits == "" {
		return 0, strconv.ErrSyntax
	}
	return strconv.ParseUint(digits, base, 64)
}
