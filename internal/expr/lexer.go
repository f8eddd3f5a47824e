package expr

import (
	"fmt"
)

type tokenKind int

const (
	tokEOF  tokenKind = iota
	tokWord           // literal, ans, or keyword; resolved by the parser
	tokOp
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

func (t token) String() string {
	if t.kind == tokEOF {
		return "end of input"
	}
	return fmt.Sprintf("%q", t.text)
}

// lex splits a line into tokens. Words are maximal runs of letters, digits
// and '_'; the parser decides whether a word is a literal or a keyword.
func lex(line string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(line) {
		c := line[i]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			i++
		case isWordByte(c):
			start := i
			for i < len(line) && isWordByte(line[i]) {
				i++
			}
			toks = append(toks, token{kind: tokWord, text: line[start:i], pos: start})
		case c == '(':
			toks = append(toks, token{kind: tokLParen, text: "(", pos: i})
			i++
		case c == ')':
			toks = append(toks, token{kind: tokRParen, text: ")", pos: i})
			i++
		case c == '<' || c == '>':
			if i+1 >= len(line) || line[i+1] != c {
				return nil, &SyntaxError{Pos: i, Message: fmt.Sprintf("unexpected %q, did you mean %q", string(c), string([]byte{c, c}))}
			}
			toks = append(toks, token{kind: tokOp, text: line[i : i+2], pos: i})
			i += 2
		case c == '+' || c == '-' || c == '*' || c == '/' || c == '%' ||
			c == '&' || c == '|' || c == '^' || c == '~':
			toks = append(toks, token{kind: tokOp, text: string(c), pos: i})
			i++
		default:
			return nil, &SyntaxError{Pos: i, Message: fmt.Sprintf("unexpected character %q", string(c))}
		}
	}
	toks = append(toks, token{kind: tokEOF, pos: len(line)})
	return toks, nil
}

func isWordByte(c byte) bool {
	return c == '_' ||
		(c >= '0' && c <= '9') ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z')
}
