package expr

import (
	"fmt"

	"github.com/roach88/cork/internal/numeral"
)

// Session evaluates a sequence of lines, carrying `ans`, the literal mode
// and the output formatter from one line to the next. It backs the script
// and repl commands.
//
// A Session is not safe for concurrent use.
type Session struct {
	Mode      numeral.Mode
	Formatter numeral.Formatter

	ans int64
}

// NewSession creates a session with ans = 0.
func NewSession(mode numeral.Mode, f numeral.Formatter) *Session {
	return &Session{Mode: mode, Formatter: f}
}

// Ans returns the last result.
func (s *Session) Ans() int64 {
	return s.ans
}

// Exec runs one line and returns the text to print ("" for set directives
// and blank lines). On error ans is unchanged.
func (s *Session) Exec(line string) (string, error) {
	cmd, err := ParseLine(line, s.Mode)
	if err != nil {
		return "", err
	}

	switch c := cmd.(type) {
	case ExprCommand:
		v, err := Eval(c.Expr, s.ans)
		if err != nil {
			return "", err
		}
		s.ans = v
		return s.Formatter.Format(v), nil

	case ConvertCommand:
		v, err := Eval(c.Expr, s.ans)
		if err != nil {
			return "", err
		}
		s.ans = v
		return numeral.Format(v, c.Radix, s.Formatter.Punctuate), nil

	case SetCommand:
		return "", s.apply(c)

	case EmptyCommand:
		return "", nil
	}
	return "", fmt.Errorf("unknown command %T", cmd)
}

func (s *Session) apply(c SetCommand) error {
	switch c.Key {
	case "of":
		r, err := numeral.ParseRadix(c.Value)
		if err != nil {
			return fmt.Errorf("invalid value %q for key %q", c.Value, c.Key)
		}
		s.Formatter.Radix = r
	case "mode":
		m, err := numeral.ParseMode(c.Value)
		if err != nil {
			return fmt.Errorf("invalid value %q for key %q", c.Value, c.Key)
		}
		s.Mode = m
	default:
		return fmt.Errorf("invalid key %q", c.Key)
	}
	return nil
}
