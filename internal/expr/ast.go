package expr

import (
	"github.com/roach88/cork/internal/numeral"
)

// Op is a unary or binary operator.
type Op string

const (
	OpAdd    Op = "+"
	OpSub    Op = "-"
	OpMul    Op = "*"
	OpDiv    Op = "/"
	OpRem    Op = "%"
	OpAnd    Op = "&"
	OpOr     Op = "|"
	OpXor    Op = "^"
	OpLShift Op = "<<"
	OpRShift Op = ">>"
	OpNeg    Op = "neg"
	OpNot    Op = "~"
)

// precedence of binary operators; higher binds tighter. Zero means "not a
// binary operator".
var precedence = map[Op]int{
	OpOr:     1,
	OpXor:    2,
	OpAnd:    3,
	OpLShift: 4,
	OpRShift: 4,
	OpAdd:    5,
	OpSub:    5,
	OpMul:    6,
	OpDiv:    6,
	OpRem:    6,
}

// Expr is a node of the expression tree.
type Expr interface {
	isExpr()
}

// Num is a literal. Radix records how it was written.
type Num struct {
	Value int64
	Radix numeral.Radix
}

// Ans refers to the previous result.
type Ans struct{}

// Unary applies OpNeg or OpNot.
type Unary struct {
	Op Op
	X  Expr
}

// Binary applies a binary operator.
type Binary struct {
	Op          Op
	Left, Right Expr
}

func (Num) isExpr()    {}
func (Ans) isExpr()    {}
func (Unary) isExpr()  {}
func (Binary) isExpr() {}

// Command is one parsed line.
type Command interface {
	isCommand()
}

// ExprCommand evaluates an expression in the session's output radix.
type ExprCommand struct {
	Expr Expr
}

// ConvertCommand evaluates an expression and prints it in Radix.
type ConvertCommand struct {
	Expr  Expr
	Radix numeral.Radix
}

// SetCommand changes a session setting ("of" or "mode").
type SetCommand struct {
	Key   string
	Value string
}

// EmptyCommand is a blank line.
type EmptyCommand struct{}

func (ExprCommand) isCommand()    {}
func (ConvertCommand) isCommand() {}
func (SetCommand) isCommand()     {}
func (EmptyCommand) isCommand()   {}
