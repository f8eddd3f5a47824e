package expr

import (
	"fmt"
	"math"
)

// Eval evaluates e. ans is the value `ans` refers to.
func Eval(e Expr, ans int64) (int64, error) {
	switch n := e.(type) {
	case Num:
		return n.Value, nil
	case Ans:
		return ans, nil
	case Unary:
		x, err := Eval(n.X, ans)
		if err != nil {
			return 0, err
		}
		return evalUnary(n.Op, x)
	case Binary:
		left, err := Eval(n.Left, ans)
		if err != nil {
			return 0, err
		}
		right, err := Eval(n.Right, ans)
		if err != nil {
			return 0, err
		}
		return evalBinary(n.Op, left, right)
	default:
		return 0, fmt.Errorf("unknown expression node %T", e)
	}
}

func evalUnary(op Op, x int64) (int64, error) {
	switch op {
	case OpNeg:
		if x == math.MinInt64 {
			return 0, &EvalError{Message: fmt.Sprintf("overflow in -(%d)", x)}
		}
		return -x, nil
	case OpNot:
		return ^x, nil
	}
	return 0, fmt.Errorf("unknown unary operator %q", op)
}

func evalBinary(op Op, a, b int64) (int64, error) {
	switch op {
	case OpAdd:
		sum := a + b
		if (a > 0 && b > 0 && sum < 0) || (a < 0 && b < 0 && sum >= 0) {
			return 0, overflow(op, a, b)
		}
		return sum, nil
	case OpSub:
		diff := a - b
		if (a >= 0 && b < 0 && diff < 0) || (a < 0 && b > 0 && diff >= 0) {
			return 0, overflow(op, a, b)
		}
		return diff, nil
	case OpMul:
		if a == 0 || b == 0 {
			return 0, nil
		}
		if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
			return 0, overflow(op, a, b)
		}
		prod := a * b
		if prod/b != a {
			return 0, overflow(op, a, b)
		}
		return prod, nil
	case OpDiv, OpRem:
		if b == 0 {
			return 0, &EvalError{Message: "Cannot divide by 0"}
		}
		if a == math.MinInt64 && b == -1 {
			if op == OpRem {
				return 0, nil
			}
			return 0, overflow(op, a, b)
		}
		if op == OpDiv {
			return a / b, nil
		}
		return a % b, nil
	case OpAnd:
		return a & b, nil
	case OpOr:
		return a | b, nil
	case OpXor:
		return a ^ b, nil
	case OpLShift, OpRShift:
		if b < 0 || b > 63 {
			return 0, &EvalError{Message: fmt.Sprintf("shift count %d outside [0, 63]", b)}
		}
		if op == OpLShift {
			return a << uint(b), nil
		}
		return a >> uint(b), nil
	}
	return 0, fmt.Errorf("unknown binary operator %q", op)
}

func overflow(op Op, a, b int64) *EvalError {
	return &EvalError{Message: fmt.Sprintf("overflow in %d %s %d", a, op, b)}
}
