package expr

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cork/internal/numeral"
)

func evalLine(t *testing.T, line string, mode numeral.Mode) int64 {
	t.Helper()
	cmd, err := ParseLine(line, mode)
	require.NoError(t, err, line)
	ec, ok := cmd.(ExprCommand)
	require.True(t, ok, "expected ExprCommand for %q, got %T", line, cmd)
	v, err := Eval(ec.Expr, 0)
	require.NoError(t, err, line)
	return v
}

func TestEval_DecMode(t *testing.T) {
	tests := []struct {
		line     string
		expected int64
	}{
		{"10 + 12", 22},
		{"0d10 + 12", 22},
		{"4 * 10 + 1", 41},
		{"(4 + 2) * 5 - 5", 25},
		{"10 / 3", 3},
		{"-10 / 3", -3},
		{"10 % 2", 0},
		{"3 << 7", 384},
		{"1000 >> 3 - 1", 250},
		{"0b0110 & 0b0011", 0b0010},
		{"0b0110 | 0b0011", 0b0111},
		{"0b0110 ^ 0b0000", 0b0110},
		{"1 | 2 ^ 3 & 4", 1 | (2 ^ (3 & 4))},
		{"0o17 + 0x10", 31},
		{"1_000 * 2", 2000},
		{"~0", -1},
		{"-(2 + 3)", -5},
		{"2 - -3", 5},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.expected, evalLine(t, tt.line, numeral.ModeDec))
		})
	}
}

func TestEval_HexMode(t *testing.T) {
	tests := []struct {
		line     string
		expected int64
	}{
		{"10 + 12", 0x22},
		{"ff + 1", 0x100},
		{"0d10 + 12", 0x1c},
		{"dead_beef", 0xdeadbeef},
		{"0bad", 0x0bad},
		{"0b11 + 1", 4},
		{"-0x8000000000000000", math.MinInt64},
		{"7fffffffffffffff", math.MaxInt64},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.expected, evalLine(t, tt.line, numeral.ModeHex))
		})
	}
}

func TestEval_Errors(t *testing.T) {
	tests := []struct {
		line string
	}{
		{"1 / 0"},
		{"1 % 0"},
		{"7fffffffffffffff + 1"},
		{"-0x8000000000000000 - 1"},
		{"0x4000000000000000 * 4"},
		{"-(-0x8000000000000000)"},
		{"1 << 64"},
		{"1 >> -1"},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			cmd, err := ParseLine(tt.line, numeral.ModeHex)
			require.NoError(t, err)
			_, err = Eval(cmd.(ExprCommand).Expr, 0)
			require.Error(t, err)
			assert.True(t, IsEvalError(err))
		})
	}
}

func TestParseLine_SyntaxErrors(t *testing.T) {
	for _, line := range []string{
		"1 +",
		"(1 + 2",
		"1 2",
		"1 < 2",
		"1 $ 2",
		"xyz",
		"0x8000000000000000",
		"ffffffffffffffffff",
		"1 to base64",
		"1 to",
		"set of",
	} {
		t.Run(line, func(t *testing.T) {
			_, err := ParseLine(line, numeral.ModeHex)
			require.Error(t, err)
			assert.True(t, IsSyntaxError(err))
		})
	}
}

func TestParseLine_Commands(t *testing.T) {
	cmd, err := ParseLine("   ", numeral.ModeHex)
	require.NoError(t, err)
	assert.Equal(t, EmptyCommand{}, cmd)

	cmd, err = ParseLine("set of bin", numeral.ModeHex)
	require.NoError(t, err)
	assert.Equal(t, SetCommand{Key: "of", Value: "bin"}, cmd)

	cmd, err = ParseLine("0x7f to dec", numeral.ModeHex)
	require.NoError(t, err)
	conv, ok := cmd.(ConvertCommand)
	require.True(t, ok)
	assert.Equal(t, numeral.RadixDec, conv.Radix)
	assert.Equal(t, Num{Value: 127, Radix: numeral.RadixHex}, conv.Expr)

	cmd, err = ParseLine("ans + 1", numeral.ModeHex)
	require.NoError(t, err)
	assert.Equal(t, ExprCommand{Expr: Binary{Op: OpAdd, Left: Ans{}, Right: Num{Value: 1, Radix: numeral.RadixHex}}}, cmd)
}

func TestEvaluator_Evaluate(t *testing.T) {
	ev := &Evaluator{}
	ctx := context.Background()

	out, err := ev.Evaluate(ctx, "ff + 1", numeral.ModeHex)
	require.NoError(t, err)
	assert.Equal(t, "0x100", out)

	out, err = ev.Evaluate(ctx, "3 - 4", numeral.ModeDec)
	require.NoError(t, err)
	assert.Equal(t, "-0x1", out)

	out, err = ev.Evaluate(ctx, "127 to bin", numeral.ModeDec)
	require.NoError(t, err)
	assert.Equal(t, "0x7f", out)

	_, err = ev.Evaluate(ctx, "1 / 0", numeral.ModeDec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Cannot divide by 0")
	assert.Contains(t, err.Error(), `failed to evaluate "1 / 0"`)

	_, err = ev.Evaluate(ctx, "set of hex", numeral.ModeDec)
	assert.ErrorIs(t, err, ErrSetDirective)

	_, err = ev.Evaluate(ctx, "", numeral.ModeDec)
	assert.ErrorIs(t, err, ErrEmptyExpression)

	assert.Equal(t, numeral.ModeHex, ev.ResultMode())
}

func TestEvalInline(t *testing.T) {
	r, err := EvalInline("0xff + 1", numeral.ModeHex)
	require.NoError(t, err)
	assert.Equal(t, Inline{Value: 256}, r)

	r, err = EvalInline("ans + 5", numeral.ModeDec)
	require.NoError(t, err)
	assert.Equal(t, int64(5), r.Value)

	r, err = EvalInline("255 to bin", numeral.ModeDec)
	require.NoError(t, err)
	assert.Equal(t, Inline{Value: 255, Radix: numeral.RadixBin}, r)

	_, err = EvalInline("set mode dec", numeral.ModeHex)
	assert.ErrorIs(t, err, ErrSetDirective)
	assert.True(t, IsEvalError(err))

	_, err = EvalInline("   ", numeral.ModeHex)
	assert.ErrorIs(t, err, ErrEmptyExpression)

	_, err = EvalInline("1 +", numeral.ModeDec)
	assert.True(t, IsSyntaxError(err))
	assert.NotContains(t, err.Error(), "failed to evaluate")

	_, err = EvalInline("1 / 0", numeral.ModeDec)
	require.Error(t, err)
	assert.Equal(t, `failed to evaluate "1 / 0": Cannot divide by 0`, err.Error())
}

func TestEvaluator_OutputParsesBack(t *testing.T) {
	ev := &Evaluator{Punctuate: true}
	out, err := ev.Evaluate(context.Background(), "-123456789", numeral.ModeDec)
	require.NoError(t, err)

	v, err := numeral.Parse(out, ev.ResultMode())
	require.NoError(t, err)
	assert.Equal(t, int64(-123456789), v)
}

func TestEvaluator_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := (&Evaluator{}).Evaluate(ctx, "1", numeral.ModeDec)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSession(t *testing.T) {
	s := NewSession(numeral.ModeDec, numeral.Formatter{Radix: numeral.RadixHex})

	out, err := s.Exec("10 + 6")
	require.NoError(t, err)
	assert.Equal(t, "0x10", out)
	assert.Equal(t, int64(16), s.Ans())

	out, err = s.Exec("ans * 2")
	require.NoError(t, err)
	assert.Equal(t, "0x20", out)

	out, err = s.Exec("set of dec")
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = s.Exec("ans + 1")
	require.NoError(t, err)
	assert.Equal(t, "0d33", out)

	out, err = s.Exec("ans to bin")
	require.NoError(t, err)
	assert.Equal(t, "0b100001", out)

	_, err = s.Exec("set mode hex")
	require.NoError(t, err)
	assert.Equal(t, numeral.ModeHex, s.Mode)

	out, err = s.Exec("ff")
	require.NoError(t, err)
	assert.Equal(t, "0d255", out)

	_, err = s.Exec("ans / 0")
	require.Error(t, err)
	assert.Equal(t, int64(255), s.Ans(), "ans unchanged on error")

	_, err = s.Exec("set of base64")
	assert.Error(t, err)
	_, err = s.Exec("set colour red")
	assert.Error(t, err)

	out, err = s.Exec("")
	require.NoError(t, err)
	assert.Empty(t, out)
}
