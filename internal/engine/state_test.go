package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cork/internal/repr"
)

func TestProtocolMessage_JSON(t *testing.T) {
	tests := []struct {
		name     string
		msg      Message
		expected string
	}{
		{
			name:     "updated",
			msg:      Updated{Value: 5, Width: repr.W8, Minimal: repr.W8},
			expected: `{"value":5,"error":null,"bitWidth":8}`,
		},
		{
			name:     "updated negative wide",
			msg:      Updated{Value: -1, Width: repr.W64, Minimal: repr.W8},
			expected: `{"value":-1,"error":null,"bitWidth":64}`,
		},
		{
			name:     "failed",
			msg:      Failed{Message: "Cannot divide by 0"},
			expected: `{"value":null,"error":"Cannot divide by 0","bitWidth":64}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.msg.Protocol())
			require.NoError(t, err)
			assert.JSONEq(t, tt.expected, string(data))
		})
	}
}

func TestState_Message(t *testing.T) {
	ok := State{Status: StatusOk, Value: 200, Width: repr.W32}
	assert.Equal(t, Updated{Value: 200, Width: repr.W32, Minimal: repr.W16}, ok.Message())
	assert.Equal(t, repr.W16, ok.Minimal())

	failed := State{Status: StatusErr, Error: "boom"}
	assert.Equal(t, Failed{Message: "boom"}, failed.Message())
	assert.Equal(t, repr.W8, failed.Minimal())

	assert.Nil(t, State{}.Message())
}

func TestState_Representation(t *testing.T) {
	r, ok := State{Status: StatusOk, Value: -1, Width: repr.W8}.Representation()
	require.True(t, ok)
	assert.Equal(t, repr.Representation{
		Binary:   "11111111",
		Octal:    "377",
		Hex:      "FF",
		Unsigned: "255",
	}, r)
}

func TestStatusAndPhase_String(t *testing.T) {
	assert.Equal(t, "empty", StatusEmpty.String())
	assert.Equal(t, "ok", StatusOk.String())
	assert.Equal(t, "err", StatusErr.String())
	assert.Equal(t, "idle", PhaseIdle.String())
	assert.Equal(t, "evaluating", PhaseEvaluating.String())
}
