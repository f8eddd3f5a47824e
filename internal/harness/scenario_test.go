package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cork/internal/numeral"
)

func TestParseScenario_Valid(t *testing.T) {
	doc := `
name: toggle
description: "flip the sign"
mode: dec
evaluator:
  - expr: "slow"
    result: "5"
steps:
  - evaluate: "127"
    expect: { value: 127, width: 8 }
  - toggle: 7
  - width: 16
  - evaluate: "slow"
    hold: true
  - release: "slow"
    expect: { outcome: ok }
assertions:
  - type: trace_contains
    message: { value: -1, bitWidth: 8 }
  - type: discarded
    count: 0
`
	s, err := ParseScenario([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, "toggle", s.Name)
	assert.Equal(t, numeral.ModeDec, s.Mode)
	require.Len(t, s.Steps, 5)
	assert.Equal(t, StepEvaluate, s.Steps[0].Kind())
	assert.Equal(t, StepToggle, s.Steps[1].Kind())
	assert.Equal(t, 7, *s.Steps[1].Toggle)
	assert.Equal(t, StepWidth, s.Steps[2].Kind())
	assert.True(t, s.Steps[3].Hold)
	assert.Equal(t, StepRelease, s.Steps[4].Kind())
	require.Len(t, s.Assertions, 2)
	assert.Equal(t, 8, s.Assertions[0].Message.BitWidth)
}

func TestParseScenario_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "missing name",
			doc:  "description: d\nsteps: [{evaluate: '1'}]",
			want: "name is required",
		},
		{
			name: "no steps",
			doc:  "name: n\ndescription: d\nsteps: []",
			want: "steps list is required",
		},
		{
			name: "unknown field",
			doc:  "name: n\ndescription: d\nsteps: [{evaluate: '1', bogus: 1}]",
			want: "failed to parse YAML",
		},
		{
			name: "two actions in one step",
			doc:  "name: n\ndescription: d\nsteps: [{evaluate: '1', toggle: 0}]",
			want: "exactly one of evaluate",
		},
		{
			name: "bad mode",
			doc:  "name: n\ndescription: d\nmode: oct\nsteps: [{evaluate: '1'}]",
			want: "invalid mode",
		},
		{
			name: "bad width",
			doc:  "name: n\ndescription: d\nsteps: [{width: 12}]",
			want: "INVALID_WIDTH",
		},
		{
			name: "release without hold",
			doc:  "name: n\ndescription: d\nsteps: [{release: 'x'}]",
			want: "not held",
		},
		{
			name: "hold never released",
			doc:  "name: n\ndescription: d\nsteps: [{evaluate: 'x', hold: true}]",
			want: "never released",
		},
		{
			name: "expect on held step",
			doc:  "name: n\ndescription: d\nsteps: [{evaluate: 'x', hold: true, expect: {value: 1}}, {release: 'x'}]",
			want: "expect belongs on the release step",
		},
		{
			name: "unknown outcome",
			doc:  "name: n\ndescription: d\nsteps: [{evaluate: '1', expect: {outcome: maybe}}]",
			want: "unknown outcome",
		},
		{
			name: "scripted reply with both result and error",
			doc:  "name: n\ndescription: d\nevaluator: [{expr: x, result: '1', error: e}]\nsteps: [{evaluate: x}]",
			want: "exactly one of result and error",
		},
		{
			name: "unknown assertion",
			doc:  "name: n\ndescription: d\nsteps: [{evaluate: '1'}]\nassertions: [{type: trace_order}]",
			want: "unknown assertion type",
		},
		{
			name: "trace_contains without message",
			doc:  "name: n\ndescription: d\nsteps: [{evaluate: '1'}]\nassertions: [{type: trace_contains}]",
			want: "message is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseScenario_InvalidWidthAllowedWhenExpected(t *testing.T) {
	doc := "name: n\ndescription: d\nsteps: [{evaluate: '1'}, {width: 12, expect: {outcome: range_error}}]"
	s, err := ParseScenario([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, 12, *s.Steps[1].Width)
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0644))
	}
	write("b.yaml", "name: b\ndescription: d\nsteps: [{evaluate: '1'}]")
	write("a.yml", "name: a\ndescription: d\nsteps: [{evaluate: '1'}]")
	write("notes.txt", "ignored")

	scenarios, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, scenarios, 2)
	assert.Equal(t, "a", scenarios[0].Name)
	assert.Equal(t, "b", scenarios[1].Name)
}

func TestLoadDir_Empty(t *testing.T) {
	_, err := LoadDir(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no scenarios found")
}

func TestLoadDir_ReportsFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("name: x"), 0644))

	_, err := LoadDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.yaml")
}
