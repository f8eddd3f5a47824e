package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Golden files live in testdata/golden. Regenerate with:
//
//	go test ./internal/harness -run TestGolden -update
func TestGolden_ScenarioFiles(t *testing.T) {
	scenarios, err := LoadDir("testdata/scenarios")
	require.NoError(t, err)

	for _, s := range scenarios {
		t.Run(s.Name, func(t *testing.T) {
			result, err := RunWithGolden(t, s)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestSnapshot_OmitsUnsetFields(t *testing.T) {
	result := NewResult()
	result.Steps = append(result.Steps, StepRecord{Index: 0, Kind: StepToggle, Outcome: OutcomeStateError})

	data, err := Snapshot("empty", result).Marshal()
	require.NoError(t, err)
	assert.Equal(t,
		`{"discarded":0,"final":{"revision":0,"status":"empty"},"scenario_name":"empty","steps":[{"index":0,"kind":"toggle","outcome":"state_error"}],"trace":[]}`,
		string(data))
}
