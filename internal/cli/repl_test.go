package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestREPL(t *testing.T) {
	stdout, stderr, err := execute(t, "1+1\n1/0\nset of dec\nans * 2\n", "repl")
	require.NoError(t, err)

	want := "Cork, version " + Version + "\n" +
		"Current mode: hex\n" +
		"Press Ctrl + D to exit.\n" +
		"cork> 0x2\n" +
		"cork> " +
		"cork> " +
		"cork> 0d4\n" +
		"cork> \nExiting ...\n"
	assert.Equal(t, want, stdout)
	assert.Contains(t, stderr, "Error: ")
	assert.Contains(t, stderr, "Cannot divide by 0")
}

func TestREPL_ConfiguredPromptWithoutHeader(t *testing.T) {
	path := writeFile(t, "cork.yaml", "prompt: \"$ \"\nheader: false\n")

	stdout, _, err := execute(t, "0x10\n", "--config", path, "repl")
	require.NoError(t, err)
	assert.Equal(t, "$ 0x10\n$ \nExiting ...\n", stdout)
}
