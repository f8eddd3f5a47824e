package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/cork/internal/expr"
)

// ScriptOptions holds flags for the script command.
type ScriptOptions struct {
	*RootOptions
}

// ScriptLine is one printed result of a script.
type ScriptLine struct {
	Line   int    `json:"line"`
	Input  string `json:"input"`
	Output string `json:"output"`
}

// ScriptResult is the script command's payload.
type ScriptResult struct {
	Path    string       `json:"path"`
	Results []ScriptLine `json:"results"`
}

// String implements fmt.Stringer for text output.
func (r ScriptResult) String() string {
	outputs := make([]string, len(r.Results))
	for i, l := range r.Results {
		outputs[i] = l.Output
	}
	return strings.Join(outputs, "\n")
}

// NewScriptCommand creates the script command.
func NewScriptCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ScriptOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "script <file>",
		Short: "Evaluate a script file line by line",
		Long: `Evaluate every line of a script and print each result.

Lines share state: "ans" holds the previous result and "set" directives
change the literal mode or output radix for the lines after them. Execution
stops at the first failing line. Use "-" to read the script from stdin.

Examples:
  cork script calc.cork
  echo 'set of dec' | cork script -`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScript(opts, args[0], cmd)
		},
	}

	return cmd
}

func runScript(opts *ScriptOptions, path string, cmd *cobra.Command) error {
	out := opts.formatter(cmd)

	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open script", err)
		}
		defer f.Close()
		r = f
	}

	result := ScriptResult{Path: path, Results: []ScriptLine{}}
	session := expr.NewSession(opts.Config.Mode, opts.Config.Formatter())

	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		n++
		line := scanner.Text()
		text, err := session.Exec(line)
		if err != nil {
			// Results printed so far are still shown in text mode.
			if opts.Format != "json" && len(result.Results) > 0 {
				fmt.Fprintln(out.Writer, result)
			}
			return out.Fail(ExitFailure, fmt.Errorf("%s:%d: %w", path, n, err))
		}
		if text != "" {
			result.Results = append(result.Results, ScriptLine{Line: n, Input: line, Output: text})
		}
	}
	if err := scanner.Err(); err != nil {
		return WrapExitError(ExitCommandError, "failed to read script", err)
	}

	if opts.Format != "json" && len(result.Results) == 0 {
		return nil
	}
	return out.Success(result)
}
