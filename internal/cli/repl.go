package cli

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/cork/internal/expr"
)

// NewREPLCommand creates the repl command.
func NewREPLCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Start the line-oriented REPL",
		Long: `Read expressions from stdin one line at a time and print each result.

Errors are printed and the session continues. "ans" holds the previous
result and "set of <radix>" / "set mode <hex|dec>" change the session.
End input (Ctrl + D) to exit.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runREPL(cmd, rootOpts)
		},
	}
	return cmd
}

func runREPL(cmd *cobra.Command, opts *RootOptions) error {
	w := cmd.OutOrStdout()
	errW := cmd.ErrOrStderr()
	cfg := opts.Config
	session := expr.NewSession(cfg.Mode, cfg.Formatter())

	if cfg.Header {
		fmt.Fprintf(w, "Cork, version %s\n", Version)
		fmt.Fprintf(w, "Current mode: %s\n", session.Mode)
		fmt.Fprintln(w, "Press Ctrl + D to exit.")
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(w, cfg.Prompt)
		if !scanner.Scan() {
			break
		}
		text, err := session.Exec(scanner.Text())
		if err != nil {
			fmt.Fprintf(errW, "Error: %v\n", err)
			continue
		}
		if text != "" {
			fmt.Fprintln(w, text)
		}
	}
	if err := scanner.Err(); err != nil {
		return WrapExitError(ExitCommandError, "failed to read input", err)
	}

	fmt.Fprintln(w, "\nExiting ...")
	return nil
}
