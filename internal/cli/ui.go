package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/roach88/cork/internal/tui"
)

// UILogFile receives log output while the interactive UI owns the terminal.
const UILogFile = "cork-ui.log"

// NewUICommand creates the ui command.
func NewUICommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Start the interactive bit editor",
		Long: `Start the full-screen UI: an expression input, the 64-cell bit grid,
the width selector and the representation panel.

Logs are discarded while the UI runs. With --verbose they are written to
` + UILogFile + ` in the current directory.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUI(cmd, rootOpts)
		},
	}
	return cmd
}

func runUI(cmd *cobra.Command, opts *RootOptions) error {
	closeLog, err := redirectLogging(opts.Verbose)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open log file", err)
	}
	defer closeLog()

	ctx, stop := signalContext(cmd)
	defer stop()

	eng := newEngine(opts.Config)
	err = withEngine(ctx, eng, func(ctx context.Context) error {
		return tui.Run(ctx, eng, tui.Options{
			Prompt: opts.Config.Prompt,
			Mode:   opts.Config.Mode,
			Header: opts.Config.Header,
		})
	})
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return WrapExitError(ExitFailure, "ui error", err)
	}
	return nil
}

// redirectLogging points slog away from the terminal for the lifetime of
// the UI. The returned func closes the log file, if one was opened.
func redirectLogging(verbose bool) (func(), error) {
	if !verbose {
		configureLogging(io.Discard, false)
		return func() {}, nil
	}

	f, err := os.OpenFile(UILogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	configureLogging(f, true)
	slog.Debug("ui logging started", "version", Version)
	return func() { _ = f.Close() }, nil
}
