package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/roach88/cork/internal/config"
	"github.com/roach88/cork/internal/numeral"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
	Mode       string

	// Config is loaded in PersistentPreRunE, with --mode applied.
	Config config.Config
}

// Version is stamped at build time with -ldflags "-X ...cli.Version=...".
var Version = "dev"

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the cork CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "cork",
		Short: "cork - a calculator for hex-lovers",
		Long: `A programmer's calculator for signed 64-bit integers.

Results are shown in binary, octal, decimal and hex at a selectable bit
width (8, 16, 32 or 64), and single bits can be toggled in place.

Without a subcommand cork starts the interactive UI when attached to a
terminal and the line REPL otherwise.`,
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			configureLogging(cmd.ErrOrStderr(), opts.Verbose)
			return opts.loadConfig()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if isTerminal(os.Stdin) && isTerminal(os.Stdout) {
				return runUI(cmd, opts)
			}
			return runREPL(cmd, opts)
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "load config file from `PATH`")
	cmd.PersistentFlags().StringVarP(&opts.Mode, "mode", "m", "", "literal mode for numbers without prefix (hex|dec)")

	cmd.AddCommand(NewEvalCommand(opts))
	cmd.AddCommand(NewBitsCommand(opts))
	cmd.AddCommand(NewScriptCommand(opts))
	cmd.AddCommand(NewREPLCommand(opts))
	cmd.AddCommand(NewUICommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// loadConfig reads the config file and applies --mode.
func (o *RootOptions) loadConfig() error {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}

	var ov config.Overrides
	if o.Mode != "" {
		m, err := numeral.ParseMode(o.Mode)
		if err != nil {
			return NewExitError(ExitCommandError, err.Error())
		}
		ov.Mode = m
	}
	o.Config = cfg.ApplyOverrides(ov)

	if cfg.Source != "" {
		slog.Debug("config loaded", "path", cfg.Source, "mode", o.Config.Mode)
	}
	return nil
}

// configureLogging installs the default slog handler. Logs go to stderr so
// they never mix with results, at debug level under --verbose.
func configureLogging(w io.Writer, verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// formatter returns an OutputFormatter bound to cmd's writers.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
