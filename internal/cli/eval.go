package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/cork/internal/config"
	"github.com/roach88/cork/internal/expr"
	"github.com/roach88/cork/internal/numeral"
	"github.com/roach88/cork/internal/repr"
)

// EvalOptions holds flags for the eval command.
type EvalOptions struct {
	*RootOptions
	All       bool
	Hex       bool
	Oct       bool
	Dec       bool
	Bin       bool
	Punctuate bool
	Width     int
}

// RadixText is one rendering of the result.
type RadixText struct {
	Radix string `json:"radix"`
	Text  string `json:"text"`
}

// EvalResult is the eval command's payload.
type EvalResult struct {
	Expression string      `json:"expression"`
	Value      int64       `json:"value"`
	Text       string      `json:"text"`
	All        []RadixText `json:"all,omitempty"`
	Panel      *Panel      `json:"panel,omitempty"`
}

// String implements fmt.Stringer for text output.
func (r EvalResult) String() string {
	var b strings.Builder
	if len(r.All) > 0 {
		for i, rt := range r.All {
			if i > 0 {
				b.WriteByte('\n')
			}
			fmt.Fprintf(&b, "%21s: %s", rt.Radix, rt.Text)
		}
	} else {
		b.WriteString(r.Text)
	}
	if r.Panel != nil {
		b.WriteString("\n\n")
		b.WriteString(r.Panel.String())
	}
	return b.String()
}

// NewEvalCommand creates the eval command.
func NewEvalCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EvalOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "eval <expr>...",
		Short: "Evaluate an expression and print it",
		Long: `Evaluate one expression and print the result.

All arguments are joined with spaces, so quoting is optional. Bare numbers
are read in the configured mode (hex unless --mode dec). "<expr> to <radix>"
prints in that radix.

Examples:
  cork eval 0xff + 1
  cork eval --mode dec 255 to bin
  cork eval -b --punctuate 0x7f
  cork eval --all -- -1
  cork eval --mode dec --width 16 -- -128`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(opts, strings.Join(args, " "), cmd)
		},
	}

	cmd.Flags().BoolVarP(&opts.All, "all", "a", false, "print in all bases")
	cmd.Flags().BoolVarP(&opts.Hex, "hex", "x", false, "print in hex")
	cmd.Flags().BoolVarP(&opts.Oct, "oct", "o", false, "print in oct")
	cmd.Flags().BoolVarP(&opts.Dec, "dec", "d", false, "print in dec")
	cmd.Flags().BoolVarP(&opts.Bin, "bin", "b", false, "print in bin")
	cmd.Flags().BoolVarP(&opts.Punctuate, "punctuate", "p", false, "punctuate the output number")
	cmd.Flags().IntVarP(&opts.Width, "width", "w", 0, "also print the representation at this bit width (8|16|32|64)")
	cmd.MarkFlagsMutuallyExclusive("all", "hex", "oct", "dec", "bin")

	return cmd
}

// radix returns the radix picked by -x/-o/-d/-b, or "" for none.
func (o *EvalOptions) radix() numeral.Radix {
	switch {
	case o.Hex:
		return numeral.RadixHex
	case o.Oct:
		return numeral.RadixOct
	case o.Dec:
		return numeral.RadixDec
	case o.Bin:
		return numeral.RadixBin
	}
	return ""
}

func runEval(opts *EvalOptions, line string, cmd *cobra.Command) error {
	out := opts.formatter(cmd)
	cfg := opts.Config.ApplyOverrides(config.Overrides{Radix: opts.radix(), Punctuate: opts.Punctuate})

	var width repr.BitWidth
	if opts.Width != 0 {
		w, err := repr.WidthOf(opts.Width)
		if err != nil {
			return NewExitError(ExitCommandError, err.Error())
		}
		width = w
	}

	r, err := expr.EvalInline(line, cfg.Mode)
	if err != nil {
		if errors.Is(err, expr.ErrSetDirective) {
			return out.Fail(ExitCommandError, err)
		}
		if expr.IsSyntaxError(err) {
			err = fmt.Errorf("failed to parse %q: %w", line, err)
		}
		return out.Fail(ExitFailure, err)
	}
	v := r.Value
	radix := cfg.OutputRadix
	if r.Radix != "" {
		radix = r.Radix
	}

	result := EvalResult{
		Expression: line,
		Value:      v,
		Text:       numeral.Format(v, radix, cfg.PunctuateOutput),
	}
	if opts.All {
		for _, r := range numeral.Radixes {
			result.All = append(result.All, RadixText{Radix: r.Label(), Text: numeral.Format(v, r, cfg.PunctuateOutput)})
		}
	}
	if width != 0 {
		st, _, err := runSession(cmd, out, cfg, line, width, nil)
		if err != nil {
			return err
		}
		p, err := NewPanel(st.Value, st.Width)
		if err != nil {
			return out.Fail(ExitFailure, err)
		}
		result.Panel = &p
	}

	return out.Success(result)
}
