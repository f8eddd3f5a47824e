package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/roach88/cork/internal/config"
	"github.com/roach88/cork/internal/engine"
	"github.com/roach88/cork/internal/repr"
)

// BitsOptions holds flags for the bits command.
type BitsOptions struct {
	*RootOptions
	Width   int
	Toggles []int
	Trace   bool
}

// BitsResult is the bits command's payload.
type BitsResult struct {
	Expression string                   `json:"expression"`
	Panel      Panel                    `json:"panel"`
	Broadcasts []engine.ProtocolMessage `json:"broadcasts"`

	trace bool
}

// String implements fmt.Stringer for text output.
func (r BitsResult) String() string {
	var b strings.Builder
	if r.trace {
		for _, m := range r.Broadcasts {
			data, _ := json.Marshal(m)
			fmt.Fprintf(&b, "broadcast %s\n", data)
		}
		b.WriteByte('\n')
	}
	b.WriteString(r.Panel.String())
	return b.String()
}

// protocolRecorder keeps every broadcast in wire form. Observe runs on the
// engine goroutine.
type protocolRecorder struct {
	mu       sync.Mutex
	messages []engine.ProtocolMessage
}

func (r *protocolRecorder) Observe(m engine.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, m.Protocol())
}

func (r *protocolRecorder) Messages() []engine.ProtocolMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]engine.ProtocolMessage(nil), r.messages...)
}

// NewBitsCommand creates the bits command.
func NewBitsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BitsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "bits <expr>...",
		Short: "Evaluate an expression and edit its bits",
		Long: `Evaluate an expression through the engine, then optionally select a
bit width and toggle bits, and print the final representation.

The width is applied first; a width too narrow for the value is raised to
the smallest one that holds it. Toggles are applied in the order given and
must address a bit below the resulting width.

Examples:
  cork bits 0x7f --toggle 7
  cork bits --width 32 -- -1
  cork bits 0x80 -w 16 -t 15 -t 0 --trace
  cork bits --format json 1`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBits(opts, strings.Join(args, " "), cmd)
		},
	}

	cmd.Flags().IntVarP(&opts.Width, "width", "w", 0, "select this bit width (8|16|32|64)")
	cmd.Flags().IntSliceVarP(&opts.Toggles, "toggle", "t", nil, "toggle bit `POS` (repeatable)")
	cmd.Flags().BoolVar(&opts.Trace, "trace", false, "print every broadcast in protocol form")

	return cmd
}

func runBits(opts *BitsOptions, line string, cmd *cobra.Command) error {
	out := opts.formatter(cmd)

	var width repr.BitWidth
	if opts.Width != 0 {
		w, err := repr.WidthOf(opts.Width)
		if err != nil {
			return NewExitError(ExitCommandError, err.Error())
		}
		width = w
	}

	st, broadcasts, err := runSession(cmd, out, opts.Config, line, width, opts.Toggles)
	if err != nil {
		return err
	}

	p, err := NewPanel(st.Value, st.Width)
	if err != nil {
		return out.Fail(ExitFailure, err)
	}
	return out.Success(BitsResult{
		Expression: line,
		Panel:      p,
		Broadcasts: broadcasts,
		trace:      opts.Trace,
	})
}

// runSession evaluates line on a fresh engine, selects width when it is
// non-zero and applies toggles in order. It returns the final state and
// every broadcast in protocol form. Errors are already reported on out.
func runSession(cmd *cobra.Command, out *OutputFormatter, cfg config.Config, line string, width repr.BitWidth, toggles []int) (engine.State, []engine.ProtocolMessage, error) {
	ctx, stop := signalContext(cmd)
	defer stop()

	eng := newEngine(cfg)
	rec := &protocolRecorder{}
	sub := eng.Subscribe(rec)
	defer sub.Close()

	err := withEngine(ctx, eng, func(ctx context.Context) error {
		req, err := eng.Evaluate(ctx, line, cfg.Mode)
		if err != nil {
			return out.Fail(ExitFailure, err)
		}
		out.VerboseLog("evaluated %q (request %s, seq %d)", line, req.ID, req.Seq)

		if width != 0 {
			if err := eng.SetWidth(ctx, width); err != nil {
				return out.Fail(ExitFailure, err)
			}
		}

		st := eng.Current()
		for _, pos := range toggles {
			if _, err := repr.ToggleBit(st.Value, st.Width, pos); err != nil {
				return out.Fail(ExitCommandError, err)
			}
		}
		for _, pos := range toggles {
			if err := eng.ToggleBit(ctx, pos); err != nil {
				return out.Fail(ExitFailure, err)
			}
		}
		return nil
	})
	if err != nil {
		return engine.State{}, nil, err
	}
	return eng.Current(), rec.Messages(), nil
}
