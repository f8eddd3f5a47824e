package cli

import (
	"fmt"

	"github.com/roach88/cork/internal/engine"
	"github.com/roach88/cork/internal/repr"
	"github.com/roach88/cork/internal/tui"
)

// Panel is the representation of one value at one width, as printed by
// eval --width and bits.
type Panel struct {
	Value    int64  `json:"value"`
	BitWidth int    `json:"bitWidth"`
	Minimal  int    `json:"minimalWidth"`
	Binary   string `json:"binary"`
	Octal    string `json:"octal"`
	Hex      string `json:"hex"`
	Unsigned string `json:"unsigned"`
}

// NewPanel encodes v at w. w must hold v.
func NewPanel(v int64, w repr.BitWidth) (Panel, error) {
	r, err := repr.Encode(v, w)
	if err != nil {
		return Panel{}, err
	}
	return Panel{
		Value:    v,
		BitWidth: w.Bits(),
		Minimal:  repr.MinimalWidth(v).Bits(),
		Binary:   r.Binary,
		Octal:    r.Octal,
		Hex:      r.Hex,
		Unsigned: r.Unsigned,
	}, nil
}

// String renders the panel the way the interactive UI does, plus a width
// line.
func (p Panel) String() string {
	d := tui.Display{Status: engine.StatusOk, Value: p.Value, Width: repr.BitWidth(p.BitWidth)}
	return fmt.Sprintf("%-9s %d\n", "Width", p.BitWidth) + tui.RenderPanel(d, tui.PlainStyles())
}
