package tui

import (
	"fmt"
	"strings"

	"github.com/roach88/cork/internal/engine"
	"github.com/roach88/cork/internal/repr"
)

const (
	gridRows   = 4
	gridCols   = 16
	nibbleBits = 4
)

// Display is what the three consumer surfaces render: the last broadcast
// flattened into plain fields.
type Display struct {
	// Status is StatusEmpty before the first broadcast.
	Status engine.Status
	Value  int64
	Width  repr.BitWidth
	Error  string
}

// DisplayOf flattens a broadcast. A nil message is the empty display.
func DisplayOf(m engine.Message) Display {
	switch msg := m.(type) {
	case engine.Updated:
		return Display{Status: engine.StatusOk, Value: msg.Value, Width: msg.Width}
	case engine.Failed:
		return Display{Status: engine.StatusErr, Error: msg.Message}
	}
	return Display{}
}

// Ok reports whether the display holds a value.
func (d Display) Ok() bool {
	return d.Status == engine.StatusOk
}

// Enabled reports whether the grid cell at pos can be toggled.
func (d Display) Enabled(pos int) bool {
	return d.Ok() && pos >= 0 && pos < d.Width.Bits()
}

// RenderSurfaces draws the grid, the width selector and the result panel,
// separated by blank lines.
func RenderSurfaces(d Display, cursor int, st Styles) string {
	return RenderGrid(d, cursor, st) + "\n\n" + RenderWidths(d, st) + "\n\n" + RenderPanel(d, st)
}

// RenderGrid draws the 64-cell bit grid as four rows of sixteen, most
// significant bit top left. Cells at or above the width, and every cell
// when there is no value, are disabled and drawn as 0. cursor < 0 hides
// the cursor.
func RenderGrid(d Display, cursor int, st Styles) string {
	var cells [64]bool
	if d.Ok() {
		// Width always holds the value; a failure here leaves the grid blank.
		cells, _ = repr.Bits(d.Value, d.Width)
	}

	var b strings.Builder
	for row := 0; row < gridRows; row++ {
		hi := 63 - row*gridCols
		lo := hi - gridCols + 1

		b.WriteString(st.Label.Render(fmt.Sprintf("%2d", hi)))
		b.WriteByte(' ')
		for pos := hi; pos >= lo; pos-- {
			if pos != hi && (pos+1)%nibbleBits == 0 {
				b.WriteByte(' ')
			}
			b.WriteString(renderCell(d, cells, pos, cursor, st))
		}
		b.WriteByte(' ')
		b.WriteString(st.Label.Render(fmt.Sprintf("%2d", lo)))
		if row < gridRows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func renderCell(d Display, cells [64]bool, pos, cursor int, st Styles) string {
	text := "0"
	style := st.Disabled
	if d.Enabled(pos) {
		style = st.BitOff
		if cells[pos] {
			text = "1"
			style = st.BitOn
		}
	}
	if pos == cursor {
		style = style.Inherit(st.Cursor)
	}
	return style.Render(text)
}

// RenderWidths draws the width selector. The current width is bracketed
// and widths too narrow for the value are parenthesized.
func RenderWidths(d Display, st Styles) string {
	var opts []repr.WidthOption
	if d.Ok() {
		opts = repr.Selectable(d.Value)
	} else {
		for _, w := range repr.Widths {
			opts = append(opts, repr.WidthOption{Width: w})
		}
	}

	parts := make([]string, len(opts))
	for i, o := range opts {
		switch {
		case d.Ok() && o.Width == d.Width:
			parts[i] = st.Selected.Render(fmt.Sprintf("[%d]", o.Width.Bits()))
		case o.Enabled:
			parts[i] = fmt.Sprintf("%d", o.Width.Bits())
		default:
			parts[i] = st.Disabled.Render(fmt.Sprintf("(%d)", o.Width.Bits()))
		}
	}
	return st.Label.Render("Width") + "  " + strings.Join(parts, "  ")
}

// RenderPanel draws the result panel: binary, octal, signed decimal,
// unsigned decimal and hex of the value at its width.
func RenderPanel(d Display, st Styles) string {
	switch d.Status {
	case engine.StatusErr:
		return panelLine("Error", st.Error.Render(d.Error), st)
	case engine.StatusEmpty:
		return panelLine("Result", st.Help.Render("enter an expression"), st)
	}

	r, err := repr.Encode(d.Value, d.Width)
	if err != nil {
		return panelLine("Error", st.Error.Render(err.Error()), st)
	}
	lines := []string{
		panelLine("Binary", r.Binary, st),
		panelLine("Octal", r.Octal, st),
		panelLine("Decimal", fmt.Sprintf("%d", d.Value), st),
		panelLine("Unsigned", r.Unsigned, st),
		panelLine("Hex", r.Hex, st),
	}
	return strings.Join(lines, "\n")
}

func panelLine(label, value string, st Styles) string {
	return st.Label.Render(fmt.Sprintf("%-9s", label)) + " " + value
}
