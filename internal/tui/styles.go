package tui

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	colorAccent = lipgloss.Color("#20B9B4")
	colorMuted  = lipgloss.Color("#2C4A54")
	colorError  = lipgloss.Color("#E74C3C")
	colorOn     = lipgloss.Color("#F4D03F")
)

// Styles groups every style the views use.
type Styles struct {
	Title    lipgloss.Style
	Label    lipgloss.Style
	BitOn    lipgloss.Style
	BitOff   lipgloss.Style
	Disabled lipgloss.Style
	Cursor   lipgloss.Style
	Selected lipgloss.Style
	Error    lipgloss.Style
	Help     lipgloss.Style
}

// DefaultStyles returns the styles used by the interactive program.
func DefaultStyles() Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
		Label:    lipgloss.NewStyle().Foreground(colorAccent),
		BitOn:    lipgloss.NewStyle().Bold(true).Foreground(colorOn),
		BitOff:   lipgloss.NewStyle(),
		Disabled: lipgloss.NewStyle().Faint(true).Foreground(colorMuted),
		Cursor:   lipgloss.NewStyle().Reverse(true),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
		Error:    lipgloss.NewStyle().Foreground(colorError),
		Help:     lipgloss.NewStyle().Faint(true),
	}
}

// PlainStyles renders without any decoration. Golden tests use it.
func PlainStyles() Styles {
	s := lipgloss.NewStyle()
	return Styles{
		Title: s, Label: s, BitOn: s, BitOff: s, Disabled: s,
		Cursor: s, Selected: s, Error: s, Help: s,
	}
}
