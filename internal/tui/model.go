// Package tui is the interactive bubbletea front end.
//
// The model subscribes to the engine like any other observer and renders
// three surfaces from the last broadcast: the 64-cell bit grid, the width
// selector and the result panel. User edits (submit, toggle, width) are
// sent to the engine; the model never changes the displayed value itself.
//
// Thread-safety: the model is only touched by the bubbletea loop. Engine
// calls that wait for the event loop run inside tea.Cmds.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/roach88/cork/internal/engine"
	"github.com/roach88/cork/internal/numeral"
	"github.com/roach88/cork/internal/repr"
)

// Engine is the part of *engine.Engine the model drives.
type Engine interface {
	Submit(expr string, mode numeral.Mode) (engine.Request, error)
	Settled() int64
	ToggleBit(ctx context.Context, pos int) error
	SetWidth(ctx context.Context, w repr.BitWidth) error
	Subscribe(o engine.Observer) *engine.Subscription
}

// Options configures the model.
type Options struct {
	Prompt string
	Mode   numeral.Mode
	Header bool

	// Styles defaults to DefaultStyles.
	Styles *Styles
}

type focusArea int

const (
	focusInput focusArea = iota
	focusGrid
)

// actionDoneMsg reports the outcome of a toggle or width change.
type actionDoneMsg struct {
	err error
}

// Model is the bubbletea model.
type Model struct {
	ctx  context.Context
	eng  Engine
	feed *feed
	sub  *engine.Subscription
	opts Options

	input   textinput.Model
	mode    numeral.Mode
	focus   focusArea
	cursor  int
	display Display

	// pending is set while the last submitted request is unanswered.
	pending    bool
	pendingSeq int64
	status     string
	quitting   bool
}

// New creates a model subscribed to eng. The subscription is released
// when the user quits.
func New(ctx context.Context, eng Engine, opts Options) Model {
	if opts.Mode == "" {
		opts.Mode = numeral.ModeHex
	}
	if opts.Styles == nil {
		st := DefaultStyles()
		opts.Styles = &st
	}

	in := textinput.New()
	in.Prompt = opts.Prompt
	in.Placeholder = "expression"
	in.Focus()

	f := newFeed()
	return Model{
		ctx:   ctx,
		eng:   eng,
		feed:  f,
		sub:   eng.Subscribe(f),
		opts:  opts,
		input: in,
		mode:  opts.Mode,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.feed.wait())
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stateMsg:
		m.display = DisplayOf(msg.msg)
		if m.pending && m.eng.Settled() >= m.pendingSeq {
			m.pending = false
		}
		return m, m.feed.wait()

	case actionDoneMsg:
		m.status = ""
		if msg.err != nil {
			m.status = msg.err.Error()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m.quit()
	case "tab":
		m.mode = nextMode(m.mode)
		return m, nil
	case "esc":
		if m.focus == focusInput {
			m.focus = focusGrid
			m.input.Blur()
			return m, nil
		}
		m.focus = focusInput
		return m, m.input.Focus()
	}

	if m.focus == focusInput {
		if msg.Type == tea.KeyEnter {
			return m.submit()
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q":
		return m.quit()
	case "left", "h":
		m.cursor = clamp(m.cursor + 1)
	case "right", "l":
		m.cursor = clamp(m.cursor - 1)
	case "up", "k":
		m.cursor = clamp(m.cursor + gridCols)
	case "down", "j":
		m.cursor = clamp(m.cursor - gridCols)
	case " ", "enter":
		if m.display.Enabled(m.cursor) {
			return m, m.toggle(m.cursor)
		}
	case "[":
		if w, ok := m.stepWidth(-1); ok {
			return m, m.setWidth(w)
		}
	case "]":
		if w, ok := m.stepWidth(+1); ok {
			return m, m.setWidth(w)
		}
	}
	return m, nil
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}
	req, err := m.eng.Submit(text, m.mode)
	if err != nil {
		m.status = err.Error()
		return m, nil
	}
	m.input.SetValue("")
	m.pending = true
	m.pendingSeq = req.Seq
	m.status = ""
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.sub.Close()
	m.feed.close()
	return m, tea.Quit
}

func (m Model) toggle(pos int) tea.Cmd {
	ctx, eng := m.ctx, m.eng
	return func() tea.Msg {
		return actionDoneMsg{err: eng.ToggleBit(ctx, pos)}
	}
}

func (m Model) setWidth(w repr.BitWidth) tea.Cmd {
	ctx, eng := m.ctx, m.eng
	return func() tea.Msg {
		return actionDoneMsg{err: eng.SetWidth(ctx, w)}
	}
}

// stepWidth returns the next enabled ladder width in direction dir.
func (m Model) stepWidth(dir int) (repr.BitWidth, bool) {
	if !m.display.Ok() {
		return 0, false
	}
	opts := repr.Selectable(m.display.Value)
	cur := -1
	for i, o := range opts {
		if o.Width == m.display.Width {
			cur = i
		}
	}
	next := cur + dir
	if cur < 0 || next < 0 || next >= len(opts) || !opts[next].Enabled {
		return 0, false
	}
	return opts[next].Width, true
}

func nextMode(mode numeral.Mode) numeral.Mode {
	if mode == numeral.ModeHex {
		return numeral.ModeDec
	}
	return numeral.ModeHex
}

func clamp(pos int) int {
	switch {
	case pos < 0:
		return 0
	case pos > 63:
		return 63
	}
	return pos
}

// Display returns what the surfaces currently show.
func (m Model) Display() Display {
	return m.display
}

// Mode returns the literal mode used for the next submission.
func (m Model) Mode() numeral.Mode {
	return m.mode
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	st := *m.opts.Styles

	var b strings.Builder
	if m.opts.Header {
		b.WriteString(st.Title.Render("cork"))
		b.WriteString("  ")
		b.WriteString(st.Help.Render(string(m.mode) + " mode"))
		b.WriteString("\n\n")
	}
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	cursor := -1
	if m.focus == focusGrid {
		cursor = m.cursor
	}
	b.WriteString(RenderSurfaces(m.display, cursor, st))
	b.WriteString("\n\n")

	switch {
	case m.status != "":
		b.WriteString(st.Error.Render(m.status))
	case m.pending:
		b.WriteString(st.Help.Render("evaluating..."))
	}
	b.WriteString("\n")
	b.WriteString(st.Help.Render(m.help()))
	return b.String()
}

func (m Model) help() string {
	if m.focus == focusInput {
		return "enter: evaluate  tab: hex/dec  esc: bit grid  ctrl+c: quit"
	}
	return "arrows: move  space: toggle  [ ]: width  tab: hex/dec  esc: input  q: quit"
}

// Run starts the interactive program and blocks until the user quits or
// ctx is cancelled.
func Run(ctx context.Context, eng Engine, opts Options) error {
	p := tea.NewProgram(New(ctx, eng, opts), tea.WithContext(ctx), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
