package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/roach88/cork/internal/engine"
)

// stateMsg carries the newest broadcast into the bubbletea loop.
type stateMsg struct {
	msg engine.Message
}

// feed bridges engine broadcasts into tea messages.
//
// Observe runs under the store lock and must not block, so only the
// newest message is kept. Every broadcast is a full state.
type feed struct {
	mu     sync.Mutex
	latest engine.Message
	notify chan struct{}
	done   chan struct{}
	once   sync.Once
}

func newFeed() *feed {
	return &feed{
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// Observe implements engine.Observer.
func (f *feed) Observe(m engine.Message) {
	f.mu.Lock()
	f.latest = m
	f.mu.Unlock()

	select {
	case f.notify <- struct{}{}:
	default:
	}
}

// wait returns a command that delivers the next broadcast.
func (f *feed) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-f.notify:
		case <-f.done:
			return nil
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		return stateMsg{msg: f.latest}
	}
}

func (f *feed) close() {
	f.once.Do(func() { close(f.done) })
}
