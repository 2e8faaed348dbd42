package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/epanalyzer/internal/orchestration"
)

// Bridge forwards coordinator messages into the bubbletea program loop,
// which owns the JobState. Because bubbletea copies the model on every
// Update, the bridge is shared by pointer and survives copies.
type Bridge struct {
	mu      sync.RWMutex
	program *tea.Program
}

var _ orchestration.Dispatcher = (*Bridge)(nil)

// NewBridge returns a bridge with no program attached. Messages sent before
// SetProgram are dropped.
func NewBridge() *Bridge {
	return &Bridge{}
}

// SetProgram sets the tea.Program reference (thread-safe).
func (b *Bridge) SetProgram(p *tea.Program) {
	b.mu.Lock()
	b.program = p
	b.mu.Unlock()
}

// Send sends a message to the bubbletea program (thread-safe). It blocks
// until the program loop accepts it or the program has exited, so it must
// never be called from Update.
func (b *Bridge) Send(msg tea.Msg) {
	b.mu.RLock()
	p := b.program
	b.mu.RUnlock()
	if p != nil {
		p.Send(msg)
	}
}

// Dispatch implements orchestration.Dispatcher.
func (b *Bridge) Dispatch(msg orchestration.Msg) {
	b.Send(CoordinatorMsg{Msg: msg})
}
