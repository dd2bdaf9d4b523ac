package tui

import (
	"sync/atomic"

	"growbox_dashboard/internal/submit"
	"growbox_dashboard/internal/view"

	tea "github.com/charmbracelet/bubbletea"
)

// stateMsg carries a reconciler state into the program.
type stateMsg struct {
	state view.State
}

// feedbackMsg carries a submission feedback change into the program.
type feedbackMsg struct {
	feedback submit.Feedback
}

// Bridge delivers reconciler renders and submission feedback to a
// bubbletea program as messages. It is created before the program; updates
// arriving before SetProgram are dropped; the model starts from
// Reconciler.View() so nothing is lost.
type Bridge struct {
	program atomic.Pointer[tea.Program]
}

func NewBridge() *Bridge {
	return &Bridge{}
}

// SetProgram enables delivery. Safe to call from any goroutine.
func (b *Bridge) SetProgram(p *tea.Program) {
	b.program.Store(p)
}

// Render implements view.Renderer. Reconciler.Input is called from the
// program's own Update, so the send must not block the caller; the model
// discards states older than the one it holds.
func (b *Bridge) Render(st view.State) {
	p := b.program.Load()
	if p == nil {
		return
	}
	go p.Send(stateMsg{state: st})
}

// Feedback is a submit.FeedbackFunc. The controller calls it in order and
// never from Update, so it sends synchronously to keep that order.
func (b *Bridge) Feedback(fb submit.Feedback) {
	p := b.program.Load()
	if p == nil {
		return
	}
	p.Send(feedbackMsg{feedback: fb})
}
