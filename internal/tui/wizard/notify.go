package wizard

import (
	"sync"

	tea "charm.land/bubbletea/v2"

	"github.com/polaron/polaron/internal/submit"
)

// PhaseChangedMsg is sent when the submission controller changes phase.
type PhaseChangedMsg struct {
	Phase submit.Phase
}

// Sender is the part of *tea.Program the notifier needs.
type Sender interface {
	Send(msg tea.Msg)
}

// Notifier relays submission phase changes into a running program. The
// wizard is built before the program exists, so the program is attached
// later; changes before that are dropped and picked up by the next poll.
type Notifier struct {
	mu sync.Mutex
	p  Sender
}

// Attach sets the program that receives phase changes.
func (n *Notifier) Attach(p Sender) {
	n.mu.Lock()
	n.p = p
	n.mu.Unlock()
}

// PhaseChanged is passed to the flow as its OnChange callback. It can be
// called from inside Update (editing a confirmed flow resets the controller), so the send
// runs on its own goroutine; receivers re-read the phase from the wizard.
func (n *Notifier) PhaseChanged(phase submit.Phase) {
	n.mu.Lock()
	p := n.p
	n.mu.Unlock()
	if p != nil {
		go p.Send(PhaseChangedMsg{Phase: phase})
	}
}
