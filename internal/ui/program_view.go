package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/spacesedan/factcheck/internal/submission"
)

type Sender interface {
	Send(msg tea.Msg)
}

// ProgramView forwards controller calls into a running bubbletea program as
// messages. Calls made before Attach are dropped.
type ProgramView struct {
	mu     sync.RWMutex
	sender Sender
}

func NewProgramView() *ProgramView {
	return &ProgramView{}
}

func (v *ProgramView) Attach(s Sender) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.sender = s
}

func (v *ProgramView) send(msg tea.Msg) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.sender != nil {
		v.sender.Send(msg)
	}
}

func (v *ProgramView) SetBusy(busy bool)                        { v.send(busyMsg{busy: busy}) }
func (v *ProgramView) RenderResult(r submission.RenderedResult) { v.send(resultMsg{result: r}) }
func (v *ProgramView) RenderError(n submission.Notification)    { v.send(notifyMsg{notification: n}) }
func (v *ProgramView) ClearInput()                              { v.send(clearInputMsg{}) }
func (v *ProgramView) RemoveResult()                            { v.send(removeResultMsg{}) }
