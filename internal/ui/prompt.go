package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/license-admin/internal/logging/events"
)

type promptResult struct {
	Cmd  tea.Cmd
	Info string
	Err  error
}

// withPrompt centralises the dialog flow: clear the status line, run the
// action, then surface its error or informational message. The action's
// command is returned for Bubble Tea to run.
func (m *Model) withPrompt(action func() promptResult) tea.Cmd {
	m.errMsg = ""
	m.forceClearInfo()
	if action == nil {
		return nil
	}
	result := action()
	if result.Err != nil {
		m.errMsg = result.Err.Error()
		events.Action.Error(result.Err)
		return nil
	}
	if result.Info != "" {
		m.setInfo(result.Info)
		events.Action.Success(result.Info)
	}
	return result.Cmd
}
