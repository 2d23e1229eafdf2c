package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/license-admin/internal/logging/events"
	"github.com/atomicstack/license-admin/internal/ui/pages"
)

func (m *Model) startFilter() tea.Cmd {
	if !tablePage(m.nav.Current()) || m.status != pages.StatusReady {
		return nil
	}
	m.filtering = true
	return m.filterInput.Focus()
}

func (m *Model) clearFilter() {
	if m.filterInput.Value() == "" && !m.filtering {
		return
	}
	m.filtering = false
	m.filterInput.Blur()
	m.filterInput.SetValue("")
	if m.table != nil {
		m.table.SetFilter("")
	}
	events.Filter.Cleared(m.nav.Current().String())
}

// handleFilterInput feeds keys to the filter while it has focus. Enter keeps
// the query and returns keys to the page; esc clears it.
func (m *Model) handleFilterInput(msg tea.Msg) (bool, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.clearFilter()
			return true, nil
		case "enter":
			m.filtering = false
			m.filterInput.Blur()
			return true, nil
		case "up":
			m.moveCursor(-1)
			return true, nil
		case "down":
			m.moveCursor(1)
			return true, nil
		}
	}
	before := m.filterInput.Value()
	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	if after := m.filterInput.Value(); after != before && m.table != nil {
		m.table.SetFilter(after)
		events.Filter.Update(m.nav.Current().String(), after)
	}
	return true, cmd
}
