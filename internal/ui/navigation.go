package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/license-admin/internal/api"
	"github.com/atomicstack/license-admin/internal/forms"
	"github.com/atomicstack/license-admin/internal/logging/events"
	"github.com/atomicstack/license-admin/internal/state"
	"github.com/atomicstack/license-admin/internal/ui/pages"
)

// enterShell activates the shell after a successful validation or login.
// The chrome is built only when this session has not rendered it yet; every
// other entry re-renders the content region alone.
func (m *Model) enterShell(user string) tea.Cmd {
	if m.nav.MarkLayoutRendered() {
		m.shell = &shell{pages: state.Pages()}
		m.shellBuilds++
		m.metrics.ObserveShellBuild()
		events.Nav.ShellBuild(m.shellBuilds)
	}
	if user != "" || m.shell.user == "" {
		m.shell.user = user
	}
	m.screen = ScreenShellActive
	m.loginForm = nil
	m.loggingIn = false
	m.notice = ""
	return m.ShowPage(state.PageDashboard.String())
}

// ShowPage switches the content region to id and returns the command that
// fetches its data. Unknown ids leave state and content untouched.
func (m *Model) ShowPage(id string) tea.Cmd {
	p, ok := state.ParsePage(id)
	if !ok {
		events.Nav.Unknown(id)
		return nil
	}
	if m.screen != ScreenShellActive {
		return nil
	}
	gen := m.nav.Show(p)
	events.Nav.Show(p.String(), gen)
	m.form = nil
	m.submitting = false
	m.filtering = false
	m.filterInput.Blur()
	m.filterInput.SetValue("")
	m.table = nil
	m.errMsg = ""
	if p == state.PageDashboard {
		m.period = state.DefaultPeriod
	}
	if p == state.PageSettings {
		m.status = pages.StatusReady
		return nil
	}
	m.status = pages.StatusLoading
	return m.fetchPageCmd(p, gen)
}

func (m *Model) handleShowPageMsg(msg tea.Msg) tea.Cmd {
	show, ok := msg.(showPageMsg)
	if !ok {
		return nil
	}
	return m.ShowPage(show.id)
}

func (m *Model) handlePageLoadedMsg(msg tea.Msg) tea.Cmd {
	loaded, ok := msg.(pageLoadedMsg)
	if !ok {
		return nil
	}
	if m.screen != ScreenShellActive || !m.nav.Accepts(loaded.page, loaded.gen) {
		events.Nav.Stale(loaded.page.String(), loaded.gen, m.nav.Generation())
		return nil
	}
	if loaded.err != nil {
		m.status = pages.StatusFailed
		if m.verbose {
			m.errMsg = loaded.err.Error()
		}
		return nil
	}
	m.status = pages.StatusReady
	if loaded.page == state.PageDashboard {
		m.dashboard = loaded.dashboard
		return nil
	}
	m.table = loaded.table
	if m.table != nil && m.filterInput.Value() != "" {
		m.table.SetFilter(m.filterInput.Value())
	}
	return nil
}

// logout ends the session at the user's request.
func (m *Model) logout() tea.Cmd {
	m.session.Logout()
	m.resetToLogin("")
	return m.blink()
}

// expireSession ends the session after the server rejected the token.
func (m *Model) expireSession() tea.Cmd {
	m.session.Expire()
	m.resetToLogin(expiredNotice)
	return m.blink()
}

func (m *Model) resetToLogin(notice string) {
	m.nav.Reset()
	m.shell = nil
	m.screen = ScreenLoggedOut
	m.form = nil
	m.submitting = false
	m.filtering = false
	m.filterInput.SetValue("")
	m.table = nil
	m.dashboard = api.Dashboard{}
	m.status = pages.StatusLoading
	m.errMsg = ""
	m.forceClearInfo()
	m.notice = notice
	m.loginForm = m.prepareForm(forms.NewLogin())
}

func (m *Model) handleSessionExpiredMsg(tea.Msg) tea.Cmd {
	if m.screen != ScreenShellActive {
		return nil
	}
	return m.expireSession()
}

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	if key.Matches(keyMsg, m.keys.ForceQuit) {
		return tea.Quit
	}
	switch m.screen {
	case ScreenShellActive:
		return m.handleShellKey(keyMsg)
	case ScreenLoading:
		if key.Matches(keyMsg, m.keys.Quit) {
			return tea.Quit
		}
	}
	return nil
}

func (m *Model) handleShellKey(msg tea.KeyMsg) tea.Cmd {
	current := m.nav.Current()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
	case key.Matches(msg, m.keys.Pages):
		idx := int(msg.Runes[0] - '1')
		all := state.Pages()
		if idx >= 0 && idx < len(all) {
			return m.ShowPage(all[idx].String())
		}
	case key.Matches(msg, m.keys.Next):
		return m.ShowPage(current.Next().String())
	case key.Matches(msg, m.keys.Prev):
		return m.ShowPage(current.Prev().String())
	case key.Matches(msg, m.keys.Reload):
		return m.ShowPage(current.String())
	case key.Matches(msg, m.keys.Logout):
		return m.logout()
	case key.Matches(msg, m.keys.Period) && current == state.PageDashboard:
		if p, ok := state.PeriodForKey(msg.String()); ok && p != m.period {
			m.period = p
			events.Nav.Period(string(p))
		}
	case key.Matches(msg, m.keys.Add):
		return m.openForm(current)
	case key.Matches(msg, m.keys.Filter):
		return m.startFilter()
	case key.Matches(msg, m.keys.Escape):
		m.clearFilter()
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Home):
		if m.table != nil {
			m.table.MoveCursorHome()
		}
	case key.Matches(msg, m.keys.End):
		if m.table != nil {
			m.table.MoveCursorEnd()
		}
	}
	return nil
}

func (m *Model) moveCursor(delta int) {
	if m.table == nil {
		return
	}
	m.table.MoveCursor(delta)
}

func tablePage(p state.Page) bool {
	return p != state.PageDashboard && p != state.PageSettings
}

func userLabel(name string) string {
	if strings.TrimSpace(name) == "" {
		return "administrator"
	}
	return name
}
