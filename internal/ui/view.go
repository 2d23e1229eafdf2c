package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/atomicstack/license-admin/internal/state"
	"github.com/atomicstack/license-admin/internal/theme"
	"github.com/atomicstack/license-admin/internal/ui/pages"
)

const sidebarWidth = 18

// View implements tea.Model.
func (m *Model) View() string {
	var body string
	switch m.screen {
	case ScreenLoading:
		body = m.viewLoading()
	case ScreenShellActive:
		body = m.viewShell()
	default:
		body = m.viewLogin()
	}
	return m.clip(body)
}

func (m *Model) viewLoading() string {
	return strings.Join([]string{
		theme.Render(styles.Brand, brandTitle),
		"",
		m.spinner.View() + " " + theme.Render(styles.Loading, "Checking saved session…"),
	}, "\n")
}

func (m *Model) viewLogin() string {
	lines := []string{theme.Render(styles.Brand, brandTitle), ""}
	if m.notice != "" {
		lines = append(lines, theme.Render(styles.Info, m.notice), "")
	}
	if m.loginForm == nil {
		return strings.Join(lines, "\n")
	}
	lines = append(lines, theme.Render(styles.Header, m.loginForm.Title()), "")
	lines = append(lines, m.loginForm.View(formLabel)...)
	if m.loggingIn {
		lines = append(lines, "", m.spinner.View()+" "+theme.Render(styles.Loading, "Signing in…"))
	} else if err := m.loginForm.Error(); err != "" {
		lines = append(lines, "", theme.Render(styles.Error, err))
	}
	lines = append(lines, "", theme.Render(styles.Footer, "Enter to sign in. Ctrl+C to quit."))
	return strings.Join(lines, "\n")
}

func (m *Model) viewShell() string {
	header := m.viewHeader()
	sidebar := m.viewSidebar()
	content := m.viewContent()
	main := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, "  ", content)
	lines := []string{header, "", main}
	if status := m.statusLine(); status != "" {
		lines = append(lines, "", status)
	}
	if m.showFooter || m.showHelp {
		lines = append(lines, "", m.help.View(m.keys))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) viewHeader() string {
	left := theme.Render(styles.Brand, brandTitle)
	user := ""
	if m.shell != nil {
		user = m.shell.user
	}
	right := theme.Render(styles.HeaderUser, "signed in as "+userLabel(user))
	if m.width <= 0 {
		return left + "  " + right
	}
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 2 {
		gap = 2
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m *Model) viewSidebar() string {
	all := state.Pages()
	if m.shell != nil {
		all = m.shell.pages
	}
	current := m.nav.Current()
	lines := make([]string, len(all))
	for i, p := range all {
		label := fmt.Sprintf("%d %s", i+1, p.Title())
		label += strings.Repeat(" ", max(0, sidebarWidth-lipgloss.Width(label)-2))
		if p == current {
			lines[i] = theme.Render(styles.SidebarActive, "› "+label)
			continue
		}
		lines[i] = theme.Render(styles.SidebarItem, "  "+label)
	}
	return theme.Render(styles.Sidebar, strings.Join(lines, "\n"))
}

func (m *Model) viewContent() string {
	if m.form != nil {
		lines := []string{theme.Render(styles.PageTitle, m.form.Title()), ""}
		lines = append(lines, m.form.View(formLabel)...)
		if m.submitting {
			lines = append(lines, "", m.spinner.View()+" "+theme.Render(styles.Loading, "Saving…"))
		} else if err := m.form.Error(); err != "" {
			lines = append(lines, "", theme.Render(styles.Error, err))
		}
		lines = append(lines, "", theme.Render(styles.Footer, m.form.Help()))
		return strings.Join(lines, "\n")
	}
	filter := ""
	if m.filtering || m.filterInput.Value() != "" {
		filter = m.filterInput.View()
	}
	return pages.Render(pages.Content{
		Page:      m.nav.Current(),
		Status:    m.status,
		Spinner:   m.spinner.View(),
		Width:     m.contentWidth(),
		Height:    m.contentHeight(),
		Dashboard: m.dashboard,
		Period:    m.period,
		Table:     m.table,
		Filter:    filter,
		Settings:  m.settingsView(),
	}, styles)
}

func (m *Model) settingsView() pages.Settings {
	s := m.settings
	if u, ok := m.session.User(); ok {
		s.User = u.Username
	}
	return s
}

func (m *Model) statusLine() string {
	if m.errMsg != "" {
		return theme.Render(styles.Error, m.errMsg)
	}
	if info := m.currentInfo(); info != "" {
		return theme.Render(styles.Info, info)
	}
	return ""
}

func (m *Model) contentWidth() int {
	if m.width <= 0 {
		return 0
	}
	return m.width - sidebarWidth - 5
}

func (m *Model) contentHeight() int {
	if m.height <= 0 {
		return 0
	}
	used := 2
	if m.showFooter || m.showHelp {
		used += 2
	}
	if m.statusLine() != "" {
		used += 2
	}
	return m.height - used
}

func formLabel(s string) string {
	return theme.Render(styles.FormLabel, s)
}

// clip keeps the frame inside fixed dimensions.
func (m *Model) clip(view string) string {
	lines := strings.Split(view, "\n")
	if m.height > 0 && len(lines) > m.height {
		lines = lines[:m.height]
	}
	if m.width > 0 {
		for i, line := range lines {
			if lipgloss.Width(line) > m.width {
				lines[i] = truncate.StringWithTail(line, uint(m.width), "…")
			}
		}
	}
	return strings.Join(lines, "\n")
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	resize, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if !m.fixedWidth {
		m.width = resize.Width
	}
	if !m.fixedHeight {
		m.height = resize.Height
	}
	m.help.Width = m.width
	return nil
}

func (m *Model) setInfo(message string) {
	m.infoMsg = message
	m.infoExpire = time.Now().Add(infoTimeout)
}

func (m *Model) clearInfo() {
	if m.infoMsg == "" {
		return
	}
	if !m.infoExpire.IsZero() && time.Now().Before(m.infoExpire) {
		return
	}
	m.infoMsg = ""
	m.infoExpire = time.Time{}
}

func (m *Model) forceClearInfo() {
	m.infoMsg = ""
	m.infoExpire = time.Time{}
}

func (m *Model) currentInfo() string {
	if m.infoMsg != "" && !m.infoExpire.IsZero() && time.Now().After(m.infoExpire) {
		m.infoMsg = ""
		m.infoExpire = time.Time{}
	}
	return m.infoMsg
}

// Info returns the transient status message.
func (m *Model) Info() string {
	return m.currentInfo()
}
