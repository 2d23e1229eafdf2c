package ui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/license-admin/internal/api"
	"github.com/atomicstack/license-admin/internal/forms"
	"github.com/atomicstack/license-admin/internal/session"
	"github.com/atomicstack/license-admin/internal/state"
)

const genericLoginError = "Login failed"

func (m *Model) handleActiveForm(msg tea.Msg) (bool, tea.Cmd) {
	keyMsg, isKey := msg.(tea.KeyMsg)
	if isKey && keyMsg.String() == "ctrl+c" {
		return false, nil
	}
	if !isKey && m.handlerFor(msg) != nil {
		return false, nil
	}
	switch {
	case m.screen == ScreenLoggedOut && m.loginForm != nil:
		return m.handleLoginForm(msg)
	case m.screen == ScreenShellActive && m.form != nil:
		return m.handleAddForm(msg)
	case m.screen == ScreenShellActive && m.filtering:
		return m.handleFilterInput(msg)
	default:
		return false, nil
	}
}

func (m *Model) handleLoginForm(msg tea.Msg) (bool, tea.Cmd) {
	if m.loggingIn {
		return true, nil
	}
	cmd, done, _ := m.loginForm.Update(msg)
	if !done {
		return true, cmd
	}
	m.loggingIn = true
	m.notice = ""
	login := m.loginCmd(m.loginForm.Value("username"), m.loginForm.Value("password"))
	if cmd == nil {
		return true, login
	}
	return true, tea.Batch(cmd, login)
}

func (m *Model) handleLoginResultMsg(msg tea.Msg) tea.Cmd {
	result, ok := msg.(loginResultMsg)
	if !ok {
		return nil
	}
	m.loggingIn = false
	if result.err != nil {
		if m.loginForm == nil {
			return nil
		}
		message := genericLoginError
		var authErr *session.AuthError
		if errors.As(result.err, &authErr) && authErr.Message != "" {
			message = authErr.Message
		}
		m.loginForm.SetValue("password", "")
		m.loginForm.SetError(message)
		return nil
	}
	return m.enterShell(result.result.User.Username)
}

func (m *Model) handleValidateResultMsg(msg tea.Msg) tea.Cmd {
	result, ok := msg.(validateResultMsg)
	if !ok || m.screen != ScreenLoading {
		return nil
	}
	if result.valid {
		user := ""
		if u, known := m.session.User(); known {
			user = u.Username
		}
		return m.enterShell(user)
	}
	m.screen = ScreenLoggedOut
	m.loginForm = m.prepareForm(forms.NewLogin())
	return m.blink()
}

func (m *Model) openForm(p state.Page) tea.Cmd {
	var open func() *forms.Form
	switch p {
	case state.PageCustomers:
		open = forms.NewCustomer
	case state.PageProducts:
		open = forms.NewProduct
	default:
		return nil
	}
	return m.withPrompt(func() promptResult {
		m.filtering = false
		m.filterInput.Blur()
		m.form = m.prepareForm(open())
		return promptResult{Cmd: m.blink()}
	})
}

func (m *Model) handleAddForm(msg tea.Msg) (bool, tea.Cmd) {
	if m.submitting {
		return true, nil
	}
	cmd, done, cancel := m.form.Update(msg)
	if cancel {
		m.form = nil
		return true, cmd
	}
	if !done {
		return true, cmd
	}
	m.submitting = true
	create := m.createCmd(m.nav.Current(), m.nav.Generation(), m.form)
	if cmd == nil {
		return true, create
	}
	return true, tea.Batch(cmd, create)
}

func (m *Model) handleCreateResultMsg(msg tea.Msg) tea.Cmd {
	result, ok := msg.(createResultMsg)
	if !ok {
		return nil
	}
	if m.screen != ScreenShellActive || m.form == nil || !m.nav.Accepts(result.page, result.gen) {
		return nil
	}
	m.submitting = false
	if result.err != nil {
		message := api.ServerMessage(result.err)
		if message == "" {
			message = fmt.Sprintf("Could not create %s", result.form)
		}
		m.form.SetError(message)
		return nil
	}
	return m.withPrompt(func() promptResult {
		m.form = nil
		info := strings.TrimSpace(result.info)
		if info == "" {
			info = fmt.Sprintf("%s%s created", strings.ToUpper(result.form[:1]), result.form[1:])
		}
		return promptResult{Info: info, Cmd: m.ShowPage(result.page.String())}
	})
}
