package ui

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/license-admin/internal/api"
	"github.com/atomicstack/license-admin/internal/forms"
	"github.com/atomicstack/license-admin/internal/logging"
	"github.com/atomicstack/license-admin/internal/session"
	"github.com/atomicstack/license-admin/internal/state"
	"github.com/atomicstack/license-admin/internal/ui/pages"
)

var errNoDataSource = errors.New("ui: no data source")

type validateResultMsg struct {
	valid bool
}

type loginResultMsg struct {
	result session.Result
	err    error
}

// pageLoadedMsg carries a page fetch back to Update, tagged with the
// navigation generation it was issued under.
type pageLoadedMsg struct {
	page      state.Page
	gen       uint64
	dashboard api.Dashboard
	table     *state.Table
	err       error
}

type createResultMsg struct {
	page state.Page
	gen  uint64
	form string
	info string
	err  error
}

// showPageMsg asks the model to navigate; ShowPage is the direct form.
type showPageMsg struct {
	id string
}

// sessionExpiredMsg reports that the server rejected the session token.
type sessionExpiredMsg struct{}

// ShowPageMsg returns a message that navigates to id when delivered.
func ShowPageMsg(id string) tea.Msg {
	return showPageMsg{id: id}
}

func (m *Model) validateCmd(token string) tea.Cmd {
	sess, ctx := m.session, m.ctx
	return func() tea.Msg {
		return validateResultMsg{valid: sess.Validate(ctx, token)}
	}
}

func (m *Model) loginCmd(username, password string) tea.Cmd {
	sess, ctx := m.session, m.ctx
	return func() tea.Msg {
		res, err := sess.Login(ctx, username, password)
		return loginResultMsg{result: res, err: err}
	}
}

func (m *Model) fetchPageCmd(p state.Page, gen uint64) tea.Cmd {
	data, ctx := m.data, m.ctx
	return func() tea.Msg {
		msg := pageLoadedMsg{page: p, gen: gen}
		if data == nil {
			msg.err = errNoDataSource
			return msg
		}
		switch p {
		case state.PageDashboard:
			msg.dashboard, msg.err = data.Dashboard(ctx)
		case state.PageCustomers:
			list, err := data.Customers(ctx)
			msg.err = err
			if err == nil {
				msg.table = pages.CustomerTable(list)
			}
		case state.PageProducts:
			list, err := data.Products(ctx)
			msg.err = err
			if err == nil {
				msg.table = pages.ProductTable(list)
			}
		case state.PageLicenses:
			list, err := data.Licenses(ctx)
			msg.err = err
			if err == nil {
				msg.table = pages.LicenseTable(list)
			}
		case state.PageRules:
			list, err := data.Rules(ctx)
			msg.err = err
			if err == nil {
				msg.table = pages.RuleTable(list)
			}
		case state.PageSecurity:
			list, err := data.SecurityEvents(ctx)
			msg.err = err
			if err == nil {
				msg.table = pages.SecurityTable(list)
			}
		}
		if msg.err != nil {
			logging.Error(fmt.Errorf("load %s: %w", p, msg.err))
			if unauthorized(msg.err) {
				return sessionExpiredMsg{}
			}
		}
		return msg
	}
}

func (m *Model) createCmd(p state.Page, gen uint64, f *forms.Form) tea.Cmd {
	data, ctx := m.data, m.ctx
	id := f.ID()
	var run func() (string, error)
	switch id {
	case forms.IDCustomer:
		in := api.NewCustomer{Name: f.Value("name"), Email: f.Value("email")}
		run = func() (string, error) { return data.CreateCustomer(ctx, in) }
	case forms.IDProduct:
		in := api.NewProduct{
			Name:        f.Value("name"),
			Version:     f.Value("version"),
			Description: f.Value("description"),
			Rules:       f.List("rules"),
		}
		run = func() (string, error) { return data.CreateProduct(ctx, in) }
	default:
		return nil
	}
	return func() tea.Msg {
		msg := createResultMsg{page: p, gen: gen, form: id}
		if data == nil {
			msg.err = errNoDataSource
			return msg
		}
		msg.info, msg.err = run()
		if msg.err != nil {
			logging.Error(fmt.Errorf("create %s: %w", id, msg.err))
			if unauthorized(msg.err) {
				return sessionExpiredMsg{}
			}
		}
		return msg
	}
}

// unauthorized reports whether err means the server no longer accepts the
// session token.
func unauthorized(err error) bool {
	return errors.Is(err, api.ErrUnauthorized) || errors.Is(err, api.ErrNoToken)
}
