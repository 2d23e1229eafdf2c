package ui

import (
	"context"
	"reflect"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/license-admin/internal/api"
	"github.com/atomicstack/license-admin/internal/forms"
	"github.com/atomicstack/license-admin/internal/metrics"
	"github.com/atomicstack/license-admin/internal/session"
	"github.com/atomicstack/license-admin/internal/state"
	"github.com/atomicstack/license-admin/internal/theme"
	"github.com/atomicstack/license-admin/internal/ui/pages"
)

// Screen is the top-level state of the client.
type Screen int

const (
	ScreenLoggedOut Screen = iota
	ScreenLoading
	ScreenShellActive
)

func (s Screen) String() string {
	switch s {
	case ScreenLoggedOut:
		return "logged-out"
	case ScreenLoading:
		return "loading"
	case ScreenShellActive:
		return "shell"
	default:
		return "unknown"
	}
}

const (
	brandTitle    = "License Admin"
	expiredNotice = "Your session has expired. Please sign in again."
	infoTimeout   = 5 * time.Second
)

var styles = theme.Default()

type msgHandler func(tea.Msg) tea.Cmd

// DataSource is the part of the API the pages read and write.
type DataSource interface {
	Dashboard(ctx context.Context) (api.Dashboard, error)
	Customers(ctx context.Context) ([]api.Customer, error)
	Products(ctx context.Context) ([]api.Product, error)
	Licenses(ctx context.Context) ([]api.License, error)
	Rules(ctx context.Context) ([]api.Rule, error)
	SecurityEvents(ctx context.Context) ([]api.SecurityEvent, error)
	CreateCustomer(ctx context.Context, in api.NewCustomer) (string, error)
	CreateProduct(ctx context.Context, in api.NewProduct) (string, error)
}

// Options configures a Model.
type Options struct {
	Context    context.Context
	Session    *session.Manager
	Data       DataSource
	Metrics    *metrics.Recorder
	Settings   pages.Settings
	Width      int
	Height     int
	ShowFooter bool
	// Verbose shows failure detail in the status line.
	Verbose bool
	// Animate enables the spinner tick loop. Tests leave it off so command
	// chains terminate.
	Animate bool
}

// shell is the header and sidebar chrome, built once per signed-in session.
type shell struct {
	user  string
	pages []state.Page
}

// Model implements the Bubble Tea model for the admin client.
type Model struct {
	ctx      context.Context
	session  *session.Manager
	data     DataSource
	metrics  *metrics.Recorder
	settings pages.Settings

	screen      Screen
	nav         *state.Navigation
	shell       *shell
	shellBuilds int

	status    pages.Status
	dashboard api.Dashboard
	period    state.Period
	table     *state.Table

	loginForm  *forms.Form
	form       *forms.Form
	submitting bool
	loggingIn  bool

	filtering   bool
	filterInput textinput.Model

	spinner  spinner.Model
	help     help.Model
	keys     keyMap
	showHelp bool
	animate  bool

	notice     string
	errMsg     string
	infoMsg    string
	infoExpire time.Time

	width       int
	height      int
	fixedWidth  bool
	fixedHeight bool
	showFooter  bool
	verbose     bool

	handlers map[reflect.Type]msgHandler
}

// NewModel restores any persisted token and picks the initial screen:
// Loading when a token was found, LoggedOut otherwise.
func NewModel(opts Options) *Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	sess := opts.Session
	if sess == nil {
		sess = session.New(nil, nil, opts.Metrics)
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	if styles.Loading != nil {
		sp.Style = *styles.Loading
	}
	fi := textinput.New()
	fi.Prompt = "/ "
	fi.Placeholder = "type to filter"
	fi.CharLimit = 64
	if styles.FilterPrompt != nil {
		fi.PromptStyle = *styles.FilterPrompt
	}
	if styles.FilterPlaceholder != nil {
		fi.PlaceholderStyle = *styles.FilterPlaceholder
	}

	m := &Model{
		ctx:         ctx,
		session:     sess,
		data:        opts.Data,
		metrics:     opts.Metrics,
		settings:    opts.Settings,
		nav:         state.NewNavigation(),
		period:      state.DefaultPeriod,
		filterInput: fi,
		spinner:     sp,
		help:        help.New(),
		keys:        defaultKeyMap(),
		animate:     opts.Animate,
		showFooter:  opts.ShowFooter,
		verbose:     opts.Verbose,
	}
	if !m.animate {
		m.filterInput.Cursor.SetMode(cursor.CursorStatic)
	}
	if opts.Width > 0 {
		m.width = opts.Width
		m.fixedWidth = true
	}
	if opts.Height > 0 {
		m.height = opts.Height
		m.fixedHeight = true
	}
	if _, ok := sess.LoadPersistedToken(); ok {
		m.screen = ScreenLoading
	} else {
		m.screen = ScreenLoggedOut
		m.loginForm = m.prepareForm(forms.NewLogin())
	}
	m.registerHandlers()
	return m
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{}
	if m.screen == ScreenLoading {
		token, _ := m.session.Token()
		cmds = append(cmds, m.validateCmd(token))
	}
	if m.loginForm != nil {
		if cmd := m.blink(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	if cmd := m.tick(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, 4)
	if handled, cmd := m.handleActiveForm(msg); handled {
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		return m, m.finishUpdate(cmds)
	}

	if handler := m.handlerFor(msg); handler != nil {
		if cmd := handler(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, m.finishUpdate(cmds)
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(spinner.TickMsg{}):   m.handleSpinnerTickMsg,
		reflect.TypeOf(validateResultMsg{}): m.handleValidateResultMsg,
		reflect.TypeOf(loginResultMsg{}):    m.handleLoginResultMsg,
		reflect.TypeOf(pageLoadedMsg{}):     m.handlePageLoadedMsg,
		reflect.TypeOf(createResultMsg{}):   m.handleCreateResultMsg,
		reflect.TypeOf(showPageMsg{}):       m.handleShowPageMsg,
		reflect.TypeOf(sessionExpiredMsg{}): m.handleSessionExpiredMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

func (m *Model) finishUpdate(cmds []tea.Cmd) tea.Cmd {
	m.clearInfo()
	switch len(cmds) {
	case 0:
		return nil
	case 1:
		return cmds[0]
	default:
		return tea.Batch(cmds...)
	}
}

func (m *Model) tick() tea.Cmd {
	if !m.animate {
		return nil
	}
	return m.spinner.Tick
}

func (m *Model) blink() tea.Cmd {
	if !m.animate {
		return nil
	}
	return textinput.Blink
}

// prepareForm applies the model's cursor settings to a new form.
func (m *Model) prepareForm(f *forms.Form) *forms.Form {
	if !m.animate {
		f.StaticCursor()
	}
	return f
}

func (m *Model) handleSpinnerTickMsg(msg tea.Msg) tea.Cmd {
	if !m.animate {
		return nil
	}
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return cmd
}

// Screen reports the current top-level state.
func (m *Model) Screen() Screen { return m.screen }

// ShellBuilds counts shell constructions since the model was created.
func (m *Model) ShellBuilds() int { return m.shellBuilds }

// CurrentPage returns the page shown in the content region.
func (m *Model) CurrentPage() state.Page { return m.nav.Current() }

// PageStatus returns the load state of the current page.
func (m *Model) PageStatus() pages.Status { return m.status }

// Period returns the dashboard chart filter.
func (m *Model) Period() state.Period { return m.period }

// Notice returns the message shown above the login form.
func (m *Model) Notice() string { return m.notice }

// Err returns the inline error line.
func (m *Model) Err() string { return m.errMsg }

// LoginError returns the error shown under the login form.
func (m *Model) LoginError() string {
	if m.loginForm == nil {
		return ""
	}
	return m.loginForm.Error()
}

// Table exposes the rows of the current table page.
func (m *Model) Table() *state.Table { return m.table }

// ActiveForm returns the open add dialog, if any.
func (m *Model) ActiveForm() *forms.Form { return m.form }

// LoginForm returns the login form while logged out.
func (m *Model) LoginForm() *forms.Form { return m.loginForm }
