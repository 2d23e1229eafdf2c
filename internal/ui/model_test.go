package ui

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/atomicstack/license-admin/internal/api"
	"github.com/atomicstack/license-admin/internal/session"
	"github.com/atomicstack/license-admin/internal/state"
	"github.com/atomicstack/license-admin/internal/storage"
	"github.com/atomicstack/license-admin/internal/ui/pages"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

type fakeBackend struct {
	mu     sync.Mutex
	valid  map[string]bool
	probes []string
	logins int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{valid: map[string]bool{"tok-1": true}}
}

func (f *fakeBackend) Login(_ context.Context, username, password string) (api.LoginResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logins++
	if password != "secret" {
		return api.LoginResponse{}, &api.TransportError{Method: http.MethodPost, Path: api.PathLogin, Status: http.StatusUnauthorized, Message: "Invalid credentials"}
	}
	return api.LoginResponse{Token: "tok-1", Admin: api.Admin{Username: username}}, nil
}

func (f *fakeBackend) Probe(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.probes = append(f.probes, token)
	if f.valid[token] {
		return nil
	}
	return &api.TransportError{Method: http.MethodGet, Path: api.PathDashboard, Status: http.StatusUnauthorized}
}

type fakeData struct {
	mu           sync.Mutex
	calls        map[string]int
	customers    []api.Customer
	products     []api.Product
	fail         bool
	unauthorized bool
	created      []api.NewCustomer
	createErr    error
}

func newFakeData() *fakeData {
	return &fakeData{
		calls: map[string]int{},
		customers: []api.Customer{
			{ID: "1", Name: "Acme", Email: "ops@acme.test"},
			{ID: "2", Name: "Globex", Email: "it@globex.test"},
		},
		products: []api.Product{{ID: "p1", Name: "Widget", Version: "1.0"}},
	}
}

func (f *fakeData) record(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
	if f.unauthorized {
		return &api.TransportError{Method: http.MethodGet, Path: "/admin/" + name, Status: http.StatusUnauthorized}
	}
	if f.fail {
		return &api.TransportError{Method: http.MethodGet, Path: "/admin/" + name, Status: http.StatusInternalServerError}
	}
	return nil
}

func (f *fakeData) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeData) Dashboard(context.Context) (api.Dashboard, error) {
	if err := f.record("dashboard"); err != nil {
		return api.Dashboard{}, err
	}
	return api.Dashboard{Stats: api.Stats{TotalCustomers: len(f.customers), ValidationsToday: 41}}, nil
}

func (f *fakeData) Customers(context.Context) ([]api.Customer, error) {
	if err := f.record("customers"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]api.Customer(nil), f.customers...), nil
}

func (f *fakeData) Products(context.Context) ([]api.Product, error) {
	if err := f.record("products"); err != nil {
		return nil, err
	}
	return f.products, nil
}

func (f *fakeData) Licenses(context.Context) ([]api.License, error) {
	return nil, f.record("licenses")
}

func (f *fakeData) Rules(context.Context) ([]api.Rule, error) {
	return nil, f.record("rules")
}

func (f *fakeData) SecurityEvents(context.Context) ([]api.SecurityEvent, error) {
	return nil, f.record("security")
}

func (f *fakeData) CreateCustomer(_ context.Context, in api.NewCustomer) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["create-customer"]++
	if f.createErr != nil {
		return "", f.createErr
	}
	f.created = append(f.created, in)
	f.customers = append(f.customers, api.Customer{ID: "3", Name: in.Name, Email: in.Email})
	return "Customer created successfully", nil
}

func (f *fakeData) CreateProduct(context.Context, api.NewProduct) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["create-product"]++
	return "", nil
}

type fixture struct {
	store   storage.Store
	backend *fakeBackend
	data    *fakeData
}

func newFixture() *fixture {
	return &fixture{store: storage.NewMemory(), backend: newFakeBackend(), data: newFakeData()}
}

func (f *fixture) harness() *Harness {
	sess := session.New(f.store, f.backend, nil)
	m := NewModel(Options{Session: sess, Data: f.data, Settings: pages.Settings{APIURL: "http://api.test"}})
	h := NewHarness(m)
	h.Start()
	return h
}

func login(h *Harness, username, password string) {
	h.Type(username)
	h.Press(tea.KeyEnter)
	h.Type(password)
	h.Press(tea.KeyEnter)
}

func TestStartsLoggedOutWithoutToken(t *testing.T) {
	h := newFixture().harness()
	if h.Model().Screen() != ScreenLoggedOut {
		t.Fatalf("expected logged out, got %s", h.Model().Screen())
	}
	if !strings.Contains(h.View(), "Sign in") {
		t.Fatalf("expected login form, got:\n%s", h.View())
	}
}

func TestLoginEntersShellOnDashboard(t *testing.T) {
	fx := newFixture()
	h := fx.harness()
	login(h, "admin", "secret")

	m := h.Model()
	if m.Screen() != ScreenShellActive {
		t.Fatalf("expected shell, got %s (error %q)", m.Screen(), m.LoginError())
	}
	if m.CurrentPage() != state.PageDashboard || m.PageStatus() != pages.StatusReady {
		t.Fatalf("expected loaded dashboard, got %s/%d", m.CurrentPage(), m.PageStatus())
	}
	view := h.View()
	for _, want := range []string{"License Admin", "signed in as admin", "1 Dashboard", "7 Settings", "41"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view:\n%s", want, view)
		}
	}
}

func TestRepeatedAuthenticationBuildsShellOnce(t *testing.T) {
	h := newFixture().harness()
	login(h, "admin", "secret")
	for i := 0; i < 3; i++ {
		h.Send(loginResultMsg{result: session.Result{Token: "tok-1", User: session.User{Username: "admin"}}})
	}
	h.Type("r")
	h.Type("1")
	if got := h.Model().ShellBuilds(); got != 1 {
		t.Fatalf("expected one shell build, got %d", got)
	}
}

func TestLogoutThenLoginBuildsShellAgain(t *testing.T) {
	fx := newFixture()
	h := fx.harness()
	login(h, "admin", "secret")
	h.Type("L")

	m := h.Model()
	if m.Screen() != ScreenLoggedOut {
		t.Fatalf("expected logged out after L, got %s", m.Screen())
	}
	if _, ok, _ := fx.store.Get(session.TokenKey); ok {
		t.Fatal("expected persisted token removed on logout")
	}
	login(h, "admin", "secret")
	if got := h.Model().ShellBuilds(); got != 2 {
		t.Fatalf("expected two shell builds, got %d", got)
	}
}

func TestPersistedTokenRestoresSession(t *testing.T) {
	fx := newFixture()
	login(fx.harness(), "admin", "secret")

	sess := session.New(fx.store, fx.backend, nil)
	m := NewModel(Options{Session: sess, Data: fx.data})
	if m.Screen() != ScreenLoading {
		t.Fatalf("expected loading with persisted token, got %s", m.Screen())
	}
	h := NewHarness(m)
	h.Start()
	if m.Screen() != ScreenShellActive {
		t.Fatalf("expected shell after validation, got %s", m.Screen())
	}
	if len(fx.backend.probes) != 1 || fx.backend.probes[0] != "tok-1" {
		t.Fatalf("expected stored token to be probed, got %#v", fx.backend.probes)
	}
	if !strings.Contains(h.View(), "signed in as administrator") {
		t.Fatalf("expected neutral user label, got:\n%s", h.View())
	}
}

func TestExpiredTokenShowsLoginForm(t *testing.T) {
	fx := newFixture()
	if err := fx.store.Set(session.TokenKey, "expired"); err != nil {
		t.Fatal(err)
	}
	h := fx.harness()
	m := h.Model()
	if m.Screen() != ScreenLoggedOut {
		t.Fatalf("expected logged out, got %s", m.Screen())
	}
	if m.ShellBuilds() != 0 {
		t.Fatalf("expected no shell build, got %d", m.ShellBuilds())
	}
	if m.LoginForm() == nil {
		t.Fatal("expected login form")
	}
	if fx.data.count("dashboard") != 0 {
		t.Fatal("expected no page fetch for an invalid session")
	}
}

func TestWrongPasswordShowsServerMessage(t *testing.T) {
	fx := newFixture()
	h := fx.harness()
	login(h, "admin", "wrongpass")

	m := h.Model()
	if m.Screen() != ScreenLoggedOut {
		t.Fatalf("expected to stay logged out, got %s", m.Screen())
	}
	if m.LoginError() != "Invalid credentials" {
		t.Fatalf("expected server message, got %q", m.LoginError())
	}
	if _, ok := m.session.Token(); ok {
		t.Fatal("expected no token after failed login")
	}
	if !strings.Contains(h.View(), "Invalid credentials") {
		t.Fatalf("expected error in view:\n%s", h.View())
	}
}

func TestEmptyLoginFieldsSkipNetwork(t *testing.T) {
	fx := newFixture()
	h := fx.harness()
	h.Press(tea.KeyEnter)
	if fx.backend.logins != 0 {
		t.Fatalf("expected no login attempt, got %d", fx.backend.logins)
	}
	if h.Model().LoginError() != "Username is required" {
		t.Fatalf("unexpected error %q", h.Model().LoginError())
	}
}

func TestShowUnknownPageIsNoop(t *testing.T) {
	h := newFixture().harness()
	login(h, "admin", "secret")
	m := h.Model()
	h.Type("2")
	before := h.View()
	gen := m.nav.Generation()

	if cmd := m.ShowPage("nonexistent"); cmd != nil {
		t.Fatal("expected no command for unknown page")
	}
	if m.CurrentPage() != state.PageCustomers {
		t.Fatalf("expected customers to remain current, got %s", m.CurrentPage())
	}
	if m.nav.Generation() != gen {
		t.Fatal("expected generation unchanged")
	}
	if h.View() != before {
		t.Fatal("expected content unchanged")
	}
}

func TestNumberKeysSelectPages(t *testing.T) {
	fx := newFixture()
	h := fx.harness()
	login(h, "admin", "secret")
	for i, p := range state.Pages() {
		h.Type(string(rune('1' + i)))
		if h.Model().CurrentPage() != p {
			t.Fatalf("expected %s after key %d, got %s", p, i+1, h.Model().CurrentPage())
		}
	}
	h.Press(tea.KeyTab)
	if h.Model().CurrentPage() != state.PageDashboard {
		t.Fatalf("expected tab to wrap to dashboard, got %s", h.Model().CurrentPage())
	}
	h.Press(tea.KeyShiftTab)
	if h.Model().CurrentPage() != state.PageSettings {
		t.Fatalf("expected shift+tab to wrap to settings, got %s", h.Model().CurrentPage())
	}
	if !strings.Contains(h.View(), "http://api.test") {
		t.Fatalf("expected settings page, got:\n%s", h.View())
	}
}

func TestStalePageResultIsDropped(t *testing.T) {
	h := newFixture().harness()
	login(h, "admin", "secret")
	m := h.Model()

	slow := m.ShowPage("customers")
	fast := m.ShowPage("products")
	for _, msg := range Collect(fast) {
		h.Send(msg)
	}
	for _, msg := range Collect(slow) {
		h.Send(msg)
	}
	if m.CurrentPage() != state.PageProducts {
		t.Fatalf("expected products current, got %s", m.CurrentPage())
	}
	if tbl := m.Table(); tbl == nil || len(tbl.Full) != 1 || tbl.Full[0].ID != "p1" {
		t.Fatalf("expected products table to survive stale customers result, got %#v", tbl)
	}
}

func TestUnauthorizedFetchExpiresSession(t *testing.T) {
	fx := newFixture()
	h := fx.harness()
	login(h, "admin", "secret")
	fx.data.unauthorized = true
	h.Type("2")

	m := h.Model()
	if m.Screen() != ScreenLoggedOut {
		t.Fatalf("expected logged out after 401, got %s", m.Screen())
	}
	if m.Notice() != expiredNotice {
		t.Fatalf("expected expiry notice, got %q", m.Notice())
	}
	if _, ok := m.session.Token(); ok {
		t.Fatal("expected session cleared")
	}
	if !strings.Contains(h.View(), "session has expired") {
		t.Fatalf("expected notice in view:\n%s", h.View())
	}
}

func TestFailedFetchShowsGenericError(t *testing.T) {
	fx := newFixture()
	h := fx.harness()
	login(h, "admin", "secret")
	fx.data.fail = true
	h.Type("4")
	if h.Model().PageStatus() != pages.StatusFailed {
		t.Fatalf("expected failed status, got %d", h.Model().PageStatus())
	}
	if !strings.Contains(h.View(), "Failed to load licenses") {
		t.Fatalf("expected failure message, got:\n%s", h.View())
	}
	fx.data.fail = false
	h.Type("r")
	if h.Model().PageStatus() != pages.StatusReady {
		t.Fatalf("expected reload to recover, got %d", h.Model().PageStatus())
	}
}

func TestAddCustomerRequiresNameWithoutNetwork(t *testing.T) {
	fx := newFixture()
	h := fx.harness()
	login(h, "admin", "secret")
	h.Type("2")
	h.Type("a")
	if h.Model().ActiveForm() == nil {
		t.Fatal("expected add customer form")
	}
	h.Press(tea.KeyTab)
	h.Type("ops@new.test")
	h.Press(tea.KeyEnter)

	if fx.data.count("create-customer") != 0 {
		t.Fatal("expected no create call")
	}
	if got := h.Model().ActiveForm().Error(); got != "Name is required" {
		t.Fatalf("expected name required, got %q", got)
	}
}

func TestAddCustomerReloadsPage(t *testing.T) {
	fx := newFixture()
	h := fx.harness()
	login(h, "admin", "secret")
	h.Type("2")
	h.Type("a")
	h.Type("Initech")
	h.Press(tea.KeyEnter)
	h.Type("it@initech.test")
	h.Press(tea.KeyEnter)

	m := h.Model()
	if m.ActiveForm() != nil {
		t.Fatalf("expected form closed, error %q", m.ActiveForm().Error())
	}
	if len(fx.data.created) != 1 || fx.data.created[0].Name != "Initech" {
		t.Fatalf("unexpected created customers %#v", fx.data.created)
	}
	if fx.data.count("customers") != 2 {
		t.Fatalf("expected customers reloaded, got %d fetches", fx.data.count("customers"))
	}
	if m.Info() != "Customer created successfully" {
		t.Fatalf("expected success info, got %q", m.Info())
	}
	if !strings.Contains(h.View(), "Initech") {
		t.Fatalf("expected new customer listed:\n%s", h.View())
	}
}

func TestAddCustomerServerErrorStaysInline(t *testing.T) {
	fx := newFixture()
	fx.data.createErr = &api.RejectedError{Path: api.PathCustomers, Message: "Email already exists"}
	h := fx.harness()
	login(h, "admin", "secret")
	h.Type("2")
	h.Type("a")
	h.Type("Acme")
	h.Press(tea.KeyEnter)
	h.Type("ops@acme.test")
	h.Press(tea.KeyEnter)

	form := h.Model().ActiveForm()
	if form == nil || form.Error() != "Email already exists" {
		t.Fatalf("expected inline server error, got %#v", form)
	}
	h.Press(tea.KeyEsc)
	if h.Model().ActiveForm() != nil {
		t.Fatal("expected esc to close the form")
	}
}

func TestDashboardPeriodResetsOnEntry(t *testing.T) {
	h := newFixture().harness()
	login(h, "admin", "secret")
	h.Type("y")
	if h.Model().Period() != state.PeriodYear {
		t.Fatalf("expected year period, got %s", h.Model().Period())
	}
	if !strings.Contains(h.View(), "Dec") {
		t.Fatalf("expected yearly chart:\n%s", h.View())
	}
	h.Type("2")
	h.Type("1")
	if h.Model().Period() != state.DefaultPeriod {
		t.Fatalf("expected period reset to week, got %s", h.Model().Period())
	}
}

func TestFilterNarrowsRows(t *testing.T) {
	h := newFixture().harness()
	login(h, "admin", "secret")
	h.Type("2")
	h.Type("/")
	h.Type("globex")
	m := h.Model()
	if len(m.Table().Rows) != 1 || m.Table().Rows[0].ID != "2" {
		t.Fatalf("expected only globex, got %#v", m.Table().Rows)
	}
	h.Press(tea.KeyEnter)
	h.Type("1")
	if m.CurrentPage() != state.PageDashboard {
		t.Fatal("expected keys to navigate again after enter")
	}
	h.Type("2")
	h.Type("/")
	h.Type("zz")
	h.Press(tea.KeyEsc)
	if len(m.Table().Rows) != 2 {
		t.Fatalf("expected esc to clear filter, got %d rows", len(m.Table().Rows))
	}
}

func TestKeysIgnoredWhileLoading(t *testing.T) {
	fx := newFixture()
	if err := fx.store.Set(session.TokenKey, "tok-1"); err != nil {
		t.Fatal(err)
	}
	m := NewModel(Options{Session: session.New(fx.store, fx.backend, nil), Data: fx.data})
	h := NewHarness(m)
	h.Type("2")
	if m.Screen() != ScreenLoading || m.CurrentPage() != state.PageDashboard {
		t.Fatalf("expected navigation ignored while loading, got %s/%s", m.Screen(), m.CurrentPage())
	}
	h.Type("q")
	if !h.Quit() {
		t.Fatal("expected q to quit while loading")
	}
}

func TestQuitKeys(t *testing.T) {
	h := newFixture().harness()
	h.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
	if !h.Quit() {
		t.Fatal("expected ctrl+c to quit from login")
	}
}

func TestUnauthorizedHelper(t *testing.T) {
	if !unauthorized(&api.TransportError{Status: http.StatusUnauthorized}) {
		t.Fatal("expected 401 to be unauthorized")
	}
	if unauthorized(errors.New("boom")) {
		t.Fatal("expected plain error to pass through")
	}
}

func TestShowPageMsgNavigates(t *testing.T) {
	fx := newFixture()
	h := fx.harness()
	login(h, "admin", "secret")

	h.Send(ShowPageMsg("customers"))
	m := h.Model()
	if m.CurrentPage() != state.PageCustomers || m.PageStatus() != pages.StatusReady {
		t.Fatalf("expected loaded customers, got %s/%d", m.CurrentPage(), m.PageStatus())
	}
	if fx.data.count("customers") != 1 {
		t.Fatalf("expected one customers fetch, got %d", fx.data.count("customers"))
	}

	h.Send(ShowPageMsg("billing"))
	if m.CurrentPage() != state.PageCustomers {
		t.Fatalf("expected unknown id to be ignored, got %s", m.CurrentPage())
	}
}

func TestShowPageMsgIgnoredWhenLoggedOut(t *testing.T) {
	fx := newFixture()
	h := fx.harness()
	h.Send(ShowPageMsg("customers"))
	if h.Model().Screen() != ScreenLoggedOut {
		t.Fatalf("expected logged out, got %s", h.Model().Screen())
	}
	if fx.data.count("customers") != 0 {
		t.Fatal("expected no fetch while logged out")
	}
}

func TestUnauthorizedCreateExpiresSession(t *testing.T) {
	fx := newFixture()
	h := fx.harness()
	login(h, "admin", "secret")
	h.Type("2")
	fx.data.createErr = &api.TransportError{Method: http.MethodPost, Path: api.PathCustomers, Status: http.StatusUnauthorized}
	h.Type("a")
	h.Type("Initech")
	h.Press(tea.KeyEnter)
	h.Type("it@initech.test")
	h.Press(tea.KeyEnter)

	m := h.Model()
	if m.Screen() != ScreenLoggedOut {
		t.Fatalf("expected logged out after 401, got %s", m.Screen())
	}
	if m.ActiveForm() != nil {
		t.Fatal("expected add form discarded")
	}
	if m.Notice() != expiredNotice {
		t.Fatalf("expected expiry notice, got %q", m.Notice())
	}
	if _, ok, _ := fx.store.Get(session.TokenKey); ok {
		t.Fatal("expected persisted token removed")
	}
}

func TestFetchCommandReportsExpiry(t *testing.T) {
	fx := newFixture()
	h := fx.harness()
	login(h, "admin", "secret")
	fx.data.unauthorized = true

	msgs := Collect(h.Model().ShowPage("licenses"))
	if len(msgs) != 1 {
		t.Fatalf("expected one message, got %d", len(msgs))
	}
	if _, ok := msgs[0].(sessionExpiredMsg); !ok {
		t.Fatalf("expected sessionExpiredMsg, got %T", msgs[0])
	}
}

func TestVerboseShowsFailureDetail(t *testing.T) {
	for _, verbose := range []bool{false, true} {
		fx := newFixture()
		sess := session.New(fx.store, fx.backend, nil)
		h := NewHarness(NewModel(Options{Session: sess, Data: fx.data, Verbose: verbose}))
		h.Start()
		login(h, "admin", "secret")
		fx.data.fail = true
		h.Type("4")

		got := h.Model().Err()
		if verbose && !strings.Contains(got, "status 500") {
			t.Fatalf("expected failure detail with verbose, got %q", got)
		}
		if !verbose && got != "" {
			t.Fatalf("expected no detail without verbose, got %q", got)
		}
		if !strings.Contains(h.View(), "Failed to load licenses") {
			t.Fatalf("expected generic failure message, got:\n%s", h.View())
		}

		fx.data.fail = false
		h.Type("r")
		if h.Model().Err() != "" {
			t.Fatalf("expected reload to clear detail, got %q", h.Model().Err())
		}
	}
}
