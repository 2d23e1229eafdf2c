// Package session owns the bearer token for the signed-in administrator: it
// restores the token from durable storage, validates it against the API, and
// commits or clears it on login and logout.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/atomicstack/license-admin/internal/api"
	"github.com/atomicstack/license-admin/internal/logging"
	"github.com/atomicstack/license-admin/internal/logging/events"
	"github.com/atomicstack/license-admin/internal/metrics"
	"github.com/atomicstack/license-admin/internal/storage"
)

// TokenKey is the storage key holding the persisted bearer token.
const TokenKey = "auth_token"

const genericLoginMessage = "Login failed"

// Backend is the slice of the API the manager needs.
type Backend interface {
	Login(ctx context.Context, username, password string) (api.LoginResponse, error)
	Probe(ctx context.Context, token string) error
}

// User is the administrator returned by a successful login.
type User struct {
	Username string
	Email    string
	Role     string
}

// Result is what a successful Login hands back to the caller.
type Result struct {
	Token string
	User  User
}

// AuthError is a failed login. Message is safe to show to the user.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string { return e.Message }

func (e *AuthError) Unwrap() error { return e.Err }

// Manager is safe for concurrent use.
type Manager struct {
	store   storage.Store
	backend Backend
	metrics *metrics.Recorder

	mu    sync.Mutex
	token string
	user  *User
}

// New builds a manager with an empty session. A nil store falls back to an
// in-memory one.
func New(store storage.Store, backend Backend, rec *metrics.Recorder) *Manager {
	if store == nil {
		store = storage.NewMemory()
	}
	return &Manager{store: store, backend: backend, metrics: rec}
}

// SetBackend attaches the API once it exists. The API client takes the
// manager as its token source, so the two are wired in two steps.
func (m *Manager) SetBackend(b Backend) {
	m.mu.Lock()
	m.backend = b
	m.mu.Unlock()
}

// LoadPersistedToken reads the stored token into the session without
// validating it. Storage failures are logged and read as absent.
func (m *Manager) LoadPersistedToken() (string, bool) {
	value, ok, err := m.store.Get(TokenKey)
	if err != nil {
		logging.Error(err)
		ok = false
	}
	value = strings.TrimSpace(value)
	found := ok && value != ""
	events.Session.Restore(found)
	if !found {
		return "", false
	}
	m.mu.Lock()
	m.token = value
	m.user = nil
	m.mu.Unlock()
	return value, true
}

// Validate probes the API with token. It reports true only on a 2xx answer;
// on false the session and the persisted token are cleared.
func (m *Manager) Validate(ctx context.Context, token string) bool {
	backend := m.currentBackend()
	valid := false
	if token != "" && backend != nil {
		err := backend.Probe(ctx, token)
		if err != nil {
			logging.Error(err)
		}
		valid = err == nil
	}
	events.Session.Validate(valid)
	if !valid {
		m.clear(events.SessionReasonInvalid)
		return false
	}
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
	return true
}

// Login posts credentials and, on success, commits and persists the token.
// Callers check that both fields are non-empty.
func (m *Manager) Login(ctx context.Context, username, password string) (Result, error) {
	backend := m.currentBackend()
	if backend == nil {
		events.Session.LoginFailure(username, genericLoginMessage)
		m.metrics.ObserveLogin(false)
		return Result{}, &AuthError{Message: genericLoginMessage, Err: errors.New("session: no backend")}
	}
	events.Session.LoginSubmit(username)
	resp, err := backend.Login(ctx, username, password)
	if err != nil {
		message := api.ServerMessage(err)
		if message == "" {
			message = genericLoginMessage
		}
		logging.Error(err)
		events.Session.LoginFailure(username, message)
		m.metrics.ObserveLogin(false)
		return Result{}, &AuthError{Message: message, Err: err}
	}

	user := User{Username: resp.Admin.Username, Email: resp.Admin.Email, Role: resp.Admin.Role}
	if user.Username == "" {
		user.Username = username
	}
	m.mu.Lock()
	m.token = resp.Token
	m.user = &user
	m.mu.Unlock()
	if err := m.store.Set(TokenKey, resp.Token); err != nil {
		logging.Error(err)
	}
	events.Session.LoginSuccess(user.Username)
	m.metrics.ObserveLogin(true)
	return Result{Token: resp.Token, User: user}, nil
}

// Logout clears the session and the persisted token.
func (m *Manager) Logout() {
	m.clear(events.SessionReasonUser)
}

// Expire is Logout after the server rejected the token.
func (m *Manager) Expire() {
	m.clear(events.SessionReasonExpired)
}

// Token satisfies api.TokenSource.
func (m *Manager) Token() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, m.token != ""
}

// User returns the signed-in user; ok is false for a restored token whose
// owner is unknown.
func (m *Manager) User() (User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return User{}, false
	}
	return *m.user, true
}

func (m *Manager) Authenticated() bool {
	_, ok := m.Token()
	return ok
}

func (m *Manager) currentBackend() Backend {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.backend
}

func (m *Manager) clear(reason events.SessionReason) {
	m.mu.Lock()
	m.token = ""
	m.user = nil
	m.mu.Unlock()
	if err := m.store.Delete(TokenKey); err != nil {
		logging.Error(err)
	}
	events.Session.Logout(reason)
}
