package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/license-admin/internal/api"
	"github.com/atomicstack/license-admin/internal/logging"
	"github.com/atomicstack/license-admin/internal/metrics"
	"github.com/atomicstack/license-admin/internal/session"
	"github.com/atomicstack/license-admin/internal/storage"
	"github.com/atomicstack/license-admin/internal/ui"
	"github.com/atomicstack/license-admin/internal/ui/pages"
)

// Config describes user-provided application options.
type Config struct {
	APIURL      string
	StorePath   string
	Timeout     time.Duration
	Width       int
	Height      int
	ShowFooter  bool
	Verbose     bool
	MetricsAddr string
	LogFile     string
}

// ErrNoSession is returned by Status when no usable session is saved.
var ErrNoSession = errors.New("no valid session")

// memoryStorePath keeps the session in process memory only.
const memoryStorePath = ":memory:"

type runtime struct {
	store   storage.Store
	session *session.Manager
	client  *api.Client
	metrics *metrics.Recorder
}

func open(cfg Config) (*runtime, error) {
	store, err := openStore(cfg.StorePath)
	if err != nil {
		return nil, err
	}
	rec := metrics.New()
	sess := session.New(store, nil, rec)
	client, err := api.New(api.Options{
		BaseURL: cfg.APIURL,
		Timeout: cfg.Timeout,
		Tokens:  sess,
		Metrics: rec,
	})
	if err != nil {
		store.Close()
		return nil, err
	}
	sess.SetBackend(client)
	return &runtime{store: store, session: sess, client: client, metrics: rec}, nil
}

func openStore(path string) (storage.Store, error) {
	path = strings.TrimSpace(path)
	if path == "" || path == memoryStorePath {
		return storage.NewMemory(), nil
	}
	store, err := storage.OpenSQLite(path)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	return store, nil
}

func (r *runtime) close() {
	if err := r.store.Close(); err != nil {
		logging.Error(err)
	}
}

// Run bootstraps and executes the Bubble Tea program.
func Run(ctx context.Context, cfg Config) error {
	rt, err := open(cfg)
	if err != nil {
		return err
	}
	defer rt.close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if cfg.MetricsAddr != "" {
		go func() {
			if err := rt.metrics.Serve(ctx, cfg.MetricsAddr); err != nil {
				logging.Error(fmt.Errorf("metrics server: %w", err))
			}
		}()
	}

	model := ui.NewModel(ui.Options{
		Context: ctx,
		Session: rt.session,
		Data:    rt.client,
		Metrics: rt.metrics,
		Settings: pages.Settings{
			APIURL:      rt.client.BaseURL(),
			StorePath:   cfg.StorePath,
			Timeout:     cfg.Timeout.String(),
			MetricsAddr: cfg.MetricsAddr,
			LogFile:     cfg.LogFile,
		},
		Width:      cfg.Width,
		Height:     cfg.Height,
		ShowFooter: cfg.ShowFooter,
		Verbose:    cfg.Verbose,
		Animate:    true,
	})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

// Status reports whether the saved session is still accepted by the server.
// A rejected token is removed from the store.
func Status(ctx context.Context, cfg Config, out io.Writer) error {
	rt, err := open(cfg)
	if err != nil {
		return err
	}
	defer rt.close()

	token, ok := rt.session.LoadPersistedToken()
	if !ok {
		fmt.Fprintln(out, "not signed in")
		return ErrNoSession
	}
	if !rt.session.Validate(ctx, token) {
		fmt.Fprintln(out, "saved session is no longer valid; sign in again")
		return ErrNoSession
	}
	fmt.Fprintf(out, "signed in to %s\n", rt.client.BaseURL())
	return nil
}

// Logout forgets the saved session without contacting the server.
func Logout(cfg Config, out io.Writer) error {
	rt, err := open(cfg)
	if err != nil {
		return err
	}
	defer rt.close()

	if _, ok := rt.session.LoadPersistedToken(); !ok {
		fmt.Fprintln(out, "not signed in")
		return nil
	}
	rt.session.Logout()
	fmt.Fprintln(out, "signed out")
	return nil
}
