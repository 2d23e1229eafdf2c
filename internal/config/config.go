package config

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/atomicstack/license-admin/internal/app"
)

// Config captures runtime configuration for the application.
type Config struct {
	App     app.Config
	Command string
	Logging Logging
	Flags   map[string]string
	Args    []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

const (
	envPrefix      = "LICENSE_ADMIN_"
	defaultAPIURL  = "http://localhost:3000/api"
	defaultTimeout = 15 * time.Second
	dotenvFile     = ".env"
)

const (
	CommandRun    = "run"
	CommandStatus = "status"
	CommandLogout = "logout"
)

// ErrHelp is returned when -h/--help was requested.
var ErrHelp = pflag.ErrHelp

// environment mirrors the LICENSE_ADMIN_* variables.
type environment struct {
	APIURL      string        `env:"API_URL"`
	Store       string        `env:"STORE"`
	Timeout     time.Duration `env:"TIMEOUT"`
	Width       int           `env:"WIDTH"`
	Height      int           `env:"HEIGHT"`
	Footer      bool          `env:"FOOTER"`
	Trace       bool          `env:"TRACE"`
	Verbose     bool          `env:"VERBOSE"`
	LogFile     string        `env:"LOG_FILE"`
	MetricsAddr string        `env:"METRICS_ADDR"`
}

var defaultStorePath = func() string {
	if dir, err := os.UserConfigDir(); err == nil && dir != "" {
		return filepath.Join(dir, "license-admin", "session.db")
	}
	return filepath.Join(".license-admin", "session.db")
}

// Load parses configuration from CLI arguments, the process environment and
// an optional .env file in the working directory.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], WithDotenv(dotenvFile, os.Environ()))
}

// WithDotenv appends the entries of the dotenv file at path to environ.
// Variables already present in environ take precedence. A missing file is
// not an error.
func WithDotenv(path string, environ []string) []string {
	values, err := godotenv.Read(path)
	if err != nil {
		return environ
	}
	present := parseEnv(environ)
	out := append([]string(nil), environ...)
	for k, v := range values {
		if _, ok := present[k]; ok {
			continue
		}
		out = append(out, k+"="+v)
	}
	return out
}

// LoadArgs allows tests to supply specific args/environment.
func LoadArgs(args []string, environ []string) (Config, error) {
	envCfg := environment{APIURL: defaultAPIURL, Timeout: defaultTimeout}
	if err := env.ParseWithOptions(&envCfg, env.Options{
		Environment: parseEnv(environ),
		Prefix:      envPrefix,
	}); err != nil {
		return Config{}, fmt.Errorf("environment: %w", err)
	}

	fs := pflag.NewFlagSet("license-admin", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)

	apiURL := fs.String("api-url", envCfg.APIURL, "base URL of the licensing API")
	store := fs.String("store", envCfg.Store, "path to the session database (defaults to the user config dir)")
	timeout := fs.Duration("timeout", envCfg.Timeout, "HTTP request timeout")
	width := fs.Int("width", envCfg.Width, "desired viewport width in cells (0 uses terminal width)")
	height := fs.Int("height", envCfg.Height, "desired viewport height in rows (0 uses terminal height)")
	footer := fs.Bool("footer", envCfg.Footer, "always show the key help row")
	trace := fs.Bool("trace", envCfg.Trace, "enable verbose JSON trace logging")
	verbose := fs.Bool("verbose", envCfg.Verbose, "show failure detail in the status line")
	logFile := fs.String("log-file", envCfg.LogFile, "path to the log file")
	metricsAddr := fs.String("metrics-addr", envCfg.MetricsAddr, "serve Prometheus metrics on this address (disabled when empty)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if *width < 0 {
		return Config{}, fmt.Errorf("width must be >= 0 (got %d)", *width)
	}
	if *height < 0 {
		return Config{}, fmt.Errorf("height must be >= 0 (got %d)", *height)
	}

	command := CommandRun
	switch rest := fs.Args(); len(rest) {
	case 0:
	case 1:
		command = strings.ToLower(rest[0])
	default:
		return Config{}, fmt.Errorf("unexpected arguments: %s", strings.Join(rest[1:], " "))
	}

	storePath := strings.TrimSpace(*store)
	if storePath == "" {
		storePath = defaultStorePath()
	}

	cfg := Config{
		App: app.Config{
			APIURL:      strings.TrimRight(strings.TrimSpace(*apiURL), "/"),
			StorePath:   storePath,
			Timeout:     *timeout,
			Width:       *width,
			Height:      *height,
			ShowFooter:  *footer,
			Verbose:     *verbose,
			MetricsAddr: strings.TrimSpace(*metricsAddr),
			LogFile:     *logFile,
		},
		Command: command,
		Logging: Logging{
			FilePath: *logFile,
			Trace:    *trace,
		},
		Flags: map[string]string{
			"api-url":      *apiURL,
			"store":        storePath,
			"timeout":      timeout.String(),
			"width":        strconv.Itoa(*width),
			"height":       strconv.Itoa(*height),
			"footer":       strconv.FormatBool(*footer),
			"trace":        strconv.FormatBool(*trace),
			"verbose":      strconv.FormatBool(*verbose),
			"log-file":     *logFile,
			"metrics-addr": *metricsAddr,
		},
		Args: append([]string(nil), args...),
	}

	return cfg, nil
}

// Usage describes the command line.
func Usage() string {
	return `usage: license-admin [flags] [run|status|logout]

  run      start the admin client (default)
  status   check whether the saved session is still valid
  logout   forget the saved session

flags:
  --api-url URL         base URL of the licensing API
  --store PATH          session database path
  --timeout DURATION    HTTP request timeout (default 15s)
  --width N, --height N fixed viewport size
  --footer              always show the key help row
  --trace               JSON trace logging
  --verbose             show failure detail in the status line
  --log-file PATH       log file path
  --metrics-addr ADDR   serve Prometheus metrics

Every flag can also be set as LICENSE_ADMIN_<NAME> in the environment or .env.`
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if errors.Is(err, ErrHelp) {
		fmt.Fprintln(os.Stdout, Usage())
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n\n%s\n", err, Usage())
		os.Exit(2)
	}
	return cfg
}

// Validate ensures required minimum configuration is present.
func Validate(cfg Config) error {
	switch cfg.Command {
	case CommandRun, CommandStatus, CommandLogout:
	default:
		return fmt.Errorf("unknown command %q", cfg.Command)
	}
	u, err := url.Parse(cfg.App.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api-url must be an absolute http(s) URL (got %q)", cfg.App.APIURL)
	}
	if cfg.App.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0 (got %s)", cfg.App.Timeout)
	}
	if strings.TrimSpace(cfg.App.StorePath) == "" {
		return errors.New("store path must not be empty")
	}
	return nil
}
