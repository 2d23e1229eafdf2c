// Package api is the HTTP client for the licensing admin API. Every response is
// an Envelope; authenticated calls carry the session's bearer token through an
// oauth2 transport.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/atomicstack/license-admin/internal/logging/events"
	"github.com/atomicstack/license-admin/internal/metrics"
)

const maxResponseBytes = 4 << 20

// TokenSource yields the current bearer token, ok=false when logged out.
type TokenSource interface {
	Token() (string, bool)
}

// Options configures a Client.
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	Tokens    TokenSource
	Metrics   *metrics.Recorder
	Transport http.RoundTripper
}

// Client talks to the licensing API.
type Client struct {
	base      *url.URL
	timeout   time.Duration
	transport http.RoundTripper
	plain     *http.Client
	authed    *http.Client
	metrics   *metrics.Recorder
}

// New validates the base URL and prepares the plain and authenticated HTTP
// clients.
func New(opts Options) (*Client, error) {
	raw := strings.TrimSpace(opts.BaseURL)
	if raw == "" {
		return nil, errors.New("api: base url required")
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("api: parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("api: unsupported scheme %q", base.Scheme)
	}
	rt := opts.Transport
	if rt == nil {
		rt = http.DefaultTransport
	}
	c := &Client{
		base:      base,
		timeout:   opts.Timeout,
		transport: rt,
		metrics:   opts.Metrics,
		plain:     &http.Client{Transport: rt, Timeout: opts.Timeout},
	}
	c.authed = c.bearerClient(sessionSource{tokens: opts.Tokens})
	return c, nil
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string {
	return c.base.String()
}

type sessionSource struct {
	tokens TokenSource
}

func (s sessionSource) Token() (*oauth2.Token, error) {
	if s.tokens == nil {
		return nil, ErrNoToken
	}
	tok, ok := s.tokens.Token()
	if !ok || tok == "" {
		return nil, ErrNoToken
	}
	return &oauth2.Token{AccessToken: tok, TokenType: "Bearer"}, nil
}

func (c *Client) bearerClient(src oauth2.TokenSource) *http.Client {
	return &http.Client{
		Transport: &oauth2.Transport{Source: src, Base: c.transport},
		Timeout:   c.timeout,
	}
}

// Call issues an authenticated request with the current session token. A JSON
// body is attached only for mutating methods when body is non-nil. Non-2xx
// answers come back as *TransportError; a 2xx envelope is returned as-is even
// when success is false.
func (c *Client) Call(ctx context.Context, method, path string, body interface{}) (Envelope, error) {
	return c.do(ctx, c.authed, method, path, body)
}

func (c *Client) do(ctx context.Context, hc *http.Client, method, path string, body interface{}) (Envelope, error) {
	method = strings.ToUpper(method)
	fail := func(status int, message string, err error) (Envelope, error) {
		return Envelope{}, &TransportError{Method: method, Path: path, Status: status, Message: message, Err: err}
	}

	var payload io.Reader
	if body != nil && mutating(method) {
		buf, err := json.Marshal(body)
		if err != nil {
			return fail(0, "", fmt.Errorf("encode body: %w", err))
		}
		payload = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base.JoinPath(path).String(), payload)
	if err != nil {
		return fail(0, "", err)
	}
	id := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", id)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	events.API.Request(id, method, path)
	start := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		events.API.Failure(id, err)
		c.metrics.ObserveRequest(method, path, "error")
		return fail(0, "", err)
	}
	defer resp.Body.Close()
	events.API.Response(id, resp.StatusCode, time.Since(start))

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		c.metrics.ObserveRequest(method, path, "error")
		return fail(resp.StatusCode, "", fmt.Errorf("read body: %w", err))
	}
	var env Envelope
	var decodeErr error
	if len(bytes.TrimSpace(raw)) > 0 {
		decodeErr = json.Unmarshal(raw, &env)
	} else {
		decodeErr = errors.New("empty body")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.ObserveRequest(method, path, statusClass(resp.StatusCode))
		return fail(resp.StatusCode, env.Message, errors.New(http.StatusText(resp.StatusCode)))
	}
	if decodeErr != nil {
		c.metrics.ObserveRequest(method, path, "error")
		return fail(resp.StatusCode, "", fmt.Errorf("decode response: %w", decodeErr))
	}
	c.metrics.ObserveRequest(method, path, "ok")
	return env, nil
}

func mutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}

func statusClass(status int) string {
	return fmt.Sprintf("%dxx", status/100)
}
