package api

import (
	"context"
	"errors"
	"net/http"

	"golang.org/x/oauth2"
)

const (
	PathLogin          = "/admin/auth/login"
	PathDashboard      = "/admin/dashboard"
	PathCustomers      = "/admin/customers"
	PathProducts       = "/admin/products"
	PathLicenses       = "/admin/licenses"
	PathRules          = "/admin/rules"
	PathSecurityEvents = "/admin/security/events"
)

// Login submits credentials. Failures come back as *TransportError (non-2xx)
// or *RejectedError (success=false); both carry the server message when one
// was sent.
func (c *Client) Login(ctx context.Context, username, password string) (LoginResponse, error) {
	env, err := c.do(ctx, c.plain, http.MethodPost, PathLogin, LoginRequest{Username: username, Password: password})
	if err != nil {
		return LoginResponse{}, err
	}
	if err := env.Err(PathLogin); err != nil {
		return LoginResponse{}, err
	}
	if env.Token == "" {
		return LoginResponse{}, &RejectedError{Path: PathLogin, Message: env.Message}
	}
	resp := LoginResponse{Token: env.Token}
	if env.Admin != nil {
		resp.Admin = *env.Admin
	}
	return resp, nil
}

// Probe checks token against the dashboard endpoint; nil means 2xx, whatever
// the body holds.
func (c *Client) Probe(ctx context.Context, token string) error {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	_, err := c.do(ctx, c.bearerClient(src), http.MethodGet, PathDashboard, nil)
	var transport *TransportError
	if errors.As(err, &transport) && transport.Status >= 200 && transport.Status <= 299 {
		return nil
	}
	return err
}

func (c *Client) Dashboard(ctx context.Context) (Dashboard, error) {
	var out Dashboard
	err := c.fetch(ctx, PathDashboard, &out)
	return out, err
}

func (c *Client) Customers(ctx context.Context) ([]Customer, error) {
	var out []Customer
	err := c.fetch(ctx, PathCustomers, &out)
	return out, err
}

func (c *Client) Products(ctx context.Context) ([]Product, error) {
	var out []Product
	err := c.fetch(ctx, PathProducts, &out)
	return out, err
}

func (c *Client) Licenses(ctx context.Context) ([]License, error) {
	var out []License
	err := c.fetch(ctx, PathLicenses, &out)
	return out, err
}

func (c *Client) Rules(ctx context.Context) ([]Rule, error) {
	var out []Rule
	err := c.fetch(ctx, PathRules, &out)
	return out, err
}

func (c *Client) SecurityEvents(ctx context.Context) ([]SecurityEvent, error) {
	var out []SecurityEvent
	err := c.fetch(ctx, PathSecurityEvents, &out)
	return out, err
}

// CreateCustomer returns the server's confirmation message, if any.
func (c *Client) CreateCustomer(ctx context.Context, in NewCustomer) (string, error) {
	return c.create(ctx, PathCustomers, in)
}

// CreateProduct returns the server's confirmation message, if any.
func (c *Client) CreateProduct(ctx context.Context, in NewProduct) (string, error) {
	if in.Rules == nil {
		in.Rules = []string{}
	}
	return c.create(ctx, PathProducts, in)
}

func (c *Client) fetch(ctx context.Context, path string, out interface{}) error {
	env, err := c.Call(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if err := env.Err(path); err != nil {
		return err
	}
	if err := env.Decode(out); err != nil {
		return &TransportError{Method: http.MethodGet, Path: path, Err: err}
	}
	return nil
}

func (c *Client) create(ctx context.Context, path string, body interface{}) (string, error) {
	env, err := c.Call(ctx, http.MethodPost, path, body)
	if err != nil {
		return "", err
	}
	if err := env.Err(path); err != nil {
		return "", err
	}
	return env.Message, nil
}
