package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticTokens struct {
	mu    sync.Mutex
	token string
}

func (s *staticTokens) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.token != ""
}

type recorded struct {
	method string
	path   string
	auth   string
	ctype  string
	reqID  string
	body   string
}

type fakeServer struct {
	mu       sync.Mutex
	requests []recorded
	handler  func(w http.ResponseWriter, r *http.Request)
}

func (f *fakeServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, recorded{
		method: r.Method,
		path:   r.URL.Path,
		auth:   r.Header.Get("Authorization"),
		ctype:  r.Header.Get("Content-Type"),
		reqID:  r.Header.Get("X-Request-ID"),
		body:   string(body),
	})
	f.mu.Unlock()
	f.handler(w, r)
}

func (f *fakeServer) last(t *testing.T) recorded {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.requests)
	return f.requests[len(f.requests)-1]
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T, handler func(w http.ResponseWriter, r *http.Request), tokens TokenSource) (*Client, *fakeServer) {
	t.Helper()
	fake := &fakeServer{handler: handler}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	c, err := New(Options{BaseURL: srv.URL + "/api", Timeout: 2 * time.Second, Tokens: tokens})
	require.NoError(t, err)
	return c, fake
}

func TestNewRejectsBadBaseURL(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
	_, err = New(Options{BaseURL: "ftp://example.com"})
	assert.Error(t, err)
}

func TestCallAttachesBearerAndOmitsBodyForGET(t *testing.T) {
	c, fake := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": []interface{}{}})
	}, &staticTokens{token: "tok-1"})

	env, err := c.Call(context.Background(), http.MethodGet, PathCustomers, map[string]string{"ignored": "x"})
	require.NoError(t, err)
	assert.True(t, env.Success)

	req := fake.last(t)
	assert.Equal(t, "/api/admin/customers", req.path)
	assert.Equal(t, "Bearer tok-1", req.auth)
	assert.Empty(t, req.body, "GET must not carry a body")
	assert.Empty(t, req.ctype)
	assert.NotEmpty(t, req.reqID)
}

func TestCallSendsJSONBodyForPOST(t *testing.T) {
	c, fake := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "Customer created"})
	}, &staticTokens{token: "tok-1"})

	msg, err := c.CreateCustomer(context.Background(), NewCustomer{Name: "Acme", Email: "ops@acme.test"})
	require.NoError(t, err)
	assert.Equal(t, "Customer created", msg)

	req := fake.last(t)
	assert.Equal(t, http.MethodPost, req.method)
	assert.Equal(t, "application/json", req.ctype)
	assert.JSONEq(t, `{"name":"Acme","email":"ops@acme.test"}`, req.body)
}

func TestCallWithoutTokenFailsBeforeNetwork(t *testing.T) {
	c, fake := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
	}, &staticTokens{})

	_, err := c.Call(context.Background(), http.MethodGet, PathDashboard, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoToken))
	assert.Empty(t, fake.requests)
}

func TestUnauthorizedMatchesSentinel(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]interface{}{"success": false, "message": "Token expired"})
	}, &staticTokens{token: "old"})

	_, err := c.Customers(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnauthorized))
	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, http.StatusUnauthorized, te.Status)
	assert.Equal(t, "Token expired", ServerMessage(err))
}

func TestServerErrorIsNotUnauthorized(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}, &staticTokens{token: "tok"})

	_, err := c.Licenses(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrUnauthorized))
}

func TestRejectedEnvelope(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": false, "message": "Email already exists"})
	}, &staticTokens{token: "tok"})

	_, err := c.CreateCustomer(context.Background(), NewCustomer{Name: "a", Email: "b"})
	var rejected *RejectedError
	require.True(t, errors.As(err, &rejected))
	assert.Equal(t, "Email already exists", ServerMessage(err))
}

func TestMalformedJSONIsTransportError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("<html>oops</html>"))
	}, &staticTokens{token: "tok"})

	_, err := c.Products(context.Background())
	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, http.StatusOK, te.Status)
}

func TestUnreachableServer(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	c, err := New(Options{BaseURL: url, Timeout: time.Second, Tokens: &staticTokens{token: "t"}})
	require.NoError(t, err)
	_, err = c.Dashboard(context.Background())
	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Zero(t, te.Status)
}

func TestDecodeListsAndMixedIDs(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/admin/customers":
			_, _ = w.Write([]byte(`{"success":true,"data":[{"id":7,"name":"Acme","email":"a@acme.test"},{"id":"c-8","name":"Globex","email":"g@globex.test"}]}`))
		case "/api/admin/dashboard":
			_, _ = w.Write([]byte(`{"success":true,"data":{"stats":{"total_customers":2,"active_licenses":5,"total_products":3,"validations_today":41},"system_health":{"avg_response_time":12.5}}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}, &staticTokens{token: "tok"})

	customers, err := c.Customers(context.Background())
	require.NoError(t, err)
	require.Len(t, customers, 2)
	assert.Equal(t, ID("7"), customers[0].ID)
	assert.Equal(t, ID("c-8"), customers[1].ID)

	dash, err := c.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 41, dash.Stats.ValidationsToday)
	assert.Equal(t, 12.5, dash.SystemHealth.AvgResponseTime)
}

func TestLoginAndProbe(t *testing.T) {
	c, fake := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/admin/auth/login":
			var req LoginRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"success": true,
				"token":   "fresh",
				"admin":   map[string]interface{}{"username": "admin"},
			})
		case "/api/admin/dashboard":
			if r.Header.Get("Authorization") != "Bearer fresh" {
				writeJSON(w, http.StatusUnauthorized, map[string]interface{}{"success": false})
				return
			}
			writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": map[string]interface{}{}})
		}
	}, &staticTokens{})

	resp, err := c.Login(context.Background(), "admin", "secret")
	require.NoError(t, err)
	assert.Equal(t, "fresh", resp.Token)
	assert.Equal(t, "admin", resp.Admin.Username)
	login := fake.requests[0]
	assert.Empty(t, login.auth, "login must not send a bearer token")
	assert.JSONEq(t, `{"username":"admin","password":"secret"}`, login.body)

	assert.NoError(t, c.Probe(context.Background(), "fresh"))
	assert.Error(t, c.Probe(context.Background(), "stale"))
}

func TestLoginFailureCarriesMessage(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]interface{}{"success": false, "message": "Invalid credentials"})
	}, nil)

	_, err := c.Login(context.Background(), "admin", "wrongpass")
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", ServerMessage(err))
}

func TestProbeAcceptsAnySuccessStatus(t *testing.T) {
	answers := []func(w http.ResponseWriter){
		func(w http.ResponseWriter) { w.WriteHeader(http.StatusNoContent) },
		func(w http.ResponseWriter) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html>ok</html>"))
		},
		func(w http.ResponseWriter) { _, _ = w.Write([]byte(`{"success":true}`)) },
	}
	for i, answer := range answers {
		answer := answer
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			answer(w)
		}, nil)
		assert.NoError(t, c.Probe(context.Background(), "tok"), "answer %d", i)
	}
}

func TestProbeRejectsNonSuccessStatus(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}, nil)
	err := c.Probe(context.Background(), "tok")
	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, http.StatusForbidden, te.Status)
}

func TestIDRejectsObjectsAndArrays(t *testing.T) {
	var c Customer
	assert.Error(t, json.Unmarshal([]byte(`{"id":{"value":1},"name":"Acme"}`), &c))
	assert.Error(t, json.Unmarshal([]byte(`{"id":[1],"name":"Acme"}`), &c))
	assert.Error(t, json.Unmarshal([]byte(`{"id":true,"name":"Acme"}`), &c))

	require.NoError(t, json.Unmarshal([]byte(`{"id":12.5,"name":"Acme"}`), &c))
	assert.Equal(t, ID("12.5"), c.ID)
	require.NoError(t, json.Unmarshal([]byte(`{"id":null,"name":"Acme"}`), &c))
	assert.Equal(t, ID(""), c.ID)
}

func TestProductRulesAcceptNamesAndObjects(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"data":[` +
			`{"id":1,"name":"Widget","version":"1.0","rules":["trial",3]},` +
			`{"id":2,"name":"Gadget","version":"2.0","rules":[{"id":9,"name":"floating"},{"id":10}]},` +
			`{"id":3,"name":"Gizmo","version":"3.0","rules":null}]}`))
	}, &staticTokens{token: "tok"})

	products, err := c.Products(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, RuleRefs{"trial", "3"}, products[0].Rules)
	assert.Equal(t, RuleRefs{"floating", "10"}, products[1].Rules)
	assert.Empty(t, products[2].Rules)
}
