// Package metrics holds the Prometheus collectors the client exposes when a
// metrics address is configured.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "license_admin"

// Recorder groups the client's collectors behind a private registry.
type Recorder struct {
	registry    *prometheus.Registry
	apiRequests *prometheus.CounterVec
	logins      *prometheus.CounterVec
	shellBuilds prometheus.Counter
}

// New registers a fresh set of collectors.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Requests issued against the licensing API.",
		}, []string{"method", "path", "outcome"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Login attempts by outcome.",
		}, []string{"outcome"}),
		shellBuilds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shell_builds_total",
			Help:      "Times the application shell was constructed.",
		}),
	}
	r.registry.MustRegister(r.apiRequests, r.logins, r.shellBuilds)
	return r
}

// ObserveRequest counts one API call. outcome is "ok", "error" or an HTTP
// status class such as "4xx".
func (r *Recorder) ObserveRequest(method, path, outcome string) {
	if r == nil {
		return
	}
	r.apiRequests.WithLabelValues(method, path, outcome).Inc()
}

// ObserveLogin counts one login attempt.
func (r *Recorder) ObserveLogin(success bool) {
	if r == nil {
		return
	}
	outcome := "failure"
	if success {
		outcome = "success"
	}
	r.logins.WithLabelValues(outcome).Inc()
}

// ObserveShellBuild counts one shell construction.
func (r *Recorder) ObserveShellBuild() {
	if r == nil {
		return
	}
	r.shellBuilds.Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (r *Recorder) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Gatherer exposes the private registry.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}
