// Package metrics exposes the server's Prometheus metrics.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophgate/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	GRPCRequestsTotal   *prometheus.CounterVec
	GRPCRequestDuration *prometheus.HistogramVec

	AuthFailuresTotal *prometheus.CounterVec
	LoginsTotal       *prometheus.CounterVec

	PasscodeRotationsTotal    prometheus.Counter
	VerificationsRevokedTotal prometheus.Counter

	registry *prometheus.Registry
}

// NewMetrics creates the metrics and registers them on registry. A nil
// registry gets a fresh one with the Go and process collectors.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	m := &Metrics{
		GRPCRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gophgate_grpc_requests_total",
				Help: "Total number of gRPC requests",
			},
			[]string{"method", "code"},
		),
		GRPCRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gophgate_grpc_request_duration_seconds",
				Help:    "gRPC request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		AuthFailuresTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gophgate_auth_failures_total",
				Help: "Requests refused by the authorization gate, by required level",
			},
			[]string{"level"},
		),
		LoginsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gophgate_logins_total",
				Help: "Login attempts by result",
			},
			[]string{"result"},
		),
		PasscodeRotationsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gophgate_passcode_rotations_total",
			Help: "Completed passcode rotations",
		}),
		VerificationsRevokedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gophgate_verifications_revoked_total",
			Help: "User verifications revoked by passcode rotations",
		}),
		registry: registry,
	}

	registry.MustRegister(
		m.GRPCRequestsTotal,
		m.GRPCRequestDuration,
		m.AuthFailuresTotal,
		m.LoginsTotal,
		m.PasscodeRotationsTotal,
		m.VerificationsRevokedTotal,
	)
	return m
}

func (m *Metrics) ObserveRequest(method, code string, d time.Duration) {
	m.GRPCRequestsTotal.WithLabelValues(method, code).Inc()
	m.GRPCRequestDuration.WithLabelValues(method).Observe(d.Seconds())
}

func (m *Metrics) AuthFailure(level string) {
	m.AuthFailuresTotal.WithLabelValues(level).Inc()
}

func (m *Metrics) Login(ok bool) {
	result := "failure"
	if ok {
		result = "success"
	}
	m.LoginsTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) PasscodeRotated(revoked int64) {
	m.PasscodeRotationsTotal.Inc()
	m.VerificationsRevokedTotal.Add(float64(revoked))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RegisterMetricsEndpoint registers the /metrics endpoint
func (m *Metrics) RegisterMetricsEndpoint(mux *http.ServeMux) {
	mux.Handle("/metrics", m.Handler())
}

// Serve runs an HTTP listener for /metrics until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string, logger logging.Logger) error {
	mux := http.NewServeMux()
	m.RegisterMetricsEndpoint(mux)

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		logger.Info(ctx, "Stopping metrics server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info(ctx, "Starting metrics server", "address", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

