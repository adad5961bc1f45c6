package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/vango-dev/loginform/pkg/graphql"
	"github.com/vango-dev/loginform/pkg/server"
)

// MetricsConfig configures NewMetrics.
type MetricsConfig struct {
	Namespace string // default "loginform"

	// Buckets are used by the latency histograms. Default prometheus.DefBuckets.
	Buckets []float64

	// Registry defaults to prometheus.DefaultRegisterer.
	Registry prometheus.Registerer
}

type MetricsOption func(*MetricsConfig)

func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) { c.Namespace = namespace }
}

func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) { c.Buckets = buckets }
}

// WithRegistry registers the metrics with r instead of the default
// registerer. Tests pass a fresh prometheus.NewRegistry.
func WithRegistry(r prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) { c.Registry = r }
}

// Metrics is the Prometheus instrumentation of the login form server:
// session lifetimes, event handling, render frames, GraphQL mutations and
// HTTP requests. It implements server.Observer.
type Metrics struct {
	activeSessions   prometheus.Gauge
	sessionDuration  prometheus.Histogram
	eventsTotal      *prometheus.CounterVec
	eventDuration    *prometheus.HistogramVec
	rendersSent      prometheus.Counter
	renderBytes      prometheus.Histogram
	mutationsTotal   *prometheus.CounterVec
	mutationDuration *prometheus.HistogramVec
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
}

var _ server.Observer = (*Metrics)(nil)

var (
	sessionBuckets = []float64{1, 10, 60, 300, 1800, 3600}
	renderBuckets  = prometheus.ExponentialBuckets(256, 4, 5) // 256B to 64KiB
)

// NewMetrics creates and registers the metrics. Registering twice with
// the same registry panics.
func NewMetrics(opts ...MetricsOption) *Metrics {
	cfg := MetricsConfig{
		Namespace: "loginform",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	f := promauto.With(cfg.Registry)
	counter := func(name, help string) prometheus.CounterOpts {
		return prometheus.CounterOpts{Namespace: cfg.Namespace, Name: name, Help: help}
	}
	histogram := func(name, help string, buckets []float64) prometheus.HistogramOpts {
		return prometheus.HistogramOpts{Namespace: cfg.Namespace, Name: name, Help: help, Buckets: buckets}
	}

	return &Metrics{
		activeSessions: f.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Name:      "active_sessions",
			Help:      "Open WebSocket sessions.",
		}),
		sessionDuration: f.NewHistogram(histogram("session_duration_seconds",
			"Lifetime of closed sessions.", sessionBuckets)),
		eventsTotal: f.NewCounterVec(counter("events_total",
			"Client events processed, by type and status."), []string{"type", "status"}),
		eventDuration: f.NewHistogramVec(histogram("event_duration_seconds",
			"Event handler latency.", cfg.Buckets), []string{"type"}),
		rendersSent: f.NewCounter(counter("renders_sent_total",
			"Render frames sent to clients.")),
		renderBytes: f.NewHistogram(histogram("render_bytes",
			"Size of rendered HTML.", renderBuckets)),
		mutationsTotal: f.NewCounterVec(counter("mutations_total",
			"GraphQL mutations, by operation and outcome."), []string{"operation", "outcome"}),
		mutationDuration: f.NewHistogramVec(histogram("mutation_duration_seconds",
			"GraphQL mutation latency.", cfg.Buckets), []string{"operation"}),
		httpRequests: f.NewCounterVec(counter("http_requests_total",
			"HTTP requests, by method, route and status code."), []string{"method", "route", "code"}),
		httpDuration: f.NewHistogramVec(histogram("http_request_duration_seconds",
			"HTTP request latency.", cfg.Buckets), []string{"method", "route"}),
	}
}

func (m *Metrics) SessionOpened() { m.activeSessions.Inc() }

func (m *Metrics) SessionClosed(lifetime time.Duration) {
	m.activeSessions.Dec()
	m.sessionDuration.Observe(lifetime.Seconds())
}

// EventHandled counts every event and times the ones that succeeded.
func (m *Metrics) EventHandled(eventType string, d time.Duration, err error) {
	m.eventsTotal.WithLabelValues(eventType, eventStatus(err)).Inc()
	if err == nil {
		m.eventDuration.WithLabelValues(eventType).Observe(d.Seconds())
	}
}

func (m *Metrics) RenderSent(bytes int) {
	m.rendersSent.Inc()
	m.renderBytes.Observe(float64(bytes))
}

// eventStatus maps an event error to a low-cardinality label.
func eventStatus(err error) string {
	var herr *server.HandlerError
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, server.ErrHandlerNotFound):
		return "not_found"
	case errors.As(err, &herr):
		return "panic"
	default:
		return "error"
	}
}

// HTTP counts and times requests, labelled by chi route pattern.
func (m *Metrics) HTTP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		route := routePattern(r)
		m.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(responseStatus(ww))).Inc()
		m.httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// routePattern returns the matched route or "unmatched", keeping the
// route label bounded.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}

// InstrumentClient counts and times every mutation sent through c,
// labelled by operation name.
func (m *Metrics) InstrumentClient(c graphql.Client) graphql.Client {
	return graphql.ClientFunc(func(ctx context.Context, doc *graphql.Document, variables map[string]any) *graphql.Result {
		start := time.Now()
		res := c.ExecuteMutation(ctx, doc, variables)

		op := doc.String()
		m.mutationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
		m.mutationsTotal.WithLabelValues(op, mutationOutcome(ctx, res)).Inc()
		return res
	})
}

func mutationOutcome(ctx context.Context, res *graphql.Result) string {
	switch {
	case res == nil || res.Error == nil:
		return "success"
	case ctx.Err() != nil:
		return "canceled"
	case res.Error.NetworkError != nil:
		return "network_error"
	default:
		return "graphql_error"
	}
}
