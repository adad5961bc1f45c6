package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/vango-dev/loginform/pkg/graphql"
	"github.com/vango-dev/loginform/pkg/server"
)

func newTestMetrics(t *testing.T) *Metrics {
	t.Helper()
	return NewMetrics(WithRegistry(prometheus.NewRegistry()))
}

func metricHistogramCount(t *testing.T, o prometheus.Observer) uint64 {
	t.Helper()
	metric, ok := o.(prometheus.Metric)
	if !ok {
		t.Fatalf("observer %T does not implement prometheus.Metric", o)
	}
	var m dto.Metric
	if err := metric.Write(&m); err != nil {
		t.Fatalf("histogram Write() error: %v", err)
	}
	if m.Histogram == nil {
		t.Fatal("expected histogram metric to have Histogram field")
	}
	return m.GetHistogram().GetSampleCount()
}

func TestMetricsSessions(t *testing.T) {
	m := newTestMetrics(t)

	m.SessionOpened()
	m.SessionOpened()
	m.SessionClosed(3 * time.Second)

	if got := testutil.ToFloat64(m.activeSessions); got != 1 {
		t.Errorf("active_sessions = %v, want 1", got)
	}
	if got := metricHistogramCount(t, m.sessionDuration); got != 1 {
		t.Errorf("session_duration count = %d, want 1", got)
	}
}

func TestMetricsEvents(t *testing.T) {
	m := newTestMetrics(t)

	m.EventHandled("input", time.Millisecond, nil)
	m.EventHandled("input", time.Millisecond, nil)
	m.EventHandled("submit", 0, server.ErrHandlerNotFound)
	m.EventHandled("click", 0, &server.HandlerError{HID: "h1", Panic: "boom"})
	m.EventHandled("dispatch", 0, errors.New("other"))

	tests := []struct {
		eventType, status string
		want              float64
	}{
		{"input", "success", 2},
		{"submit", "not_found", 1},
		{"click", "panic", 1},
		{"dispatch", "error", 1},
		{"input", "error", 0},
	}
	for _, tt := range tests {
		got := testutil.ToFloat64(m.eventsTotal.WithLabelValues(tt.eventType, tt.status))
		if got != tt.want {
			t.Errorf("events_total{%s,%s} = %v, want %v", tt.eventType, tt.status, got, tt.want)
		}
	}
	if got := metricHistogramCount(t, m.eventDuration.WithLabelValues("input")); got != 2 {
		t.Errorf("event_duration{input} count = %d, want 2", got)
	}
}

func TestMetricsRenders(t *testing.T) {
	m := newTestMetrics(t)
	m.RenderSent(512)
	m.RenderSent(1024)

	if got := testutil.ToFloat64(m.rendersSent); got != 2 {
		t.Errorf("renders_sent_total = %v, want 2", got)
	}
	if got := metricHistogramCount(t, m.renderBytes); got != 2 {
		t.Errorf("render_bytes count = %d, want 2", got)
	}
}

func TestMetricsHTTP(t *testing.T) {
	m := newTestMetrics(t)

	r := chi.NewRouter()
	r.Use(m.HTTP)
	r.Get("/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})

	for _, path := range []string{"/users/1", "/users/2", "/missing"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	if got := testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/users/{id}", "202")); got != 2 {
		t.Errorf("http_requests_total{/users/{id}} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "unmatched", "404")); got != 1 {
		t.Errorf("http_requests_total{unmatched} = %v, want 1", got)
	}
}

func TestInstrumentClient(t *testing.T) {
	doc := graphql.MustParse(`mutation Ping { ping }`)

	tests := []struct {
		name    string
		result  *graphql.Result
		cancel  bool
		outcome string
	}{
		{"success", graphql.DataResult(map[string]any{"ping": true}), false, "success"},
		{"graphql error", graphql.ErrorResult(graphql.NewGraphQLError("nope")), false, "graphql_error"},
		{"network error", graphql.ErrorResult(graphql.NewNetworkError(errors.New("refused"))), false, "network_error"},
		{"canceled", graphql.ErrorResult(graphql.NewNetworkError(context.Canceled)), true, "canceled"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMetrics(t)
			calls := 0
			client := m.InstrumentClient(graphql.ClientFunc(
				func(ctx context.Context, d *graphql.Document, vars map[string]any) *graphql.Result {
					calls++
					return tt.result
				}))

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			if tt.cancel {
				cancel()
			}

			if res := client.ExecuteMutation(ctx, doc, nil); res != tt.result {
				t.Fatal("InstrumentClient did not return the inner result")
			}
			if calls != 1 {
				t.Fatalf("inner client calls = %d, want 1", calls)
			}
			if got := testutil.ToFloat64(m.mutationsTotal.WithLabelValues("Ping", tt.outcome)); got != 1 {
				t.Errorf("mutations_total{Ping,%s} = %v, want 1", tt.outcome, got)
			}
			if got := metricHistogramCount(t, m.mutationDuration.WithLabelValues("Ping")); got != 1 {
				t.Errorf("mutation_duration count = %d, want 1", got)
			}
		})
	}
}
