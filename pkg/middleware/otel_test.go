package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func newRecorder(t *testing.T) (*tracetest.SpanRecorder, trace.TracerProvider) {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return sr, tp
}

func spanAttr(span sdktrace.ReadOnlySpan, key attribute.Key) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestOpenTelemetry(t *testing.T) {
	sr, tp := newRecorder(t)

	var inner trace.SpanContext
	r := chi.NewRouter()
	r.Use(OpenTelemetry(
		WithTracerProvider(tp),
		WithAttributeExtractor(func(*http.Request) []attribute.KeyValue {
			return []attribute.KeyValue{attribute.String("test.attr", "ok")}
		}),
	))
	r.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		inner = trace.SpanContextFromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
	})
	r.Get("/fail", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/9", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/fail", nil))

	spans := sr.Ended()
	if len(spans) != 2 {
		t.Fatalf("ended spans = %d, want 2", len(spans))
	}

	span := spans[0]
	if span.Name() != "HTTP GET /items/{id}" {
		t.Errorf("span name = %q", span.Name())
	}
	if span.SpanKind() != trace.SpanKindServer {
		t.Errorf("span kind = %v, want server", span.SpanKind())
	}
	if !inner.IsValid() || inner.SpanID() != span.SpanContext().SpanID() {
		t.Error("handler context does not carry the request span")
	}
	if v, ok := spanAttr(span, "http.status_code"); !ok || v.AsInt64() != http.StatusTeapot {
		t.Errorf("http.status_code = %v, %v", v.AsInt64(), ok)
	}
	if v, ok := spanAttr(span, "test.attr"); !ok || v.AsString() != "ok" {
		t.Errorf("test.attr = %q, %v", v.AsString(), ok)
	}
	if span.Status().Code == codes.Error {
		t.Error("4xx span marked as error")
	}

	if spans[1].Status().Code != codes.Error {
		t.Errorf("5xx span status = %v, want error", spans[1].Status().Code)
	}
}

func TestOpenTelemetryFilter(t *testing.T) {
	sr, tp := newRecorder(t)

	h := OpenTelemetry(
		WithTracerProvider(tp),
		WithRequestFilter(SkipPaths("/healthz")),
	)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if n := len(sr.Ended()); n != 0 {
		t.Fatalf("filtered request produced %d spans", n)
	}

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	spans := sr.Ended()
	if len(spans) != 1 {
		t.Fatalf("ended spans = %d, want 1", len(spans))
	}
	// Outside a chi router the route is unknown.
	if spans[0].Name() != "HTTP GET unmatched" {
		t.Errorf("span name = %q", spans[0].Name())
	}
}

func TestOpenTelemetryPropagation(t *testing.T) {
	sr, tp := newRecorder(t)

	parent, parentSpan := tp.Tracer("client").Start(context.Background(), "outgoing")
	parentSpan.End()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	prop := propagation.TraceContext{}
	prop.Inject(parent, propagation.HeaderCarrier(req.Header))

	h := OpenTelemetry(WithTracerProvider(tp), WithPropagator(prop))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	h.ServeHTTP(httptest.NewRecorder(), req)

	spans := sr.Ended()
	if len(spans) != 2 {
		t.Fatalf("ended spans = %d, want 2", len(spans))
	}
	server := spans[1]
	if server.Parent().SpanID() != parentSpan.SpanContext().SpanID() {
		t.Error("server span is not a child of the propagated span")
	}
	if server.SpanContext().TraceID() != parentSpan.SpanContext().TraceID() {
		t.Error("server span did not continue the trace")
	}
}
