package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/vango-dev/loginform/pkg/graphql"

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 8 << 20

// HTTPClient executes operations against a GraphQL endpoint over HTTP POST.
type HTTPClient struct {
	endpoint string
	http     *http.Client
	headers  http.Header
	tracer   trace.Tracer
}

// HTTPOption configures an HTTPClient.
type HTTPOption func(*HTTPClient)

// WithHTTPClient replaces the pooled default *http.Client.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(h *HTTPClient) {
		h.http = c
	}
}

// WithTimeout sets a per-request timeout on the underlying *http.Client.
func WithTimeout(d time.Duration) HTTPOption {
	return func(h *HTTPClient) {
		h.http.Timeout = d
	}
}

// WithHeader adds a header sent with every request.
func WithHeader(key, value string) HTTPOption {
	return func(h *HTTPClient) {
		h.headers.Add(key, value)
	}
}

// WithTracerProvider sets the provider spans are created from.
// Defaults to the global provider.
func WithTracerProvider(tp trace.TracerProvider) HTTPOption {
	return func(h *HTTPClient) {
		h.tracer = tp.Tracer(tracerName)
	}
}

// NewHTTPClient creates a client bound to one endpoint URL.
func NewHTTPClient(endpoint string, opts ...HTTPOption) *HTTPClient {
	h := &HTTPClient{
		endpoint: endpoint,
		http:     cleanhttp.DefaultPooledClient(),
		headers:  make(http.Header),
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Endpoint returns the URL requests are sent to.
func (h *HTTPClient) Endpoint() string {
	return h.endpoint
}

// request is the JSON body of a GraphQL-over-HTTP POST.
type request struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName,omitempty"`
	Variables     map[string]any `json:"variables,omitempty"`
}

// response is the JSON body of a GraphQL response.
type response struct {
	Data       json.RawMessage `json:"data"`
	Errors     []*Error        `json:"errors"`
	Extensions map[string]any  `json:"extensions"`
}

// ExecuteMutation implements Client.
func (h *HTTPClient) ExecuteMutation(ctx context.Context, doc *Document, variables map[string]any) *Result {
	if doc.OperationType != OperationMutation {
		return ErrorResult(NewNetworkError(fmt.Errorf("%w: %s", ErrNotMutation, doc)))
	}
	return h.Execute(ctx, doc, variables)
}

// Execute runs any operation document.
func (h *HTTPClient) Execute(ctx context.Context, doc *Document, variables map[string]any) *Result {
	ctx, span := h.tracer.Start(ctx, "graphql."+doc.OperationType,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("graphql.operation.name", doc.OperationName),
			attribute.String("graphql.operation.type", doc.OperationType),
			attribute.String("server.address", h.endpoint),
		),
	)
	defer span.End()

	res := h.do(ctx, doc, variables, span)
	if res.Error != nil {
		span.SetAttributes(attribute.Int("graphql.error_count", len(res.Error.GraphQLErrors)))
		if res.Error.NetworkError != nil {
			span.RecordError(res.Error.NetworkError)
		}
		span.SetStatus(codes.Error, res.Error.Message())
	}
	return res
}

func (h *HTTPClient) do(ctx context.Context, doc *Document, variables map[string]any, span trace.Span) *Result {
	if err := doc.CheckVariables(variables); err != nil {
		return ErrorResult(NewNetworkError(err))
	}

	body, err := json.Marshal(request{
		Query:         doc.Source,
		OperationName: doc.OperationName,
		Variables:     variables,
	})
	if err != nil {
		return ErrorResult(NewNetworkError(fmt.Errorf("graphql: encode request: %w", err)))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, bytes.NewReader(body))
	if err != nil {
		return ErrorResult(NewNetworkError(err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/graphql-response+json, application/json")
	for key, values := range h.headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	resp, err := h.http.Do(req)
	if err != nil {
		return ErrorResult(NewNetworkError(err))
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return ErrorResult(NewNetworkError(fmt.Errorf("graphql: read response: %w", err)))
	}

	var parsed response
	if err := json.Unmarshal(raw, &parsed); err != nil || (parsed.Data == nil && parsed.Errors == nil) {
		// Not a GraphQL response at all.
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return ErrorResult(NewNetworkError(&HTTPError{StatusCode: resp.StatusCode, Status: resp.Status}))
		}
		if err == nil {
			err = ErrNoData
		}
		return ErrorResult(NewNetworkError(fmt.Errorf("graphql: decode response: %w", err)))
	}

	res := &Result{Data: parsed.Data, Extensions: parsed.Extensions}
	if len(parsed.Errors) > 0 {
		res.Error = &CombinedError{GraphQLErrors: parsed.Errors}
	}
	return res
}
