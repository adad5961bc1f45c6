// Package middleware provides observability for the login server.
//
// This package includes:
//   - OpenTelemetry HTTP tracing middleware
//   - Prometheus metrics for sessions, events, mutations and HTTP requests
//
// # OpenTelemetry Middleware
//
// OpenTelemetry traces every HTTP request with a server span named after
// the matched chi route. The span is stored in the request context, so
// handlers and outgoing clients inherit it:
//
//	srv := server.New(cfg, server.WithMiddleware(
//	    middleware.OpenTelemetry(
//	        middleware.WithRequestFilter(middleware.SkipPaths("/healthz", "/metrics")),
//	    ),
//	))
//
// # Prometheus Metrics
//
// Metrics is both HTTP middleware and a server.Observer. The GraphQL
// client is wrapped to count mutation outcomes:
//
//	m := middleware.NewMetrics()
//	client := m.InstrumentClient(graphql.NewHTTPClient(endpoint))
//	srv := server.New(cfg,
//	    server.WithObserver(m),
//	    server.WithMiddleware(m.HTTP),
//	    server.WithMetricsHandler(promhttp.Handler()),
//	)
package middleware
