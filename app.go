package loginform

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/loginform/internal/config"
	lferrors "github.com/vango-dev/loginform/internal/errors"
	"github.com/vango-dev/loginform/internal/login"
	"github.com/vango-dev/loginform/pkg/graphql"
	"github.com/vango-dev/loginform/pkg/middleware"
	"github.com/vango-dev/loginform/pkg/server"
	"github.com/vango-dev/loginform/pkg/vdom"
)

// MetricsPath is where Prometheus metrics are exposed when enabled.
const MetricsPath = "/metrics"

// App serves the login form: the page, one live session per browser tab,
// health and metrics.
//
//	cfg, _ := config.Load(config.Options{})
//	app, _ := loginform.New(cfg)
//	err := app.Run(ctx) // returns after ctx is done and shutdown finishes
type App struct {
	cfg      *config.Config
	logger   *slog.Logger
	server   *server.Server
	client   graphql.Client
	metrics  *middleware.Metrics
	registry *prometheus.Registry
}

// Option configures an App.
type Option func(*options)

type options struct {
	logger         *slog.Logger
	client         graphql.Client
	tracerProvider trace.TracerProvider
	registry       *prometheus.Registry
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithClient replaces the HTTP GraphQL client built from the config.
func WithClient(c graphql.Client) Option {
	return func(o *options) { o.client = c }
}

// WithTracerProvider sets the provider for HTTP and GraphQL client spans.
// Defaults to the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) { o.tracerProvider = tp }
}

// WithRegistry sets the registry metrics are registered with. Defaults to
// a fresh registry with Go and process collectors.
func WithRegistry(r *prometheus.Registry) Option {
	return func(o *options) { o.registry = r }
}

// New wires an App from cfg.
func New(cfg *config.Config, opts ...Option) (*App, error) {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.tracerProvider == nil {
		o.tracerProvider = otel.GetTracerProvider()
	}

	client := o.client
	if client == nil {
		headers, err := cfg.GraphQL.HeaderMap()
		if err != nil {
			return nil, lferrors.New("E103").Wrap(err)
		}
		httpOpts := []graphql.HTTPOption{
			graphql.WithTimeout(cfg.GraphQL.Timeout),
			graphql.WithTracerProvider(o.tracerProvider),
		}
		for name, value := range headers {
			httpOpts = append(httpOpts, graphql.WithHeader(name, value))
		}
		client = graphql.NewHTTPClient(cfg.GraphQL.Endpoint, httpOpts...)
	}

	a := &App{
		cfg:    cfg,
		logger: o.logger,
	}

	skip := []string{server.SocketPath, server.ClientPath, server.HealthPath}
	serverOpts := []server.Option{server.WithLogger(o.logger)}

	if cfg.Server.Metrics {
		a.registry = o.registry
		if a.registry == nil {
			a.registry = prometheus.NewRegistry()
			a.registry.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
		}
		a.metrics = middleware.NewMetrics(middleware.WithRegistry(a.registry))
		client = a.metrics.InstrumentClient(client)
		skip = append(skip, MetricsPath)
		serverOpts = append(serverOpts,
			server.WithObserver(a.metrics),
			server.WithMiddleware(a.metrics.HTTP),
			server.WithMetricsHandler(promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{})),
		)
	}

	serverOpts = append(serverOpts,
		server.WithMiddleware(middleware.OpenTelemetry(
			middleware.WithTracerProvider(o.tracerProvider),
			middleware.WithRequestFilter(middleware.SkipPaths(skip...)),
		)),
		server.WithStyles(pageCSS),
	)

	a.client = client
	a.server = server.New(cfg.ServerConfig(), serverOpts...)
	a.server.SetRootComponent(func() vdom.Component {
		return login.New(a.client)
	})
	return a, nil
}

// Handler returns the HTTP handler for every route.
func (a *App) Handler() http.Handler {
	return a.server.Handler()
}

// Server returns the underlying server.
func (a *App) Server() *server.Server {
	return a.server
}

// Run listens on the configured address and serves until ctx is done,
// then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.cfg.Server.Address)
	if err != nil {
		return lferrors.New("E201").Wrap(err)
	}
	return a.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	errc := make(chan error, 1)
	go func() { errc <- a.server.Serve(ln) }()

	select {
	case err := <-errc:
		if err != nil {
			return lferrors.New("E301").Wrap(err)
		}
		return nil
	case <-ctx.Done():
	}

	timeout := a.cfg.Server.ShutdownTimeout
	a.logger.Info("shutdown requested", "timeout", timeout, "sessions", a.server.SessionCount())
	start := time.Now()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return lferrors.New("E302").Wrap(err)
	}
	if err := <-errc; err != nil {
		return lferrors.New("E301").Wrap(err)
	}
	a.logger.Info("shutdown complete", "took", time.Since(start))
	return nil
}

const pageCSS = `body{font-family:system-ui,sans-serif;display:flex;justify-content:center;margin-top:10vh}
form{display:flex;flex-direction:column;gap:.75rem;min-width:16rem}
form div{display:flex;flex-direction:column;gap:.25rem}
input{padding:.4rem;font-size:1rem}
button{padding:.5rem;font-size:1rem;cursor:pointer}
p{color:#b00020;white-space:pre-line}`
