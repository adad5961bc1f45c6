package server

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/vango-dev/loginform/pkg/protocol"
	"github.com/vango-dev/loginform/pkg/render"
	"github.com/vango-dev/loginform/pkg/vdom"
)

// Paths served by the framework.
const (
	SocketPath = "/_login/ws"
	ClientPath = "/_login/client.js"
	HealthPath = "/healthz"
)

// Server serves a single root component: the page at "/" and one
// session per WebSocket connection.
type Server struct {
	config   *ServerConfig
	logger   *slog.Logger
	renderer *render.Renderer
	upgrader websocket.Upgrader
	observer Observer

	rootFactory    func() vdom.Component
	middleware     []func(http.Handler) http.Handler
	metricsHandler http.Handler
	styles         []string

	handlerOnce sync.Once
	handler     http.Handler

	mu       sync.Mutex
	sessions map[string]*Session

	httpServer   *http.Server
	shuttingDown atomic.Bool
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithObserver sets the observer installed on every session.
func WithObserver(o Observer) Option {
	return func(s *Server) {
		if o != nil {
			s.observer = o
		}
	}
}

// WithMiddleware appends HTTP middleware applied to every route.
func WithMiddleware(mw ...func(http.Handler) http.Handler) Option {
	return func(s *Server) {
		s.middleware = append(s.middleware, mw...)
	}
}

// WithMetricsHandler exposes h at /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metricsHandler = h
	}
}

// WithStyles adds inline CSS to the page head.
func WithStyles(css ...string) Option {
	return func(s *Server) {
		s.styles = append(s.styles, css...)
	}
}

// New creates a server. A nil config uses DefaultServerConfig.
func New(config *ServerConfig, opts ...Option) *Server {
	if config == nil {
		config = DefaultServerConfig()
	}
	config = config.Clone()
	if config.CheckOrigin == nil {
		config.CheckOrigin = SameOriginCheck
	}
	if config.SessionConfig == nil {
		config.SessionConfig = DefaultSessionConfig()
	}

	s := &Server{
		config:   config,
		logger:   slog.Default(),
		renderer: render.NewRenderer(render.RendererConfig{}),
		observer: nopObserver{},
		sessions: make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "server")
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  config.ReadBufferSize,
		WriteBufferSize: config.WriteBufferSize,
		CheckOrigin:     config.CheckOrigin,
	}
	return s
}

// SetRootComponent sets the factory creating the component mounted in
// every session. Must be called before serving.
func (s *Server) SetRootComponent(factory func() vdom.Component) {
	s.rootFactory = factory
}

// Config returns the server configuration.
func (s *Server) Config() *ServerConfig {
	return s.config
}

// Handler returns the HTTP handler for all framework routes.
func (s *Server) Handler() http.Handler {
	s.handlerOnce.Do(func() {
		r := chi.NewRouter()
		r.Use(chimw.RequestID)
		r.Use(chimw.Recoverer)
		for _, mw := range s.middleware {
			r.Use(mw)
		}

		r.Get("/", s.HandlePage)
		r.Get(SocketPath, s.HandleWebSocket)
		r.Method(http.MethodGet, ClientPath, http.HandlerFunc(s.serveClient))
		r.Method(http.MethodHead, ClientPath, http.HandlerFunc(s.serveClient))
		r.Get(HealthPath, s.handleHealth)
		if s.metricsHandler != nil {
			r.Method(http.MethodGet, "/metrics", s.metricsHandler)
		}
		s.handler = r
	})
	return s.handler
}

// HandlePage renders the root component server-side inside the page shell.
func (s *Server) HandlePage(w http.ResponseWriter, r *http.Request) {
	if s.rootFactory == nil {
		http.Error(w, ErrNoRootComponent.Error(), http.StatusInternalServerError)
		return
	}

	// Render through a connectionless session so the markup carries the
	// same hydration IDs the live session will assign.
	session := NewSession(s.rootFactory(), nil, s.config.SessionConfig, s.logger)
	defer session.Close()
	if err := session.Mount(); err != nil {
		s.logger.Error("page render failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	err := s.renderer.RenderPage(&buf, render.PageData{
		Title:        s.config.Title,
		Styles:       s.styles,
		Body:         session.Tree(),
		ClientScript: ClientPath,
		SocketPath:   SocketPath,
	})
	if err != nil {
		s.logger.Error("page render failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}

// HandleWebSocket upgrades the connection and runs a session on it.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.rootFactory == nil {
		http.Error(w, ErrNoRootComponent.Error(), http.StatusInternalServerError)
		return
	}
	if s.shuttingDown.Load() {
		http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
		return
	}
	if limit := s.config.MaxSessions; limit > 0 && s.SessionCount() >= limit {
		s.logger.Warn("session rejected", "error", ErrMaxSessionsReached, "max", limit)
		http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	session := NewSession(s.rootFactory(), conn, s.config.SessionConfig, s.logger)
	session.SetObserver(s.observer)
	if err := session.Mount(); err != nil {
		s.logger.Error("mount failed", "session_id", session.ID, "error", err)
		session.Close()
		return
	}

	s.register(session)
	defer s.unregister(session)

	s.logger.Info("session started", "session_id", session.ID, "remote", r.RemoteAddr)
	session.Start()
}

func (s *Server) register(session *Session) {
	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()
}

func (s *Server) unregister(session *Session) {
	s.mu.Lock()
	delete(s.sessions, session.ID)
	s.mu.Unlock()
}

// SessionCount returns the number of live sessions.
func (s *Server) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.shuttingDown.Load() {
		http.Error(w, "shutting down", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

// Run listens on the configured address and serves until Shutdown.
func (s *Server) Run() error {
	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve serves on ln until Shutdown.
func (s *Server) Serve(ln net.Listener) error {
	s.mu.Lock()
	if s.shuttingDown.Load() {
		s.mu.Unlock()
		ln.Close()
		return nil
	}
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv := s.httpServer
	s.mu.Unlock()

	s.logger.Info("listening", "address", ln.Addr().String())
	err := srv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting connections and closes every session.
func (s *Server) Shutdown(ctx context.Context) error {
	s.shuttingDown.Store(true)

	s.mu.Lock()
	srv := s.httpServer
	sessions := make([]*Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		sessions = append(sessions, session)
	}
	s.mu.Unlock()

	s.logger.Info("shutting down", "sessions", len(sessions))
	for _, session := range sessions {
		session.CloseWithReason(protocol.CloseServerShutdown, "server shutting down")
	}

	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}
