package devapi

import (
	"context"
	"crypto/subtle"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/graph-gophers/graphql-go"
	gqlotel "github.com/graph-gophers/graphql-go/trace/otel"
	"github.com/graph-gophers/graphql-go/relay"

	lferrors "github.com/vango-dev/loginform/internal/errors"
)

//go:embed schema.graphql
var schemaSDL string

// Path is where the GraphQL endpoint is mounted.
const Path = "/graphql"

// ErrInvalidCredentials is returned for an unknown user or a wrong password.
var ErrInvalidCredentials = errors.New("invalid username or password")

// API is an in-memory GraphQL API serving the login mutation.
type API struct {
	users    map[string]string
	logger   *slog.Logger
	newToken func() string
	schema   *graphql.Schema

	mu     sync.RWMutex
	tokens map[string]string
}

// Option configures an API.
type Option func(*API)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(a *API) {
		a.logger = l
	}
}

// WithTokenGenerator replaces the random token source.
func WithTokenGenerator(fn func() string) Option {
	return func(a *API) {
		a.newToken = fn
	}
}

// New builds an API accepting the given username to password table.
func New(users map[string]string, opts ...Option) (*API, error) {
	a := &API{
		users:    users,
		logger:   slog.Default(),
		newToken: uuid.NewString,
		tokens:   make(map[string]string),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = a.logger.With("component", "devapi")

	schema, err := graphql.ParseSchema(schemaSDL, &resolver{api: a},
		graphql.UseStringDescriptions(),
		graphql.MaxDepth(8),
		graphql.Tracer(gqlotel.DefaultTracer()),
	)
	if err != nil {
		return nil, lferrors.New("E401").Wrap(err)
	}
	a.schema = schema
	return a, nil
}

// Handler serves the GraphQL endpoint at Path and a health check at
// /healthz.
func (a *API) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Post(Path, (&relay.Handler{Schema: a.schema}).ServeHTTP)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return r
}

// Usernames returns the accepted usernames, sorted.
func (a *API) Usernames() []string {
	names := make([]string, 0, len(a.users))
	for name := range a.users {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Login checks credentials and issues a new token.
func (a *API) Login(ctx context.Context, username, password string) (string, error) {
	want, ok := a.users[username]
	if !ok || subtle.ConstantTimeCompare([]byte(want), []byte(password)) != 1 {
		a.logger.InfoContext(ctx, "login rejected", "username", username)
		return "", ErrInvalidCredentials
	}

	token := a.newToken()
	a.mu.Lock()
	a.tokens[token] = username
	a.mu.Unlock()

	a.logger.InfoContext(ctx, "login accepted", "username", username)
	return token, nil
}

// Viewer returns the user a token was issued to.
func (a *API) Viewer(token string) (string, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	name, ok := a.tokens[token]
	return name, ok
}

// ParseUsers parses "username:password" pairs. Later pairs for the same
// username win.
func ParseUsers(pairs []string) (map[string]string, error) {
	users := make(map[string]string, len(pairs))
	for _, p := range pairs {
		name, password, ok := strings.Cut(p, ":")
		if !ok || name == "" {
			return nil, lferrors.New("E104").Wrap(fmt.Errorf("%q", p))
		}
		users[name] = password
	}
	return users, nil
}

type resolver struct {
	api *API
}

type loginInput struct {
	Username string
	Password string
}

func (r *resolver) Login(ctx context.Context, args struct{ Data loginInput }) (*payloadResolver, error) {
	token, err := r.api.Login(ctx, args.Data.Username, args.Data.Password)
	if err != nil {
		return nil, err
	}
	return &payloadResolver{token: token}, nil
}

func (r *resolver) Viewer(args struct{ Token string }) *userResolver {
	name, ok := r.api.Viewer(args.Token)
	if !ok {
		return nil
	}
	return &userResolver{username: name}
}

type payloadResolver struct {
	token string
}

func (p *payloadResolver) Token() string { return p.token }

type userResolver struct {
	username string
}

func (u *userResolver) Username() string { return u.username }
