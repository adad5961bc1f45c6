package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/loginform/internal/config"
	"github.com/vango-dev/loginform/internal/devapi"
	lferrors "github.com/vango-dev/loginform/internal/errors"
)

func devapiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "devapi",
		Short: "Run a development GraphQL API with the login mutation",
		Long: `Run an in-memory GraphQL API at /graphql that accepts the login
mutation for a fixed set of users and issues random tokens.

Point "loginform serve" at it to try the form without a backend.

Examples:
  loginform devapi
  loginform devapi --user=alice:secret --user=bob:hunter2
  loginform serve --endpoint=http://localhost:3000/graphql`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runDevAPI(cmd, cfg)
		},
	}

	config.RegisterFlags(cmd.Flags(), "devapi-addr", "user")
	return cmd
}

func runDevAPI(cmd *cobra.Command, cfg *config.Config) error {
	logger := cfg.Log.NewLogger(os.Stderr)

	users, err := devapi.ParseUsers(cfg.DevAPI.Users)
	if err != nil {
		return err
	}
	api, err := devapi.New(users, devapi.WithLogger(logger))
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", cfg.DevAPI.Address)
	if err != nil {
		return lferrors.New("E201").Wrap(err).
			WithSuggestion("Pick a free port with --devapi-addr or LOGINFORM_DEVAPI_ADDRESS.")
	}

	srv := &http.Server{
		Handler:           api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	success("Dev GraphQL API on http://%s%s", ln.Addr(), devapi.Path)
	info("Users: %s", strings.Join(api.Usernames(), ", "))

	select {
	case err := <-errc:
		return lferrors.Wrap("E301", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return lferrors.New("E302").Wrap(err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return lferrors.Wrap("E301", err)
	}
	return nil
}
