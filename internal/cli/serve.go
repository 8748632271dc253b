package cli

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/subcommands"

	"github.com/ndewijer/papertrade/internal/api"
)

const shutdownTimeout = 30 * time.Second

// serveCmd holds the flags for the 'serve' subcommand.
type serveCmd struct {
	app  *App
	addr string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the HTTP API" }
func (*serveCmd) Usage() string {
	return `papertrade serve [-addr <host:port>]

  Serves the JSON API until interrupted. Trades require a session token from
  POST /api/session, sent as "Authorization: Bearer <token>".
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", c.app.Config.Server.Addr, "listen address")
}

func (c *serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	log := c.app.Log

	svc, err := c.app.Services(ctx)
	if err != nil {
		return c.app.fail("opening ledger", err)
	}
	sessions, err := c.app.Sessions()
	if err != nil {
		return c.app.fail("loading session key", err)
	}

	server := &http.Server{
		Addr:         c.addr,
		Handler:      api.NewRouter(*svc, sessions, c.app.Config, log),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", c.addr).Msg("Starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return c.app.fail("starting server", err)
		}
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return c.app.fail("shutting down server", err)
	}

	log.Info().Msg("Server exited")
	return subcommands.ExitSuccess
}
