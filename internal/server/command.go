// Package server wires configuration, logging, the user store and the
// GraphQL route into a running HTTP server.
package server

import (
	"context"
	stderrs "errors"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/Station-Manager/errors"
	"github.com/Station-Manager/gqlkit/config"
	"github.com/Station-Manager/gqlkit/graphqlroute"
	"github.com/Station-Manager/gqlkit/internal/probe"
	"github.com/Station-Manager/gqlkit/logging"
	"github.com/Station-Manager/gqlkit/pgstore"
	"github.com/Station-Manager/gqlkit/reqctx"
)

const readHeaderTimeout = 10 * time.Second

// Options are the command line overrides for Run.
type Options struct {
	ConfigPath    string
	EnvFile       string
	ListenAddress string
}

// Run serves the GraphQL endpoint until ctx is cancelled, then shuts the
// server down within the configured timeout.
func Run(ctx context.Context, opts *Options) error {
	const op errors.Op = "server.Run"
	if opts == nil {
		opts = &Options{}
	}

	cfg, err := config.Load(config.Options{File: opts.ConfigPath, EnvFile: opts.EnvFile})
	if err != nil {
		return errors.New(op).Err(err).Msg("load settings")
	}
	if opts.ListenAddress != "" {
		cfg.Server.Addr = opts.ListenAddress
	}

	wd, err := os.Getwd()
	if err != nil {
		return errors.New(op).Err(err).Msg("working directory")
	}

	counter := &levelCounter{}
	svc := &logging.Service{WorkingDir: wd, Config: cfg}
	if err = svc.Initialize(); err != nil {
		return errors.New(op).Err(err).Msg("initialise logging")
	}
	defer func() { _ = svc.Close() }()
	svc.Hook(counter)

	log := svc.Logger().Child(logging.Fields{"service": "gqlkit"})

	resolve, closeStore, err := userResolver(ctx, cfg, log)
	if err != nil {
		log.LogError(err, nil, "Could not connect to the user store")
		return errors.New(op).Err(err).Msg("connect user store")
	}
	defer closeStore()

	handler, err := newHandler(cfg, log, resolve)
	if err != nil {
		return errors.New(op).Err(err).Msg("build route")
	}

	lc := net.ListenConfig{}
	lis, err := lc.Listen(ctx, "tcp", cfg.Server.Addr)
	if err != nil {
		return errors.New(op).Err(err).Msg("listen on " + cfg.Server.Addr)
	}

	srv := &http.Server{Handler: handler, ReadHeaderTimeout: readHeaderTimeout}

	log.InfoFields(logging.Fields{
		"listen_address": lis.Addr().String(),
		"endpoint":       cfg.Server.GraphQLEndpoint,
		"masked_errors":  cfg.MaskedErrors(),
		"environment":    cfg.Environment,
	}, "GraphQL server listening")

	if err = serve(ctx, srv, lis, log, cfg.Server.ShutdownTimeout); err != nil {
		return errors.New(op).Err(err).Msg("serve http")
	}

	log.InfoFields(counter.fields(), "GraphQL server stopped")
	return nil
}

// serve runs srv on lis until ctx is cancelled or Serve fails, and returns
// only once the shutdown goroutine has finished.
func serve(ctx context.Context, srv *http.Server, lis net.Listener, log *logging.Logger, timeout time.Duration) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		log.Info("Shutting down GraphQL server")

		shutdownCtx, stop := context.WithTimeout(context.Background(), timeout)
		defer stop()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.LogError(err, nil, "Graceful shutdown failed")
		}
	}()

	err := srv.Serve(lis)
	cancel()
	<-done
	if err != nil && !stderrs.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// newHandler builds the GraphQL route around the probe executor.
func newHandler(cfg *config.Config, log *logging.Logger, resolve reqctx.UserResolver) (http.Handler, error) {
	route, err := graphqlroute.New(graphqlroute.Options{
		Executor:       probe.New(),
		Endpoint:       cfg.Server.GraphQLEndpoint,
		ResolveUser:    resolve,
		MaskedErrors:   cfg.MaskedErrors(),
		LandingPage:    cfg.Server.LandingPage,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}, log)
	if err != nil {
		return nil, err
	}
	return route, nil
}

// userResolver connects the Postgres store when DATABASE_URL is set. Without
// it every request is anonymous.
func userResolver(ctx context.Context, cfg *config.Config, log *logging.Logger) (reqctx.UserResolver, func(), error) {
	if cfg.DatabaseURL == "" {
		log.Warn("No database configured, all requests are anonymous")
		return nil, func() {}, nil
	}

	pool, err := pgstore.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	store, err := pgstore.New(pool)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}
	return store.Resolve, pool.Close, nil
}
