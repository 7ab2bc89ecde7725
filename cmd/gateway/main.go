package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/tallyboard/gateway/app/dashboard"
	"github.com/tallyboard/gateway/core/config"
	"github.com/tallyboard/gateway/core/logger"
	"github.com/tallyboard/gateway/core/server"
	"github.com/tallyboard/gateway/integration/database/pg"
	"github.com/tallyboard/gateway/integration/database/redis"
	"github.com/tallyboard/gateway/tenant"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "gateway:", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cfg dashboard.Config
	if err := config.Load(&cfg); err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg.Log).With(slog.String("app", cfg.AppName))

	pool, err := pg.Connect(ctx, cfg.DB)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, cfg.DB, log); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	rdb, err := redis.Connect(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer rdb.Close()

	directory := pg.NewDirectory(pool)

	app, err := dashboard.NewWithConfig(cfg,
		dashboard.WithLogger(log),
		dashboard.WithDirectory(directory),
		dashboard.WithResolver(directory),
		dashboard.WithAuthenticator(pg.NewAccounts(pool)),
		dashboard.WithSessionStore(redis.NewSessionStore[tenant.SessionData](rdb)),
		dashboard.WithHealthchecks(pg.Healthcheck(pool), redis.Healthcheck(rdb)),
	)
	if err != nil {
		return fmt.Errorf("assemble gateway: %w", err)
	}

	srv, err := server.NewFromConfig(cfg.Server, server.WithLogger(log))
	if err != nil {
		return fmt.Errorf("configure server: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(srv.Run(ctx, app.Handler()))

	return g.Wait()
}
