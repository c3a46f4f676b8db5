package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/dmitrymomot/gatekeeper/internal/audit"
	"github.com/dmitrymomot/gatekeeper/internal/authz"
	"github.com/dmitrymomot/gatekeeper/internal/httpapi"
	"github.com/dmitrymomot/gatekeeper/internal/store"
	"github.com/dmitrymomot/gatekeeper/internal/store/migrations"
	"github.com/dmitrymomot/gatekeeper/pkg/config"
	"github.com/dmitrymomot/gatekeeper/pkg/httpserver"
	"github.com/dmitrymomot/gatekeeper/pkg/logger"
	"github.com/dmitrymomot/gatekeeper/pkg/pg"
)

type appConfig struct {
	Logger logger.Config
	PG     pg.Config
	Store  store.Config
	HTTP   httpserver.Config
}

func main() {
	var cfg appConfig
	config.MustLoad(&cfg)

	log := logger.NewFromConfig(cfg.Logger)
	slog.SetDefault(log)

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg appConfig, log *slog.Logger) error {
	pool, err := pg.Connect(ctx, cfg.PG)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, migrations.FS, log); err != nil {
		return err
	}

	recorder := audit.NewRecorder(audit.WithLogger(log))
	st := store.New(pool, recorder, log, cfg.Store)
	gate := authz.NewGate(st)

	router := httpapi.NewRouter(httpapi.Deps{
		Log:         log,
		Customers:   st,
		Users:       st,
		Services:    st,
		AuditLog:    audit.NewReader(pool, recorder),
		Gate:        gate,
		Healthcheck: pg.Healthcheck(pool),
	})

	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
	return srv.Run(ctx, router)
}
