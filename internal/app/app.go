package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/etmarket/config"
	"github.com/guttosm/etmarket/internal/api"
	"github.com/guttosm/etmarket/internal/auth"
	"github.com/guttosm/etmarket/internal/cache"
	"github.com/guttosm/etmarket/internal/events"
	"github.com/guttosm/etmarket/internal/middleware"
	"github.com/guttosm/etmarket/internal/service"
	"github.com/guttosm/etmarket/internal/storage"
)

// InitializeApp sets up all application dependencies and returns
// a fully configured Gin router, a cleanup function for graceful shutdown,
// and any error encountered during initialization.
//
// Responsibilities:
//   - Connects to PostgreSQL using InitPostgres().
//   - Builds the read cache (memory, redis or none) and the event publisher.
//   - Wires repositories, services and the token issuer into the HTTP handler.
//   - Configures the Gin router with all API routes.
//   - Registers health and readiness probes (postgres, plus redis when used).
//   - Provides a cleanup function to close resources (DB, cache, publisher).
//
// Returns:
//   - *gin.Engine: the configured Gin HTTP router.
//   - func(): cleanup function to be executed on shutdown.
//   - error: any initialization error that occurred.
func InitializeApp() (*gin.Engine, func(), error) {
	cfg := config.AppConfig
	ctx := context.Background()

	// indirection for unit testing
	db, err := postgresOpener(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}

	store, cacheCheck, err := newCache(ctx, cfg.Cache)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to initialize cache: %w", err)
	}

	issuer, err := auth.NewIssuer(cfg.Auth.Secret, cfg.Auth.Issuer, cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL)
	if err != nil {
		_ = store.Close()
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to initialize token issuer: %w", err)
	}

	publisher := events.New(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	deps := newDeps(db, store, publisher)

	handler := api.NewHandler(newServices(cfg, deps, issuer))
	router := api.NewRouter(handler, api.RouterOptions{
		Tokens:      issuer,
		Cache:       store,
		CacheTTL:    cfg.Cache.TTL,
		Limiter:     middleware.NewIPRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
		CORSOrigins: cfg.Server.CORSAllowedOrigins,
	})

	checks := map[string]api.Check{"postgres": db.PingContext}
	if cacheCheck != nil {
		checks["cache"] = cacheCheck
	}
	api.NewHealthHandler(checks).Register(router)

	cleanup := func() {
		_ = publisher.Close()
		_ = store.Close()
		_ = db.Close()
	}
	return router, cleanup, nil
}

func newDeps(db *sql.DB, store cache.Store, publisher events.Publisher) service.Deps {
	return service.Deps{
		Repos:  storage.NewRepos(db),
		Tx:     storage.NewTxRunner(db),
		Cache:  store,
		Events: publisher,
	}
}

func newServices(cfg config.Config, deps service.Deps, issuer *auth.Issuer) api.Services {
	return api.Services{
		Companies:  service.NewCompanyService(deps),
		Financials: service.NewFinancialService(deps),
		Stocks:     service.NewStockService(deps),
		Macro:      service.NewMacroService(deps),
		Market:     service.NewMarketService(deps, cfg.Market.DefaultShares),
		Export:     service.NewExportService(deps, cfg.Market.ExportMaxRows),
		Users:      service.NewUserService(deps, issuer),
	}
}
