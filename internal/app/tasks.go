package app

import (
	"context"
	"fmt"

	"github.com/guttosm/etmarket/config"
	"github.com/guttosm/etmarket/internal/auth"
	"github.com/guttosm/etmarket/internal/cache"
	"github.com/guttosm/etmarket/internal/domain/dto"
	"github.com/guttosm/etmarket/internal/events"
	"github.com/guttosm/etmarket/internal/ingestion"
	"github.com/guttosm/etmarket/internal/service"
	"github.com/guttosm/etmarket/internal/storage"
)

// RunMigrations connects to Postgres and applies pending migrations.
func RunMigrations(cfg config.Config) error {
	db, err := postgresOpener(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize postgres: %w", err)
	}
	defer func() { _ = db.Close() }()
	return Migrate(db)
}

// RunIngestion loads the CSV files in src into Postgres.
//
// Behavior:
//   - Bumps the cache generations of the shared Redis cache when that backend
//     is configured, so running API instances stop serving stale reads.
//   - Publishes one INGESTED event per loaded entity when Kafka is configured.
//
// Returns:
//   - []ingestion.Report: per-file counts and skipped lines.
//   - error: connection failures or a file that could not be loaded.
func RunIngestion(ctx context.Context, cfg config.Config, src ingestion.Sources) ([]ingestion.Report, error) {
	db, err := postgresOpener(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}
	defer func() { _ = db.Close() }()

	// an in-process cache here would die with the command
	var store cache.Store = cache.Nop{}
	if cfg.Cache.Backend == "redis" {
		store, _, err = newCache(ctx, cfg.Cache)
		if err != nil {
			return nil, err
		}
	}
	defer func() { _ = store.Close() }()

	publisher := events.New(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	defer func() { _ = publisher.Close() }()

	loader := ingestion.NewLoader(storage.NewTxRunner(db), store, publisher)
	return loader.Run(ctx, src)
}

// CreateAdmin registers an account with the admin role.
func CreateAdmin(ctx context.Context, cfg config.Config, req dto.RegisterRequest) (*dto.UserResponse, error) {
	db, err := postgresOpener(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}
	defer func() { _ = db.Close() }()

	issuer, err := auth.NewIssuer(cfg.Auth.Secret, cfg.Auth.Issuer, cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL)
	if err != nil {
		return nil, err
	}
	users := service.NewUserService(newDeps(db, cache.Nop{}, events.NopPublisher{}), issuer)
	return users.CreateAdmin(ctx, req)
}
