package app

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/etmarket/config"
	"github.com/guttosm/etmarket/internal/cache"
	"github.com/guttosm/etmarket/internal/domain/dto"
	"github.com/guttosm/etmarket/internal/ingestion"
)

func testConfig() config.Config {
	return config.Config{
		Server:    config.ServerConfig{Port: "8080"},
		Postgres:  testPostgres,
		Auth:      config.AuthConfig{Secret: "test-secret", Issuer: "etmarket", AccessTTL: time.Minute, RefreshTTL: time.Hour},
		Cache:     config.CacheConfig{Backend: "memory", TTL: time.Minute},
		RateLimit: config.RateLimitConfig{RPS: 100, Burst: 100},
		Market:    config.MarketConfig{DefaultShares: 10000, ExportMaxRows: 100},
	}
}

// useConfig swaps the global configuration for the duration of the test.
func useConfig(t *testing.T, cfg config.Config) {
	t.Helper()
	old := config.AppConfig
	config.AppConfig = cfg
	t.Cleanup(func() { config.AppConfig = old })
}

// useDB makes postgresOpener hand out db.
func useDB(t *testing.T, db *sql.DB, err error) {
	t.Helper()
	old := postgresOpener
	postgresOpener = func(config.Config) (*sql.DB, error) { return db, err }
	t.Cleanup(func() { postgresOpener = old })
}

// TestInitPostgres_InvalidHost expects ping failure.
func TestInitPostgres_InvalidHost(t *testing.T) {
	cfg := config.Config{Postgres: config.PostgresConfig{
		Host:     "127.0.0.1",
		Port:     54329, // unlikely mapped
		User:     "x",
		Password: "y",
		DBName:   "z",
		SSLMode:  "disable",
	}}
	db, err := InitPostgres(cfg)
	if err == nil {
		_ = db.Close()
		t.Fatalf("expected error connecting to invalid DB")
	}
}

func TestInitializeApp_DBFailure(t *testing.T) {
	useConfig(t, testConfig())
	useDB(t, nil, errors.New("connection refused"))

	r, cleanup, err := InitializeApp()
	require.Error(t, err)
	assert.Nil(t, r)
	assert.Nil(t, cleanup)
}

func TestInitializeApp_HappyPath(t *testing.T) {
	useConfig(t, testConfig())
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	useDB(t, db, nil)

	router, cleanup, err := InitializeApp()
	require.NoError(t, err)
	require.NotNil(t, router)
	require.NotNil(t, cleanup)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/healthz", http.StatusOK},
		{http.MethodGet, "/readyz", http.StatusOK},
		{http.MethodPost, "/api/v1/companies", http.StatusUnauthorized},
		{http.MethodGet, "/api/v1/market/trends?days=0", http.StatusBadRequest},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
		assert.Equal(t, tt.want, w.Code, "%s %s", tt.method, tt.path)
	}

	mock.ExpectClose()
	cleanup()
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInitializeApp_ClosesDBOnLaterFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"unknown cache backend", func(c *config.Config) { c.Cache.Backend = "memcached" }},
		{"empty jwt secret", func(c *config.Config) { c.Auth.Secret = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)
			useConfig(t, cfg)
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			mock.ExpectClose()
			useDB(t, db, nil)

			_, _, err = InitializeApp()
			require.Error(t, err)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestNewCache(t *testing.T) {
	old := redisConnector
	redisConnector = func(context.Context, config.CacheConfig) (*cache.Redis, error) {
		return nil, errors.New("dial tcp: refused")
	}
	t.Cleanup(func() { redisConnector = old })

	tests := []struct {
		backend string
		want    any
		wantErr string
	}{
		{"", &cache.Memory{}, ""},
		{"memory", &cache.Memory{}, ""},
		{"none", cache.Nop{}, ""},
		{"redis", nil, "dial tcp: refused"},
		{"memcached", nil, `unknown cache backend "memcached"`},
	}
	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			store, check, err := newCache(context.Background(), config.CacheConfig{Backend: tt.backend, RedisAddr: "localhost:6379"})
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, store)
			assert.Nil(t, check)
			_ = store.Close()
		})
	}
}

func TestMigrate(t *testing.T) {
	old := migrateUp
	t.Cleanup(func() { migrateUp = old })

	called := false
	migrateUp = func(*sql.DB) error { called = true; return nil }
	require.NoError(t, Migrate(nil))
	assert.True(t, called)

	migrateUp = func(*sql.DB) error { return errors.New("dirty database version 3") }
	err := Migrate(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dirty database")
}

func TestTasks_ConnectionFailure(t *testing.T) {
	useDB(t, nil, errors.New("connection refused"))
	cfg := testConfig()
	ctx := context.Background()

	assert.Error(t, RunMigrations(cfg))
	_, err := RunIngestion(ctx, cfg, ingestion.Sources{})
	assert.Error(t, err)
	_, err = CreateAdmin(ctx, cfg, dto.RegisterRequest{Username: "root", Email: "root@example.com", Password: "change-me-now"})
	assert.Error(t, err)
}

func TestRunIngestion_NoSources(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectClose()
	useDB(t, db, nil)

	reports, err := RunIngestion(context.Background(), testConfig(), ingestion.Sources{})
	require.NoError(t, err)
	assert.Empty(t, reports)
	assert.NoError(t, mock.ExpectationsWereMet())
}
