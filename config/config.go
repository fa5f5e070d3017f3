package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the full application configuration loaded from environment variables or .env file.
//
// It is composed of smaller structs that represent different concerns of the system:
// HTTP server, Postgres, authentication, caching, rate limiting, change events,
// market aggregation defaults and bulk ingestion.
//
// Example ENV equivalent:
//
//	SERVER_PORT=8080
//	POSTGRES_HOST=localhost
//	POSTGRES_DB=etmarket
//	JWT_SECRET=change-me
//	CACHE_BACKEND=memory
//	KAFKA_BROKERS=localhost:9092
type Config struct {
	Server    ServerConfig    // HTTP server configuration
	Postgres  PostgresConfig  // PostgreSQL connection settings
	Auth      AuthConfig      // JWT issuing and verification
	Cache     CacheConfig     // Read cache backend
	RateLimit RateLimitConfig // Per-client request throttling
	Kafka     KafkaConfig     // Change-event publishing
	Market    MarketConfig    // Aggregation and export defaults
	Ingest    IngestConfig    // Bulk CSV loading
}

// ServerConfig holds HTTP server settings such as the port to listen on.
type ServerConfig struct {
	Port               string   // The TCP port the HTTP server will listen on (e.g., "8080")
	CORSAllowedOrigins []string // Origins accepted by the CORS middleware; "*" allows any
}

// PostgresConfig defines connection details for PostgreSQL.
//
// Fields:
//   - Host: hostname of the database server.
//   - Port: port number of the database server (default 5432).
//   - User: username for authentication.
//   - Password: password for authentication.
//   - DBName: target database name.
//   - SSLMode: SSL mode (e.g., "disable", "require").
//   - URL: computed DSN used by database/sql to connect.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	URL      string
}

// AuthConfig controls token signing and lifetimes.
type AuthConfig struct {
	Secret     string
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// CacheConfig selects the read cache backend: "memory", "redis" or "none".
type CacheConfig struct {
	Backend       string
	TTL           time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// RateLimitConfig is a token bucket per client IP.
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// KafkaConfig enables change-event publishing when Brokers is non-empty.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// MarketConfig holds defaults for market aggregation and file exports.
type MarketConfig struct {
	DefaultShares int64 // shares assumed for companies without shares_outstanding
	ExportMaxRows int
}

// IngestConfig points at the CSV files loaded by --mode ingest.
type IngestConfig struct {
	Dir        string
	Companies  string
	Financials string
	Stocks     string
	Macro      string
}

// AppConfig is the globally accessible configuration instance.
//
// It is populated once via LoadConfig() and used throughout the application.
var AppConfig Config

// LoadConfig initializes the global AppConfig by reading from .env file
// or directly from environment variables.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// Fatal exit:
//   - If required variables are missing, validateConfig() will terminate the app
//     with a descriptive log message.
func LoadConfig() {
	// Default values
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", 5432)
	viper.SetDefault("POSTGRES_USER", "postgres")
	viper.SetDefault("POSTGRES_PASSWORD", "postgres")
	viper.SetDefault("POSTGRES_DB", "etmarket")
	viper.SetDefault("POSTGRES_SSLMODE", "disable")

	viper.SetDefault("JWT_SECRET", "dev-secret-change-me")
	viper.SetDefault("JWT_ISSUER", "etmarket")
	viper.SetDefault("JWT_ACCESS_TTL_MINUTES", 15)
	viper.SetDefault("JWT_REFRESH_TTL_HOURS", 168)

	viper.SetDefault("CACHE_BACKEND", "memory")
	viper.SetDefault("CACHE_TTL_SECONDS", 300)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)

	viper.SetDefault("RATE_LIMIT_RPS", 5)
	viper.SetDefault("RATE_LIMIT_BURST", 20)

	viper.SetDefault("KAFKA_BROKERS", "")
	viper.SetDefault("KAFKA_TOPIC", "etmarket.entity-events")

	viper.SetDefault("MARKET_DEFAULT_SHARES", 10000)
	viper.SetDefault("EXPORT_MAX_ROWS", 10000)

	viper.SetDefault("INGEST_DIR", "./data")
	viper.SetDefault("INGEST_COMPANIES_FILE", "companies.csv")
	viper.SetDefault("INGEST_FINANCIALS_FILE", "financials.csv")
	viper.SetDefault("INGEST_STOCKS_FILE", "stocks.csv")
	viper.SetDefault("INGEST_MACRO_FILE", "macro.csv")

	// Optionally read from .env if present (common in local dev)
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig() // ignore error if no .env

	// Read environment variables automatically
	viper.AutomaticEnv()

	// Populate global config instance
	AppConfig = Config{
		Server: ServerConfig{
			Port:               viper.GetString("SERVER_PORT"),
			CORSAllowedOrigins: splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Postgres: PostgresConfig{
			Host:     viper.GetString("POSTGRES_HOST"),
			Port:     viper.GetInt("POSTGRES_PORT"),
			User:     viper.GetString("POSTGRES_USER"),
			Password: viper.GetString("POSTGRES_PASSWORD"),
			DBName:   viper.GetString("POSTGRES_DB"),
			SSLMode:  viper.GetString("POSTGRES_SSLMODE"),
		},
		Auth: AuthConfig{
			Secret:     viper.GetString("JWT_SECRET"),
			Issuer:     viper.GetString("JWT_ISSUER"),
			AccessTTL:  time.Duration(viper.GetInt("JWT_ACCESS_TTL_MINUTES")) * time.Minute,
			RefreshTTL: time.Duration(viper.GetInt("JWT_REFRESH_TTL_HOURS")) * time.Hour,
		},
		Cache: CacheConfig{
			Backend:       strings.ToLower(viper.GetString("CACHE_BACKEND")),
			TTL:           time.Duration(viper.GetInt("CACHE_TTL_SECONDS")) * time.Second,
			RedisAddr:     viper.GetString("REDIS_ADDR"),
			RedisPassword: viper.GetString("REDIS_PASSWORD"),
			RedisDB:       viper.GetInt("REDIS_DB"),
		},
		RateLimit: RateLimitConfig{
			RPS:   viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst: viper.GetInt("RATE_LIMIT_BURST"),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(viper.GetString("KAFKA_BROKERS")),
			Topic:   viper.GetString("KAFKA_TOPIC"),
		},
		Market: MarketConfig{
			DefaultShares: viper.GetInt64("MARKET_DEFAULT_SHARES"),
			ExportMaxRows: viper.GetInt("EXPORT_MAX_ROWS"),
		},
		Ingest: IngestConfig{
			Dir:        viper.GetString("INGEST_DIR"),
			Companies:  viper.GetString("INGEST_COMPANIES_FILE"),
			Financials: viper.GetString("INGEST_FINANCIALS_FILE"),
			Stocks:     viper.GetString("INGEST_STOCKS_FILE"),
			Macro:      viper.GetString("INGEST_MACRO_FILE"),
		},
	}

	// Construct Postgres DSN (used by database/sql)
	AppConfig.Postgres.URL = fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		AppConfig.Postgres.User,
		AppConfig.Postgres.Password,
		AppConfig.Postgres.Host,
		AppConfig.Postgres.Port,
		AppConfig.Postgres.DBName,
		AppConfig.Postgres.SSLMode,
	)

	// Validate critical fields
	validateConfig()
}

// splitList turns a comma separated value into a trimmed slice, dropping empties.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// validateConfig ensures required variables are present and terminates
// the application if they are missing.
//
// Behavior:
//   - Checks each critical field of AppConfig.
//   - Collects missing ones in a slice.
//   - If any are missing, logs them and terminates the app with log.Fatalf().
func validateConfig() {
	var missing []string

	if AppConfig.Server.Port == "" {
		missing = append(missing, "SERVER_PORT")
	}
	if AppConfig.Postgres.Host == "" {
		missing = append(missing, "POSTGRES_HOST")
	}
	if AppConfig.Postgres.Port == 0 {
		missing = append(missing, "POSTGRES_PORT")
	}
	if AppConfig.Postgres.User == "" {
		missing = append(missing, "POSTGRES_USER")
	}
	if AppConfig.Postgres.Password == "" {
		missing = append(missing, "POSTGRES_PASSWORD")
	}
	if AppConfig.Postgres.DBName == "" {
		missing = append(missing, "POSTGRES_DB")
	}
	if AppConfig.Auth.Secret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if AppConfig.Auth.AccessTTL <= 0 {
		missing = append(missing, "JWT_ACCESS_TTL_MINUTES")
	}
	if AppConfig.Auth.RefreshTTL <= 0 {
		missing = append(missing, "JWT_REFRESH_TTL_HOURS")
	}
	if AppConfig.Cache.Backend == "redis" && AppConfig.Cache.RedisAddr == "" {
		missing = append(missing, "REDIS_ADDR")
	}

	if len(missing) > 0 {
		log.Fatalf("❌ Missing required environment variables: %v\n", missing)
	}
}
