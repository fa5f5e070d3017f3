package main

//
//  @title           etmarket API
//  @version         1.0
//  @description     Ethiopian market data: companies, financial statements, daily prices, macroeconomic indicators and market aggregates.
//  @termsOfService  https://github.com/guttosm/etmarket
//  @contact.name    API Support
//  @contact.url     https://github.com/guttosm/etmarket
//  @contact.email   support@example.com
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:8080
//  @BasePath        /
//  @schemes         http
//
//  @securityDefinitions.apikey BearerAuth
//  @in                         header
//  @name                       Authorization
//
//  @tag.name        companies
//  @tag.description Company registry and its audit trail
//
//  @tag.name        financials
//  @tag.description Financial statements per company
//
//  @tag.name        stocks
//  @tag.description Daily stock prices
//
//  @tag.name        macro
//  @tag.description Macroeconomic indicator snapshots
//
//  @tag.name        market
//  @tag.description Market-wide aggregates computed from prices
//
//  @tag.name        download
//  @tag.description CSV, JSON and Excel exports
//
//  @tag.name        users
//  @tag.description Registration and token issuing
//
//  @tag.name        health
//  @tag.description Liveness and readiness probes

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/guttosm/etmarket/config"
	_ "github.com/guttosm/etmarket/docs" // swagger docs
	"github.com/guttosm/etmarket/internal/app"
	"github.com/guttosm/etmarket/internal/domain/dto"
	"github.com/guttosm/etmarket/internal/ingestion"
	"github.com/guttosm/etmarket/internal/logger"
)

// options are the parsed command line flags.
type options struct {
	mode string
	port string

	dir        string
	companies  string
	financials string
	stocks     string
	macro      string

	username string
	email    string
	password string
}

// parseFlags reads args, using cfg for defaults.
//
// Modes (selected via --mode flag):
//   - api:          Starts the REST API (default).
//   - ingest:       Loads the CSV files of --dir into Postgres.
//   - migrate:      Applies pending schema migrations.
//   - create-admin: Creates an admin account (--username, --email; password from
//     --password or ADMIN_PASSWORD).
func parseFlags(args []string, cfg config.Config, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("etmarket", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.mode, "mode", "api", "Mode: api, ingest, migrate or create-admin")
	fs.StringVar(&o.port, "port", cfg.Server.Port, "Port for API mode")
	fs.StringVar(&o.dir, "dir", cfg.Ingest.Dir, "Directory with the CSV files to ingest")
	fs.StringVar(&o.companies, "companies", cfg.Ingest.Companies, "Companies file name (empty skips)")
	fs.StringVar(&o.financials, "financials", cfg.Ingest.Financials, "Financial statements file name (empty skips)")
	fs.StringVar(&o.stocks, "stocks", cfg.Ingest.Stocks, "Daily prices file name (empty skips)")
	fs.StringVar(&o.macro, "macro", cfg.Ingest.Macro, "Macroeconomic indicators file name (empty skips)")
	fs.StringVar(&o.username, "username", "", "Admin username for create-admin")
	fs.StringVar(&o.email, "email", "", "Admin email for create-admin")
	fs.StringVar(&o.password, "password", os.Getenv("ADMIN_PASSWORD"), "Admin password for create-admin")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	switch o.mode {
	case "api", "ingest", "migrate":
	case "create-admin":
		if o.username == "" || o.email == "" || o.password == "" {
			return o, errors.New("create-admin requires --username, --email and a password")
		}
	default:
		return o, fmt.Errorf("unknown mode %q", o.mode)
	}
	return o, nil
}

// startServer initializes and starts the HTTP server in a separate goroutine.
//
// Parameters:
//   - router (http.Handler): The HTTP router (Gin Engine) configured with all routes.
//   - port (string): The port where the server will listen for incoming requests.
//
// Returns:
//   - *http.Server: The initialized HTTP server instance.
func startServer(router http.Handler, port string) *http.Server {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.L().Info().Str("port", port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal().Err(err).Msg("server failed to start")
		}
	}()

	return server
}

// gracefulShutdown gracefully terminates the HTTP server and cleans up resources
// when an OS interrupt signal (SIGINT, SIGTERM) is received.
//
// Parameters:
//   - ctx (context.Context): A context with timeout for graceful shutdown.
//   - server (*http.Server): The HTTP server instance to shut down.
//   - cleanup (func()): Cleanup callback to release resources (DB, cache, publisher).
func gracefulShutdown(ctx context.Context, server *http.Server, cleanup func()) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	logger.L().Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L().Fatal().Err(err).Msg("server forced to shutdown")
	}

	cleanup()
	logger.L().Info().Msg("server exited gracefully")
}

// main is the entry point of the etmarket application.
func main() {
	// Load configuration from environment or .env file
	config.LoadConfig()

	// Initialize JSON logger
	logger.Init()

	opts, err := parseFlags(os.Args[1:], config.AppConfig, os.Stderr)
	if err != nil {
		logger.L().Fatal().Err(err).Msg("invalid arguments")
	}

	switch opts.mode {
	case "api":
		logger.L().Info().Msg("starting API server")

		router, cleanup, err := app.InitializeApp()
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}

		server := startServer(router, opts.port)
		gracefulShutdown(context.Background(), server, cleanup)

	case "ingest":
		// cancel in-flight loads on Ctrl+C; every file runs in its own transaction
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger.L().Info().Str("dir", opts.dir).Msg("running ingestion")
		src := ingestion.SourcesIn(opts.dir, opts.companies, opts.financials, opts.stocks, opts.macro)
		reports, err := app.RunIngestion(ctx, config.AppConfig, src)
		if err != nil {
			logger.L().Fatal().Err(err).Msg("ingestion failed")
		}
		skipped := 0
		for _, r := range reports {
			skipped += len(r.Skipped)
		}
		logger.L().Info().Int("files", len(reports)).Int("skipped", skipped).Msg("ingestion completed")

	case "migrate":
		if err := app.RunMigrations(config.AppConfig); err != nil {
			logger.L().Fatal().Err(err).Msg("migration failed")
		}

	case "create-admin":
		user, err := app.CreateAdmin(context.Background(), config.AppConfig, dto.RegisterRequest{
			Username: opts.username,
			Email:    opts.email,
			Password: opts.password,
		})
		if err != nil {
			logger.L().Fatal().Err(err).Msg("create admin failed")
		}
		logger.L().Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("admin created")
	}
}
