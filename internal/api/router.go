package api

import (
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/guttosm/etmarket/internal/cache"
	"github.com/guttosm/etmarket/internal/domain/models"
	"github.com/guttosm/etmarket/internal/events"
	"github.com/guttosm/etmarket/internal/middleware"
)

// RouterOptions carries the cross-cutting dependencies of the HTTP stack.
type RouterOptions struct {
	Tokens      middleware.TokenParser
	Cache       cache.Store
	CacheTTL    time.Duration
	Limiter     *middleware.IPRateLimiter
	CORSOrigins []string
	Timeout     time.Duration
}

// NewRouter creates a Gin engine with routes configured.
// It receives a Handler instance with all business logic already injected.
//
// Responsibilities:
//   - Registers global middlewares (CORS, RequestID, Logger, Recovery, ErrorHandler, RateLimiter).
//   - Adds request timeout handling (10 seconds unless configured).
//   - Mounts Swagger docs (/swagger/*any).
//   - Configures API v1 routes (/api/v1): public reads are cached per entity,
//     writes require a bearer token and company deletion the admin role.
//
// Note:
//   - Health and readiness endpoints (/healthz, /readyz) are registered in app.InitializeApp().
//
// Parameters:
//   - handler (*Handler): The HTTP handler with business logic.
//   - opts (RouterOptions): token parser, cache, limiter and CORS settings.
//
// Returns:
//   - *gin.Engine: Configured Gin router.
func NewRouter(handler *Handler, opts RouterOptions) *gin.Engine {
	router := gin.New()

	if opts.Cache == nil {
		opts.Cache = cache.Nop{}
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Limiter == nil {
		opts.Limiter = middleware.NewIPRateLimiter(5, 20)
	}

	// ─── Middlewares ───────────────────────────────
	router.Use(
		cors.New(corsConfig(opts.CORSOrigins)),
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.RecoveryMiddleware(),
		middleware.ErrorHandler,
		middleware.RateLimiter(opts.Limiter),
	)

	// ─── Timeout ──────────────────────────────────
	router.Use(middleware.Timeout(opts.Timeout))

	// ─── Swagger ──────────────────────────────────
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	cached := func(entities ...string) gin.HandlerFunc {
		return middleware.Cache(opts.Cache, opts.CacheTTL, entities...)
	}
	requireAuth := middleware.RequireAuth(opts.Tokens)

	// ─── API v1 ───────────────────────────────────
	v1 := router.Group("/api/v1")
	{
		companies := v1.Group("/companies")
		companies.GET("", cached(events.EntityCompany), handler.ListCompanies)
		companies.GET("/:id", cached(events.EntityCompany), handler.GetCompany)
		companies.POST("", requireAuth, handler.CreateCompany)
		companies.POST("/batch", requireAuth, handler.CreateCompanies)
		companies.PUT("/:id", requireAuth, handler.UpdateCompany)
		companies.DELETE("/:id", requireAuth, middleware.RequireRole(models.RoleAdmin), handler.DeleteCompany)
		companies.GET("/:id/audit", requireAuth, handler.CompanyAudit)

		financials := v1.Group("/financials/:company_id")
		financials.GET("", cached(events.EntityCompany, events.EntityFinancial), handler.ListFinancials)
		financials.GET("/latest", cached(events.EntityCompany, events.EntityFinancial), handler.LatestFinancial)
		financials.GET("/summary", cached(events.EntityCompany, events.EntityFinancial), handler.FinancialSummary)
		financials.POST("", requireAuth, handler.CreateFinancial)

		stocks := v1.Group("/stocks/:company_id")
		stocks.GET("", cached(events.EntityCompany, events.EntityStock), handler.ListStocks)
		stocks.POST("", requireAuth, handler.CreateStock)

		macro := v1.Group("/macro")
		macro.GET("/indicators", cached(events.EntityMacro), handler.ListMacro)
		macro.POST("/indicators", requireAuth, handler.CreateMacro)
		macro.GET("/latest", cached(events.EntityMacro), handler.LatestMacro)
		macro.GET("/summary", cached(events.EntityMacro), handler.MacroSummary)

		market := v1.Group("/market", cached(events.EntityCompany, events.EntityStock))
		market.GET("/summary", handler.MarketSummary)
		market.GET("/trends", handler.MarketTrends)
		market.GET("/leaders", handler.MarketLeaders)

		download := v1.Group("/download")
		download.GET("/companies", handler.DownloadCompanies)
		download.GET("/financials/:company_id", handler.DownloadFinancials)
		download.GET("/macro", handler.DownloadMacro)

		users := v1.Group("/users")
		users.POST("/register", handler.Register)
		users.POST("/login", handler.Login)
		users.POST("/refresh", handler.Refresh)
	}

	return router
}

// corsConfig allows any origin when origins is empty or contains "*".
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader, middleware.CacheHeader, "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
