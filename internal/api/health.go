package api

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
)

// Check probes one dependency; a non-nil error marks it down.
type Check func(ctx context.Context) error

// HealthHandler provides liveness and readiness endpoints for the service.
//
// Responsibilities:
//   - /healthz: Basic liveness probe (always returns 200 OK).
//   - /readyz: Readiness probe (every named dependency check must pass).
type HealthHandler struct {
	checks  map[string]Check
	timeout time.Duration
}

// NewHealthHandler constructs a HealthHandler with the provided dependency checks.
//
// Parameters:
//   - checks (map[string]Check): checks keyed by dependency name, typically
//     "postgres" (db.PingContext) and "cache" when Redis is used.
//
// Returns:
//   - *HealthHandler: A new handler instance.
func NewHealthHandler(checks map[string]Check) *HealthHandler {
	return &HealthHandler{checks: checks, timeout: 2 * time.Second}
}

// Register mounts the health and readiness endpoints into the provided Gin router.
//
// Routes:
//   - GET /healthz: Always returns 200 OK.
//   - GET /readyz: Returns 200 OK if all checks succeed, 503 listing the failed ones otherwise.
//
// Parameters:
//   - r (*gin.Engine): The Gin router to register routes on.
func (h *HealthHandler) Register(r *gin.Engine) {
	// Liveness probe (just checks if the service is up)
	// @Summary      Liveness probe
	// @Description  Always returns OK if the service is running
	// @Tags         health
	// @Produce      json
	// @Success      200  {object}  map[string]string
	// @Router       /healthz [get]
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Readiness probe (checks dependencies)
	// @Summary      Readiness probe
	// @Description  Returns ready if the service dependencies (DB, cache) are reachable
	// @Tags         health
	// @Produce      json
	// @Success      200  {object}  map[string]interface{}
	// @Failure      503  {object}  map[string]interface{}
	// @Router       /readyz [get]
	r.GET("/readyz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
		defer cancel()

		var down []string
		for name, check := range h.checks {
			if check != nil && check(ctx) != nil {
				down = append(down, name)
			}
		}
		if len(down) > 0 {
			sort.Strings(down)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "failing": down})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
}
