package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/etmarket/internal/apperr"
	"github.com/guttosm/etmarket/internal/logger"
)

// RecoveryMiddleware returns a Gin middleware that gracefully recovers from any panics,
// logs the stack trace for debugging, and returns a standardized JSON error response.
//
// Behavior:
//   - Uses defer to catch any panic that occurs during request handling.
//   - Logs the recovered panic value, stack trace and request id.
//   - Returns a 500 Internal Server Error with the standard error body; the
//     panic value is never exposed.
//
// Returns:
//   - gin.HandlerFunc: A middleware function for use in Gin router.
//
// Example:
//
//	router := gin.New()
//	router.Use(middleware.RecoveryMiddleware())
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.L().Error().
					Str("panic", fmt.Sprintf("%v", r)).
					Str("request_id", GetRequestID(c)).
					Bytes("stack", debug.Stack()).
					Msg("panic recovered")

				writeError(c, http.StatusInternalServerError, apperr.Internal("internal server error", fmt.Errorf("%v", r)))
				c.Abort()
			}
		}()

		c.Next()
	}
}
