package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/etmarket/internal/apperr"
	"github.com/guttosm/etmarket/internal/domain/dto"
	"github.com/guttosm/etmarket/internal/logger"
)

// AbortWithError records err on the context and stops the chain; ErrorHandler
// renders it.
func AbortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// ErrorHandler renders the last error attached to the context as the
// standard error body, unless a response was already written.
//
// Behavior:
//   - apperr kinds map to 400/401/403/404/409; anything else is a 500.
//   - Internal causes are logged with the request id and never sent to the client.
func ErrorHandler(c *gin.Context) {
	c.Next()

	if len(c.Errors) == 0 || c.Writer.Written() {
		return
	}
	err := c.Errors.Last().Err
	ae := apperr.As(err)
	status := ae.StatusCode()
	if status >= http.StatusInternalServerError {
		logger.L().Error().
			Err(err).
			Str("request_id", GetRequestID(c)).
			Str("path", c.Request.URL.Path).
			Msg("request failed")
	}
	writeError(c, status, ae)
}

// writeError writes the standard error body for ae. Server side messages are
// replaced by a generic one.
func writeError(c *gin.Context, status int, ae *apperr.Error) {
	msg, details := ae.Message, ae.Details
	if status >= http.StatusInternalServerError {
		msg, details = "internal server error", nil
	}
	resp := dto.NewErrorResponse(ae.Code, msg, details...)
	resp.RequestID = GetRequestID(c)
	c.JSON(status, resp)
}
