package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/etmarket/internal/apperr"
	"github.com/guttosm/etmarket/internal/auth"
)

const claimsKey = "auth_claims"

// TokenParser validates a signed token of the wanted type.
type TokenParser interface {
	Parse(token, wantType string) (*auth.Claims, error)
}

var _ TokenParser = (*auth.Issuer)(nil)

// RequireAuth rejects requests without a valid Bearer access token.
//
// Behavior:
//   - Reads "Authorization: Bearer <token>".
//   - Parses it as an access token; refresh tokens are refused.
//   - Stores the claims in the context for UserID, Claims and RequireRole.
//
// Returns:
//   - gin.HandlerFunc: aborts with 401 on a missing or invalid token.
func RequireAuth(p TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			AbortWithError(c, apperr.Unauthorized("missing bearer token"))
			return
		}
		claims, err := p.Parse(strings.TrimSpace(token), auth.TypeAccess)
		if err != nil {
			AbortWithError(c, apperr.Unauthorized("invalid or expired token").WithError(err))
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireRole must run after RequireAuth; it rejects users whose role differs.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := Claims(c)
		if claims == nil {
			AbortWithError(c, apperr.Unauthorized("authentication required"))
			return
		}
		if claims.Role != role {
			AbortWithError(c, apperr.Forbidden("requires "+role+" role"))
			return
		}
		c.Next()
	}
}

// Claims returns the authenticated token claims, or nil.
func Claims(c *gin.Context) *auth.Claims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*auth.Claims)
	return claims
}

// UserID returns the authenticated user's id, or nil for anonymous requests.
func UserID(c *gin.Context) *int64 {
	claims := Claims(c)
	if claims == nil {
		return nil
	}
	id := claims.UserID
	return &id
}
