// auth.go provides the session authentication middleware. Sessions are JWTs
// delivered in an HTTP-only cookie; an Authorization: Bearer header is accepted
// as a fallback for non-browser clients.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/vijana-portal/vijana-portal/internal/api/respond"
	"github.com/vijana-portal/vijana-portal/internal/auth"
)

// SessionCookieName is the cookie carrying the session JWT
const SessionCookieName = "token"

// extractToken pulls the session token from the cookie or, failing that, the
// Authorization header
func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie != "" {
		return cookie
	}

	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}

	return ""
}

// AuthRequired returns middleware that rejects requests without a valid session.
// On success it stores the caller's identity in the request context under the
// respond.ContextUserID / ContextUserEmail / ContextUserRole keys.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			respond.Error(c, http.StatusUnauthorized, "AUTH_UNAUTHORIZED")
			return
		}

		claims, err := auth.ValidateJWT(token)
		if err != nil {
			respond.Error(c, http.StatusUnauthorized, "AUTH_UNAUTHORIZED")
			return
		}

		c.Set(respond.ContextUserID, claims.UserID)
		c.Set(respond.ContextUserEmail, claims.Email)
		c.Set(respond.ContextUserRole, claims.Role)

		c.Next()
	}
}

// RequireRole returns middleware that rejects authenticated callers whose role
// does not match. Must be registered after AuthRequired.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actual, exists := c.Get(respond.ContextUserRole)
		if !exists || actual != role {
			respond.Error(c, http.StatusForbidden, "AUTH_FORBIDDEN")
			return
		}

		c.Next()
	}
}
