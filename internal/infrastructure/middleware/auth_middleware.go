package middleware

import (
	"net/http"
	"strings"

	"confbot/internal/core/services"
	"confbot/pkg/logger"

	"github.com/gin-gonic/gin"
)

const (
	ContextIdentityKey = "identity"
	ContextHandleKey   = "handle"
)

// AuthMiddleware validates the gateway session token and stores the identity
// it wraps in both the gin context and the request context.
func AuthMiddleware(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		c.Set(ContextIdentityKey, claims.Identity)
		c.Set(ContextHandleKey, claims.Handle)
		c.Request = c.Request.WithContext(
			logger.WithIdentity(c.Request.Context(), int64(claims.Identity)),
		)
		c.Next()
	}
}
