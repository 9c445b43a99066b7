package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"bizpilot/internal/pkg/jwtutil"
	"bizpilot/internal/transport/http/response"
)

const (
	ContextUserIDKey   = "user_id"
	ContextTeamIDKey   = "team_id"
	ContextUsernameKey = "username"
	ContextIsAdminKey  = "is_admin"
)

func AuthJWT(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			response.Error(c, 401, response.CodeUnauthorized, "missing authorization header")
			c.Abort()
			return
		}

		const prefix = "Bearer "
		if !strings.HasPrefix(authHeader, prefix) {
			response.Error(c, 401, response.CodeUnauthorized, "invalid authorization scheme")
			c.Abort()
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, prefix))
		claims, err := jwtutil.ParseToken(secret, token)
		if err != nil {
			response.Error(c, 401, response.CodeUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextTeamIDKey, claims.TeamID)
		c.Set(ContextUsernameKey, claims.Username)
		c.Set(ContextIsAdminKey, claims.IsAdmin)
		c.Next()
	}
}

// RequireAdmin guards the admin surface. Chatbot configuration (including
// platform-wide data scopes) must never be reachable by regular users.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		isAdminAny, exists := c.Get(ContextIsAdminKey)
		isAdmin, ok := isAdminAny.(bool)
		if !exists || !ok || !isAdmin {
			response.Error(c, 403, response.CodeForbidden, "admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}
