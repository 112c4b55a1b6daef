package middleware

import (
	"net/http"

	"cardapio/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	AuthUserKey = "authUser"
	AuthRoleKey = "authRole"
)

// SessionAuthMiddleware requires an active device session and puts the
// logged-in user and role in the context.
func SessionAuthMiddleware(auth service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := auth.CheckSession(c.Request.Context())
		if !status.Success {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": status.Error})
			return
		}
		if !status.Authenticated {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": service.ErrNotAuthenticated.Error()})
			return
		}

		// Set user information in context
		c.Set(AuthUserKey, status.User.ID)
		c.Set(AuthRoleKey, status.User.Role)

		c.Next()
	}
}
