package middleware

import (
	"net/http"
	"slices"

	"cardapio/internal/model"
	"cardapio/internal/service"

	"github.com/gin-gonic/gin"
)

// RoleMiddleware creates a middleware to check for specific user roles
func RoleMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleVal, exists := c.Get(AuthRoleKey)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": service.ErrNotAuthenticated.Error()})
			return
		}

		userRole, ok := roleVal.(string)
		if !ok || !slices.Contains(allowedRoles, userRole) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": service.ErrAccessDenied.Error()})
			return
		}

		c.Next()
	}
}

// AdminMiddleware checks if the user is an admin
func AdminMiddleware() gin.HandlerFunc {
	return RoleMiddleware(model.RoleAdmin)
}

// ClientMiddleware admits clients and admins.
func ClientMiddleware() gin.HandlerFunc {
	return RoleMiddleware(model.RoleClient, model.RoleAdmin)
}
