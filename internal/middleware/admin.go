package middleware

import (
	"net/http" // HTTP status codes
	"strconv"  // Path parameter parsing

	"github.com/gin-gonic/gin" // Gin web framework
)

// AdminOnly rejects any request whose authenticated user is not an admin
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, exists := CurrentUser(c) // Get user loaded by JWTAuth
		if !exists {
			abortUnauthorized(c, "Token de acceso requerido")
			return
		}
		// Check if user role is admin
		if !user.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "Acceso denegado. Se requieren permisos de administrador",
			})
			return
		}
		c.Next()
	}
}

// OwnerOrAdmin permits the request only when the authenticated user targets
// their own :id, or is an admin
func OwnerOrAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, exists := CurrentUser(c) // Get user loaded by JWTAuth
		if !exists {
			abortUnauthorized(c, "Token de acceso requerido")
			return
		}
		targetID, err := strconv.ParseUint(c.Param("id"), 10, 64) // Parse the path target
		if err != nil || (uint(targetID) != user.ID && !user.IsAdmin()) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "Acceso denegado. Solo puedes acceder a tu propia información",
			})
			return
		}
		c.Next()
	}
}
