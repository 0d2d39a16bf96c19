package middleware

import (
	"errors"   // Error matching
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"huertohogar_api/internal/domain" // Importing domain models
	"huertohogar_api/internal/utils"  // JWT utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/golang-jwt/jwt/v5" // JWT library, for error classification
	"gorm.io/gorm"                 // GORM ORM library
)

// ContextUserKey is the gin context key holding the authenticated user
const ContextUserKey = "currentUser"

// CurrentUser returns the authenticated user stored by JWTAuth
func CurrentUser(c *gin.Context) (domain.Usuario, bool) {
	v, exists := c.Get(ContextUserKey)
	if !exists {
		return domain.Usuario{}, false
	}
	user, ok := v.(domain.Usuario)
	return user, ok
}

// JWTAuth validates the bearer token and loads the live user record. The
// token itself stays valid until expiry, so the active flag is re-checked
// here on every request: deactivating an account revokes access immediately.
func JWTAuth(db *gorm.DB, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization") // Get Authorization header
		// Check if the Authorization header is present and properly formatted
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			abortUnauthorized(c, "Token de acceso requerido")
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ") // Extract the token string
		claims, err := utils.ParseJWT(tokenStr, secret)       // Parse the JWT token
		if err != nil {
			// Distinguish an expired token from any other parse failure
			if errors.Is(err, jwt.ErrTokenExpired) {
				abortUnauthorized(c, "Token expirado")
				return
			}
			abortUnauthorized(c, "Token inválido")
			return
		}
		var user domain.Usuario // Fetch the current user, requiring the active flag
		if err := db.Where("id = ? AND activo = ?", claims.UserID, true).First(&user).Error; err != nil {
			abortUnauthorized(c, "Usuario no encontrado o inactivo")
			return
		}
		user.Sanitize()              // Never carry the password hash around
		c.Set(ContextUserKey, user)  // Store the user in context
		c.Next()                     // Proceed to the next handler
	}
}

// abortUnauthorized writes a 401 envelope and stops the chain
func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"message": message,
	})
}
