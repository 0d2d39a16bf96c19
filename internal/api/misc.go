package api

import (
	"time" // Health timestamp

	"github.com/gin-gonic/gin" // Gin web framework
)

// APIVersion is reported by the health and info endpoints
const APIVersion = "1.0.0"

// HealthHandler is the liveness endpoint
func HealthHandler(c *gin.Context) {
	respondOK(c, "API HuertoHogar funcionando correctamente", gin.H{
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   APIVersion,
	})
}

// InfoHandler describes the API surface
func InfoHandler(c *gin.Context) {
	respondOK(c, "API REST de HuertoHogar", gin.H{
		"version": APIVersion,
		"endpoints": gin.H{
			"auth": gin.H{
				"POST /api/auth/register":     "Registrar nuevo usuario",
				"POST /api/auth/login":        "Iniciar sesión",
				"POST /api/auth/verify-token": "Verificar token JWT",
			},
			"users": gin.H{
				"GET /api/users":                "Obtener usuarios (Admin)",
				"GET /api/users/:id":            "Obtener usuario por ID",
				"PUT /api/users/:id":            "Actualizar usuario",
				"PUT /api/users/:id/password":   "Cambiar contraseña",
				"PUT /api/users/:id/status":     "Activar/Desactivar usuario (Admin)",
				"DELETE /api/users/:id":         "Eliminar usuario (Admin)",
			},
			"products": gin.H{
				"GET /api/products":             "Obtener productos",
				"GET /api/products/:id":         "Obtener producto por ID",
				"POST /api/products":            "Crear producto (Admin)",
				"PUT /api/products/:id":         "Actualizar producto (Admin)",
				"PUT /api/products/:id/status":  "Activar/Desactivar producto (Admin)",
				"DELETE /api/products/:id":      "Eliminar producto (Admin)",
			},
			"categories": gin.H{
				"GET /api/categories":            "Obtener categorías",
				"GET /api/categories/:id":        "Obtener categoría por ID",
				"POST /api/categories":           "Crear categoría (Admin)",
				"PUT /api/categories/:id":        "Actualizar categoría (Admin)",
				"PUT /api/categories/:id/status": "Activar/Desactivar categoría (Admin)",
				"DELETE /api/categories/:id":     "Eliminar categoría (Admin)",
			},
		},
	})
}
