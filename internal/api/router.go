package api

import (
	"huertohogar_api/internal/config"     // Application configuration
	"huertohogar_api/internal/middleware" // Auth, rate limit and header middleware
	"huertohogar_api/internal/validation" // Custom validator registration

	"github.com/gin-contrib/cors"  // CORS middleware
	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// NewRouter builds the full gin engine: middleware chain, auth routes and
// the three resource families. Everything the handlers need is injected
// here, nothing is read from globals.
func NewRouter(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *gin.Engine {
	validation.Register() // Custom validators and JSON tag names

	r := gin.New()
	r.Use(gin.Recovery())                // Panic recovery
	r.Use(middleware.SecurityHeaders())  // Baseline security headers
	r.Use(cors.New(cors.Config{         // CORS from configuration
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	r.Use(ErrorHandler(cfg.IsProd)) // Terminal error mapper

	r.NoRoute(NotFoundHandler) // Unmatched routes get the 404 envelope

	r.GET("/health", HealthHandler) // Liveness, outside the rate limit

	auth := middleware.JWTAuth(db, cfg.JWTSecret) // Shared auth middleware

	apiGroup := r.Group("/api")
	// Global admission control for the whole API surface
	apiGroup.Use(middleware.RateLimit(rdb, "api", cfg.RateLimitMax, cfg.RateLimitWindow,
		"Demasiadas solicitudes, intenta de nuevo en 15 minutos"))

	apiGroup.GET("", InfoHandler) // API catalog

	// Auth routes, with the stricter login quota on top
	authGroup := apiGroup.Group("/auth")
	authGroup.Use(middleware.RateLimit(rdb, "auth", cfg.AuthLimitMax, cfg.RateLimitWindow,
		"Demasiados intentos de login, intenta de nuevo en 15 minutos"))
	authGroup.POST("/register", RegisterHandler(db, cfg.JWTSecret, cfg.JWTExpires))
	authGroup.POST("/login", LoginHandler(db, cfg.JWTSecret, cfg.JWTExpires))
	authGroup.POST("/verify-token", VerifyTokenHandler(db, cfg.JWTSecret))

	// Product routes: reads are public, writes are admin-only
	products := apiGroup.Group("/products")
	products.GET("", ListProductsHandler(db, rdb))
	products.GET("/:id", GetProductHandler(db))
	products.POST("", auth, middleware.AdminOnly(), CreateProductHandler(db, rdb))
	products.PUT("/:id", auth, middleware.AdminOnly(), UpdateProductHandler(db, rdb))
	products.PUT("/:id/status", auth, middleware.AdminOnly(), ProductStatusHandler(db, rdb))
	products.DELETE("/:id", auth, middleware.AdminOnly(), DeleteProductHandler(db, rdb))

	// Category routes: reads are public, writes are admin-only
	categories := apiGroup.Group("/categories")
	categories.GET("", ListCategoriesHandler(db))
	categories.GET("/:id", GetCategoryHandler(db))
	categories.POST("", auth, middleware.AdminOnly(), CreateCategoryHandler(db, rdb))
	categories.PUT("/:id", auth, middleware.AdminOnly(), UpdateCategoryHandler(db, rdb))
	categories.PUT("/:id/status", auth, middleware.AdminOnly(), CategoryStatusHandler(db, rdb))
	categories.DELETE("/:id", auth, middleware.AdminOnly(), DeleteCategoryHandler(db, rdb))

	// User routes: all authenticated, ownership or role gated per endpoint
	users := apiGroup.Group("/users")
	users.Use(auth)
	users.GET("", middleware.AdminOnly(), ListUsersHandler(db))
	users.GET("/:id", middleware.OwnerOrAdmin(), GetUserHandler(db))
	users.PUT("/:id", middleware.OwnerOrAdmin(), UpdateUserHandler(db))
	users.PUT("/:id/password", middleware.OwnerOrAdmin(), UpdatePasswordHandler(db))
	users.PUT("/:id/status", middleware.AdminOnly(), UserStatusHandler(db))
	users.DELETE("/:id", middleware.AdminOnly(), DeleteUserHandler(db))

	return r
}
