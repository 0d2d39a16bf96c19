package api

import (
	"errors"   // Error matching
	"net/http" // HTTP status codes
	"strings"  // String manipulation
	"time"     // Token lifetime

	"huertohogar_api/internal/domain"     // Importing domain models
	"huertohogar_api/internal/utils"      // Utility functions
	"huertohogar_api/internal/validation" // Field-level error translation

	"github.com/gin-gonic/gin"   // Gin web framework
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // GORM ORM library
)

// bcryptCost matches the original deployment's salt rounds
const bcryptCost = 12

// RegisterRequest is the payload for user registration
type RegisterRequest struct {
	Nombre       string  `json:"nombre" binding:"required,min=2,max=100"`       // First name
	Apellido     string  `json:"apellido" binding:"required,min=2,max=100"`     // Last name
	Email        string  `json:"email" binding:"required,email,max=150"`        // Unique email
	Password     string  `json:"password" binding:"required,min=8,password"`    // Plain password, hashed before storage
	Telefono     *string `json:"telefono" binding:"omitempty,telefono,max=20"`  // Optional phone
	Direccion    *string `json:"direccion" binding:"omitempty,max=500"`         // Optional address
	Ciudad       *string `json:"ciudad" binding:"omitempty,max=100"`            // Optional city
	CodigoPostal *string `json:"codigo_postal" binding:"omitempty,max=10"`      // Optional postal code
}

// LoginRequest is the payload for login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"` // Account email
	Password string `json:"password" binding:"required"`    // Account password
}

// RegisterHandler creates a new customer account and returns it with a token.
// The duplicate-email check and the insert run in one transaction so two
// concurrent registrations with the same email cannot both pass the check.
func RegisterHandler(db *gorm.DB, jwtSecret string, jwtExpires time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// Field violations get the detailed envelope, anything else the mapper
			if errs := validation.Translate(err); errs != nil {
				respondValidation(c, errs)
				return
			}
			_ = c.Error(err)
			return
		}
		// Hash the password before entering the transaction
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
		if err != nil {
			_ = c.Error(err)
			return
		}
		user := domain.Usuario{
			Nombre:       req.Nombre,
			Apellido:     req.Apellido,
			Email:        strings.ToLower(strings.TrimSpace(req.Email)), // Normalized email
			Password:     string(hash),
			Telefono:     req.Telefono,
			Direccion:    req.Direccion,
			Ciudad:       req.Ciudad,
			CodigoPostal: req.CodigoPostal,
			Rol:          domain.RolCliente, // Registration always creates customers
			Activo:       true,              // New accounts start active
		}
		// Uniqueness check and insert under one transaction
		err = db.Transaction(func(tx *gorm.DB) error {
			var count int64
			if err := tx.Model(&domain.Usuario{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return &StatusError{Status: http.StatusConflict, Message: "El email ya está registrado"}
			}
			return tx.Create(&user).Error
		})
		if err != nil {
			_ = c.Error(err)
			return
		}
		// Generate JWT for the new account
		token, err := utils.GenerateJWT(user.ID, user.Email, jwtSecret, jwtExpires)
		if err != nil {
			_ = c.Error(err)
			return
		}
		user.Sanitize() // Never return the password hash
		respondCreated(c, "Usuario registrado exitosamente", gin.H{
			"user":  user,
			"token": token,
		})
	}
}

// LoginHandler authenticates a user and returns the account with a token
func LoginHandler(db *gorm.DB, jwtSecret string, jwtExpires time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			if errs := validation.Translate(err); errs != nil {
				respondValidation(c, errs)
				return
			}
			_ = c.Error(err)
			return
		}
		var user domain.Usuario // Fetch user by email
		if err := db.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				respondError(c, http.StatusUnauthorized, "Credenciales inválidas")
				return
			}
			_ = c.Error(err)
			return
		}
		// Disabled accounts cannot log in even with the right password
		if !user.Activo {
			respondError(c, http.StatusUnauthorized, "Cuenta desactivada. Contacta al administrador")
			return
		}
		// Compare provided password with stored hash
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			respondError(c, http.StatusUnauthorized, "Credenciales inválidas")
			return
		}
		// Generate JWT token
		token, err := utils.GenerateJWT(user.ID, user.Email, jwtSecret, jwtExpires)
		if err != nil {
			_ = c.Error(err)
			return
		}
		user.Sanitize()
		respondOK(c, "Login exitoso", gin.H{
			"user":  user,
			"token": token,
		})
	}
}

// VerifyTokenHandler checks a bearer token against the live user record.
// A syntactically valid token for a deactivated account still fails here.
func VerifyTokenHandler(db *gorm.DB, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			respondError(c, http.StatusUnauthorized, "Token no proporcionado")
			return
		}
		claims, err := utils.ParseJWT(strings.TrimPrefix(authHeader, "Bearer "), jwtSecret)
		if err != nil {
			respondError(c, http.StatusUnauthorized, "Token inválido o expirado")
			return
		}
		var user domain.Usuario // Re-check the live record, not the token
		if err := db.Where("id = ? AND activo = ?", claims.UserID, true).First(&user).Error; err != nil {
			respondError(c, http.StatusUnauthorized, "Usuario no encontrado o inactivo")
			return
		}
		user.Sanitize()
		respondOK(c, "Token válido", gin.H{"user": user})
	}
}
