package api

import (
	"errors"   // Error matching
	"net/http" // HTTP status codes
	"strings"  // Search trimming

	"huertohogar_api/internal/domain"     // Importing domain models
	"huertohogar_api/internal/middleware" // Current-user context accessor
	"huertohogar_api/internal/validation" // Field-level error translation

	"github.com/gin-gonic/gin"   // Gin web framework
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // GORM ORM library
)

// UserListQuery enumerates the filters the admin user list accepts
type UserListQuery struct {
	Page   int    `form:"page,default=1" binding:"min=1" json:"page"`
	Limit  int    `form:"limit,default=10" binding:"min=1,max=100" json:"limit"`
	Search string `form:"search" binding:"omitempty,max=100" json:"search"`
	Rol    string `form:"rol" binding:"omitempty,oneof=cliente admin" json:"rol"`
	Activo *bool  `form:"activo" json:"activo"`
}

// apply adds the present filters to the query. Unlike products, users are
// listed regardless of the active flag unless one is requested.
func (q *UserListQuery) apply(tx *gorm.DB) *gorm.DB {
	if s := strings.TrimSpace(q.Search); s != "" {
		like := "%" + s + "%"
		tx = tx.Where("(nombre LIKE ? OR apellido LIKE ? OR email LIKE ?)", like, like, like)
	}
	if q.Rol != "" {
		tx = tx.Where("rol = ?", q.Rol)
	}
	if q.Activo != nil {
		tx = tx.Where("activo = ?", *q.Activo)
	}
	return tx
}

// UserUpdateRequest is the partial-update payload for a user profile.
// Absent fields (and explicit nulls) leave the column untouched.
type UserUpdateRequest struct {
	Nombre       *string `json:"nombre" binding:"omitempty,min=2,max=100"`
	Apellido     *string `json:"apellido" binding:"omitempty,min=2,max=100"`
	Email        *string `json:"email" binding:"omitempty,email,max=150"`
	Telefono     *string `json:"telefono" binding:"omitempty,telefono,max=20"`
	Direccion    *string `json:"direccion" binding:"omitempty,max=500"`
	Ciudad       *string `json:"ciudad" binding:"omitempty,max=100"`
	CodigoPostal *string `json:"codigo_postal" binding:"omitempty,max=10"`
	Rol          *string `json:"rol" binding:"omitempty,oneof=cliente admin"`
}

// updates collects the present fields into a column/value map
func (r *UserUpdateRequest) updates() map[string]any {
	u := map[string]any{}
	if r.Nombre != nil {
		u["nombre"] = *r.Nombre
	}
	if r.Apellido != nil {
		u["apellido"] = *r.Apellido
	}
	if r.Email != nil {
		u["email"] = strings.ToLower(strings.TrimSpace(*r.Email))
	}
	if r.Telefono != nil {
		u["telefono"] = *r.Telefono
	}
	if r.Direccion != nil {
		u["direccion"] = *r.Direccion
	}
	if r.Ciudad != nil {
		u["ciudad"] = *r.Ciudad
	}
	if r.CodigoPostal != nil {
		u["codigo_postal"] = *r.CodigoPostal
	}
	if r.Rol != nil {
		u["rol"] = *r.Rol
	}
	return u
}

// PasswordRequest is the payload for the password-change endpoint
type PasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`       // Verified only for self-service changes
	Password        string `json:"password" binding:"required,min=8,password"` // New password
}

// ListUsersHandler returns a filtered, paginated page of users (admin only)
func ListUsersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q UserListQuery // Bind and validate query parameters
		if err := c.ShouldBindQuery(&q); err != nil {
			if errs := validation.Translate(err); errs != nil {
				respondValidation(c, errs)
				return
			}
			respondError(c, http.StatusBadRequest, "Parámetros de paginación inválidos")
			return
		}
		// Count total matching rows
		var total int64
		if err := q.apply(db.Model(&domain.Usuario{})).Count(&total).Error; err != nil {
			_ = c.Error(err)
			return
		}
		// Fetch the requested page
		var users []domain.Usuario
		offset := (q.Page - 1) * q.Limit
		err := q.apply(db.Model(&domain.Usuario{})).
			Order("fecha_creacion DESC").
			Limit(q.Limit).
			Offset(offset).
			Find(&users).Error
		if err != nil {
			_ = c.Error(err)
			return
		}
		// Strip password hashes before serialization
		for i := range users {
			users[i].Sanitize()
		}
		respondOK(c, "", gin.H{
			"users":      users,
			"pagination": newPagination(q.Page, q.Limit, total),
		})
	}
}

// GetUserHandler returns one user by id (owner or admin)
func GetUserHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		var user domain.Usuario
		if err := db.First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				respondError(c, http.StatusNotFound, "Usuario no encontrado")
				return
			}
			_ = c.Error(err)
			return
		}
		user.Sanitize()
		respondOK(c, "", gin.H{"user": user})
	}
}

// UpdateUserHandler applies a partial update to a profile. Only admins may
// change roles: a non-admin sending rol is rejected before any mutation.
func UpdateUserHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		var req UserUpdateRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			if errs := validation.Translate(err); errs != nil {
				respondValidation(c, errs)
				return
			}
			_ = c.Error(err)
			return
		}
		caller, _ := middleware.CurrentUser(c) // Set by JWTAuth
		// Role escalation gate
		if req.Rol != nil && !caller.IsAdmin() {
			respondError(c, http.StatusForbidden, "Solo los administradores pueden cambiar roles")
			return
		}
		updates := req.updates()
		if len(updates) == 0 {
			respondError(c, http.StatusBadRequest, "No hay datos para actualizar")
			return
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			// Verify the user exists
			var existing domain.Usuario
			if err := tx.Select("id").First(&existing, id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &StatusError{Status: http.StatusNotFound, Message: "Usuario no encontrado"}
				}
				return err
			}
			// Re-check email uniqueness when the email changes
			if req.Email != nil {
				var count int64
				if err := tx.Model(&domain.Usuario{}).Where("email = ? AND id != ?", updates["email"], id).Count(&count).Error; err != nil {
					return err
				}
				if count > 0 {
					return &StatusError{Status: http.StatusConflict, Message: "El email ya está en uso"}
				}
			}
			return tx.Model(&domain.Usuario{}).Where("id = ?", id).Updates(updates).Error
		})
		if err != nil {
			_ = c.Error(err)
			return
		}
		var updated domain.Usuario
		if err := db.First(&updated, id).Error; err != nil {
			_ = c.Error(err)
			return
		}
		updated.Sanitize()
		respondOK(c, "Usuario actualizado exitosamente", gin.H{"user": updated})
	}
}

// UpdatePasswordHandler changes a user's password. The current password is
// verified only when the caller targets their own account; an admin
// resetting someone else's password does not know it.
func UpdatePasswordHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		var req PasswordRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			if errs := validation.Translate(err); errs != nil {
				respondValidation(c, errs)
				return
			}
			_ = c.Error(err)
			return
		}
		var user domain.Usuario // Fetch the user including the hash
		if err := db.First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				respondError(c, http.StatusNotFound, "Usuario no encontrado")
				return
			}
			_ = c.Error(err)
			return
		}
		caller, _ := middleware.CurrentUser(c)
		// Self-service change must prove knowledge of the current password
		if caller.ID == id {
			if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
				respondError(c, http.StatusBadRequest, "Contraseña actual incorrecta")
				return
			}
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
		if err != nil {
			_ = c.Error(err)
			return
		}
		if err := db.Model(&domain.Usuario{}).Where("id = ?", id).Update("password", string(hash)).Error; err != nil {
			_ = c.Error(err)
			return
		}
		respondOK(c, "Contraseña actualizada exitosamente", nil)
	}
}

// UserStatusHandler flips a user's active flag (admin only). Admins cannot
// deactivate their own account.
func UserStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		var req StatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			if errs := validation.Translate(err); errs != nil {
				respondValidation(c, errs)
				return
			}
			_ = c.Error(err)
			return
		}
		// Verify the user exists
		var existing domain.Usuario
		if err := db.Select("id").First(&existing, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				respondError(c, http.StatusNotFound, "Usuario no encontrado")
				return
			}
			_ = c.Error(err)
			return
		}
		caller, _ := middleware.CurrentUser(c)
		// Self-deactivation would lock the admin out
		if caller.ID == id && !*req.Activo {
			respondError(c, http.StatusBadRequest, "No puedes desactivar tu propia cuenta")
			return
		}
		if err := db.Model(&domain.Usuario{}).Where("id = ?", id).Update("activo", *req.Activo).Error; err != nil {
			_ = c.Error(err)
			return
		}
		respondOK(c, statusMessage("Usuario", *req.Activo), nil)
	}
}

// DeleteUserHandler hard-deletes a user (admin only). Admins cannot delete
// their own account.
func DeleteUserHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		// Verify the user exists
		var existing domain.Usuario
		if err := db.Select("id").First(&existing, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				respondError(c, http.StatusNotFound, "Usuario no encontrado")
				return
			}
			_ = c.Error(err)
			return
		}
		caller, _ := middleware.CurrentUser(c)
		if caller.ID == id {
			respondError(c, http.StatusBadRequest, "No puedes eliminar tu propia cuenta")
			return
		}
		if err := db.Delete(&domain.Usuario{}, id).Error; err != nil {
			_ = c.Error(err)
			return
		}
		respondOK(c, "Usuario eliminado exitosamente", nil)
	}
}
