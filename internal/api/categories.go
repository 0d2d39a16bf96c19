package api

import (
	"errors"   // Error matching
	"net/http" // HTTP status codes

	"huertohogar_api/internal/domain"     // Importing domain models
	"huertohogar_api/internal/validation" // Field-level error translation

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// CategoryRequest is the payload for category creation
type CategoryRequest struct {
	Nombre      string  `json:"nombre" binding:"required,min=2,max=100"`  // Unique category name
	Descripcion *string `json:"descripcion" binding:"omitempty,max=500"`  // Optional description
}

// CategoryUpdateRequest is the partial-update payload. Absent fields (and
// explicit nulls) leave the column untouched.
type CategoryUpdateRequest struct {
	Nombre      *string `json:"nombre" binding:"omitempty,min=2,max=100"`
	Descripcion *string `json:"descripcion" binding:"omitempty,max=500"`
}

// updates collects the present fields into a column/value map
func (r *CategoryUpdateRequest) updates() map[string]any {
	u := map[string]any{}
	if r.Nombre != nil {
		u["nombre"] = *r.Nombre
	}
	if r.Descripcion != nil {
		u["descripcion"] = *r.Descripcion
	}
	return u
}

// ListCategoriesHandler returns categories ordered by name. The activo
// query parameter accepts true (default), false, or all.
func ListCategoriesHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tx := db.Model(&domain.Categoria{})
		// "all" disables the active filter entirely
		switch activo := c.DefaultQuery("activo", "true"); activo {
		case "true", "false":
			tx = tx.Where("activo = ?", activo == "true")
		case "all":
		default:
			respondError(c, http.StatusBadRequest, "El parámetro activo debe ser true, false o all")
			return
		}
		var categories []domain.Categoria
		if err := tx.Order("nombre ASC").Find(&categories).Error; err != nil {
			_ = c.Error(err)
			return
		}
		respondOK(c, "", gin.H{"categories": categories})
	}
}

// GetCategoryHandler returns one category by id
func GetCategoryHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		var category domain.Categoria
		if err := db.First(&category, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				respondError(c, http.StatusNotFound, "Categoría no encontrada")
				return
			}
			_ = c.Error(err)
			return
		}
		respondOK(c, "", gin.H{"category": category})
	}
}

// CreateCategoryHandler creates a category. The name-uniqueness check and
// the insert run in one transaction.
func CreateCategoryHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CategoryRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			if errs := validation.Translate(err); errs != nil {
				respondValidation(c, errs)
				return
			}
			_ = c.Error(err)
			return
		}
		category := domain.Categoria{
			Nombre:      req.Nombre,
			Descripcion: req.Descripcion,
			Activo:      true, // New categories start active
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			// Reject duplicate names
			var count int64
			if err := tx.Model(&domain.Categoria{}).Where("nombre = ?", req.Nombre).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return &StatusError{Status: http.StatusConflict, Message: "Ya existe una categoría con ese nombre"}
			}
			return tx.Create(&category).Error
		})
		if err != nil {
			_ = c.Error(err)
			return
		}
		invalidateProductCache(c.Request.Context(), rdb)
		respondCreated(c, "Categoría creada exitosamente", gin.H{"category": category})
	}
}

// UpdateCategoryHandler applies a partial update to a category
func UpdateCategoryHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		var req CategoryUpdateRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			if errs := validation.Translate(err); errs != nil {
				respondValidation(c, errs)
				return
			}
			_ = c.Error(err)
			return
		}
		updates := req.updates()
		if len(updates) == 0 {
			respondError(c, http.StatusBadRequest, "No hay datos para actualizar")
			return
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			// Verify the category exists
			var existing domain.Categoria
			if err := tx.Select("id").First(&existing, id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &StatusError{Status: http.StatusNotFound, Message: "Categoría no encontrada"}
				}
				return err
			}
			// Re-check name uniqueness when the name changes
			if req.Nombre != nil {
				var count int64
				if err := tx.Model(&domain.Categoria{}).Where("nombre = ? AND id != ?", *req.Nombre, id).Count(&count).Error; err != nil {
					return err
				}
				if count > 0 {
					return &StatusError{Status: http.StatusConflict, Message: "Ya existe una categoría con ese nombre"}
				}
			}
			return tx.Model(&domain.Categoria{}).Where("id = ?", id).Updates(updates).Error
		})
		if err != nil {
			_ = c.Error(err)
			return
		}
		invalidateProductCache(c.Request.Context(), rdb)
		var updated domain.Categoria
		if err := db.First(&updated, id).Error; err != nil {
			_ = c.Error(err)
			return
		}
		respondOK(c, "Categoría actualizada exitosamente", gin.H{"category": updated})
	}
}

// CategoryStatusHandler flips a category's active flag
func CategoryStatusHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
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
		// Verify the category exists
		var existing domain.Categoria
		if err := db.Select("id").First(&existing, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				respondError(c, http.StatusNotFound, "Categoría no encontrada")
				return
			}
			_ = c.Error(err)
			return
		}
		if err := db.Model(&domain.Categoria{}).Where("id = ?", id).Update("activo", *req.Activo).Error; err != nil {
			_ = c.Error(err)
			return
		}
		invalidateProductCache(c.Request.Context(), rdb)
		msg := "Categoría desactivada exitosamente"
		if *req.Activo {
			msg = "Categoría activada exitosamente"
		}
		respondOK(c, msg, nil)
	}
}

// DeleteCategoryHandler deletes a category unless any product still
// references it. The referential guard and the delete share a transaction.
func DeleteCategoryHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			// Verify the category exists
			var existing domain.Categoria
			if err := tx.Select("id").First(&existing, id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &StatusError{Status: http.StatusNotFound, Message: "Categoría no encontrada"}
				}
				return err
			}
			// Referential guard: no delete while products reference it
			var count int64
			if err := tx.Model(&domain.Producto{}).Where("categoria_id = ?", id).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return &StatusError{
					Status:  http.StatusBadRequest,
					Message: "No se puede eliminar la categoría porque tiene productos asociados",
				}
			}
			return tx.Delete(&domain.Categoria{}, id).Error
		})
		if err != nil {
			_ = c.Error(err)
			return
		}
		invalidateProductCache(c.Request.Context(), rdb)
		respondOK(c, "Categoría eliminada exitosamente", nil)
	}
}
