package api

import (
	"context"  // Context for Redis operations
	"errors"   // Error matching
	"fmt"      // Cache key formatting
	"net/http" // HTTP status codes
	"strconv"  // Cache key formatting of pointer filters
	"strings"  // Search trimming
	"time"     // Cache TTL

	"huertohogar_api/internal/domain"     // Importing domain models
	"huertohogar_api/internal/utils"      // Cache helpers
	"huertohogar_api/internal/validation" // Field-level error translation

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// Product list responses are cached under this prefix; every product or
// category write drops the whole prefix.
const productCachePrefix = "products:list"

// listCacheTTL bounds how stale a cached product page can get
const listCacheTTL = 60 * time.Second

// Column list and join used everywhere a product is returned, so the
// response always carries the category name.
const (
	productColumns = "productos.*, categorias.nombre AS categoria_nombre"
	productJoin    = "LEFT JOIN categorias ON categorias.id = productos.categoria_id"
)

// Pagination is the page descriptor attached to every list response
type Pagination struct {
	Page  int   `json:"page"`  // Current page, 1-based
	Limit int   `json:"limit"` // Page size
	Total int64 `json:"total"` // Total matching rows
	Pages int   `json:"pages"` // ceil(total/limit)
}

// newPagination computes the page count from the total
func newPagination(page, limit int, total int64) Pagination {
	return Pagination{
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: int((total + int64(limit) - 1) / int64(limit)),
	}
}

// ProductListQuery enumerates every filter the product list accepts. Each
// optional filter only reaches the WHERE clause when present, replacing the
// original's string-concatenated clause building.
type ProductListQuery struct {
	Page      int      `form:"page,default=1" binding:"min=1" json:"page"`
	Limit     int      `form:"limit,default=10" binding:"min=1,max=100" json:"limit"`
	Search    string   `form:"search" binding:"omitempty,max=100" json:"search"`
	Categoria uint     `form:"categoria" binding:"omitempty,min=1" json:"categoria"`
	PrecioMin *float64 `form:"precio_min" binding:"omitempty,gte=0" json:"precio_min"`
	PrecioMax *float64 `form:"precio_max" binding:"omitempty,gte=0" json:"precio_max"`
	Activo    *bool    `form:"activo" json:"activo"`
}

// apply adds the present filters to the query. Absent activo defaults to
// active-only rows.
func (q *ProductListQuery) apply(tx *gorm.DB) *gorm.DB {
	activo := true
	if q.Activo != nil {
		activo = *q.Activo
	}
	tx = tx.Where("productos.activo = ?", activo)
	if s := strings.TrimSpace(q.Search); s != "" {
		like := "%" + s + "%"
		tx = tx.Where("(productos.nombre LIKE ? OR productos.descripcion LIKE ?)", like, like)
	}
	if q.Categoria != 0 {
		tx = tx.Where("productos.categoria_id = ?", q.Categoria)
	}
	if q.PrecioMin != nil {
		tx = tx.Where("productos.precio >= ?", *q.PrecioMin)
	}
	if q.PrecioMax != nil {
		tx = tx.Where("productos.precio <= ?", *q.PrecioMax)
	}
	return tx
}

// cacheKey encodes every filter so distinct pages never collide. Pointer
// filters are dereferenced so equal values always build the same key.
func (q *ProductListQuery) cacheKey() string {
	min, max, activo := "-", "-", "-"
	if q.PrecioMin != nil {
		min = strconv.FormatFloat(*q.PrecioMin, 'f', -1, 64)
	}
	if q.PrecioMax != nil {
		max = strconv.FormatFloat(*q.PrecioMax, 'f', -1, 64)
	}
	if q.Activo != nil {
		activo = strconv.FormatBool(*q.Activo)
	}
	return fmt.Sprintf("%s:page=%d:limit=%d:search=%s:cat=%d:min=%s:max=%s:activo=%s",
		productCachePrefix, q.Page, q.Limit, q.Search, q.Categoria, min, max, activo)
}

// productListData is the cached and returned list payload
type productListData struct {
	Products   []domain.Producto `json:"products"`   // Page of products
	Pagination Pagination        `json:"pagination"` // Page descriptor
}

// ProductRequest is the payload for product creation
type ProductRequest struct {
	Nombre      string   `json:"nombre" binding:"required,min=2,max=200"`        // Product name
	Descripcion *string  `json:"descripcion" binding:"omitempty,max=1000"`       // Optional description
	Precio      *float64 `json:"precio" binding:"required,gte=0"`                // Non-negative price
	CategoriaID uint     `json:"categoria_id" binding:"required,min=1"`          // Target category
	Imagen      *string  `json:"imagen" binding:"omitempty,max=255"`             // Optional image path
	Stock       *int     `json:"stock" binding:"omitempty,gte=0"`                // Optional initial stock
}

// ProductUpdateRequest is the partial-update payload. Every field is a
// pointer: absent fields (and explicit nulls, which look identical after
// decoding) leave the column untouched.
type ProductUpdateRequest struct {
	Nombre      *string  `json:"nombre" binding:"omitempty,min=2,max=200"`
	Descripcion *string  `json:"descripcion" binding:"omitempty,max=1000"`
	Precio      *float64 `json:"precio" binding:"omitempty,gte=0"`
	CategoriaID *uint    `json:"categoria_id" binding:"omitempty,min=1"`
	Imagen      *string  `json:"imagen" binding:"omitempty,max=255"`
	Stock       *int     `json:"stock" binding:"omitempty,gte=0"`
}

// updates collects the present fields into a column/value map
func (r *ProductUpdateRequest) updates() map[string]any {
	u := map[string]any{}
	if r.Nombre != nil {
		u["nombre"] = *r.Nombre
	}
	if r.Descripcion != nil {
		u["descripcion"] = *r.Descripcion
	}
	if r.Precio != nil {
		u["precio"] = *r.Precio
	}
	if r.CategoriaID != nil {
		u["categoria_id"] = *r.CategoriaID
	}
	if r.Imagen != nil {
		u["imagen"] = *r.Imagen
	}
	if r.Stock != nil {
		u["stock"] = *r.Stock
	}
	return u
}

// findProducto loads one product with its category name joined in
func findProducto(db *gorm.DB, id uint) (domain.Producto, error) {
	var p domain.Producto
	err := db.Model(&domain.Producto{}).
		Select(productColumns).
		Joins(productJoin).
		Where("productos.id = ?", id).
		First(&p).Error
	return p, err
}

// requireActiveCategory returns a 400 StatusError unless the category
// exists and is active
func requireActiveCategory(tx *gorm.DB, id uint) error {
	var count int64
	if err := tx.Model(&domain.Categoria{}).Where("id = ? AND activo = ?", id, true).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return &StatusError{Status: http.StatusBadRequest, Message: "Categoría no válida"}
	}
	return nil
}

// invalidateProductCache drops every cached product list page
func invalidateProductCache(ctx context.Context, rdb *redis.Client) {
	if err := utils.DeleteCacheByPrefix(ctx, rdb, productCachePrefix); err != nil {
		logrus.WithError(err).Warn("failed to invalidate product cache")
	}
}

// ListProductsHandler returns a filtered, paginated product page, served
// from Redis when a fresh copy exists
func ListProductsHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q ProductListQuery // Bind and validate query parameters
		if err := c.ShouldBindQuery(&q); err != nil {
			if errs := validation.Translate(err); errs != nil {
				respondValidation(c, errs)
				return
			}
			respondError(c, http.StatusBadRequest, "Parámetros de paginación inválidos")
			return
		}
		ctx := c.Request.Context()
		cacheKey := q.cacheKey()
		// Serve from cache when possible
		var cached productListData
		if found, err := utils.GetCache(ctx, rdb, cacheKey, &cached); err == nil && found {
			respondOK(c, "", cached)
			return
		}
		// Count total matching rows
		var total int64
		if err := q.apply(db.Model(&domain.Producto{})).Count(&total).Error; err != nil {
			_ = c.Error(err)
			return
		}
		// Fetch the requested page with the category name joined in
		var products []domain.Producto
		offset := (q.Page - 1) * q.Limit
		err := q.apply(db.Model(&domain.Producto{})).
			Select(productColumns).
			Joins(productJoin).
			Order("productos.fecha_creacion DESC").
			Limit(q.Limit).
			Offset(offset).
			Find(&products).Error
		if err != nil {
			_ = c.Error(err)
			return
		}
		data := productListData{
			Products:   products,
			Pagination: newPagination(q.Page, q.Limit, total),
		}
		// Cache the page for subsequent identical requests
		if err := utils.SetCache(ctx, rdb, cacheKey, data, listCacheTTL); err != nil {
			logrus.WithError(err).Warn("failed to cache product list")
		}
		respondOK(c, "", data)
	}
}

// GetProductHandler returns one product by id, active or not
func GetProductHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		product, err := findProducto(db, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				respondError(c, http.StatusNotFound, "Producto no encontrado")
				return
			}
			_ = c.Error(err)
			return
		}
		respondOK(c, "", gin.H{"product": product})
	}
}

// CreateProductHandler creates a product after checking, inside the same
// transaction, that its category exists and is active
func CreateProductHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ProductRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			if errs := validation.Translate(err); errs != nil {
				respondValidation(c, errs)
				return
			}
			_ = c.Error(err)
			return
		}
		stock := 0
		if req.Stock != nil {
			stock = *req.Stock
		}
		product := domain.Producto{
			Nombre:      req.Nombre,
			Descripcion: req.Descripcion,
			Precio:      *req.Precio,
			CategoriaID: req.CategoriaID,
			Imagen:      req.Imagen,
			Stock:       stock,
			Activo:      true, // New products start active
		}
		// Category guard and insert under one transaction
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := requireActiveCategory(tx, req.CategoriaID); err != nil {
				return err
			}
			return tx.Create(&product).Error
		})
		if err != nil {
			_ = c.Error(err)
			return
		}
		invalidateProductCache(c.Request.Context(), rdb)
		// Re-read with the category name joined in
		created, err := findProducto(db, product.ID)
		if err != nil {
			_ = c.Error(err)
			return
		}
		respondCreated(c, "Producto creado exitosamente", gin.H{"product": created})
	}
}

// UpdateProductHandler applies a partial update to a product
func UpdateProductHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		var req ProductUpdateRequest // Bind JSON request to struct
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
			// Verify the product exists
			var existing domain.Producto
			if err := tx.Select("id").First(&existing, id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &StatusError{Status: http.StatusNotFound, Message: "Producto no encontrado"}
				}
				return err
			}
			// Re-guard the category when it changes
			if req.CategoriaID != nil {
				if err := requireActiveCategory(tx, *req.CategoriaID); err != nil {
					return err
				}
			}
			return tx.Model(&domain.Producto{}).Where("id = ?", id).Updates(updates).Error
		})
		if err != nil {
			_ = c.Error(err)
			return
		}
		invalidateProductCache(c.Request.Context(), rdb)
		updated, err := findProducto(db, id)
		if err != nil {
			_ = c.Error(err)
			return
		}
		respondOK(c, "Producto actualizado exitosamente", gin.H{"product": updated})
	}
}

// StatusRequest is the payload for the active-flag toggle endpoints
type StatusRequest struct {
	Activo *bool `json:"activo" binding:"required"` // Desired active state
}

// ProductStatusHandler flips a product's active flag
func ProductStatusHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
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
		// Verify the product exists
		var existing domain.Producto
		if err := db.Select("id").First(&existing, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				respondError(c, http.StatusNotFound, "Producto no encontrado")
				return
			}
			_ = c.Error(err)
			return
		}
		if err := db.Model(&domain.Producto{}).Where("id = ?", id).Update("activo", *req.Activo).Error; err != nil {
			_ = c.Error(err)
			return
		}
		invalidateProductCache(c.Request.Context(), rdb)
		respondOK(c, statusMessage("Producto", *req.Activo), nil)
	}
}

// DeleteProductHandler hard-deletes a product
func DeleteProductHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		// Verify the product exists
		var existing domain.Producto
		if err := db.Select("id").First(&existing, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				respondError(c, http.StatusNotFound, "Producto no encontrado")
				return
			}
			_ = c.Error(err)
			return
		}
		if err := db.Delete(&domain.Producto{}, id).Error; err != nil {
			_ = c.Error(err)
			return
		}
		invalidateProductCache(c.Request.Context(), rdb)
		respondOK(c, "Producto eliminado exitosamente", nil)
	}
}

// statusMessage builds the activar/desactivar success message
func statusMessage(entity string, activo bool) string {
	if activo {
		return entity + " activado exitosamente"
	}
	return entity + " desactivado exitosamente"
}
