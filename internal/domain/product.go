package domain

import "time"

// Producto Model (tabla productos)
type Producto struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`                      // Primary key
	Nombre             string    `gorm:"size:200;not null" json:"nombre"`           // Product name
	Descripcion        *string   `gorm:"size:1000" json:"descripcion"`              // Optional description
	Precio             float64   `gorm:"type:decimal(10,2);not null" json:"precio"` // Non-negative price
	CategoriaID        uint      `gorm:"not null;index" json:"categoria_id"`        // Foreign key to Categoria
	CategoriaNombre    *string   `gorm:"->;-:migration" json:"categoria_nombre"`    // Joined category name, read-only
	Imagen             *string   `gorm:"size:255" json:"imagen"`                    // Optional image path
	Stock              int       `gorm:"not null;default:0" json:"stock"`           // Non-negative stock
	Activo             bool      `gorm:"default:true" json:"activo"`                // Active flag
	FechaCreacion      time.Time `gorm:"autoCreateTime" json:"fecha_creacion"`      // Creation timestamp
	FechaActualizacion time.Time `gorm:"autoUpdateTime" json:"fecha_actualizacion"` // Last update timestamp
}

// TableName keeps the original Spanish table name
func (Producto) TableName() string { return "productos" }
