package domain

import "time"

// Categoria Model (tabla categorias)
type Categoria struct {
	ID            uint      `gorm:"primaryKey" json:"id"`                  // Primary key
	Nombre        string    `gorm:"size:100;unique;not null" json:"nombre"` // Unique category name
	Descripcion   *string   `gorm:"size:500" json:"descripcion"`           // Optional description
	Activo        bool      `gorm:"default:true" json:"activo"`            // Active flag
	FechaCreacion time.Time `gorm:"autoCreateTime" json:"fecha_creacion"`  // Creation timestamp
}

// TableName keeps the original Spanish table name
func (Categoria) TableName() string { return "categorias" }
