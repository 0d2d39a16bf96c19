package domain

import "time"

// Pedido Model (tabla pedidos). The table is part of the schema but no
// handler exposes it yet; checkout still happens client-side.
type Pedido struct {
	ID            uint      `gorm:"primaryKey" json:"id"`                      // Primary key
	UsuarioID     uint      `gorm:"not null;index" json:"usuario_id"`          // Foreign key to Usuario
	Total         float64   `gorm:"type:decimal(10,2);not null" json:"total"`  // Order total
	Estado        string    `gorm:"size:20;default:pendiente" json:"estado"`   // Order state
	FechaCreacion time.Time `gorm:"autoCreateTime" json:"fecha_creacion"`      // Creation timestamp
}

// TableName keeps the original Spanish table name
func (Pedido) TableName() string { return "pedidos" }
