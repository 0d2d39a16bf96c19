package domain

import "time"

// User roles
const (
	RolCliente = "cliente" // Regular customer
	RolAdmin   = "admin"   // Administrator
)

// Usuario Model (tabla usuarios)
type Usuario struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`                        // Primary key
	Nombre             string    `gorm:"size:100;not null" json:"nombre"`             // First name
	Apellido           string    `gorm:"size:100;not null" json:"apellido"`           // Last name
	Email              string    `gorm:"size:150;unique;not null" json:"email"`       // Unique email
	Password           string    `gorm:"size:255;not null" json:"-"`                  // Hashed password, never serialized
	Telefono           *string   `gorm:"size:20" json:"telefono"`                     // Optional phone
	Direccion          *string   `gorm:"size:500" json:"direccion"`                   // Optional address
	Ciudad             *string   `gorm:"size:100" json:"ciudad"`                      // Optional city
	CodigoPostal       *string   `gorm:"size:10" json:"codigo_postal"`                // Optional postal code
	Rol                string    `gorm:"size:20;default:cliente" json:"rol"`          // Role: cliente or admin
	Activo             bool      `gorm:"default:true" json:"activo"`                  // Active flag, soft-disable switch
	FechaCreacion      time.Time `gorm:"autoCreateTime" json:"fecha_creacion"`        // Creation timestamp
	FechaActualizacion time.Time `gorm:"autoUpdateTime" json:"fecha_actualizacion"`   // Last update timestamp
}

// TableName keeps the original Spanish table name
func (Usuario) TableName() string { return "usuarios" }

// IsAdmin reports whether the user has the administrator role
func (u *Usuario) IsAdmin() bool { return u.Rol == RolAdmin }

// Sanitize clears the credential fields before the user leaves the API
func (u *Usuario) Sanitize() {
	u.Password = ""
}
