package models

import "time"

// Role enumerates the user roles known to the system.
type Role string

const (
	RolAdmin   Role = "admin"
	RolAgente  Role = "agente"
	RolCliente Role = "cliente"
)

type User struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	Nombre           string     `gorm:"size:100;not null" json:"nombre"`
	Correo           string     `gorm:"size:150;unique;not null" json:"correo"`
	Contrasena       string     `gorm:"column:contraseña;size:255;not null" json:"-"`
	Rol              Role       `gorm:"type:varchar(20);not null;index" json:"rol"`
	IsActive         bool       `gorm:"column:is_active;not null" json:"is_active"`
	Telefono         string     `gorm:"size:20" json:"telefono"`
	ResetToken       string     `gorm:"column:reset_token;size:255" json:"-"`
	ResetTokenExpiry *time.Time `gorm:"column:reset_token_expiry" json:"-"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	DatosCliente *Client `gorm:"foreignKey:IDUsuario" json:"datosCliente,omitempty"`
}

func (User) TableName() string {
	return "users"
}
