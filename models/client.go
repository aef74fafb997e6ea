package models

import "time"

// PlaceholderValue marks required client fields that the user has not
// supplied yet. Rows carrying it are created on demand the first time a
// client-role user touches a profile, rental or sale endpoint.
const PlaceholderValue = "PENDIENTE"

type Client struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	DocumentoIdentidad string     `gorm:"column:documento_identidad;size:20;unique;not null" json:"documento_identidad"`
	Telefono           string     `gorm:"size:20" json:"telefono"`
	Direccion          string     `gorm:"size:255" json:"direccion"`
	FechaNacimiento    *time.Time `gorm:"column:fecha_nacimiento;type:date" json:"fecha_nacimiento"`
	Profesion          string     `gorm:"size:100" json:"profesion"`
	EstadoCivil        string     `gorm:"column:estado_civil;type:varchar(20)" json:"estado_civil"`
	IngresosMensuales  float64    `gorm:"column:ingresos_mensuales;type:decimal(12,2)" json:"ingresos_mensuales"`
	Preferencias       string     `gorm:"type:text" json:"preferencias"`
	IDUsuario          uint       `gorm:"column:id_usuario;uniqueIndex;not null" json:"id_usuario"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`

	Usuario *User `gorm:"foreignKey:IDUsuario;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"usuario,omitempty"`
}

func (Client) TableName() string {
	return "clients"
}
