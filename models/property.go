package models

import "time"

// Property status values. "reservada" is declared in the schema but no
// automatic transition targets it; it is only reachable through a direct
// administrative update.
const (
	EstadoDisponible = "disponible"
	EstadoAlquilada  = "alquilada"
	EstadoVendida    = "vendida"
	EstadoReservada  = "reservada"
)

// Property types.
const (
	TipoCasa        = "casa"
	TipoApartamento = "apartamento"
	TipoLocal       = "local"
	TipoOficina     = "oficina"
	TipoTerreno     = "terreno"
	TipoLoft        = "loft"
)

// Listing intent: what the property is offered for.
const (
	DisponibilidadVenta    = "venta"
	DisponibilidadAlquiler = "alquiler"
	DisponibilidadAmbos    = "ambos"
)

type Property struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Direccion       string    `gorm:"size:255;not null" json:"direccion"`
	Tipo            string    `gorm:"type:varchar(20);not null;index" json:"tipo"`
	Precio          float64   `gorm:"type:decimal(15,2);not null" json:"precio"`
	Estado          string    `gorm:"type:varchar(20);not null;default:disponible;index" json:"estado"`
	Descripcion     string    `gorm:"type:text" json:"descripcion"`
	Tamano          float64   `gorm:"type:decimal(10,2)" json:"tamano"`
	Habitaciones    int       `json:"habitaciones"`
	Banos           int       `gorm:"column:banos" json:"banos"`
	Garajes         int       `json:"garajes"`
	Ciudad          string    `gorm:"size:100;index" json:"ciudad"`
	CodigoPostal    string    `gorm:"column:codigo_postal;size:10" json:"codigo_postal"`
	Imagenes        []string  `gorm:"serializer:json" json:"imagenes"`
	Caracteristicas []string  `gorm:"serializer:json" json:"caracteristicas"`
	Disponibilidad  string    `gorm:"type:varchar(20);not null;default:ambos;index" json:"disponibilidad"`
	IDAgente        uint      `gorm:"column:id_agente;not null;index" json:"id_agente"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	Agente *User `gorm:"foreignKey:IDAgente;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"agente,omitempty"`
}

func (Property) TableName() string {
	return "properties"
}
