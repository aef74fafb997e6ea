package models

import "time"

// Rental contract status values.
const (
	RentalActivo     = "activo"
	RentalFinalizado = "finalizado"
	RentalCancelado  = "cancelado"
	RentalPendiente  = "pendiente"
)

type Rental struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	IDPropiedad          uint      `gorm:"column:id_propiedad;not null;index" json:"id_propiedad"`
	IDCliente            uint      `gorm:"column:id_cliente;not null;index" json:"id_cliente"`
	FechaInicio          time.Time `gorm:"column:fecha_inicio;type:date;not null" json:"fecha_inicio"`
	FechaFin             time.Time `gorm:"column:fecha_fin;type:date;not null" json:"fecha_fin"`
	MontoMensual         float64   `gorm:"column:monto_mensual;type:decimal(12,2);not null" json:"monto_mensual"`
	MontoDeposito        float64   `gorm:"column:monto_deposito;type:decimal(12,2)" json:"monto_deposito"`
	MontoAdministracion  float64   `gorm:"column:monto_administracion;type:decimal(10,2)" json:"monto_administracion"`
	Estado               string    `gorm:"type:varchar(20);not null;default:pendiente;index" json:"estado"`
	Observaciones        string    `gorm:"type:text" json:"observaciones"`
	NumeroContrato       string    `gorm:"column:numero_contrato;size:50;uniqueIndex" json:"numero_contrato"`
	RenovacionAutomatica bool      `gorm:"column:renovacion_automatica;not null;default:false" json:"renovacion_automatica"`
	ServiciosIncluidos   []string  `gorm:"column:servicios_incluidos;serializer:json" json:"servicios_incluidos"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`

	Propiedad *Property `gorm:"foreignKey:IDPropiedad;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"propiedad,omitempty"`
	Cliente   *Client   `gorm:"foreignKey:IDCliente;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"cliente,omitempty"`
}

func (Rental) TableName() string {
	return "rentals"
}
