package models

import "time"

// Sale status values.
const (
	SalePendiente  = "pendiente"
	SaleFinalizada = "finalizada"
	SaleCancelada  = "cancelada"
)

// Payment forms.
const (
	PagoContado = "contado"
	PagoCredito = "credito"
	PagoMixto   = "mixto"
)

type Sale struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	IDPropiedad        uint      `gorm:"column:id_propiedad;not null;index" json:"id_propiedad"`
	IDCliente          uint      `gorm:"column:id_cliente;not null;index" json:"id_cliente"`
	FechaVenta         time.Time `gorm:"column:fecha_venta;not null" json:"fecha_venta"`
	MontoTotal         float64   `gorm:"column:monto_total;type:decimal(15,2);not null" json:"monto_total"`
	MontoComision      float64   `gorm:"column:monto_comision;type:decimal(12,2)" json:"monto_comision"`
	PorcentajeComision float64   `gorm:"column:porcentaje_comision;type:decimal(5,2)" json:"porcentaje_comision"`
	Estado             string    `gorm:"type:varchar(20);not null;default:pendiente;index" json:"estado"`
	Observaciones      string    `gorm:"type:text" json:"observaciones"`
	FormaPago          string    `gorm:"column:forma_pago;type:varchar(20)" json:"forma_pago"`
	NumeroEscritura    string    `gorm:"column:numero_escritura;size:50;uniqueIndex" json:"numero_escritura"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`

	Propiedad *Property `gorm:"foreignKey:IDPropiedad;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"propiedad,omitempty"`
	Cliente   *Client   `gorm:"foreignKey:IDCliente;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"cliente,omitempty"`
}

func (Sale) TableName() string {
	return "sales"
}
