// Package lifecycle keeps Property.estado consistent with the rental and
// sale agreements that target each property. Every multi-step operation
// (ensure client, create agreement, flip property status) runs inside one
// transaction, and the availability check is a conditional update so two
// concurrent requests for the same property cannot both succeed.
package lifecycle

import (
	"errors"
	"fmt"
	"time"

	"inmobiliaria-server/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrPropertyNotFound    = errors.New("propiedad no encontrada")
	ErrPropertyUnavailable = errors.New("propiedad no disponible")
	ErrRentalNotFound      = errors.New("alquiler no encontrado")
	ErrSaleNotFound        = errors.New("venta no encontrada")
	ErrUserNotFound        = errors.New("usuario no encontrado")
	ErrClientNotFound      = errors.New("cliente no encontrado")
	ErrInvalidDates        = errors.New("la fecha de fin debe ser posterior a la fecha de inicio")
	ErrInvalidAmount       = errors.New("el monto no puede ser negativo")
)

// RentInput carries the financial terms for a new rental contract.
// Deposit and admin fee default from the monthly amount when nil.
type RentInput struct {
	PropertyID           uint
	FechaInicio          time.Time
	FechaFin             time.Time
	MontoMensual         float64
	MontoDeposito        *float64
	MontoAdministracion  *float64
	RenovacionAutomatica bool
	ServiciosIncluidos   []string
	Observaciones        string
}

// PurchaseInput carries the terms for a new sale. MontoTotal defaults to
// the property's listed price when nil.
type PurchaseInput struct {
	PropertyID    uint
	MontoTotal    *float64
	FormaPago     string
	Observaciones string
}

// EnsureClient returns the Client row for the user, creating a placeholder
// row when none exists yet. The user must already exist.
func EnsureClient(db *gorm.DB, userID uint) (*models.Client, error) {
	var client models.Client
	err := db.Transaction(func(tx *gorm.DB) error {
		c, err := ensureClient(tx, userID)
		if err != nil {
			return err
		}
		client = *c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func ensureClient(tx *gorm.DB, userID uint) (*models.Client, error) {
	var user models.User
	if err := tx.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	var client models.Client
	err := tx.Where(models.Client{IDUsuario: userID}).
		Attrs(models.Client{
			DocumentoIdentidad: models.PlaceholderValue,
			Telefono:           models.PlaceholderValue,
			Direccion:          models.PlaceholderValue,
		}).
		FirstOrCreate(&client).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

// RentProperty processes a self-service rental: the property must be
// available, a client row is ensured for the user, and the property flips
// to "alquilada" in the same transaction as the new contract.
func RentProperty(db *gorm.DB, userID uint, in RentInput) (*models.Rental, error) {
	if !in.FechaFin.After(in.FechaInicio) {
		return nil, ErrInvalidDates
	}
	if in.MontoMensual < 0 || (in.MontoDeposito != nil && *in.MontoDeposito < 0) ||
		(in.MontoAdministracion != nil && *in.MontoAdministracion < 0) {
		return nil, ErrInvalidAmount
	}

	var rental models.Rental
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := claimProperty(tx, in.PropertyID, models.EstadoAlquilada); err != nil {
			return err
		}

		client, err := ensureClient(tx, userID)
		if err != nil {
			return err
		}

		rental = buildRental(client.ID, in)
		rental.Estado = models.RentalActivo
		return tx.Create(&rental).Error
	})
	if err != nil {
		return nil, err
	}

	return loadRental(db, rental.ID)
}

// CreateRental registers a rental contract on behalf of an existing client
// (admin/agent flow). The same availability gate applies.
func CreateRental(db *gorm.DB, clientID uint, in RentInput) (*models.Rental, error) {
	if !in.FechaFin.After(in.FechaInicio) {
		return nil, ErrInvalidDates
	}
	if in.MontoMensual < 0 {
		return nil, ErrInvalidAmount
	}

	var rental models.Rental
	err := db.Transaction(func(tx *gorm.DB) error {
		var client models.Client
		if err := tx.First(&client, clientID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrClientNotFound
			}
			return err
		}

		if err := claimProperty(tx, in.PropertyID, models.EstadoAlquilada); err != nil {
			return err
		}

		rental = buildRental(client.ID, in)
		rental.Estado = models.RentalActivo
		return tx.Create(&rental).Error
	})
	if err != nil {
		return nil, err
	}

	return loadRental(db, rental.ID)
}

// PurchaseProperty processes a self-service purchase. Commission defaults
// to 3% of the sale price.
func PurchaseProperty(db *gorm.DB, userID uint, in PurchaseInput) (*models.Sale, error) {
	if in.MontoTotal != nil && *in.MontoTotal < 0 {
		return nil, ErrInvalidAmount
	}

	var sale models.Sale
	err := db.Transaction(func(tx *gorm.DB) error {
		var property models.Property
		if err := tx.First(&property, in.PropertyID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPropertyNotFound
			}
			return err
		}

		if err := claimProperty(tx, in.PropertyID, models.EstadoVendida); err != nil {
			return err
		}

		client, err := ensureClient(tx, userID)
		if err != nil {
			return err
		}

		sale = buildSale(client.ID, property, in)
		sale.Estado = models.SaleFinalizada
		return tx.Create(&sale).Error
	})
	if err != nil {
		return nil, err
	}

	return loadSale(db, sale.ID)
}

// CreateSale registers a sale for an existing client (admin/agent flow).
func CreateSale(db *gorm.DB, clientID uint, in PurchaseInput) (*models.Sale, error) {
	if in.MontoTotal != nil && *in.MontoTotal < 0 {
		return nil, ErrInvalidAmount
	}

	var sale models.Sale
	err := db.Transaction(func(tx *gorm.DB) error {
		var client models.Client
		if err := tx.First(&client, clientID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrClientNotFound
			}
			return err
		}

		var property models.Property
		if err := tx.First(&property, in.PropertyID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPropertyNotFound
			}
			return err
		}

		if err := claimProperty(tx, in.PropertyID, models.EstadoVendida); err != nil {
			return err
		}

		sale = buildSale(client.ID, property, in)
		sale.Estado = models.SaleFinalizada
		return tx.Create(&sale).Error
	})
	if err != nil {
		return nil, err
	}

	return loadSale(db, sale.ID)
}

// CancelRental marks the contract cancelled and resets its property to
// "disponible". The reset is unconditional: it does not check for other
// non-cancelled agreements on the same property.
func CancelRental(db *gorm.DB, rentalID uint) (*models.Rental, error) {
	var rental models.Rental
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&rental, rentalID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRentalNotFound
			}
			return err
		}

		if err := tx.Model(&rental).Update("estado", models.RentalCancelado).Error; err != nil {
			return err
		}

		return releaseProperty(tx, rental.IDPropiedad)
	})
	if err != nil {
		return nil, err
	}
	return &rental, nil
}

// CancelSale marks the sale cancelled and resets its property.
func CancelSale(db *gorm.DB, saleID uint) (*models.Sale, error) {
	var sale models.Sale
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&sale, saleID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSaleNotFound
			}
			return err
		}

		if err := tx.Model(&sale).Update("estado", models.SaleCancelada).Error; err != nil {
			return err
		}

		return releaseProperty(tx, sale.IDPropiedad)
	})
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

// RemoveSale deletes the sale row entirely; the property is still reset.
func RemoveSale(db *gorm.DB, saleID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var sale models.Sale
		if err := tx.First(&sale, saleID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSaleNotFound
			}
			return err
		}

		if err := tx.Delete(&sale).Error; err != nil {
			return err
		}

		return releaseProperty(tx, sale.IDPropiedad)
	})
}

// claimProperty flips an available property to the occupied state. The
// WHERE clause on the current state turns a lost race into zero affected
// rows instead of a double booking.
func claimProperty(tx *gorm.DB, propertyID uint, newState string) error {
	var property models.Property
	if err := tx.First(&property, propertyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPropertyNotFound
		}
		return err
	}

	res := tx.Model(&models.Property{}).
		Where("id = ? AND estado = ?", propertyID, models.EstadoDisponible).
		Update("estado", newState)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrPropertyUnavailable
	}
	return nil
}

func releaseProperty(tx *gorm.DB, propertyID uint) error {
	return tx.Model(&models.Property{}).
		Where("id = ?", propertyID).
		Update("estado", models.EstadoDisponible).Error
}

func buildRental(clientID uint, in RentInput) models.Rental {
	deposito := in.MontoMensual * 2
	if in.MontoDeposito != nil {
		deposito = *in.MontoDeposito
	}
	administracion := in.MontoMensual * 0.1
	if in.MontoAdministracion != nil {
		administracion = *in.MontoAdministracion
	}
	servicios := in.ServiciosIncluidos
	if servicios == nil {
		servicios = []string{}
	}

	return models.Rental{
		IDPropiedad:          in.PropertyID,
		IDCliente:            clientID,
		FechaInicio:          in.FechaInicio,
		FechaFin:             in.FechaFin,
		MontoMensual:         in.MontoMensual,
		MontoDeposito:        deposito,
		MontoAdministracion:  administracion,
		RenovacionAutomatica: in.RenovacionAutomatica,
		ServiciosIncluidos:   servicios,
		Observaciones:        in.Observaciones,
		NumeroContrato:       fmt.Sprintf("CTR-%s", uuid.New().String()),
	}
}

func buildSale(clientID uint, property models.Property, in PurchaseInput) models.Sale {
	total := property.Precio
	if in.MontoTotal != nil {
		total = *in.MontoTotal
	}
	formaPago := in.FormaPago
	if formaPago == "" {
		formaPago = models.PagoContado
	}

	return models.Sale{
		IDPropiedad:        property.ID,
		IDCliente:          clientID,
		FechaVenta:         time.Now(),
		MontoTotal:         total,
		MontoComision:      total * 0.03,
		PorcentajeComision: 3,
		FormaPago:          formaPago,
		Observaciones:      in.Observaciones,
		NumeroEscritura:    fmt.Sprintf("ESC-%s", uuid.New().String()),
	}
}

func loadRental(db *gorm.DB, id uint) (*models.Rental, error) {
	var rental models.Rental
	err := db.Preload("Propiedad").Preload("Cliente").First(&rental, id).Error
	if err != nil {
		return nil, err
	}
	return &rental, nil
}

func loadSale(db *gorm.DB, id uint) (*models.Sale, error) {
	var sale models.Sale
	err := db.Preload("Propiedad").Preload("Cliente").First(&sale, id).Error
	if err != nil {
		return nil, err
	}
	return &sale, nil
}
