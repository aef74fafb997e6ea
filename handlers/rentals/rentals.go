package rentals

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"inmobiliaria-server/lifecycle"
	"inmobiliaria-server/middleware"
	"inmobiliaria-server/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

type Handler struct {
	DB *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{DB: db}
}

// Create registers a rental for an existing client (admin/agent flow).
func (h *Handler) Create(c *gin.Context) {
	var input struct {
		IDPropiedad  uint     `json:"id_propiedad" binding:"required"`
		IDCliente    uint     `json:"id_cliente" binding:"required"`
		FechaInicio  string   `json:"fecha_inicio" binding:"required"`
		FechaFin     string   `json:"fecha_fin" binding:"required"`
		MontoMensual *float64 `json:"monto_mensual" binding:"required,gte=0"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fechaInicio, err := time.Parse(dateLayout, input.FechaInicio)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fecha de inicio inválida"})
		return
	}
	fechaFin, err := time.Parse(dateLayout, input.FechaFin)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fecha de fin inválida"})
		return
	}

	rental, err := lifecycle.CreateRental(h.DB, input.IDCliente, lifecycle.RentInput{
		PropertyID:   input.IDPropiedad,
		FechaInicio:  fechaInicio,
		FechaFin:     fechaFin,
		MontoMensual: *input.MontoMensual,
	})
	if err != nil {
		respondLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, rental)
}

// GetByUser lists the rental contracts of a user's client record, newest
// first. Users without a client record get an empty list.
func (h *Handler) GetByUser(c *gin.Context) {
	var client models.Client
	if err := h.DB.Where("id_usuario = ?", c.Param("id_usuario")).First(&client).Error; err != nil {
		c.JSON(http.StatusOK, []models.Rental{})
		return
	}

	var rentals []models.Rental
	err := h.DB.Where("id_cliente = ?", client.ID).
		Preload("Propiedad").
		Preload("Cliente").
		Order("created_at DESC").
		Find(&rentals).Error
	if err != nil {
		log.Printf("Failed to fetch rentals for user %s: %v", c.Param("id_usuario"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al obtener los alquileres"})
		return
	}

	c.JSON(http.StatusOK, rentals)
}

// Update modifies a rental contract. Admin/agent only.
func (h *Handler) Update(c *gin.Context) {
	var rental models.Rental
	if err := h.DB.First(&rental, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Alquiler no encontrado"})
		return
	}

	var input struct {
		FechaInicio          *string  `json:"fecha_inicio"`
		FechaFin             *string  `json:"fecha_fin"`
		MontoMensual         *float64 `json:"monto_mensual" binding:"omitempty,gte=0"`
		MontoDeposito        *float64 `json:"monto_deposito" binding:"omitempty,gte=0"`
		MontoAdministracion  *float64 `json:"monto_administracion" binding:"omitempty,gte=0"`
		Estado               *string  `json:"estado" binding:"omitempty,oneof=activo finalizado cancelado pendiente"`
		Observaciones        *string  `json:"observaciones"`
		RenovacionAutomatica *bool    `json:"renovacion_automatica"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	fechaInicio := rental.FechaInicio
	fechaFin := rental.FechaFin
	if input.FechaInicio != nil {
		parsed, err := time.Parse(dateLayout, *input.FechaInicio)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Fecha de inicio inválida"})
			return
		}
		fechaInicio = parsed
		updates["fecha_inicio"] = parsed
	}
	if input.FechaFin != nil {
		parsed, err := time.Parse(dateLayout, *input.FechaFin)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Fecha de fin inválida"})
			return
		}
		fechaFin = parsed
		updates["fecha_fin"] = parsed
	}
	if !fechaFin.After(fechaInicio) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "La fecha de fin debe ser posterior a la fecha de inicio"})
		return
	}
	if input.MontoMensual != nil {
		updates["monto_mensual"] = *input.MontoMensual
	}
	if input.MontoDeposito != nil {
		updates["monto_deposito"] = *input.MontoDeposito
	}
	if input.MontoAdministracion != nil {
		updates["monto_administracion"] = *input.MontoAdministracion
	}
	if input.Estado != nil {
		updates["estado"] = *input.Estado
	}
	if input.Observaciones != nil {
		updates["observaciones"] = *input.Observaciones
	}
	if input.RenovacionAutomatica != nil {
		updates["renovacion_automatica"] = *input.RenovacionAutomatica
	}

	if len(updates) > 0 {
		if err := h.DB.Model(&rental).Updates(updates).Error; err != nil {
			log.Printf("Failed to update rental %d: %v", rental.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al actualizar el alquiler"})
			return
		}
	}

	c.JSON(http.StatusOK, rental)
}

// Cancel marks the contract cancelled and frees the property.
func (h *Handler) Cancel(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID inválido"})
		return
	}

	if _, err := lifecycle.CancelRental(h.DB, uint(id)); err != nil {
		respondLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Alquiler cancelado y propiedad disponible nuevamente"})
}

// Rent is the self-service flow for client-role users.
func (h *Handler) Rent(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token no proporcionado"})
		return
	}
	if user.Rol != models.RolCliente {
		c.JSON(http.StatusForbidden, gin.H{"error": "Solo los clientes pueden alquilar propiedades"})
		return
	}

	var input struct {
		IDPropiedad          uint     `json:"id_propiedad" binding:"required"`
		FechaInicio          string   `json:"fecha_inicio" binding:"required"`
		FechaFin             string   `json:"fecha_fin" binding:"required"`
		MontoMensual         *float64 `json:"monto_mensual" binding:"required,gte=0"`
		MontoDeposito        *float64 `json:"monto_deposito" binding:"omitempty,gte=0"`
		MontoAdministracion  *float64 `json:"monto_administracion" binding:"omitempty,gte=0"`
		RenovacionAutomatica bool     `json:"renovacion_automatica"`
		ServiciosIncluidos   []string `json:"servicios_incluidos"`
		Observaciones        string   `json:"observaciones"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fechaInicio, err := time.Parse(dateLayout, input.FechaInicio)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fecha de inicio inválida"})
		return
	}
	fechaFin, err := time.Parse(dateLayout, input.FechaFin)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fecha de fin inválida"})
		return
	}

	rental, err := lifecycle.RentProperty(h.DB, user.ID, lifecycle.RentInput{
		PropertyID:           input.IDPropiedad,
		FechaInicio:          fechaInicio,
		FechaFin:             fechaFin,
		MontoMensual:         *input.MontoMensual,
		MontoDeposito:        input.MontoDeposito,
		MontoAdministracion:  input.MontoAdministracion,
		RenovacionAutomatica: input.RenovacionAutomatica,
		ServiciosIncluidos:   input.ServiciosIncluidos,
		Observaciones:        input.Observaciones,
	})
	if err != nil {
		respondLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "¡Alquiler procesado exitosamente!",
		"rental":  rental,
	})
}

func respondLifecycleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, lifecycle.ErrPropertyNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Propiedad no encontrada"})
	case errors.Is(err, lifecycle.ErrPropertyUnavailable):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Esta propiedad ya no está disponible"})
	case errors.Is(err, lifecycle.ErrRentalNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Alquiler no encontrado"})
	case errors.Is(err, lifecycle.ErrClientNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Cliente no encontrado"})
	case errors.Is(err, lifecycle.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Usuario no encontrado"})
	case errors.Is(err, lifecycle.ErrInvalidDates):
		c.JSON(http.StatusBadRequest, gin.H{"error": "La fecha de fin debe ser posterior a la fecha de inicio"})
	case errors.Is(err, lifecycle.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Los montos no pueden ser negativos"})
	default:
		log.Printf("Rental operation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al procesar el alquiler"})
	}
}
