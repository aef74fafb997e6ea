package sales

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

type Handler struct {
	DB *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{DB: db}
}

// Create registers a sale for an existing client (admin/agent flow).
func (h *Handler) Create(c *gin.Context) {
	var input struct {
		IDPropiedad uint     `json:"id_propiedad" binding:"required"`
		IDCliente   uint     `json:"id_cliente" binding:"required"`
		MontoTotal  *float64 `json:"monto_total" binding:"omitempty,gte=0"`
		FormaPago   string   `json:"forma_pago" binding:"omitempty,oneof=contado credito mixto"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sale, err := lifecycle.CreateSale(h.DB, input.IDCliente, lifecycle.PurchaseInput{
		PropertyID: input.IDPropiedad,
		MontoTotal: input.MontoTotal,
		FormaPago:  input.FormaPago,
	})
	if err != nil {
		respondLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, sale)
}

// GetByUser lists the sales of a user's client record, newest first.
func (h *Handler) GetByUser(c *gin.Context) {
	var client models.Client
	if err := h.DB.Where("id_usuario = ?", c.Param("id_usuario")).First(&client).Error; err != nil {
		c.JSON(http.StatusOK, []models.Sale{})
		return
	}

	var sales []models.Sale
	err := h.DB.Where("id_cliente = ?", client.ID).
		Preload("Propiedad").
		Preload("Cliente").
		Order("fecha_venta DESC").
		Find(&sales).Error
	if err != nil {
		log.Printf("Failed to fetch sales for user %s: %v", c.Param("id_usuario"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al obtener las ventas"})
		return
	}

	c.JSON(http.StatusOK, sales)
}

// Update modifies a sale. Admin/agent only.
func (h *Handler) Update(c *gin.Context) {
	var sale models.Sale
	if err := h.DB.First(&sale, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Venta no encontrada"})
		return
	}

	var input struct {
		FechaVenta         *string  `json:"fecha_venta"`
		MontoTotal         *float64 `json:"monto_total" binding:"omitempty,gte=0"`
		MontoComision      *float64 `json:"monto_comision" binding:"omitempty,gte=0"`
		PorcentajeComision *float64 `json:"porcentaje_comision" binding:"omitempty,gte=0,lte=100"`
		Estado             *string  `json:"estado" binding:"omitempty,oneof=pendiente finalizada cancelada"`
		Observaciones      *string  `json:"observaciones"`
		FormaPago          *string  `json:"forma_pago" binding:"omitempty,oneof=contado credito mixto"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if input.FechaVenta != nil {
		parsed, err := time.Parse(time.RFC3339, *input.FechaVenta)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Fecha de venta inválida"})
			return
		}
		updates["fecha_venta"] = parsed
	}
	if input.MontoTotal != nil {
		updates["monto_total"] = *input.MontoTotal
	}
	if input.MontoComision != nil {
		updates["monto_comision"] = *input.MontoComision
	}
	if input.PorcentajeComision != nil {
		updates["porcentaje_comision"] = *input.PorcentajeComision
	}
	if input.Estado != nil {
		updates["estado"] = *input.Estado
	}
	if input.Observaciones != nil {
		updates["observaciones"] = *input.Observaciones
	}
	if input.FormaPago != nil {
		updates["forma_pago"] = *input.FormaPago
	}

	if len(updates) > 0 {
		if err := h.DB.Model(&sale).Updates(updates).Error; err != nil {
			log.Printf("Failed to update sale %d: %v", sale.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al actualizar la venta"})
			return
		}
	}

	c.JSON(http.StatusOK, sale)
}

// Cancel marks the sale cancelled and frees the property.
func (h *Handler) Cancel(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID inválido"})
		return
	}

	if _, err := lifecycle.CancelSale(h.DB, uint(id)); err != nil {
		respondLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Venta cancelada y propiedad disponible nuevamente"})
}

// Remove hard-deletes the sale row; the property is still reset. Admin only.
func (h *Handler) Remove(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID inválido"})
		return
	}

	if err := lifecycle.RemoveSale(h.DB, uint(id)); err != nil {
		respondLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Venta eliminada completamente y propiedad disponible nuevamente"})
}

// Purchase is the self-service flow for client-role users. The sale amount
// defaults to the listed price and commission to 3% of it.
func (h *Handler) Purchase(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token no proporcionado"})
		return
	}
	if user.Rol != models.RolCliente {
		c.JSON(http.StatusForbidden, gin.H{"error": "Solo los clientes pueden comprar propiedades"})
		return
	}

	var input struct {
		IDPropiedad uint `json:"id_propiedad" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sale, err := lifecycle.PurchaseProperty(h.DB, user.ID, lifecycle.PurchaseInput{
		PropertyID:    input.IDPropiedad,
		Observaciones: "Compra realizada desde la aplicación web",
	})
	if err != nil {
		respondLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "¡Compra procesada exitosamente!",
		"sale":    sale,
	})
}

func respondLifecycleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, lifecycle.ErrPropertyNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Propiedad no encontrada"})
	case errors.Is(err, lifecycle.ErrPropertyUnavailable):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Esta propiedad ya no está disponible"})
	case errors.Is(err, lifecycle.ErrSaleNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Venta no encontrada"})
	case errors.Is(err, lifecycle.ErrClientNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Cliente no encontrado"})
	case errors.Is(err, lifecycle.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Usuario no encontrado"})
	case errors.Is(err, lifecycle.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Los montos no pueden ser negativos"})
	default:
		log.Printf("Sale operation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al procesar la venta"})
	}
}
