package properties

import (
	"log"
	"net/http"

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

// List is the public browse endpoint. Without an explicit estado filter it
// returns only available properties.
func (h *Handler) List(c *gin.Context) {
	query := h.DB.Preload("Agente")

	estado := c.Query("estado")
	if estado == "" {
		estado = models.EstadoDisponible
	}
	query = query.Where("estado = ?", estado)

	if tipo := c.Query("tipo"); tipo != "" {
		query = query.Where("tipo = ?", tipo)
	}
	if disponibilidad := c.Query("disponibilidad"); disponibilidad != "" {
		query = query.Where("disponibilidad = ?", disponibilidad)
	}

	var properties []models.Property
	if err := query.Find(&properties).Error; err != nil {
		log.Printf("Failed to fetch properties: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al obtener las propiedades"})
		return
	}

	c.JSON(http.StatusOK, properties)
}

// Create registers a listing owned by the authenticated agent.
func (h *Handler) Create(c *gin.Context) {
	var input struct {
		Direccion       string   `json:"direccion" binding:"required,min=5,max=255"`
		Tipo            string   `json:"tipo" binding:"required,oneof=casa apartamento local oficina terreno loft"`
		Precio          float64  `json:"precio" binding:"required,gte=0"`
		Estado          string   `json:"estado" binding:"omitempty,oneof=disponible alquilada vendida reservada"`
		Descripcion     string   `json:"descripcion"`
		Tamano          float64  `json:"tamano" binding:"omitempty,gte=0"`
		Habitaciones    int      `json:"habitaciones" binding:"omitempty,gte=0,lte=20"`
		Banos           int      `json:"banos" binding:"omitempty,gte=0,lte=10"`
		Garajes         int      `json:"garajes" binding:"omitempty,gte=0,lte=10"`
		Ciudad          string   `json:"ciudad"`
		CodigoPostal    string   `json:"codigo_postal"`
		Imagenes        []string `json:"imagenes"`
		Caracteristicas []string `json:"caracteristicas"`
		Disponibilidad  string   `json:"disponibilidad" binding:"omitempty,oneof=venta alquiler ambos"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token no proporcionado"})
		return
	}

	estado := input.Estado
	if estado == "" {
		estado = models.EstadoDisponible
	}
	disponibilidad := input.Disponibilidad
	if disponibilidad == "" {
		disponibilidad = models.DisponibilidadAmbos
	}

	property := models.Property{
		Direccion:       input.Direccion,
		Tipo:            input.Tipo,
		Precio:          input.Precio,
		Estado:          estado,
		Descripcion:     input.Descripcion,
		Tamano:          input.Tamano,
		Habitaciones:    input.Habitaciones,
		Banos:           input.Banos,
		Garajes:         input.Garajes,
		Ciudad:          input.Ciudad,
		CodigoPostal:    input.CodigoPostal,
		Imagenes:        input.Imagenes,
		Caracteristicas: input.Caracteristicas,
		Disponibilidad:  disponibilidad,
		IDAgente:        user.ID,
	}

	if err := h.DB.Create(&property).Error; err != nil {
		log.Printf("Failed to create property: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al crear la propiedad"})
		return
	}

	c.JSON(http.StatusCreated, property)
}

// Update applies the whitelisted listing fields that were supplied.
func (h *Handler) Update(c *gin.Context) {
	var property models.Property
	if err := h.DB.First(&property, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Propiedad no encontrada"})
		return
	}

	var input struct {
		Direccion       *string  `json:"direccion" binding:"omitempty,min=5,max=255"`
		Tipo            *string  `json:"tipo" binding:"omitempty,oneof=casa apartamento local oficina terreno loft"`
		Precio          *float64 `json:"precio" binding:"omitempty,gte=0"`
		Estado          *string  `json:"estado" binding:"omitempty,oneof=disponible alquilada vendida reservada"`
		Descripcion     *string  `json:"descripcion"`
		Tamano          *float64 `json:"tamano" binding:"omitempty,gte=0"`
		Habitaciones    *int     `json:"habitaciones" binding:"omitempty,gte=0,lte=20"`
		Banos           *int     `json:"banos" binding:"omitempty,gte=0,lte=10"`
		Garajes         *int     `json:"garajes" binding:"omitempty,gte=0,lte=10"`
		Ciudad          *string  `json:"ciudad"`
		CodigoPostal    *string  `json:"codigo_postal"`
		Imagenes        []string `json:"imagenes"`
		Caracteristicas []string `json:"caracteristicas"`
		Disponibilidad  *string  `json:"disponibilidad" binding:"omitempty,oneof=venta alquiler ambos"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if input.Direccion != nil {
		updates["direccion"] = *input.Direccion
	}
	if input.Tipo != nil {
		updates["tipo"] = *input.Tipo
	}
	if input.Precio != nil {
		updates["precio"] = *input.Precio
	}
	if input.Estado != nil {
		updates["estado"] = *input.Estado
	}
	if input.Descripcion != nil {
		updates["descripcion"] = *input.Descripcion
	}
	if input.Tamano != nil {
		updates["tamano"] = *input.Tamano
	}
	if input.Habitaciones != nil {
		updates["habitaciones"] = *input.Habitaciones
	}
	if input.Banos != nil {
		updates["banos"] = *input.Banos
	}
	if input.Garajes != nil {
		updates["garajes"] = *input.Garajes
	}
	if input.Ciudad != nil {
		updates["ciudad"] = *input.Ciudad
	}
	if input.CodigoPostal != nil {
		updates["codigo_postal"] = *input.CodigoPostal
	}
	if input.Disponibilidad != nil {
		updates["disponibilidad"] = *input.Disponibilidad
	}

	if len(updates) > 0 {
		if err := h.DB.Model(&property).Updates(updates).Error; err != nil {
			log.Printf("Failed to update property %d: %v", property.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al actualizar la propiedad"})
			return
		}
	}

	// JSON list columns go through the model so the serializer applies.
	if input.Imagenes != nil {
		property.Imagenes = input.Imagenes
	}
	if input.Caracteristicas != nil {
		property.Caracteristicas = input.Caracteristicas
	}
	if input.Imagenes != nil || input.Caracteristicas != nil {
		if err := h.DB.Save(&property).Error; err != nil {
			log.Printf("Failed to update property %d: %v", property.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al actualizar la propiedad"})
			return
		}
	}

	if err := h.DB.First(&property, property.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al actualizar la propiedad"})
		return
	}

	c.JSON(http.StatusOK, property)
}

// Delete removes a listing. Admin only.
func (h *Handler) Delete(c *gin.Context) {
	var property models.Property
	if err := h.DB.First(&property, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Propiedad no encontrada"})
		return
	}

	if err := h.DB.Delete(&property).Error; err != nil {
		log.Printf("Failed to delete property %d: %v", property.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al eliminar la propiedad"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Propiedad eliminada"})
}
