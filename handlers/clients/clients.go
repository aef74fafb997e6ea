package clients

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"inmobiliaria-server/lifecycle"
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

// List returns every client with its linked user account.
func (h *Handler) List(c *gin.Context) {
	var clients []models.Client
	if err := h.DB.Preload("Usuario").Find(&clients).Error; err != nil {
		log.Printf("Failed to fetch clients: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al obtener los clientes"})
		return
	}
	c.JSON(http.StatusOK, clients)
}

// Create registers a client record for an existing user (admin/agent flow).
func (h *Handler) Create(c *gin.Context) {
	var input struct {
		DocumentoIdentidad string `json:"documento_identidad" binding:"required,min=5,max=20"`
		Telefono           string `json:"telefono"`
		IDUsuario          uint   `json:"id_usuario" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := h.DB.First(&user, input.IDUsuario).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Usuario no encontrado"})
		return
	}

	client := models.Client{
		DocumentoIdentidad: input.DocumentoIdentidad,
		Telefono:           input.Telefono,
		IDUsuario:          input.IDUsuario,
	}

	if err := h.DB.Create(&client).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Error al crear el cliente"})
		return
	}

	c.JSON(http.StatusCreated, client)
}

// Update modifies a client record by id.
func (h *Handler) Update(c *gin.Context) {
	var client models.Client
	if err := h.DB.First(&client, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cliente no encontrado"})
		return
	}

	updates, errMsg := bindProfileUpdates(c)
	if errMsg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": errMsg})
		return
	}

	if len(updates) > 0 {
		if err := h.DB.Model(&client).Updates(updates).Error; err != nil {
			log.Printf("Failed to update client %d: %v", client.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al actualizar el cliente"})
			return
		}
	}

	c.JSON(http.StatusOK, client)
}

// Delete removes a client record. Admin only.
func (h *Handler) Delete(c *gin.Context) {
	var client models.Client
	if err := h.DB.First(&client, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cliente no encontrado"})
		return
	}

	if err := h.DB.Delete(&client).Error; err != nil {
		log.Printf("Failed to delete client %d: %v", client.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al eliminar el cliente"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cliente eliminado"})
}

// GetProfile returns the client profile for a user, creating a placeholder
// row on first access.
func (h *Handler) GetProfile(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id_usuario"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de usuario inválido"})
		return
	}

	client, err := lifecycle.EnsureClient(h.DB, uint(userID))
	if err != nil {
		if errors.Is(err, lifecycle.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Usuario no encontrado"})
			return
		}
		log.Printf("Failed to load client profile for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al obtener el perfil"})
		return
	}

	var withUser models.Client
	if err := h.DB.Preload("Usuario").First(&withUser, client.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al obtener el perfil"})
		return
	}

	c.JSON(http.StatusOK, withUser)
}

// UpdateProfile modifies the client profile belonging to a user.
func (h *Handler) UpdateProfile(c *gin.Context) {
	var client models.Client
	if err := h.DB.Where("id_usuario = ?", c.Param("id_usuario")).First(&client).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cliente no encontrado"})
		return
	}

	updates, errMsg := bindProfileUpdates(c)
	if errMsg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": errMsg})
		return
	}

	if len(updates) > 0 {
		if err := h.DB.Model(&client).Updates(updates).Error; err != nil {
			log.Printf("Failed to update profile for client %d: %v", client.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al actualizar el perfil"})
			return
		}
	}

	var withUser models.Client
	if err := h.DB.Preload("Usuario").First(&withUser, client.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al actualizar el perfil"})
		return
	}

	c.JSON(http.StatusOK, withUser)
}

func bindProfileUpdates(c *gin.Context) (map[string]interface{}, string) {
	var input struct {
		DocumentoIdentidad *string  `json:"documento_identidad" binding:"omitempty,min=5,max=20"`
		Telefono           *string  `json:"telefono"`
		Direccion          *string  `json:"direccion"`
		FechaNacimiento    *string  `json:"fecha_nacimiento"`
		Profesion          *string  `json:"profesion"`
		EstadoCivil        *string  `json:"estado_civil" binding:"omitempty,oneof=soltero casado divorciado viudo union_libre"`
		IngresosMensuales  *float64 `json:"ingresos_mensuales" binding:"omitempty,gte=0"`
		Preferencias       *string  `json:"preferencias"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		return nil, err.Error()
	}

	updates := map[string]interface{}{}
	if input.DocumentoIdentidad != nil {
		updates["documento_identidad"] = *input.DocumentoIdentidad
	}
	if input.Telefono != nil {
		updates["telefono"] = *input.Telefono
	}
	if input.Direccion != nil {
		updates["direccion"] = *input.Direccion
	}
	if input.FechaNacimiento != nil {
		fecha, err := time.Parse(dateLayout, *input.FechaNacimiento)
		if err != nil {
			return nil, "Fecha de nacimiento inválida"
		}
		if fecha.After(time.Now()) {
			return nil, "La fecha de nacimiento no puede ser futura"
		}
		updates["fecha_nacimiento"] = fecha
	}
	if input.Profesion != nil {
		updates["profesion"] = *input.Profesion
	}
	if input.EstadoCivil != nil {
		updates["estado_civil"] = *input.EstadoCivil
	}
	if input.IngresosMensuales != nil {
		updates["ingresos_mensuales"] = *input.IngresosMensuales
	}
	if input.Preferencias != nil {
		updates["preferencias"] = *input.Preferencias
	}

	return updates, ""
}
