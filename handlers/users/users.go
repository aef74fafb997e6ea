package users

import (
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

// Profile returns the authenticated user's own account, with the linked
// client record when one exists. The password hash never leaves the model.
func (h *Handler) Profile(c *gin.Context) {
	current, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token no proporcionado"})
		return
	}

	var user models.User
	if err := h.DB.Preload("DatosCliente").First(&user, current.ID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Usuario no encontrado"})
		return
	}

	c.JSON(http.StatusOK, user)
}
