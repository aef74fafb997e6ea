package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"time"

	"inmobiliaria-server/config"
	"inmobiliaria-server/models"
	"inmobiliaria-server/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const resetTokenValidity = time.Hour

type Handler struct {
	DB     *gorm.DB
	Cfg    config.Config
	Mailer utils.Mailer
}

func NewHandler(db *gorm.DB, cfg config.Config, mailer utils.Mailer) *Handler {
	return &Handler{DB: db, Cfg: cfg, Mailer: mailer}
}

// Register creates a new account. The role defaults to "cliente".
func (h *Handler) Register(c *gin.Context) {
	var input struct {
		Nombre     string `json:"nombre" binding:"required,min=2,max=100"`
		Correo     string `json:"correo" binding:"required,email"`
		Contrasena string `json:"contraseña" binding:"required,min=6"`
		Rol        string `json:"rol" binding:"omitempty,oneof=admin agente cliente"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos. Verifica nombre, correo y contraseña."})
		return
	}

	var existing models.User
	if err := h.DB.Where("correo = ?", input.Correo).First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Usuario ya existe"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Contrasena), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al procesar la contraseña"})
		return
	}

	rol := models.Role(input.Rol)
	if rol == "" {
		rol = models.RolCliente
	}

	user := models.User{
		Nombre:     input.Nombre,
		Correo:     input.Correo,
		Contrasena: string(hashedPassword),
		Rol:        rol,
		IsActive:   true,
	}

	if err := h.DB.Create(&user).Error; err != nil {
		log.Printf("Failed to create user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al crear el usuario"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Usuario creado exitosamente",
		"user": gin.H{
			"id":     user.ID,
			"nombre": user.Nombre,
			"correo": user.Correo,
			"rol":    user.Rol,
		},
	})
}

// Login verifies credentials and issues a time-boxed bearer token.
func (h *Handler) Login(c *gin.Context) {
	var input struct {
		Correo     string `json:"correo" binding:"required"`
		Contrasena string `json:"contraseña" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Correo y contraseña son requeridos"})
		return
	}

	var user models.User
	if err := h.DB.Where("correo = ?", input.Correo).First(&user).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Usuario no encontrado"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Contrasena), []byte(input.Contrasena)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Contraseña incorrecta"})
		return
	}

	token, err := utils.GenerateToken(h.Cfg.JWTSecret, user, h.Cfg.TokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo generar el token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":     user.ID,
			"nombre": user.Nombre,
			"correo": user.Correo,
			"rol":    user.Rol,
		},
	})
}

// ForgotPassword generates a one-time reset token and mails a reset link.
// The response is the same whether or not the account exists, so the
// endpoint cannot be used to enumerate registered email addresses.
func (h *Handler) ForgotPassword(c *gin.Context) {
	genericMessage := "Si el correo existe, recibirás un email con instrucciones para restablecer tu contraseña"

	var input struct {
		Correo string `json:"correo" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El correo es requerido"})
		return
	}

	var user models.User
	if err := h.DB.Where("correo = ?", input.Correo).First(&user).Error; err != nil {
		c.JSON(http.StatusOK, gin.H{"message": genericMessage})
		return
	}

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al procesar la solicitud de recuperación de contraseña"})
		return
	}
	resetToken := hex.EncodeToString(tokenBytes)
	expiry := time.Now().Add(resetTokenValidity)

	updates := map[string]interface{}{
		"reset_token":        resetToken,
		"reset_token_expiry": expiry,
	}
	if err := h.DB.Model(&user).Updates(updates).Error; err != nil {
		log.Printf("Failed to store reset token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al procesar la solicitud de recuperación de contraseña"})
		return
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", h.Cfg.FrontendURL, resetToken)
	if err := h.Mailer.SendPasswordReset(user.Correo, user.Nombre, resetURL); err != nil {
		// Delivery problems are logged, never surfaced to the caller.
		log.Printf("Failed to send password reset email to %s: %v", user.Correo, err)
	}

	c.JSON(http.StatusOK, gin.H{"message": genericMessage})
}

// ResetPassword consumes a reset token and stores the new password hash.
func (h *Handler) ResetPassword(c *gin.Context) {
	var input struct {
		Token      string `json:"token" binding:"required"`
		Contrasena string `json:"nuevaContraseña" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Token y nueva contraseña son requeridos"})
		return
	}

	if len(input.Contrasena) < 6 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "La contraseña debe tener al menos 6 caracteres"})
		return
	}

	var user models.User
	if err := h.DB.Where("reset_token = ?", input.Token).First(&user).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Token inválido o expirado"})
		return
	}

	if user.ResetTokenExpiry == nil || user.ResetTokenExpiry.Before(time.Now()) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Token inválido o expirado"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Contrasena), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al restablecer la contraseña"})
		return
	}

	updates := map[string]interface{}{
		"contraseña":         string(hashedPassword),
		"reset_token":        nil,
		"reset_token_expiry": nil,
	}
	if err := h.DB.Model(&user).Updates(updates).Error; err != nil {
		log.Printf("Failed to update password: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al restablecer la contraseña"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Contraseña restablecida exitosamente"})
}
