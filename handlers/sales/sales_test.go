package sales

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"inmobiliaria-server/database"
	"inmobiliaria-server/lifecycle"
	"inmobiliaria-server/middleware"
	"inmobiliaria-server/models"
	"inmobiliaria-server/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testSecret = []byte("test-secret")

func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	handler := NewHandler(db)
	requireAuth := middleware.RequireAuth(db, testSecret)
	adminOnly := middleware.RequireRoles(models.RolAdmin)

	r := gin.New()
	group := r.Group("/api/sales")
	group.POST("", requireAuth, handler.Create)
	group.GET("/:id_usuario", requireAuth, handler.GetByUser)
	group.DELETE("/:id", requireAuth, handler.Cancel)
	group.DELETE("/:id/remove", requireAuth, adminOnly, handler.Remove)
	group.POST("/purchase", requireAuth, handler.Purchase)
	return r, db
}

func createUser(t *testing.T, db *gorm.DB, correo string, rol models.Role) (models.User, string) {
	user := models.User{
		Nombre:     "Usuario Test",
		Correo:     correo,
		Contrasena: "hashed",
		Rol:        rol,
		IsActive:   true,
	}
	require.NoError(t, db.Create(&user).Error)

	token, err := utils.GenerateToken(testSecret, user, time.Hour)
	require.NoError(t, err)
	return user, token
}

func createProperty(t *testing.T, db *gorm.DB, estado string) models.Property {
	agent := models.User{
		Nombre:     "Agente",
		Correo:     fmt.Sprintf("agente-%d@test.com", time.Now().UnixNano()),
		Contrasena: "hashed",
		Rol:        models.RolAgente,
		IsActive:   true,
	}
	require.NoError(t, db.Create(&agent).Error)

	property := models.Property{
		Direccion:      "Av. Siempre Viva 742",
		Tipo:           models.TipoCasa,
		Precio:         150000,
		Estado:         estado,
		Disponibilidad: models.DisponibilidadVenta,
		IDAgente:       agent.ID,
	}
	require.NoError(t, db.Create(&property).Error)
	return property
}

func doRequest(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPurchaseEndpointSuccess(t *testing.T) {
	r, db := setupRouter(t)
	_, token := createUser(t, db, "cliente@test.com", models.RolCliente)
	property := createProperty(t, db, models.EstadoDisponible)

	w := doRequest(t, r, http.MethodPost, "/api/sales/purchase", token, gin.H{
		"id_propiedad": property.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Success bool `json:"success"`
		Sale    struct {
			Estado     string  `json:"estado"`
			MontoTotal float64 `json:"monto_total"`
			FormaPago  string  `json:"forma_pago"`
		} `json:"sale"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, models.SaleFinalizada, resp.Sale.Estado)
	assert.Equal(t, property.Precio, resp.Sale.MontoTotal)
	assert.Equal(t, models.PagoContado, resp.Sale.FormaPago)

	var updated models.Property
	require.NoError(t, db.First(&updated, property.ID).Error)
	assert.Equal(t, models.EstadoVendida, updated.Estado)
}

func TestPurchaseEndpointAlreadySold(t *testing.T) {
	r, db := setupRouter(t)
	_, token := createUser(t, db, "cliente@test.com", models.RolCliente)
	property := createProperty(t, db, models.EstadoVendida)

	w := doRequest(t, r, http.MethodPost, "/api/sales/purchase", token, gin.H{
		"id_propiedad": property.ID,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Esta propiedad ya no está disponible")
}

func TestPurchaseEndpointWrongRole(t *testing.T) {
	r, db := setupRouter(t)
	_, token := createUser(t, db, "admin@test.com", models.RolAdmin)
	property := createProperty(t, db, models.EstadoDisponible)

	w := doRequest(t, r, http.MethodPost, "/api/sales/purchase", token, gin.H{
		"id_propiedad": property.ID,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Solo los clientes pueden comprar propiedades")
}

func TestRemoveEndpointDeletesRowAndResetsProperty(t *testing.T) {
	r, db := setupRouter(t)
	buyer, _ := createUser(t, db, "cliente@test.com", models.RolCliente)
	_, adminToken := createUser(t, db, "admin@test.com", models.RolAdmin)
	property := createProperty(t, db, models.EstadoDisponible)

	sale, err := lifecycle.PurchaseProperty(db, buyer.ID, lifecycle.PurchaseInput{PropertyID: property.ID})
	require.NoError(t, err)

	w := doRequest(t, r, http.MethodDelete, fmt.Sprintf("/api/sales/%d/remove", sale.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Venta eliminada completamente")

	var count int64
	require.NoError(t, db.Model(&models.Sale{}).Where("id = ?", sale.ID).Count(&count).Error)
	assert.Zero(t, count)

	var updated models.Property
	require.NoError(t, db.First(&updated, property.ID).Error)
	assert.Equal(t, models.EstadoDisponible, updated.Estado)
}

func TestRemoveEndpointForbiddenForNonAdmin(t *testing.T) {
	r, db := setupRouter(t)
	buyer, token := createUser(t, db, "cliente@test.com", models.RolCliente)
	property := createProperty(t, db, models.EstadoDisponible)

	sale, err := lifecycle.PurchaseProperty(db, buyer.ID, lifecycle.PurchaseInput{PropertyID: property.ID})
	require.NoError(t, err)

	w := doRequest(t, r, http.MethodDelete, fmt.Sprintf("/api/sales/%d/remove", sale.ID), token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Acceso denegado")
}

func TestCancelEndpointResetsProperty(t *testing.T) {
	r, db := setupRouter(t)
	buyer, token := createUser(t, db, "cliente@test.com", models.RolCliente)
	property := createProperty(t, db, models.EstadoDisponible)

	sale, err := lifecycle.PurchaseProperty(db, buyer.ID, lifecycle.PurchaseInput{PropertyID: property.ID})
	require.NoError(t, err)

	w := doRequest(t, r, http.MethodDelete, fmt.Sprintf("/api/sales/%d", sale.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Venta cancelada")

	var cancelled models.Sale
	require.NoError(t, db.First(&cancelled, sale.ID).Error)
	assert.Equal(t, models.SaleCancelada, cancelled.Estado)

	var updated models.Property
	require.NoError(t, db.First(&updated, property.ID).Error)
	assert.Equal(t, models.EstadoDisponible, updated.Estado)
}

func TestGetByUserWithoutClientReturnsEmptyList(t *testing.T) {
	r, db := setupRouter(t)
	user, token := createUser(t, db, "cliente@test.com", models.RolCliente)

	w := doRequest(t, r, http.MethodGet, fmt.Sprintf("/api/sales/%d", user.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}
