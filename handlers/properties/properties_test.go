package properties

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"inmobiliaria-server/database"
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
	adminOrAgent := middleware.RequireRoles(models.RolAdmin, models.RolAgente)

	r := gin.New()
	group := r.Group("/api/properties")
	group.GET("", handler.List)
	group.POST("", requireAuth, adminOrAgent, handler.Create)
	group.PUT("/:id", requireAuth, adminOrAgent, handler.Update)
	group.DELETE("/:id", requireAuth, adminOnly, handler.Delete)
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

func createProperty(t *testing.T, db *gorm.DB, agentID uint, tipo, estado string) models.Property {
	property := models.Property{
		Direccion:      fmt.Sprintf("Calle %s %d", tipo, time.Now().UnixNano()%1000),
		Tipo:           tipo,
		Precio:         120000,
		Estado:         estado,
		Disponibilidad: models.DisponibilidadAmbos,
		IDAgente:       agentID,
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

func TestListDefaultsToAvailable(t *testing.T) {
	r, db := setupRouter(t)
	agent, _ := createUser(t, db, "agente@test.com", models.RolAgente)
	createProperty(t, db, agent.ID, models.TipoCasa, models.EstadoDisponible)
	createProperty(t, db, agent.ID, models.TipoCasa, models.EstadoVendida)

	w := doRequest(t, r, http.MethodGet, "/api/properties", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var listed []models.Property
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, models.EstadoDisponible, listed[0].Estado)
	require.NotNil(t, listed[0].Agente)
	assert.Equal(t, agent.ID, listed[0].Agente.ID)
}

func TestListFiltersByTipoAndEstado(t *testing.T) {
	r, db := setupRouter(t)
	agent, _ := createUser(t, db, "agente@test.com", models.RolAgente)
	createProperty(t, db, agent.ID, models.TipoCasa, models.EstadoDisponible)
	createProperty(t, db, agent.ID, models.TipoApartamento, models.EstadoDisponible)
	sold := createProperty(t, db, agent.ID, models.TipoApartamento, models.EstadoVendida)

	w := doRequest(t, r, http.MethodGet, "/api/properties?tipo=apartamento", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var listed []models.Property
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, models.TipoApartamento, listed[0].Tipo)

	w = doRequest(t, r, http.MethodGet, "/api/properties?tipo=apartamento&estado=vendida", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, sold.ID, listed[0].ID)
}

func TestCreateAssignsAuthenticatedAgent(t *testing.T) {
	r, db := setupRouter(t)
	agent, token := createUser(t, db, "agente@test.com", models.RolAgente)

	w := doRequest(t, r, http.MethodPost, "/api/properties", token, gin.H{
		"direccion":       "Av. Italia 2030",
		"tipo":            "apartamento",
		"precio":          88000,
		"imagenes":        []string{"frente.jpg"},
		"caracteristicas": []string{"balcón"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created models.Property
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, agent.ID, created.IDAgente)
	assert.Equal(t, models.EstadoDisponible, created.Estado)
	assert.Equal(t, models.DisponibilidadAmbos, created.Disponibilidad)
	assert.Equal(t, []string{"frente.jpg"}, created.Imagenes)
}

func TestCreateRejectsClientRole(t *testing.T) {
	r, db := setupRouter(t)
	_, token := createUser(t, db, "cliente@test.com", models.RolCliente)

	w := doRequest(t, r, http.MethodPost, "/api/properties", token, gin.H{
		"direccion": "Av. Italia 2030",
		"tipo":      "apartamento",
		"precio":    88000,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUpdateAppliesPartialFields(t *testing.T) {
	r, db := setupRouter(t)
	agent, token := createUser(t, db, "agente@test.com", models.RolAgente)
	property := createProperty(t, db, agent.ID, models.TipoCasa, models.EstadoDisponible)

	w := doRequest(t, r, http.MethodPut, fmt.Sprintf("/api/properties/%d", property.ID), token, gin.H{
		"precio":   99000,
		"imagenes": []string{"nueva.jpg"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated models.Property
	require.NoError(t, db.First(&updated, property.ID).Error)
	assert.Equal(t, 99000.0, updated.Precio)
	assert.Equal(t, []string{"nueva.jpg"}, updated.Imagenes)
	assert.Equal(t, property.Direccion, updated.Direccion)
}

func TestDeleteRequiresAdmin(t *testing.T) {
	r, db := setupRouter(t)
	agent, agentToken := createUser(t, db, "agente@test.com", models.RolAgente)
	_, adminToken := createUser(t, db, "admin@test.com", models.RolAdmin)
	property := createProperty(t, db, agent.ID, models.TipoCasa, models.EstadoDisponible)

	w := doRequest(t, r, http.MethodDelete, fmt.Sprintf("/api/properties/%d", property.ID), agentToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(t, r, http.MethodDelete, fmt.Sprintf("/api/properties/%d", property.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.Property{}).Where("id = ?", property.ID).Count(&count).Error)
	assert.Zero(t, count)
}
