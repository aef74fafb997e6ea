package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"inmobiliaria-server/database"
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

	r := gin.New()
	r.GET("/protected", RequireAuth(db, testSecret), func(c *gin.Context) {
		user, _ := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"correo": user.Correo})
	})
	r.GET("/admin", RequireAuth(db, testSecret), RequireRoles(models.RolAdmin), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r, db
}

func createUser(t *testing.T, db *gorm.DB, rol models.Role, active bool) (models.User, string) {
	user := models.User{
		Nombre:     "Usuario Test",
		Correo:     string(rol) + "@test.com",
		Contrasena: "hashed",
		Rol:        rol,
		IsActive:   active,
	}
	require.NoError(t, db.Create(&user).Error)

	token, err := utils.GenerateToken(testSecret, user, time.Hour)
	require.NoError(t, err)
	return user, token
}

func get(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuthMissingToken(t *testing.T) {
	r, _ := setupRouter(t)

	w := get(r, "/protected", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Token no proporcionado")
}

func TestRequireAuthMalformedHeader(t *testing.T) {
	r, db := setupRouter(t)
	_, token := createUser(t, db, models.RolCliente, true)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", token) // missing Bearer prefix
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthInvalidToken(t *testing.T) {
	r, _ := setupRouter(t)

	w := get(r, "/protected", "no-es-un-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Token inválido")
}

func TestRequireAuthWrongSecret(t *testing.T) {
	r, db := setupRouter(t)
	user, _ := createUser(t, db, models.RolCliente, true)

	forged, err := utils.GenerateToken([]byte("otro-secreto"), user, time.Hour)
	require.NoError(t, err)

	w := get(r, "/protected", forged)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthDeletedUser(t *testing.T) {
	r, db := setupRouter(t)
	user, token := createUser(t, db, models.RolCliente, true)
	require.NoError(t, db.Delete(&user).Error)

	w := get(r, "/protected", token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateStoresInactiveFlag(t *testing.T) {
	_, db := setupRouter(t)

	user := models.User{
		Nombre:     "Usuario Test",
		Correo:     "inactivo@test.com",
		Contrasena: "hashed",
		Rol:        models.RolCliente,
		IsActive:   false,
	}
	require.NoError(t, db.Create(&user).Error)

	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.False(t, stored.IsActive)
}

func TestRequireAuthInactiveUser(t *testing.T) {
	r, db := setupRouter(t)
	_, token := createUser(t, db, models.RolCliente, false)

	w := get(r, "/protected", token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthValidToken(t *testing.T) {
	r, db := setupRouter(t)
	user, token := createUser(t, db, models.RolCliente, true)

	w := get(r, "/protected", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), user.Correo)
}

func TestRequireRolesDenied(t *testing.T) {
	r, db := setupRouter(t)
	_, token := createUser(t, db, models.RolCliente, true)

	w := get(r, "/admin", token)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Acceso denegado")
}

func TestRequireRolesAllowed(t *testing.T) {
	r, db := setupRouter(t)
	_, token := createUser(t, db, models.RolAdmin, true)

	w := get(r, "/admin", token)
	assert.Equal(t, http.StatusOK, w.Code)
}
