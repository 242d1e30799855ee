package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bellavista/bellavista-backend/config"
	"github.com/bellavista/bellavista-backend/internal/app/repository"
	"github.com/bellavista/bellavista-backend/internal/app/service"
	"github.com/bellavista/bellavista-backend/internal/db"
	"github.com/bellavista/bellavista-backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthControllerTest(t *testing.T) *gin.Engine {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	jwtCfg := &config.JWTConfig{
		Secret:            "test-secret",
		AccessTokenExpiry: time.Hour,
	}
	authService := service.NewAuthService(repository.NewUserRepository(testDB), jwtCfg)
	controller := NewAuthController(authService)
	authMiddleware := middleware.NewAuthMiddleware(jwtCfg.Secret)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/auth/register", controller.Register)
	router.POST("/auth/login", controller.Login)
	router.POST("/auth/logout", controller.Logout)
	router.GET("/auth/me", authMiddleware.Authenticate(), controller.GetProfile)
	return router
}

func TestAuthController_RegisterAndLogin(t *testing.T) {
	router := setupAuthControllerTest(t)

	w := doJSON(t, router, http.MethodPost, "/auth/register", gin.H{
		"email":    "diner@example.com",
		"password": "password123",
		"name":     "Diner",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.NotEmpty(t, response["token"])
	user := response["user"].(map[string]interface{})
	assert.Equal(t, "diner@example.com", user["email"])
	assert.NotContains(t, w.Body.String(), "password_hash")

	w = doJSON(t, router, http.MethodPost, "/auth/login", gin.H{
		"email":    "diner@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	token := response["token"].(string)
	require.NotEmpty(t, token)

	// Token works against a protected route.
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w2 := httptest.NewRecorder()
	router.ServeHTTP(w2, req)
	assert.Equal(t, http.StatusOK, w2.Code)
	assert.Contains(t, w2.Body.String(), "diner@example.com")
}

func TestAuthController_RegisterValidation(t *testing.T) {
	router := setupAuthControllerTest(t)

	// Short password.
	w := doJSON(t, router, http.MethodPost, "/auth/register", gin.H{
		"email":    "diner@example.com",
		"password": "short",
		"name":     "Diner",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Not an email.
	w = doJSON(t, router, http.MethodPost, "/auth/register", gin.H{
		"email":    "not-an-email",
		"password": "password123",
		"name":     "Diner",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthController_RegisterDuplicateEmail(t *testing.T) {
	router := setupAuthControllerTest(t)

	body := gin.H{
		"email":    "diner@example.com",
		"password": "password123",
		"name":     "Diner",
	}
	w := doJSON(t, router, http.MethodPost, "/auth/register", body)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodPost, "/auth/register", body)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_EMAIL_EXISTS")
}

func TestAuthController_LoginWrongPassword(t *testing.T) {
	router := setupAuthControllerTest(t)

	w := doJSON(t, router, http.MethodPost, "/auth/register", gin.H{
		"email":    "diner@example.com",
		"password": "password123",
		"name":     "Diner",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodPost, "/auth/login", gin.H{
		"email":    "diner@example.com",
		"password": "wrongpassword",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_INVALID_CREDENTIALS")
}

func TestAuthController_LogoutRequiresBearerHeader(t *testing.T) {
	router := setupAuthControllerTest(t)

	w := doJSON(t, router, http.MethodPost, "/auth/logout", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
