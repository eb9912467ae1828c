package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kartlink/kartlink-api/config"
	"github.com/kartlink/kartlink-api/middleware"
	"github.com/kartlink/kartlink-api/models"
	"github.com/kartlink/kartlink-api/services"
)

func setupAuthTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.AccessToken{}, &models.PasswordResetToken{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	config.SetDB(db)
	config.SetConfig(&config.Config{DefaultLocale: "fr"})
	return db
}

func authRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/register", Register)
	router.POST("/login", Login)
	protected := router.Group("", middleware.RequireToken())
	protected.GET("/me", Me)
	protected.POST("/logout", Logout)
	protected.POST("/refresh-token", RefreshToken)
	return router
}

func postJSON(router *gin.Engine, target string, body map[string]interface{}, bearer string) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestRegister(t *testing.T) {
	db := setupAuthTestDB(t)
	router := authRouter()

	w := postJSON(router, "/register", map[string]interface{}{
		"name":     "Aya Benali",
		"email":    "aya@example.com",
		"password": "supersecret",
	}, "")

	assert.Equal(t, http.StatusCreated, w.Code)

	var response struct {
		Success bool `json:"success"`
		Data    struct {
			User  models.User `json:"user"`
			Token string      `json:"token"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(t, response.Success)
	assert.Equal(t, "aya@example.com", response.Data.User.Email)
	assert.Equal(t, models.RoleCustomer, response.Data.User.Role)
	assert.NotEmpty(t, response.Data.Token)

	// The hash never leaves the database
	assert.NotContains(t, w.Body.String(), "password_hash")

	var count int64
	db.Model(&models.AccessToken{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestRegisterValidation(t *testing.T) {
	setupAuthTestDB(t)
	router := authRouter()

	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"Missing email", map[string]interface{}{"name": "A", "password": "supersecret"}},
		{"Bad email", map[string]interface{}{"name": "A", "email": "nope", "password": "supersecret"}},
		{"Short password", map[string]interface{}{"name": "A", "email": "a@example.com", "password": "short"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := postJSON(router, "/register", tc.body, "")
			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	setupAuthTestDB(t)
	router := authRouter()

	body := map[string]interface{}{
		"name":     "Aya Benali",
		"email":    "aya@example.com",
		"password": "supersecret",
	}

	w := postJSON(router, "/register", body, "")
	assert.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(router, "/register", body, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "The email has already been taken", response["message"])
}

func TestLogin(t *testing.T) {
	db := setupAuthTestDB(t)
	router := authRouter()

	hash, err := services.HashPassword("supersecret")
	assert.NoError(t, err)
	user := &models.User{Name: "Aya", Email: "aya@example.com", PasswordHash: hash, Role: models.RoleCustomer}
	assert.NoError(t, db.Create(user).Error)

	tests := []struct {
		name           string
		body           map[string]interface{}
		expectedStatus int
	}{
		{"Valid credentials", map[string]interface{}{"email": "aya@example.com", "password": "supersecret"}, http.StatusOK},
		{"Wrong password", map[string]interface{}{"email": "aya@example.com", "password": "wrong-password"}, http.StatusUnauthorized},
		{"Unknown email", map[string]interface{}{"email": "ghost@example.com", "password": "supersecret"}, http.StatusUnauthorized},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := postJSON(router, "/login", tc.body, "")
			assert.Equal(t, tc.expectedStatus, w.Code)
		})
	}
}

func TestMe(t *testing.T) {
	db := setupAuthTestDB(t)
	router := authRouter()

	user := &models.User{Name: "Aya", Email: "aya@example.com", PasswordHash: "x", Role: models.RoleCustomer}
	assert.NoError(t, db.Create(user).Error)
	_, bearer, err := services.IssueToken(db, user, "test", false)
	assert.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+bearer)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "aya@example.com")
}

func TestLogoutCurrentToken(t *testing.T) {
	db := setupAuthTestDB(t)
	router := authRouter()

	user := &models.User{Name: "Aya", Email: "aya@example.com", PasswordHash: "x", Role: models.RoleCustomer}
	assert.NoError(t, db.Create(user).Error)
	_, first, err := services.IssueToken(db, user, "test", false)
	assert.NoError(t, err)
	_, second, err := services.IssueToken(db, user, "test", false)
	assert.NoError(t, err)

	w := postJSON(router, "/logout", nil, first)
	assert.Equal(t, http.StatusOK, w.Code)

	// The revoked token no longer authenticates; the other one still does
	wMe := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+first)
	router.ServeHTTP(wMe, req)
	assert.Equal(t, http.StatusUnauthorized, wMe.Code)

	wMe = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+second)
	router.ServeHTTP(wMe, req)
	assert.Equal(t, http.StatusOK, wMe.Code)
}

func TestLogoutAllTokens(t *testing.T) {
	db := setupAuthTestDB(t)
	router := authRouter()

	user := &models.User{Name: "Aya", Email: "aya@example.com", PasswordHash: "x", Role: models.RoleCustomer}
	assert.NoError(t, db.Create(user).Error)
	_, first, err := services.IssueToken(db, user, "test", false)
	assert.NoError(t, err)
	_, second, err := services.IssueToken(db, user, "test", false)
	assert.NoError(t, err)

	w := postJSON(router, "/logout", map[string]interface{}{"scope": "all"}, first)
	assert.Equal(t, http.StatusOK, w.Code)

	for _, bearer := range []string{first, second} {
		wMe := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+bearer)
		router.ServeHTTP(wMe, req)
		assert.Equal(t, http.StatusUnauthorized, wMe.Code)
	}

	var count int64
	db.Model(&models.AccessToken{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestRefreshTokenRotates(t *testing.T) {
	db := setupAuthTestDB(t)
	router := authRouter()

	user := &models.User{Name: "Aya", Email: "aya@example.com", PasswordHash: "x", Role: models.RoleCustomer}
	assert.NoError(t, db.Create(user).Error)
	_, bearer, err := services.IssueToken(db, user, "test", false)
	assert.NoError(t, err)

	w := postJSON(router, "/refresh-token", nil, bearer)
	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.NotEmpty(t, response.Data.Token)
	assert.NotEqual(t, bearer, response.Data.Token)

	// The old token is gone, the replacement works
	wMe := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+bearer)
	router.ServeHTTP(wMe, req)
	assert.Equal(t, http.StatusUnauthorized, wMe.Code)

	wMe = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+response.Data.Token)
	router.ServeHTTP(wMe, req)
	assert.Equal(t, http.StatusOK, wMe.Code)
}
