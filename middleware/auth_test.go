package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kartlink/kartlink-api/config"
	"github.com/kartlink/kartlink-api/models"
	"github.com/kartlink/kartlink-api/services"
)

func setupAuthTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.AccessToken{}, &models.Session{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	config.SetDB(db)
	config.SetConfig(&config.Config{
		AdminLoginURL: "http://localhost:3000/login",
		DefaultLocale: "fr",
	})
	return db
}

func createUserWithToken(t *testing.T, db *gorm.DB, role string) (*models.User, string) {
	t.Helper()

	user := &models.User{Name: "Test User", Email: role + "@example.com", PasswordHash: "x", Role: role}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}

	_, bearer, err := services.IssueToken(db, user, "test", false)
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}
	return user, bearer
}

func protectedRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", RequireToken(), func(c *gin.Context) {
		user, _ := GetCurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"success": true, "user_id": user.ID})
	})
	router.GET("/admin", RequireSessionOrToken(), RequireAdmin(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	return router
}

func TestRequireTokenWithValidToken(t *testing.T) {
	db := setupAuthTestDB(t)
	user, bearer := createUserWithToken(t, db, models.RoleCustomer)

	router := protectedRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+bearer)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(user.ID), response["user_id"])
}

func TestRequireTokenWithoutToken(t *testing.T) {
	setupAuthTestDB(t)

	router := protectedRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.False(t, response["success"].(bool))
}

func TestRequireTokenWithMalformedHeader(t *testing.T) {
	setupAuthTestDB(t)
	router := protectedRouter()

	testCases := []struct {
		name   string
		header string
	}{
		{"Missing Bearer prefix", "token-without-bearer"},
		{"Wrong prefix", "Basic token"},
		{"Garbage token", "Bearer not-a-real-token"},
		{"Only Bearer", "Bearer"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.Header.Set("Authorization", tc.header)
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestRequireTokenWithExpiredToken(t *testing.T) {
	db := setupAuthTestDB(t)
	user, bearer := createUserWithToken(t, db, models.RoleCustomer)

	expired := time.Now().Add(-time.Hour)
	err := db.Model(&models.AccessToken{}).
		Where("user_id = ?", user.ID).
		Update("expires_at", expired).Error
	assert.NoError(t, err)

	router := protectedRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+bearer)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAdminRejectsCustomer(t *testing.T) {
	db := setupAuthTestDB(t)
	_, bearer := createUserWithToken(t, db, models.RoleCustomer)

	router := protectedRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+bearer)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireSessionOrTokenPromotesBearerToSession(t *testing.T) {
	db := setupAuthTestDB(t)
	_, bearer := createUserWithToken(t, db, models.RoleAdmin)

	router := protectedRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin?_token="+bearer, nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	// A session cookie is issued so the next navigation needs no token
	cookies := w.Result().Cookies()
	var sessionCookie *http.Cookie
	for _, cookie := range cookies {
		if cookie.Name == services.SessionCookieName {
			sessionCookie = cookie
		}
	}
	assert.NotNil(t, sessionCookie)

	var count int64
	db.Model(&models.Session{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestRequireSessionOrTokenAcceptsExistingSession(t *testing.T) {
	db := setupAuthTestDB(t)
	user, _ := createUserWithToken(t, db, models.RoleAdmin)

	session, err := services.CreateSession(db, user)
	assert.NoError(t, err)

	router := protectedRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: services.SessionCookieName, Value: session.ID})
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireSessionOrTokenRedirectsAnonymous(t *testing.T) {
	setupAuthTestDB(t)

	router := protectedRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "http://localhost:3000/login", w.Header().Get("Location"))
}

func TestRequireSessionOrTokenRejectsExpiredSession(t *testing.T) {
	db := setupAuthTestDB(t)
	user, _ := createUserWithToken(t, db, models.RoleAdmin)

	session, err := services.CreateSession(db, user)
	assert.NoError(t, err)

	expired := time.Now().Add(-time.Minute)
	err = db.Model(&models.Session{}).Where("id = ?", session.ID).Update("expires_at", expired).Error
	assert.NoError(t, err)

	router := protectedRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: services.SessionCookieName, Value: session.ID})
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
}
