package testutil

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kartlink/kartlink-api/config"
	"github.com/kartlink/kartlink-api/models"
	"github.com/kartlink/kartlink-api/services"
)

// SetupTestDB opens an in-memory SQLite database with the full schema and
// installs it as the active connection.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	RequireTestEnvironment(t)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.AccessToken{},
		&models.PasswordResetToken{},
		&models.Session{},
		&models.Pack{},
		&models.Template{},
		&models.PackOffer{},
		&models.Order{},
		&models.PaymentValidation{},
		&models.PaymentSetting{},
		&models.TestimonialCategory{},
		&models.Testimonial{},
		&models.BlogCategory{},
		&models.BlogArticle{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	config.SetDB(db)
	return db
}

// SetupTestConfig installs a minimal configuration for tests.
func SetupTestConfig() *config.Config {
	cfg := &config.Config{
		DatabaseURL:    ":memory:",
		Port:           "8080",
		GoEnv:          "test",
		AppBaseURL:     "http://localhost:8080",
		AdminLoginURL:  "http://localhost:3000/login",
		DefaultLocale:  "fr",
		FrontendURL:    "http://localhost:3000",
		StorageDriver:  "local",
		StorageRoot:    "./storage/test",
		StorageBaseURL: "http://localhost:8080/storage",
	}
	config.SetConfig(cfg)
	return cfg
}

// CreateTestUser persists a user with the given role and a known password
// ("password123").
func CreateTestUser(t *testing.T, db *gorm.DB, name, email, role string) *models.User {
	t.Helper()

	hash, err := services.HashPassword("password123")
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

// IssueTestToken issues a bearer token for a user.
func IssueTestToken(t *testing.T, db *gorm.DB, user *models.User) string {
	t.Helper()

	_, bearer, err := services.IssueToken(db, user, "test", false)
	if err != nil {
		t.Fatalf("Failed to issue test token: %v", err)
	}
	return bearer
}
