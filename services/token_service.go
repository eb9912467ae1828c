package services

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/kartlink/kartlink-api/models"
	"github.com/kartlink/kartlink-api/utils"
)

// Token lifetimes. Remember-me logins get the long expiry.
const (
	TokenTTL         = 24 * time.Hour
	RememberTokenTTL = 30 * 24 * time.Hour
)

// IssueToken creates a new bearer token for the user and returns the record
// together with its one-time plaintext form "<id>|<secret>".
func IssueToken(db *gorm.DB, user *models.User, name string, remember bool) (*models.AccessToken, string, error) {
	secretBytes := make([]byte, 20)
	if _, err := rand.Read(secretBytes); err != nil {
		return nil, "", fmt.Errorf("failed to generate token secret: %w", err)
	}
	secret := hex.EncodeToString(secretBytes)

	ttl := TokenTTL
	if remember {
		ttl = RememberTokenTTL
	}

	token := models.AccessToken{
		UserID:    user.ID,
		Name:      name,
		Digest:    digest(secret),
		Abilities: models.StringList{"*"},
		ExpiresAt: time.Now().Add(ttl),
	}

	if err := db.Create(&token).Error; err != nil {
		return nil, "", fmt.Errorf("failed to persist token: %w", err)
	}

	return &token, fmt.Sprintf("%d|%s", token.ID, secret), nil
}

// AuthenticateToken resolves a plaintext bearer token to its owning user.
// Expired or unknown tokens fail with AuthenticationError.
func AuthenticateToken(db *gorm.DB, bearer string) (*models.User, *models.AccessToken, error) {
	id, secret, ok := splitToken(bearer)
	if !ok {
		return nil, nil, &utils.AuthenticationError{Message: "Invalid token"}
	}

	var token models.AccessToken
	if err := db.First(&token, id).Error; err != nil {
		if utils.IsNotFound(err) {
			return nil, nil, &utils.AuthenticationError{Message: "Invalid token"}
		}
		return nil, nil, &utils.UnexpectedError{Message: "Failed to look up token", Cause: err}
	}

	if subtle.ConstantTimeCompare([]byte(token.Digest), []byte(digest(secret))) != 1 {
		return nil, nil, &utils.AuthenticationError{Message: "Invalid token"}
	}

	if token.Expired() {
		return nil, nil, &utils.AuthenticationError{Message: "Token has expired"}
	}

	var user models.User
	if err := db.First(&user, token.UserID).Error; err != nil {
		if utils.IsNotFound(err) {
			return nil, nil, &utils.AuthenticationError{Message: "Invalid token"}
		}
		return nil, nil, &utils.UnexpectedError{Message: "Failed to load token owner", Cause: err}
	}

	now := time.Now()
	token.LastUsedAt = &now
	if err := db.Model(&token).Update("last_used_at", now).Error; err != nil {
		return nil, nil, &utils.UnexpectedError{Message: "Failed to touch token", Cause: err}
	}

	return &user, &token, nil
}

// RevokeToken deletes a single token.
func RevokeToken(db *gorm.DB, token *models.AccessToken) error {
	return db.Delete(&models.AccessToken{}, token.ID).Error
}

// RevokeAllTokens deletes every token owned by the user.
func RevokeAllTokens(db *gorm.DB, userID uint) error {
	return db.Where("user_id = ?", userID).Delete(&models.AccessToken{}).Error
}

// RefreshToken revokes the current token and issues a replacement with the
// same expiry class the old token had.
func RefreshToken(db *gorm.DB, user *models.User, current *models.AccessToken) (*models.AccessToken, string, error) {
	remember := current.ExpiresAt.Sub(current.CreatedAt) > TokenTTL+time.Minute

	if err := RevokeToken(db, current); err != nil {
		return nil, "", fmt.Errorf("failed to revoke current token: %w", err)
	}

	return IssueToken(db, user, current.Name, remember)
}

func digest(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

func splitToken(bearer string) (uint, string, bool) {
	parts := strings.SplitN(bearer, "|", 2)
	if len(parts) != 2 || parts[1] == "" {
		return 0, "", false
	}
	id, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return 0, "", false
	}
	return uint(id), parts[1], true
}
