package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/kartlink/kartlink-api/models"
	"github.com/kartlink/kartlink-api/utils"
)

// ResetTokenTTL is how long a password reset token stays valid.
const ResetTokenTTL = 60 * time.Minute

// HashPassword returns a bcrypt hash of the provided password.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword compares a bcrypt hashed password with its possible plaintext equivalent.
func CheckPassword(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}

// RequestPasswordReset issues a single-use reset token for the email. The
// plaintext token is returned so the caller can deliver it; whether the email
// exists is never revealed to the requester — an empty token with a nil error
// means "pretend we sent it".
func RequestPasswordReset(db *gorm.DB, email string) (string, error) {
	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		if utils.IsNotFound(err) {
			return "", nil
		}
		return "", &utils.UnexpectedError{Message: "Failed to look up account", Cause: err}
	}

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", &utils.UnexpectedError{Message: "Failed to generate reset token", Cause: err}
	}
	plaintext := hex.EncodeToString(tokenBytes)

	err := db.Transaction(func(tx *gorm.DB) error {
		// Expire any previous unused reset tokens for this email
		if err := tx.Model(&models.PasswordResetToken{}).
			Where("email = ? AND used_at IS NULL", email).
			Update("expires_at", time.Now()).Error; err != nil {
			return err
		}

		record := models.PasswordResetToken{
			Email:     email,
			Digest:    resetDigest(plaintext),
			ExpiresAt: time.Now().Add(ResetTokenTTL),
		}
		return tx.Create(&record).Error
	})
	if err != nil {
		return "", &utils.UnexpectedError{Message: "Failed to create reset token", Cause: err}
	}

	return plaintext, nil
}

// ResetPassword validates the token+email pair, rewrites the password hash,
// revokes every existing bearer token and rotates the remember credential.
func ResetPassword(db *gorm.DB, email, token, newPassword string) error {
	var record models.PasswordResetToken
	err := db.Where("email = ? AND digest = ?", email, resetDigest(token)).First(&record).Error
	if err != nil {
		if utils.IsNotFound(err) {
			return &utils.ValidationError{Message: "This password reset token is invalid."}
		}
		return &utils.UnexpectedError{Message: "Failed to look up reset token", Cause: err}
	}

	if record.UsedAt != nil || record.ExpiresAt.Before(time.Now()) {
		return &utils.ValidationError{Message: "This password reset token is invalid."}
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return &utils.UnexpectedError{Message: "Failed to hash password", Cause: err}
	}

	rememberBytes := make([]byte, 20)
	if _, err := rand.Read(rememberBytes); err != nil {
		return &utils.UnexpectedError{Message: "Failed to rotate remember credential", Cause: err}
	}

	txErr := db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Where("email = ?", email).First(&user).Error; err != nil {
			return err
		}

		updates := map[string]interface{}{
			"password_hash":  hash,
			"remember_token": hex.EncodeToString(rememberBytes),
		}
		if err := tx.Model(&user).Updates(updates).Error; err != nil {
			return err
		}

		// Every previously issued bearer token dies with the old password
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.AccessToken{}).Error; err != nil {
			return err
		}

		now := time.Now()
		return tx.Model(&record).Update("used_at", now).Error
	})
	if txErr != nil {
		if utils.IsNotFound(txErr) {
			return &utils.ValidationError{Message: "This password reset token is invalid."}
		}
		return &utils.UnexpectedError{Message: "Failed to reset password", Cause: txErr}
	}

	return nil
}

func resetDigest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
