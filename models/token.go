package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AccessToken is a revocable API bearer token. Only the SHA-256 digest of the
// secret half is stored; the plaintext "<id>|<secret>" form is handed out once
// at issuance.
type AccessToken struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	UserID     uint       `gorm:"not null;index" json:"user_id"`
	User       User       `gorm:"foreignKey:UserID" json:"-"`
	Name       string     `gorm:"not null" json:"name"`
	Digest     string     `gorm:"uniqueIndex;not null" json:"-"`
	Abilities  StringList `json:"abilities"`
	LastUsedAt *time.Time `json:"last_used_at"`
	ExpiresAt  time.Time  `gorm:"index" json:"expires_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// TableName specifies the table name for the AccessToken model
func (AccessToken) TableName() string {
	return "access_tokens"
}

// Expired reports whether the token is past its expiry.
func (t *AccessToken) Expired() bool {
	return time.Now().After(t.ExpiresAt)
}

// PasswordResetToken is a single-use, time-limited reset credential.
type PasswordResetToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Email     string     `gorm:"index;not null" json:"email"`
	Digest    string     `gorm:"uniqueIndex;not null" json:"-"`
	ExpiresAt time.Time  `json:"expires_at"`
	UsedAt    *time.Time `json:"used_at"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// TableName specifies the table name for the PasswordResetToken model
func (PasswordResetToken) TableName() string {
	return "password_reset_tokens"
}

// Session is a server-side session row backing the cookie-authenticated admin
// surface. Sessions are only ever minted by promoting a valid bearer token.
type Session struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
	ExpiresAt time.Time `gorm:"index" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Session model
func (Session) TableName() string {
	return "sessions"
}

// BeforeCreate assigns a random session id.
func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
