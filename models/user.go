package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles. Admins review payment proofs and may enter the admin console.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User represents a registered account (customer or admin)
type User struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Name          string         `gorm:"not null" json:"name"`
	Email         string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash  string         `gorm:"not null" json:"-"`
	Role          string         `gorm:"not null;default:'customer'" json:"role"`
	RememberToken string         `json:"-"` // rotated when the password is reset
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user may validate payments and enter the admin surface.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
