package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/kartlink/kartlink-api/models"
	"github.com/kartlink/kartlink-api/utils"
)

// SessionCookieName is the cookie carrying the admin session id.
const SessionCookieName = "kartlink_session"

// SessionTTL is how long a promoted admin session stays valid.
const SessionTTL = 12 * time.Hour

// CreateSession mints a server-side session row for the user. This is the
// one-directional hop from token-space into cookie-space.
func CreateSession(db *gorm.DB, user *models.User) (*models.Session, error) {
	session := models.Session{
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(SessionTTL),
	}
	if err := db.Create(&session).Error; err != nil {
		return nil, &utils.UnexpectedError{Message: "Failed to create session", Cause: err}
	}
	return &session, nil
}

// ResolveSession loads the user owning a session id. Expired or unknown
// sessions fail with AuthenticationError.
func ResolveSession(db *gorm.DB, sessionID string) (*models.User, *models.Session, error) {
	if sessionID == "" {
		return nil, nil, &utils.AuthenticationError{Message: "No session"}
	}

	var session models.Session
	if err := db.First(&session, "id = ?", sessionID).Error; err != nil {
		if utils.IsNotFound(err) {
			return nil, nil, &utils.AuthenticationError{Message: "Invalid session"}
		}
		return nil, nil, &utils.UnexpectedError{Message: "Failed to look up session", Cause: err}
	}

	if time.Now().After(session.ExpiresAt) {
		// Opportunistic cleanup of the dead row
		db.Delete(&models.Session{}, "id = ?", session.ID)
		return nil, nil, &utils.AuthenticationError{Message: "Session has expired"}
	}

	var user models.User
	if err := db.First(&user, session.UserID).Error; err != nil {
		if utils.IsNotFound(err) {
			return nil, nil, &utils.AuthenticationError{Message: "Invalid session"}
		}
		return nil, nil, &utils.UnexpectedError{Message: "Failed to load session owner", Cause: err}
	}

	return &user, &session, nil
}

// DestroySession removes a session row.
func DestroySession(db *gorm.DB, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return db.Delete(&models.Session{}, "id = ?", sessionID).Error
}
