package utils

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ValidationError reports malformed or missing input (HTTP 422).
type ValidationError struct {
	Message string
	Details interface{}
}

func (e *ValidationError) Error() string { return e.Message }

// AuthenticationError reports bad credentials or an invalid/expired token (HTTP 401).
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string { return e.Message }

// AuthorizationError reports a valid identity with insufficient rights (HTTP 403).
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string { return e.Message }

// ConflictError reports a duplicate unique field (HTTP 409).
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// NotFoundError reports an unknown id or slug (HTTP 404).
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// UnexpectedError wraps anything else. The underlying cause is only exposed
// outside production.
type UnexpectedError struct {
	Message string
	Cause   error
}

func (e *UnexpectedError) Error() string { return e.Message }
func (e *UnexpectedError) Unwrap() error { return e.Cause }

// RenderError writes the failure envelope for any error from the taxonomy.
// Unknown errors are rendered as a generic 500.
func RenderError(c *gin.Context, err error) {
	var validationErr *ValidationError
	var authnErr *AuthenticationError
	var authzErr *AuthorizationError
	var conflictErr *ConflictError
	var notFoundErr *NotFoundError
	var unexpectedErr *UnexpectedError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"message": validationErr.Message,
			"errors":  validationErr.Details,
		})
	case errors.As(err, &authnErr):
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": authnErr.Message,
			"errors":  nil,
		})
	case errors.As(err, &authzErr):
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"message": authzErr.Message,
			"errors":  nil,
		})
	case errors.As(err, &conflictErr):
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"message": conflictErr.Message,
			"errors":  nil,
		})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": notFoundErr.Message,
			"errors":  nil,
		})
	case errors.As(err, &unexpectedErr):
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": unexpectedMessage(unexpectedErr),
			"errors":  nil,
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Something went wrong",
			"errors":  nil,
		})
	}
}

func unexpectedMessage(err *UnexpectedError) string {
	if gin.Mode() == gin.ReleaseMode || err.Cause == nil {
		return err.Message
	}
	return err.Message + ": " + err.Cause.Error()
}

// IsDuplicateKey detects unique-constraint violations on both PostgreSQL and
// SQLite by matching the driver error text.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique")
}

// IsNotFound reports whether err is gorm's missing-record error.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
