package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kartlink/kartlink-api/config"
	"github.com/kartlink/kartlink-api/middleware"
	"github.com/kartlink/kartlink-api/models"
	"github.com/kartlink/kartlink-api/services"
	"github.com/kartlink/kartlink-api/utils"
)

// RegisterRequest represents the request body for creating an account
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Remember bool   `json:"remember"`
}

// LoginRequest represents the request body for logging in
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Remember bool   `json:"remember"`
}

// LogoutRequest selects which tokens to revoke
type LogoutRequest struct {
	Scope string `json:"scope" binding:"omitempty,oneof=current all"`
}

// Register handles POST /api/v1/register - creates an account and issues a token
func Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RenderError(c, &utils.ValidationError{Message: "Invalid request data", Details: err.Error()})
		return
	}

	db := config.GetDB()

	// Reject duplicates up front for a clean message; the unique index still
	// backstops races
	var existing models.User
	if err := db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		utils.RenderError(c, &utils.ConflictError{Message: "The email has already been taken"})
		return
	} else if !utils.IsNotFound(err) {
		utils.RenderError(c, &utils.UnexpectedError{Message: "Failed to check email", Cause: err})
		return
	}

	hash, err := services.HashPassword(req.Password)
	if err != nil {
		utils.RenderError(c, &utils.UnexpectedError{Message: "Failed to hash password", Cause: err})
		return
	}

	user := models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         models.RoleCustomer,
	}

	if err := db.Create(&user).Error; err != nil {
		if utils.IsDuplicateKey(err) {
			utils.RenderError(c, &utils.ConflictError{Message: "The email has already been taken"})
			return
		}
		utils.RenderError(c, &utils.UnexpectedError{Message: "Failed to create account", Cause: err})
		return
	}

	token, plaintext, err := services.IssueToken(db, &user, "api", req.Remember)
	if err != nil {
		utils.RenderError(c, &utils.UnexpectedError{Message: "Failed to issue token", Cause: err})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Account created",
		"data": gin.H{
			"user":       user,
			"token":      plaintext,
			"expires_at": token.ExpiresAt,
		},
	})
}

// Login handles POST /api/v1/login - validates credentials and issues a token
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RenderError(c, &utils.ValidationError{Message: "Invalid request data", Details: err.Error()})
		return
	}

	db := config.GetDB()

	var user models.User
	if err := db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if utils.IsNotFound(err) {
			utils.RenderError(c, &utils.AuthenticationError{Message: "Invalid credentials"})
			return
		}
		utils.RenderError(c, &utils.UnexpectedError{Message: "Failed to look up account", Cause: err})
		return
	}

	if !services.CheckPassword(user.PasswordHash, req.Password) {
		utils.RenderError(c, &utils.AuthenticationError{Message: "Invalid credentials"})
		return
	}

	token, plaintext, err := services.IssueToken(db, &user, "api", req.Remember)
	if err != nil {
		utils.RenderError(c, &utils.UnexpectedError{Message: "Failed to issue token", Cause: err})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logged in",
		"data": gin.H{
			"user":       user,
			"token":      plaintext,
			"expires_at": token.ExpiresAt,
		},
	})
}

// Me handles GET /api/v1/me - returns the authenticated user
func Me(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		utils.RenderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "OK",
		"data":    gin.H{"user": user},
	})
}

// Logout handles POST /api/v1/logout - revokes the current token, or every
// token when scope is "all"
func Logout(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		utils.RenderError(c, err)
		return
	}

	token, err := middleware.GetCurrentToken(c)
	if err != nil {
		utils.RenderError(c, err)
		return
	}

	var req LogoutRequest
	// Body is optional; default scope is current
	_ = c.ShouldBindJSON(&req)

	db := config.GetDB()
	if req.Scope == "all" {
		err = services.RevokeAllTokens(db, user.ID)
	} else {
		err = services.RevokeToken(db, token)
	}
	if err != nil {
		utils.RenderError(c, &utils.UnexpectedError{Message: "Failed to revoke tokens", Cause: err})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logged out",
		"data":    nil,
	})
}

// RefreshToken handles POST /api/v1/refresh-token - revokes the current token
// and issues a replacement
func RefreshToken(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		utils.RenderError(c, err)
		return
	}

	token, err := middleware.GetCurrentToken(c)
	if err != nil {
		utils.RenderError(c, err)
		return
	}

	newToken, plaintext, err := services.RefreshToken(config.GetDB(), user, token)
	if err != nil {
		utils.RenderError(c, &utils.UnexpectedError{Message: "Failed to refresh token", Cause: err})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Token refreshed",
		"data": gin.H{
			"token":      plaintext,
			"expires_at": newToken.ExpiresAt,
		},
	})
}
