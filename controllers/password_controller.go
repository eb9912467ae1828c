package controllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kartlink/kartlink-api/config"
	"github.com/kartlink/kartlink-api/services"
	"github.com/kartlink/kartlink-api/utils"
)

// ForgotPasswordRequest represents the request body for requesting a reset
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest represents the request body for resetting the password
type ResetPasswordRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

// ForgotPassword handles POST /api/v1/forgot-password. The response is the
// same whether or not the email exists.
func ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RenderError(c, &utils.ValidationError{Message: "Invalid request data", Details: err.Error()})
		return
	}

	token, err := services.RequestPasswordReset(config.GetDB(), req.Email)
	if err != nil {
		utils.RenderError(c, err)
		return
	}

	// The token is delivered out of band; the response body never carries it
	// so the generic message cannot leak account existence.
	if token != "" {
		if mailer := services.GetMailer(); mailer != nil {
			if err := mailer.SendPasswordResetEmail(req.Email, token); err != nil {
				log.Printf("failed to deliver reset email: %v", err)
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "If the email exists, a reset link has been sent",
		"data":    nil,
	})
}

// ResetPassword handles POST /api/v1/reset-password
func ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RenderError(c, &utils.ValidationError{Message: "Invalid request data", Details: err.Error()})
		return
	}

	if err := services.ResetPassword(config.GetDB(), req.Email, req.Token, req.Password); err != nil {
		utils.RenderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Password has been reset",
		"data":    nil,
	})
}
