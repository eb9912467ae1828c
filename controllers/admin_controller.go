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

// AdminRedirect handles GET /admin-redirect - exchanges a bearer token for a
// browser session cookie and forwards to the admin panel. This is how an SPA
// hands an authenticated admin over to the server-rendered admin area.
func AdminRedirect(c *gin.Context) {
	cfg := config.GetConfig()

	bearer := middleware.BearerFromRequest(c)
	if bearer == "" {
		c.Redirect(http.StatusFound, cfg.AdminLoginURL)
		return
	}

	db := config.GetDB()
	user, _, err := services.AuthenticateToken(db, bearer)
	if err != nil {
		c.Redirect(http.StatusFound, cfg.AdminLoginURL)
		return
	}
	if !user.IsAdmin() {
		c.Redirect(http.StatusFound, cfg.AdminLoginURL)
		return
	}

	session, err := services.CreateSession(db, user)
	if err != nil {
		c.Redirect(http.StatusFound, cfg.AdminLoginURL)
		return
	}

	middleware.SetSessionCookie(c, session.ID)
	c.Redirect(http.StatusFound, "/admin")
}

// AdminLogout handles POST /admin/logout - destroys the server-side session
// and sends the browser back to the login page.
func AdminLogout(c *gin.Context) {
	cfg := config.GetConfig()

	if sessionID, err := c.Cookie(services.SessionCookieName); err == nil {
		if err := services.DestroySession(config.GetDB(), sessionID); err != nil {
			utils.RenderError(c, &utils.UnexpectedError{Message: "Failed to end session", Cause: err})
			return
		}
	}

	middleware.ClearSessionCookie(c)
	c.Redirect(http.StatusFound, cfg.AdminLoginURL)
}

// AdminHome handles GET /admin - a summary of what needs attention
func AdminHome(c *gin.Context) {
	db := config.GetDB()

	var pendingOrders, pendingValidations, activePacks, publishedArticles int64

	if err := db.Model(&models.Order{}).Where("status = ?", models.OrderStatusPending).Count(&pendingOrders).Error; err != nil {
		utils.RenderError(c, &utils.UnexpectedError{Message: "Failed to load admin summary", Cause: err})
		return
	}
	if err := db.Model(&models.PaymentValidation{}).Where("validation_status = ?", models.ValidationStatusPending).Count(&pendingValidations).Error; err != nil {
		utils.RenderError(c, &utils.UnexpectedError{Message: "Failed to load admin summary", Cause: err})
		return
	}
	if err := db.Model(&models.Pack{}).Where("is_active = ?", true).Count(&activePacks).Error; err != nil {
		utils.RenderError(c, &utils.UnexpectedError{Message: "Failed to load admin summary", Cause: err})
		return
	}
	if err := db.Model(&models.BlogArticle{}).Where("status = ?", models.ArticleStatusPublished).Count(&publishedArticles).Error; err != nil {
		utils.RenderError(c, &utils.UnexpectedError{Message: "Failed to load admin summary", Cause: err})
		return
	}

	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		utils.RenderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "OK",
		"data": gin.H{
			"admin": gin.H{"id": user.ID, "name": user.Name},
			"summary": gin.H{
				"pending_orders":      pendingOrders,
				"pending_validations": pendingValidations,
				"active_packs":        activePacks,
				"published_articles":  publishedArticles,
			},
		},
	})
}
