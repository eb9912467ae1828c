package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kartlink/kartlink-api/config"
	"github.com/kartlink/kartlink-api/models"
	"github.com/kartlink/kartlink-api/services"
	"github.com/kartlink/kartlink-api/utils"
)

const (
	currentUserKey  = "current_user"
	currentTokenKey = "current_token"
)

// RequireToken authenticates requests carrying a bearer token and stores the
// resolved user and token in the Gin context.
func RequireToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		bearer := bearerFromHeader(c)
		if bearer == "" {
			utils.RenderError(c, &utils.AuthenticationError{Message: "Authentication required"})
			c.Abort()
			return
		}

		user, token, err := services.AuthenticateToken(config.GetDB(), bearer)
		if err != nil {
			utils.RenderError(c, err)
			c.Abort()
			return
		}

		c.Set(currentUserKey, user)
		c.Set(currentTokenKey, token)
		c.Next()
	}
}

// RequireSessionOrToken guards the cookie-authenticated admin surface.
// Requests with a valid session cookie pass through; session-less requests
// bearing a bearer token (header or _token query parameter) are promoted to a
// session transparently; everything else is redirected to the external login
// page.
func RequireSessionOrToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		db := config.GetDB()

		if sessionID, err := c.Cookie(services.SessionCookieName); err == nil {
			if user, _, err := services.ResolveSession(db, sessionID); err == nil {
				c.Set(currentUserKey, user)
				c.Next()
				return
			}
		}

		bearer := bearerFromRequest(c)
		if bearer != "" {
			if user, _, err := services.AuthenticateToken(db, bearer); err == nil {
				session, err := services.CreateSession(db, user)
				if err == nil {
					setSessionCookie(c, session.ID)
					c.Set(currentUserKey, user)
					c.Next()
					return
				}
			}
		}

		c.Redirect(http.StatusFound, config.GetConfig().AdminLoginURL)
		c.Abort()
	}
}

// RequireAdmin rejects authenticated users that are not admins. It must run
// after RequireToken or RequireSessionOrToken.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := GetCurrentUser(c)
		if err != nil || !user.IsAdmin() {
			utils.RenderError(c, &utils.AuthorizationError{Message: "Admin access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetCurrentUser extracts the authenticated user from the Gin context
func GetCurrentUser(c *gin.Context) (*models.User, error) {
	value, exists := c.Get(currentUserKey)
	if !exists {
		return nil, &utils.AuthenticationError{Message: "Authentication required"}
	}

	user, ok := value.(*models.User)
	if !ok {
		return nil, &utils.AuthenticationError{Message: "Authentication required"}
	}

	return user, nil
}

// GetCurrentToken extracts the access token used for the present request
func GetCurrentToken(c *gin.Context) (*models.AccessToken, error) {
	value, exists := c.Get(currentTokenKey)
	if !exists {
		return nil, &utils.AuthenticationError{Message: "Authentication required"}
	}

	token, ok := value.(*models.AccessToken)
	if !ok {
		return nil, &utils.AuthenticationError{Message: "Authentication required"}
	}

	return token, nil
}

// SetSessionCookie exposes cookie writing for the bridge controller.
func SetSessionCookie(c *gin.Context, sessionID string) {
	setSessionCookie(c, sessionID)
}

func setSessionCookie(c *gin.Context, sessionID string) {
	c.SetCookie(services.SessionCookieName, sessionID, int(services.SessionTTL.Seconds()), "/", "", false, true)
}

// ClearSessionCookie expires the session cookie on logout.
func ClearSessionCookie(c *gin.Context) {
	c.SetCookie(services.SessionCookieName, "", -1, "/", "", false, true)
}

func bearerFromHeader(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return parts[1]
}

// bearerFromRequest also accepts the _token query parameter, which the admin
// redirect uses because a browser navigation cannot carry a header.
func bearerFromRequest(c *gin.Context) string {
	if bearer := bearerFromHeader(c); bearer != "" {
		return bearer
	}
	return c.Query("_token")
}

// BearerFromRequest exposes bearer extraction for the bridge controller.
func BearerFromRequest(c *gin.Context) string {
	return bearerFromRequest(c)
}
