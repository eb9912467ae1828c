package acceptance

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/kartlink/kartlink-api/controllers"
	"github.com/kartlink/kartlink-api/middleware"
	"github.com/kartlink/kartlink-api/services"
	"github.com/kartlink/kartlink-api/tests/testutil"
)

// AuthAcceptanceTestSuite walks the account lifecycle over real HTTP
type AuthAcceptanceTestSuite struct {
	suite.Suite
	server *httptest.Server
	mailer *services.MockMailer
}

// SetupSuite runs once before all tests
func (suite *AuthAcceptanceTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	testutil.MustSetTestEnvironment(suite.T())
	testutil.SetupTestConfig()
}

// SetupTest runs before each test
func (suite *AuthAcceptanceTestSuite) SetupTest() {
	testutil.SetupTestDB(suite.T())

	suite.mailer = services.NewMockMailer()
	suite.mailer.SetAsMockForTesting()

	router := gin.New()
	router.Use(gin.Recovery())

	v1 := router.Group("/api/v1")
	{
		v1.POST("/register", controllers.Register)
		v1.POST("/login", controllers.Login)
		v1.POST("/forgot-password", controllers.ForgotPassword)
		v1.POST("/reset-password", controllers.ResetPassword)
	}
	protected := v1.Group("", middleware.RequireToken())
	{
		protected.GET("/me", controllers.Me)
		protected.POST("/logout", controllers.Logout)
	}

	suite.server = httptest.NewServer(router)
}

// TearDownTest runs after each test
func (suite *AuthAcceptanceTestSuite) TearDownTest() {
	if suite.server != nil {
		suite.server.Close()
	}
}

// postJSON sends a JSON request to the running test server
func (suite *AuthAcceptanceTestSuite) postJSON(path string, body interface{}, token string) (*http.Response, map[string]interface{}) {
	payload, err := json.Marshal(body)
	suite.NoError(err)

	req, err := http.NewRequest(http.MethodPost, suite.server.URL+path, bytes.NewReader(payload))
	suite.NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	suite.NoError(err)

	var decoded map[string]interface{}
	suite.NoError(json.NewDecoder(resp.Body).Decode(&decoded))
	resp.Body.Close()
	return resp, decoded
}

// getJSON sends an authenticated GET to the running test server
func (suite *AuthAcceptanceTestSuite) getJSON(path, token string) (*http.Response, map[string]interface{}) {
	req, err := http.NewRequest(http.MethodGet, suite.server.URL+path, nil)
	suite.NoError(err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	suite.NoError(err)

	var decoded map[string]interface{}
	suite.NoError(json.NewDecoder(resp.Body).Decode(&decoded))
	resp.Body.Close()
	return resp, decoded
}

// TestRegisterLoginAndLogoutJourney covers the happy path end to end
func (suite *AuthAcceptanceTestSuite) TestRegisterLoginAndLogoutJourney() {
	resp, body := suite.postJSON("/api/v1/register", map[string]interface{}{
		"name":     "Nadia Benali",
		"email":    "nadia@example.com",
		"password": "super-secret-1",
	}, "")
	suite.Equal(http.StatusCreated, resp.StatusCode)

	data := body["data"].(map[string]interface{})
	token := data["token"].(string)
	suite.NotEmpty(token)

	// The fresh token authenticates the account
	resp, body = suite.getJSON("/api/v1/me", token)
	suite.Equal(http.StatusOK, resp.StatusCode)
	me := body["data"].(map[string]interface{})
	assert.Equal(suite.T(), "nadia@example.com", me["email"])
	assert.Equal(suite.T(), "customer", me["role"])

	// A second login issues an independent token
	resp, body = suite.postJSON("/api/v1/login", map[string]interface{}{
		"email":    "nadia@example.com",
		"password": "super-secret-1",
	}, "")
	suite.Equal(http.StatusOK, resp.StatusCode)
	secondToken := body["data"].(map[string]interface{})["token"].(string)
	suite.NotEmpty(secondToken)
	assert.NotEqual(suite.T(), token, secondToken)

	// Logging out everywhere kills both tokens
	resp, _ = suite.postJSON("/api/v1/logout", map[string]interface{}{"scope": "all"}, token)
	suite.Equal(http.StatusOK, resp.StatusCode)

	resp, _ = suite.getJSON("/api/v1/me", token)
	suite.Equal(http.StatusUnauthorized, resp.StatusCode)
	resp, _ = suite.getJSON("/api/v1/me", secondToken)
	suite.Equal(http.StatusUnauthorized, resp.StatusCode)
}

// TestPasswordResetJourney covers forgot password through login with the new password
func (suite *AuthAcceptanceTestSuite) TestPasswordResetJourney() {
	resp, _ := suite.postJSON("/api/v1/register", map[string]interface{}{
		"name":     "Omar Haddad",
		"email":    "omar@example.com",
		"password": "initial-pass-1",
	}, "")
	suite.Equal(http.StatusCreated, resp.StatusCode)

	resp, body := suite.postJSON("/api/v1/forgot-password", map[string]interface{}{
		"email": "omar@example.com",
	}, "")
	suite.Equal(http.StatusOK, resp.StatusCode)
	assert.Equal(suite.T(), "If the email exists, a reset link has been sent", body["message"])

	// The token travels by email, never in the response body
	suite.Require().Len(suite.mailer.Sent, 1)
	mail := suite.mailer.Sent[0]
	assert.Equal(suite.T(), "omar@example.com", mail.To)
	suite.NotEmpty(mail.Token)

	resp, _ = suite.postJSON("/api/v1/reset-password", map[string]interface{}{
		"email":    "omar@example.com",
		"token":    mail.Token,
		"password": "brand-new-pass-1",
	}, "")
	suite.Equal(http.StatusOK, resp.StatusCode)

	// Old credentials are dead, new ones work
	resp, _ = suite.postJSON("/api/v1/login", map[string]interface{}{
		"email":    "omar@example.com",
		"password": "initial-pass-1",
	}, "")
	suite.Equal(http.StatusUnauthorized, resp.StatusCode)

	resp, _ = suite.postJSON("/api/v1/login", map[string]interface{}{
		"email":    "omar@example.com",
		"password": "brand-new-pass-1",
	}, "")
	suite.Equal(http.StatusOK, resp.StatusCode)
}

// TestForgotPasswordUnknownEmail verifies the response never reveals
// whether an account exists
func (suite *AuthAcceptanceTestSuite) TestForgotPasswordUnknownEmail() {
	resp, body := suite.postJSON("/api/v1/forgot-password", map[string]interface{}{
		"email": "nobody@example.com",
	}, "")
	suite.Equal(http.StatusOK, resp.StatusCode)
	assert.Equal(suite.T(), "If the email exists, a reset link has been sent", body["message"])
	assert.Empty(suite.T(), suite.mailer.Sent)
}

// TestAuthAcceptanceTestSuite runs the test suite
func TestAuthAcceptanceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthAcceptanceTestSuite))
}
