package acceptance

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/kartlink/kartlink-api/controllers"
	"github.com/kartlink/kartlink-api/middleware"
	"github.com/kartlink/kartlink-api/models"
	"github.com/kartlink/kartlink-api/services"
	"github.com/kartlink/kartlink-api/tests/testutil"
)

// OrderAcceptanceTestSuite walks a card order from checkout to approval
// over real HTTP
type OrderAcceptanceTestSuite struct {
	suite.Suite
	server  *httptest.Server
	db      *gorm.DB
	storage *services.MockFileStorage
	pack    models.Pack
}

// SetupSuite runs once before all tests
func (suite *OrderAcceptanceTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	testutil.MustSetTestEnvironment(suite.T())
	testutil.SetupTestConfig()
}

// SetupTest runs before each test
func (suite *OrderAcceptanceTestSuite) SetupTest() {
	suite.db = testutil.SetupTestDB(suite.T())

	suite.storage = services.NewMockFileStorage()
	suite.storage.SetAsMockForTesting()

	suite.pack = models.Pack{
		Name:     "Pro Pack",
		Slug:     "pro-pack",
		Type:     models.PackTypePro,
		Price:    490,
		IsActive: true,
	}
	suite.NoError(suite.db.Create(&suite.pack).Error)

	router := gin.New()
	router.Use(gin.Recovery())

	v1 := router.Group("/api/v1")
	v1.GET("/packs", controllers.ListPacks)
	v1.POST("/orders", controllers.CreateOrder)

	protected := v1.Group("", middleware.RequireToken())
	{
		protected.GET("/orders", controllers.ListOrders)
		protected.GET("/orders/:id", controllers.GetOrder)
		protected.POST("/orders/:id/payment-proof", controllers.SubmitPaymentProof)
	}

	admin := router.Group("/admin", middleware.RequireSessionOrToken(), middleware.RequireAdmin())
	{
		admin.GET("/payment-validations", controllers.ListPaymentValidations)
		admin.POST("/payment-validations/:id/review", controllers.ReviewPaymentValidation)
	}

	suite.server = httptest.NewServer(router)
}

// TearDownTest runs after each test
func (suite *OrderAcceptanceTestSuite) TearDownTest() {
	if suite.server != nil {
		suite.server.Close()
	}
}

// do sends a request and decodes the JSON envelope
func (suite *OrderAcceptanceTestSuite) do(req *http.Request) (*http.Response, map[string]interface{}) {
	resp, err := http.DefaultClient.Do(req)
	suite.NoError(err)

	var decoded map[string]interface{}
	suite.NoError(json.NewDecoder(resp.Body).Decode(&decoded))
	resp.Body.Close()
	return resp, decoded
}

// createOrder places an order through the public endpoint
func (suite *OrderAcceptanceTestSuite) createOrder(token string) uint {
	payload, err := json.Marshal(map[string]interface{}{
		"pack_id":     suite.pack.ID,
		"client_name": "Salma Idrissi",
		"quantity":    2,
	})
	suite.NoError(err)

	req, err := http.NewRequest(http.MethodPost, suite.server.URL+"/api/v1/orders", bytes.NewReader(payload))
	suite.NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, body := suite.do(req)
	suite.Require().Equal(http.StatusCreated, resp.StatusCode)
	order := body["data"].(map[string]interface{})
	return uint(order["id"].(float64))
}

// submitProof uploads a payment proof for an order
func (suite *OrderAcceptanceTestSuite) submitProof(orderID uint, token string) (*http.Response, map[string]interface{}) {
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	part, err := writer.CreateFormFile("proof", "receipt.png")
	suite.NoError(err)
	_, err = part.Write([]byte("fake receipt"))
	suite.NoError(err)
	suite.NoError(writer.WriteField("amount_paid", "980"))
	suite.NoError(writer.Close())

	url := fmt.Sprintf("%s/api/v1/orders/%d/payment-proof", suite.server.URL, orderID)
	req, err := http.NewRequest(http.MethodPost, url, buf)
	suite.NoError(err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	return suite.do(req)
}

// TestOrderJourneyToApproval covers checkout, proof upload and admin review
func (suite *OrderAcceptanceTestSuite) TestOrderJourneyToApproval() {
	customer := testutil.CreateTestUser(suite.T(), suite.db, "Salma Idrissi", "salma@example.com", models.RoleCustomer)
	customerToken := testutil.IssueTestToken(suite.T(), suite.db, customer)

	orderID := suite.createOrder(customerToken)

	// The order shows up in the customer's own list as pending
	req, err := http.NewRequest(http.MethodGet, suite.server.URL+"/api/v1/orders", nil)
	suite.NoError(err)
	req.Header.Set("Authorization", "Bearer "+customerToken)
	resp, body := suite.do(req)
	suite.Equal(http.StatusOK, resp.StatusCode)
	orders := body["data"].([]interface{})
	suite.Require().Len(orders, 1)
	assert.Equal(suite.T(), "pending", orders[0].(map[string]interface{})["status"])

	// Proof upload opens a pending validation
	resp, body = suite.submitProof(orderID, customerToken)
	suite.Equal(http.StatusCreated, resp.StatusCode)
	validation := body["data"].(map[string]interface{})
	assert.Equal(suite.T(), "pending", validation["validation_status"])
	validationID := uint(validation["id"].(float64))

	// Admin approves through the back office
	admin := testutil.CreateTestUser(suite.T(), suite.db, "Back Office", "admin@example.com", models.RoleAdmin)
	adminToken := testutil.IssueTestToken(suite.T(), suite.db, admin)

	payload, err := json.Marshal(map[string]interface{}{"status": "approved", "admin_notes": "Amount matches"})
	suite.NoError(err)
	reviewURL := fmt.Sprintf("%s/admin/payment-validations/%d/review?_token=%s", suite.server.URL, validationID, adminToken)
	req, err = http.NewRequest(http.MethodPost, reviewURL, bytes.NewReader(payload))
	suite.NoError(err)
	req.Header.Set("Content-Type", "application/json")
	resp, _ = suite.do(req)
	suite.Equal(http.StatusOK, resp.StatusCode)

	// The customer now sees the order as paid
	req, err = http.NewRequest(http.MethodGet, fmt.Sprintf("%s/api/v1/orders/%d", suite.server.URL, orderID), nil)
	suite.NoError(err)
	req.Header.Set("Authorization", "Bearer "+customerToken)
	resp, body = suite.do(req)
	suite.Equal(http.StatusOK, resp.StatusCode)
	assert.Equal(suite.T(), "paid", body["data"].(map[string]interface{})["status"])
}

// TestRejectedProofKeepsOrderPending verifies rejection does not advance the order
func (suite *OrderAcceptanceTestSuite) TestRejectedProofKeepsOrderPending() {
	customer := testutil.CreateTestUser(suite.T(), suite.db, "Karim Alaoui", "karim@example.com", models.RoleCustomer)
	customerToken := testutil.IssueTestToken(suite.T(), suite.db, customer)

	orderID := suite.createOrder(customerToken)
	resp, body := suite.submitProof(orderID, customerToken)
	suite.Equal(http.StatusCreated, resp.StatusCode)
	validationID := uint(body["data"].(map[string]interface{})["id"].(float64))

	admin := testutil.CreateTestUser(suite.T(), suite.db, "Back Office", "admin@example.com", models.RoleAdmin)
	adminToken := testutil.IssueTestToken(suite.T(), suite.db, admin)

	payload, err := json.Marshal(map[string]interface{}{"status": "rejected", "admin_notes": "Blurry screenshot"})
	suite.NoError(err)
	reviewURL := fmt.Sprintf("%s/admin/payment-validations/%d/review?_token=%s", suite.server.URL, validationID, adminToken)
	req, err := http.NewRequest(http.MethodPost, reviewURL, bytes.NewReader(payload))
	suite.NoError(err)
	req.Header.Set("Content-Type", "application/json")
	resp, _ = suite.do(req)
	suite.Equal(http.StatusOK, resp.StatusCode)

	var order models.Order
	suite.NoError(suite.db.First(&order, orderID).Error)
	assert.Equal(suite.T(), models.OrderStatusPending, order.Status)
}

// TestAnonymousCheckout verifies an order can be placed without an account
func (suite *OrderAcceptanceTestSuite) TestAnonymousCheckout() {
	orderID := suite.createOrder("")

	var order models.Order
	suite.NoError(suite.db.First(&order, orderID).Error)
	assert.Nil(suite.T(), order.UserID)
	assert.Equal(suite.T(), models.OrderChannelForm, order.Channel)
}

// TestOrderAcceptanceTestSuite runs the test suite
func TestOrderAcceptanceTestSuite(t *testing.T) {
	suite.Run(t, new(OrderAcceptanceTestSuite))
}
