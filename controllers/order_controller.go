package controllers

import (
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kartlink/kartlink-api/config"
	"github.com/kartlink/kartlink-api/middleware"
	"github.com/kartlink/kartlink-api/models"
	"github.com/kartlink/kartlink-api/resources"
	"github.com/kartlink/kartlink-api/services"
	"github.com/kartlink/kartlink-api/utils"
)

// CreateOrderRequest represents the request body for creating an order.
// JSON and multipart submissions share the same fields; multipart may also
// carry logo and brief files.
type CreateOrderRequest struct {
	PackID      uint   `json:"pack_id" form:"pack_id" binding:"required"`
	TemplateID  *uint  `json:"template_id" form:"template_id"`
	ClientName  string `json:"client_name" form:"client_name" binding:"required"`
	ClientEmail string `json:"client_email" form:"client_email" binding:"omitempty,email"`
	ClientPhone string `json:"client_phone" form:"client_phone"`
	CompanyName string `json:"company_name" form:"company_name"`
	Orientation string `json:"orientation" form:"orientation"`
	Color       string `json:"color" form:"color"`
	Quantity    int    `json:"quantity" form:"quantity" binding:"required,gte=1"`
	Channel     string `json:"channel" form:"channel" binding:"omitempty,oneof=whatsapp form"`
}

// SubmitPaymentProofRequest carries the multipart fields next to the proof file
type SubmitPaymentProofRequest struct {
	AmountPaid  float64 `form:"amount_paid" binding:"required,gt=0"`
	ClientNotes string  `form:"client_notes"`
}

// CreateOrder handles POST /api/v1/orders - public order creation. A valid
// bearer token, when present, attaches the order to the account.
func CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.RenderError(c, &utils.ValidationError{Message: "Invalid request data", Details: err.Error()})
		return
	}

	db := config.GetDB()

	var pack models.Pack
	if err := db.Where("id = ? AND is_active = ?", req.PackID, true).First(&pack).Error; err != nil {
		if utils.IsNotFound(err) {
			utils.RenderError(c, &utils.NotFoundError{Message: "Pack not found"})
			return
		}
		utils.RenderError(c, &utils.UnexpectedError{Message: "Failed to load pack", Cause: err})
		return
	}

	if req.TemplateID != nil {
		var template models.Template
		if err := db.Where("id = ? AND pack_id = ?", *req.TemplateID, pack.ID).First(&template).Error; err != nil {
			if utils.IsNotFound(err) {
				utils.RenderError(c, &utils.ValidationError{Message: "Template does not belong to the selected pack"})
				return
			}
			utils.RenderError(c, &utils.UnexpectedError{Message: "Failed to load template", Cause: err})
			return
		}
	}

	channel := req.Channel
	if channel == "" {
		channel = models.OrderChannelForm
	}

	order := models.Order{
		PackID:      pack.ID,
		TemplateID:  req.TemplateID,
		ClientName:  req.ClientName,
		ClientEmail: req.ClientEmail,
		ClientPhone: req.ClientPhone,
		CompanyName: req.CompanyName,
		Orientation: req.Orientation,
		Color:       req.Color,
		Quantity:    req.Quantity,
		Status:      models.OrderStatusPending,
		Channel:     channel,
	}

	// Attach the account when the request carries a valid bearer token;
	// anonymous orders stay reachable through the client contact fields
	if bearer := middleware.BearerFromRequest(c); bearer != "" {
		if user, _, err := services.AuthenticateToken(db, bearer); err == nil {
			order.UserID = &user.ID
		}
	}

	// Optional design assets on multipart submissions. Files are written
	// first and removed again if the record write fails, so a failed order
	// leaves no dangling uploads.
	var savedPaths []string
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		logoPath, err := saveOptionalFile(c, "logo", "orders/logos")
		if err != nil {
			utils.RenderError(c, err)
			return
		}
		if logoPath != "" {
			order.LogoPath = logoPath
			savedPaths = append(savedPaths, logoPath)
		}

		briefPath, err := saveOptionalFile(c, "brief", "orders/briefs")
		if err != nil {
			cleanupFiles(savedPaths)
			utils.RenderError(c, err)
			return
		}
		if briefPath != "" {
			order.BriefPath = briefPath
			savedPaths = append(savedPaths, briefPath)
		}
	}

	if err := db.Create(&order).Error; err != nil {
		cleanupFiles(savedPaths)
		utils.RenderError(c, &utils.UnexpectedError{Message: "Failed to create order", Cause: err})
		return
	}

	if err := db.Preload("Pack").Preload("Template").First(&order, order.ID).Error; err != nil {
		utils.RenderError(c, &utils.UnexpectedError{Message: "Failed to load order details", Cause: err})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Order created",
		"data":    resources.OrderResource(&order),
	})
}

// ListOrders handles GET /api/v1/orders - lists the authenticated user's
// orders; admins see every order
func ListOrders(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		utils.RenderError(c, err)
		return
	}

	db := config.GetDB()
	pg := utils.ParsePagination(c)

	query := db.Model(&models.Order{})
	if !user.IsAdmin() {
		query = query.Where("user_id = ?", user.ID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.RenderError(c, &utils.UnexpectedError{Message: "Failed to count orders", Cause: err})
		return
	}

	var orders []models.Order
	err = query.Preload("Pack").Preload("Template").
		Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&orders).Error
	if err != nil {
		utils.RenderError(c, &utils.UnexpectedError{Message: "Failed to load orders", Cause: err})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "OK",
		"data":    resources.OrderCollection(orders),
		"pagination": gin.H{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetOrder handles GET /api/v1/orders/:id - returns one of the user's orders
func GetOrder(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		utils.RenderError(c, err)
		return
	}

	db := config.GetDB()

	var order models.Order
	err = db.Preload("Pack").Preload("Template").Preload("Validations").
		First(&order, c.Param("id")).Error
	if err != nil {
		if utils.IsNotFound(err) {
			utils.RenderError(c, &utils.NotFoundError{Message: "Order not found"})
			return
		}
		utils.RenderError(c, &utils.UnexpectedError{Message: "Failed to load order", Cause: err})
		return
	}

	if !user.IsAdmin() && !order.OwnedBy(user.ID) {
		utils.RenderError(c, &utils.AuthorizationError{Message: "You do not have access to this order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "OK",
		"data":    resources.OrderResource(&order),
	})
}

// SubmitPaymentProof handles POST /api/v1/orders/:id/payment-proof - attaches
// a payment proof and opens a pending validation for review
func SubmitPaymentProof(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		utils.RenderError(c, err)
		return
	}

	db := config.GetDB()

	var order models.Order
	if err := db.First(&order, c.Param("id")).Error; err != nil {
		if utils.IsNotFound(err) {
			utils.RenderError(c, &utils.NotFoundError{Message: "Order not found"})
			return
		}
		utils.RenderError(c, &utils.UnexpectedError{Message: "Failed to load order", Cause: err})
		return
	}

	if !user.IsAdmin() && !order.OwnedBy(user.ID) {
		utils.RenderError(c, &utils.AuthorizationError{Message: "You do not have access to this order"})
		return
	}

	var req SubmitPaymentProofRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.RenderError(c, &utils.ValidationError{Message: "Invalid request data", Details: err.Error()})
		return
	}

	fileHeader, err := c.FormFile("proof")
	if err != nil {
		utils.RenderError(c, &utils.ValidationError{Message: "A payment proof file is required"})
		return
	}
	if err := utils.ValidateUploadedFile(fileHeader); err != nil {
		utils.RenderError(c, &utils.ValidationError{Message: err.Error()})
		return
	}

	proofPath, err := services.GetFileStorage().Save(fileHeader, "orders/proofs")
	if err != nil {
		utils.RenderError(c, &utils.UnexpectedError{Message: "Failed to store payment proof", Cause: err})
		return
	}

	validation := models.PaymentValidation{
		OrderID:          order.ID,
		ProofPath:        proofPath,
		AmountPaid:       req.AmountPaid,
		ClientNotes:      req.ClientNotes,
		ValidationStatus: models.ValidationStatusPending,
	}

	// The proof reference and the validation row land together or not at all
	txErr := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&validation).Error; err != nil {
			return err
		}
		return tx.Model(&order).Update("payment_proof_path", proofPath).Error
	})
	if txErr != nil {
		cleanupFiles([]string{proofPath})
		utils.RenderError(c, &utils.UnexpectedError{Message: "Failed to record payment proof", Cause: txErr})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Payment proof submitted",
		"data":    resources.PaymentValidationResource(&validation),
	})
}

// saveOptionalFile validates and stores a named multipart file when present.
func saveOptionalFile(c *gin.Context, field, dir string) (string, error) {
	fileHeader, err := c.FormFile(field)
	if err == http.ErrMissingFile {
		return "", nil
	}
	if err == multipart.ErrMessageTooLarge {
		return "", &utils.ValidationError{Message: "Uploaded file is too large"}
	}
	if err != nil {
		return "", &utils.ValidationError{Message: "Invalid uploaded file"}
	}

	if err := utils.ValidateUploadedFile(fileHeader); err != nil {
		return "", &utils.ValidationError{Message: err.Error()}
	}

	path, err := services.GetFileStorage().Save(fileHeader, dir)
	if err != nil {
		return "", &utils.UnexpectedError{Message: "Failed to store uploaded file", Cause: err}
	}

	return path, nil
}

func cleanupFiles(paths []string) {
	storage := services.GetFileStorage()
	if storage == nil {
		return
	}
	for _, path := range paths {
		_ = storage.Delete(path)
	}
}
