package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kartlink/kartlink-api/config"
	"github.com/kartlink/kartlink-api/middleware"
	"github.com/kartlink/kartlink-api/models"
	"github.com/kartlink/kartlink-api/resources"
	"github.com/kartlink/kartlink-api/utils"
)

// ReviewPaymentValidationRequest is the admin decision on a submitted proof
type ReviewPaymentValidationRequest struct {
	Status     string `json:"status" binding:"required,oneof=approved rejected"`
	AdminNotes string `json:"admin_notes"`
}

// ListPaymentValidations handles GET /admin/payment-validations
func ListPaymentValidations(c *gin.Context) {
	db := config.GetDB()
	pg := utils.ParsePagination(c)

	query := db.Model(&models.PaymentValidation{})
	if status := c.Query("status"); status != "" {
		query = query.Where("validation_status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.RenderError(c, &utils.UnexpectedError{Message: "Failed to count payment validations", Cause: err})
		return
	}

	var validations []models.PaymentValidation
	err := query.Preload("Order").Preload("ValidatedBy").
		Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&validations).Error
	if err != nil {
		utils.RenderError(c, &utils.UnexpectedError{Message: "Failed to load payment validations", Cause: err})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "OK",
		"data":    resources.PaymentValidationCollection(validations),
		"pagination": gin.H{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetPaymentValidation handles GET /admin/payment-validations/:id
func GetPaymentValidation(c *gin.Context) {
	var validation models.PaymentValidation
	err := config.GetDB().Preload("Order").Preload("ValidatedBy").
		First(&validation, c.Param("id")).Error
	if err != nil {
		if utils.IsNotFound(err) {
			utils.RenderError(c, &utils.NotFoundError{Message: "Payment validation not found"})
			return
		}
		utils.RenderError(c, &utils.UnexpectedError{Message: "Failed to load payment validation", Cause: err})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "OK",
		"data":    resources.PaymentValidationResource(&validation),
	})
}

// ReviewPaymentValidation handles POST /admin/payment-validations/:id/review -
// approves or rejects a pending proof. Approval marks the order as paid in the
// same transaction.
func ReviewPaymentValidation(c *gin.Context) {
	admin, err := middleware.GetCurrentUser(c)
	if err != nil {
		utils.RenderError(c, err)
		return
	}

	var req ReviewPaymentValidationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RenderError(c, &utils.ValidationError{Message: "Invalid request data", Details: err.Error()})
		return
	}

	db := config.GetDB()

	var validation models.PaymentValidation
	txErr := db.Transaction(func(tx *gorm.DB) error {
		// Row lock so two concurrent reviews of the same validation
		// serialize; the loser re-reads the committed status and conflicts.
		if err := tx.Scopes(models.LockForUpdate).First(&validation, c.Param("id")).Error; err != nil {
			return err
		}
		if validation.Reviewed() {
			return &utils.ConflictError{Message: "Payment validation has already been reviewed"}
		}

		now := time.Now()
		validation.ValidationStatus = req.Status
		validation.AdminNotes = req.AdminNotes
		validation.ValidatedByID = &admin.ID
		validation.ValidateAt = &now

		if err := tx.Save(&validation).Error; err != nil {
			return err
		}

		if req.Status == models.ValidationStatusApproved {
			return tx.Model(&models.Order{}).
				Where("id = ?", validation.OrderID).
				Update("status", models.OrderStatusPaid).Error
		}
		return nil
	})
	if txErr != nil {
		if utils.IsNotFound(txErr) {
			utils.RenderError(c, &utils.NotFoundError{Message: "Payment validation not found"})
			return
		}
		utils.RenderError(c, txErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Payment validation reviewed",
		"data":    resources.PaymentValidationResource(&validation),
	})
}
