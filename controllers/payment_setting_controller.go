package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kartlink/kartlink-api/config"
	"github.com/kartlink/kartlink-api/models"
	"github.com/kartlink/kartlink-api/resources"
	"github.com/kartlink/kartlink-api/services"
	"github.com/kartlink/kartlink-api/utils"
)

// PaymentSettingRequest is shared by the admin create and update endpoints
type PaymentSettingRequest struct {
	BankName            string `json:"bank_name" binding:"required"`
	AccountHolder       string `json:"account_holder" binding:"required"`
	RIBNumber           string `json:"rib_number"`
	IBAN                string `json:"iban"`
	SwiftCode           string `json:"swift_code"`
	PaymentInstructions string `json:"payment_instructions"`
	IsActive            bool   `json:"is_active"`
}

// GetActivePaymentSetting handles GET /api/v1/payment-settings/active - the
// bank details shown to customers at checkout
func GetActivePaymentSetting(c *gin.Context) {
	setting, err := services.ActivePaymentSetting(config.GetDB())
	if err != nil {
		utils.RenderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "OK",
		"data":    resources.PaymentSettingResource(setting),
	})
}

// ListPaymentSettings handles GET /admin/payment-settings
func ListPaymentSettings(c *gin.Context) {
	var settings []models.PaymentSetting
	err := config.GetDB().Order("is_active desc, created_at desc").Find(&settings).Error
	if err != nil {
		utils.RenderError(c, &utils.UnexpectedError{Message: "Failed to load payment settings", Cause: err})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "OK",
		"data":    resources.PaymentSettingCollection(settings),
	})
}

// CreatePaymentSetting handles POST /admin/payment-settings
func CreatePaymentSetting(c *gin.Context) {
	var req PaymentSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RenderError(c, &utils.ValidationError{Message: "Invalid request data", Details: err.Error()})
		return
	}

	setting := models.PaymentSetting{
		BankName:            req.BankName,
		AccountHolder:       req.AccountHolder,
		RIBNumber:           req.RIBNumber,
		IBAN:                req.IBAN,
		SwiftCode:           req.SwiftCode,
		PaymentInstructions: req.PaymentInstructions,
		IsActive:            req.IsActive,
	}

	if err := services.CreatePaymentSetting(config.GetDB(), &setting); err != nil {
		utils.RenderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Payment setting created",
		"data":    resources.PaymentSettingResource(&setting),
	})
}

// UpdatePaymentSetting handles PUT /admin/payment-settings/:id
func UpdatePaymentSetting(c *gin.Context) {
	db := config.GetDB()

	var setting models.PaymentSetting
	if err := db.First(&setting, c.Param("id")).Error; err != nil {
		if utils.IsNotFound(err) {
			utils.RenderError(c, &utils.NotFoundError{Message: "Payment setting not found"})
			return
		}
		utils.RenderError(c, &utils.UnexpectedError{Message: "Failed to load payment setting", Cause: err})
		return
	}

	var req PaymentSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RenderError(c, &utils.ValidationError{Message: "Invalid request data", Details: err.Error()})
		return
	}

	setting.BankName = req.BankName
	setting.AccountHolder = req.AccountHolder
	setting.RIBNumber = req.RIBNumber
	setting.IBAN = req.IBAN
	setting.SwiftCode = req.SwiftCode
	setting.PaymentInstructions = req.PaymentInstructions
	setting.IsActive = req.IsActive

	if err := services.UpdatePaymentSetting(db, &setting); err != nil {
		utils.RenderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Payment setting updated",
		"data":    resources.PaymentSettingResource(&setting),
	})
}

// DeletePaymentSetting handles DELETE /admin/payment-settings/:id
func DeletePaymentSetting(c *gin.Context) {
	db := config.GetDB()

	var setting models.PaymentSetting
	if err := db.First(&setting, c.Param("id")).Error; err != nil {
		if utils.IsNotFound(err) {
			utils.RenderError(c, &utils.NotFoundError{Message: "Payment setting not found"})
			return
		}
		utils.RenderError(c, &utils.UnexpectedError{Message: "Failed to load payment setting", Cause: err})
		return
	}

	if err := db.Delete(&setting).Error; err != nil {
		utils.RenderError(c, &utils.UnexpectedError{Message: "Failed to delete payment setting", Cause: err})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Payment setting deleted",
		"data":    nil,
	})
}
