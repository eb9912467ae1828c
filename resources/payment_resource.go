package resources

import (
	"github.com/gin-gonic/gin"

	"github.com/kartlink/kartlink-api/models"
)

// PaymentValidationResource transforms a PaymentValidation. The order and
// validator appear only when preloaded.
func PaymentValidationResource(validation *models.PaymentValidation) gin.H {
	out := gin.H{
		"id":                validation.ID,
		"order_id":          validation.OrderID,
		"proof_path":        validation.ProofPath,
		"proof_url":         fileURL(validation.ProofPath),
		"amount_paid":       validation.AmountPaid,
		"client_notes":      validation.ClientNotes,
		"validation_status": validation.ValidationStatus,
		"admin_notes":       validation.AdminNotes,
		"validated_by_id":   validation.ValidatedByID,
		"validate_at":       validation.ValidateAt,
		"created_at":        validation.CreatedAt,
	}

	if validation.Order != nil {
		out["order"] = OrderResource(validation.Order)
	}

	if validation.ValidatedBy != nil {
		out["validated_by"] = gin.H{
			"id":   validation.ValidatedBy.ID,
			"name": validation.ValidatedBy.Name,
		}
	}

	return out
}

// PaymentValidationCollection transforms a list of validations.
func PaymentValidationCollection(validations []models.PaymentValidation) []gin.H {
	out := make([]gin.H, 0, len(validations))
	for i := range validations {
		out = append(out, PaymentValidationResource(&validations[i]))
	}
	return out
}

// PaymentSettingResource transforms bank transfer instructions.
func PaymentSettingResource(setting *models.PaymentSetting) gin.H {
	return gin.H{
		"id":                   setting.ID,
		"bank_name":            setting.BankName,
		"account_holder":       setting.AccountHolder,
		"rib_number":           setting.RIBNumber,
		"iban":                 setting.IBAN,
		"swift_code":           setting.SwiftCode,
		"payment_instructions": setting.PaymentInstructions,
		"is_active":            setting.IsActive,
		"updated_at":           setting.UpdatedAt,
	}
}

// PaymentSettingCollection transforms a list of settings.
func PaymentSettingCollection(settings []models.PaymentSetting) []gin.H {
	out := make([]gin.H, 0, len(settings))
	for i := range settings {
		out = append(out, PaymentSettingResource(&settings[i]))
	}
	return out
}
