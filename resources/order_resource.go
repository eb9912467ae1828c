package resources

import (
	"github.com/gin-gonic/gin"

	"github.com/kartlink/kartlink-api/models"
)

// OrderResource transforms an Order. The user, pack, template and validations
// keys appear only when the relation was preloaded.
func OrderResource(order *models.Order) gin.H {
	out := gin.H{
		"id":                 order.ID,
		"user_id":            order.UserID,
		"pack_id":            order.PackID,
		"template_id":        order.TemplateID,
		"client_name":        order.ClientName,
		"client_email":       order.ClientEmail,
		"client_phone":       order.ClientPhone,
		"company_name":       order.CompanyName,
		"orientation":        order.Orientation,
		"color":              order.Color,
		"quantity":           order.Quantity,
		"status":             order.Status,
		"channel":            order.Channel,
		"logo_path":          order.LogoPath,
		"logo_url":           fileURL(order.LogoPath),
		"brief_path":         order.BriefPath,
		"brief_url":          fileURL(order.BriefPath),
		"payment_proof_path": order.PaymentProofPath,
		"payment_proof_url":  fileURL(order.PaymentProofPath),
		"created_at":         order.CreatedAt,
		"created_human":      humanizeSince(order.CreatedAt),
	}

	if order.User != nil {
		out["user"] = gin.H{
			"id":    order.User.ID,
			"name":  order.User.Name,
			"email": order.User.Email,
		}
	}

	if order.Pack != nil {
		out["pack"] = PackResource(order.Pack)
	}

	if order.Template != nil {
		out["template"] = TemplateResource(order.Template)
	}

	if order.Validations != nil {
		validations := make([]gin.H, 0, len(order.Validations))
		for i := range order.Validations {
			validations = append(validations, PaymentValidationResource(&order.Validations[i]))
		}
		out["validations"] = validations
	}

	return out
}

// OrderCollection transforms a list of orders.
func OrderCollection(orders []models.Order) []gin.H {
	out := make([]gin.H, 0, len(orders))
	for i := range orders {
		out = append(out, OrderResource(&orders[i]))
	}
	return out
}
