package resources

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kartlink/kartlink-api/models"
)

// PackResource transforms a Pack. Templates and offers appear only when they
// were preloaded.
func PackResource(pack *models.Pack) gin.H {
	out := gin.H{
		"id":                 pack.ID,
		"name":               pack.Name,
		"slug":               pack.Slug,
		"description":        pack.Description,
		"type":               pack.Type,
		"price":              pack.Price,
		"delivery_time_days": pack.DeliveryTimeDays,
		"is_active":          pack.IsActive,
		"highlight":          pack.Highlight,
		"image_path":         pack.ImagePath,
		"image_url":          fileURL(pack.ImagePath),
		"features":           pack.Features,
		"created_at":         pack.CreatedAt,
	}

	if pack.Templates != nil {
		templates := make([]gin.H, 0, len(pack.Templates))
		for i := range pack.Templates {
			templates = append(templates, TemplateResource(&pack.Templates[i]))
		}
		out["templates"] = templates
	}

	if pack.Offers != nil {
		offers := make([]gin.H, 0, len(pack.Offers))
		for i := range pack.Offers {
			offers = append(offers, PackOfferResource(&pack.Offers[i]))
		}
		out["offers"] = offers
	}

	return out
}

// PackCollection transforms a list of packs.
func PackCollection(packs []models.Pack) []gin.H {
	out := make([]gin.H, 0, len(packs))
	for i := range packs {
		out = append(out, PackResource(&packs[i]))
	}
	return out
}

// TemplateResource transforms a Template. The pack appears only when preloaded.
func TemplateResource(template *models.Template) gin.H {
	out := gin.H{
		"id":                 template.ID,
		"pack_id":            template.PackID,
		"name":               template.Name,
		"description":        template.Description,
		"recto_image_path":   template.RectoImagePath,
		"recto_image_url":    fileURL(template.RectoImagePath),
		"verso_image_path":   template.VersoImagePath,
		"verso_image_url":    fileURL(template.VersoImagePath),
		"preview_image_path": template.PreviewImagePath,
		"preview_image_url":  fileURL(template.PreviewImagePath),
		"is_active":          template.IsActive,
		"tags":               template.Tags,
		"created_at":         template.CreatedAt,
	}

	if template.Pack != nil {
		out["pack"] = PackResource(template.Pack)
	}

	return out
}

// TemplateCollection transforms a list of templates.
func TemplateCollection(templates []models.Template) []gin.H {
	out := make([]gin.H, 0, len(templates))
	for i := range templates {
		out = append(out, TemplateResource(&templates[i]))
	}
	return out
}

// PackOfferResource transforms a PackOffer. The pack appears only when preloaded.
func PackOfferResource(offer *models.PackOffer) gin.H {
	out := gin.H{
		"id":          offer.ID,
		"pack_id":     offer.PackID,
		"title":       offer.Title,
		"description": offer.Description,
		"type":        offer.Type,
		"value":       offer.Value,
		"starts_at":   offer.StartsAt,
		"ends_at":     offer.EndsAt,
		"is_active":   offer.IsActive,
		"is_current":  offer.Current(time.Now()),
	}

	if offer.Pack != nil {
		out["pack"] = PackResource(offer.Pack)
	}

	return out
}

// PackOfferCollection transforms a list of offers.
func PackOfferCollection(offers []models.PackOffer) []gin.H {
	out := make([]gin.H, 0, len(offers))
	for i := range offers {
		out = append(out, PackOfferResource(&offers[i]))
	}
	return out
}
