package resources

import (
	"github.com/gin-gonic/gin"

	"github.com/kartlink/kartlink-api/models"
)

// TestimonialCategoryResource transforms a TestimonialCategory.
func TestimonialCategoryResource(category *models.TestimonialCategory) gin.H {
	return gin.H{
		"id":         category.ID,
		"name":       category.Name,
		"slug":       category.Slug,
		"icon":       category.Icon,
		"color":      category.Color,
		"sort_order": category.SortOrder,
	}
}

// TestimonialCategoryCollection transforms a list of categories.
func TestimonialCategoryCollection(categories []models.TestimonialCategory) []gin.H {
	out := make([]gin.H, 0, len(categories))
	for i := range categories {
		out = append(out, TestimonialCategoryResource(&categories[i]))
	}
	return out
}

// TestimonialResource transforms a Testimonial. The category appears only
// when preloaded.
func TestimonialResource(testimonial *models.Testimonial) gin.H {
	out := gin.H{
		"id":            testimonial.ID,
		"category_id":   testimonial.CategoryID,
		"author_name":   testimonial.AuthorName,
		"author_title":  testimonial.AuthorTitle,
		"content":       testimonial.Content,
		"rating":        testimonial.Rating,
		"type":          testimonial.Type,
		"image_path":    testimonial.ImagePath,
		"image_url":     fileURL(testimonial.ImagePath),
		"video_path":    testimonial.VideoPath,
		"video_url":     fileURL(testimonial.VideoPath),
		"avatar_path":   testimonial.AvatarPath,
		"avatar_url":    fileURL(testimonial.AvatarPath),
		"is_published":  testimonial.IsPublished,
		"is_featured":   testimonial.IsFeatured,
		"metadata":      testimonial.Metadata,
		"created_at":    testimonial.CreatedAt,
		"created_human": humanizeSince(testimonial.CreatedAt),
	}

	if testimonial.Category != nil {
		out["category"] = TestimonialCategoryResource(testimonial.Category)
	}

	return out
}

// TestimonialCollection transforms a list of testimonials.
func TestimonialCollection(testimonials []models.Testimonial) []gin.H {
	out := make([]gin.H, 0, len(testimonials))
	for i := range testimonials {
		out = append(out, TestimonialResource(&testimonials[i]))
	}
	return out
}
