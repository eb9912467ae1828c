package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kartlink/kartlink-api/config"
	"github.com/kartlink/kartlink-api/models"
	"github.com/kartlink/kartlink-api/resources"
	"github.com/kartlink/kartlink-api/utils"
)

// ListTestimonials handles GET /api/v1/testimonials - published testimonials,
// optionally filtered by type
func ListTestimonials(c *gin.Context) {
	db := config.GetDB()
	pg := utils.ParsePagination(c)

	query := db.Model(&models.Testimonial{}).Where("is_published = ?", true)
	if kind := c.Query("type"); kind != "" {
		query = query.Where("type = ?", kind)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.RenderError(c, &utils.UnexpectedError{Message: "Failed to count testimonials", Cause: err})
		return
	}

	var testimonials []models.Testimonial
	err := query.Preload("Category").
		Order("is_featured desc, created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&testimonials).Error
	if err != nil {
		utils.RenderError(c, &utils.UnexpectedError{Message: "Failed to load testimonials", Cause: err})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "OK",
		"data":    resources.TestimonialCollection(testimonials),
		"pagination": gin.H{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// FeaturedTestimonials handles GET /api/v1/testimonials/featured
func FeaturedTestimonials(c *gin.Context) {
	var testimonials []models.Testimonial
	err := config.GetDB().Preload("Category").
		Where("is_published = ? AND is_featured = ?", true, true).
		Order("created_at desc").
		Find(&testimonials).Error
	if err != nil {
		utils.RenderError(c, &utils.UnexpectedError{Message: "Failed to load testimonials", Cause: err})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "OK",
		"data":    resources.TestimonialCollection(testimonials),
	})
}

// TestimonialsByCategorySlug handles GET /api/v1/testimonials/category/:slug
func TestimonialsByCategorySlug(c *gin.Context) {
	db := config.GetDB()

	var category models.TestimonialCategory
	if err := db.Where("slug = ?", c.Param("slug")).First(&category).Error; err != nil {
		if utils.IsNotFound(err) {
			utils.RenderError(c, &utils.NotFoundError{Message: "Testimonial category not found"})
			return
		}
		utils.RenderError(c, &utils.UnexpectedError{Message: "Failed to load category", Cause: err})
		return
	}

	var testimonials []models.Testimonial
	err := db.Where("category_id = ? AND is_published = ?", category.ID, true).
		Order("is_featured desc, created_at desc").
		Find(&testimonials).Error
	if err != nil {
		utils.RenderError(c, &utils.UnexpectedError{Message: "Failed to load testimonials", Cause: err})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "OK",
		"data": gin.H{
			"category":     resources.TestimonialCategoryResource(&category),
			"testimonials": resources.TestimonialCollection(testimonials),
		},
	})
}

// ListTestimonialCategories handles GET /api/v1/testimonials/categories
func ListTestimonialCategories(c *gin.Context) {
	var categories []models.TestimonialCategory
	err := config.GetDB().Order("sort_order asc, name asc").Find(&categories).Error
	if err != nil {
		utils.RenderError(c, &utils.UnexpectedError{Message: "Failed to load categories", Cause: err})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "OK",
		"data":    resources.TestimonialCategoryCollection(categories),
	})
}

// TestimonialStats handles GET /api/v1/testimonials/stats - aggregate counts
// by type plus the average rating across published entries
func TestimonialStats(c *gin.Context) {
	db := config.GetDB()

	var total int64
	if err := db.Model(&models.Testimonial{}).Where("is_published = ?", true).Count(&total).Error; err != nil {
		utils.RenderError(c, &utils.UnexpectedError{Message: "Failed to load testimonial stats", Cause: err})
		return
	}

	type typeCount struct {
		Type  string `json:"type"`
		Count int64  `json:"count"`
	}
	var byType []typeCount
	err := db.Model(&models.Testimonial{}).
		Select("type, count(*) as count").
		Where("is_published = ?", true).
		Group("type").
		Scan(&byType).Error
	if err != nil {
		utils.RenderError(c, &utils.UnexpectedError{Message: "Failed to load testimonial stats", Cause: err})
		return
	}

	var averageRating float64
	err = db.Model(&models.Testimonial{}).
		Select("coalesce(avg(rating), 0)").
		Where("is_published = ?", true).
		Scan(&averageRating).Error
	if err != nil {
		utils.RenderError(c, &utils.UnexpectedError{Message: "Failed to load testimonial stats", Cause: err})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "OK",
		"data": gin.H{
			"total":          total,
			"by_type":        byType,
			"average_rating": averageRating,
		},
	})
}
