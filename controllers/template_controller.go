package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kartlink/kartlink-api/config"
	"github.com/kartlink/kartlink-api/models"
	"github.com/kartlink/kartlink-api/resources"
	"github.com/kartlink/kartlink-api/utils"
)

// ListTemplates handles GET /api/v1/templates - lists active templates
func ListTemplates(c *gin.Context) {
	db := config.GetDB()
	pg := utils.ParsePagination(c)

	query := db.Where("is_active = ?", true)
	if tag := c.Query("tag"); tag != "" {
		// Tags live in a JSON array column; an exact-element match is enough
		// for filtering and works on both engines
		query = query.Where(`tags LIKE ?`, `%"`+tag+`"%`)
	}

	var templates []models.Template
	err := query.Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&templates).Error
	if err != nil {
		utils.RenderError(c, &utils.UnexpectedError{Message: "Failed to load templates", Cause: err})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "OK",
		"data":    resources.TemplateCollection(templates),
	})
}

// GetTemplate handles GET /api/v1/templates/:id
func GetTemplate(c *gin.Context) {
	db := config.GetDB()

	var template models.Template
	if err := db.Preload("Pack").First(&template, c.Param("id")).Error; err != nil {
		if utils.IsNotFound(err) {
			utils.RenderError(c, &utils.NotFoundError{Message: "Template not found"})
			return
		}
		utils.RenderError(c, &utils.UnexpectedError{Message: "Failed to load template", Cause: err})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "OK",
		"data":    resources.TemplateResource(&template),
	})
}

// ListTemplatesByPackSlug handles GET /api/v1/templates/pack/:slug
func ListTemplatesByPackSlug(c *gin.Context) {
	db := config.GetDB()

	var pack models.Pack
	if err := db.Where("slug = ?", c.Param("slug")).First(&pack).Error; err != nil {
		if utils.IsNotFound(err) {
			utils.RenderError(c, &utils.NotFoundError{Message: "Pack not found"})
			return
		}
		utils.RenderError(c, &utils.UnexpectedError{Message: "Failed to load pack", Cause: err})
		return
	}

	var templates []models.Template
	err := db.Where("pack_id = ? AND is_active = ?", pack.ID, true).
		Order("created_at desc").
		Find(&templates).Error
	if err != nil {
		utils.RenderError(c, &utils.UnexpectedError{Message: "Failed to load templates", Cause: err})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "OK",
		"data":    resources.TemplateCollection(templates),
	})
}
