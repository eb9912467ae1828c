package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kartlink/kartlink-api/config"
	"github.com/kartlink/kartlink-api/models"
	"github.com/kartlink/kartlink-api/resources"
	"github.com/kartlink/kartlink-api/utils"
)

// ListPacks handles GET /api/v1/packs - lists active packs with their templates
func ListPacks(c *gin.Context) {
	db := config.GetDB()
	pg := utils.ParsePagination(c)

	query := db.Model(&models.Pack{}).Where("is_active = ?", true)
	if packType := c.Query("type"); packType != "" {
		query = query.Where("type = ?", packType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.RenderError(c, &utils.UnexpectedError{Message: "Failed to count packs", Cause: err})
		return
	}

	var packs []models.Pack
	if err := query.Preload("Templates", "is_active = ?", true).
		Order("highlight desc, price asc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&packs).Error; err != nil {
		utils.RenderError(c, &utils.UnexpectedError{Message: "Failed to load packs", Cause: err})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "OK",
		"data":    resources.PackCollection(packs),
		"pagination": gin.H{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetPackBySlug handles GET /api/v1/packs/:slug
func GetPackBySlug(c *gin.Context) {
	db := config.GetDB()

	var pack models.Pack
	err := db.Where("slug = ? AND is_active = ?", c.Param("slug"), true).
		Preload("Templates", "is_active = ?", true).
		Preload("Offers", "is_active = ?", true).
		First(&pack).Error
	if err != nil {
		if utils.IsNotFound(err) {
			utils.RenderError(c, &utils.NotFoundError{Message: "Pack not found"})
			return
		}
		utils.RenderError(c, &utils.UnexpectedError{Message: "Failed to load pack", Cause: err})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "OK",
		"data":    resources.PackResource(&pack),
	})
}

// ListPackOffersForPack handles GET /api/v1/packs/:id/offers - current offers of one pack
func ListPackOffersForPack(c *gin.Context) {
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

	now := time.Now()
	var offers []models.PackOffer
	err := db.Where("pack_id = ? AND is_active = ? AND starts_at <= ? AND ends_at >= ?",
		pack.ID, true, now, now).
		Order("starts_at asc").
		Find(&offers).Error
	if err != nil {
		utils.RenderError(c, &utils.UnexpectedError{Message: "Failed to load offers", Cause: err})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "OK",
		"data":    resources.PackOfferCollection(offers),
	})
}
