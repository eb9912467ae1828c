package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kartlink/kartlink-api/config"
	"github.com/kartlink/kartlink-api/models"
	"github.com/kartlink/kartlink-api/resources"
	"github.com/kartlink/kartlink-api/utils"
)

// ListPackOffers handles GET /api/v1/pack-offers - lists active offers
func ListPackOffers(c *gin.Context) {
	db := config.GetDB()
	pg := utils.ParsePagination(c)

	var offers []models.PackOffer
	err := db.Where("is_active = ?", true).
		Preload("Pack").
		Order("starts_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
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

// GetPackOffer handles GET /api/v1/pack-offers/:id
func GetPackOffer(c *gin.Context) {
	db := config.GetDB()

	var offer models.PackOffer
	if err := db.Preload("Pack").First(&offer, c.Param("id")).Error; err != nil {
		if utils.IsNotFound(err) {
			utils.RenderError(c, &utils.NotFoundError{Message: "Offer not found"})
			return
		}
		utils.RenderError(c, &utils.UnexpectedError{Message: "Failed to load offer", Cause: err})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "OK",
		"data":    resources.PackOfferResource(&offer),
	})
}
