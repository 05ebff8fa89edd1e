package favorites

import (
	"log"
	"net/http"
	"strconv"

	"jengaestate-server/handlers/auth"
	"jengaestate-server/models"
	"jengaestate-server/utils"

	"github.com/gin-gonic/gin"
)

// SaveFavorite bookmarks a listing for the caller. Saving the same listing
// twice is a no-op.
func SaveFavorite(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var input struct {
		PropertyID uint `json:"property_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Property is required."})
		return
	}

	var property models.Property
	if err := utils.DB.First(&property, input.PropertyID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		return
	}

	var existing models.Favorite
	if err := utils.DB.Where("user_id = ? AND property_id = ?", user.ID, property.ID).First(&existing).Error; err == nil {
		c.JSON(http.StatusOK, gin.H{"favorite": existing})
		return
	}

	favorite := models.Favorite{UserID: user.ID, PropertyID: property.ID}
	if err := utils.DB.Create(&favorite).Error; err != nil {
		log.Printf("Failed to save favorite: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save favorite"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"favorite": favorite})
}

// ListFavorites returns the caller's saved listings.
func ListFavorites(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var favorites []models.Favorite
	if err := utils.DB.Where("user_id = ?", user.ID).Preload("Property").Find(&favorites).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch favorites"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"favorites": favorites})
}

// RemoveFavorite deletes one of the caller's bookmarks.
func RemoveFavorite(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid favorite ID"})
		return
	}

	var favorite models.Favorite
	if err := utils.DB.First(&favorite, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Favorite not found"})
		return
	}

	if favorite.UserID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only remove your own favorites."})
		return
	}

	if err := utils.DB.Delete(&favorite).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove favorite"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Favorite removed"})
}
