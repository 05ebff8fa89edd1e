package properties

import (
	"log"
	"net/http"
	"strconv"

	"jengaestate-server/handlers/auth"
	"jengaestate-server/models"
	"jengaestate-server/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const defaultListLimit = 20

// ListProperties serves the public catalog. Filters are independently
// optional; the scope is always AVAILABLE listings, newest first.
func ListProperties(c *gin.Context) {
	query := utils.DB.Model(&models.Property{}).Where("status = ?", models.PropertyAvailable)

	if city := c.Query("city"); city != "" {
		query = query.Where("city = ?", city)
	}
	if propertyType := c.Query("type"); propertyType != "" {
		query = query.Where("type = ?", propertyType)
	}
	if minPrice := c.Query("minPrice"); minPrice != "" {
		if v, err := strconv.ParseFloat(minPrice, 64); err == nil {
			query = query.Where("price >= ?", v)
		}
	}
	if maxPrice := c.Query("maxPrice"); maxPrice != "" {
		if v, err := strconv.ParseFloat(maxPrice, 64); err == nil {
			query = query.Where("price <= ?", v)
		}
	}
	if bedrooms := c.Query("bedrooms"); bedrooms != "" {
		if v, err := strconv.Atoi(bedrooms); err == nil {
			query = query.Where("bedrooms >= ?", v)
		}
	}
	if c.Query("featured") == "true" {
		query = query.Where("featured = ?", true)
	}

	limit := defaultListLimit
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		limit = v
	}

	var properties []models.Property
	err := query.
		Preload("Owner").Preload("Agent").
		Order("created_at DESC").
		Limit(limit).
		Find(&properties).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch properties"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"properties": properties})
}

type propertyInput struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Price       float64  `json:"price" binding:"required"`
	Type        string   `json:"type"`
	Status      string   `json:"status"`
	Address     string   `json:"address"`
	City        string   `json:"city"`
	Region      string   `json:"region"`
	Country     string   `json:"country"`
	Latitude    float64  `json:"latitude"`
	Longitude   float64  `json:"longitude"`
	Bedrooms    int      `json:"bedrooms"`
	Bathrooms   int      `json:"bathrooms"`
	Area        float64  `json:"area"`
	YearBuilt   int      `json:"year_built"`
	Features    []string `json:"features"`
	Amenities   []string `json:"amenities"`
	Images      []string `json:"images"`
	Featured    bool     `json:"featured"`
	AgentID     *uint    `json:"agent_id"`
}

// CreateProperty lists a property for the calling agent, landlord or admin.
// The AI-insight call is best-effort and never blocks the write.
func CreateProperty(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var input propertyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input data. Title and price are required."})
		return
	}

	status := input.Status
	if status == "" {
		status = models.PropertyAvailable
	}

	insights := utils.GenerateListingInsights(input.Title, input.Description, input.Price, input.Address, input.City)

	property := models.Property{
		Title:          input.Title,
		Description:    input.Description,
		Price:          input.Price,
		Type:           input.Type,
		Status:         status,
		Address:        input.Address,
		City:           input.City,
		Region:         input.Region,
		Country:        input.Country,
		Latitude:       input.Latitude,
		Longitude:      input.Longitude,
		Bedrooms:       input.Bedrooms,
		Bathrooms:      input.Bathrooms,
		Area:           input.Area,
		YearBuilt:      input.YearBuilt,
		Features:       datatypes.NewJSONSlice(input.Features),
		Amenities:      datatypes.NewJSONSlice(input.Amenities),
		Images:         datatypes.NewJSONSlice(input.Images),
		Featured:       input.Featured,
		AIDescription:  insights.Description,
		AIPriceInsight: insights.PriceAnalysis,
		AITags:         datatypes.NewJSONSlice(insights.Tags),
		OwnerID:        user.ID,
		AgentID:        input.AgentID,
	}

	if err := utils.DB.Create(&property).Error; err != nil {
		log.Printf("Failed to create property: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create property"})
		return
	}

	logView(property.ID, &user.ID)

	c.JSON(http.StatusCreated, gin.H{"property": property})
}

// GetProperty returns one listing and records a view. Anonymous reads are
// tracked too, with no user attribution.
func GetProperty(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid property ID"})
		return
	}

	var property models.Property
	err = utils.DB.
		Preload("Owner").Preload("Agent").
		Preload("Reviews", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC").Limit(10)
		}).
		Preload("Reviews.User").
		First(&property, id).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		return
	}

	var viewerID *uint
	if claims := auth.SessionClaimsIfAny(c); claims != nil {
		viewerID = &claims.UserID
	}
	logView(property.ID, viewerID)

	c.JSON(http.StatusOK, gin.H{"property": property})
}

func logView(propertyID uint, userID *uint) {
	view := models.PropertyView{PropertyID: propertyID, UserID: userID}
	if err := utils.DB.Create(&view).Error; err != nil {
		log.Printf("Failed to log property view: %v", err)
	}
}

// UpdateProperty applies an allow-listed set of fields. Only the owner or
// an admin may mutate a listing; arbitrary body fields are never merged.
func UpdateProperty(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid property ID"})
		return
	}

	var property models.Property
	if err := utils.DB.First(&property, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		return
	}

	if property.OwnerID != user.ID && user.Role != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to modify this property."})
		return
	}

	var input propertyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input data. Title and price are required."})
		return
	}

	property.Title = input.Title
	property.Description = input.Description
	property.Price = input.Price
	property.Type = input.Type
	if input.Status != "" {
		property.Status = input.Status
	}
	property.Address = input.Address
	property.City = input.City
	property.Region = input.Region
	property.Country = input.Country
	property.Latitude = input.Latitude
	property.Longitude = input.Longitude
	property.Bedrooms = input.Bedrooms
	property.Bathrooms = input.Bathrooms
	property.Area = input.Area
	property.YearBuilt = input.YearBuilt
	property.Features = datatypes.NewJSONSlice(input.Features)
	property.Amenities = datatypes.NewJSONSlice(input.Amenities)
	property.Images = datatypes.NewJSONSlice(input.Images)
	property.Featured = input.Featured
	property.AgentID = input.AgentID

	if err := utils.DB.Save(&property).Error; err != nil {
		log.Printf("Failed to update property: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update property"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"property": property})
}

// DeleteProperty removes a listing. Owner or admin only.
func DeleteProperty(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid property ID"})
		return
	}

	var property models.Property
	if err := utils.DB.First(&property, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		return
	}

	if property.OwnerID != user.ID && user.Role != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to delete this property."})
		return
	}

	if err := utils.DB.Delete(&property).Error; err != nil {
		log.Printf("Failed to delete property: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete property"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Property deleted successfully"})
}
