package agents

import (
	"log"
	"net/http"
	"strconv"

	"jengaestate-server/handlers/auth"
	"jengaestate-server/models"
	"jengaestate-server/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
)

const defaultListLimit = 20

// topAgentRating is the floor used by the top=true directory filter.
const topAgentRating = 4.5

// ListAgents serves the public agent directory: active agents only, with
// optional city, minimum-rating and specialty filters.
func ListAgents(c *gin.Context) {
	query := utils.DB.Model(&models.User{}).
		Where("role = ? AND status = ?", models.RoleAgent, models.StatusActive)

	if city := c.Query("city"); city != "" {
		query = query.Where("location = ?", city)
	}
	if rating := c.Query("rating"); rating != "" {
		if v, err := strconv.ParseFloat(rating, 64); err == nil {
			query = query.Where("rating >= ?", v)
		}
	}
	if specialty := c.Query("specialty"); specialty != "" {
		// Specialties is a JSON list column; substring match is what the
		// directory search needs.
		query = query.Where("specialties LIKE ?", "%"+specialty+"%")
	}

	top := c.Query("top") == "true"
	if top {
		query = query.Where("rating >= ?", topAgentRating).Order("rating DESC")
	} else {
		query = query.Order("total_reviews DESC")
	}

	limit := defaultListLimit
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		limit = v
	}

	var agents []models.User
	if err := query.Limit(limit).Find(&agents).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch agents"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"agents": agents})
}

// UpdateProfile lets an agent edit their own directory profile. Fields are
// allow-listed; role, status and rating are never caller-writable.
func UpdateProfile(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var input struct {
		Name            string   `json:"name"`
		Phone           string   `json:"phone"`
		Image           string   `json:"image"`
		AgencyName      string   `json:"agency_name"`
		ExperienceYears int      `json:"experience_years"`
		Specialties     []string `json:"specialties"`
		Location        string   `json:"location"`
		Languages       []string `json:"languages"`
		Bio             string   `json:"bio"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Phone != "" {
		user.Phone = input.Phone
	}
	if input.Image != "" {
		user.Image = input.Image
	}
	user.AgencyName = input.AgencyName
	user.ExperienceYears = input.ExperienceYears
	user.Specialties = datatypes.NewJSONSlice(input.Specialties)
	user.Location = input.Location
	user.Languages = datatypes.NewJSONSlice(input.Languages)
	user.Bio = input.Bio

	if err := utils.DB.Save(&user).Error; err != nil {
		log.Printf("Failed to update agent profile: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update agent profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"agent": user})
}

// Stats powers the agent dashboard header cards.
func Stats(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var (
		totalProperties int64
		totalViews      int64
		totalMessages   int64
		distinctSenders int64
		answeredSenders int64
	)

	var g errgroup.Group
	g.Go(func() error {
		return utils.DB.Model(&models.Property{}).
			Where("owner_id = ? OR agent_id = ?", user.ID, user.ID).
			Count(&totalProperties).Error
	})
	g.Go(func() error {
		return utils.DB.Model(&models.PropertyView{}).
			Joins("JOIN properties ON properties.id = property_views.property_id").
			Where("properties.owner_id = ? OR properties.agent_id = ?", user.ID, user.ID).
			Count(&totalViews).Error
	})
	g.Go(func() error {
		return utils.DB.Model(&models.Message{}).
			Where("receiver_id = ?", user.ID).
			Count(&totalMessages).Error
	})
	g.Go(func() error {
		return utils.DB.Model(&models.Message{}).
			Where("receiver_id = ?", user.ID).
			Distinct("sender_id").
			Count(&distinctSenders).Error
	})
	g.Go(func() error {
		// Senders this agent has replied to.
		return utils.DB.Model(&models.Message{}).
			Where("sender_id = ? AND receiver_id IN (?)", user.ID,
				utils.DB.Model(&models.Message{}).Select("sender_id").Where("receiver_id = ?", user.ID)).
			Distinct("receiver_id").
			Count(&answeredSenders).Error
	})

	if err := g.Wait(); err != nil {
		log.Printf("Agent stats error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch agent stats"})
		return
	}

	responseRate := "0%"
	if distinctSenders > 0 {
		responseRate = strconv.FormatInt(answeredSenders*100/distinctSenders, 10) + "%"
	}

	c.JSON(http.StatusOK, gin.H{
		"totalProperties": totalProperties,
		"totalViews":      totalViews,
		"totalMessages":   totalMessages,
		"responseRate":    responseRate,
	})
}
