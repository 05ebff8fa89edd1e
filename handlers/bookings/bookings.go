package bookings

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"jengaestate-server/handlers/auth"
	"jengaestate-server/models"
	"jengaestate-server/utils"

	"github.com/gin-gonic/gin"
)

// CreateBooking submits a viewing request for a listing.
func CreateBooking(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var input struct {
		PropertyID uint      `json:"property_id" binding:"required"`
		Date       time.Time `json:"date" binding:"required"`
		Message    string    `json:"message"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Property and viewing date are required."})
		return
	}

	var property models.Property
	if err := utils.DB.First(&property, input.PropertyID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		return
	}

	booking := models.Booking{
		PropertyID: property.ID,
		UserID:     user.ID,
		Date:       input.Date,
		Message:    input.Message,
		Status:     models.BookingPending,
	}

	if err := utils.DB.Create(&booking).Error; err != nil {
		log.Printf("Failed to create booking: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create booking"})
		return
	}

	notification := models.Notification{
		UserID:  property.OwnerID,
		Title:   "New Viewing Request",
		Message: user.Name + " requested a viewing of " + property.Title + ".",
		Type:    "booking",
	}
	if err := utils.DB.Create(&notification).Error; err != nil {
		log.Printf("Failed to create booking notification: %v", err)
	}

	c.JSON(http.StatusCreated, gin.H{"booking": booking})
}

// ListBookings returns the caller's viewing requests.
func ListBookings(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var bookings []models.Booking
	if err := utils.DB.Where("user_id = ?", user.ID).Preload("Property").Order("date ASC").Find(&bookings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bookings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// UpdateBooking confirms or cancels a viewing request. Only the property
// owner, its assigned agent or an admin may transition a booking.
func UpdateBooking(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}

	var input struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	switch input.Status {
	case models.BookingConfirmed, models.BookingCancelled:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking status"})
		return
	}

	var booking models.Booking
	if err := utils.DB.Preload("Property").First(&booking, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		return
	}

	property := booking.Property
	isAgent := property.AgentID != nil && *property.AgentID == user.ID
	if property.OwnerID != user.ID && !isAgent && user.Role != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to update this booking."})
		return
	}

	booking.Status = input.Status
	if err := utils.DB.Save(&booking).Error; err != nil {
		log.Printf("Failed to update booking: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update booking"})
		return
	}

	notification := models.Notification{
		UserID:  booking.UserID,
		Title:   "Viewing Request Updated",
		Message: "Your viewing request for " + property.Title + " is now " + input.Status + ".",
		Type:    "booking",
	}
	if err := utils.DB.Create(&notification).Error; err != nil {
		log.Printf("Failed to create booking notification: %v", err)
	}

	c.JSON(http.StatusOK, gin.H{"booking": booking})
}
