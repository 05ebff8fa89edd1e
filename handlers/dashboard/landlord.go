package dashboard

import (
	"fmt"
	"log"
	"net/http"

	"jengaestate-server/handlers/auth"
	"jengaestate-server/models"
	"jengaestate-server/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type landlordPropertyRow struct {
	ID       uint    `json:"id"`
	Name     string  `json:"name"`
	Location string  `json:"location"`
	Type     string  `json:"type"`
	Tenant   string  `json:"tenant"`
	Rent     float64 `json:"rent"`
	Status   string  `json:"status"`
}

// Landlord aggregates the landlord dashboard: owned properties with their
// confirmed bookings, pending viewing requests, payments and recent
// messages, reduced to summary statistics. The lookups are independent and
// run concurrently; any failure aborts the whole view.
func Landlord(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var (
		properties      []models.Property
		pendingBookings []models.Booking
		payments        []models.Payment
		recentMessages  []models.Message
	)

	var g errgroup.Group
	g.Go(func() error {
		return utils.DB.
			Where("owner_id = ?", user.ID).
			Preload("Bookings", func(db *gorm.DB) *gorm.DB {
				return db.Where("status = ?", models.BookingConfirmed)
			}).
			Preload("Bookings.User").
			Find(&properties).Error
	})
	g.Go(func() error {
		return utils.DB.
			Joins("JOIN properties ON properties.id = bookings.property_id").
			Where("properties.owner_id = ? AND bookings.status = ?", user.ID, models.BookingPending).
			Preload("Property").Preload("User").
			Find(&pendingBookings).Error
	})
	g.Go(func() error {
		return utils.DB.
			Where("user_id = ?", user.ID).
			Order("created_at DESC").
			Find(&payments).Error
	})
	g.Go(func() error {
		return utils.DB.
			Where("receiver_id = ?", user.ID).
			Order("created_at DESC").
			Limit(10).
			Find(&recentMessages).Error
	})

	if err := g.Wait(); err != nil {
		log.Printf("Landlord dashboard error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch landlord data"})
		return
	}

	totalProperties := len(properties)
	totalTenants := 0
	for _, p := range properties {
		totalTenants += len(p.Bookings)
	}

	var monthlyRevenue float64
	for _, p := range payments {
		if p.Status == models.PaymentCompleted {
			monthlyRevenue += p.Amount
		}
	}

	occupancyRate := "0%"
	if totalProperties > 0 {
		occupancyRate = fmt.Sprintf("%.0f%%", float64(totalTenants)/float64(totalProperties)*100)
	}

	rows := make([]landlordPropertyRow, 0, len(properties))
	for _, p := range properties {
		tenant := "Vacant"
		status := "vacant"
		if len(p.Bookings) > 0 {
			tenant = p.Bookings[0].User.Name
			status = "occupied"
		}
		rows = append(rows, landlordPropertyRow{
			ID:       p.ID,
			Name:     p.Title,
			Location: fmt.Sprintf("%s, %s", p.City, p.Region),
			Type:     p.Type,
			Tenant:   tenant,
			Rent:     p.Price,
			Status:   status,
		})
	}

	recentPayments := payments
	if len(recentPayments) > 5 {
		recentPayments = recentPayments[:5]
	}

	c.JSON(http.StatusOK, gin.H{
		"totalProperties": totalProperties,
		"totalTenants":    totalTenants,
		"monthlyRevenue":  monthlyRevenue,
		"occupancyRate":   occupancyRate,
		"properties":      rows,
		"pendingBookings": pendingBookings,
		"recentPayments":  recentPayments,
		"recentMessages":  recentMessages,
	})
}
