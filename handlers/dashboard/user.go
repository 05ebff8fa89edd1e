package dashboard

import (
	"log"
	"net/http"

	"jengaestate-server/handlers/auth"
	"jengaestate-server/models"
	"jengaestate-server/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// User aggregates the tenant-side dashboard: recent listing views,
// favorites, conversations and upcoming viewings.
func User(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var (
		recentViews []models.PropertyView
		favorites   []models.Favorite
		messages    []models.Message
		bookings    []models.Booking
	)

	var g errgroup.Group
	g.Go(func() error {
		return utils.DB.
			Where("user_id = ?", user.ID).
			Preload("Property").
			Order("created_at DESC").
			Limit(5).
			Find(&recentViews).Error
	})
	g.Go(func() error {
		return utils.DB.
			Where("user_id = ?", user.ID).
			Preload("Property").
			Find(&favorites).Error
	})
	g.Go(func() error {
		return utils.DB.
			Where("sender_id = ? OR receiver_id = ?", user.ID, user.ID).
			Order("created_at DESC").
			Find(&messages).Error
	})
	g.Go(func() error {
		return utils.DB.
			Where("user_id = ?", user.ID).
			Preload("Property").
			Order("date ASC").
			Find(&bookings).Error
	})

	if err := g.Wait(); err != nil {
		log.Printf("User dashboard error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch dashboard data"})
		return
	}

	unreadMessages := 0
	for _, m := range messages {
		if m.ReceiverID == user.ID && !m.Read {
			unreadMessages++
		}
	}

	// Distinct counterparties the user has written to.
	contacted := make(map[uint]struct{})
	for _, m := range messages {
		contacted[m.ReceiverID] = struct{}{}
	}

	c.JSON(http.StatusOK, gin.H{
		"recentProperties": recentViews,
		"favoritesCount":   len(favorites),
		"unreadMessages":   unreadMessages,
		"upcomingBookings": bookings,
		"propertiesViewed": len(recentViews),
		"agentsContacted":  len(contacted),
	})
}
