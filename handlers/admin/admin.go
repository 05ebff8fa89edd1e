package admin

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"jengaestate-server/models"
	"jengaestate-server/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// AdminGet serves the admin console reads, selected by the type query
// parameter: pending-users or stats.
func AdminGet(c *gin.Context) {
	switch c.Query("type") {
	case "pending-users":
		pendingUsers(c)
	case "stats":
		stats(c)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request type"})
	}
}

func pendingUsers(c *gin.Context) {
	var users []models.User
	err := utils.DB.
		Where("status = ? AND role IN ?", models.StatusPending, []string{models.RoleAgent, models.RoleLandlord}).
		Order("created_at DESC").
		Find(&users).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch pending users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"pending_users": users})
}

// stats gathers the global platform counters. The lookups are independent,
// so they run concurrently; any failure aborts the whole aggregation.
func stats(c *gin.Context) {
	var (
		totalUsers       int64
		totalAgents      int64
		totalProperties  int64
		totalPayments    int64
		pendingApprovals int64
		recentPayments   []models.Payment
		recentProperties []models.Property
	)

	var g errgroup.Group
	g.Go(func() error {
		return utils.DB.Model(&models.User{}).Count(&totalUsers).Error
	})
	g.Go(func() error {
		return utils.DB.Model(&models.User{}).Where("role = ?", models.RoleAgent).Count(&totalAgents).Error
	})
	g.Go(func() error {
		return utils.DB.Model(&models.Property{}).Count(&totalProperties).Error
	})
	g.Go(func() error {
		return utils.DB.Model(&models.Payment{}).Count(&totalPayments).Error
	})
	g.Go(func() error {
		return utils.DB.Model(&models.User{}).
			Where("status = ? AND role IN ?", models.StatusPending, []string{models.RoleAgent, models.RoleLandlord}).
			Count(&pendingApprovals).Error
	})
	g.Go(func() error {
		return utils.DB.Preload("User").Order("created_at DESC").Limit(10).Find(&recentPayments).Error
	})
	g.Go(func() error {
		return utils.DB.Preload("Owner").Order("created_at DESC").Limit(10).Find(&recentProperties).Error
	})

	if err := g.Wait(); err != nil {
		log.Printf("Admin stats error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process admin request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_users":       totalUsers,
		"total_agents":      totalAgents,
		"total_properties":  totalProperties,
		"total_payments":    totalPayments,
		"pending_approvals": pendingApprovals,
		"recent_payments":   recentPayments,
		"recent_properties": recentProperties,
	})
}

// AdminPost serves the admin console actions: update-user-status and
// suspend-user.
func AdminPost(c *gin.Context) {
	var input struct {
		Action string `json:"action"`
		UserID uint   `json:"user_id"`
		Status string `json:"status"`
		Reason string `json:"reason"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	switch input.Action {
	case "update-user-status":
		updateUserStatus(c, input.UserID, input.Status, input.Reason)
	case "suspend-user":
		suspendUser(c, input.UserID, input.Reason)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid action"})
	}
}

func updateUserStatus(c *gin.Context, userID uint, status, reason string) {
	switch status {
	case models.StatusPending, models.StatusActive, models.StatusSuspended, models.StatusRejected:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	var user models.User
	if err := utils.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	user.Status = status
	if err := utils.DB.Save(&user).Error; err != nil {
		log.Printf("Failed to update user status: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process admin action"})
		return
	}

	notifyStatusChange(user, "Account Status Updated",
		strings.TrimSpace(fmt.Sprintf("Your account has been %s. %s", strings.ToLower(status), reason)), reason)

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// suspendUser sets the account SUSPENDED and pulls every AVAILABLE property
// the user owns out of the public catalog. A suspended owner cannot have
// publicly visible listings, so both writes happen in one transaction.
func suspendUser(c *gin.Context, userID uint, reason string) {
	var user models.User
	if err := utils.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	err := utils.DB.Transaction(func(tx *gorm.DB) error {
		user.Status = models.StatusSuspended
		if err := tx.Save(&user).Error; err != nil {
			return err
		}
		return tx.Model(&models.Property{}).
			Where("owner_id = ? AND status = ?", userID, models.PropertyAvailable).
			Update("status", models.PropertyPending).Error
	})
	if err != nil {
		log.Printf("Failed to suspend user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process admin action"})
		return
	}

	notifyStatusChange(user, "Account Suspended",
		fmt.Sprintf("Your account has been suspended. Reason: %s", reason), reason)

	c.JSON(http.StatusOK, gin.H{"user": user})
}

func notifyStatusChange(user models.User, title, message, reason string) {
	notification := models.Notification{
		UserID:  user.ID,
		Title:   title,
		Message: message,
		Type:    "system",
	}
	if err := utils.DB.Create(&notification).Error; err != nil {
		log.Printf("Failed to create status notification: %v", err)
	}

	go utils.SendStatusEmail(user.Email, user.Status, reason)
}
