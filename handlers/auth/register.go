package auth

import (
	"log"
	"net/http"

	"jengaestate-server/models"
	"jengaestate-server/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// Register creates an account. USER accounts are active immediately; agents
// and landlords start pending and wait for admin approval.
func Register(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
		Name     string `json:"name" binding:"required"`
		Phone    string `json:"phone"`
		Role     string `json:"role"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input data. Please provide a valid email, password and name."})
		return
	}

	role := input.Role
	switch role {
	case models.RoleUser, models.RoleAgent, models.RoleLandlord:
	case "":
		role = models.RoleUser
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role."})
		return
	}

	var existing models.User
	if err := utils.DB.Where("email = ?", input.Email).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "User already exists. Please log in or use the forgot password option."})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while processing your password. Please try again."})
		return
	}

	status := models.StatusActive
	if role != models.RoleUser {
		status = models.StatusPending
	}

	user := models.User{
		Email:    input.Email,
		Name:     input.Name,
		Phone:    input.Phone,
		Password: string(hashedPassword),
		Role:     role,
		Status:   status,
	}

	if err := utils.DB.Create(&user).Error; err != nil {
		log.Printf("Failed to create user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "We encountered an issue creating your account. Please try again later."})
		return
	}

	if status != models.StatusActive {
		notification := models.Notification{
			UserID:  user.ID,
			Title:   "Account Pending Approval",
			Message: "Your account is pending admin approval. You will be notified once approved.",
			Type:    "system",
		}
		if err := utils.DB.Create(&notification).Error; err != nil {
			log.Printf("Failed to create welcome notification: %v", err)
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully.",
		"user_id": user.ID,
	})
}
