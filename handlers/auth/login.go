package auth

import (
	"net/http"

	"jengaestate-server/models"
	"jengaestate-server/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

func Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input data. Please provide a valid email and password."})
		return
	}

	var user models.User
	if err := utils.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password."})
		return
	}

	// Federated accounts have no local password hash.
	if user.Password == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password."})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password."})
		return
	}

	// Agents and landlords must be approved before they can sign in.
	// Ordinary USER accounts bypass the approval gate.
	if user.Status != models.StatusActive && user.Role != models.RoleUser {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Account pending approval."})
		return
	}

	tokenString, err := utils.GenerateSessionToken(user.ID, user.Role, user.Status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token"})
		return
	}

	// 72h to match the token expiry; browser page loads use the cookie.
	c.SetCookie("auth_token", tokenString, 72*3600, "/", "", false, true)

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful.",
		"token":   tokenString,
		"user": gin.H{
			"id":     user.ID,
			"email":  user.Email,
			"name":   user.Name,
			"role":   user.Role,
			"status": user.Status,
		},
	})
}

// Logout clears the session cookie. Bearer tokens simply expire.
func Logout(c *gin.Context) {
	c.SetCookie("auth_token", "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"message": "Logout successful.",
	})
}
