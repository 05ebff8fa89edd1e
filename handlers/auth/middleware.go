package auth

import (
	"net/http"

	"jengaestate-server/models"
	"jengaestate-server/utils"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware parses the session token, loads the user and stores it in
// the gin context. API routes behind it answer 401 on a missing or invalid
// session.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := utils.TokenFromRequest(c.Request)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is missing"})
			c.Abort()
			return
		}

		claims, err := utils.ParseSessionToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		var user models.User
		if err := utils.DB.First(&user, claims.UserID).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			c.Abort()
			return
		}

		c.Set("user", user)
		c.Next()
	}
}

// RequireRoles rejects callers whose role is not in the allowed set.
// Must run after AuthMiddleware.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
			c.Abort()
			return
		}

		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to perform this action."})
		c.Abort()
	}
}

// CurrentUser pulls the authenticated user out of the gin context.
func CurrentUser(c *gin.Context) (models.User, bool) {
	userInterface, exists := c.Get("user")
	if !exists {
		return models.User{}, false
	}
	user, ok := userInterface.(models.User)
	return user, ok
}

// SessionClaimsIfAny parses the session token when one is present. Used by
// routes that work for anonymous callers but attribute actions when they can.
func SessionClaimsIfAny(c *gin.Context) *utils.SessionClaims {
	tokenString, err := utils.TokenFromRequest(c.Request)
	if err != nil {
		return nil
	}
	claims, err := utils.ParseSessionToken(tokenString)
	if err != nil {
		return nil
	}
	return claims
}
