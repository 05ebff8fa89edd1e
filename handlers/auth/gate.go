package auth

import (
	"net/http"
	"strings"

	"jengaestate-server/models"
	"jengaestate-server/utils"

	"github.com/gin-gonic/gin"
)

const (
	loginPath         = "/auth/login"
	userDashboardPath = "/dashboard/user"
)

// Authorize is the pure page-gate decision: given the session claims (nil
// when unauthenticated) and the requested path it returns whether the
// request may proceed and, if not, where to redirect. It has no side
// effects.
func Authorize(claims *utils.SessionClaims, path string) (allowed bool, redirectTo string) {
	if claims == nil {
		return false, loginPath
	}

	switch {
	case strings.HasPrefix(path, "/dashboard/admin"):
		if claims.Role != models.RoleAdmin {
			return false, userDashboardPath
		}
	case strings.HasPrefix(path, "/dashboard/agent"):
		if claims.Role != models.RoleAgent && claims.Role != models.RoleAdmin {
			return false, userDashboardPath
		}
	case strings.HasPrefix(path, "/dashboard/landlord"):
		if claims.Role != models.RoleLandlord && claims.Role != models.RoleAdmin {
			return false, userDashboardPath
		}
	}

	return true, ""
}

// PageGate applies the Authorize decision to browser page routes,
// redirecting instead of answering 401.
func PageGate() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := SessionClaimsIfAny(c)
		allowed, redirectTo := Authorize(claims, c.Request.URL.Path)
		if !allowed {
			c.Redirect(http.StatusFound, redirectTo)
			c.Abort()
			return
		}
		c.Next()
	}
}
