package notifications

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"jengaestate-server/handlers/auth"
	"jengaestate-server/models"
	"jengaestate-server/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupNotificationsTest(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Notification{}))
	utils.DB = db

	r := gin.New()
	protected := r.Group("/")
	protected.Use(auth.AuthMiddleware())
	RegisterNotificationsRoutes(protected)
	return r
}

func createUser(t *testing.T, email string) models.User {
	user := models.User{Email: email, Name: "Reader " + email, Role: models.RoleUser, Status: models.StatusActive}
	require.NoError(t, utils.DB.Create(&user).Error)
	return user
}

func doReq(t *testing.T, r *gin.Engine, method, path string, user models.User) *httptest.ResponseRecorder {
	token, err := utils.GenerateSessionToken(user.ID, user.Role, user.Status)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetNotificationsScopedToCaller(t *testing.T) {
	r := setupNotificationsTest(t)
	user := createUser(t, "user@example.com")
	other := createUser(t, "other@example.com")

	mine := models.Notification{UserID: user.ID, Title: "Payment Successful", Message: "Paid.", Type: "payment"}
	theirs := models.Notification{UserID: other.ID, Title: "Account Suspended", Message: "Sorry.", Type: "system"}
	require.NoError(t, utils.DB.Create(&mine).Error)
	require.NoError(t, utils.DB.Create(&theirs).Error)

	w := doReq(t, r, http.MethodGet, "/notifications", user)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Notifications []models.Notification `json:"notifications"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Notifications, 1)
	assert.Equal(t, mine.ID, resp.Notifications[0].ID)
}

func TestMarkNotificationReadOwnerOnly(t *testing.T) {
	r := setupNotificationsTest(t)
	user := createUser(t, "user@example.com")
	other := createUser(t, "other@example.com")

	notification := models.Notification{UserID: user.ID, Title: "New Viewing Request", Message: "Someone asked.", Type: "booking"}
	require.NoError(t, utils.DB.Create(&notification).Error)
	path := fmt.Sprintf("/notifications/%d/read", notification.ID)

	w := doReq(t, r, http.MethodPut, path, other)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doReq(t, r, http.MethodPut, path, user)
	require.Equal(t, http.StatusOK, w.Code)

	var updated models.Notification
	require.NoError(t, utils.DB.First(&updated, notification.ID).Error)
	assert.True(t, updated.Read)
}
