package bookings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"jengaestate-server/handlers/auth"
	"jengaestate-server/models"
	"jengaestate-server/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupBookingsTest(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Property{},
		&models.Booking{},
		&models.Notification{},
	))
	utils.DB = db

	r := gin.New()
	protected := r.Group("/")
	protected.Use(auth.AuthMiddleware())
	{
		protected.POST("/bookings", CreateBooking)
		protected.GET("/bookings", ListBookings)
		protected.PUT("/bookings/:id", UpdateBooking)
	}
	return r
}

func createUser(t *testing.T, email, role string) models.User {
	user := models.User{Email: email, Name: "Booker " + email, Role: role, Status: models.StatusActive}
	require.NoError(t, utils.DB.Create(&user).Error)
	return user
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, user models.User, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	token, err := utils.GenerateSessionToken(user.ID, user.Role, user.Status)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateBookingNotifiesOwner(t *testing.T) {
	r := setupBookingsTest(t)
	owner := createUser(t, "owner@example.com", models.RoleLandlord)
	tenant := createUser(t, "tenant@example.com", models.RoleUser)
	property := models.Property{Title: "Umoja 2BR", Price: 25000, Status: models.PropertyAvailable, OwnerID: owner.ID}
	require.NoError(t, utils.DB.Create(&property).Error)

	w := doJSON(t, r, http.MethodPost, "/bookings", tenant, gin.H{
		"property_id": property.ID,
		"date":        time.Now().Add(72 * time.Hour).Format(time.RFC3339),
		"message":     "Free after 5pm.",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var booking models.Booking
	require.NoError(t, utils.DB.Where("property_id = ?", property.ID).First(&booking).Error)
	assert.Equal(t, tenant.ID, booking.UserID)
	assert.Equal(t, models.BookingPending, booking.Status)

	var notification models.Notification
	require.NoError(t, utils.DB.Where("user_id = ?", owner.ID).First(&notification).Error)
	assert.Equal(t, "New Viewing Request", notification.Title)
	assert.Contains(t, notification.Message, property.Title)
}

func TestCreateBookingUnknownProperty(t *testing.T) {
	r := setupBookingsTest(t)
	tenant := createUser(t, "tenant@example.com", models.RoleUser)

	w := doJSON(t, r, http.MethodPost, "/bookings", tenant, gin.H{
		"property_id": 9999,
		"date":        time.Now().Format(time.RFC3339),
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListBookingsScopedToCaller(t *testing.T) {
	r := setupBookingsTest(t)
	owner := createUser(t, "owner@example.com", models.RoleLandlord)
	tenant := createUser(t, "tenant@example.com", models.RoleUser)
	other := createUser(t, "other@example.com", models.RoleUser)
	property := models.Property{Title: "Kasarani 1BR", Price: 18000, Status: models.PropertyAvailable, OwnerID: owner.ID}
	require.NoError(t, utils.DB.Create(&property).Error)

	mine := models.Booking{PropertyID: property.ID, UserID: tenant.ID, Date: time.Now(), Status: models.BookingPending}
	theirs := models.Booking{PropertyID: property.ID, UserID: other.ID, Date: time.Now(), Status: models.BookingPending}
	require.NoError(t, utils.DB.Create(&mine).Error)
	require.NoError(t, utils.DB.Create(&theirs).Error)

	w := doJSON(t, r, http.MethodGet, "/bookings", tenant, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Bookings []models.Booking `json:"bookings"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, mine.ID, resp.Bookings[0].ID)
}

func TestUpdateBookingPermissions(t *testing.T) {
	r := setupBookingsTest(t)
	owner := createUser(t, "owner@example.com", models.RoleLandlord)
	agent := createUser(t, "agent@example.com", models.RoleAgent)
	tenant := createUser(t, "tenant@example.com", models.RoleUser)
	property := models.Property{Title: "Agent-managed Flat", Price: 45000, Status: models.PropertyAvailable, OwnerID: owner.ID, AgentID: &agent.ID}
	require.NoError(t, utils.DB.Create(&property).Error)

	booking := models.Booking{PropertyID: property.ID, UserID: tenant.ID, Date: time.Now(), Status: models.BookingPending}
	require.NoError(t, utils.DB.Create(&booking).Error)
	path := fmt.Sprintf("/bookings/%d", booking.ID)

	// The requester cannot transition their own booking.
	w := doJSON(t, r, http.MethodPut, path, tenant, gin.H{"status": models.BookingConfirmed})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodPut, path, owner, gin.H{"status": "maybe"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPut, path, agent, gin.H{"status": models.BookingConfirmed})
	require.Equal(t, http.StatusOK, w.Code)

	var updated models.Booking
	require.NoError(t, utils.DB.First(&updated, booking.ID).Error)
	assert.Equal(t, models.BookingConfirmed, updated.Status)

	var notification models.Notification
	require.NoError(t, utils.DB.Where("user_id = ?", tenant.ID).First(&notification).Error)
	assert.Equal(t, "Viewing Request Updated", notification.Title)
	assert.Contains(t, notification.Message, models.BookingConfirmed)
}
