package favorites

import (
	"bytes"
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

func setupFavoritesTest(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Property{}, &models.Favorite{}))
	utils.DB = db

	r := gin.New()
	protected := r.Group("/")
	protected.Use(auth.AuthMiddleware())
	{
		protected.POST("/favorites", SaveFavorite)
		protected.GET("/favorites", ListFavorites)
		protected.DELETE("/favorites/:id", RemoveFavorite)
	}
	return r
}

func createUser(t *testing.T, email string) models.User {
	user := models.User{Email: email, Name: "Fav " + email, Role: models.RoleUser, Status: models.StatusActive}
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

func TestSaveFavoriteIsIdempotent(t *testing.T) {
	r := setupFavoritesTest(t)
	owner := createUser(t, "owner@example.com")
	user := createUser(t, "user@example.com")
	property := models.Property{Title: "Saved Flat", Price: 32000, Status: models.PropertyAvailable, OwnerID: owner.ID}
	require.NoError(t, utils.DB.Create(&property).Error)

	w := doJSON(t, r, http.MethodPost, "/favorites", user, gin.H{"property_id": property.ID})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, "/favorites", user, gin.H{"property_id": property.ID})
	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	utils.DB.Model(&models.Favorite{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestSaveFavoriteUnknownProperty(t *testing.T) {
	r := setupFavoritesTest(t)
	user := createUser(t, "user@example.com")

	w := doJSON(t, r, http.MethodPost, "/favorites", user, gin.H{"property_id": 9999})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRemoveFavoriteOwnerOnly(t *testing.T) {
	r := setupFavoritesTest(t)
	owner := createUser(t, "owner@example.com")
	user := createUser(t, "user@example.com")
	other := createUser(t, "other@example.com")
	property := models.Property{Title: "Saved Flat", Price: 32000, Status: models.PropertyAvailable, OwnerID: owner.ID}
	require.NoError(t, utils.DB.Create(&property).Error)

	favorite := models.Favorite{UserID: user.ID, PropertyID: property.ID}
	require.NoError(t, utils.DB.Create(&favorite).Error)
	path := fmt.Sprintf("/favorites/%d", favorite.ID)

	w := doJSON(t, r, http.MethodDelete, path, other, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodDelete, path, user, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	utils.DB.Model(&models.Favorite{}).Count(&count)
	assert.Zero(t, count)

	w = doJSON(t, r, http.MethodGet, "/favorites", user, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Favorites []models.Favorite `json:"favorites"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Favorites)
}
