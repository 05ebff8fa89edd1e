package payments

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
	stripe "github.com/stripe/stripe-go/v80"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupPaymentsTest(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Payment{}, &models.Notification{}))
	utils.DB = db

	r := gin.New()
	r.POST("/payments/mpesa/callback", MpesaCallback)

	protected := r.Group("/")
	protected.Use(auth.AuthMiddleware())
	{
		protected.GET("/payments", ListPayments)
		protected.GET("/payments/:id/verify", VerifyPayment)
	}
	return r
}

func createUser(t *testing.T, email, role string) models.User {
	user := models.User{Email: email, Name: "Payer " + email, Role: role, Status: models.StatusActive}
	require.NoError(t, utils.DB.Create(&user).Error)
	return user
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, user *models.User, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if user != nil {
		token, err := utils.GenerateSessionToken(user.ID, user.Role, user.Status)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func stkCallbackBody(checkoutID string, resultCode int, receipt string) gin.H {
	callback := gin.H{
		"CheckoutRequestID": checkoutID,
		"ResultCode":        resultCode,
		"ResultDesc":        "Processed",
	}
	if receipt != "" {
		callback["CallbackMetadata"] = gin.H{
			"Item": []gin.H{
				{"Name": "Amount", "Value": 2000},
				{"Name": "MpesaReceiptNumber", "Value": receipt},
			},
		}
	}
	return gin.H{"Body": gin.H{"stkCallback": callback}}
}

func TestMpesaCallbackSettlesPayment(t *testing.T) {
	r := setupPaymentsTest(t)
	user := createUser(t, "payer@example.com", models.RoleLandlord)
	payment := models.Payment{
		UserID: user.ID, Amount: 2000, Currency: "KES",
		Type: models.PaymentSubscription, Status: models.PaymentPending,
		MpesaCode: "ws_CO_260831001",
	}
	require.NoError(t, utils.DB.Create(&payment).Error)

	w := doJSON(t, r, http.MethodPost, "/payments/mpesa/callback", nil,
		stkCallbackBody("ws_CO_260831001", 0, "SHA12345XY"))
	require.Equal(t, http.StatusOK, w.Code)

	var settled models.Payment
	require.NoError(t, utils.DB.First(&settled, payment.ID).Error)
	assert.Equal(t, models.PaymentCompleted, settled.Status)
	assert.Equal(t, "SHA12345XY", settled.MpesaCode)

	var notification models.Notification
	require.NoError(t, utils.DB.Where("user_id = ?", user.ID).First(&notification).Error)
	assert.Equal(t, "Payment Successful", notification.Title)
	assert.Contains(t, notification.Message, "2000 KES")
}

func TestMpesaCallbackFailureMarksPaymentFailed(t *testing.T) {
	r := setupPaymentsTest(t)
	user := createUser(t, "payer@example.com", models.RoleLandlord)
	payment := models.Payment{
		UserID: user.ID, Amount: 2000, Currency: "KES",
		Type: models.PaymentSubscription, Status: models.PaymentPending,
		MpesaCode: "ws_CO_260831002",
	}
	require.NoError(t, utils.DB.Create(&payment).Error)

	w := doJSON(t, r, http.MethodPost, "/payments/mpesa/callback", nil,
		stkCallbackBody("ws_CO_260831002", 1032, ""))
	require.Equal(t, http.StatusOK, w.Code)

	var failed models.Payment
	require.NoError(t, utils.DB.First(&failed, payment.ID).Error)
	assert.Equal(t, models.PaymentFailed, failed.Status)

	var notifications int64
	utils.DB.Model(&models.Notification{}).Where("user_id = ?", user.ID).Count(&notifications)
	assert.Zero(t, notifications)
}

func TestMpesaCallbackUnknownCheckoutRequest(t *testing.T) {
	r := setupPaymentsTest(t)

	w := doJSON(t, r, http.MethodPost, "/payments/mpesa/callback", nil,
		stkCallbackBody("ws_CO_UNKNOWN", 0, "SHA99999ZZ"))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListPaymentsScopedToCaller(t *testing.T) {
	r := setupPaymentsTest(t)
	payer := createUser(t, "payer@example.com", models.RoleLandlord)
	other := createUser(t, "other@example.com", models.RoleLandlord)

	mine := models.Payment{UserID: payer.ID, Amount: 500, Currency: "KES", Type: models.PaymentPropertyPosting, Status: models.PaymentCompleted}
	theirs := models.Payment{UserID: other.ID, Amount: 900, Currency: "KES", Type: models.PaymentSubscription, Status: models.PaymentCompleted}
	require.NoError(t, utils.DB.Create(&mine).Error)
	require.NoError(t, utils.DB.Create(&theirs).Error)

	w := doJSON(t, r, http.MethodGet, "/payments", &payer, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Payments []models.Payment `json:"payments"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Payments, 1)
	assert.Equal(t, mine.ID, resp.Payments[0].ID)
}

func TestVerifyPaymentValidation(t *testing.T) {
	r := setupPaymentsTest(t)
	payer := createUser(t, "payer@example.com", models.RoleLandlord)
	other := createUser(t, "other@example.com", models.RoleUser)
	payment := models.Payment{UserID: payer.ID, Amount: 500, Currency: "KES", Type: models.PaymentSubscription, Status: models.PaymentPending}
	require.NoError(t, utils.DB.Create(&payment).Error)

	path := fmt.Sprintf("/payments/%d/verify", payment.ID)

	w := doJSON(t, r, http.MethodGet, path+"?provider=paypal", &payer, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// No provider reference stored yet.
	w = doJSON(t, r, http.MethodGet, path+"?provider=stripe", &payer, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = doJSON(t, r, http.MethodGet, path+"?provider=mpesa", &payer, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodGet, path+"?provider=mpesa", &other, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodGet, "/payments/9999/verify?provider=mpesa", &payer, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// Settlement path shared by the Stripe webhook once the signature check has
// accepted the event.
func TestStripeSuccessSettlesByMetadata(t *testing.T) {
	setupPaymentsTest(t)
	user := createUser(t, "payer@example.com", models.RoleAgent)
	payment := models.Payment{UserID: user.ID, Amount: 1500, Currency: "usd", Type: models.PaymentFeaturedListing, Status: models.PaymentPending}
	require.NoError(t, utils.DB.Create(&payment).Error)

	handleStripeSuccess(stripe.PaymentIntent{
		ID:       "pi_test_123",
		Metadata: map[string]string{"payment_id": fmt.Sprint(payment.ID)},
	})

	var settled models.Payment
	require.NoError(t, utils.DB.First(&settled, payment.ID).Error)
	assert.Equal(t, models.PaymentCompleted, settled.Status)
	assert.Equal(t, "pi_test_123", settled.StripeID)

	var notification models.Notification
	require.NoError(t, utils.DB.Where("user_id = ?", user.ID).First(&notification).Error)
	assert.Equal(t, "Payment Successful", notification.Title)
}
