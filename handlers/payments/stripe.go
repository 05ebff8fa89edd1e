package payments

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"

	"jengaestate-server/handlers/auth"
	"jengaestate-server/models"
	"jengaestate-server/utils"

	"github.com/gin-gonic/gin"
	stripe "github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/paymentintent"
	"github.com/stripe/stripe-go/v80/webhook"
)

// CreateStripePayment records a PENDING payment and opens a Stripe payment
// intent for it. The client completes the card flow with the returned
// client secret; the webhook settles the record.
func CreateStripePayment(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var req struct {
		Amount   float64 `json:"amount"`
		Currency string  `json:"currency"`
		Type     string  `json:"type"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if req.Amount <= 0 || req.Currency == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount and currency are required"})
		return
	}
	if req.Type == "" {
		req.Type = models.PaymentSubscription
	}

	payment := models.Payment{
		UserID:   user.ID,
		Amount:   req.Amount,
		Currency: req.Currency,
		Type:     req.Type,
		Status:   models.PaymentPending,
	}
	if err := utils.DB.Create(&payment).Error; err != nil {
		log.Printf("Failed to create payment record: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create payment"})
		return
	}

	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(req.Amount * 100)), // minor units
		Currency: stripe.String(req.Currency),
		PaymentMethodTypes: stripe.StringSlice([]string{
			"card",
		}),
	}
	params.Metadata = map[string]string{
		"payment_id": strconv.Itoa(int(payment.ID)),
		"user_id":    strconv.Itoa(int(user.ID)),
		"type":       req.Type,
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		log.Printf("Stripe payment error: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Payment failed. Please try again later."})
		return
	}

	payment.StripeID = pi.ID
	if err := utils.DB.Save(&payment).Error; err != nil {
		log.Printf("Failed to store stripe id: %v", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"clientSecret": pi.ClientSecret,
		"payment_id":   payment.ID,
	})
}

// HandleStripeWebhook settles payments on payment_intent.succeeded events.
func HandleStripeWebhook(c *gin.Context) {
	const MaxBodyBytes = int64(65536)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes)
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.Writer.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	endpointSecret := os.Getenv("STRIPE_WEBHOOK_SECRET")
	event, err := webhook.ConstructEvent(payload, c.Request.Header.Get("Stripe-Signature"), endpointSecret)
	if err != nil {
		log.Printf("Webhook signature verification failed: %v", err)
		c.Writer.WriteHeader(http.StatusBadRequest)
		return
	}

	if event.Type == "payment_intent.succeeded" {
		var paymentIntent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &paymentIntent); err != nil {
			log.Printf("Error parsing webhook JSON: %v", err)
			c.Writer.WriteHeader(http.StatusBadRequest)
			return
		}
		handleStripeSuccess(paymentIntent)
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func handleStripeSuccess(paymentIntent stripe.PaymentIntent) {
	paymentID := paymentIntent.Metadata["payment_id"]
	if paymentID == "" {
		log.Printf("PaymentIntent does not have payment_id in metadata")
		return
	}

	var payment models.Payment
	if err := utils.DB.First(&payment, paymentID).Error; err != nil {
		log.Printf("Failed to find payment %s: %v", paymentID, err)
		return
	}

	payment.Status = models.PaymentCompleted
	payment.StripeID = paymentIntent.ID
	if err := utils.DB.Save(&payment).Error; err != nil {
		log.Printf("Failed to mark payment %s completed: %v", paymentID, err)
		return
	}

	notifyPaymentCompleted(payment)
}
