package payments

import (
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
)

// VerifyPayment re-queries the provider for a payment's state. True only
// when the provider reports a completed payment; a confirmed payment is
// settled in the database as a side effect.
func VerifyPayment(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment ID"})
		return
	}

	var payment models.Payment
	if err := utils.DB.First(&payment, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
		return
	}

	if payment.UserID != user.ID && user.Role != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to view this payment."})
		return
	}

	var verified bool
	switch c.Query("provider") {
	case "stripe":
		if payment.StripeID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Payment has no Stripe reference"})
			return
		}
		stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
		pi, err := paymentintent.Get(payment.StripeID, nil)
		if err != nil {
			log.Printf("Stripe verification error: %v", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "Payment verification failed. Please try again later."})
			return
		}
		verified = pi.Status == stripe.PaymentIntentStatusSucceeded
	case "mpesa":
		if payment.MpesaCode == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Payment has no M-Pesa reference"})
			return
		}
		verified, err = utils.QuerySTKStatus(payment.MpesaCode)
		if err != nil {
			log.Printf("M-Pesa verification error: %v", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "Payment verification failed. Please try again later."})
			return
		}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown payment provider"})
		return
	}

	if verified && payment.Status != models.PaymentCompleted {
		payment.Status = models.PaymentCompleted
		if err := utils.DB.Save(&payment).Error; err != nil {
			log.Printf("Failed to settle verified payment: %v", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"verified": verified, "status": payment.Status})
}

// ListPayments returns the caller's payment history, newest first.
func ListPayments(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var payments []models.Payment
	if err := utils.DB.Where("user_id = ?", user.ID).Order("created_at DESC").Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"payments": payments})
}

func notifyPaymentCompleted(payment models.Payment) {
	notification := models.Notification{
		UserID:  payment.UserID,
		Title:   "Payment Successful",
		Message: "Your payment of " + strconv.FormatFloat(payment.Amount, 'f', 0, 64) + " " + payment.Currency + " was successful.",
		Type:    "payment",
	}
	if err := utils.DB.Create(&notification).Error; err != nil {
		log.Printf("Failed to create payment notification: %v", err)
	}
}
