package payments

import (
	"log"
	"net/http"

	"jengaestate-server/handlers/auth"
	"jengaestate-server/models"
	"jengaestate-server/utils"

	"github.com/gin-gonic/gin"
)

// InitiateMpesaPayment records a PENDING payment and pushes an STK prompt
// to the payer's phone. The Daraja callback settles the record.
func InitiateMpesaPayment(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var req struct {
		Amount float64 `json:"amount"`
		Phone  string  `json:"phone"`
		Type   string  `json:"type"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if req.Amount <= 0 || req.Phone == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount and phone number are required"})
		return
	}
	if req.Type == "" {
		req.Type = models.PaymentSubscription
	}

	payment := models.Payment{
		UserID:   user.ID,
		Amount:   req.Amount,
		Currency: "KES",
		Type:     req.Type,
		Status:   models.PaymentPending,
	}
	if err := utils.DB.Create(&payment).Error; err != nil {
		log.Printf("Failed to create payment record: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create payment"})
		return
	}

	checkoutRequestID, err := utils.InitiateSTKPush(req.Phone, req.Amount, "JENGAESTATE-"+req.Type)
	if err != nil {
		log.Printf("M-Pesa payment error: %v", err)
		payment.Status = models.PaymentFailed
		if err := utils.DB.Save(&payment).Error; err != nil {
			log.Printf("Failed to mark payment failed: %v", err)
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "Payment failed. Please try again later."})
		return
	}

	payment.MpesaCode = checkoutRequestID
	if err := utils.DB.Save(&payment).Error; err != nil {
		log.Printf("Failed to store checkout request id: %v", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"checkout_request_id": checkoutRequestID,
		"payment_id":          payment.ID,
		"message":             "Payment prompt sent to your phone. Enter your M-Pesa PIN to complete.",
	})
}

// MpesaCallback is Daraja's async result for an STK push. ResultCode 0
// settles the payment; anything else fails it.
func MpesaCallback(c *gin.Context) {
	var body struct {
		Body struct {
			StkCallback struct {
				CheckoutRequestID string `json:"CheckoutRequestID"`
				ResultCode        int    `json:"ResultCode"`
				ResultDesc        string `json:"ResultDesc"`
				CallbackMetadata  struct {
					Item []struct {
						Name  string      `json:"Name"`
						Value interface{} `json:"Value"`
					} `json:"Item"`
				} `json:"CallbackMetadata"`
			} `json:"stkCallback"`
		} `json:"Body"`
	}

	if err := c.BindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid callback payload"})
		return
	}

	callback := body.Body.StkCallback

	var payment models.Payment
	if err := utils.DB.Where("mpesa_code = ?", callback.CheckoutRequestID).First(&payment).Error; err != nil {
		log.Printf("Callback for unknown checkout request %s", callback.CheckoutRequestID)
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
		return
	}

	if callback.ResultCode == 0 {
		payment.Status = models.PaymentCompleted
		for _, item := range callback.CallbackMetadata.Item {
			if item.Name == "MpesaReceiptNumber" {
				if receipt, ok := item.Value.(string); ok {
					payment.MpesaCode = receipt
				}
			}
		}
	} else {
		log.Printf("STK push failed for %s: %s", callback.CheckoutRequestID, callback.ResultDesc)
		payment.Status = models.PaymentFailed
	}

	if err := utils.DB.Save(&payment).Error; err != nil {
		log.Printf("Failed to update payment from callback: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update payment"})
		return
	}

	if payment.Status == models.PaymentCompleted {
		notifyPaymentCompleted(payment)
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
