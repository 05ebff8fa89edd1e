package models

import "gorm.io/gorm"

const (
	PaymentPending   = "PENDING"
	PaymentCompleted = "COMPLETED"
	PaymentFailed    = "FAILED"
)

// Payment types bill platform features, not rent.
const (
	PaymentSubscription    = "subscription"
	PaymentPropertyPosting = "property_posting"
	PaymentFeaturedListing = "featured_listing"
)

type Payment struct {
	gorm.Model
	UserID   uint    `gorm:"not null;index" json:"user_id"`
	User     User    `json:"user"`
	Amount   float64 `gorm:"not null" json:"amount"`
	Currency string  `gorm:"not null" json:"currency"`
	Type     string  `gorm:"not null" json:"type"`
	Status   string  `gorm:"not null;default:'PENDING'" json:"status"`

	// Provider correlation ids: Daraja checkout request / receipt number,
	// or the Stripe payment-intent id.
	MpesaCode string `json:"mpesa_code,omitempty"`
	StripeID  string `json:"stripe_id,omitempty"`
}
