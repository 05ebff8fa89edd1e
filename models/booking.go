package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
)

// Booking is a viewing request from a prospective tenant, transitioned by
// the property owner or assigned agent.
type Booking struct {
	gorm.Model
	PropertyID uint      `gorm:"not null;index" json:"property_id"`
	Property   Property  `json:"property"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	User       User      `json:"user"`
	Date       time.Time `gorm:"not null" json:"date"`
	Message    string    `json:"message"`
	Status     string    `gorm:"not null;default:'pending'" json:"status"`
}
