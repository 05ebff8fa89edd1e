package models

import "time"

// PropertyView is an append-only record written on every property read,
// including anonymous ones (nil UserID).
type PropertyView struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PropertyID uint      `gorm:"not null;index" json:"property_id"`
	Property   Property  `json:"property"`
	UserID     *uint     `gorm:"index" json:"user_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
