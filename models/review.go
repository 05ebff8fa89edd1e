package models

import "gorm.io/gorm"

type Review struct {
	gorm.Model
	UserID     uint   `gorm:"not null;index" json:"user_id"`
	User       User   `json:"user"`
	PropertyID uint   `gorm:"not null;index" json:"property_id"`
	Rating     int    `gorm:"not null" json:"rating"` // 1..5
	Comment    string `json:"comment"`
}
