package models

import "gorm.io/gorm"

type Message struct {
	gorm.Model
	SenderID   uint   `gorm:"not null;index" json:"sender_id"`
	Sender     User   `json:"sender"`
	ReceiverID uint   `gorm:"not null;index" json:"receiver_id"`
	Receiver   User   `json:"receiver"`
	Content    string `gorm:"not null" json:"content"`
	PropertyID *uint  `gorm:"index" json:"property_id,omitempty"`
	Read       bool   `gorm:"default:false" json:"read"`
}
