package models

import "time"

type Favorite struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index:idx_fav_user_property,unique" json:"user_id"`
	PropertyID uint      `gorm:"not null;index:idx_fav_user_property,unique" json:"property_id"`
	Property   Property  `json:"property"`
	CreatedAt  time.Time `json:"created_at"`
}
