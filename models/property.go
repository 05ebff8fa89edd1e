package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Listing states. Only AVAILABLE properties appear in the public catalog.
const (
	PropertyAvailable = "AVAILABLE"
	PropertyPending   = "PENDING"
	PropertySold      = "SOLD"
	PropertyRented    = "RENTED"
)

type Property struct {
	gorm.Model
	Title       string  `gorm:"not null" json:"title"`
	Description string  `json:"description"`
	Price       float64 `gorm:"not null" json:"price"`
	Type        string  `json:"type"` // APARTMENT, HOUSE, VILLA, LAND, COMMERCIAL
	Status      string  `gorm:"not null;default:'AVAILABLE'" json:"status"`
	Featured    bool    `gorm:"default:false" json:"featured"`

	Address   string  `json:"address"`
	City      string  `json:"city"`
	Region    string  `json:"region"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	Bedrooms  int     `json:"bedrooms"`
	Bathrooms int     `json:"bathrooms"`
	Area      float64 `json:"area"` // square metres
	YearBuilt int     `json:"year_built"`

	Features  datatypes.JSONSlice[string] `json:"features"`
	Amenities datatypes.JSONSlice[string] `json:"amenities"`
	Images    datatypes.JSONSlice[string] `json:"images"`

	// Filled best-effort by the listing-insight service on creation.
	AIDescription  string                      `json:"ai_description"`
	AIPriceInsight string                      `json:"ai_price_insight"`
	AITags         datatypes.JSONSlice[string] `json:"ai_tags"`

	OwnerID uint  `gorm:"not null;index" json:"owner_id"`
	Owner   User  `json:"owner"`
	AgentID *uint `gorm:"index" json:"agent_id"`
	Agent   *User `json:"agent,omitempty"`

	Bookings []Booking `json:"bookings,omitempty"`
	Reviews  []Review  `json:"reviews,omitempty"`
}
