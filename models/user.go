package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Roles determine which areas of the platform an account can use.
const (
	RoleUser     = "USER"
	RoleAgent    = "AGENT"
	RoleLandlord = "LANDLORD"
	RoleAdmin    = "ADMIN"
)

// Account approval states. USER accounts are created ACTIVE; agents and
// landlords start PENDING and need admin approval before they can list.
const (
	StatusPending   = "PENDING"
	StatusActive    = "ACTIVE"
	StatusSuspended = "SUSPENDED"
	StatusRejected  = "REJECTED"
)

type User struct {
	gorm.Model
	Email    string `gorm:"unique;not null" json:"email"`
	Name     string `gorm:"not null" json:"name"`
	Phone    string `json:"phone"`
	Password string `json:"-"` // bcrypt hash; empty for federated accounts
	Role     string `gorm:"not null;default:'USER'" json:"role"`
	Status   string `gorm:"not null;default:'ACTIVE'" json:"status"`
	Image    string `json:"image"`

	// Agent / landlord profile
	AgencyName      string                      `json:"agency_name"`
	Rating          float64                     `gorm:"default:0" json:"rating"`
	TotalReviews    int                         `gorm:"default:0" json:"total_reviews"`
	ExperienceYears int                         `gorm:"default:0" json:"experience_years"`
	Specialties     datatypes.JSONSlice[string] `json:"specialties"`
	Location        string                      `json:"location"`
	Languages       datatypes.JSONSlice[string] `json:"languages"`
	Bio             string                      `json:"bio"`

	// Password reset
	OTP            string     `json:"-"`
	OTPGeneratedAt *time.Time `json:"-"`
}
