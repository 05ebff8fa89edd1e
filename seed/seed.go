// seed/seed.go
package seed

import (
	"errors"
	"log"
	"os"

	"jengaestate-server/models"
	"jengaestate-server/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SeedAdmin creates the initial admin account when none exists.
func SeedAdmin() error {
	var existing models.User
	err := utils.DB.Where("role = ?", models.RoleAdmin).First(&existing).Error
	if err == nil {
		log.Println("Admin account already exists. Skipping seeding.")
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.User{
		Email:    "admin@jengaestate.com",
		Name:     "Admin User",
		Phone:    "254700000001",
		Password: string(hashed),
		Role:     models.RoleAdmin,
		Status:   models.StatusActive,
	}

	if err := utils.DB.Create(&admin).Error; err != nil {
		return err
	}

	log.Println("Admin account seeded successfully.")
	return nil
}

// SeedSampleAgents fills an empty directory with a few showcase agents.
func SeedSampleAgents() error {
	var count int64
	if err := utils.DB.Model(&models.User{}).Where("role = ?", models.RoleAgent).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("Agent directory already populated. Skipping seeding.")
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("agent123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	agents := []models.User{
		{
			Email:           "john@premieragents.com",
			Name:            "John Kamau",
			Phone:           "254711222333",
			Password:        string(hashed),
			Role:            models.RoleAgent,
			Status:          models.StatusActive,
			AgencyName:      "Premier Realty Kenya",
			Rating:          4.8,
			TotalReviews:    42,
			ExperienceYears: 8,
			Specialties:     datatypes.NewJSONSlice([]string{"Residential", "Luxury", "Commercial"}),
			Location:        "Nairobi",
			Languages:       datatypes.NewJSONSlice([]string{"English", "Swahili"}),
			Bio:             "Specializing in luxury properties and commercial real estate across Nairobi.",
		},
		{
			Email:           "sarah@harbourhomes.com",
			Name:            "Sarah Akoth",
			Phone:           "254722333444",
			Password:        string(hashed),
			Role:            models.RoleAgent,
			Status:          models.StatusActive,
			AgencyName:      "Harbour Homes & Properties",
			Rating:          4.9,
			TotalReviews:    56,
			ExperienceYears: 12,
			Specialties:     datatypes.NewJSONSlice([]string{"Coastal Properties", "Vacation Homes", "Investment"}),
			Location:        "Mombasa",
			Languages:       datatypes.NewJSONSlice([]string{"English", "Swahili", "Arabic"}),
			Bio:             "Coastal property expert with extensive experience in Mombasa real estate market.",
		},
	}

	for i := range agents {
		if err := utils.DB.Create(&agents[i]).Error; err != nil {
			return err
		}
	}

	log.Println("Sample agents seeded successfully.")
	return nil
}
