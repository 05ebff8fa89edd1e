package migrations

import (
	"jengaestate-server/models"
	"jengaestate-server/utils"
)

func MigrateEngagement() {
	utils.DB.AutoMigrate(
		&models.Booking{},
		&models.Message{},
		&models.Notification{},
		&models.PropertyView{},
		&models.Favorite{},
		&models.Review{},
	)
}
