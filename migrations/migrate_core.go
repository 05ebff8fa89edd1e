package migrations

import (
	"jengaestate-server/models"
	"jengaestate-server/utils"
)

func MigrateCore() {
	utils.DB.AutoMigrate(&models.User{}, &models.Property{})
}
