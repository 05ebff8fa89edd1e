package migrations

import (
	"jengaestate-server/models"
	"jengaestate-server/utils"
)

func MigratePayments() {
	utils.DB.AutoMigrate(&models.Payment{})
}
