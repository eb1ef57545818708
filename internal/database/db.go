package database

import (
	"workwear-backend/internal/config"
	"workwear-backend/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{TranslateError: true})
	if err != nil {
		logrus.WithError(err).Fatal("could not connect to database")
	}

	if err := Migrate(DB); err != nil {
		logrus.WithError(err).Fatal("migration failed")
	}

	logrus.Info("database connected, migration complete")
}

// Migrate runs AutoMigrate for every entity. Tests reuse it against an
// in-memory SQLite database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Employee{},
		&models.Item{},
		&models.StockBucket{},
		&models.Movement{},
		&models.SupplyOrder{},
		&models.AuditLog{},
	)
}
