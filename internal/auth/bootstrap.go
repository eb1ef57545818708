package auth

import (
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"workwear-backend/internal/config"
	"workwear-backend/internal/database"
	"workwear-backend/internal/models"
)

// BootstrapAdmin provisions the initial admin account from config. It
// is an explicit one-time step called from main after the database is
// up, and does nothing when an admin already exists or when the
// bootstrap credentials are not configured.
func BootstrapAdmin(cfg *config.Config) error {
	if cfg.BootstrapAdminUsername == "" || cfg.BootstrapAdminPassword == "" {
		return nil
	}

	var count int64
	if err := database.DB.Model(&models.Employee{}).
		Where("role = ?", models.RoleAdmin).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.BootstrapAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.Employee{
		Name:         "Administrator",
		Email:        cfg.BootstrapAdminEmail,
		Role:         models.RoleAdmin,
		Username:     cfg.BootstrapAdminUsername,
		PasswordHash: string(hash),
	}
	if err := database.DB.Create(&admin).Error; err != nil {
		return err
	}

	logrus.WithField("username", admin.Username).Info("bootstrap admin account created")
	return nil
}
