package database

import (
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"restaurant_manager/model"
)

// SeedData creates the platform operator account when it does not exist yet.
func SeedData(db *gorm.DB, email, password string) {
	if email == "" || password == "" {
		logrus.Warn("ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin seed")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		logrus.WithError(err).Error("failed to hash seed password")
		return
	}

	admin := model.User{
		Email:    strings.ToLower(strings.TrimSpace(email)),
		Password: string(hash),
		Name:     "Platform Admin",
		Role:     model.RoleGlobalAdmin,
		Active:   true,
	}
	if err := db.Where(model.User{Email: admin.Email}).FirstOrCreate(&admin).Error; err != nil {
		logrus.WithFields(logrus.Fields{"email": email, "error": err}).Error("failed to seed admin")
	}
}
