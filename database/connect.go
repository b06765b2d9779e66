package database

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"restaurant_manager/config"
	"restaurant_manager/model"
)

// ConnectDB opens the store. The caller owns the handle and closes it on shutdown.
func ConnectDB(s config.Settings) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		s.DBHost, s.DBPort, s.DBUser, s.DBPassword, s.DBName)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}
	logrus.Info("connection opened to database")

	if err := Migrate(db); err != nil {
		return nil, err
	}
	logrus.Info("database migrated")
	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Restaurant{},
		&model.Branch{},
		&model.User{},
		&model.Customer{},
		&model.MenuItem{},
		&model.DiscountCode{},
		&model.Order{},
		&model.OrderItem{},
		&model.Payment{},
		&model.Notification{},
	)
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		logrus.WithError(err).Error("failed to close database connection")
	}
}
