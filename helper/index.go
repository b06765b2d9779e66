package helper

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"restaurant_manager/model"
)

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// GetUserByEmail returns nil, nil when no user matches.
func GetUserByEmail(ctx context.Context, db *gorm.DB, email string) (*model.User, error) {
	var user model.User
	err := db.WithContext(ctx).
		Preload("Restaurant").
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func GetCustomerByEmail(ctx context.Context, db *gorm.DB, restaurantID uint, email string) (*model.Customer, error) {
	var customer model.Customer
	err := db.WithContext(ctx).
		Where("restaurant_id = ? AND email = ?", restaurantID, strings.ToLower(strings.TrimSpace(email))).
		First(&customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &customer, nil
}
