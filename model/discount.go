package model

import "time"

type DiscountCode struct {
	DTO
	Code         string     `gorm:"not null;index" json:"code"`
	RestaurantID uint       `gorm:"not null;index" json:"restaurantId"`
	Percentage   *float64   `gorm:"type:decimal(5,2)" json:"percentage,omitempty"`
	Amount       *float64   `gorm:"type:decimal(10,2)" json:"amount,omitempty"`
	IsActive     bool       `gorm:"not null;default:true" json:"isActive"`
	ExpiresAt    *time.Time `json:"expiresAt"`
}

// CreateDiscountInput carries exactly one of Percentage or Amount.
type CreateDiscountInput struct {
	Code         string     `json:"code" validate:"required,min=3,max=40"`
	Percentage   *float64   `json:"percentage" validate:"omitempty,gt=0,lte=100"`
	Amount       *float64   `json:"amount" validate:"omitempty,gt=0"`
	ExpiresAt    *time.Time `json:"expiresAt"`
	RestaurantID *uint      `json:"restaurantId"`
}

type ValidateDiscountInput struct {
	Code         string   `json:"code" validate:"required"`
	RestaurantID uint     `json:"restaurantId" validate:"required,gt=0"`
	Subtotal     *float64 `json:"subtotal" validate:"required,gte=0"`
}
