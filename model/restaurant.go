package model

import "time"

const (
	RestaurantActive   = "active"
	RestaurantExpired  = "expired"
	RestaurantDisabled = "disabled"
)

// Restaurant is the tenant.
type Restaurant struct {
	DTO
	Name              string     `gorm:"not null" json:"name"`
	Slug              string     `gorm:"uniqueIndex;not null" json:"slug"`
	Status            string     `gorm:"not null;default:active" json:"status"`
	SubscriptionPlan  string     `json:"subscriptionPlan"`
	SubscriptionStart *time.Time `json:"subscriptionStart"`
	SubscriptionEnd   *time.Time `json:"subscriptionEnd"`
	Branches          []Branch   `gorm:"foreignKey:RestaurantID" json:"branches,omitempty"`
}

type CreateRestaurantInput struct {
	Name              string     `json:"name" validate:"required,min=2,max=120"`
	SubscriptionPlan  string     `json:"subscriptionPlan" validate:"omitempty,oneof=trial basic pro"`
	SubscriptionStart *time.Time `json:"subscriptionStart"`
	SubscriptionEnd   *time.Time `json:"subscriptionEnd"`
}

type UpdateSubscriptionInput struct {
	SubscriptionPlan  *string    `json:"subscriptionPlan" validate:"omitempty,oneof=trial basic pro"`
	SubscriptionStart *time.Time `json:"subscriptionStart"`
	SubscriptionEnd   *time.Time `json:"subscriptionEnd"`
	Status            *string    `json:"status" validate:"omitempty,oneof=active expired disabled"`
}
