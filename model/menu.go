package model

type MenuItem struct {
	DTO
	RestaurantID uint    `gorm:"not null;index" json:"restaurantId"`
	Name         string  `gorm:"not null" json:"name"`
	Description  string  `json:"description"`
	Price        float64 `gorm:"type:decimal(10,2);not null" json:"price"`
	Available    bool    `gorm:"not null;default:true" json:"available"`
}

type CreateMenuItemInput struct {
	Name         string  `json:"name" validate:"required,max=120"`
	Description  string  `json:"description" validate:"omitempty,max=500"`
	Price        float64 `json:"price" validate:"gte=0"`
	RestaurantID *uint   `json:"restaurantId"`
}
