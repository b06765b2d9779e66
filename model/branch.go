package model

type Branch struct {
	DTO
	RestaurantID uint       `gorm:"not null;index" json:"restaurantId"`
	Restaurant   Restaurant `gorm:"foreignKey:RestaurantID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Name         string     `gorm:"not null" json:"name"`
	Address      string     `json:"address"`
	Phone        string     `json:"phone"`
	// DeliveryCutoffTime is a local time of day, "HH:MM".
	DeliveryCutoffTime *string `gorm:"size:5" json:"deliveryCutoffTime"`
}

type CreateBranchInput struct {
	Name               string  `json:"name" validate:"required,max=120"`
	Address            string  `json:"address" validate:"omitempty,max=255"`
	Phone              string  `json:"phone" validate:"omitempty,max=30"`
	DeliveryCutoffTime *string `json:"deliveryCutoffTime" validate:"omitempty,datetime=15:04"`
	// RestaurantID is honored only for global admins.
	RestaurantID *uint `json:"restaurantId"`
}
