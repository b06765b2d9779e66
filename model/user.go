package model

// User is a staff account. Global admins have no restaurant.
type User struct {
	DTO
	Email        string      `gorm:"uniqueIndex;not null" json:"email"`
	Password     string      `gorm:"not null" json:"-"`
	Name         string      `json:"name"`
	Role         Role        `gorm:"type:varchar(20);not null" json:"role"`
	Active       bool        `gorm:"not null;default:true" json:"active"`
	RestaurantID *uint       `gorm:"index" json:"restaurantId"`
	Restaurant   *Restaurant `gorm:"foreignKey:RestaurantID" json:"restaurant,omitempty"`
}

type Customer struct {
	DTO
	RestaurantID uint   `gorm:"not null;uniqueIndex:idx_customer_email" json:"restaurantId"`
	Email        string `gorm:"not null;uniqueIndex:idx_customer_email" json:"email"`
	Password     string `gorm:"not null" json:"-"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type CustomerLoginInput struct {
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required"`
	RestaurantID uint   `json:"restaurantId" validate:"required,gt=0"`
}

type RegisterCustomerInput struct {
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8"`
	Name         string `json:"name" validate:"required,max=120"`
	Phone        string `json:"phone" validate:"omitempty,max=30"`
	RestaurantID uint   `json:"restaurantId" validate:"required,gt=0"`
}

type CreateUserInput struct {
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8"`
	Name         string `json:"name" validate:"required,max=120"`
	Role         Role   `json:"role" validate:"required"`
	RestaurantID *uint  `json:"restaurantId"`
}

type SetUserActiveInput struct {
	Active *bool `json:"active" validate:"required"`
}

type FilterUser struct {
	Pagination
	Role   string `query:"role"`
	Active *bool  `query:"active"`
}
