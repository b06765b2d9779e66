package model

type Notification struct {
	DTO
	UserID  uint   `gorm:"not null;index" json:"userId"`
	Message string `gorm:"not null" json:"message"`
	IsRead  bool   `gorm:"not null;default:false" json:"isRead"`
}
