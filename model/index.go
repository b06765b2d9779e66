package model

import (
	"time"

	"gorm.io/gorm"
)

type DTO struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// IdentityClaim is rebuilt from a signed token on every request and never stored.
type IdentityClaim struct {
	SubjectID uint   `json:"subjectId"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	TenantID  *uint  `json:"tenantId,omitempty"`
}

type ResponseCustom struct {
	Rows       any   `json:"rows"`
	Limit      *int  `json:"limit"`
	Page       *int  `json:"page"`
	TotalCount int64 `json:"totalCount"`
}

type Pagination struct {
	Limit *int `query:"limit" json:"limit"`
	Page  *int `query:"page" json:"page"`
}
