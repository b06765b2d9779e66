package helper

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"restaurant_manager/constants"
	"restaurant_manager/model"
	"restaurant_manager/utils"
)

type DiscountResult struct {
	Code           string     `json:"code"`
	Subtotal       float64    `json:"subtotal"`
	DiscountAmount float64    `json:"discountAmount"`
	Total          float64    `json:"total"`
	ExpiresAt      *time.Time `json:"expiresAt"`
}

func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ComputeDiscount returns the discount for subtotal, always within [0, subtotal].
func ComputeDiscount(d model.DiscountCode, subtotal float64) float64 {
	if subtotal <= 0 {
		return 0
	}
	var amount float64
	switch {
	case d.Percentage != nil:
		amount = subtotal * *d.Percentage / 100
	case d.Amount != nil:
		amount = *d.Amount
	}
	amount = utils.RoundMoney(amount)
	if amount < 0 {
		return 0
	}
	if amount > subtotal {
		return subtotal
	}
	return amount
}

type DiscountEvaluator struct {
	db  *gorm.DB
	now func() time.Time
}

func NewDiscountEvaluator(db *gorm.DB) *DiscountEvaluator {
	return &DiscountEvaluator{db: db, now: time.Now}
}

// Evaluate resolves an active, unexpired code of the tenant. A code that does
// not resolve is reported as a NotFound AppError.
func (e *DiscountEvaluator) Evaluate(ctx context.Context, code string, tenantID uint, subtotal float64) (*DiscountResult, error) {
	norm := NormalizeCode(code)
	if norm == "" {
		return nil, utils.NewNotFoundError(constants.DISCOUNT_NOT_FOUND)
	}

	var discount model.DiscountCode
	err := e.db.WithContext(ctx).
		Where("UPPER(code) = ? AND restaurant_id = ? AND is_active = ?", norm, tenantID, true).
		Where("(expires_at IS NULL OR expires_at > ?)", e.now()).
		Order("id desc").
		First(&discount).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError(constants.DISCOUNT_NOT_FOUND)
		}
		return nil, utils.NewInternalError(err)
	}

	subtotal = utils.RoundMoney(subtotal)
	amount := ComputeDiscount(discount, subtotal)
	return &DiscountResult{
		Code:           norm,
		Subtotal:       subtotal,
		DiscountAmount: amount,
		Total:          utils.RoundMoney(subtotal - amount),
		ExpiresAt:      discount.ExpiresAt,
	}, nil
}
