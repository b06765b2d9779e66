package handler

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"restaurant_manager/helper"
	"restaurant_manager/middleware"
	"restaurant_manager/model"
	"restaurant_manager/utils"
)

// Handler holds the dependencies shared by every route. It is built once in
// main and passed to the router.
type Handler struct {
	DB            *gorm.DB
	Sessions      *helper.Sessions
	Orders        *helper.OrderService
	Discounts     *helper.DiscountEvaluator
	Notifier      *helper.Notifier
	SecureCookies bool
	now           func() time.Time
}

func New(db *gorm.DB, sessions *helper.Sessions, orders *helper.OrderService, discounts *helper.DiscountEvaluator, notifier *helper.Notifier) *Handler {
	return &Handler{
		DB:        db,
		Sessions:  sessions,
		Orders:    orders,
		Discounts: discounts,
		Notifier:  notifier,
		now:       time.Now,
	}
}

func (h *Handler) WithClock(now func() time.Time) *Handler {
	h.now = now
	return h
}

// targetTenant picks the tenant a create operation writes to. Scoped callers
// always write to their own tenant; a global admin names one through the
// query parameter or the body.
func targetTenant(ac middleware.AuthContext, fromBody *uint) (uint, error) {
	if ac.EffectiveTenantID != nil {
		return *ac.EffectiveTenantID, nil
	}
	if ac.Claim.Role.IsGlobal() && fromBody != nil && *fromBody > 0 {
		return *fromBody, nil
	}
	return 0, utils.NewValidationError("restaurantId is required", map[string]string{"restaurantId": "required"})
}

func (h *Handler) restaurantExists(id uint) (bool, error) {
	var count int64
	err := h.DB.Model(&model.Restaurant{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
