package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/copier"

	"restaurant_manager/constants"
	"restaurant_manager/helper"
	"restaurant_manager/middleware"
	"restaurant_manager/model"
	"restaurant_manager/utils"
	"restaurant_manager/validate"
)

// ValidateDiscount is public. Unlike order placement it fails hard with 404
// when the code does not resolve.
func (h *Handler) ValidateDiscount(c *fiber.Ctx) error {
	input, ok := validate.Input[model.ValidateDiscountInput](c, validate.ValidateDiscountKey)
	if !ok {
		return utils.HandleError(c, utils.NewValidationError(constants.INVALID_INPUT, nil))
	}

	result, err := h.Discounts.Evaluate(c.UserContext(), input.Code, input.RestaurantID, *input.Subtotal)
	if err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, constants.DISCOUNT_VALID, result)
}

func (h *Handler) GetDiscounts(c *fiber.Ctx, ac middleware.AuthContext) error {
	var discounts []model.DiscountCode
	query := utils.ScopeTenant(h.DB.WithContext(c.UserContext()), "restaurant_id", ac.EffectiveTenantID)
	if c.Query("active") == "true" {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Order("id desc").Find(&discounts).Error; err != nil {
		return utils.HandleError(c, utils.NewInternalError(err))
	}
	return utils.SuccessResponse(c, fiber.StatusOK, constants.FETCH_SUCCESS, discounts)
}

func (h *Handler) CreateDiscount(c *fiber.Ctx, ac middleware.AuthContext) error {
	input, err := validate.Parse[model.CreateDiscountInput](c, validate.DiscountValue)
	if err != nil {
		return utils.HandleError(c, err)
	}
	tenantID, err := targetTenant(ac, input.RestaurantID)
	if err != nil {
		return utils.HandleError(c, err)
	}
	exists, err := h.restaurantExists(tenantID)
	if err != nil {
		return utils.HandleError(c, utils.NewInternalError(err))
	}
	if !exists {
		return utils.HandleError(c, utils.NewNotFoundError(constants.RESTAURANT_NOT_FOUND))
	}

	code := helper.NormalizeCode(input.Code)
	db := h.DB.WithContext(c.UserContext())

	// TODO: move to a partial unique index (restaurant_id, code) WHERE is_active once migrations replace AutoMigrate
	var count int64
	if err := db.Model(&model.DiscountCode{}).
		Where("restaurant_id = ? AND UPPER(code) = ? AND is_active = ?", tenantID, code, true).
		Count(&count).Error; err != nil {
		return utils.HandleError(c, utils.NewInternalError(err))
	}
	if count > 0 {
		return utils.HandleError(c, utils.NewConflictError(constants.DISCOUNT_ACTIVE_EXISTS))
	}

	discount := model.DiscountCode{}
	copier.Copy(&discount, &input)
	discount.Code = code
	discount.RestaurantID = tenantID
	discount.IsActive = true
	if err := db.Create(&discount).Error; err != nil {
		return utils.HandleError(c, utils.NewInternalError(err))
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, constants.CREATE_SUCCESS, discount)
}
