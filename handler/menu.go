package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/copier"

	"restaurant_manager/constants"
	"restaurant_manager/middleware"
	"restaurant_manager/model"
	"restaurant_manager/utils"
	"restaurant_manager/validate"
)

func (h *Handler) GetMenuItems(c *fiber.Ctx, ac middleware.AuthContext) error {
	var items []model.MenuItem
	query := utils.ScopeTenant(h.DB.WithContext(c.UserContext()), "restaurant_id", ac.EffectiveTenantID)
	if ac.Claim.Role == model.RoleCustomer {
		query = query.Where("available = ?", true)
	}
	if err := query.Order("name asc").Find(&items).Error; err != nil {
		return utils.HandleError(c, utils.NewInternalError(err))
	}
	return utils.SuccessResponse(c, fiber.StatusOK, constants.FETCH_SUCCESS, items)
}

func (h *Handler) CreateMenuItem(c *fiber.Ctx, ac middleware.AuthContext) error {
	input, err := validate.Parse[model.CreateMenuItemInput](c)
	if err != nil {
		return utils.HandleError(c, err)
	}
	tenantID, err := targetTenant(ac, input.RestaurantID)
	if err != nil {
		return utils.HandleError(c, err)
	}

	item := model.MenuItem{}
	copier.Copy(&item, &input)
	item.RestaurantID = tenantID
	item.Price = utils.RoundMoney(input.Price)
	item.Available = true
	if err := h.DB.WithContext(c.UserContext()).Create(&item).Error; err != nil {
		return utils.HandleError(c, utils.NewInternalError(err))
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, constants.CREATE_SUCCESS, item)
}
