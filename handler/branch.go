package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/copier"
	"gorm.io/gorm"

	"restaurant_manager/constants"
	"restaurant_manager/middleware"
	"restaurant_manager/model"
	"restaurant_manager/utils"
	"restaurant_manager/validate"
)

func (h *Handler) GetBranches(c *fiber.Ctx, ac middleware.AuthContext) error {
	var branches []model.Branch
	query := utils.ScopeTenant(h.DB.WithContext(c.UserContext()), "restaurant_id", ac.EffectiveTenantID)
	if err := query.Order("id asc").Find(&branches).Error; err != nil {
		return utils.HandleError(c, utils.NewInternalError(err))
	}
	return utils.SuccessResponse(c, fiber.StatusOK, constants.FETCH_SUCCESS, branches)
}

func (h *Handler) CreateBranch(c *fiber.Ctx, ac middleware.AuthContext) error {
	input, err := validate.Parse[model.CreateBranchInput](c)
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

	branch := model.Branch{}
	copier.Copy(&branch, &input)
	branch.RestaurantID = tenantID
	if err := h.DB.WithContext(c.UserContext()).Create(&branch).Error; err != nil {
		return utils.HandleError(c, utils.NewInternalError(err))
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, constants.CREATE_SUCCESS, branch)
}

func (h *Handler) DeleteBranch(c *fiber.Ctx, ac middleware.AuthContext) error {
	id, err := validate.ParamID(c, "branchId")
	if err != nil {
		return utils.HandleError(c, err)
	}

	db := h.DB.WithContext(c.UserContext())
	var branch model.Branch
	if err := db.First(&branch, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.HandleError(c, utils.NewNotFoundError(constants.BRANCH_NOT_FOUND))
		}
		return utils.HandleError(c, utils.NewInternalError(err))
	}
	if ac.EffectiveTenantID != nil && branch.RestaurantID != *ac.EffectiveTenantID {
		return utils.HandleError(c, utils.NewAuthorizationError(constants.BRANCH_NOT_OWNED))
	}

	if err := db.Delete(&branch).Error; err != nil {
		return utils.HandleError(c, utils.NewInternalError(err))
	}
	return utils.SuccessResponse(c, fiber.StatusOK, constants.DELETE_SUCCESS, fiber.Map{"id": branch.ID})
}
