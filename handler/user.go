package handler

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"restaurant_manager/constants"
	"restaurant_manager/helper"
	"restaurant_manager/middleware"
	"restaurant_manager/model"
	"restaurant_manager/utils"
	"restaurant_manager/validate"
)

// CreateUser adds a staff account. Tenant admins may only add managers and
// staff to their own restaurant.
func (h *Handler) CreateUser(c *fiber.Ctx, ac middleware.AuthContext) error {
	input, err := validate.Parse[model.CreateUserInput](c)
	if err != nil {
		return utils.HandleError(c, err)
	}
	if input.Role == model.RoleCustomer {
		return utils.HandleError(c, utils.NewValidationError(constants.INVALID_INPUT, map[string]string{"role": "customers register themselves"}))
	}
	if !ac.Claim.Role.IsGlobal() && !input.Role.In(model.RoleManager, model.RoleStaff) {
		return utils.HandleError(c, utils.NewAuthorizationError(constants.FORBIDDEN))
	}

	user := model.User{
		Email:  normalizeEmail(input.Email),
		Name:   input.Name,
		Role:   input.Role,
		Active: true,
	}
	if !input.Role.IsGlobal() {
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
		user.RestaurantID = &tenantID
	}

	existing, err := helper.GetUserByEmail(c.UserContext(), h.DB, user.Email)
	if err != nil {
		return utils.HandleError(c, utils.NewInternalError(err))
	}
	if existing != nil {
		return utils.HandleError(c, utils.NewConflictError(constants.EMAIL_ALREADY_USED))
	}

	hash, err := helper.HashPassword(input.Password)
	if err != nil {
		return utils.HandleError(c, utils.NewInternalError(err))
	}
	user.Password = hash
	if err := h.DB.WithContext(c.UserContext()).Create(&user).Error; err != nil {
		return utils.HandleError(c, utils.NewInternalError(err))
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, constants.CREATE_SUCCESS, user)
}

func (h *Handler) GetUsers(c *fiber.Ctx, ac middleware.AuthContext) error {
	var filter model.FilterUser
	if err := c.QueryParser(&filter); err != nil {
		return utils.HandleError(c, utils.NewValidationError(constants.INVALID_INPUT, nil))
	}

	query := utils.ScopeTenant(h.DB.WithContext(c.UserContext()).Model(&model.User{}), "restaurant_id", ac.EffectiveTenantID)
	if filter.Role != "" {
		role, err := model.ParseRole(filter.Role)
		if err != nil {
			return utils.HandleError(c, utils.NewValidationError(constants.INVALID_INPUT, map[string]string{"role": "unknown"}))
		}
		query = query.Where("role = ?", role)
	}
	if filter.Active != nil {
		query = query.Where("active = ?", *filter.Active)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return utils.HandleError(c, utils.NewInternalError(err))
	}
	var users []model.User
	if err := utils.ApplyPagination(query, filter.Limit, filter.Page).Order("id asc").Find(&users).Error; err != nil {
		return utils.HandleError(c, utils.NewInternalError(err))
	}
	return utils.SuccessResponse(c, fiber.StatusOK, constants.FETCH_SUCCESS, model.ResponseCustom{
		Rows:       users,
		Limit:      filter.Limit,
		Page:       filter.Page,
		TotalCount: total,
	})
}

func (h *Handler) SetUserActive(c *fiber.Ctx, ac middleware.AuthContext) error {
	id, err := validate.ParamID(c, "userId")
	if err != nil {
		return utils.HandleError(c, err)
	}
	input, err := validate.Parse[model.SetUserActiveInput](c)
	if err != nil {
		return utils.HandleError(c, err)
	}
	if id == ac.Claim.SubjectID {
		return utils.HandleError(c, utils.NewValidationError(constants.CANNOT_CHANGE_SELF, nil))
	}

	query := utils.ScopeTenant(h.DB.WithContext(c.UserContext()).Model(&model.User{}), "restaurant_id", ac.EffectiveTenantID)
	res := query.Where("id = ?", id).Update("active", *input.Active)
	if res.Error != nil {
		return utils.HandleError(c, utils.NewInternalError(res.Error))
	}
	if res.RowsAffected == 0 {
		return utils.HandleError(c, utils.NewNotFoundError(constants.USER_NOT_FOUND))
	}
	return utils.SuccessResponse(c, fiber.StatusOK, constants.UPDATE_SUCCESS, fiber.Map{"id": id, "active": *input.Active})
}
