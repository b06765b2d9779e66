package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/copier"
	"gorm.io/gorm"

	"restaurant_manager/constants"
	"restaurant_manager/helper"
	"restaurant_manager/middleware"
	"restaurant_manager/model"
	"restaurant_manager/utils"
	"restaurant_manager/validate"
)

func (h *Handler) CreateRestaurant(c *fiber.Ctx, ac middleware.AuthContext) error {
	input, err := validate.Parse[model.CreateRestaurantInput](c)
	if err != nil {
		return utils.HandleError(c, err)
	}

	restaurant := model.Restaurant{}
	copier.Copy(&restaurant, &input)
	restaurant.Status = model.RestaurantActive
	if restaurant.SubscriptionPlan == "" {
		restaurant.SubscriptionPlan = "trial"
	}
	if restaurant.SubscriptionStart == nil {
		restaurant.SubscriptionStart = utils.Ptr(h.now())
	}

	err = h.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		slug, err := helper.GenerateUniqueRestaurantSlug(tx, input.Name)
		if err != nil {
			return err
		}
		restaurant.Slug = slug
		return tx.Create(&restaurant).Error
	})
	if err != nil {
		return utils.HandleError(c, utils.NewInternalError(err))
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, constants.CREATE_SUCCESS, restaurant)
}

func (h *Handler) GetRestaurants(c *fiber.Ctx, ac middleware.AuthContext) error {
	var filter model.Pagination
	if err := c.QueryParser(&filter); err != nil {
		return utils.HandleError(c, utils.NewValidationError(constants.INVALID_INPUT, nil))
	}

	query := utils.ScopeTenant(h.DB.WithContext(c.UserContext()).Model(&model.Restaurant{}), "id", ac.EffectiveTenantID).
		Session(&gorm.Session{})
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return utils.HandleError(c, utils.NewInternalError(err))
	}

	var restaurants []model.Restaurant
	if err := utils.ApplyPagination(query, filter.Limit, filter.Page).Order("id asc").Find(&restaurants).Error; err != nil {
		return utils.HandleError(c, utils.NewInternalError(err))
	}
	return utils.SuccessResponse(c, fiber.StatusOK, constants.FETCH_SUCCESS, model.ResponseCustom{
		Rows:       restaurants,
		Limit:      filter.Limit,
		Page:       filter.Page,
		TotalCount: total,
	})
}

func (h *Handler) UpdateSubscription(c *fiber.Ctx, ac middleware.AuthContext) error {
	id, err := validate.ParamID(c, "restaurantId")
	if err != nil {
		return utils.HandleError(c, err)
	}
	input, err := validate.Parse[model.UpdateSubscriptionInput](c)
	if err != nil {
		return utils.HandleError(c, err)
	}

	db := h.DB.WithContext(c.UserContext())
	var restaurant model.Restaurant
	if err := db.First(&restaurant, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.HandleError(c, utils.NewNotFoundError(constants.RESTAURANT_NOT_FOUND))
		}
		return utils.HandleError(c, utils.NewInternalError(err))
	}

	if input.SubscriptionPlan != nil {
		restaurant.SubscriptionPlan = *input.SubscriptionPlan
	}
	if input.SubscriptionStart != nil {
		restaurant.SubscriptionStart = input.SubscriptionStart
	}
	if input.SubscriptionEnd != nil {
		restaurant.SubscriptionEnd = input.SubscriptionEnd
		// renewing an expired tenant reactivates it
		if restaurant.Status == model.RestaurantExpired && input.SubscriptionEnd.After(h.now()) {
			restaurant.Status = model.RestaurantActive
		}
	}
	if input.Status != nil {
		restaurant.Status = *input.Status
	}

	if err := db.Save(&restaurant).Error; err != nil {
		return utils.HandleError(c, utils.NewInternalError(err))
	}
	return utils.SuccessResponse(c, fiber.StatusOK, constants.UPDATE_SUCCESS, restaurant)
}
