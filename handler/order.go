package handler

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"restaurant_manager/constants"
	"restaurant_manager/helper"
	"restaurant_manager/middleware"
	"restaurant_manager/model"
	"restaurant_manager/utils"
	"restaurant_manager/validate"
)

func (h *Handler) PlaceOrder(c *fiber.Ctx, ac middleware.AuthContext) error {
	input, err := validate.Parse[model.CreateOrderInput](c)
	if err != nil {
		return utils.HandleError(c, err)
	}

	order, err := h.Orders.PlaceOrder(c.UserContext(), ac.Claim, ac.EffectiveTenantID, input)
	if err != nil {
		var reloadErr *helper.OrderReloadError
		if errors.As(err, &reloadErr) {
			// the write is committed; only the read-back failed
			logrus.WithFields(logrus.Fields{"order_id": reloadErr.OrderID, "error": reloadErr.Err}).
				Error("order reload failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": true,
				"message": constants.ORDER_RELOAD_FAILED,
				"data": fiber.Map{
					"id":          reloadErr.OrderID,
					"orderNumber": reloadErr.OrderNumber,
				},
			})
		}
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, constants.ORDER_CREATED, order)
}

func (h *Handler) GetOrders(c *fiber.Ctx, ac middleware.AuthContext) error {
	var filter model.FilterOrder
	if err := c.QueryParser(&filter); err != nil {
		return utils.HandleError(c, utils.NewValidationError(constants.INVALID_INPUT, nil))
	}

	query := h.DB.WithContext(c.UserContext()).Model(&model.Order{})
	if ac.EffectiveTenantID != nil {
		query = query.Where("branch_id IN (?)",
			h.DB.Unscoped().Model(&model.Branch{}).Select("id").Where("restaurant_id = ?", *ac.EffectiveTenantID))
	}
	if ac.Claim.Role == model.RoleCustomer {
		query = query.Where("customer_id = ?", ac.Claim.SubjectID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.BranchID > 0 {
		query = query.Where("branch_id = ?", filter.BranchID)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return utils.HandleError(c, utils.NewInternalError(err))
	}

	var orders []model.Order
	if err := utils.ApplyPagination(query, filter.Limit, filter.Page).
		Preload("Items").
		Preload("Payment").
		Order("id desc").
		Find(&orders).Error; err != nil {
		return utils.HandleError(c, utils.NewInternalError(err))
	}
	return utils.SuccessResponse(c, fiber.StatusOK, constants.FETCH_SUCCESS, model.ResponseCustom{
		Rows:       orders,
		Limit:      filter.Limit,
		Page:       filter.Page,
		TotalCount: total,
	})
}

func (h *Handler) GetOrderById(c *fiber.Ctx, ac middleware.AuthContext) error {
	id, err := validate.ParamID(c, "orderId")
	if err != nil {
		return utils.HandleError(c, err)
	}
	order, err := h.Orders.GetOrder(c.UserContext(), ac.EffectiveTenantID, id)
	if err != nil {
		return utils.HandleError(c, err)
	}
	if ac.Claim.Role == model.RoleCustomer && (order.CustomerID == nil || *order.CustomerID != ac.Claim.SubjectID) {
		return utils.HandleError(c, utils.NewNotFoundError(constants.ORDER_NOT_FOUND))
	}

	var qr string
	if order.Branch != nil {
		qr, err = utils.QRCodeDataURL(fmt.Sprintf("ORDER-%d-%d", order.Branch.RestaurantID, order.OrderNumber), 256)
		if err != nil {
			logrus.WithFields(logrus.Fields{"order_id": order.ID, "error": err}).Warn("qr code generation failed")
		}
	}
	return utils.SuccessResponse(c, fiber.StatusOK, constants.FETCH_SUCCESS, fiber.Map{
		"order":  order,
		"qrCode": qr,
	})
}

func (h *Handler) UpdateOrderStatus(c *fiber.Ctx, ac middleware.AuthContext) error {
	id, err := validate.ParamID(c, "orderId")
	if err != nil {
		return utils.HandleError(c, err)
	}
	input, err := validate.Parse[model.UpdateOrderStatusInput](c)
	if err != nil {
		return utils.HandleError(c, err)
	}

	order, err := h.Orders.UpdateStatus(c.UserContext(), ac.EffectiveTenantID, id, input.Status)
	if err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, constants.ORDER_STATUS_UPDATED, order)
}

func (h *Handler) UpdatePaymentStatus(c *fiber.Ctx, ac middleware.AuthContext) error {
	id, err := validate.ParamID(c, "orderId")
	if err != nil {
		return utils.HandleError(c, err)
	}
	input, err := validate.Parse[model.UpdatePaymentStatusInput](c)
	if err != nil {
		return utils.HandleError(c, err)
	}

	payment, err := h.Orders.UpdatePaymentStatus(c.UserContext(), ac.EffectiveTenantID, id, input)
	if err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, constants.PAYMENT_STATUS_UPDATED, payment)
}
