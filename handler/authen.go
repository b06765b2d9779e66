package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"restaurant_manager/constants"
	"restaurant_manager/helper"
	"restaurant_manager/middleware"
	"restaurant_manager/model"
	"restaurant_manager/utils"
	"restaurant_manager/validate"
)

func (h *Handler) setSessionCookie(c *fiber.Ctx, name, value string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		Expires:  expires,
		HTTPOnly: true,
		SameSite: "Lax",
		Secure:   h.SecureCookies,
		Path:     "/",
	})
}

func (h *Handler) clearSessionCookie(c *fiber.Ctx, name string) {
	h.setSessionCookie(c, name, "", time.Unix(0, 0))
}

// Login is the staff login. The subscription gate runs after the password
// check and before a token is issued.
func (h *Handler) Login(c *fiber.Ctx) error {
	input, ok := validate.Input[model.LoginInput](c, validate.LoginKey)
	if !ok {
		return utils.HandleError(c, utils.NewValidationError(constants.MISSING_LOGIN_INPUT, nil))
	}

	user, err := helper.GetUserByEmail(c.UserContext(), h.DB, input.Email)
	if err != nil {
		return utils.HandleError(c, utils.NewInternalError(err))
	}
	if user == nil || !helper.CheckPasswordHash(input.Password, user.Password) {
		return utils.HandleError(c, utils.NewAuthenticationError(constants.INVALID_CREDENTIALS))
	}
	if !user.Active {
		return utils.HandleError(c, utils.NewAuthorizationError(constants.ACCOUNT_NOT_ACTIVE))
	}
	if !user.Role.IsGlobal() {
		if user.RestaurantID == nil || user.Restaurant == nil {
			return utils.HandleError(c, utils.NewAuthorizationError(constants.FORBIDDEN))
		}
		if user.Restaurant.Status == model.RestaurantDisabled {
			return utils.HandleError(c, utils.NewAuthorizationError(constants.ACCOUNT_NOT_ACTIVE))
		}
	}

	if err := helper.CheckSubscription(user.Restaurant, user.Role, h.now()); err != nil {
		logrus.WithFields(logrus.Fields{"user_id": user.ID, "tenant_id": user.RestaurantID}).Info("login blocked by expired subscription")
		return utils.HandleError(c, err)
	}

	claim := model.IdentityClaim{
		SubjectID: user.ID,
		Email:     user.Email,
		Role:      user.Role,
		TenantID:  user.RestaurantID,
	}
	if user.Role.IsGlobal() {
		claim.TenantID = nil
	}
	token, exp, err := h.Sessions.IssueStaff(claim)
	if err != nil {
		return utils.HandleError(c, utils.NewInternalError(err))
	}
	h.setSessionCookie(c, constants.STAFF_COOKIE, token, exp)

	return utils.SuccessResponse(c, fiber.StatusOK, constants.LOGIN_SUCCESS, fiber.Map{
		"token":     token,
		"expiresAt": exp,
		"user":      user,
	})
}

func (h *Handler) Logout(c *fiber.Ctx) error {
	h.clearSessionCookie(c, constants.STAFF_COOKIE)
	return utils.SuccessResponse(c, fiber.StatusOK, constants.LOGOUT_SUCCESS, nil)
}

func (h *Handler) Me(c *fiber.Ctx, ac middleware.AuthContext) error {
	return utils.SuccessResponse(c, fiber.StatusOK, constants.FETCH_SUCCESS, fiber.Map{
		"claim":             ac.Claim,
		"effectiveTenantId": ac.EffectiveTenantID,
	})
}

func (h *Handler) RegisterCustomer(c *fiber.Ctx) error {
	input, ok := validate.Input[model.RegisterCustomerInput](c, validate.RegisterCustomerKey)
	if !ok {
		return utils.HandleError(c, utils.NewValidationError(constants.INVALID_INPUT, nil))
	}
	ctx := c.UserContext()

	exists, err := h.restaurantExists(input.RestaurantID)
	if err != nil {
		return utils.HandleError(c, utils.NewInternalError(err))
	}
	if !exists {
		return utils.HandleError(c, utils.NewNotFoundError(constants.RESTAURANT_NOT_FOUND))
	}

	existing, err := helper.GetCustomerByEmail(ctx, h.DB, input.RestaurantID, input.Email)
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
	customer := model.Customer{
		RestaurantID: input.RestaurantID,
		Email:        normalizeEmail(input.Email),
		Password:     hash,
		Name:         input.Name,
		Phone:        input.Phone,
	}
	if err := h.DB.WithContext(ctx).Create(&customer).Error; err != nil {
		return utils.HandleError(c, utils.NewInternalError(err))
	}

	if err := h.issueCustomerSession(c, customer); err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, constants.REGISTER_SUCCESS, customer)
}

func (h *Handler) CustomerLogin(c *fiber.Ctx) error {
	input, ok := validate.Input[model.CustomerLoginInput](c, validate.CustomerLoginKey)
	if !ok {
		return utils.HandleError(c, utils.NewValidationError(constants.MISSING_LOGIN_INPUT, nil))
	}

	customer, err := helper.GetCustomerByEmail(c.UserContext(), h.DB, input.RestaurantID, input.Email)
	if err != nil {
		return utils.HandleError(c, utils.NewInternalError(err))
	}
	if customer == nil || !helper.CheckPasswordHash(input.Password, customer.Password) {
		return utils.HandleError(c, utils.NewAuthenticationError(constants.INVALID_CREDENTIALS))
	}

	if err := h.issueCustomerSession(c, *customer); err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, constants.LOGIN_SUCCESS, customer)
}

func (h *Handler) CustomerLogout(c *fiber.Ctx) error {
	h.clearSessionCookie(c, constants.CUSTOMER_COOKIE)
	return utils.SuccessResponse(c, fiber.StatusOK, constants.LOGOUT_SUCCESS, nil)
}

func (h *Handler) issueCustomerSession(c *fiber.Ctx, customer model.Customer) error {
	tenantID := customer.RestaurantID
	token, exp, err := h.Sessions.IssueCustomer(model.IdentityClaim{
		SubjectID: customer.ID,
		Email:     customer.Email,
		Role:      model.RoleCustomer,
		TenantID:  &tenantID,
	})
	if err != nil {
		return utils.NewInternalError(err)
	}
	h.setSessionCookie(c, constants.CUSTOMER_COOKIE, token, exp)
	return nil
}
