package validate

import (
	"github.com/gofiber/fiber/v2"

	"restaurant_manager/model"
)

// Locals keys for routes that validate before any identity is resolved.
// Guarded routes parse inside the handler so authentication fails first.
const (
	LoginKey            = "LoginInput"
	CustomerLoginKey    = "CustomerLoginInput"
	RegisterCustomerKey = "RegisterCustomerInput"
	ValidateDiscountKey = "ValidateDiscountInput"
)

func Login() fiber.Handler { return Body[model.LoginInput](LoginKey) }

func CustomerLogin() fiber.Handler { return Body[model.CustomerLoginInput](CustomerLoginKey) }

func RegisterCustomer() fiber.Handler {
	return Body[model.RegisterCustomerInput](RegisterCustomerKey)
}

func ValidateDiscount() fiber.Handler {
	return Body[model.ValidateDiscountInput](ValidateDiscountKey)
}

// DiscountValue requires exactly one of percentage or amount.
func DiscountValue(in *model.CreateDiscountInput) error {
	if (in.Percentage == nil) == (in.Amount == nil) {
		return errXor("percentage", "amount")
	}
	return nil
}
