package validate

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"restaurant_manager/constants"
	"restaurant_manager/utils"
)

var validate = validator.New()

// Struct validates v and reports failures as a ValidationError with field detail.
func Struct(v any) error {
	if err := validate.Struct(v); err != nil {
		return utils.NewValidationError(constants.INVALID_INPUT, utils.ValidationFields(err))
	}
	return nil
}

// Parse reads the JSON body into T and validates it.
func Parse[T any](c *fiber.Ctx, extra ...func(*T) error) (T, error) {
	var input T
	if err := c.BodyParser(&input); err != nil {
		return input, utils.NewValidationError(constants.INVALID_INPUT, map[string]string{"body": err.Error()})
	}
	if err := Struct(input); err != nil {
		return input, err
	}
	for _, check := range extra {
		if err := check(&input); err != nil {
			return input, err
		}
	}
	return input, nil
}

// Body is Parse as a middleware; the input is stored in c.Locals(key).
func Body[T any](key string, extra ...func(*T) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := Parse[T](c, extra...)
		if err != nil {
			return utils.HandleError(c, err)
		}
		c.Locals(key, input)
		return c.Next()
	}
}

// Input returns the value stored by Body.
func Input[T any](c *fiber.Ctx, key string) (T, bool) {
	v, ok := c.Locals(key).(T)
	return v, ok
}

func ParamID(c *fiber.Ctx, key string) (uint, error) {
	v, err := strconv.ParseUint(c.Params(key), 10, 64)
	if err != nil || v == 0 {
		return 0, utils.NewValidationError(constants.INVALID_INPUT, map[string]string{key: "must be a positive integer"})
	}
	return uint(v), nil
}

func errXor(a, b string) error {
	return utils.NewValidationError(constants.INVALID_INPUT, map[string]string{
		a: "exactly one of " + a + " or " + b + " is required",
	})
}
