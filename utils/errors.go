package utils

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"restaurant_manager/constants"
)

type ErrorKind string

const (
	KindValidation          ErrorKind = "validation"
	KindAuthentication      ErrorKind = "authentication"
	KindAuthorization       ErrorKind = "authorization"
	KindSubscriptionExpired ErrorKind = "subscription_expired"
	KindNotFound            ErrorKind = "not_found"
	KindConflict            ErrorKind = "conflict"
	KindInternal            ErrorKind = "internal"
)

type AppError struct {
	Kind    ErrorKind
	Status  int
	Message string
	Fields  map[string]string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

func NewValidationError(message string, fields map[string]string) *AppError {
	return &AppError{Kind: KindValidation, Status: fiber.StatusBadRequest, Message: message, Fields: fields}
}

func NewAuthenticationError(message string) *AppError {
	return &AppError{Kind: KindAuthentication, Status: fiber.StatusUnauthorized, Message: message}
}

func NewAuthorizationError(message string) *AppError {
	return &AppError{Kind: KindAuthorization, Status: fiber.StatusForbidden, Message: message}
}

func NewSubscriptionExpiredError(restaurant string) *AppError {
	return &AppError{
		Kind:    KindSubscriptionExpired,
		Status:  fiber.StatusPaymentRequired,
		Message: fmt.Sprintf(constants.SUBSCRIPTION_EXPIRED, restaurant),
		Fields:  map[string]string{"restaurant": restaurant},
	}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{Kind: KindNotFound, Status: fiber.StatusNotFound, Message: message}
}

func NewConflictError(message string) *AppError {
	return &AppError{Kind: KindConflict, Status: fiber.StatusConflict, Message: message}
}

func NewInternalError(err error) *AppError {
	return &AppError{Kind: KindInternal, Status: fiber.StatusInternalServerError, Message: constants.ERROR_INTERNAL_ERROR, Err: err}
}

func IsKind(err error, kind ErrorKind) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == kind
}

// ValidationFields flattens validator errors to field -> failed tag.
func ValidationFields(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"body": err.Error()}
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Namespace()] = fe.Tag()
	}
	return fields
}

// HandleError writes the failure envelope. Internal details are logged, not returned.
func HandleError(c *fiber.Ctx, err error) error {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		var fe *fiber.Error
		if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
			return ErrorResponse(c, fe.Code, fe.Message, nil)
		}
		appErr = NewInternalError(err)
	}

	if appErr.Kind == KindInternal {
		logrus.WithFields(logrus.Fields{
			"method": c.Method(),
			"path":   c.Path(),
			"error":  appErr.Err,
		}).Error("request failed")
		return ErrorResponse(c, appErr.Status, appErr.Message, nil)
	}

	var detail any
	if len(appErr.Fields) > 0 {
		detail = appErr.Fields
	}
	return ErrorResponse(c, appErr.Status, appErr.Message, detail)
}
