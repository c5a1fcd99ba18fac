package middleware

import (
	"errors"
	"log"

	"pairwork/internal/domain/application"
	"pairwork/internal/pkg/response"
	"pairwork/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type AppError struct {
	StatusCode int
	Message    string
	Data       any
	Cause      error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func NewAppError(statusCode int, message string, data any, cause error) *AppError {
	return &AppError{StatusCode: statusCode, Message: message, Data: data, Cause: cause}
}

type ErrorMiddleware struct{}

func NewErrorMiddleware() *ErrorMiddleware {
	return &ErrorMiddleware{}
}

func (m *ErrorMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("panic recovered: %v", r)
				err = response.Error(c, fiber.StatusInternalServerError, response.MessageInternalServerError, nil)
			}
		}()

		err = c.Next()
		if err == nil {
			return nil
		}

		status, msg, data := normalizeError(err)
		return response.Error(c, status, msg, data)
	}
}

func normalizeError(err error) (int, string, any) {
	if err == nil {
		return fiber.StatusInternalServerError, response.MessageInternalServerError, nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		status := appErr.StatusCode
		if status <= 0 || status >= 500 {
			return fiber.StatusInternalServerError, response.MessageInternalServerError, nil
		}
		msg := appErr.Message
		if msg == "" {
			msg = response.DefaultMessageForStatus(status)
		}
		return status, msg, appErr.Data
	}

	if status, msg, ok := usecaseStatus(err); ok {
		return status, msg, nil
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		status := fiberErr.Code
		if status <= 0 || status >= 500 {
			return fiber.StatusInternalServerError, response.MessageInternalServerError, nil
		}
		msg := fiberErr.Message
		if msg == "" {
			msg = response.DefaultMessageForStatus(status)
		}
		return status, msg, nil
	}

	return fiber.StatusInternalServerError, response.MessageInternalServerError, nil
}

// usecaseStatus maps domain and usecase sentinels so handlers can return them
// unwrapped.
func usecaseStatus(err error) (int, string, bool) {
	switch {
	case errors.Is(err, usecase.ErrNotFound):
		return fiber.StatusNotFound, response.MessageNotFound, true
	case errors.Is(err, usecase.ErrInvalidInput):
		return fiber.StatusBadRequest, response.MessageBadRequest, true
	case errors.Is(err, usecase.ErrUnauthorized):
		return fiber.StatusUnauthorized, response.MessageUnauthorized, true
	case errors.Is(err, usecase.ErrForbidden):
		return fiber.StatusForbidden, response.MessageForbidden, true
	case errors.Is(err, usecase.ErrAlreadyApplied):
		return fiber.StatusConflict, "application already exists", true
	case errors.Is(err, usecase.ErrAlreadyResolved):
		return fiber.StatusConflict, "couple application already resolved", true
	case errors.Is(err, usecase.ErrCoupleRequired):
		return fiber.StatusUnprocessableEntity, "job accepts couple applications only", true
	case errors.Is(err, usecase.ErrJobNotCoupleFriendly):
		return fiber.StatusUnprocessableEntity, "job does not accept couple applications", true
	case errors.Is(err, usecase.ErrNotLinkedCouple):
		return fiber.StatusUnprocessableEntity, "candidates are not a linked couple", true
	case errors.Is(err, application.ErrInvalidTransition):
		return fiber.StatusConflict, err.Error(), true
	}
	return 0, "", false
}
