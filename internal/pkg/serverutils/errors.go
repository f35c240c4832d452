package serverutils

import (
	"errors"
	"fmt"

	"code-concierge-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// AppError carries an HTTP status and a client-safe message. Err stays server-side.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func BadRequest(message string) *AppError {
	return &AppError{Code: fiber.StatusBadRequest, Message: message}
}

func NotFound(message string) *AppError {
	return &AppError{Code: fiber.StatusNotFound, Message: message}
}

func Unauthorized(message string) *AppError {
	return &AppError{Code: fiber.StatusUnauthorized, Message: message}
}

func Forbidden(message string) *AppError {
	return &AppError{Code: fiber.StatusForbidden, Message: message}
}

// ErrorHandlerMiddleware turns any error returned down the chain into the JSON envelope.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		return writeError(ctx, log, err)
	}
}

// ErrorHandler is the fiber.Config variant, used for errors raised outside the middleware chain.
func ErrorHandler(log logger.ILogger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		return writeError(ctx, log, err)
	}
}

func writeError(ctx *fiber.Ctx, log logger.ILogger, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"

	var appErr *AppError
	var fiberErr *fiber.Error
	var validationErr *ValidationError
	switch {
	case errors.As(err, &validationErr):
		code = fiber.StatusBadRequest
		message = validationErr.Error()
	case errors.As(err, &appErr):
		code = appErr.Code
		message = appErr.Message
	case errors.As(err, &fiberErr):
		code = fiberErr.Code
		message = fiberErr.Message
	}

	if code >= fiber.StatusInternalServerError && log != nil {
		log.Error("HTTP", "Request failed", map[string]interface{}{
			"method": ctx.Method(),
			"path":   ctx.Path(),
			"status": code,
			"error":  err.Error(),
		})
	}

	return ctx.Status(code).JSON(ErrorResponse(code, message))
}
