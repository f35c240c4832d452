package controller

import (
	"errors"

	"code-concierge-be/internal/pkg/serverutils"
	"code-concierge-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

// mapError turns service sentinels into client errors. Anything unknown stays a 500.
func mapError(err error) error {
	switch {
	case errors.Is(err, service.ErrEmptyQuery),
		errors.Is(err, service.ErrUnknownTable),
		errors.Is(err, service.ErrUnknownMode),
		errors.Is(err, service.ErrUnknownFormat):
		return serverutils.NewAppError(fiber.StatusBadRequest, err.Error(), err)
	case errors.Is(err, service.ErrSessionNotFound):
		return serverutils.NewAppError(fiber.StatusNotFound, "Chat session not found", err)
	case errors.Is(err, service.ErrFileNotFound):
		return serverutils.NewAppError(fiber.StatusNotFound, "File not found", err)
	case errors.Is(err, serverutils.ErrInvalidDownloadToken):
		return serverutils.NewAppError(fiber.StatusUnauthorized, "Invalid or expired download link", err)
	}
	return err
}
