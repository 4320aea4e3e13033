// Package httpx holds the fiber plumbing shared by every handler package:
// error rendering, body validation, query parsing and rate limiting.
package httpx

import (
	"errors"

	"github.com/barstock/revisor/internal/apperr"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorHandler renders every error as {"error": message}. apperr errors keep
// their message and status, fiber errors keep theirs, anything else is a 500
// with a generic message.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{
				"error": fe.Message,
			})
		}

		status := apperr.StatusOf(err)
		if status >= fiber.StatusInternalServerError {
			log.Error("unexpected error",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
		}
		return c.Status(status).JSON(fiber.Map{
			"error": apperr.PublicMessage(err),
		})
	}
}
