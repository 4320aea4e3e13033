package auth

import (
	"strings"

	"github.com/barstock/revisor/internal/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	CtxUserIDKey = "user_id"
	CtxEmailKey  = "user_email"
)

// JWTMiddleware rejects requests without a valid bearer token and stores the
// caller's id under CtxUserIDKey.
func JWTMiddleware(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return apperr.ErrUnauthorized
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return apperr.New(apperr.KindUnauthorized, "Authorization header must be 'Bearer <token>'", nil)
		}

		claims, err := ParseToken(secret, strings.TrimSpace(parts[1]))
		if err != nil {
			return apperr.New(apperr.KindUnauthorized, "Invalid or expired token", err)
		}

		c.Locals(CtxUserIDKey, claims.UserID)
		c.Locals(CtxEmailKey, claims.Email)
		return c.Next()
	}
}

// CallerID returns the authenticated user's id, or uuid.Nil when the request
// did not pass through JWTMiddleware.
func CallerID(c *fiber.Ctx) uuid.UUID {
	id, _ := c.Locals(CtxUserIDKey).(uuid.UUID)
	return id
}
