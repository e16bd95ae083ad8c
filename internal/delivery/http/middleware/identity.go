package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// RequestUser resolves the caller's user id from the X-User-ID header and
// stores it in request locals. Authentication proper is owned by an outer
// layer; this middleware only carries the already-established identity.
func RequestUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Get("X-User-ID")
		if userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "X-User-ID header required"})
		}
		c.Locals("userID", userID)
		return c.Next()
	}
}
