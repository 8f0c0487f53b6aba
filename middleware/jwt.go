package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"stockroom/utils"
)

// JWT rejects requests without a valid bearer token or jwt cookie. An
// empty secret turns the check off.
func JWT(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if secret == "" {
			return c.Next()
		}

		token := c.Cookies("jwt")
		if auth := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(auth, "Bearer ") {
			token = strings.TrimPrefix(auth, "Bearer ")
		}
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing token"})
		}

		operator, err := utils.ParseJWTToken(secret, token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token"})
		}

		c.Locals("operator", operator)
		return c.Next()
	}
}
