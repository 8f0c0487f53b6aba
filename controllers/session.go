package controllers

import (
	"github.com/gofiber/fiber/v2"

	"stockroom/utils"
)

// Session stores a posted operator token in the jwt cookie so plain HTML
// forms can pass the write guard.
func Session(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.FormValue("token")
		if _, err := utils.ParseJWTToken(secret, token); err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token"})
		}
		utils.SetJWTCookie(c, token)
		return c.Redirect("/views/dashboard", fiber.StatusSeeOther)
	}
}

func Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
