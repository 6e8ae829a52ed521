package user

import (
	"github.com/gofiber/fiber/v2"

	"fairbet/helpers"
	"fairbet/models"
)

func Balance(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(models.User)
	if !ok {
		return helpers.JSONUnauthorized(c, "INVALID_SESSION")
	}

	return helpers.JSONSuccess(c, "Balance retrieved successfully", fiber.Map{
		"user_code": user.UserCode,
		"balance":   user.Balance,
		"currency":  user.Currency,
	})
}
