package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"fairbet/database"
	"fairbet/helpers"
	"fairbet/models"
)

// SessionAuth resolves X-Session-Token into the authenticated user. The
// settlement core never sees unauthenticated traffic; everything behind
// this middleware can assume c.Locals("user") holds a live principal.
func SessionAuth(c *fiber.Ctx) error {
	token := c.Get("X-Session-Token")
	if token == "" {
		return helpers.JSONUnauthorized(c, "SESSION_TOKEN_REQUIRED")
	}

	var session models.Session
	if err := database.DB.Preload("User").Where("sid = ?", token).First(&session).Error; err != nil {
		return helpers.JSONUnauthorized(c, "INVALID_SESSION")
	}
	if session.ExpiresAt.Before(time.Now()) {
		return helpers.JSONUnauthorized(c, "SESSION_EXPIRED")
	}
	if !session.User.IsActive {
		return helpers.JSONUnauthorized(c, "USER_INACTIVE")
	}

	c.Locals("user", session.User)
	return c.Next()
}

// AdminOnly must run after SessionAuth.
func AdminOnly(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(models.User)
	if !ok || !user.IsAdmin {
		return helpers.JSONUnauthorized(c, "ADMIN_REQUIRED")
	}
	return c.Next()
}
