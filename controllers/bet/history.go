package bet

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"fairbet/helpers"
	"fairbet/models"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

func (h *Handler) History(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(models.User)
	if !ok {
		return helpers.JSONUnauthorized(c, "INVALID_SESSION")
	}

	limit := defaultHistoryLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxHistoryLimit {
			return helpers.JSONError(c, "INVALID_LIMIT")
		}
		limit = n
	}

	bets, err := h.store.BetsByUser(user.ID, limit)
	if err != nil {
		return helpers.JSONInternal(c)
	}

	return helpers.JSONSuccess(c, "Bet history retrieved", fiber.Map{
		"bets":  bets,
		"count": len(bets),
	})
}
