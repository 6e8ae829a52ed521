package bet

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"fairbet/helpers"
	"fairbet/models"
	"fairbet/repository"
)

func (h *Handler) Verify(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(models.User)
	if !ok {
		return helpers.JSONUnauthorized(c, "INVALID_SESSION")
	}

	betUUID := c.Params("uuid")
	if betUUID == "" {
		return helpers.JSONError(c, "BET_ID_REQUIRED")
	}

	record, verification, err := h.verifier.VerifyBet(user.ID, betUUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return helpers.JSONNotFound(c, "BET_NOT_FOUND")
		}
		return helpers.JSONInternal(c)
	}

	return helpers.JSONSuccess(c, "Bet verified", fiber.Map{
		"bet_id":           record.UUID,
		"game":             record.Game,
		"server_seed":      record.ServerSeed,
		"server_seed_hash": record.ServerSeedHash,
		"client_seed":      record.ClientSeed,
		"nonce":            record.Nonce,
		"stored_result":    record.Result,
		"verification":     verification,
	})
}
