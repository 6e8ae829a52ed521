package bet

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"fairbet/games"
	"fairbet/helpers"
	"fairbet/models"
	"fairbet/services"
)

type PlaceRequest struct {
	Game       string  `json:"game" validate:"required"`
	Amount     float64 `json:"amount" validate:"required,gt=0"`
	ClientSeed string  `json:"client_seed" validate:"omitempty,max=64"`
	BetType    string  `json:"bet_type" validate:"omitempty,oneof=over under"`
	Target     float64 `json:"target" validate:"omitempty,gte=0,lte=100"`
	Side       string  `json:"side" validate:"omitempty,oneof=cat dog"`
}

func (h *Handler) Place(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(models.User)
	if !ok {
		return helpers.JSONUnauthorized(c, "INVALID_SESSION")
	}

	var req PlaceRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}
	if err := h.validate.Struct(req); err != nil {
		return helpers.JSONError(c, "INVALID_BET")
	}

	result, err := h.settlement.PlaceBet(c.UserContext(), user.ID, services.BetRequest{
		Game:       games.Type(req.Game),
		Amount:     req.Amount,
		ClientSeed: req.ClientSeed,
		Params: games.Params{
			BetType: req.BetType,
			Target:  req.Target,
			Side:    req.Side,
		},
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInsufficientBalance):
			return helpers.JSONError(c, "INSUFFICIENT_BALANCE")
		case services.IsValidation(err):
			return helpers.JSONError(c, "INVALID_BET")
		default:
			return helpers.JSONInternal(c)
		}
	}

	return helpers.JSONSuccess(c, "Bet settled", result)
}
