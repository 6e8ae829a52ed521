package user

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fairbet/database"
	"fairbet/helpers"
	"fairbet/models"
)

type AdjustRequest struct {
	UserCode string  `json:"user_code"`
	Amount   float64 `json:"amount"`
	Note     string  `json:"note"`
}

// AdjustBalance is the admin-only manual credit/debit. Runs under the
// same row lock as bet settlement so it cannot interleave with one.
func AdjustBalance(c *fiber.Ctx) error {
	var req AdjustRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}
	if req.UserCode == "" || req.Amount == 0 {
		return helpers.JSONError(c, "USER_CODE_AND_AMOUNT_REQUIRED")
	}

	var user models.User
	var resp fiber.Map
	txErr := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_code = ? AND is_active = true", req.UserCode).
			First(&user).Error; err != nil {
			return err
		}

		if req.Amount < 0 && user.Balance < -req.Amount {
			resp = fiber.Map{"error": "INSUFFICIENT_USER_BALANCE"}
			return nil
		}

		before := user.Balance
		user.Balance = helpers.FormatFloat(user.Balance+req.Amount, 2)
		if err := tx.Model(&user).Update("balance", user.Balance).Error; err != nil {
			return err
		}

		trxType := "deposit"
		if req.Amount < 0 {
			trxType = "withdraw"
		}
		note := req.Note
		if note == "" {
			note = "Manual adjustment via admin API"
		}

		if err := tx.Create(&models.UserTransaction{
			UserID:        user.ID,
			UserCode:      user.UserCode,
			TrxType:       trxType,
			Amount:        helpers.FormatFloat(absFloat(req.Amount), 2),
			BalanceBefore: before,
			BalanceAfter:  user.Balance,
			Currency:      user.Currency,
			Note:          note,
			RefID:         uuid.New().String(),
		}).Error; err != nil {
			return err
		}

		resp = fiber.Map{
			"user_code": user.UserCode,
			"balance":   user.Balance,
		}
		return nil
	})

	if txErr != nil {
		if errors.Is(txErr, gorm.ErrRecordNotFound) {
			return helpers.JSONError(c, "USER_NOT_FOUND")
		}
		return helpers.JSONInternal(c)
	}
	if errMsg, ok := resp["error"].(string); ok {
		return helpers.JSONError(c, errMsg)
	}

	return helpers.JSONSuccess(c, "Balance updated successfully", resp)
}

func absFloat(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
