package user

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"fairbet/database"
	"fairbet/helpers"
	"fairbet/models"
)

const (
	defaultStartingBalance = 1000.00
	defaultSessionTTL      = 24 * time.Hour
)

type RegisterRequest struct {
	UserCode string `json:"user_code"`
	Currency string `json:"currency"`
}

func Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}

	userCode := strings.ToLower(strings.TrimSpace(req.UserCode))
	if userCode == "" || len(userCode) > 32 {
		return helpers.JSONError(c, "USER_CODE_REQUIRED")
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "USD"
	}

	var existing models.User
	if err := database.DB.Where("user_code = ?", userCode).First(&existing).Error; err == nil {
		return helpers.JSONError(c, "USER_ALREADY_EXISTS")
	}

	user := models.User{
		UserCode: userCode,
		Balance:  startingBalance(),
		Currency: currency,
		IsActive: true,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		return helpers.JSONError(c, "FAILED_TO_REGISTER_USER")
	}

	session := models.Session{
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(sessionTTL()),
	}
	if err := database.DB.Create(&session).Error; err != nil {
		return helpers.JSONError(c, "FAILED_TO_CREATE_SESSION")
	}

	return helpers.JSONSuccess(c, "User registered successfully", fiber.Map{
		"user_code":     user.UserCode,
		"balance":       user.Balance,
		"currency":      user.Currency,
		"session_token": session.SID,
		"expires_at":    session.ExpiresAt,
	})
}

func startingBalance() float64 {
	if v := os.Getenv("STARTING_BALANCE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			return helpers.FormatFloat(f, 2)
		}
	}
	return defaultStartingBalance
}

func sessionTTL() time.Duration {
	if v := os.Getenv("SESSION_TTL_HOURS"); v != "" {
		if h, err := strconv.Atoi(v); err == nil && h > 0 {
			return time.Duration(h) * time.Hour
		}
	}
	return defaultSessionTTL
}
