package models

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model

	UserCode string  `gorm:"uniqueIndex;size:32" json:"user_code"`
	Balance  float64 `json:"balance"`
	Currency string  `gorm:"size:8" json:"currency"`
	IsAdmin  bool    `gorm:"default:false" json:"is_admin"`
	IsActive bool    `gorm:"default:true" json:"is_active"`

	Bets         []Bet             `gorm:"foreignKey:UserID"`
	Transactions []UserTransaction `gorm:"foreignKey:UserID"`
}

type UserTransaction struct {
	gorm.Model

	UserID        uint    `gorm:"index"`
	UserCode      string  `gorm:"size:32"`
	TrxType       string  `gorm:"size:16"`
	Amount        float64 `json:"amount"`
	BalanceBefore float64 `json:"balance_before"`
	BalanceAfter  float64 `json:"balance_after"`
	Currency      string  `gorm:"size:8" json:"currency"`
	Note          string  `gorm:"size:255"`
	RefID         string  `gorm:"size:64;index"`
}
