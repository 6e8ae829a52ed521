package models

import (
	"gorm.io/gorm"
)

// NonceSequence holds the per-user bet counter. One row per user, created
// lazily on the first bet. CurrentNonce is the nonce of the latest
// committed bet; the next bet uses CurrentNonce+1, so committed nonces run
// 1, 2, 3, ... with no gaps.
type NonceSequence struct {
	gorm.Model

	UserID       uint   `gorm:"uniqueIndex;not null"`
	CurrentNonce uint64 `gorm:"not null;default:0"`
}
