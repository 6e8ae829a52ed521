package repository

import (
	"context"
	"errors"

	"fairbet/models"
)

// ErrNotFound is returned when a user, bet or session does not exist.
var ErrNotFound = errors.New("record not found")

// errConflict marks transaction serialization failures; callers test for
// it with IsConflict and may retry the whole unit of work.
var errConflict = errors.New("transaction conflict")

// Ledger is the write surface available inside one settlement
// transaction. Lock methods take row locks scoped to a single user, so
// settlements for different users proceed in parallel while two
// settlements for the same user serialize.
type Ledger interface {
	// LockUser loads the user's row under an exclusive lock. The balance
	// read here is the authoritative one; never trust a balance read
	// before the transaction started.
	LockUser(id uint) (*models.User, error)

	// LockNonce loads the user's nonce row under an exclusive lock,
	// creating a zero-initialized row on the user's first bet.
	LockNonce(userID uint) (*models.NonceSequence, error)

	UpdateBalance(u *models.User) error
	SaveNonce(seq *models.NonceSequence) error
	CreateBet(b *models.Bet) error
	CreateTransaction(t *models.UserTransaction) error
}

// Store is the ledger store handed to the settlement and verification
// services. InTransaction runs fn atomically: either every write fn makes
// is committed, or none are.
type Store interface {
	InTransaction(ctx context.Context, fn func(tx Ledger) error) error

	FindBet(userID uint, betUUID string) (*models.Bet, error)
	BetsByUser(userID uint, limit int) ([]models.Bet, error)
}
