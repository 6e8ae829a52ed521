package services

import (
	"errors"

	"fairbet/games"
)

// ErrInsufficientBalance is returned when the locked balance cannot cover
// the wager. The transaction is rolled back with no mutation and no bet
// record.
var ErrInsufficientBalance = errors.New("insufficient balance")

// ErrValidation marks bad requests caught before any transaction opens.
var ErrValidation = errors.New("invalid bet request")

// ErrConflict is returned once the bounded retries for transaction
// serialization failures are exhausted.
var ErrConflict = errors.New("settlement conflicted too many times")

// IsValidation reports whether err is a pre-transaction rejection, i.e. a
// caller mistake rather than a platform fault.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, games.ErrInvalidParams) ||
		errors.Is(err, games.ErrUnknownGame)
}
