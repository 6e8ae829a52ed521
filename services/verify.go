package services

import (
	"math"

	"fairbet/fair"
	"fairbet/models"
	"fairbet/repository"
)

type Verification struct {
	SeedHashValid    bool    `json:"seed_hash_valid"`
	RecomputedResult float64 `json:"recomputed_result"`
	MatchesStored    bool    `json:"matches_stored"`
}

// Verifier recomputes historical outcomes from the disclosed seed tuple
// so players can audit their bets. Read-only and idempotent.
type Verifier struct {
	store repository.Store
}

func NewVerifier(store repository.Store) *Verifier {
	return &Verifier{store: store}
}

// Verify checks the seed commitment and re-derives the outcome. The
// outcome comparison happens in integer hundredths, so it is exact: a
// mismatch means the stored record is wrong, never a rounding artifact.
func (v *Verifier) Verify(bet *models.Bet) Verification {
	points := fair.OutcomePoints(bet.ServerSeed, bet.ClientSeed, bet.Nonce)
	storedPoints := uint32(math.Round(bet.Result * 100))

	return Verification{
		SeedHashValid:    fair.HashSeed(bet.ServerSeed) == bet.ServerSeedHash,
		RecomputedResult: float64(points) / 100,
		MatchesStored:    points == storedPoints,
	}
}

// VerifyBet loads one of the caller's own bets and verifies it. Ownership
// is part of the lookup: another user's bet UUID behaves like a missing
// record.
func (v *Verifier) VerifyBet(userID uint, betUUID string) (*models.Bet, Verification, error) {
	bet, err := v.store.FindBet(userID, betUUID)
	if err != nil {
		return nil, Verification{}, err
	}

	return bet, v.Verify(bet), nil
}
