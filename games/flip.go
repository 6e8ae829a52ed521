package games

import (
	"fmt"
)

const (
	SideCat = "cat"
	SideDog = "dog"
)

// FlipWinChance is fixed: both sides are an even split of the outcome
// space, minus nothing — the operator take lives in the multiplier.
const FlipWinChance = 49.5

// flip maps outcomes below 50 to cat and the rest to dog. That mapping is
// canonical; clients must render it the same way.
type flip struct{}

func NewFlip() Game { return flip{} }

func (flip) Type() Type { return Flip }

func (flip) Validate(p Params) error {
	if p.Side != SideCat && p.Side != SideDog {
		return fmt.Errorf("%w: side must be %q or %q", ErrInvalidParams, SideCat, SideDog)
	}
	return nil
}

func (flip) Play(p Params, amount, outcome float64) Result {
	landed := SideDog
	if outcome < 50 {
		landed = SideCat
	}

	win := landed == p.Side
	multiplier, payout := settle(FlipWinChance, amount, win)

	return Result{
		Win:        win,
		WinChance:  FlipWinChance,
		Multiplier: multiplier,
		Payout:     payout,
		Fields: map[string]any{
			"side":   p.Side,
			"landed": landed,
		},
	}
}
