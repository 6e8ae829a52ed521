package games

import (
	"fmt"
)

const (
	BetOver  = "over"
	BetUnder = "under"
)

// dice pays on a roll strictly above (over) or strictly below (under) the
// chosen target.
type dice struct{}

func NewDice() Game { return dice{} }

func (dice) Type() Type { return Dice }

func (dice) Validate(p Params) error {
	if p.BetType != BetOver && p.BetType != BetUnder {
		return fmt.Errorf("%w: bet_type must be %q or %q", ErrInvalidParams, BetOver, BetUnder)
	}
	if p.Target < 0.01 || p.Target > 99.99 {
		return fmt.Errorf("%w: target must be between 0.01 and 99.99", ErrInvalidParams)
	}

	chance := diceWinChance(p)
	if chance < MinWinChance || chance > MaxWinChance {
		return fmt.Errorf("%w: win chance %.2f outside [%.0f, %.0f]",
			ErrInvalidParams, chance, MinWinChance, MaxWinChance)
	}

	return nil
}

func (dice) Play(p Params, amount, outcome float64) Result {
	win := false
	switch p.BetType {
	case BetOver:
		win = outcome > p.Target
	case BetUnder:
		win = outcome < p.Target
	}

	chance := diceWinChance(p)
	multiplier, payout := settle(chance, amount, win)

	return Result{
		Win:        win,
		WinChance:  chance,
		Multiplier: multiplier,
		Payout:     payout,
		Fields: map[string]any{
			"bet_type": p.BetType,
			"target":   p.Target,
			"roll":     outcome,
		},
	}
}

func diceWinChance(p Params) float64 {
	if p.BetType == BetOver {
		return 100 - p.Target
	}
	return p.Target
}
