package games

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

type Type string

const (
	Dice Type = "dice"
	Flip Type = "flip"
)

// HouseEdge is the percentage kept out of a fair multiplier.
const HouseEdge = 1.0

// Accepted win-chance window. Bets outside it are rejected before any
// state is touched, which bounds the maximum multiplier.
const (
	MinWinChance = 1.0
	MaxWinChance = 98.0
)

var (
	ErrUnknownGame   = errors.New("unknown game")
	ErrInvalidParams = errors.New("invalid game parameters")
)

// Params carries the game-specific part of a bet request. Which fields
// matter depends on the game; the whole struct is recorded verbatim on
// the bet for verification and history.
type Params struct {
	BetType string  `json:"bet_type,omitempty"`
	Target  float64 `json:"target,omitempty"`
	Side    string  `json:"side,omitempty"`
}

// Result is what a game variant makes of a fairness outcome.
type Result struct {
	Win        bool
	WinChance  float64
	Multiplier float64
	Payout     float64
	Fields     map[string]any
}

// Game is one closed variant of bet settlement. Validate runs before any
// transaction is opened; Play is pure and must be deterministic in
// (params, amount, outcome) so that settlement and verification agree.
type Game interface {
	Type() Type
	Validate(p Params) error
	Play(p Params, amount, outcome float64) Result
}

type Registry struct {
	games map[Type]Game
}

func NewRegistry(gs ...Game) *Registry {
	r := &Registry{games: make(map[Type]Game, len(gs))}
	for _, g := range gs {
		r.games[g.Type()] = g
	}
	return r
}

// DefaultRegistry holds every game the platform offers. Adding a game
// means adding a variant here, not touching the settlement flow.
func DefaultRegistry() *Registry {
	return NewRegistry(NewDice(), NewFlip())
}

func (r *Registry) Get(t Type) (Game, error) {
	g, ok := r.games[t]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGame, t)
	}
	return g, nil
}

// settle turns a win chance into multiplier and payout. The multiplier is
// (100 - edge) / winChance; payout rounds to 2 decimals, losses pay zero.
func settle(winChance, amount float64, win bool) (multiplier, payout float64) {
	mult := decimal.NewFromFloat(100 - HouseEdge).Div(decimal.NewFromFloat(winChance))

	multiplier, _ = mult.Round(4).Float64()
	if !win {
		return multiplier, 0
	}

	payout, _ = decimal.NewFromFloat(amount).Mul(mult).Round(2).Float64()

	return multiplier, payout
}
