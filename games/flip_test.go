package games_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fairbet/games"
)

func TestFlipValidate(t *testing.T) {
	g := games.NewFlip()

	assert.NoError(t, g.Validate(games.Params{Side: "cat"}))
	assert.NoError(t, g.Validate(games.Params{Side: "dog"}))
	assert.ErrorIs(t, g.Validate(games.Params{}), games.ErrInvalidParams)
	assert.ErrorIs(t, g.Validate(games.Params{Side: "heads"}), games.ErrInvalidParams)
}

func TestFlipPlay(t *testing.T) {
	g := games.NewFlip()

	// Fixed 49.5% chance, multiplier 99/49.5 = 2.0 exactly.
	win := g.Play(games.Params{Side: "cat"}, 50, 10.00)
	assert.True(t, win.Win)
	assert.Equal(t, 49.5, win.WinChance)
	assert.Equal(t, 2.0, win.Multiplier)
	assert.Equal(t, 100.0, win.Payout)
	assert.Equal(t, "cat", win.Fields["landed"])

	loss := g.Play(games.Params{Side: "dog"}, 50, 10.00)
	assert.False(t, loss.Win)
	assert.Equal(t, 0.0, loss.Payout)
}

func TestFlipMappingBoundary(t *testing.T) {
	g := games.NewFlip()

	// Canonical mapping: outcomes below 50 land cat, 50 and above land dog.
	assert.Equal(t, "cat", g.Play(games.Params{Side: "cat"}, 1, 49.99).Fields["landed"])
	assert.Equal(t, "dog", g.Play(games.Params{Side: "cat"}, 1, 50.00).Fields["landed"])
	assert.Equal(t, "cat", g.Play(games.Params{Side: "dog"}, 1, 0.00).Fields["landed"])
	assert.Equal(t, "dog", g.Play(games.Params{Side: "dog"}, 1, 99.99).Fields["landed"])
}

func TestRegistry(t *testing.T) {
	r := games.DefaultRegistry()

	dice, err := r.Get(games.Dice)
	assert.NoError(t, err)
	assert.Equal(t, games.Dice, dice.Type())

	flip, err := r.Get(games.Flip)
	assert.NoError(t, err)
	assert.Equal(t, games.Flip, flip.Type())

	_, err = r.Get("roulette")
	assert.ErrorIs(t, err, games.ErrUnknownGame)
}
