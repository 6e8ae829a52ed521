package services_test

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fairbet/games"
	"fairbet/models"
	"fairbet/repository"
	"fairbet/services"
)

func newSettlement(store repository.Store) *services.Settlement {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return services.NewSettlement(store, games.DefaultRegistry(), logger)
}

func diceRequest(amount float64) services.BetRequest {
	return services.BetRequest{
		Game:   games.Dice,
		Amount: amount,
		Params: games.Params{BetType: "over", Target: 50},
	}
}

func TestPlaceBetSettles(t *testing.T) {
	store := repository.NewMemory()
	user := store.AddUser(models.User{UserCode: "alice", Balance: 1000, Currency: "USD", IsActive: true})

	s := newSettlement(store)

	result, err := s.PlaceBet(context.Background(), user.ID, services.BetRequest{
		Game:       games.Dice,
		Amount:     100,
		ClientSeed: "my-seed",
		Params:     games.Params{BetType: "over", Target: 50},
	})
	require.NoError(t, err)

	assert.Equal(t, uint64(1), result.Nonce)
	assert.Equal(t, "my-seed", result.ClientSeed)
	assert.Equal(t, 50.0, result.WinChance)
	assert.Equal(t, 1.98, result.Multiplier)
	assert.NotEmpty(t, result.BetUUID)
	assert.Len(t, result.ServerSeed, 64)
	assert.Len(t, result.ServerSeedHash, 64)

	if result.Win {
		assert.Equal(t, 198.0, result.Payout)
		assert.Equal(t, 1098.0, result.NewBalance)
	} else {
		assert.Equal(t, 0.0, result.Payout)
		assert.Equal(t, 900.0, result.NewBalance)
	}

	stored, ok := store.User(user.ID)
	require.True(t, ok)
	assert.Equal(t, result.NewBalance, stored.Balance)

	bets := store.Bets()
	require.Len(t, bets, 1)
	assert.Equal(t, result.BetUUID, bets[0].UUID)
	assert.Equal(t, uint64(1), bets[0].Nonce)
	assert.Equal(t, result.Result, bets[0].Result)
	assert.Equal(t, result.ServerSeed, bets[0].ServerSeed)

	journal := store.Journal()
	if result.Win {
		require.Len(t, journal, 2)
		assert.Equal(t, "payout", journal[1].TrxType)
	} else {
		require.Len(t, journal, 1)
	}
	assert.Equal(t, "bet", journal[0].TrxType)
	assert.Equal(t, result.BetUUID, journal[0].RefID)
}

func TestPlaceBetGeneratesClientSeed(t *testing.T) {
	store := repository.NewMemory()
	user := store.AddUser(models.User{UserCode: "bob", Balance: 100, IsActive: true})

	result, err := newSettlement(store).PlaceBet(context.Background(), user.ID, diceRequest(10))
	require.NoError(t, err)
	assert.NotEmpty(t, result.ClientSeed)
}

func TestPlaceBetNonceAdvances(t *testing.T) {
	store := repository.NewMemory()
	user := store.AddUser(models.User{UserCode: "carol", Balance: 10000, IsActive: true})

	s := newSettlement(store)
	for want := uint64(1); want <= 5; want++ {
		result, err := s.PlaceBet(context.Background(), user.ID, diceRequest(10))
		require.NoError(t, err)
		assert.Equal(t, want, result.Nonce)
	}
}

func TestPlaceBetInsufficientBalance(t *testing.T) {
	store := repository.NewMemory()
	user := store.AddUser(models.User{UserCode: "dave", Balance: 1000, IsActive: true})

	_, err := newSettlement(store).PlaceBet(context.Background(), user.ID, diceRequest(2000))
	assert.ErrorIs(t, err, services.ErrInsufficientBalance)

	// Rejection leaves no trace: balance, bets and journal untouched.
	stored, _ := store.User(user.ID)
	assert.Equal(t, 1000.0, stored.Balance)
	assert.Empty(t, store.Bets())
	assert.Empty(t, store.Journal())
}

func TestPlaceBetValidationBeforeTransaction(t *testing.T) {
	store := repository.NewMemory()
	user := store.AddUser(models.User{UserCode: "erin", Balance: 1000, IsActive: true})

	txCount := 0
	store.TxHook = func() error {
		txCount++
		return nil
	}

	s := newSettlement(store)
	ctx := context.Background()

	tests := []struct {
		name string
		req  services.BetRequest
	}{
		{"unknown game", services.BetRequest{Game: "roulette", Amount: 10}},
		{"zero amount", services.BetRequest{Game: games.Dice, Amount: 0, Params: games.Params{BetType: "over", Target: 50}}},
		{"negative amount", services.BetRequest{Game: games.Dice, Amount: -5, Params: games.Params{BetType: "over", Target: 50}}},
		{"sub-cent amount", services.BetRequest{Game: games.Dice, Amount: 1.001, Params: games.Params{BetType: "over", Target: 50}}},
		{"bad target", services.BetRequest{Game: games.Dice, Amount: 10, Params: games.Params{BetType: "over", Target: 100}}},
		{"bad side", services.BetRequest{Game: games.Flip, Amount: 10, Params: games.Params{Side: "heads"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.PlaceBet(ctx, user.ID, tt.req)
			require.Error(t, err)
			assert.True(t, services.IsValidation(err), "expected validation error, got %v", err)
		})
	}

	assert.Zero(t, txCount, "validation failures must not open a transaction")
}

func TestPlaceBetUserNotFound(t *testing.T) {
	store := repository.NewMemory()

	_, err := newSettlement(store).PlaceBet(context.Background(), 42, diceRequest(10))
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPlaceBetRetriesConflicts(t *testing.T) {
	store := repository.NewMemory()
	user := store.AddUser(models.User{UserCode: "frank", Balance: 1000, IsActive: true})

	attempts := 0
	store.TxHook = func() error {
		attempts++
		if attempts <= 2 {
			return repository.Conflict()
		}
		return nil
	}

	result, err := newSettlement(store).PlaceBet(context.Background(), user.ID, diceRequest(10))
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, uint64(1), result.Nonce)
}

func TestPlaceBetConflictExhaustion(t *testing.T) {
	store := repository.NewMemory()
	user := store.AddUser(models.User{UserCode: "grace", Balance: 1000, IsActive: true})

	attempts := 0
	store.TxHook = func() error {
		attempts++
		return repository.Conflict()
	}

	_, err := newSettlement(store).PlaceBet(context.Background(), user.ID, diceRequest(10))
	assert.ErrorIs(t, err, services.ErrConflict)
	assert.Equal(t, 3, attempts)
	assert.Empty(t, store.Bets())
}

func TestConcurrentBetsNoOverdraft(t *testing.T) {
	store := repository.NewMemory()
	user := store.AddUser(models.User{UserCode: "heidi", Balance: 100, IsActive: true})

	s := newSettlement(store)

	const workers = 20
	const amount = 30.0

	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.PlaceBet(context.Background(), user.ID, diceRequest(amount))
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, services.ErrInsufficientBalance)
		}
	}

	// Final balance must equal initial - wagers + payouts of committed
	// bets, and can never have gone negative.
	bets := store.Bets()
	expected := 100.0
	for _, b := range bets {
		assert.Equal(t, amount, b.Amount)
		expected += b.Payout - b.Amount
	}

	stored, _ := store.User(user.ID)
	assert.InDelta(t, expected, stored.Balance, 1e-6)
	assert.GreaterOrEqual(t, stored.Balance, 0.0)

	// Committed nonces form a contiguous run starting at 1.
	nonces := make([]uint64, 0, len(bets))
	for _, b := range bets {
		nonces = append(nonces, b.Nonce)
	}
	sort.Slice(nonces, func(i, j int) bool { return nonces[i] < nonces[j] })
	for i, n := range nonces {
		assert.Equal(t, uint64(i+1), n)
	}
}

func TestPlaceBetCancelledContext(t *testing.T) {
	store := repository.NewMemory()
	user := store.AddUser(models.User{UserCode: "ivan", Balance: 1000, IsActive: true})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newSettlement(store).PlaceBet(ctx, user.ID, diceRequest(10))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, store.Bets())
}
