package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"fairbet/fair"
	"fairbet/games"
	"fairbet/lib/logger/sl"
	"fairbet/models"
	"fairbet/repository"
)

const (
	defaultMaxAttempts = 3
	defaultBackoff     = 25 * time.Millisecond
)

type BetRequest struct {
	Game       games.Type
	Amount     float64
	ClientSeed string
	Params     games.Params
}

type BetResult struct {
	BetUUID        string         `json:"bet_id"`
	Game           games.Type     `json:"game"`
	Amount         float64        `json:"amount"`
	Win            bool           `json:"win"`
	Payout         float64        `json:"payout"`
	Multiplier     float64        `json:"multiplier"`
	WinChance      float64        `json:"win_chance"`
	Result         float64        `json:"result"`
	NewBalance     float64        `json:"new_balance"`
	ServerSeed     string         `json:"server_seed"`
	ServerSeedHash string         `json:"server_seed_hash"`
	ClientSeed     string         `json:"client_seed"`
	Nonce          uint64         `json:"nonce"`
	Fields         map[string]any `json:"fields"`
}

// Settlement settles bets: one atomic unit per bet that advances the
// nonce, re-checks the balance under lock, derives the outcome and
// persists the immutable record. Retries the whole unit on serialization
// conflicts, never on business rejections.
type Settlement struct {
	store       repository.Store
	games       *games.Registry
	log         *slog.Logger
	maxAttempts int
	backoff     time.Duration
}

func NewSettlement(store repository.Store, registry *games.Registry, log *slog.Logger) *Settlement {
	return &Settlement{
		store:       store,
		games:       registry,
		log:         log,
		maxAttempts: defaultMaxAttempts,
		backoff:     defaultBackoff,
	}
}

func (s *Settlement) PlaceBet(ctx context.Context, userID uint, req BetRequest) (*BetResult, error) {
	const op = "services.Settlement.PlaceBet"

	game, err := s.games.Get(req.Game)
	if err != nil {
		return nil, err
	}
	if err := validateAmount(req.Amount); err != nil {
		return nil, err
	}
	if err := game.Validate(req.Params); err != nil {
		return nil, err
	}

	req.ClientSeed = strings.TrimSpace(req.ClientSeed)
	if req.ClientSeed == "" {
		req.ClientSeed = fair.NewClientSeed()
	}
	if len(req.ClientSeed) > 64 {
		return nil, fmt.Errorf("%w: client seed longer than 64 characters", ErrValidation)
	}

	log := s.log.With(slog.String("op", op), slog.Any("user_id", userID))

	var lastErr error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		result, err := s.settleOnce(ctx, userID, req, game)
		if err == nil {
			log.Info("bet settled",
				sl.String("bet", result.BetUUID),
				slog.Bool("win", result.Win),
				slog.Float64("payout", result.Payout))
			return result, nil
		}
		if !repository.IsConflict(err) {
			return nil, err
		}

		lastErr = err
		log.Warn("settlement conflict, retrying", slog.Int("attempt", attempt), sl.Err(err))

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.backoff * time.Duration(attempt)):
		}
	}

	log.Error("settlement retries exhausted", sl.Err(lastErr))
	return nil, fmt.Errorf("%w: %v", ErrConflict, lastErr)
}

// settleOnce is one all-or-nothing attempt. Every read and write happens
// inside the same transaction; the user row lock serializes concurrent
// bets from the same user.
func (s *Settlement) settleOnce(ctx context.Context, userID uint, req BetRequest, game games.Game) (*BetResult, error) {
	var result BetResult

	err := s.store.InTransaction(ctx, func(tx repository.Ledger) error {
		user, err := tx.LockUser(userID)
		if err != nil {
			return err
		}
		if user.Balance < req.Amount {
			return ErrInsufficientBalance
		}

		seq, err := tx.LockNonce(userID)
		if err != nil {
			return err
		}
		nonce := seq.CurrentNonce + 1

		serverSeed := fair.NewServerSeed()
		serverSeedHash := fair.HashSeed(serverSeed)
		outcome := fair.Outcome(serverSeed, req.ClientSeed, nonce)

		played := game.Play(req.Params, req.Amount, outcome)

		balanceBefore := user.Balance
		newBalance, _ := decimal.NewFromFloat(balanceBefore).
			Sub(decimal.NewFromFloat(req.Amount)).
			Add(decimal.NewFromFloat(played.Payout)).
			Round(2).
			Float64()

		user.Balance = newBalance
		if err := tx.UpdateBalance(user); err != nil {
			return err
		}

		seq.CurrentNonce = nonce
		if err := tx.SaveNonce(seq); err != nil {
			return err
		}

		params, err := json.Marshal(req.Params)
		if err != nil {
			return err
		}

		bet := models.Bet{
			UUID:           strings.ToLower(uuid.New().String()),
			UserID:         user.ID,
			UserCode:       user.UserCode,
			Game:           string(req.Game),
			Amount:         req.Amount,
			Multiplier:     played.Multiplier,
			Win:            played.Win,
			Payout:         played.Payout,
			Params:         datatypes.JSON(params),
			ServerSeed:     serverSeed,
			ServerSeedHash: serverSeedHash,
			ClientSeed:     req.ClientSeed,
			Nonce:          nonce,
			Result:         outcome,
		}
		if err := tx.CreateBet(&bet); err != nil {
			return err
		}

		if err := tx.CreateTransaction(&models.UserTransaction{
			UserID:        user.ID,
			UserCode:      user.UserCode,
			TrxType:       "bet",
			Amount:        req.Amount,
			BalanceBefore: balanceBefore,
			BalanceAfter:  newBalance,
			Currency:      user.Currency,
			Note:          fmt.Sprintf("%s bet, nonce %d", req.Game, nonce),
			RefID:         bet.UUID,
		}); err != nil {
			return err
		}
		if played.Payout > 0 {
			if err := tx.CreateTransaction(&models.UserTransaction{
				UserID:        user.ID,
				UserCode:      user.UserCode,
				TrxType:       "payout",
				Amount:        played.Payout,
				BalanceBefore: balanceBefore,
				BalanceAfter:  newBalance,
				Currency:      user.Currency,
				Note:          fmt.Sprintf("%s payout x%.4f", req.Game, played.Multiplier),
				RefID:         bet.UUID,
			}); err != nil {
				return err
			}
		}

		result = BetResult{
			BetUUID:        bet.UUID,
			Game:           req.Game,
			Amount:         req.Amount,
			Win:            played.Win,
			Payout:         played.Payout,
			Multiplier:     played.Multiplier,
			WinChance:      played.WinChance,
			Result:         outcome,
			NewBalance:     newBalance,
			ServerSeed:     serverSeed,
			ServerSeedHash: serverSeedHash,
			ClientSeed:     req.ClientSeed,
			Nonce:          nonce,
			Fields:         played.Fields,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func validateAmount(amount float64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrValidation)
	}

	d := decimal.NewFromFloat(amount)
	if !d.Equal(d.Round(2)) {
		return fmt.Errorf("%w: amount precision is limited to 2 decimals", ErrValidation)
	}

	return nil
}
