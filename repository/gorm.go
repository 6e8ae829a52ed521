package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fairbet/models"
)

// Gorm is the Postgres-backed ledger store. Per-user mutual exclusion
// comes from SELECT ... FOR UPDATE on the users and nonce_sequences rows;
// there is no process-wide lock, so different users never contend.
type Gorm struct {
	db *gorm.DB
}

func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

func (s *Gorm) InTransaction(ctx context.Context, fn func(tx Ledger) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(gormLedger{tx: tx})
	})
}

func (s *Gorm) FindBet(userID uint, betUUID string) (*models.Bet, error) {
	const op = "repository.Gorm.FindBet"

	var bet models.Bet
	err := s.db.Where("user_id = ? AND uuid = ?", userID, betUUID).First(&bet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &bet, nil
}

func (s *Gorm) BetsByUser(userID uint, limit int) ([]models.Bet, error) {
	const op = "repository.Gorm.BetsByUser"

	var bets []models.Bet
	err := s.db.Where("user_id = ?", userID).
		Order("id DESC").
		Limit(limit).
		Find(&bets).Error
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return bets, nil
}

type gormLedger struct {
	tx *gorm.DB
}

func (l gormLedger) LockUser(id uint) (*models.User, error) {
	var user models.User
	err := l.tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (l gormLedger) LockNonce(userID uint) (*models.NonceSequence, error) {
	var seq models.NonceSequence
	err := l.tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&seq).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// First bet for this user. The caller already holds the user row
		// lock, so two settlements cannot race to create the sequence.
		seq = models.NonceSequence{UserID: userID, CurrentNonce: 0}
		if err := l.tx.Create(&seq).Error; err != nil {
			return nil, err
		}
		return &seq, nil
	}
	if err != nil {
		return nil, err
	}

	return &seq, nil
}

func (l gormLedger) UpdateBalance(u *models.User) error {
	return l.tx.Model(u).Update("balance", u.Balance).Error
}

func (l gormLedger) SaveNonce(seq *models.NonceSequence) error {
	return l.tx.Model(seq).Update("current_nonce", seq.CurrentNonce).Error
}

func (l gormLedger) CreateBet(b *models.Bet) error {
	return l.tx.Create(b).Error
}

func (l gormLedger) CreateTransaction(t *models.UserTransaction) error {
	return l.tx.Create(t).Error
}

// IsConflict reports whether err is a transaction serialization failure
// or deadlock, i.e. safe to retry the whole unit of work. Matches the
// Postgres SQLSTATEs 40001 and 40P01 as reported through the driver, plus
// the memory store's injected conflicts.
func IsConflict(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, errConflict) {
		return true
	}

	msg := err.Error()
	return strings.Contains(msg, "40001") ||
		strings.Contains(msg, "40P01") ||
		strings.Contains(msg, "could not serialize access") ||
		strings.Contains(msg, "deadlock detected")
}
