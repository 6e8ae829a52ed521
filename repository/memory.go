package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"fairbet/models"
)

// Memory is an in-memory Store used by service and handler tests. Writes
// are staged per transaction and applied only on commit, mirroring the
// all-or-nothing behavior of the Postgres store; a single mutex stands in
// for the per-user row locks.
type Memory struct {
	mu      sync.Mutex
	users   map[uint]models.User
	nonces  map[uint]models.NonceSequence
	bets    []models.Bet
	journal []models.UserTransaction
	nextID  uint

	// TxHook, when set, runs at the start of every transaction. Tests use
	// it to inject conflicts and store failures.
	TxHook func() error
}

func NewMemory() *Memory {
	return &Memory{
		users:  make(map[uint]models.User),
		nonces: make(map[uint]models.NonceSequence),
		nextID: 1,
	}
}

// Conflict returns an error classified as retryable by IsConflict.
func Conflict() error {
	return fmt.Errorf("%w: could not serialize access due to concurrent update", errConflict)
}

func (m *Memory) AddUser(u models.User) models.User {
	m.mu.Lock()
	defer m.mu.Unlock()

	if u.ID == 0 {
		u.ID = m.nextID
		m.nextID++
	}
	m.users[u.ID] = u

	return u
}

func (m *Memory) User(id uint) (models.User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	return u, ok
}

func (m *Memory) Bets() []models.Bet {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.Bet, len(m.bets))
	copy(out, m.bets)
	return out
}

func (m *Memory) Journal() []models.UserTransaction {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.UserTransaction, len(m.journal))
	copy(out, m.journal)
	return out
}

func (m *Memory) InTransaction(ctx context.Context, fn func(tx Ledger) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.TxHook != nil {
		if err := m.TxHook(); err != nil {
			return err
		}
	}

	tx := &memLedger{
		m:      m,
		users:  make(map[uint]models.User),
		nonces: make(map[uint]models.NonceSequence),
	}
	if err := fn(tx); err != nil {
		return err
	}

	tx.commit()
	return nil
}

func (m *Memory) FindBet(userID uint, betUUID string) (*models.Bet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.bets {
		if m.bets[i].UserID == userID && m.bets[i].UUID == betUUID {
			bet := m.bets[i]
			return &bet, nil
		}
	}

	return nil, ErrNotFound
}

func (m *Memory) BetsByUser(userID uint, limit int) ([]models.Bet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.Bet
	for i := range m.bets {
		if m.bets[i].UserID == userID {
			out = append(out, m.bets[i])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

type memLedger struct {
	m      *Memory
	users  map[uint]models.User
	nonces map[uint]models.NonceSequence
	bets   []models.Bet
	trxs   []models.UserTransaction
}

func (l *memLedger) LockUser(id uint) (*models.User, error) {
	u, ok := l.m.users[id]
	if !ok {
		return nil, ErrNotFound
	}

	l.users[id] = u
	staged := l.users[id]
	return &staged, nil
}

func (l *memLedger) LockNonce(userID uint) (*models.NonceSequence, error) {
	seq, ok := l.m.nonces[userID]
	if !ok {
		seq = models.NonceSequence{UserID: userID, CurrentNonce: 0}
		seq.ID = l.m.nextID
		l.m.nextID++
	}

	l.nonces[userID] = seq
	staged := l.nonces[userID]
	return &staged, nil
}

func (l *memLedger) UpdateBalance(u *models.User) error {
	l.users[u.ID] = *u
	return nil
}

func (l *memLedger) SaveNonce(seq *models.NonceSequence) error {
	l.nonces[seq.UserID] = *seq
	return nil
}

func (l *memLedger) CreateBet(b *models.Bet) error {
	// Mirror the unique (user_id, nonce) index of the real schema.
	for i := range l.m.bets {
		if l.m.bets[i].UserID == b.UserID && l.m.bets[i].Nonce == b.Nonce {
			return fmt.Errorf("duplicate key value violates unique constraint %q", "idx_user_nonce")
		}
	}

	if b.UUID == "" {
		b.UUID = strings.ToLower(uuid.New().String())
	}
	b.ID = l.m.nextID
	l.m.nextID++
	b.CreatedAt = time.Now()

	l.bets = append(l.bets, *b)
	return nil
}

func (l *memLedger) CreateTransaction(t *models.UserTransaction) error {
	t.ID = l.m.nextID
	l.m.nextID++
	t.CreatedAt = time.Now()

	l.trxs = append(l.trxs, *t)
	return nil
}

func (l *memLedger) commit() {
	for id, u := range l.users {
		l.m.users[id] = u
	}
	for id, seq := range l.nonces {
		l.m.nonces[id] = seq
	}
	l.m.bets = append(l.m.bets, l.bets...)
	l.m.journal = append(l.m.journal, l.trxs...)
}
