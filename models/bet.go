package models

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Bet is the immutable settlement record. Rows are only ever inserted,
// inside the same transaction that moves the balance and advances the
// nonce; nothing updates or deletes them afterwards.
type Bet struct {
	gorm.Model

	UUID     string `gorm:"size:36;uniqueIndex;not null" json:"uuid"`
	UserID   uint   `gorm:"index:idx_user_nonce,unique" json:"-"`
	UserCode string `gorm:"size:32;index" json:"user_code"`

	Game       string         `gorm:"size:16;index" json:"game"`
	Amount     float64        `json:"amount"`
	Multiplier float64        `json:"multiplier"`
	Win        bool           `json:"win"`
	Payout     float64        `json:"payout"`
	Params     datatypes.JSON `json:"params"`

	ServerSeed     string  `gorm:"size:64" json:"server_seed"`
	ServerSeedHash string  `gorm:"size:64" json:"server_seed_hash"`
	ClientSeed     string  `gorm:"size:64" json:"client_seed"`
	Nonce          uint64  `gorm:"index:idx_user_nonce,unique" json:"nonce"`
	Result         float64 `json:"result"`
}

func (b *Bet) BeforeCreate(tx *gorm.DB) (err error) {
	if b.UUID == "" {
		b.UUID = strings.ToLower(uuid.New().String())
	}
	return nil
}
