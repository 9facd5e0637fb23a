package persistence

import (
	"time"
)

// SavedGameModel represents the saved_games table
type SavedGameModel struct {
	ID        string    `gorm:"column:id;primaryKey"`
	SessionID string    `gorm:"column:session_id;not null;index:idx_saved_games_session_tick,priority:1"`
	Tick      int64     `gorm:"column:tick;not null;index:idx_saved_games_session_tick,priority:2"`
	Payload   []byte    `gorm:"column:payload;not null"` // YAML save document
	CreatedAt time.Time `gorm:"column:created_at;not null"`
}

func (SavedGameModel) TableName() string {
	return "saved_games"
}

// TransactionModel represents the ledger_transactions table
type TransactionModel struct {
	ID            string    `gorm:"column:id;primaryKey"`
	SessionID     string    `gorm:"column:session_id;primaryKey"`
	PlayerID      int       `gorm:"column:player_id;not null;index:idx_ledger_player_tick,priority:1"`
	Tick          int64     `gorm:"column:tick;not null;index:idx_ledger_player_tick,priority:2"`
	Sequence      int64     `gorm:"column:sequence;not null"`
	Kind          string    `gorm:"column:kind;not null"`
	Category      string    `gorm:"column:category;not null"`
	Amount        int       `gorm:"column:amount;not null"`
	BalanceBefore int       `gorm:"column:balance_before;not null"`
	BalanceAfter  int       `gorm:"column:balance_after;not null"`
	Description   string    `gorm:"column:description"`
	RecordedAt    time.Time `gorm:"column:recorded_at;not null;autoCreateTime"`
}

func (TransactionModel) TableName() string {
	return "ledger_transactions"
}
