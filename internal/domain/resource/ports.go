package resource

import (
	"context"

	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
)

// TransactionRepository defines persistence operations for journaled transactions
type TransactionRepository interface {
	// CreateBatch persists transactions drained from ledgers, stamped with a session
	CreateBatch(ctx context.Context, sessionID string, transactions []*Transaction) error

	// FindByPlayer retrieves transactions for a player with optional filtering
	FindByPlayer(ctx context.Context, sessionID string, playerID shared.PlayerID, opts QueryOptions) ([]*Transaction, error)
}

// QueryOptions defines filtering and pagination options for transaction queries
type QueryOptions struct {
	Category *Category
	Kind     *Kind

	// Tick range filtering (inclusive)
	FromTick *int64
	ToTick   *int64

	Limit  int
	Offset int
}

// DefaultQueryOptions returns default query options
func DefaultQueryOptions() QueryOptions {
	return QueryOptions{Limit: 50}
}
