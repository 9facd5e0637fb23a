package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/skirmish-go/internal/application/common"
	"github.com/andrescamacho/skirmish-go/internal/domain/resource"
	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
)

// GetTransactionsQuery represents a query to retrieve journaled transactions
// of one player in one session
type GetTransactionsQuery struct {
	SessionID string
	PlayerID  int
	Category  *string
	Kind      *string
	FromTick  *int64
	ToTick    *int64
	Limit     int
	Offset    int
}

// GetTransactionsResponse represents the result of the query
type GetTransactionsResponse struct {
	Transactions []*TransactionDTO
}

// TransactionDTO represents a transaction data transfer object
type TransactionDTO struct {
	ID            string
	PlayerID      int
	Tick          int64
	Sequence      int64
	Kind          string
	Category      string
	Amount        int
	BalanceBefore int
	BalanceAfter  int
	Description   string
}

// GetTransactionsHandler handles the GetTransactions query
type GetTransactionsHandler struct {
	transactionRepo resource.TransactionRepository
}

// NewGetTransactionsHandler creates a new GetTransactionsHandler
func NewGetTransactionsHandler(transactionRepo resource.TransactionRepository) *GetTransactionsHandler {
	return &GetTransactionsHandler{
		transactionRepo: transactionRepo,
	}
}

// Handle executes the GetTransactions query
func (h *GetTransactionsHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*GetTransactionsQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetTransactionsQuery")
	}
	if query.SessionID == "" {
		return nil, fmt.Errorf("session id is required")
	}

	playerID, err := shared.NewPlayerID(query.PlayerID)
	if err != nil {
		return nil, fmt.Errorf("invalid player ID: %w", err)
	}

	opts, err := buildQueryOptions(query)
	if err != nil {
		return nil, err
	}

	transactions, err := h.transactionRepo.FindByPlayer(ctx, query.SessionID, playerID, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}

	dtos := make([]*TransactionDTO, len(transactions))
	for i, tx := range transactions {
		dtos[i] = toDTO(tx)
	}

	return &GetTransactionsResponse{Transactions: dtos}, nil
}

func buildQueryOptions(query *GetTransactionsQuery) (resource.QueryOptions, error) {
	opts := resource.DefaultQueryOptions()

	if query.Category != nil {
		category, err := resource.ParseCategory(*query.Category)
		if err != nil {
			return opts, fmt.Errorf("invalid category: %w", err)
		}
		opts.Category = &category
	}

	if query.Kind != nil {
		kind, err := resource.ParseKind(*query.Kind)
		if err != nil {
			return opts, fmt.Errorf("invalid kind: %w", err)
		}
		opts.Kind = &kind
	}

	// Tick range
	if query.FromTick != nil && query.ToTick != nil && *query.FromTick > *query.ToTick {
		return opts, fmt.Errorf("from tick %d is after to tick %d", *query.FromTick, *query.ToTick)
	}
	opts.FromTick = query.FromTick
	opts.ToTick = query.ToTick

	// Pagination
	if query.Limit > 0 {
		opts.Limit = query.Limit
	}
	opts.Offset = query.Offset

	return opts, nil
}

func toDTO(tx *resource.Transaction) *TransactionDTO {
	return &TransactionDTO{
		ID:            tx.ID(),
		PlayerID:      tx.PlayerID().Value(),
		Tick:          tx.Tick(),
		Sequence:      tx.Sequence(),
		Kind:          tx.Kind().String(),
		Category:      tx.Category().String(),
		Amount:        tx.Amount(),
		BalanceBefore: tx.BalanceBefore(),
		BalanceAfter:  tx.BalanceAfter(),
		Description:   tx.Description(),
	}
}
