package queries

import (
	"context"
	"fmt"
	"sort"

	"github.com/andrescamacho/skirmish-go/internal/application/common"
	"github.com/andrescamacho/skirmish-go/internal/domain/resource"
	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
)

// GetResourceFlowQuery represents a query to summarize resource movements
// of one player per category and kind
type GetResourceFlowQuery struct {
	SessionID string
	PlayerID  int
	FromTick  *int64
	ToTick    *int64
}

// GetResourceFlowResponse represents the flow statement result
type GetResourceFlowResponse struct {
	Flows []*ResourceFlow
	// Spent totals the outflow of every kind
	Spent resource.Costs
}

// ResourceFlow represents the movements of one kind within one category
type ResourceFlow struct {
	Category     string
	Kind         string
	TotalInflow  int
	TotalOutflow int
	NetFlow      int
	Transactions int // count
}

// GetResourceFlowHandler handles the GetResourceFlow query
type GetResourceFlowHandler struct {
	transactionRepo resource.TransactionRepository
}

// NewGetResourceFlowHandler creates a new GetResourceFlowHandler
func NewGetResourceFlowHandler(transactionRepo resource.TransactionRepository) *GetResourceFlowHandler {
	return &GetResourceFlowHandler{
		transactionRepo: transactionRepo,
	}
}

// Handle executes the GetResourceFlow query
func (h *GetResourceFlowHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*GetResourceFlowQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetResourceFlowQuery")
	}

	playerID, err := shared.NewPlayerID(query.PlayerID)
	if err != nil {
		return nil, fmt.Errorf("invalid player ID: %w", err)
	}
	if query.FromTick != nil && query.ToTick != nil && *query.FromTick > *query.ToTick {
		return nil, fmt.Errorf("from tick %d is after to tick %d", *query.FromTick, *query.ToTick)
	}

	opts := resource.QueryOptions{
		FromTick: query.FromTick,
		ToTick:   query.ToTick,
		Limit:    0, // No limit - get all transactions
	}

	transactions, err := h.transactionRepo.FindByPlayer(ctx, query.SessionID, playerID, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}

	return calculateResourceFlow(transactions), nil
}

type flowKey struct {
	category resource.Category
	kind     resource.Kind
}

func calculateResourceFlow(transactions []*resource.Transaction) *GetResourceFlowResponse {
	response := &GetResourceFlowResponse{}
	flows := make(map[flowKey]*ResourceFlow)

	for _, tx := range transactions {
		key := flowKey{category: tx.Category(), kind: tx.Kind()}
		flow, ok := flows[key]
		if !ok {
			flow = &ResourceFlow{Category: key.category.String(), Kind: key.kind.String()}
			flows[key] = flow
		}
		flow.Transactions++

		amount := tx.Amount()
		if amount > 0 {
			flow.TotalInflow += amount
		} else {
			flow.TotalOutflow += -amount // Store as positive value
			response.Spent[key.kind] += -amount
		}
		flow.NetFlow = flow.TotalInflow - flow.TotalOutflow
	}

	keys := make([]flowKey, 0, len(flows))
	for key := range flows {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].category != keys[j].category {
			return keys[i].category < keys[j].category
		}
		return keys[i].kind < keys[j].kind
	})

	response.Flows = make([]*ResourceFlow, len(keys))
	for i, key := range keys {
		response.Flows[i] = flows[key]
	}
	return response
}
