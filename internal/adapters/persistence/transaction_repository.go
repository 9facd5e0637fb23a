package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/skirmish-go/internal/domain/resource"
	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
)

// GormTransactionRepository implements resource.TransactionRepository using GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GORM transaction repository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// CreateBatch persists drained journal entries in one statement
func (r *GormTransactionRepository) CreateBatch(ctx context.Context, sessionID string, transactions []*resource.Transaction) error {
	if len(transactions) == 0 {
		return nil
	}

	models := make([]TransactionModel, len(transactions))
	for i, tx := range transactions {
		models[i] = r.transactionToModel(sessionID, tx)
	}

	result := r.db.WithContext(ctx).Create(&models)
	if result.Error != nil {
		return fmt.Errorf("failed to create transactions: %w", result.Error)
	}

	return nil
}

// FindByPlayer retrieves transactions for a player with optional filtering,
// in journal order
func (r *GormTransactionRepository) FindByPlayer(ctx context.Context, sessionID string, playerID shared.PlayerID, opts resource.QueryOptions) ([]*resource.Transaction, error) {
	query := r.db.WithContext(ctx).Where("session_id = ? AND player_id = ?", sessionID, playerID.Value())

	// Apply filters
	query = r.applyFilters(query, opts)
	query = query.Order("tick ASC").Order("sequence ASC")

	// Apply pagination
	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		query = query.Offset(opts.Offset)
	}

	var models []TransactionModel
	result := query.Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find transactions: %w", result.Error)
	}

	transactions := make([]*resource.Transaction, len(models))
	for i := range models {
		tx, err := r.modelToTransaction(&models[i])
		if err != nil {
			return nil, fmt.Errorf("failed to convert transaction model: %w", err)
		}
		transactions[i] = tx
	}

	return transactions, nil
}

// applyFilters applies query options to a GORM query
func (r *GormTransactionRepository) applyFilters(query *gorm.DB, opts resource.QueryOptions) *gorm.DB {
	if opts.Category != nil {
		query = query.Where("category = ?", opts.Category.String())
	}
	if opts.Kind != nil {
		query = query.Where("kind = ?", opts.Kind.String())
	}

	// Tick range filtering
	if opts.FromTick != nil {
		query = query.Where("tick >= ?", *opts.FromTick)
	}
	if opts.ToTick != nil {
		query = query.Where("tick <= ?", *opts.ToTick)
	}

	return query
}

// modelToTransaction converts database model to domain entity
func (r *GormTransactionRepository) modelToTransaction(model *TransactionModel) (*resource.Transaction, error) {
	playerID, err := shared.NewPlayerID(model.PlayerID)
	if err != nil {
		return nil, fmt.Errorf("invalid player ID in database: %w", err)
	}

	kind, err := resource.ParseKind(model.Kind)
	if err != nil {
		return nil, fmt.Errorf("invalid resource kind in database: %w", err)
	}

	category, err := resource.ParseCategory(model.Category)
	if err != nil {
		return nil, fmt.Errorf("invalid category in database: %w", err)
	}

	return resource.ReconstructTransaction(
		playerID,
		model.Tick,
		model.Sequence,
		kind,
		category,
		model.Amount,
		model.BalanceBefore,
		model.BalanceAfter,
		model.Description,
	), nil
}

// transactionToModel converts domain entity to database model
func (r *GormTransactionRepository) transactionToModel(sessionID string, tx *resource.Transaction) TransactionModel {
	return TransactionModel{
		ID:            tx.ID(),
		SessionID:     sessionID,
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
