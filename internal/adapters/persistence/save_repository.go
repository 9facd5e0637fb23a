package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/andrescamacho/skirmish-go/internal/domain/game"
	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
)

// GormSaveRepository implements game.SaveRepository using GORM
type GormSaveRepository struct {
	db    *gorm.DB
	clock shared.Clock
}

// NewGormSaveRepository creates a new GORM save repository
func NewGormSaveRepository(db *gorm.DB, clock shared.Clock) *GormSaveRepository {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &GormSaveRepository{db: db, clock: clock}
}

// Save stores a snapshot, assigning its id and creation time when unset
func (r *GormSaveRepository) Save(ctx context.Context, save *game.SavedGame) error {
	if save.ID == "" {
		save.ID = uuid.New().String()
	}
	if save.CreatedAt.IsZero() {
		save.CreatedAt = r.clock.Now().UTC()
	}

	model := &SavedGameModel{
		ID:        save.ID,
		SessionID: save.SessionID,
		Tick:      save.Tick,
		Payload:   save.Payload,
		CreatedAt: save.CreatedAt,
	}

	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		return fmt.Errorf("failed to save game: %w", result.Error)
	}

	return nil
}

// FindByID retrieves a snapshot by its id
func (r *GormSaveRepository) FindByID(ctx context.Context, id string) (*game.SavedGame, error) {
	var model SavedGameModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, &game.ErrSaveNotFound{ID: id}
		}
		return nil, fmt.Errorf("failed to find saved game: %w", result.Error)
	}

	return modelToSave(&model), nil
}

// Latest retrieves the snapshot with the highest tick of a session
func (r *GormSaveRepository) Latest(ctx context.Context, sessionID string) (*game.SavedGame, error) {
	var model SavedGameModel
	result := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("tick DESC").
		Order("created_at DESC").
		First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, &game.ErrSaveNotFound{SessionID: sessionID}
		}
		return nil, fmt.Errorf("failed to find latest saved game: %w", result.Error)
	}

	return modelToSave(&model), nil
}

func modelToSave(model *SavedGameModel) *game.SavedGame {
	return &game.SavedGame{
		ID:        model.ID,
		SessionID: model.SessionID,
		Tick:      model.Tick,
		Payload:   model.Payload,
		CreatedAt: model.CreatedAt.In(time.UTC),
	}
}
