package game

import (
	"context"
	"time"
)

// SavedGame is one stored snapshot of a session
type SavedGame struct {
	ID        string
	SessionID string
	Tick      int64
	Payload   []byte
	CreatedAt time.Time
}

// SaveRepository stores whole-game snapshots
type SaveRepository interface {
	Save(ctx context.Context, save *SavedGame) error
	FindByID(ctx context.Context, id string) (*SavedGame, error)

	// Latest returns the most recent snapshot of a session
	Latest(ctx context.Context, sessionID string) (*SavedGame, error)
}

// ErrSaveNotFound is returned when no snapshot matches a lookup
type ErrSaveNotFound struct {
	ID        string
	SessionID string
}

func (e *ErrSaveNotFound) Error() string {
	if e.ID != "" {
		return "saved game not found: " + e.ID
	}
	return "no saved game for session " + e.SessionID
}
