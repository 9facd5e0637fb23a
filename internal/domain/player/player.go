package player

import (
	"github.com/andrescamacho/skirmish-go/internal/domain/resource"
	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
)

// Player is a participant of the game owning units and a resource ledger
type Player struct {
	ID        shared.PlayerID
	Name      string
	AIEnabled bool
	Resources *resource.Ledger
}

// NewPlayer creates a player with an opening stock
func NewPlayer(id shared.PlayerID, name string, aiEnabled bool, opening resource.Costs) *Player {
	return &Player{
		ID:        id,
		Name:      name,
		AIEnabled: aiEnabled,
		Resources: resource.NewLedger(id, opening),
	}
}
