package player

import "github.com/andrescamacho/skirmish-go/internal/domain/shared"

// Notifier delivers in-game messages to a player
type Notifier interface {
	Notify(p *Player, severity Severity, at shared.TilePos, format string, args ...any)
}
