package player

import (
	"fmt"

	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
)

// Severity is the colour class of an in-game message
type Severity string

const (
	NotifyRed    Severity = "RED"
	NotifyYellow Severity = "YELLOW"
	NotifyGreen  Severity = "GREEN"
)

// Notification is a message shown to one player, anchored to a map tile
type Notification struct {
	PlayerID shared.PlayerID
	Severity Severity
	Tile     shared.TilePos
	Message  string
}

func (n Notification) String() string {
	return fmt.Sprintf("[%s] player %s at %s: %s", n.Severity, n.PlayerID, n.Tile, n.Message)
}
