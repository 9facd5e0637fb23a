package notify

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/andrescamacho/skirmish-go/internal/adapters/metrics"
	"github.com/andrescamacho/skirmish-go/internal/domain/player"
	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
)

// DefaultInboxSize is the number of messages kept per player
const DefaultInboxSize = 64

// ZapNotifier implements player.Notifier. Every message is logged and kept in
// a bounded per-player inbox until drained; the oldest message is dropped first.
type ZapNotifier struct {
	logger *zap.Logger
	limit  int

	mu     sync.Mutex
	inbox  [shared.MaxPlayers][]player.Notification
	logged int
}

// NewZapNotifier creates a notifier; limit <= 0 uses DefaultInboxSize
func NewZapNotifier(logger *zap.Logger, limit int) *ZapNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	if limit <= 0 {
		limit = DefaultInboxSize
	}
	return &ZapNotifier{logger: logger, limit: limit}
}

// Notify implements player.Notifier
func (n *ZapNotifier) Notify(p *player.Player, severity player.Severity, at shared.TilePos, format string, args ...any) {
	note := player.Notification{
		PlayerID: p.ID,
		Severity: severity,
		Tile:     at,
		Message:  fmt.Sprintf(format, args...),
	}

	n.mu.Lock()
	box := append(n.inbox[p.ID.Value()], note)
	if len(box) > n.limit {
		box = box[len(box)-n.limit:]
	}
	n.inbox[p.ID.Value()] = box
	n.logged++
	n.mu.Unlock()

	n.logger.Info("player notification",
		zap.Int("player_id", p.ID.Value()),
		zap.String("player", p.Name),
		zap.String("severity", string(severity)),
		zap.Int("x", at.X),
		zap.Int("y", at.Y),
		zap.String("message", note.Message))
	metrics.RecordNotification(severity)
}

// Inbox returns the pending messages of a player, oldest first
func (n *ZapNotifier) Inbox(id shared.PlayerID) []player.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	box := n.inbox[id.Value()]
	out := make([]player.Notification, len(box))
	copy(out, box)
	return out
}

// Drain returns and clears the pending messages of a player
func (n *ZapNotifier) Drain(id shared.PlayerID) []player.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := n.inbox[id.Value()]
	n.inbox[id.Value()] = nil
	return out
}

// Count returns the number of messages delivered since creation
func (n *ZapNotifier) Count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.logged
}
