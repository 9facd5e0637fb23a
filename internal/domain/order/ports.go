package order

import (
	"github.com/andrescamacho/skirmish-go/internal/domain/player"
	"github.com/andrescamacho/skirmish-go/internal/domain/resource"
	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
	"github.com/andrescamacho/skirmish-go/internal/domain/unit"
)

// MoveResult is the outcome of one movement step
type MoveResult int

const (
	// MoveProgressing means the unit moved or is waiting to move
	MoveProgressing MoveResult = iota
	// MoveArrived means the destination is within range
	MoveArrived
	// MoveBlocked means no path to the destination exists
	MoveBlocked
)

func (r MoveResult) String() string {
	switch r {
	case MoveProgressing:
		return "progressing"
	case MoveArrived:
		return "arrived"
	case MoveBlocked:
		return "blocked"
	default:
		return "unknown"
	}
}

// Destination is where a move step heads: the goal footprint when present,
// otherwise the tile
type Destination struct {
	Goal  *unit.Unit
	Tile  shared.TilePos
	Range int
}

// Mover advances units along paths
type Mover interface {
	// ResetPath forces the next Advance to plan a fresh path
	ResetPath(u *unit.Unit, path *PathData)
	// Advance performs one frame of movement towards dest
	Advance(u *unit.Unit, dest Destination, path *PathData) MoveResult
}

// Sight answers visibility and distance queries
type Sight interface {
	IsVisibleAsGoal(target *unit.Unit, p *player.Player) bool
	MapDistance(a, b *unit.Unit) int
}

// Animator plays animation scripts; playback may set u.Anim.Unbreakable
type Animator interface {
	Play(u *unit.Unit, anim *unit.Animation)
}

// ConstructionProgress forwards repair effort to a target under construction
type ConstructionProgress interface {
	ProgressHP(target *unit.Unit, amount int)
}

// FinishReason explains why an order retired
type FinishReason string

const (
	ReasonRepaired              FinishReason = "repaired"
	ReasonTargetLost            FinishReason = "target-lost"
	ReasonInsufficientResources FinishReason = "insufficient-resources"
	ReasonUnreachable           FinishReason = "unreachable"
	ReasonArrived               FinishReason = "arrived"
)

// Observer receives order events for metrics and logs
type Observer interface {
	RepairStep(u, goal *unit.Unit, hpRestored int, costs resource.Costs)
	OrderFinished(u *unit.Unit, action string, reason FinishReason)
}

// ConstructionSite applies construction progress through the target's own
// construction sub-state
type ConstructionSite struct{}

func (ConstructionSite) ProgressHP(target *unit.Unit, amount int) {
	if target.Construction != nil {
		target.Construction.ProgressHP(target, amount)
	}
}

type nopObserver struct{}

func (nopObserver) RepairStep(*unit.Unit, *unit.Unit, int, resource.Costs) {}
func (nopObserver) OrderFinished(*unit.Unit, string, FinishReason)         {}
