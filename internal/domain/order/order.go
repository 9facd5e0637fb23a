package order

import (
	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
	"github.com/andrescamacho/skirmish-go/internal/domain/unit"
)

// Executable is an order the dispatcher can drive
type Executable interface {
	unit.Order
	// Execute advances the order by one simulated frame
	Execute(env *Env, u *unit.Unit)
	// Release drops the goal reference so an abandoned order leaves nothing behind
	Release(units *unit.Registry)
}

// Base holds the data every goal-directed order carries: the goal handle,
// its last known tile, the interaction range, the finished flag and the
// movement state.
//
// Invariants:
// - finished never goes back to false
// - a held goal has been retained exactly once
type Base struct {
	finished bool
	rng      int
	goal     unit.Handle
	goalPos  shared.TilePos
	Move     PathData
}

// IsFinished returns the terminal signal for the dispatcher
func (b *Base) IsFinished() bool {
	return b.finished
}

func (b *Base) markFinished() {
	b.finished = true
}

// Range returns the interaction radius fixed when the order was issued
func (b *Base) Range() int {
	return b.rng
}

// GoalPos returns the last known tile of the goal
func (b *Base) GoalPos() shared.TilePos {
	return b.goalPos
}

// HasGoal returns true while a goal handle is held
func (b *Base) HasGoal() bool {
	return !b.goal.IsZero()
}

// GoalHandle returns the held handle (zero when absent)
func (b *Base) GoalHandle() unit.Handle {
	return b.goal
}

// Goal resolves the goal handle, returning nil if none is held or the slot
// no longer holds the same unit
func (b *Base) Goal(units *unit.Registry) *unit.Unit {
	if !b.HasGoal() {
		return nil
	}
	return units.Get(b.goal)
}

// SetGoal replaces the goal, retaining the new one
func (b *Base) SetGoal(units *unit.Registry, goal *unit.Unit) {
	b.ClearGoal(units)
	if goal == nil {
		return
	}
	goal.Retain()
	b.goal = goal.Handle()
	b.goalPos = goal.Tile
}

// ClearGoal releases the held goal, keeping goalPos as the destination
func (b *Base) ClearGoal(units *unit.Registry) {
	if !b.HasGoal() {
		return
	}
	if g := units.Get(b.goal); g != nil {
		g.Release()
	}
	b.goal = unit.Handle{}
}

// Release implements Executable
func (b *Base) Release(units *unit.Registry) {
	b.ClearGoal(units)
}

func (b *Base) destination(units *unit.Registry) Destination {
	return Destination{Goal: b.Goal(units), Tile: b.goalPos, Range: b.rng}
}
