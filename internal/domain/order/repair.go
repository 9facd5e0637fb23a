package order

import (
	"fmt"

	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
	"github.com/andrescamacho/skirmish-go/internal/domain/unit"
)

// ActionRepair is the save tag of the repair order
const ActionRepair = "action-repair"

// RepairState is the phase of a repair order
type RepairState int

const (
	RepairInit        RepairState = 0
	RepairApproaching RepairState = 1
	RepairRepairing   RepairState = 2
)

func (s RepairState) String() string {
	switch s {
	case RepairInit:
		return "init"
	case RepairApproaching:
		return "approaching"
	case RepairRepairing:
		return "repairing"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// IsValid checks the state range
func (s RepairState) IsValid() bool {
	return s >= RepairInit && s <= RepairRepairing
}

// Repair walks a worker to a damaged unit or building and restores its hit
// points step by step, paying the target type's repair cost each step.
//
// State machine:
// - INIT -> reset path -> APPROACHING (same frame)
// - APPROACHING -> goal in range and damaged -> REPAIRING
// - REPAIRING -> goal moved out of range -> INIT
// - APPROACHING/REPAIRING -> done, unaffordable, lost or unreachable -> finished
//
// repairCycle counts frames spent repairing since the last entry into
// REPAIRING or the last forwarded construction step.
type Repair struct {
	Base
	state       RepairState
	repairCycle int
}

// NewRepair creates a repair order for worker u against goal. The range is
// the worker type's repair reach.
func NewRepair(units *unit.Registry, u *unit.Unit, goal *unit.Unit) *Repair {
	o := &Repair{}
	o.rng = u.Type.RepairRange
	o.SetGoal(units, goal)
	return o
}

// NewRepairAt creates a repair order heading to a tile without a goal
func NewRepairAt(u *unit.Unit, tile shared.TilePos) *Repair {
	o := &Repair{}
	o.rng = u.Type.RepairRange
	o.goalPos = tile
	return o
}

// Action implements unit.Order
func (o *Repair) Action() string {
	return ActionRepair
}

// State returns the current phase
func (o *Repair) State() RepairState {
	return o.state
}

// RepairCycle returns the frames accumulated in the current repair phase
func (o *Repair) RepairCycle() int {
	return o.repairCycle
}

// Execute advances the order by one frame. INIT falls through to APPROACHING
// within the same frame.
func (o *Repair) Execute(env *Env, u *unit.Unit) {
	for {
		switch o.state {
		case RepairInit:
			env.Mover.ResetPath(u, &o.Move)
			o.state = RepairApproaching
			continue
		case RepairApproaching:
			o.approach(env, u)
		case RepairRepairing:
			o.repair(env, u)
		default:
			o.finish(env, u, ReasonTargetLost)
		}
		return
	}
}

func (o *Repair) approach(env *Env, u *unit.Unit) {
	result := env.Mover.Advance(u, o.destination(env.Units), &o.Move)
	if u.Anim.Unbreakable {
		return
	}

	reason := FinishReason("")
	switch {
	case result == MoveArrived:
		reason = ReasonArrived
	case result == MoveBlocked && u.Player.AIEnabled:
		reason = ReasonUnreachable
	}

	goal := o.Goal(env.Units)
	if goal != nil {
		if !env.Sight.IsVisibleAsGoal(goal, u.Player) {
			o.loseGoal(env, u, goal)
			goal = nil
		}
	} else if u.Player.AIEnabled {
		// computer workers stop once their target is gone
		reason = ReasonTargetLost
	}

	if goal != nil && env.Sight.MapDistance(u, goal) <= o.rng && goal.IsDamaged() {
		u.ResetState()
		o.state = RepairRepairing
		o.repairCycle = 0
		u.FaceTowards(goal.Center())
		return
	}

	if reason != "" {
		o.finish(env, u, reason)
	}
}

func (o *Repair) repair(env *Env, u *unit.Unit) {
	env.Animator.Play(u, u.Type.RepairAnimation)
	o.repairCycle++
	if u.Anim.Unbreakable {
		return
	}

	goal := o.Goal(env.Units)
	if goal != nil {
		if !env.Sight.IsVisibleAsGoal(goal, u.Player) {
			o.loseGoal(env, u, goal)
			goal = nil
		} else if dist := env.Sight.MapDistance(u, goal); dist <= o.rng {
			if done, reason := o.RepairUnit(env, u, goal); done {
				o.finish(env, u, reason)
				return
			}
		} else {
			// goal walked away, chase it
			u.ResetState()
			o.state = RepairInit
		}
	}

	if goal == nil {
		o.finish(env, u, ReasonTargetLost)
		return
	}
	if !goal.IsDamaged() {
		o.finish(env, u, ReasonRepaired)
	}
}

func (o *Repair) loseGoal(env *Env, u *unit.Unit, goal *unit.Unit) {
	o.goalPos = goal.Tile
	o.ClearGoal(env.Units)
	env.Mover.ResetPath(u, &o.Move)
}

func (o *Repair) finish(env *Env, u *unit.Unit, reason FinishReason) {
	o.markFinished()
	env.observer().OrderFinished(u, ActionRepair, reason)
}
