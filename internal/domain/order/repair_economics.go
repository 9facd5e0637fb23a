package order

import (
	"github.com/andrescamacho/skirmish-go/internal/domain/player"
	"github.com/andrescamacho/skirmish-go/internal/domain/resource"
	"github.com/andrescamacho/skirmish-go/internal/domain/unit"
)

// constructionRepairScale converts repair frames into construction progress
const constructionRepairScale = 100

// RepairUnit applies one repair step of worker u to goal and reports whether
// the order is complete, along with the reason when it is. Shortage of any
// resource notifies the owner once and completes the order with
// ReasonInsufficientResources instead of waiting for income.
func (o *Repair) RepairUnit(env *Env, u *unit.Unit, goal *unit.Unit) (bool, FinishReason) {
	if goal.UnderConstruction() {
		env.construction().ProgressHP(goal, constructionRepairScale*o.repairCycle)
		o.repairCycle = 0
		return false, ""
	}

	maxHP := goal.Type.MaxHP
	if goal.HP >= maxHP {
		return true, ReasonRepaired
	}

	ledger := u.Player.Resources
	costs := goal.Type.RepairCosts
	if kind, short := ledger.Shortfall(costs); short {
		env.notifier().Notify(u.Player, player.NotifyYellow, u.Tile, "We need more %s for repair!", kind)
		return true, ReasonInsufficientResources
	}
	if err := ledger.DebitAll(costs, env.Tick, resource.CategoryRepairCosts, "repair "+goal.Ref()); err != nil {
		env.notifier().Notify(u.Player, player.NotifyRed, u.Tile, "Repair failed: %v", err)
		return true, ReasonInsufficientResources
	}

	before := goal.HP
	goal.HP += goal.Type.RepairHP
	clamped := goal.HP >= maxHP
	if clamped {
		goal.HP = maxHP
	}
	env.observer().RepairStep(u, goal, goal.HP-before, costs)

	if clamped {
		return true, ReasonRepaired
	}
	return false, ""
}
