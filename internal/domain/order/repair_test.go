package order_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/skirmish-go/internal/domain/order"
	"github.com/andrescamacho/skirmish-go/internal/domain/player"
	"github.com/andrescamacho/skirmish-go/internal/domain/resource"
	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
	"github.com/andrescamacho/skirmish-go/internal/domain/unit"
)

func TestRepair_ApproachThenRepairToFull(t *testing.T) {
	// Arrange
	f := newFixture(t)
	worker := f.place(f.peasant, f.human, 0, 0, 30)
	farm := f.place(f.farm, f.human, 3, 0, 50)
	o := f.issueRepair(worker, farm)

	// Act - two frames of walking bring the worker adjacent
	f.tick(worker)
	assert.Equal(t, order.RepairApproaching, o.State())
	f.tick(worker)

	// Assert
	require.Equal(t, order.RepairRepairing, o.State())
	assert.Equal(t, 0, o.RepairCycle())
	assert.Equal(t, shared.NewTilePos(2, 0), worker.Tile)
	assert.Equal(t, shared.HeadingEast, worker.Heading)
	assert.Equal(t, 1, f.mover.resets, "INIT requests exactly one path reset")

	// Act - five repair frames of 10 HP each
	for i := 1; i <= 5; i++ {
		f.tick(worker)
		assert.Equal(t, 50+10*i, farm.HP)
		assert.Equal(t, 1000-5*i, f.human.Resources.Stock(resource.Gold))
		assert.Equal(t, 1000-2*i, f.human.Resources.Stock(resource.Wood))
	}

	// Assert
	assert.True(t, o.IsFinished())
	assert.Nil(t, worker.CurrentOrder(), "finished order is retired")
	assert.Equal(t, 0, farm.Refs(), "retired order releases its goal")
	assert.Equal(t, 50, f.observer.restored)
	require.Len(t, f.observer.finished, 1)
	assert.Equal(t, order.ReasonRepaired, f.observer.finished[0].reason)
	assert.Len(t, f.human.Resources.Journal(), 10)
}

func TestRepair_InsufficientGoldAbortsWithOneNotification(t *testing.T) {
	// Arrange
	f := newFixture(t)
	f.human.Resources.RestoreForLoad(resource.Costs{0, 3, 1000}, 0)
	worker := f.place(f.peasant, f.human, 2, 0, 30)
	farm := f.place(f.farm, f.human, 3, 0, 50)
	o := f.issueRepair(worker, farm)

	// Act
	f.tick(worker)
	require.Equal(t, order.RepairRepairing, o.State())
	f.tick(worker)

	// Assert
	assert.True(t, o.IsFinished())
	assert.Equal(t, 50, farm.HP)
	assert.Equal(t, 3, f.human.Resources.Stock(resource.Gold))
	assert.Equal(t, 1000, f.human.Resources.Stock(resource.Wood))
	assert.Empty(t, f.human.Resources.Journal())
	require.Len(t, f.notes.notes, 1)
	assert.Equal(t, "We need more gold for repair!", f.notes.notes[0].Message)
	assert.Equal(t, player.NotifyYellow, f.notes.notes[0].Severity)
	assert.Equal(t, worker.Tile, f.notes.notes[0].Tile)
	assert.Equal(t, order.ReasonInsufficientResources, f.observer.finished[0].reason)
}

func TestRepair_GoalDestroyedWhileApproaching(t *testing.T) {
	// Arrange
	f := newFixture(t)
	worker := f.place(f.peasant, f.human, 0, 0, 30)
	farm := f.place(f.farm, f.human, 4, 0, 50)
	o := f.issueRepair(worker, farm)
	f.tick(worker)
	require.Equal(t, 1, farm.Refs())

	// Act
	farm.Damage(farm.HP)
	f.tick(worker)

	// Assert
	assert.False(t, o.HasGoal())
	assert.Equal(t, shared.NewTilePos(4, 0), o.GoalPos())
	assert.Equal(t, 2, f.mover.resets, "losing the goal requests a fresh path")
	assert.Equal(t, order.RepairApproaching, o.State())
	assert.False(t, o.IsFinished())
	assert.Equal(t, 0, farm.Refs())

	// the slot can now be reclaimed
	assert.Equal(t, 1, f.units.PurgeDestroyed())
}

func TestRepair_GoalDestroyedWhileRepairing(t *testing.T) {
	// Arrange
	f := newFixture(t)
	worker := f.place(f.peasant, f.human, 2, 0, 30)
	farm := f.place(f.farm, f.human, 3, 0, 50)
	o := f.issueRepair(worker, farm)
	f.tick(worker)
	f.tick(worker)
	require.Equal(t, order.RepairRepairing, o.State())
	require.Equal(t, 60, farm.HP)
	resets := f.mover.resets

	// Act
	farm.Damage(farm.HP)
	f.tick(worker)

	// Assert
	assert.True(t, o.IsFinished())
	assert.False(t, o.HasGoal())
	assert.Equal(t, shared.NewTilePos(3, 0), o.GoalPos())
	assert.Equal(t, resets+1, f.mover.resets, "losing the goal requests a fresh path")
	require.Len(t, f.observer.finished, 1)
	assert.Equal(t, order.ReasonTargetLost, f.observer.finished[0].reason)
	assert.Nil(t, worker.CurrentOrder())
	assert.Equal(t, 0, farm.Refs())
}

func TestRepair_ComputerWorkerStopsWithoutGoal(t *testing.T) {
	// Arrange
	f := newFixture(t)
	worker := f.place(f.peasant, f.enemy, 0, 0, 30)
	farm := f.place(f.farm, f.enemy, 5, 0, 50)
	o := f.issueRepair(worker, farm)
	f.tick(worker)

	// Act - the frame that notices the loss only drops the goal
	farm.Damage(farm.HP)
	f.tick(worker)
	require.False(t, o.IsFinished())
	f.tick(worker)

	// Assert
	assert.True(t, o.IsFinished())
	assert.Equal(t, order.ReasonTargetLost, f.observer.finished[0].reason)
}

func TestRepair_GoalMovesOutOfRangeRevertsToInit(t *testing.T) {
	// Arrange
	f := newFixture(t)
	worker := f.place(f.peasant, f.human, 1, 0, 30)
	wounded := f.place(f.peasant, f.human, 2, 0, 10)
	o := f.issueRepair(worker, wounded)
	f.tick(worker)
	require.Equal(t, order.RepairRepairing, o.State())
	f.tick(worker)
	require.Equal(t, 1, o.RepairCycle())

	// Act
	wounded.Tile = shared.NewTilePos(6, 0)
	f.tick(worker)

	// Assert
	assert.Equal(t, order.RepairInit, o.State())
	assert.False(t, o.IsFinished())
	assert.Equal(t, 14, wounded.HP)

	// Act - walk back into range
	f.tickN(worker, 4)

	// Assert
	assert.Equal(t, order.RepairRepairing, o.State())
	assert.Equal(t, 0, o.RepairCycle(), "re-entry starts a fresh cycle")
}

func TestRepair_BlockedPathEndsOnlyComputerOrders(t *testing.T) {
	tests := []struct {
		name         string
		ai           bool
		wantFinished bool
	}{
		{name: "human keeps trying", ai: false, wantFinished: false},
		{name: "computer gives up", ai: true, wantFinished: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			f := newFixture(t)
			f.mover.blocked = true
			owner := f.human
			if tt.ai {
				owner = f.enemy
			}
			worker := f.place(f.peasant, owner, 0, 0, 30)
			farm := f.place(f.farm, owner, 5, 5, 50)
			o := f.issueRepair(worker, farm)

			// Act
			f.tick(worker)

			// Assert
			assert.Equal(t, tt.wantFinished, o.IsFinished())
			if tt.wantFinished {
				assert.Equal(t, order.ReasonUnreachable, f.observer.finished[0].reason)
			} else {
				assert.Equal(t, order.RepairApproaching, o.State())
			}
		})
	}
}

func TestRepair_ArrivingAtUndamagedGoalFinishes(t *testing.T) {
	// Arrange
	f := newFixture(t)
	worker := f.place(f.peasant, f.human, 2, 0, 30)
	farm := f.place(f.farm, f.human, 3, 0, 100)
	o := f.issueRepair(worker, farm)

	// Act
	f.tick(worker)

	// Assert
	assert.True(t, o.IsFinished())
	assert.Equal(t, order.ReasonArrived, f.observer.finished[0].reason)
	assert.Empty(t, f.human.Resources.Journal())
}

func TestRepair_UnbreakableAnimationDefersRepair(t *testing.T) {
	// Arrange
	f := newFixture(t)
	f.peasant.RepairAnimation = &unit.Animation{
		Name: "repair",
		Frames: []unit.Frame{
			{Op: unit.OpUnbreakableBegin},
			{Op: unit.OpFrame, Arg: 5},
			{Op: unit.OpWait, Arg: 2},
			{Op: unit.OpUnbreakableEnd},
			{Op: unit.OpWait, Arg: 1},
		},
	}
	worker := f.place(f.peasant, f.human, 2, 0, 30)
	farm := f.place(f.farm, f.human, 3, 0, 50)
	o := f.issueRepair(worker, farm)
	f.tick(worker)
	require.Equal(t, order.RepairRepairing, o.State())

	// Act - two frames inside the unbreakable section
	f.tickN(worker, 2)

	// Assert
	assert.Equal(t, 50, farm.HP)
	assert.Equal(t, 2, o.RepairCycle(), "cycles count while unbreakable")
	assert.True(t, worker.Anim.Unbreakable)

	// Act
	f.tick(worker)

	// Assert
	assert.Equal(t, 60, farm.HP)
	assert.Equal(t, 3, o.RepairCycle())
	assert.False(t, worker.Anim.Unbreakable)
}

func TestRepair_UnderConstructionForwardsProgress(t *testing.T) {
	// Arrange
	f := newFixture(t)
	worker := f.place(f.peasant, f.human, 2, 0, 30)
	farm := f.place(f.farm, f.human, 3, 0, 40)
	farm.Construction = &unit.Construction{Progress: 3000}
	o := f.issueRepair(worker, farm)
	f.tick(worker)
	require.Equal(t, order.RepairRepairing, o.State())

	// Act
	f.tick(worker)

	// Assert - 100 progress points over 6000 build points keeps the 10 HP of damage
	assert.Equal(t, 41, farm.HP)
	assert.Equal(t, 0, o.RepairCycle())
	assert.False(t, o.IsFinished())
	assert.Empty(t, f.human.Resources.Journal(), "construction repair is free")
}

func TestRepair_GoalOutOfSightIsDropped(t *testing.T) {
	// Arrange - an enemy footman the human worker cannot see
	f := newFixture(t)
	worker := f.place(f.peasant, f.human, 0, 0, 30)
	footman := f.place(f.peasant, f.enemy, 9, 9, 10)
	o := f.issueRepair(worker, footman)

	// Act
	f.tick(worker)

	// Assert
	assert.False(t, o.HasGoal())
	assert.Equal(t, shared.NewTilePos(9, 9), o.GoalPos())
	assert.Equal(t, 0, footman.Refs())
	assert.False(t, o.IsFinished())
}

func TestReplace_ReleasesSupersededGoal(t *testing.T) {
	// Arrange
	f := newFixture(t)
	worker := f.place(f.peasant, f.human, 0, 0, 30)
	farm := f.place(f.farm, f.human, 5, 0, 50)
	f.issueRepair(worker, farm)
	require.Equal(t, 1, farm.Refs())

	// Act
	order.Replace(f.env, worker, order.NewRepairAt(worker, shared.NewTilePos(1, 1)))

	// Assert
	assert.Equal(t, 0, farm.Refs())
	require.Len(t, worker.Orders, 1)
}
