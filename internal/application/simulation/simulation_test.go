package simulation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/skirmish-go/internal/adapters/routing"
	"github.com/andrescamacho/skirmish-go/internal/adapters/savegame"
	"github.com/andrescamacho/skirmish-go/internal/application/simulation"
	"github.com/andrescamacho/skirmish-go/internal/domain/game"
	"github.com/andrescamacho/skirmish-go/internal/domain/order"
	"github.com/andrescamacho/skirmish-go/internal/domain/resource"
	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
	"github.com/andrescamacho/skirmish-go/internal/domain/unit"
)

// Two workers of different players repair across a wall; the orc worker is
// AI driven and its farm is behind the wall.
const repairScenario = `
map:
  width: 12
  height: 8
  blocked: [[6, 0], [6, 1], [6, 2], [6, 3], [6, 4], [6, 5]]
players:
  - id: 0
    name: human
    resources: {gold: 100, wood: 100}
  - id: 1
    name: orc
    ai: true
    resources: {gold: 12, wood: 100}
unit_types:
  - ident: unit-peasant
    max_hp: 30
    tile_size: [1, 1]
    sight_range: 4
    move_ticks: 2
    repair_range: 1
    repair_animation:
      name: repair
      frames: ["frame 1", "wait 1", "frame 2", "wait 1"]
  - ident: unit-farm
    max_hp: 100
    tile_size: [2, 2]
    sight_range: 1
    repair_hp: 10
    repair_costs: {gold: 5, wood: 2}
    building: true
    visible_under_fog: true
units:
  - ref: U0000
    type: unit-farm
    player: 0
    tile: [3, 3]
    hp: 70
  - ref: U0001
    type: unit-farm
    player: 1
    tile: [9, 2]
    hp: 40
  - ref: U0002
    type: unit-peasant
    player: 0
    tile: [0, 0]
    hp: 30
    repair: U0000
  - ref: U0003
    type: unit-peasant
    player: 1
    tile: [2, 7]
    hp: 30
    repair: U0001
`

func load(t *testing.T, text string) *simulation.Simulation {
	t.Helper()
	g, _, err := savegame.Unmarshal([]byte(text), savegame.LoadOptions{StrictRefs: true})
	require.NoError(t, err)
	return newSimulation(t, g)
}

func newSimulation(t *testing.T, g *game.Game) *simulation.Simulation {
	t.Helper()
	sim, err := simulation.New(g, simulation.Options{
		Mover: routing.NewGridMover(g.Map, g.Units, 2048),
	})
	require.NoError(t, err)
	return sim
}

func stepUntilIdle(sim *simulation.Simulation, limit int) int {
	for i := 1; i <= limit; i++ {
		sim.Step()
		idle := true
		for _, u := range sim.Game().Units.Units() {
			if len(u.Orders) > 0 {
				idle = false
			}
		}
		if idle {
			return i
		}
	}
	return limit
}

func unitAt(t *testing.T, g *game.Game, ref string) *unit.Unit {
	t.Helper()
	u, err := g.Units.Resolve(ref)
	require.NoError(t, err)
	return u
}

func TestStep_RepairsAndPays(t *testing.T) {
	// Arrange
	sim := load(t, repairScenario)
	g := sim.Game()

	// Act
	frames := stepUntilIdle(sim, 300)

	// Assert
	require.Less(t, frames, 300, "every order finishes")
	assert.Equal(t, int64(frames), g.Tick)

	human := g.Player(shared.MustNewPlayerID(0))
	assert.Equal(t, 100, unitAt(t, g, "U0000").HP)
	assert.Equal(t, 85, human.Resources.Stock(resource.Gold))
	assert.Equal(t, 94, human.Resources.Stock(resource.Wood))

	// the orc can pay for two steps only
	orc := g.Player(shared.MustNewPlayerID(1))
	assert.Equal(t, 60, unitAt(t, g, "U0001").HP)
	assert.Equal(t, 2, orc.Resources.Stock(resource.Gold))

	journal := sim.DrainJournals()
	assert.Len(t, journal, 10)
	for i, tx := range journal {
		assert.NoError(t, tx.Validate())
		if i > 0 {
			assert.LessOrEqual(t, journal[i-1].PlayerID().Value(), tx.PlayerID().Value())
		}
	}
	assert.Empty(t, sim.DrainJournals(), "journals are drained once")

	assert.Zero(t, unitAt(t, g, "U0000").Refs())
	assert.Zero(t, unitAt(t, g, "U0001").Refs())
}

func TestStep_IsDeterministic(t *testing.T) {
	// Arrange
	a := load(t, repairScenario)
	b := load(t, repairScenario)

	for frame := 0; frame < 120; frame++ {
		// Act
		a.Step()
		b.Step()

		// Assert
		if frame%15 == 0 {
			left, err := savegame.Marshal(a.Game(), "")
			require.NoError(t, err)
			right, err := savegame.Marshal(b.Game(), "")
			require.NoError(t, err)
			require.Equal(t, string(left), string(right), "frame %d", frame)
		}
	}
}

func TestStep_SaveAndReloadMidActionReproducesFrames(t *testing.T) {
	// Arrange - run 25 frames, save, and continue both the original and a reload
	original := load(t, repairScenario)
	for i := 0; i < 25; i++ {
		original.Step()
	}
	data, err := savegame.Marshal(original.Game(), "mid")
	require.NoError(t, err)
	g, _, err := savegame.Unmarshal(data, savegame.LoadOptions{StrictRefs: true})
	require.NoError(t, err)
	reloaded := newSimulation(t, g)

	// Act
	for i := 0; i < 60; i++ {
		original.Step()
		reloaded.Step()
	}

	// Assert
	left, err := savegame.Marshal(original.Game(), "mid")
	require.NoError(t, err)
	right, err := savegame.Marshal(reloaded.Game(), "mid")
	require.NoError(t, err)
	assert.Equal(t, string(left), string(right))
}

func TestStep_DeadWorkerDropsOrdersAndReleasesGoal(t *testing.T) {
	// Arrange
	sim := load(t, repairScenario)
	g := sim.Game()
	worker := unitAt(t, g, "U0002")
	farm := unitAt(t, g, "U0000")
	require.Equal(t, 1, farm.Refs())

	// Act
	worker.Damage(worker.HP)
	purged := sim.Step()

	// Assert
	assert.Equal(t, 1, purged)
	assert.Empty(t, worker.Orders)
	assert.Zero(t, farm.Refs())
	_, err := g.Units.Resolve("U0002")
	assert.Error(t, err)
}

func TestStep_DestroyedGoalIsPurgedOnceReleased(t *testing.T) {
	// Arrange
	sim := load(t, repairScenario)
	g := sim.Game()
	farm := unitAt(t, g, "U0000")
	orcFarm := unitAt(t, g, "U0001")
	human := unitAt(t, g, "U0002")
	orc := unitAt(t, g, "U0003")

	// Act
	farm.Damage(farm.HP)
	orcFarm.Damage(orcFarm.HP)
	purged := sim.Step()

	// Assert
	assert.Equal(t, 2, purged, "orders let go of their goals before the purge")

	humanOrder, ok := human.CurrentOrder().(*order.Repair)
	require.True(t, ok)
	assert.False(t, humanOrder.HasGoal())
	assert.Equal(t, shared.NewTilePos(3, 3), humanOrder.GoalPos())
	require.Len(t, orc.Orders, 1, "computer workers give up one frame later")

	sim.Step()
	assert.Empty(t, orc.Orders)
	assert.Len(t, human.Orders, 1, "human workers keep walking to the last known tile")
}

func TestIssueRepair(t *testing.T) {
	sim := load(t, repairScenario)
	g := sim.Game()
	worker := unitAt(t, g, "U0002")
	farm := unitAt(t, g, "U0000")

	t.Run("replaces the current order", func(t *testing.T) {
		o, err := sim.IssueRepair(worker, farm)
		require.NoError(t, err)

		require.Len(t, worker.Orders, 1)
		assert.Same(t, o, worker.CurrentOrder())
		assert.Equal(t, 1, farm.Refs(), "the replaced order released its goal")
	})

	t.Run("tile target", func(t *testing.T) {
		o, err := sim.IssueRepairAt(worker, shared.NewTilePos(4, 4))
		require.NoError(t, err)

		assert.False(t, o.HasGoal())
		assert.Equal(t, order.RepairInit, o.State())
		assert.Zero(t, farm.Refs())
	})

	t.Run("rejects off-map tiles", func(t *testing.T) {
		_, err := sim.IssueRepairAt(worker, shared.NewTilePos(40, 4))
		assert.Error(t, err)
	})

	t.Run("rejects dead targets and workers", func(t *testing.T) {
		other := unitAt(t, g, "U0001")
		other.Destroyed = true
		_, err := sim.IssueRepair(worker, other)
		assert.Error(t, err)

		worker.Removed = true
		_, err = sim.IssueRepair(worker, farm)
		assert.Error(t, err)
	})
}

func TestNew_RequiresMover(t *testing.T) {
	g, _, err := savegame.Unmarshal([]byte(repairScenario), savegame.LoadOptions{})
	require.NoError(t, err)

	_, err = simulation.New(g, simulation.Options{})

	assert.Error(t, err)
}
