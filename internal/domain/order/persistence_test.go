package order_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/andrescamacho/skirmish-go/internal/domain/order"
	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
)

func roundTrip(t *testing.T, o *order.Repair, opts order.DecodeOptions) *order.Repair {
	t.Helper()
	node, err := order.Encode(o)
	require.NoError(t, err)
	text, err := yaml.Marshal(node)
	require.NoError(t, err)

	var parsed yaml.Node
	require.NoError(t, yaml.Unmarshal(text, &parsed))
	loaded, err := order.Decode(&parsed, opts)
	require.NoError(t, err)

	repair, ok := loaded.(*order.Repair)
	require.True(t, ok)
	return repair
}

func decodeText(text string, opts order.DecodeOptions) (order.Executable, error) {
	var parsed yaml.Node
	if err := yaml.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, err
	}
	return order.Decode(&parsed, opts)
}

func TestRepairPersistence_RoundTripWithGoal(t *testing.T) {
	// Arrange - a worker two frames into repairing
	f := newFixture(t)
	worker := f.place(f.peasant, f.human, 2, 0, 30)
	farm := f.place(f.farm, f.human, 3, 0, 50)
	o := f.issueRepair(worker, farm)
	f.tickN(worker, 3)
	require.Equal(t, order.RepairRepairing, o.State())
	o.Move = order.PathData{Fast: true, Steps: []order.Direction{order.DirEast, order.DirSouthWest}}

	// Act
	loaded := roundTrip(t, o, order.DecodeOptions{Units: f.units})

	// Assert
	assert.Equal(t, o.State(), loaded.State())
	assert.Equal(t, 2, loaded.RepairCycle())
	assert.Equal(t, o.Range(), loaded.Range())
	assert.Equal(t, o.GoalPos(), loaded.GoalPos())
	assert.Equal(t, o.IsFinished(), loaded.IsFinished())
	assert.Equal(t, farm.Handle(), loaded.GoalHandle())
	assert.Equal(t, o.Move, loaded.Move)
	assert.Equal(t, 2, farm.Refs(), "the loaded order holds its own reference")
}

func TestRepairPersistence_RoundTripWithoutGoal(t *testing.T) {
	// Arrange
	f := newFixture(t)
	worker := f.place(f.peasant, f.human, 0, 0, 30)
	o := order.NewRepairAt(worker, shared.NewTilePos(7, 3))

	// Act
	loaded := roundTrip(t, o, order.DecodeOptions{Units: f.units})

	// Assert
	assert.False(t, loaded.HasGoal())
	assert.Equal(t, shared.NewTilePos(7, 3), loaded.GoalPos())
	assert.Equal(t, order.RepairInit, loaded.State())
	assert.Equal(t, 0, loaded.RepairCycle())
	assert.Equal(t, 1, loaded.Range())
	assert.False(t, loaded.IsFinished())
	assert.Empty(t, loaded.Move.Steps)
}

func TestRepairPersistence_FinishedMarker(t *testing.T) {
	// Arrange
	f := newFixture(t)
	worker := f.place(f.peasant, f.human, 2, 0, 30)
	farm := f.place(f.farm, f.human, 3, 0, 100)
	o := f.issueRepair(worker, farm)
	f.tick(worker)
	require.True(t, o.IsFinished())

	// Act
	node, err := order.Encode(o)
	require.NoError(t, err)
	text, err := yaml.Marshal(node)
	require.NoError(t, err)
	loaded, err := decodeText(string(text), order.DecodeOptions{Units: f.units})

	// Assert
	require.NoError(t, err)
	assert.Contains(t, string(text), "finished")
	assert.NotContains(t, string(text), "goal", "retired orders no longer hold a goal")
	assert.True(t, loaded.IsFinished())
}

func TestRepairPersistence_AcceptsKeysInAnyOrder(t *testing.T) {
	// Arrange
	f := newFixture(t)
	text := `["action-repair", "state", 1, "data-move", ["path", [2, 2]], "tile", [4, 5], "repaircycle", 0, "range", 2]`

	// Act
	loaded, err := decodeText(text, order.DecodeOptions{Units: f.units})

	// Assert
	require.NoError(t, err)
	o := loaded.(*order.Repair)
	assert.Equal(t, order.RepairApproaching, o.State())
	assert.Equal(t, shared.NewTilePos(4, 5), o.GoalPos())
	assert.Equal(t, 2, o.Range())
	assert.Equal(t, []order.Direction{order.DirEast, order.DirEast}, o.Move.Steps)
}

func TestRepairPersistence_UnresolvedGoal(t *testing.T) {
	text := `["action-repair", "range", 1, "goal", "U0009", "tile", [4, 5], "repaircycle", 3, "state", 2]`

	t.Run("lenient load falls back to the tile", func(t *testing.T) {
		// Arrange
		f := newFixture(t)

		// Act
		loaded, err := decodeText(text, order.DecodeOptions{Units: f.units})

		// Assert
		require.NoError(t, err)
		o := loaded.(*order.Repair)
		assert.False(t, o.HasGoal())
		assert.Equal(t, shared.NewTilePos(4, 5), o.GoalPos())
		assert.Equal(t, order.RepairRepairing, o.State())
	})

	t.Run("strict load fails", func(t *testing.T) {
		// Arrange
		f := newFixture(t)

		// Act
		_, err := decodeText(text, order.DecodeOptions{Units: f.units, Strict: true})

		// Assert
		var unresolved *shared.UnresolvedReferenceError
		require.True(t, errors.As(err, &unresolved))
		assert.Equal(t, "U0009", unresolved.Ref)
	})
}

func TestRepairPersistence_DestroyedGoalIsStillWritten(t *testing.T) {
	// Arrange
	f := newFixture(t)
	worker := f.place(f.peasant, f.human, 0, 0, 30)
	farm := f.place(f.farm, f.human, 5, 0, 50)
	o := f.issueRepair(worker, farm)
	farm.Damage(farm.HP)

	// Act
	node, err := order.Encode(o)
	require.NoError(t, err)
	text, err := yaml.Marshal(node)
	require.NoError(t, err)

	// Assert
	assert.Contains(t, string(text), farm.Ref())

	// Act - the goal slot is gone by the time the save is loaded
	order.Replace(f.env, worker, order.NewRepairAt(worker, farm.Tile))
	require.Equal(t, 1, f.units.PurgeDestroyed())
	loaded, err := decodeText(string(text), order.DecodeOptions{Units: f.units})

	// Assert
	require.NoError(t, err)
	assert.False(t, loaded.(*order.Repair).HasGoal())
	assert.Equal(t, farm.Tile, loaded.(*order.Repair).GoalPos())
}

func TestRepairPersistence_ParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantKey string
	}{
		{name: "unknown key", text: `["action-repair", "range", 1, "speed", 4]`, wantKey: "speed"},
		{name: "state out of range", text: `["action-repair", "state", 3]`, wantKey: "state"},
		{name: "negative cycle", text: `["action-repair", "repaircycle", -1]`, wantKey: "repaircycle"},
		{name: "bad tile", text: `["action-repair", "tile", [1]]`, wantKey: "tile"},
		{name: "missing value", text: `["action-repair", "range"]`, wantKey: "range"},
		{name: "bad direction", text: `["action-repair", "data-move", ["path", [9]]]`, wantKey: "path"},
		{name: "unknown move key", text: `["action-repair", "data-move", ["goal", 1]]`, wantKey: "goal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			f := newFixture(t)

			// Act
			_, err := decodeText(tt.text, order.DecodeOptions{Units: f.units})

			// Assert
			var parseErr *shared.ParseError
			require.True(t, errors.As(err, &parseErr), "got %v", err)
			assert.Equal(t, tt.wantKey, parseErr.Key)
		})
	}
}

func TestRepairPersistence_UnknownAction(t *testing.T) {
	// Arrange
	f := newFixture(t)

	// Act
	_, err := decodeText(`["action-harvest", "range", 1]`, order.DecodeOptions{Units: f.units})

	// Assert
	var parseErr *shared.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "action-harvest", parseErr.Record)
}

func TestRepairPersistence_FailedLoadReleasesGoal(t *testing.T) {
	// Arrange
	f := newFixture(t)
	worker := f.place(f.peasant, f.human, 0, 0, 30)
	farm := f.place(f.farm, f.human, 5, 0, 50)
	require.Equal(t, "U0001", farm.Ref())
	require.NotNil(t, worker)

	// Act
	_, err := decodeText(`["action-repair", "goal", "U0001", "state", 7]`, order.DecodeOptions{Units: f.units})

	// Assert
	require.Error(t, err)
	assert.Equal(t, 0, farm.Refs())
}
