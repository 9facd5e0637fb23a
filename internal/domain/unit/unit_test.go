package unit_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/skirmish-go/internal/domain/player"
	"github.com/andrescamacho/skirmish-go/internal/domain/resource"
	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
	"github.com/andrescamacho/skirmish-go/internal/domain/unit"
)

var (
	peasantType = &unit.Type{Ident: "unit-peasant", MaxHP: 30, TileWidth: 1, TileHeight: 1, MoveTicks: 1}
	hallType    = &unit.Type{Ident: "unit-town-hall", MaxHP: 1200, TileWidth: 4, TileHeight: 4, Building: true}
)

func newUnit(t *testing.T, typ *unit.Type, x, y, hp int) *unit.Unit {
	t.Helper()
	owner := player.NewPlayer(shared.MustNewPlayerID(0), "human", false, resource.Costs{})
	u, err := unit.New(typ, owner, shared.NewTilePos(x, y), hp)
	require.NoError(t, err)
	return u
}

func TestMapDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b shared.TilePos
		bt   *unit.Type
		want int
	}{
		{"same tile", shared.NewTilePos(2, 2), shared.NewTilePos(2, 2), peasantType, 0},
		{"adjacent", shared.NewTilePos(2, 2), shared.NewTilePos(3, 2), peasantType, 1},
		{"diagonal neighbour", shared.NewTilePos(2, 2), shared.NewTilePos(3, 3), peasantType, 1},
		{"three apart", shared.NewTilePos(0, 0), shared.NewTilePos(3, 0), peasantType, 3},
		{"against a building", shared.NewTilePos(0, 1), shared.NewTilePos(1, 0), hallType, 1},
		{"inside a building", shared.NewTilePos(2, 2), shared.NewTilePos(1, 1), hallType, 0},
		{"left of a building", shared.NewTilePos(0, 0), shared.NewTilePos(4, 0), hallType, 4},
		{"past a building", shared.NewTilePos(9, 2), shared.NewTilePos(1, 1), hallType, 5},
		{"diagonal gap", shared.NewTilePos(0, 0), shared.NewTilePos(3, 4), peasantType, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newUnit(t, peasantType, tt.a.X, tt.a.Y, 30)
			b := newUnit(t, tt.bt, tt.b.X, tt.b.Y, 1)

			assert.Equal(t, tt.want, unit.MapDistance(a, b))
			assert.Equal(t, tt.want, unit.MapDistance(b, a), "distance is symmetric")
		})
	}
}

func TestNew_RejectsOutOfRangeHP(t *testing.T) {
	owner := player.NewPlayer(shared.MustNewPlayerID(0), "human", false, resource.Costs{})

	_, errHigh := unit.New(peasantType, owner, shared.NewTilePos(0, 0), 31)
	_, errLow := unit.New(peasantType, owner, shared.NewTilePos(0, 0), -1)
	_, errOwner := unit.New(peasantType, nil, shared.NewTilePos(0, 0), 10)

	assert.Error(t, errHigh)
	assert.Error(t, errLow)
	assert.Error(t, errOwner)
}

func TestRegistry_RefsAndPurge(t *testing.T) {
	// Arrange
	r := unit.NewRegistry()
	a := newUnit(t, peasantType, 0, 0, 30)
	b := newUnit(t, peasantType, 1, 0, 30)
	ha := r.Add(a)
	r.Add(b)

	// Act
	a.Retain()
	a.Damage(30)
	keptWhileReferenced := r.PurgeDestroyed()
	a.Release()
	purged := r.PurgeDestroyed()

	// Assert
	assert.Equal(t, "U0000", ha.Ref())
	assert.Equal(t, "U0001", b.Ref())
	assert.Equal(t, 0, keptWhileReferenced)
	assert.Equal(t, 1, purged)
	assert.Nil(t, r.Get(ha))
	assert.Equal(t, 1, r.Len())

	c := newUnit(t, peasantType, 2, 0, 30)
	hc := r.Add(c)
	assert.Equal(t, 0, hc.Slot, "the freed slot is reused")
	assert.Nil(t, r.Get(ha), "a stale handle does not resolve to the new occupant")
	assert.Same(t, c, r.Get(hc))
}

func TestRegistry_ResolveAndPlace(t *testing.T) {
	r := unit.NewRegistry()
	u := newUnit(t, peasantType, 0, 0, 30)

	_, err := r.Place(3, u)
	require.NoError(t, err)

	got, err := r.Resolve("U0003")
	require.NoError(t, err)
	assert.Same(t, u, got)

	_, err = r.Resolve("U0001")
	assert.Error(t, err)
	_, err = r.Resolve("X12")
	assert.Error(t, err)
	_, err = r.Place(3, newUnit(t, peasantType, 1, 1, 30))
	assert.Error(t, err, "occupied slot")

	next := r.Add(newUnit(t, peasantType, 2, 2, 30))
	assert.Equal(t, 0, next.Slot, "slots skipped by Place are handed out first")
}

func TestRegistry_PlaceRejectsSlotBeyondMax(t *testing.T) {
	r := unit.NewRegistry()

	_, err := r.Place(unit.MaxSlot+1, newUnit(t, peasantType, 0, 0, 30))

	var validation *shared.ValidationError
	require.True(t, errors.As(err, &validation))
	assert.Equal(t, "slot", validation.Field)
	assert.Nil(t, r.Get(unit.Handle{Slot: unit.MaxSlot + 1, Serial: 1}))
}

func TestUnit_ReleaseNeverGoesNegative(t *testing.T) {
	u := newUnit(t, peasantType, 0, 0, 30)

	u.Release()
	u.Retain()

	assert.Equal(t, 1, u.Refs())
}

func TestConstruction_ProgressHP(t *testing.T) {
	site := &unit.Type{
		Ident: "unit-farm", MaxHP: 100, TileWidth: 2, TileHeight: 2, Building: true,
		BuildCosts: resource.Costs{resource.Time: 10},
	}

	tests := []struct {
		name     string
		progress int
		hp       int
		amount   int
		want     int
	}{
		{"undamaged scaffold", 3000, 50, 100, 51},
		{"damage is kept", 3000, 40, 600, 50},
		{"clamped at max", 5900, 98, 600, 100},
		{"nothing added", 3000, 50, 0, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := newUnit(t, site, 0, 0, tt.hp)
			u.Construction = &unit.Construction{Progress: tt.progress}

			u.Construction.ProgressHP(u, tt.amount)

			assert.Equal(t, tt.want, u.HP)
			assert.Equal(t, tt.progress, u.Construction.Progress, "progress belongs to the builder")
		})
	}
}

func TestConstruction_ZeroBuildTimeCompletesHP(t *testing.T) {
	site := &unit.Type{Ident: "unit-wall", MaxHP: 60, TileWidth: 1, TileHeight: 1}
	u := newUnit(t, site, 0, 0, 10)
	u.Construction = &unit.Construction{}

	u.Construction.ProgressHP(u, 100)

	assert.Equal(t, 60, u.HP)
}

func TestAnimationPlayer_UnbreakableSection(t *testing.T) {
	// Arrange
	anim := &unit.Animation{Name: "repair", Frames: []unit.Frame{
		{Op: unit.OpUnbreakableBegin},
		{Op: unit.OpFrame, Arg: 5},
		{Op: unit.OpWait, Arg: 2},
		{Op: unit.OpUnbreakableEnd},
		{Op: unit.OpFrame, Arg: 6},
		{Op: unit.OpWait, Arg: 1},
	}}
	u := newUnit(t, peasantType, 0, 0, 30)
	animator := unit.AnimationPlayer{}

	// Act & Assert
	animator.Play(u, anim)
	assert.True(t, u.Anim.Unbreakable)
	assert.Equal(t, 5, u.Anim.Sprite)

	animator.Play(u, anim)
	assert.True(t, u.Anim.Unbreakable, "still waiting inside the section")

	animator.Play(u, anim)
	assert.False(t, u.Anim.Unbreakable)
	assert.Equal(t, 6, u.Anim.Sprite)

	animator.Play(u, anim)
	assert.True(t, u.Anim.Unbreakable, "the script loops")
}

func TestAnimationPlayer_NoScriptIsNoop(t *testing.T) {
	u := newUnit(t, peasantType, 0, 0, 30)
	u.Anim.Sprite = 3

	unit.AnimationPlayer{}.Play(u, nil)
	unit.AnimationPlayer{}.Play(u, &unit.Animation{Name: "empty"})

	assert.Equal(t, 3, u.Anim.Sprite)
	assert.Empty(t, u.Anim.Current)
}

func TestParseFrameOp(t *testing.T) {
	op, ok := unit.ParseFrameOp("wait")
	assert.True(t, ok)
	assert.Equal(t, unit.OpWait, op)

	_, ok = unit.ParseFrameOp("sound")
	assert.False(t, ok)
}
