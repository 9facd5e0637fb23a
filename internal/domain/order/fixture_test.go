package order_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/skirmish-go/internal/domain/order"
	"github.com/andrescamacho/skirmish-go/internal/domain/player"
	"github.com/andrescamacho/skirmish-go/internal/domain/resource"
	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
	"github.com/andrescamacho/skirmish-go/internal/domain/unit"
	"github.com/andrescamacho/skirmish-go/internal/domain/world"
)

// stepMover walks one tile per Advance straight towards the destination.
// It reports arrival before moving, like a path follower checking its goal.
type stepMover struct {
	resets  int
	blocked bool
}

func (m *stepMover) ResetPath(u *unit.Unit, path *order.PathData) {
	m.resets++
	path.Reset()
}

func (m *stepMover) Advance(u *unit.Unit, dest order.Destination, path *order.PathData) order.MoveResult {
	path.Fast = false
	target := dest.Tile
	dist := unit.MapDistanceToTile(u, dest.Tile)
	if dest.Goal != nil {
		target = dest.Goal.Tile
		dist = unit.MapDistance(u, dest.Goal)
	}
	if dist <= dest.Range {
		return order.MoveArrived
	}
	if m.blocked {
		return order.MoveBlocked
	}
	u.Tile = u.Tile.Add(shared.NewTilePos(sign(target.X-u.Tile.X), sign(target.Y-u.Tile.Y)))
	return order.MoveProgressing
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

type recordingNotifier struct {
	notes []player.Notification
}

func (n *recordingNotifier) Notify(p *player.Player, severity player.Severity, at shared.TilePos, format string, args ...any) {
	n.notes = append(n.notes, player.Notification{
		PlayerID: p.ID,
		Severity: severity,
		Tile:     at,
		Message:  fmt.Sprintf(format, args...),
	})
}

type finishedEvent struct {
	action string
	reason order.FinishReason
}

type recordingObserver struct {
	restored int
	finished []finishedEvent
}

func (o *recordingObserver) RepairStep(u, goal *unit.Unit, hpRestored int, costs resource.Costs) {
	o.restored += hpRestored
}

func (o *recordingObserver) OrderFinished(u *unit.Unit, action string, reason order.FinishReason) {
	o.finished = append(o.finished, finishedEvent{action: action, reason: reason})
}

type fixture struct {
	t        *testing.T
	units    *unit.Registry
	mover    *stepMover
	notes    *recordingNotifier
	observer *recordingObserver
	env      *order.Env

	human *player.Player
	enemy *player.Player

	peasant *unit.Type
	farm    *unit.Type
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	units := unit.NewRegistry()
	f := &fixture{
		t:        t,
		units:    units,
		mover:    &stepMover{},
		notes:    &recordingNotifier{},
		observer: &recordingObserver{},
		human:    player.NewPlayer(shared.MustNewPlayerID(0), "human", false, resource.Costs{0, 1000, 1000}),
		enemy:    player.NewPlayer(shared.MustNewPlayerID(1), "orc", true, resource.Costs{0, 1000, 1000}),
		peasant: &unit.Type{
			Ident: "unit-peasant", MaxHP: 30, TileWidth: 1, TileHeight: 1,
			SightRange: 4, MoveTicks: 1, RepairRange: 1, RepairHP: 4,
		},
		farm: &unit.Type{
			Ident: "unit-farm", MaxHP: 100, TileWidth: 1, TileHeight: 1,
			SightRange: 1, RepairHP: 10, Building: true, VisibleUnderFog: true,
			RepairCosts: resource.Costs{0, 5, 2},
			BuildCosts:  resource.Costs{10, 500, 250},
		},
	}
	f.env = &order.Env{
		Units:    units,
		Mover:    f.mover,
		Sight:    world.NewSight(units),
		Animator: unit.AnimationPlayer{},
		Notifier: f.notes,
		Observer: f.observer,
	}
	return f
}

func (f *fixture) place(t *unit.Type, owner *player.Player, x, y, hp int) *unit.Unit {
	f.t.Helper()
	u, err := unit.New(t, owner, shared.NewTilePos(x, y), hp)
	require.NoError(f.t, err)
	f.units.Add(u)
	return u
}

// issueRepair gives worker a fresh repair order against goal
func (f *fixture) issueRepair(worker, goal *unit.Unit) *order.Repair {
	o := order.NewRepair(f.units, worker, goal)
	order.Replace(f.env, worker, o)
	return o
}

func (f *fixture) tick(u *unit.Unit) {
	f.env.Tick++
	order.Tick(f.env, u)
}

func (f *fixture) tickN(u *unit.Unit, n int) {
	for i := 0; i < n; i++ {
		f.tick(u)
	}
}
