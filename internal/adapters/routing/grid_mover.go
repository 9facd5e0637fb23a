package routing

import (
	"github.com/andrescamacho/skirmish-go/internal/domain/order"
	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
	"github.com/andrescamacho/skirmish-go/internal/domain/unit"
	"github.com/andrescamacho/skirmish-go/internal/domain/world"
)

// pointType is the footprint of a bare destination tile
var pointType = &unit.Type{Ident: "tile", MaxHP: 1, TileWidth: 1, TileHeight: 1}

// GridMover implements order.Mover with tile-by-tile A* movement over the map.
// Terrain and the footprints of other live units block; the goal's own
// footprint does not, so a path may end against it.
type GridMover struct {
	terrain  *world.Map
	units    *unit.Registry
	maxNodes int
}

// NewGridMover creates a mover over a map and the units standing on it.
// maxNodes bounds each search; 0 means the whole map.
func NewGridMover(terrain *world.Map, units *unit.Registry, maxNodes int) *GridMover {
	return &GridMover{terrain: terrain, units: units, maxNodes: maxNodes}
}

// ResetPath implements order.Mover
func (m *GridMover) ResetPath(u *unit.Unit, path *order.PathData) {
	path.Reset()
}

// Advance implements order.Mover. Arrival is checked before stepping; a unit
// steps at most once every Type.MoveTicks frames.
func (m *GridMover) Advance(u *unit.Unit, dest order.Destination, path *order.PathData) order.MoveResult {
	goal := newRangeGoal(u.Type, dest)
	if goal.reached(u.Tile) {
		path.Fast = false
		path.Steps = nil
		return order.MoveArrived
	}
	if !u.Type.CanMove() {
		return order.MoveBlocked
	}
	if u.MoveWait > 0 {
		u.MoveWait--
		return order.MoveProgressing
	}

	view := m.occupancy(u, dest.Goal)
	if path.Fast || len(path.Steps) == 0 {
		steps, ok := findPath(view, u.Tile, goal, m.maxNodes)
		if !ok {
			return order.MoveBlocked
		}
		path.Fast = false
		path.Steps = steps
	}

	d, ok := path.Next()
	if !ok {
		return order.MoveProgressing
	}
	next := u.Tile.Add(d.Offset())
	if !view.passable(next) {
		// something moved into the way since planning
		path.Fast = true
		return order.MoveProgressing
	}

	u.Tile = next
	u.Heading = shared.HeadingFromDelta(u.Heading, d.Offset())
	u.MoveWait = u.Type.MoveTicks - 1
	return order.MoveProgressing
}

// occupancy builds the passability view for one unit. The unit's own
// footprint and the goal footprint are free.
func (m *GridMover) occupancy(self *unit.Unit, goal *unit.Unit) *occupancyGrid {
	w, h := m.terrain.Width(), m.terrain.Height()
	g := &occupancyGrid{w: w, h: h, blocked: make([]bool, w*h), self: self.Type}
	for _, t := range m.terrain.BlockedTiles() {
		g.blocked[t.Y*w+t.X] = true
	}
	for _, other := range m.units.Units() {
		if other == self || other == goal || !other.IsAliveOnMap() {
			continue
		}
		for dy := 0; dy < other.Type.TileHeight; dy++ {
			for dx := 0; dx < other.Type.TileWidth; dx++ {
				g.mark(shared.NewTilePos(other.Tile.X+dx, other.Tile.Y+dy))
			}
		}
	}
	return g
}

type occupancyGrid struct {
	w, h    int
	blocked []bool
	self    *unit.Type
}

func (g *occupancyGrid) width() int  { return g.w }
func (g *occupancyGrid) height() int { return g.h }

func (g *occupancyGrid) mark(t shared.TilePos) {
	if t.X >= 0 && t.Y >= 0 && t.X < g.w && t.Y < g.h {
		g.blocked[t.Y*g.w+t.X] = true
	}
}

// passable checks the whole footprint of the moving unit placed at t
func (g *occupancyGrid) passable(t shared.TilePos) bool {
	for dy := 0; dy < g.self.TileHeight; dy++ {
		for dx := 0; dx < g.self.TileWidth; dx++ {
			x, y := t.X+dx, t.Y+dy
			if x < 0 || y < 0 || x >= g.w || y >= g.h || g.blocked[y*g.w+x] {
				return false
			}
		}
	}
	return true
}

// rangeGoal accepts tiles from which the mover's footprint is within range
// of the destination footprint
type rangeGoal struct {
	mover     *unit.Type
	target    *unit.Type
	targetPos shared.TilePos
	rng       int
}

func newRangeGoal(mover *unit.Type, dest order.Destination) rangeGoal {
	g := rangeGoal{mover: mover, target: pointType, targetPos: dest.Tile, rng: dest.Range}
	if dest.Goal != nil {
		g.target = dest.Goal.Type
		g.targetPos = dest.Goal.Tile
	}
	return g
}

func (g rangeGoal) reached(t shared.TilePos) bool {
	return unit.MapDistanceBetweenTypes(g.mover, t, g.target, g.targetPos) <= g.rng
}

// estimate never overestimates: one step shrinks each axis gap by at most one
func (g rangeGoal) estimate(t shared.TilePos) int {
	dx, dy := unit.FootprintGap(g.mover, t, g.target, g.targetPos)
	return max(0, max(dx, dy)-g.rng)
}
