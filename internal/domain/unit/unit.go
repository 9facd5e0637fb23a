package unit

import (
	"fmt"

	"github.com/andrescamacho/skirmish-go/internal/domain/player"
	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
)

// Order is a directive a unit executes once per simulated frame. Concrete
// orders live in the order package; the unit only queues them.
type Order interface {
	Action() string
	IsFinished() bool
}

// Unit is a building or mobile unit placed on the map
//
// Invariants:
// - 0 <= HP <= Type.MaxHP
// - Destroyed units keep their registry slot until no order references them
type Unit struct {
	handle Handle
	refs   int

	Type    *Type
	Player  *player.Player
	Tile    shared.TilePos
	HP      int
	Heading shared.Heading

	// State is the action sub-state counter, reset when an action restarts
	State    int
	Anim     AnimState
	MoveWait int

	Destroyed bool
	Removed   bool

	// SeenBy is a bitset of players that have had this unit in sight
	SeenBy uint16

	Construction *Construction
	Orders       []Order
}

// New creates an unplaced unit; Registry.Add assigns its handle
func New(t *Type, owner *player.Player, tile shared.TilePos, hp int) (*Unit, error) {
	u := &Unit{
		Type:   t,
		Player: owner,
		Tile:   tile,
		HP:     hp,
	}
	if err := u.validate(); err != nil {
		return nil, err
	}
	return u, nil
}

func (u *Unit) validate() error {
	if u.Type == nil {
		return shared.NewInvalidUnitDataError("?", "type cannot be nil")
	}
	if u.Player == nil {
		return shared.NewInvalidUnitDataError(u.Type.Ident, "player cannot be nil")
	}
	if u.HP < 0 || u.HP > u.Type.MaxHP {
		return shared.NewInvalidUnitDataError(u.Type.Ident, fmt.Sprintf("hp %d outside [0,%d]", u.HP, u.Type.MaxHP))
	}
	return nil
}

// Handle returns the registry handle of the unit
func (u *Unit) Handle() Handle {
	return u.handle
}

// Ref returns the stable textual reference used in saves
func (u *Unit) Ref() string {
	return u.handle.Ref()
}

// Refs returns the number of orders holding this unit as a goal
func (u *Unit) Refs() int {
	return u.refs
}

// Retain records a non-owning reference from an order
func (u *Unit) Retain() {
	u.refs++
}

// Release drops a reference recorded by Retain
func (u *Unit) Release() {
	if u.refs > 0 {
		u.refs--
	}
}

// IsAliveOnMap returns true if the unit exists and is placed on the map
func (u *Unit) IsAliveOnMap() bool {
	return !u.Destroyed && !u.Removed
}

// IsDamaged returns true if hit points are below maximum
func (u *Unit) IsDamaged() bool {
	return u.HP < u.Type.MaxHP
}

// UnderConstruction returns true while the construction sub-state is active
func (u *Unit) UnderConstruction() bool {
	return u.Construction != nil
}

// Center returns the tile at the centre of the unit footprint
func (u *Unit) Center() shared.TilePos {
	return u.Tile.Add(u.Type.HalfTileSize())
}

// ResetState restarts the action sub-state and the animation cursor
func (u *Unit) ResetState() {
	u.State = 0
	u.Anim.Frame = 0
	u.Anim.Wait = 0
	u.Anim.Unbreakable = false
}

// FaceTowards turns the unit towards a tile
func (u *Unit) FaceTowards(target shared.TilePos) {
	u.Heading = shared.HeadingFromDelta(u.Heading, target.Sub(u.Tile))
}

// CurrentOrder returns the head of the order queue or nil
func (u *Unit) CurrentOrder() Order {
	if len(u.Orders) == 0 {
		return nil
	}
	return u.Orders[0]
}

// PushOrder appends an order to the queue
func (u *Unit) PushOrder(o Order) {
	u.Orders = append(u.Orders, o)
}

// PopOrder removes the head of the queue
func (u *Unit) PopOrder() Order {
	if len(u.Orders) == 0 {
		return nil
	}
	o := u.Orders[0]
	u.Orders[0] = nil
	u.Orders = u.Orders[1:]
	return o
}

// Damage removes hit points, destroying the unit at zero
func (u *Unit) Damage(amount int) {
	if amount <= 0 || u.Destroyed {
		return
	}
	u.HP -= amount
	if u.HP <= 0 {
		u.HP = 0
		u.Destroyed = true
	}
}

func (u *Unit) String() string {
	return fmt.Sprintf("%s(%s)", u.Type.Ident, u.Ref())
}
