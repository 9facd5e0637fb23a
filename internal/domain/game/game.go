package game

import (
	"fmt"
	"slices"
	"strings"

	"github.com/andrescamacho/skirmish-go/internal/domain/player"
	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
	"github.com/andrescamacho/skirmish-go/internal/domain/unit"
	"github.com/andrescamacho/skirmish-go/internal/domain/world"
)

// Game is the complete simulated state: map, players, unit types and units
//
// Invariants:
// - player ids are unique
// - unit type idents are unique
// - players and types are kept in ascending id / ident order
type Game struct {
	Tick    int64
	Map     *world.Map
	Units   *unit.Registry
	players []*player.Player
	types   []*unit.Type
}

// New creates an empty game on a map
func New(m *world.Map) *Game {
	return &Game{Map: m, Units: unit.NewRegistry()}
}

// AddPlayer registers a player
func (g *Game) AddPlayer(p *player.Player) error {
	if g.Player(p.ID) != nil {
		return shared.NewValidationError("player_id", fmt.Sprintf("duplicate player %s", p.ID))
	}
	g.players = append(g.players, p)
	slices.SortFunc(g.players, func(a, b *player.Player) int { return a.ID.Value() - b.ID.Value() })
	return nil
}

// Player returns a player by id, or nil
func (g *Game) Player(id shared.PlayerID) *player.Player {
	for _, p := range g.players {
		if p.ID.Equals(id) {
			return p
		}
	}
	return nil
}

// Players returns every player in id order
func (g *Game) Players() []*player.Player {
	return slices.Clone(g.players)
}

// AddType registers a unit type after validating it
func (g *Game) AddType(t *unit.Type) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if g.Type(t.Ident) != nil {
		return shared.NewValidationError("ident", fmt.Sprintf("duplicate unit type %s", t.Ident))
	}
	g.types = append(g.types, t)
	slices.SortFunc(g.types, func(a, b *unit.Type) int { return strings.Compare(a.Ident, b.Ident) })
	return nil
}

// Type returns a unit type by ident, or nil
func (g *Game) Type(ident string) *unit.Type {
	for _, t := range g.types {
		if t.Ident == ident {
			return t
		}
	}
	return nil
}

// Types returns every unit type in ident order
func (g *Game) Types() []*unit.Type {
	return slices.Clone(g.types)
}
