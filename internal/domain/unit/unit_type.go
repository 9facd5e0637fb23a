package unit

import (
	"fmt"

	"github.com/andrescamacho/skirmish-go/internal/domain/resource"
	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
)

// Type holds the stats shared by every unit of one kind
//
// Invariants:
// - Ident is non-empty and unique within a game
// - MaxHP is positive
// - Footprint is at least one tile in both directions
type Type struct {
	Ident string
	Name  string

	MaxHP      int
	TileWidth  int
	TileHeight int
	SightRange int

	// MoveTicks is the number of frames spent per tile step; 0 means immobile
	MoveTicks int

	// Repair stats. RepairRange is the reach of a unit of this type when it
	// repairs; RepairHP and RepairCosts apply when a unit of this type is repaired.
	RepairRange int
	RepairHP    int
	RepairCosts resource.Costs

	// BuildCosts[resource.Time] scales construction progress into hit points
	BuildCosts resource.Costs

	Building        bool
	VisibleUnderFog bool

	RepairAnimation *Animation
}

// Validate checks the type invariants
func (t *Type) Validate() error {
	if t.Ident == "" {
		return shared.NewValidationError("ident", "cannot be empty")
	}
	if t.MaxHP <= 0 {
		return shared.NewValidationError("max_hp", fmt.Sprintf("must be positive for %s", t.Ident))
	}
	if t.TileWidth <= 0 || t.TileHeight <= 0 {
		return shared.NewValidationError("tile_size", fmt.Sprintf("must be positive for %s", t.Ident))
	}
	if t.RepairHP < 0 || t.RepairRange < 0 || t.MoveTicks < 0 || t.SightRange < 0 {
		return shared.NewValidationError("stats", fmt.Sprintf("cannot be negative for %s", t.Ident))
	}
	for _, k := range resource.Spendable() {
		if t.RepairCosts[k] < 0 {
			return shared.NewValidationError("repair_costs", fmt.Sprintf("%s cost cannot be negative for %s", k, t.Ident))
		}
	}
	return nil
}

// HalfTileSize returns the offset from the top-left tile to the footprint centre
func (t *Type) HalfTileSize() shared.TilePos {
	return shared.NewTilePos(t.TileWidth/2, t.TileHeight/2)
}

// CanMove returns true if units of this type walk
func (t *Type) CanMove() bool {
	return t.MoveTicks > 0
}
