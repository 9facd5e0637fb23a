package world

import (
	"github.com/andrescamacho/skirmish-go/internal/domain/player"
	"github.com/andrescamacho/skirmish-go/internal/domain/unit"
)

// Sight answers visibility and distance queries against the unit registry
type Sight struct {
	units *unit.Registry
}

// NewSight creates a visibility service over a registry
func NewSight(units *unit.Registry) *Sight {
	return &Sight{units: units}
}

// Refresh marks every unit as seen by the players currently observing it
func (s *Sight) Refresh() {
	all := s.units.Units()
	for _, target := range all {
		if !target.IsAliveOnMap() {
			continue
		}
		target.SeenBy |= target.Player.ID.Mask()
		for _, observer := range all {
			if observer.IsAliveOnMap() && unit.MapDistance(observer, target) <= observer.Type.SightRange {
				target.SeenBy |= observer.Player.ID.Mask()
			}
		}
	}
}

// InSight returns true if any live unit of p currently sees target
func (s *Sight) InSight(target *unit.Unit, p *player.Player) bool {
	for _, observer := range s.units.Units() {
		if observer.Player != p || !observer.IsAliveOnMap() {
			continue
		}
		if unit.MapDistance(observer, target) <= observer.Type.SightRange {
			return true
		}
	}
	return false
}

// IsVisibleAsGoal reports whether p may keep target as an order goal.
// Computer players see everything alive; others need the target in sight,
// or, for fog-persistent types such as buildings, to have seen it before.
func (s *Sight) IsVisibleAsGoal(target *unit.Unit, p *player.Player) bool {
	if !target.IsAliveOnMap() {
		return false
	}
	if p.AIEnabled || target.Player == p {
		return true
	}
	if s.InSight(target, p) {
		return true
	}
	return target.Type.VisibleUnderFog && target.SeenBy&p.ID.Mask() != 0
}

// MapDistance returns the footprint distance between two units
func (s *Sight) MapDistance(a, b *unit.Unit) int {
	return unit.MapDistance(a, b)
}
