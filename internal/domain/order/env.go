package order

import (
	"github.com/andrescamacho/skirmish-go/internal/domain/player"
	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
	"github.com/andrescamacho/skirmish-go/internal/domain/unit"
)

// Env bundles the collaborators an order needs during one frame. It is owned
// by the simulation and passed, not stored, so orders stay plain data.
type Env struct {
	Tick         int64
	Units        *unit.Registry
	Mover        Mover
	Sight        Sight
	Animator     Animator
	Notifier     player.Notifier
	Construction ConstructionProgress
	Observer     Observer
}

func (e *Env) observer() Observer {
	if e.Observer == nil {
		return nopObserver{}
	}
	return e.Observer
}

func (e *Env) construction() ConstructionProgress {
	if e.Construction == nil {
		return ConstructionSite{}
	}
	return e.Construction
}

func (e *Env) notifier() player.Notifier {
	if e.Notifier == nil {
		return nopNotifier{}
	}
	return e.Notifier
}

type nopNotifier struct{}

func (nopNotifier) Notify(*player.Player, player.Severity, shared.TilePos, string, ...any) {}
