package simulation

import (
	"fmt"

	"github.com/andrescamacho/skirmish-go/internal/domain/game"
	"github.com/andrescamacho/skirmish-go/internal/domain/order"
	"github.com/andrescamacho/skirmish-go/internal/domain/player"
	"github.com/andrescamacho/skirmish-go/internal/domain/resource"
	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
	"github.com/andrescamacho/skirmish-go/internal/domain/unit"
	"github.com/andrescamacho/skirmish-go/internal/domain/world"
)

// Options wires the collaborators orders use during a frame
type Options struct {
	Mover    order.Mover
	Notifier player.Notifier
	Observer order.Observer

	// Animator defaults to unit.AnimationPlayer
	Animator order.Animator
}

// Simulation advances a game one frame at a time. A frame only touches
// integer state and visits units in slot order, so peers fed the same commands
// stay in lockstep.
type Simulation struct {
	game  *game.Game
	sight *world.Sight
	env   order.Env
}

// New creates a simulation over g
func New(g *game.Game, opts Options) (*Simulation, error) {
	if g == nil {
		return nil, fmt.Errorf("simulation needs a game")
	}
	if opts.Mover == nil {
		return nil, fmt.Errorf("simulation needs a mover")
	}
	animator := opts.Animator
	if animator == nil {
		animator = unit.AnimationPlayer{}
	}

	sight := world.NewSight(g.Units)
	return &Simulation{
		game:  g,
		sight: sight,
		env: order.Env{
			Tick:     g.Tick,
			Units:    g.Units,
			Mover:    opts.Mover,
			Sight:    sight,
			Animator: animator,
			Notifier: opts.Notifier,
			Observer: opts.Observer,
		},
	}, nil
}

// Game returns the simulated state
func (s *Simulation) Game() *game.Game {
	return s.game
}

// Tick returns the number of the last simulated frame
func (s *Simulation) Tick() int64 {
	return s.game.Tick
}

// Step simulates one frame and returns how many dead units were purged
func (s *Simulation) Step() int {
	s.game.Tick++
	s.env.Tick = s.game.Tick
	s.sight.Refresh()

	for _, u := range s.game.Units.Units() {
		if u.Destroyed {
			order.Clear(&s.env, u)
			continue
		}
		order.Tick(&s.env, u)
	}

	return s.game.Units.PurgeDestroyed()
}

// IssueRepair replaces the orders of worker with a repair of target
func (s *Simulation) IssueRepair(worker, target *unit.Unit) (*order.Repair, error) {
	if err := s.checkWorker(worker); err != nil {
		return nil, err
	}
	if target == nil || target.Destroyed {
		return nil, shared.NewUnitError(worker.Ref(), "repair target is gone")
	}
	o := order.NewRepair(s.game.Units, worker, target)
	order.Replace(&s.env, worker, o)
	return o, nil
}

// IssueRepairAt replaces the orders of worker with a repair aimed at a tile
func (s *Simulation) IssueRepairAt(worker *unit.Unit, tile shared.TilePos) (*order.Repair, error) {
	if err := s.checkWorker(worker); err != nil {
		return nil, err
	}
	if !s.game.Map.InBounds(tile) {
		return nil, shared.NewValidationError("tile", fmt.Sprintf("%s is off the map", tile))
	}
	o := order.NewRepairAt(worker, tile)
	order.Replace(&s.env, worker, o)
	return o, nil
}

func (s *Simulation) checkWorker(worker *unit.Unit) error {
	if worker == nil || s.game.Units.Get(worker.Handle()) != worker {
		return shared.NewDomainError("worker is not registered")
	}
	if !worker.IsAliveOnMap() {
		return shared.NewUnitError(worker.Ref(), "worker cannot take orders")
	}
	return nil
}

// DrainJournals collects pending ledger movements of every player in id order
func (s *Simulation) DrainJournals() []*resource.Transaction {
	var out []*resource.Transaction
	for _, p := range s.game.Players() {
		out = append(out, p.Resources.DrainJournal()...)
	}
	return out
}
