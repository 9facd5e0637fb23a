package simulation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/andrescamacho/skirmish-go/internal/adapters/metrics"
	"github.com/andrescamacho/skirmish-go/internal/domain/game"
	"github.com/andrescamacho/skirmish-go/internal/domain/resource"
	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
)

// persistTimeout bounds every repository call made between frames
const persistTimeout = 5 * time.Second

// Encoder turns the current game into a save payload
type Encoder func(g *game.Game, sessionID string) ([]byte, error)

// RunnerConfig controls pacing and persistence of a session
type RunnerConfig struct {
	SessionID string

	// TicksPerSecond paces frames in realtime; 0 runs as fast as possible
	TicksPerSecond int

	// MaxTicks stops the session after this many frames; 0 runs until cancelled
	MaxTicks int64

	// AutosaveEvery saves a snapshot every N frames; 0 disables autosave
	AutosaveEvery int64
}

// Runner drives a Simulation on a single goroutine
type Runner struct {
	sim       *Simulation
	cfg       RunnerConfig
	encode    Encoder
	saves     game.SaveRepository
	journal   resource.TransactionRepository
	lifecycle *shared.LifecycleStateMachine
	clock     shared.Clock
	limiter   *rate.Limiter
	logger    *zap.Logger

	// mu guards the game between frames for readers such as Snapshot
	mu        sync.Mutex
	pending   []*resource.Transaction
	savedTick int64
	saved     bool
}

// NewRunner creates a runner. saves, journal and encode may be nil, which
// disables the matching persistence.
func NewRunner(
	sim *Simulation,
	cfg RunnerConfig,
	encode Encoder,
	saves game.SaveRepository,
	journal resource.TransactionRepository,
	clock shared.Clock,
	logger *zap.Logger,
) *Runner {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	var limiter *rate.Limiter
	if cfg.TicksPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.TicksPerSecond), 1)
	}

	return &Runner{
		sim:       sim,
		cfg:       cfg,
		encode:    encode,
		saves:     saves,
		journal:   journal,
		lifecycle: shared.NewLifecycleStateMachine(clock),
		clock:     clock,
		limiter:   limiter,
		logger:    logger.With(zap.String("session_id", cfg.SessionID)),
	}
}

// Status returns the lifecycle state of the session
func (r *Runner) Status() shared.LifecycleStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lifecycle.Status()
}

// Snapshot encodes the game between two frames
func (r *Runner) Snapshot() ([]byte, error) {
	if r.encode == nil {
		return nil, fmt.Errorf("runner has no save encoder")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.encode(r.sim.Game(), r.cfg.SessionID)
}

// Run simulates frames until MaxTicks is reached or ctx is cancelled. A
// cancelled session is stopped, not failed, and still flushes and saves.
func (r *Runner) Run(ctx context.Context) error {
	r.mu.Lock()
	err := r.lifecycle.Start()
	r.mu.Unlock()
	if err != nil {
		return err
	}

	start := r.sim.Tick()
	r.logger.Info("simulation started",
		zap.Int64("tick", start),
		zap.Int("ticks_per_second", r.cfg.TicksPerSecond),
		zap.Int64("max_ticks", r.cfg.MaxTicks))

	for {
		if r.cfg.MaxTicks > 0 && r.sim.Tick()-start >= r.cfg.MaxTicks {
			return r.finish(func(tick int64) error { return r.lifecycle.Complete(tick) }, "simulation completed")
		}

		// the limiter only fails once ctx is done or its deadline is too close
		if err := r.wait(ctx); err != nil {
			return r.finish(func(tick int64) error { return r.lifecycle.Stop(tick) }, "simulation stopped")
		}

		r.frame()

		if r.cfg.AutosaveEvery > 0 && r.sim.Tick()%r.cfg.AutosaveEvery == 0 {
			r.flushJournal()
			_ = r.autosave()
		}
	}
}

func (r *Runner) wait(ctx context.Context) error {
	if r.limiter != nil {
		return r.limiter.Wait(ctx)
	}
	return ctx.Err()
}

func (r *Runner) frame() {
	r.mu.Lock()
	began := r.clock.Now()
	purged := r.sim.Step()
	drained := r.sim.DrainJournals()
	r.pending = append(r.pending, drained...)
	elapsed := r.clock.Now().Sub(began)
	live := r.sim.Game().Units.Len()
	r.mu.Unlock()

	metrics.RecordTick(elapsed.Seconds(), live)
	for _, tx := range drained {
		metrics.RecordTransaction(tx)
	}
	if purged > 0 {
		r.logger.Debug("purged destroyed units", zap.Int64("tick", r.sim.Tick()), zap.Int("count", purged))
	}
}

// finish flushes and saves a final time. A final save that cannot be stored
// fails the session.
func (r *Runner) finish(transition func(tick int64) error, message string) error {
	r.flushJournal()
	if err := r.autosave(); err != nil {
		r.fail(err)
		return fmt.Errorf("final save failed: %w", err)
	}

	r.mu.Lock()
	tick := r.sim.Tick()
	err := transition(tick)
	runtime := r.lifecycle.RuntimeDuration()
	r.mu.Unlock()
	if err != nil {
		return err
	}

	r.logger.Info(message, zap.Int64("tick", tick), zap.Duration("runtime", runtime))
	return nil
}

func (r *Runner) fail(cause error) {
	r.mu.Lock()
	tick := r.sim.Tick()
	_ = r.lifecycle.Fail(tick, cause)
	r.mu.Unlock()
	r.logger.Error("simulation failed", zap.Int64("tick", tick), zap.Error(cause))
}

// flushJournal hands pending ledger movements to the repository. On error
// they stay pending and are retried with the next flush.
func (r *Runner) flushJournal() {
	r.mu.Lock()
	batch := r.pending
	r.mu.Unlock()
	if len(batch) == 0 {
		return
	}
	if r.journal == nil {
		r.mu.Lock()
		r.pending = r.pending[len(batch):]
		r.mu.Unlock()
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := r.journal.CreateBatch(ctx, r.cfg.SessionID, batch); err != nil {
		r.logger.Warn("failed to persist ledger journal", zap.Int("transactions", len(batch)), zap.Error(err))
		return
	}

	r.mu.Lock()
	r.pending = r.pending[len(batch):]
	r.mu.Unlock()
}

func (r *Runner) autosave() error {
	if r.saves == nil || r.encode == nil {
		return nil
	}
	tick := r.sim.Tick()
	if r.saved && r.savedTick == tick {
		return nil
	}

	payload, err := r.Snapshot()
	if err != nil {
		metrics.RecordAutosave(false)
		r.logger.Error("failed to encode autosave", zap.Int64("tick", tick), zap.Error(err))
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	save := &game.SavedGame{SessionID: r.cfg.SessionID, Tick: tick, Payload: payload}
	if err := r.saves.Save(ctx, save); err != nil {
		metrics.RecordAutosave(false)
		r.logger.Error("failed to store autosave", zap.Int64("tick", tick), zap.Error(err))
		return err
	}

	r.saved, r.savedTick = true, tick
	metrics.RecordAutosave(true)
	r.logger.Info("autosaved", zap.Int64("tick", tick), zap.String("save_id", save.ID), zap.Int("bytes", len(payload)))
	return nil
}
