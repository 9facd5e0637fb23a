package simulation_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/andrescamacho/skirmish-go/internal/adapters/savegame"
	"github.com/andrescamacho/skirmish-go/internal/application/simulation"
	"github.com/andrescamacho/skirmish-go/internal/domain/game"
	"github.com/andrescamacho/skirmish-go/internal/domain/resource"
	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
)

type memorySaves struct {
	saves []*game.SavedGame
	err   error
}

func (m *memorySaves) Save(ctx context.Context, save *game.SavedGame) error {
	if m.err != nil {
		return m.err
	}
	save.ID = "save-" + string(rune('a'+len(m.saves)))
	m.saves = append(m.saves, save)
	return nil
}

func (m *memorySaves) FindByID(ctx context.Context, id string) (*game.SavedGame, error) {
	for _, s := range m.saves {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, &game.ErrSaveNotFound{ID: id}
}

func (m *memorySaves) Latest(ctx context.Context, sessionID string) (*game.SavedGame, error) {
	if len(m.saves) == 0 {
		return nil, &game.ErrSaveNotFound{SessionID: sessionID}
	}
	return m.saves[len(m.saves)-1], nil
}

type memoryJournal struct {
	batches [][]*resource.Transaction
	fail    int
}

func (m *memoryJournal) CreateBatch(ctx context.Context, sessionID string, txs []*resource.Transaction) error {
	if m.fail > 0 {
		m.fail--
		return errors.New("database is gone")
	}
	m.batches = append(m.batches, txs)
	return nil
}

func (m *memoryJournal) FindByPlayer(ctx context.Context, sessionID string, playerID shared.PlayerID, opts resource.QueryOptions) ([]*resource.Transaction, error) {
	var out []*resource.Transaction
	for _, b := range m.batches {
		for _, tx := range b {
			if tx.PlayerID().Equals(playerID) {
				out = append(out, tx)
			}
		}
	}
	return out, nil
}

func (m *memoryJournal) count() int {
	n := 0
	for _, b := range m.batches {
		n += len(b)
	}
	return n
}

func TestRunner_CompletesAfterMaxTicks(t *testing.T) {
	// Arrange
	sim := load(t, repairScenario)
	saves := &memorySaves{}
	journal := &memoryJournal{}
	runner := simulation.NewRunner(sim, simulation.RunnerConfig{
		SessionID:     "run-1",
		MaxTicks:      90,
		AutosaveEvery: 30,
	}, savegame.Marshal, saves, journal, nil, zap.NewNop())

	// Act
	err := runner.Run(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, shared.LifecycleStatusCompleted, runner.Status())
	assert.Equal(t, int64(90), sim.Tick())

	require.Len(t, saves.saves, 3, "the final save at tick 90 is not repeated")
	for i, s := range saves.saves {
		assert.Equal(t, int64(30*(i+1)), s.Tick)
		assert.Equal(t, "run-1", s.SessionID)
	}
	g, f, err := savegame.Unmarshal(saves.saves[2].Payload, savegame.LoadOptions{StrictRefs: true})
	require.NoError(t, err)
	assert.Equal(t, int64(90), g.Tick)
	assert.Equal(t, "run-1", f.Session)

	assert.Equal(t, 10, journal.count())
}

func TestRunner_CancelledContextStops(t *testing.T) {
	// Arrange
	sim := load(t, repairScenario)
	saves := &memorySaves{}
	runner := simulation.NewRunner(sim, simulation.RunnerConfig{SessionID: "run-2", TicksPerSecond: 30},
		savegame.Marshal, saves, nil, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Act
	err := runner.Run(ctx)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, shared.LifecycleStatusStopped, runner.Status())
	assert.Equal(t, int64(0), sim.Tick())
	require.Len(t, saves.saves, 1, "a stopped session is still saved")
}

func TestRunner_PacesFrames(t *testing.T) {
	// Arrange
	sim := load(t, repairScenario)
	runner := simulation.NewRunner(sim, simulation.RunnerConfig{TicksPerSecond: 200, MaxTicks: 11},
		nil, nil, nil, nil, nil)

	// Act
	began := time.Now()
	require.NoError(t, runner.Run(context.Background()))

	// Assert - the first frame is free, ten more take 50ms at 200 per second
	assert.GreaterOrEqual(t, time.Since(began), 40*time.Millisecond)
	assert.Equal(t, int64(11), sim.Tick())
}

func TestRunner_RetriesJournalAfterFailure(t *testing.T) {
	// Arrange
	sim := load(t, repairScenario)
	journal := &memoryJournal{fail: 1}
	core, logs := observer.New(zap.WarnLevel)
	runner := simulation.NewRunner(sim, simulation.RunnerConfig{MaxTicks: 90, AutosaveEvery: 45},
		savegame.Marshal, &memorySaves{}, journal, nil, zap.New(core))

	// Act
	require.NoError(t, runner.Run(context.Background()))

	// Assert
	assert.Equal(t, 10, journal.count(), "nothing is lost when a flush fails")
	assert.Equal(t, 1, logs.FilterMessage("failed to persist ledger journal").Len())
}

func TestRunner_FinalSaveFailureFailsSession(t *testing.T) {
	// Arrange
	sim := load(t, repairScenario)
	saves := &memorySaves{err: errors.New("disk full")}
	runner := simulation.NewRunner(sim, simulation.RunnerConfig{MaxTicks: 5}, savegame.Marshal, saves, nil, nil, nil)

	// Act
	err := runner.Run(context.Background())

	// Assert
	require.Error(t, err)
	assert.Equal(t, shared.LifecycleStatusFailed, runner.Status())
}

func TestRunner_RunsOnce(t *testing.T) {
	sim := load(t, repairScenario)
	runner := simulation.NewRunner(sim, simulation.RunnerConfig{MaxTicks: 1}, nil, nil, nil, nil, nil)
	require.NoError(t, runner.Run(context.Background()))

	assert.Error(t, runner.Run(context.Background()))
}
