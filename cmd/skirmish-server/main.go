package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"go.uber.org/zap"

	"github.com/andrescamacho/skirmish-go/internal/adapters/metrics"
	"github.com/andrescamacho/skirmish-go/internal/adapters/notify"
	"github.com/andrescamacho/skirmish-go/internal/adapters/persistence"
	"github.com/andrescamacho/skirmish-go/internal/adapters/routing"
	"github.com/andrescamacho/skirmish-go/internal/adapters/savegame"
	"github.com/andrescamacho/skirmish-go/internal/application/simulation"
	"github.com/andrescamacho/skirmish-go/internal/domain/game"
	"github.com/andrescamacho/skirmish-go/internal/domain/order"
	"github.com/andrescamacho/skirmish-go/internal/infrastructure/config"
	"github.com/andrescamacho/skirmish-go/internal/infrastructure/database"
	"github.com/andrescamacho/skirmish-go/internal/infrastructure/logging"
	"github.com/andrescamacho/skirmish-go/internal/infrastructure/pidfile"
	"github.com/andrescamacho/skirmish-go/pkg/utils"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "", "Path to config file")
	scenario := flag.String("scenario", "", "Scenario to start a new session from")
	session := flag.String("session", "", "Session id (resumes its latest autosave when --scenario is empty)")
	flag.Parse()

	fmt.Println("Skirmish Server v0.1.0")
	fmt.Println("======================")

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Acquire PID file lock to prevent two servers sharing one database
	pf := pidfile.New(cfg.Server.PIDFile)
	if err := pf.Acquire(); err != nil {
		log.Fatalf("Failed to acquire PID file lock: %v", err)
	}
	runErr := run(cfg, logger, *scenario, *session)
	if err := pf.Release(); err != nil {
		logger.Warn("failed to release PID file", zap.Error(err))
	}
	if runErr != nil {
		logger.Error("server stopped with error", zap.Error(runErr))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger, scenario, sessionID string) error {
	if scenario == "" && sessionID == "" {
		return fmt.Errorf("either --scenario or --session is required")
	}

	// 1. Database
	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close(db)
	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	logger.Info("database connected", zap.String("type", cfg.Database.Type))

	saves := persistence.NewGormSaveRepository(db, nil)
	journal := persistence.NewGormTransactionRepository(db)

	// 2. Metrics
	var observer order.Observer
	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		repair, err := metrics.Setup()
		if err != nil {
			return err
		}
		observer = repair

		addr := net.JoinHostPort(cfg.Metrics.Host, strconv.Itoa(cfg.Metrics.Port))
		metricsServer = metrics.NewServer(addr, cfg.Metrics.Path)
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", zap.Error(err))
			}
		}()
		logger.Info("metrics server listening", zap.String("addr", addr), zap.String("path", cfg.Metrics.Path))
	}

	// 3. Game state
	g, sessionID, err := loadGame(cfg, saves, scenario, sessionID)
	if err != nil {
		return err
	}
	logger.Info("session loaded",
		zap.String("session_id", sessionID),
		zap.Int64("tick", g.Tick),
		zap.Int("units", g.Units.Len()))

	sim, err := simulation.New(g, simulation.Options{
		Mover:    routing.NewGridMover(g.Map, g.Units, cfg.Simulation.PathNodeLimit),
		Notifier: notify.NewZapNotifier(logger, cfg.Simulation.InboxSize),
		Observer: observer,
	})
	if err != nil {
		return err
	}

	runner := simulation.NewRunner(sim, simulation.RunnerConfig{
		SessionID:      sessionID,
		TicksPerSecond: cfg.Simulation.TicksPerSecond,
		MaxTicks:       cfg.Simulation.MaxTicks,
		AutosaveEvery:  cfg.Simulation.AutosaveEvery,
	}, savegame.Marshal, saves, journal, nil, logger)

	// 4. Run until the tick limit or a shutdown signal
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	runErr := runner.Run(ctx)

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("metrics server shutdown failed", zap.Error(err))
		}
	}

	return runErr
}

// loadGame starts from a scenario file, or resumes the latest autosave of the
// session when no scenario is given
func loadGame(cfg *config.Config, saves game.SaveRepository, scenario, sessionID string) (*game.Game, string, error) {
	opts := savegame.LoadOptions{StrictRefs: cfg.Simulation.StrictLoad}

	if scenario == "" {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		save, err := saves.Latest(ctx, sessionID)
		if err != nil {
			return nil, "", fmt.Errorf("failed to resume session %s: %w", sessionID, err)
		}
		g, _, err := savegame.Unmarshal(save.Payload, opts)
		if err != nil {
			return nil, "", fmt.Errorf("failed to decode save %s: %w", save.ID, err)
		}
		return g, sessionID, nil
	}

	data, err := os.ReadFile(scenario)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read scenario: %w", err)
	}
	g, file, err := savegame.Unmarshal(data, opts)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load %s: %w", scenario, err)
	}
	if sessionID == "" {
		sessionID = file.Session
	}
	if sessionID == "" {
		sessionID = utils.GenerateSessionID(scenario)
	}
	return g, sessionID, nil
}
