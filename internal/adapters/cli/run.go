package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/andrescamacho/skirmish-go/internal/adapters/notify"
	"github.com/andrescamacho/skirmish-go/internal/adapters/persistence"
	"github.com/andrescamacho/skirmish-go/internal/adapters/routing"
	"github.com/andrescamacho/skirmish-go/internal/adapters/savegame"
	"github.com/andrescamacho/skirmish-go/internal/application/simulation"
	"github.com/andrescamacho/skirmish-go/internal/domain/game"
	"github.com/andrescamacho/skirmish-go/internal/domain/order"
	"github.com/andrescamacho/skirmish-go/internal/domain/resource"
	"github.com/andrescamacho/skirmish-go/internal/domain/unit"
	"github.com/andrescamacho/skirmish-go/internal/infrastructure/database"
	"github.com/andrescamacho/skirmish-go/pkg/utils"
)

// runOptions carries the flags of the run command
type runOptions struct {
	scenario  string
	ticks     int64
	savePath  string
	sessionID string
	realtime  bool
	strict    bool
	persist   bool
}

// NewRunCommand creates the run command
func NewRunCommand() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Simulate a scenario or save file",
		Long: `Load a scenario (or a save written by a previous run) and simulate it.

Without --realtime frames run as fast as possible. With --realtime they are
paced at simulation.ticks_per_second. Interrupting a run stops it cleanly and
still writes the save.

With --persist, autosaves and the resource journal are stored in the
configured database under the session id.

Examples:
  skirmish run --scenario scenarios/farm.yaml --ticks 300
  skirmish run --scenario scenarios/farm.yaml --ticks 300 --save out.yaml
  skirmish run --scenario out.yaml --ticks 100 --strict
  skirmish run --scenario scenarios/farm.yaml --realtime --persist`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("ticks") {
				opts.ticks = settings.Simulation.MaxTicks
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runScenario(ctx, cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.scenario, "scenario", "", "Scenario or save file to load [required]")
	cmd.Flags().Int64Var(&opts.ticks, "ticks", 0, "Number of frames to simulate (default: simulation.max_ticks)")
	cmd.Flags().StringVar(&opts.savePath, "save", "", "Write the final state to this file")
	cmd.Flags().StringVar(&opts.sessionID, "session", "", "Session id (default: taken from the save or generated)")
	cmd.Flags().BoolVar(&opts.realtime, "realtime", false, "Pace frames at simulation.ticks_per_second")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Fail when a saved order goal no longer exists")
	cmd.Flags().BoolVar(&opts.persist, "persist", false, "Store autosaves and the journal in the database")
	cmd.MarkFlagRequired("scenario")

	return cmd
}

func runScenario(ctx context.Context, out io.Writer, opts runOptions) error {
	if opts.ticks <= 0 && !opts.realtime {
		return fmt.Errorf("--ticks is required unless --realtime is set")
	}

	data, err := os.ReadFile(opts.scenario)
	if err != nil {
		return fmt.Errorf("failed to read scenario: %w", err)
	}
	g, file, err := savegame.Unmarshal(data, savegame.LoadOptions{
		StrictRefs: opts.strict || settings.Simulation.StrictLoad,
	})
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", opts.scenario, err)
	}

	sessionID := opts.sessionID
	if sessionID == "" {
		sessionID = file.Session
	}
	if sessionID == "" {
		sessionID = utils.GenerateSessionID(opts.scenario)
	}

	report := newRunReport()
	notifier := notify.NewZapNotifier(logger, settings.Simulation.InboxSize)
	sim, err := simulation.New(g, simulation.Options{
		Mover:    routing.NewGridMover(g.Map, g.Units, settings.Simulation.PathNodeLimit),
		Notifier: notifier,
		Observer: report,
	})
	if err != nil {
		return err
	}

	runnerCfg := simulation.RunnerConfig{
		SessionID: sessionID,
		MaxTicks:  opts.ticks,
	}
	if opts.realtime {
		runnerCfg.TicksPerSecond = settings.Simulation.TicksPerSecond
	}

	var (
		saves   game.SaveRepository
		journal resource.TransactionRepository
	)
	if opts.persist {
		db, err := openDatabase(settings)
		if err != nil {
			return err
		}
		defer database.Close(db)
		saves = persistence.NewGormSaveRepository(db, nil)
		journal = persistence.NewGormTransactionRepository(db)
		runnerCfg.AutosaveEvery = settings.Simulation.AutosaveEvery
	}

	started := g.Tick
	runner := simulation.NewRunner(sim, runnerCfg, savegame.Marshal, saves, journal, nil, logger)
	if err := runner.Run(ctx); err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	if opts.savePath != "" {
		payload, err := runner.Snapshot()
		if err != nil {
			return fmt.Errorf("failed to encode save: %w", err)
		}
		if err := os.WriteFile(opts.savePath, payload, 0o644); err != nil {
			return fmt.Errorf("failed to write save: %w", err)
		}
		logger.Info("save written", zap.String("path", opts.savePath), zap.Int("bytes", len(payload)))
	}

	fmt.Fprintf(out, "Session:   %s\n", sessionID)
	fmt.Fprintf(out, "Status:    %s\n", runner.Status())
	fmt.Fprintf(out, "Frames:    %d (tick %d to %d)\n", g.Tick-started, started, g.Tick)
	report.write(out)
	writePlayers(out, g)

	if notifier.Count() > 0 {
		fmt.Fprintln(out, "\nMESSAGES")
		for _, p := range g.Players() {
			for _, note := range notifier.Drain(p.ID) {
				fmt.Fprintf(out, "  %s\n", note)
			}
		}
	}
	return nil
}

// runReport implements order.Observer and sums up what orders did in a run
type runReport struct {
	steps    int
	hp       int
	spent    resource.Costs
	finished map[order.FinishReason]int
}

func newRunReport() *runReport {
	return &runReport{finished: make(map[order.FinishReason]int)}
}

// RepairStep implements order.Observer
func (r *runReport) RepairStep(u, goal *unit.Unit, hpRestored int, costs resource.Costs) {
	r.steps++
	r.hp += hpRestored
	for i, amount := range costs {
		r.spent[i] += amount
	}
}

// OrderFinished implements order.Observer
func (r *runReport) OrderFinished(u *unit.Unit, action string, reason order.FinishReason) {
	r.finished[reason]++
}

func (r *runReport) write(out io.Writer) {
	fmt.Fprintf(out, "Repairs:   %d steps, %d hp restored, spent %s\n", r.steps, r.hp, r.spent)

	reasons := make([]string, 0, len(r.finished))
	for reason, n := range r.finished {
		reasons = append(reasons, fmt.Sprintf("%s=%d", reason, n))
	}
	sort.Strings(reasons)
	if len(reasons) == 0 {
		reasons = append(reasons, "none")
	}
	fmt.Fprintf(out, "Finished:  %s\n", strings.Join(reasons, " "))
}

// writePlayers prints one row per player with its stock
func writePlayers(out io.Writer, g *game.Game) {
	fmt.Fprintln(out, "\nPLAYERS")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	header := []string{"ID", "NAME", "AI"}
	for _, k := range resource.Spendable() {
		header = append(header, strings.ToUpper(k.String()))
	}
	fmt.Fprintln(w, strings.Join(header, "\t"))

	for _, p := range g.Players() {
		row := []string{p.ID.String(), p.Name, fmt.Sprintf("%t", p.AIEnabled)}
		for _, k := range resource.Spendable() {
			row = append(row, fmt.Sprintf("%d", p.Resources.Stock(k)))
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	w.Flush()
}
