package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/skirmish-go/internal/adapters/persistence"
	"github.com/andrescamacho/skirmish-go/internal/adapters/savegame"
	"github.com/andrescamacho/skirmish-go/internal/domain/game"
	"github.com/andrescamacho/skirmish-go/internal/domain/order"
	"github.com/andrescamacho/skirmish-go/internal/domain/unit"
	"github.com/andrescamacho/skirmish-go/internal/infrastructure/database"
)

// NewSaveCommand creates the save command with subcommands
func NewSaveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Inspect and export save files",
		Long: `Inspect save files and export autosaves stored in the database.

Examples:
  skirmish save inspect out.yaml
  skirmish save export --session farm-1a2b3c4d --out latest.yaml`,
	}

	cmd.AddCommand(newSaveInspectCommand())
	cmd.AddCommand(newSaveExportCommand())

	return cmd
}

// newSaveInspectCommand creates the save inspect subcommand
func newSaveInspectCommand() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Print the players, units and orders of a save",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read save: %w", err)
			}
			g, file, err := savegame.Unmarshal(data, savegame.LoadOptions{StrictRefs: strict})
			if err != nil {
				return fmt.Errorf("failed to load %s: %w", args[0], err)
			}
			inspectGame(cmd.OutOrStdout(), g, file.Session)
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Fail when a saved order goal no longer exists")

	return cmd
}

// newSaveExportCommand creates the save export subcommand
func newSaveExportCommand() *cobra.Command {
	var (
		sessionID string
		saveID    string
		outPath   string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a stored autosave to a file",
		Long: `Write an autosave stored in the database to a file.

The latest save of --session is exported unless --id names a specific one.
The written file can be resumed with 'skirmish run --scenario'.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if sessionID == "" && saveID == "" {
				return fmt.Errorf("either --session or --id flag is required")
			}

			db, err := openDatabase(settings)
			if err != nil {
				return err
			}
			defer database.Close(db)
			repo := persistence.NewGormSaveRepository(db, nil)

			ctx := context.Background()
			var save *game.SavedGame
			if saveID != "" {
				save, err = repo.FindByID(ctx, saveID)
			} else {
				save, err = repo.Latest(ctx, sessionID)
			}
			var notFound *game.ErrSaveNotFound
			if errors.As(err, &notFound) {
				return fmt.Errorf("no save found: %w", err)
			}
			if err != nil {
				return fmt.Errorf("failed to load save: %w", err)
			}

			if err := os.WriteFile(outPath, save.Payload, 0o644); err != nil {
				return fmt.Errorf("failed to write save: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported save %s (session %s, tick %d) to %s\n",
				save.ID, save.SessionID, save.Tick, outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Session whose latest save is exported")
	cmd.Flags().StringVar(&saveID, "id", "", "Save id to export")
	cmd.Flags().StringVar(&outPath, "out", "save.yaml", "Output file")

	return cmd
}

// inspectGame prints a readable overview of a loaded game
func inspectGame(out io.Writer, g *game.Game, session string) {
	if session == "" {
		session = "(none)"
	}
	fmt.Fprintf(out, "Session:   %s\n", session)
	fmt.Fprintf(out, "Tick:      %d\n", g.Tick)
	fmt.Fprintf(out, "Map:       %dx%d, %d blocked tiles\n", g.Map.Width(), g.Map.Height(), len(g.Map.BlockedTiles()))

	writePlayers(out, g)

	fmt.Fprintln(out, "\nUNITS")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "REF\tTYPE\tPLAYER\tTILE\tHP\tREFS\tORDERS")
	for _, u := range g.Units.Units() {
		orders := make([]string, 0, len(u.Orders))
		for _, o := range u.Orders {
			orders = append(orders, describeOrder(o))
		}
		if len(orders) == 0 {
			orders = append(orders, "idle")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d/%d\t%d\t%s\n",
			u.Ref(), u.Type.Ident, u.Player.ID, u.Tile, u.HP, u.Type.MaxHP, u.Refs(),
			strings.Join(orders, "; "))
	}
	w.Flush()
}

// describeOrder renders one queued order
func describeOrder(o unit.Order) string {
	r, ok := o.(*order.Repair)
	if !ok {
		return o.Action()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", r.Action(), r.State())
	if r.HasGoal() {
		fmt.Fprintf(&b, " goal=%s", r.GoalHandle().Ref())
	}
	fmt.Fprintf(&b, " at %s", r.GoalPos())
	if r.State() == order.RepairRepairing {
		fmt.Fprintf(&b, " cycle=%d", r.RepairCycle())
	}
	if n := len(r.Move.Steps); n > 0 {
		fmt.Fprintf(&b, " path=%d", n)
	}
	if r.IsFinished() {
		b.WriteString(" finished")
	}
	return b.String()
}
