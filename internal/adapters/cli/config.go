package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/skirmish-go/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration settings",
		Long: `Inspect Skirmish configuration settings.

Configuration is loaded from multiple sources with priority:
1. Environment variables (SK_* prefix, DATABASE_URL)
2. Config file (config.yaml or --config)
3. Default values

Examples:
  skirmish config show
  SK_SIMULATION_TICKS_PER_SECOND=60 skirmish config show`,
	}

	cmd.AddCommand(newConfigShowCommand())

	return cmd
}

// newConfigShowCommand creates the config show subcommand
func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			displayConfig(cmd.OutOrStdout(), settings)
			return nil
		},
	}
}

func displayConfig(out io.Writer, cfg *config.Config) {
	fmt.Fprintln(out, "Skirmish Configuration")
	fmt.Fprintln(out, "======================")

	fmt.Fprintln(out, "\nDatabase:")
	fmt.Fprintf(out, "  Type:             %s\n", cfg.Database.Type)
	switch {
	case cfg.Database.URL != "":
		fmt.Fprintf(out, "  URL:              %s\n", maskPassword(cfg.Database.URL))
	case cfg.Database.Type == "sqlite":
		fmt.Fprintf(out, "  Path:             %s\n", cfg.Database.Path)
	default:
		fmt.Fprintf(out, "  Host:             %s\n", cfg.Database.Host)
		fmt.Fprintf(out, "  Port:             %d\n", cfg.Database.Port)
		fmt.Fprintf(out, "  Database:         %s\n", cfg.Database.Name)
		fmt.Fprintf(out, "  User:             %s\n", cfg.Database.User)
	}
	fmt.Fprintf(out, "  Max Connections:  %d\n", cfg.Database.Pool.MaxOpen)

	fmt.Fprintln(out, "\nSimulation:")
	fmt.Fprintf(out, "  Ticks/Second:     %d (%s per frame)\n", cfg.Simulation.TicksPerSecond, cfg.Simulation.FrameInterval())
	fmt.Fprintf(out, "  Max Ticks:        %d\n", cfg.Simulation.MaxTicks)
	fmt.Fprintf(out, "  Autosave Every:   %d\n", cfg.Simulation.AutosaveEvery)
	fmt.Fprintf(out, "  Strict Load:      %t\n", cfg.Simulation.StrictLoad)
	fmt.Fprintf(out, "  Path Node Limit:  %d\n", cfg.Simulation.PathNodeLimit)
	fmt.Fprintf(out, "  Inbox Size:       %d\n", cfg.Simulation.InboxSize)

	fmt.Fprintln(out, "\nServer:")
	fmt.Fprintf(out, "  PID File:         %s\n", cfg.Server.PIDFile)
	fmt.Fprintf(out, "  Shutdown Timeout: %s\n", cfg.Server.ShutdownTimeout)

	fmt.Fprintln(out, "\nMetrics:")
	fmt.Fprintf(out, "  Enabled:          %t\n", cfg.Metrics.Enabled)
	fmt.Fprintf(out, "  Endpoint:         %s:%d%s\n", cfg.Metrics.Host, cfg.Metrics.Port, cfg.Metrics.Path)

	fmt.Fprintln(out, "\nLogging:")
	fmt.Fprintf(out, "  Level:            %s\n", cfg.Logging.Level)
	fmt.Fprintf(out, "  Format:           %s\n", cfg.Logging.Format)
	fmt.Fprintf(out, "  Output:           %s\n", cfg.Logging.Output)
}
