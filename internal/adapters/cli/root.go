package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/andrescamacho/skirmish-go/internal/infrastructure/config"
)

var (
	// Global flags
	configPath string
	verbose    bool

	// Set up by the root command before any subcommand runs
	settings *config.Config
	logger   *zap.Logger
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "skirmish",
		Short: "Skirmish - deterministic repair-order simulation",
		Long: `Skirmish simulates workers repairing damaged units on a tile map.
Frames are integer-only and visit units in slot order, so a scenario always
plays out the same way and a save resumes the exact same frames.

Examples:
  skirmish run --scenario scenarios/farm.yaml --ticks 300 --save out.yaml
  skirmish save inspect out.yaml
  skirmish ledger list --session farm-1a2b3c4d --player 0
  skirmish config show`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadSettings(configPath)
			if err != nil {
				return err
			}
			settings = cfg

			logger, err = newCommandLogger(cfg.Logging, verbose)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (default: ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging")

	// Add command groups
	rootCmd.AddCommand(NewRunCommand())
	rootCmd.AddCommand(NewSaveCommand())
	rootCmd.AddCommand(NewLedgerCommand())
	rootCmd.AddCommand(NewConfigCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
