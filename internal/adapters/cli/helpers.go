package cli

import (
	"fmt"
	"net/url"
	"strconv"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
	"github.com/andrescamacho/skirmish-go/internal/infrastructure/config"
	"github.com/andrescamacho/skirmish-go/internal/infrastructure/database"
	"github.com/andrescamacho/skirmish-go/internal/infrastructure/logging"
)

// loadSettings loads the config file named by --config. Without an explicit
// path a broken or missing config falls back to the defaults.
func loadSettings(path string) (*config.Config, error) {
	cfg, err := config.LoadConfig(path)
	if err == nil {
		return cfg, nil
	}
	if path != "" {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return config.LoadConfigOrDefault(""), nil
}

// newCommandLogger builds the logger for a single command. Reports own
// stdout, so logs configured for stdout go to stderr instead.
func newCommandLogger(cfg config.LoggingConfig, debug bool) (*zap.Logger, error) {
	if cfg.Output == "stdout" {
		cfg.Output = "stderr"
	}
	if debug {
		cfg.Level = "debug"
	}
	return logging.NewLogger(cfg)
}

// openDatabase connects to the configured database and migrates the schema
func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}

// parsePlayerID parses a --player flag value
func parsePlayerID(s string) (shared.PlayerID, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return shared.PlayerID{}, fmt.Errorf("invalid player id %q", s)
	}
	return shared.NewPlayerID(n)
}

// maskPassword hides the password of a connection URL
func maskPassword(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, ok := u.User.Password(); !ok {
		return raw
	}
	u.User = url.UserPassword(u.User.Username(), "xxxxx")
	return u.String()
}
