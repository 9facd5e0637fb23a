package config

import "time"

// SimulationConfig holds frame pacing and save settings
type SimulationConfig struct {
	// Frames simulated per second in realtime mode
	TicksPerSecond int `mapstructure:"ticks_per_second" validate:"min=1,max=1000"`

	// Stop after this many frames; 0 runs until cancelled
	MaxTicks int64 `mapstructure:"max_ticks" validate:"min=0"`

	// Autosave interval in frames; 0 disables autosave
	AutosaveEvery int64 `mapstructure:"autosave_every" validate:"min=0"`

	// Fail loads whose order goals no longer resolve
	StrictLoad bool `mapstructure:"strict_load"`

	// Upper bound of nodes expanded per path search
	PathNodeLimit int `mapstructure:"path_node_limit" validate:"min=1"`

	// Messages kept per player inbox
	InboxSize int `mapstructure:"inbox_size" validate:"min=1"`
}

// FrameInterval is the wall-clock duration of one frame
func (c SimulationConfig) FrameInterval() time.Duration {
	if c.TicksPerSecond <= 0 {
		return 0
	}
	return time.Second / time.Duration(c.TicksPerSecond)
}

// ServerConfig holds long-running server settings
type ServerConfig struct {
	// PID file location
	PIDFile string `mapstructure:"pid_file" validate:"required"`

	// Graceful shutdown timeout
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required"`
}
