package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all runner configuration.
type Config struct {
	Session SessionConfig
	Typing  TypingConfig
	Tracker TrackerConfig
	Logging LogConfig
}

// SessionConfig holds pseudo-terminal session settings.
type SessionConfig struct {
	Shell        string        `envconfig:"RUNNER_SHELL" default:"bash"`
	ShellArgs    []string      `envconfig:"RUNNER_SHELL_ARGS"`
	Cols         int           `envconfig:"RUNNER_COLS" default:"0"`
	Rows         int           `envconfig:"RUNNER_ROWS" default:"0"`
	ReadyTimeout time.Duration `envconfig:"RUNNER_READY_TIMEOUT" default:"30s"`
	StepTimeout  time.Duration `envconfig:"RUNNER_STEP_TIMEOUT" default:"30s"`
	DataDir      string        `envconfig:"RUNNER_DATA_DIR" default:"."`
}

// TypingConfig holds keystroke simulation settings.
type TypingConfig struct {
	Seed       int64         `envconfig:"TYPING_SEED" default:"0"`
	Typos      bool          `envconfig:"TYPING_TYPOS" default:"true"`
	DelayFloor time.Duration `envconfig:"TYPING_DELAY_FLOOR" default:"10ms"`
	Pause      bool          `envconfig:"TYPING_PAUSE" default:"true"`
}

// TrackerConfig holds process lifecycle tracker settings.
type TrackerConfig struct {
	PollInterval time.Duration `envconfig:"TRACKER_POLL_INTERVAL" default:"100ms"`
	FindWindow   time.Duration `envconfig:"TRACKER_FIND_WINDOW" default:"2s"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Session: SessionConfig{
			Shell:        "bash",
			ReadyTimeout: 30 * time.Second,
			StepTimeout:  30 * time.Second,
			DataDir:      ".",
		},
		Typing: TypingConfig{
			Typos:      true,
			DelayFloor: 10 * time.Millisecond,
			Pause:      true,
		},
		Tracker: TrackerConfig{
			PollInterval: 100 * time.Millisecond,
			FindWindow:   2 * time.Second,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
	}
}
