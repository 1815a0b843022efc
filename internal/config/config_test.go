package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Session config
	assert.Equal(t, "bash", cfg.Session.Shell)
	assert.Empty(t, cfg.Session.ShellArgs)
	assert.Equal(t, 30*time.Second, cfg.Session.ReadyTimeout)
	assert.Equal(t, 30*time.Second, cfg.Session.StepTimeout)
	assert.Equal(t, ".", cfg.Session.DataDir)

	// Typing config
	assert.True(t, cfg.Typing.Typos)
	assert.True(t, cfg.Typing.Pause)
	assert.Equal(t, 10*time.Millisecond, cfg.Typing.DelayFloor)
	assert.Zero(t, cfg.Typing.Seed)

	// Tracker config
	assert.Equal(t, 100*time.Millisecond, cfg.Tracker.PollInterval)
	assert.Equal(t, 2*time.Second, cfg.Tracker.FindWindow)

	// Logging config
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Development)
}

func TestLoadMatchesDefault(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	envVars := map[string]string{
		"RUNNER_SHELL":          "/bin/zsh",
		"RUNNER_SHELL_ARGS":     "--no-rcs,-i",
		"RUNNER_COLS":           "120",
		"RUNNER_ROWS":           "40",
		"RUNNER_READY_TIMEOUT":  "5s",
		"RUNNER_STEP_TIMEOUT":   "1m",
		"RUNNER_DATA_DIR":       "/project",
		"TYPING_SEED":           "42",
		"TYPING_TYPOS":          "false",
		"TYPING_DELAY_FLOOR":    "25ms",
		"TYPING_PAUSE":          "false",
		"TRACKER_POLL_INTERVAL": "250ms",
		"TRACKER_FIND_WINDOW":   "10s",
		"LOG_LEVEL":             "debug",
		"LOG_DEV":               "true",
	}
	for key, value := range envVars {
		t.Setenv(key, value)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/bin/zsh", cfg.Session.Shell)
	assert.Equal(t, []string{"--no-rcs", "-i"}, cfg.Session.ShellArgs)
	assert.Equal(t, 120, cfg.Session.Cols)
	assert.Equal(t, 40, cfg.Session.Rows)
	assert.Equal(t, 5*time.Second, cfg.Session.ReadyTimeout)
	assert.Equal(t, time.Minute, cfg.Session.StepTimeout)
	assert.Equal(t, "/project", cfg.Session.DataDir)

	assert.Equal(t, int64(42), cfg.Typing.Seed)
	assert.False(t, cfg.Typing.Typos)
	assert.Equal(t, 25*time.Millisecond, cfg.Typing.DelayFloor)
	assert.False(t, cfg.Typing.Pause)

	assert.Equal(t, 250*time.Millisecond, cfg.Tracker.PollInterval)
	assert.Equal(t, 10*time.Second, cfg.Tracker.FindWindow)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)
}

func TestLoadWithPartialEnvironmentVariables(t *testing.T) {
	t.Setenv("RUNNER_STEP_TIMEOUT", "90s")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Overridden values
	assert.Equal(t, 90*time.Second, cfg.Session.StepTimeout)
	assert.Equal(t, "warn", cfg.Logging.Level)

	// Defaults still apply
	assert.Equal(t, "bash", cfg.Session.Shell)
	assert.Equal(t, 30*time.Second, cfg.Session.ReadyTimeout)
	assert.True(t, cfg.Typing.Typos)
}

func TestLoadInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "bad duration", key: "RUNNER_STEP_TIMEOUT", value: "soon"},
		{name: "bad bool", key: "TYPING_TYPOS", value: "sometimes"},
		{name: "bad int", key: "RUNNER_COLS", value: "wide"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			cfg, err := Load()
			assert.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}
