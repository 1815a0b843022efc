// Package config provides 12-factor configuration management for the runner.
//
// Configuration is loaded from environment variables with sensible defaults.
// CLI flags can override environment variables for one-off runs.
//
// Configuration Sections:
//   - Session: Shell, pty size, data directory and expectation timeouts
//   - Typing: Keystroke simulation (seed, typos, delay floor, pauses)
//   - Tracker: Process lifecycle polling cadence
//   - Logging: Log level and output format
//
// Example Usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//		return err
//	}
//	fmt.Printf("Spawning %s with a %s step timeout\n", cfg.Session.Shell, cfg.Session.StepTimeout)
//
// Environment Variables:
//   - RUNNER_SHELL, RUNNER_SHELL_ARGS, RUNNER_COLS, RUNNER_ROWS
//   - RUNNER_READY_TIMEOUT, RUNNER_STEP_TIMEOUT, RUNNER_DATA_DIR
//   - TYPING_SEED, TYPING_TYPOS, TYPING_DELAY_FLOOR, TYPING_PAUSE
//   - TRACKER_POLL_INTERVAL, TRACKER_FIND_WINDOW
//   - LOG_LEVEL, LOG_DEV
package config
