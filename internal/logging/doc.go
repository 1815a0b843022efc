// Package logging provides structured logging using uber/zap.
//
// Production loggers write JSON. Development loggers write console lines
// with callers, colored when stderr is a terminal.
//
// All output goes to stderr by default. The runner mirrors the driven
// terminal session to stdout, so anything logged there would end up in
// the recording.
//
// Secret values must never be passed to a logger. Log the name of the
// environment variable that holds a secret, not its value.
//
// Example Usage:
//
//	logger, err := logging.New(logging.DefaultConfig())
//	logger.Info("Session ready", zap.String("session_id", id))
//	logger.Error("Step failed", zap.Int("step", 3), zap.Error(err))
package logging
