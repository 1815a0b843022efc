package main

import (
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/GriffinCanCode/goodbot/internal/logging"
	"github.com/GriffinCanCode/goodbot/internal/runner"
	"github.com/GriffinCanCode/goodbot/internal/terminal"
)

// resizer is the part of a session that follows the controlling terminal.
type resizer interface {
	Resize(cols, rows int) error
	Done() <-chan struct{}
}

// newSpawner starts sessions through terminal.Start. With follow set, each
// session is resized whenever the controlling terminal is.
func newSpawner(log *logging.Logger, follow bool) runner.Spawner {
	return func(opts terminal.Options) (runner.Session, error) {
		sess, err := terminal.Start(opts)
		if err != nil {
			return nil, err
		}
		log.Info("Shell started",
			zap.String("session_id", sess.ID.String()),
			zap.Int("pid", sess.Pid()))

		if follow {
			fd := int(os.Stdout.Fd())
			winch := make(chan os.Signal, 1)
			signal.Notify(winch, syscall.SIGWINCH)
			go func() {
				defer signal.Stop(winch)
				followResize(sess, winch, func() (int, int, error) {
					return term.GetSize(fd)
				}, log)
			}()
		}
		return sess, nil
	}
}

// followResize applies the size reported by size to r on every signal until
// r is done.
func followResize(r resizer, signals <-chan os.Signal, size func() (int, int, error), log *logging.Logger) {
	for {
		select {
		case <-r.Done():
			return
		case <-signals:
			cols, rows, err := size()
			if err != nil {
				log.Debug("Failed to read terminal size", zap.Error(err))
				continue
			}
			if err := r.Resize(cols, rows); err != nil {
				log.Debug("Failed to resize session", zap.Error(err))
				return
			}
			log.Debug("Session resized", zap.Int("cols", cols), zap.Int("rows", rows))
		}
	}
}

// followsTerminal reports whether sessions should track the controlling
// terminal's size: neither dimension is configured and stdout is a tty.
func followsTerminal(cols, rows int) bool {
	return cols <= 0 && rows <= 0 && term.IsTerminal(int(os.Stdout.Fd()))
}
