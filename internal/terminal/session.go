package terminal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"regexp"
	"sync"
	"syscall"
	"time"

	"github.com/creack/pty"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/goodbot/internal/logging"
	"github.com/GriffinCanCode/goodbot/internal/shared/id"
)

var ErrSessionClosed = errors.New("session is closed")

const (
	defaultCols = 80
	defaultRows = 24

	// drainGrace bounds how long output is read after the shell exits
	// before the pty is closed under the reader.
	drainGrace = 250 * time.Millisecond
	// hangupGrace is how long Close waits after SIGHUP before SIGKILL.
	hangupGrace = 500 * time.Millisecond
)

// Options configures a new Session.
type Options struct {
	Shell      string
	Args       []string
	Dir        string
	Env        []string // extra KEY=VALUE entries
	Cols       int
	Rows       int
	Mirror     io.Writer // receives child output; nil discards it
	BufferSize int
	Logger     *logging.Logger
}

// Session is a shell running under a pseudo-terminal.
type Session struct {
	ID        id.SessionID
	Shell     string
	Cols      int
	Rows      int
	StartedAt time.Time

	cmd  *exec.Cmd
	ptmx *os.File

	output *Buffer

	mirrorMu   sync.Mutex
	mirror     io.Writer
	suppressed int

	readerDone chan struct{}
	exited     chan struct{}

	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once

	log *logging.Logger
}

// Start spawns the shell under a new pty and begins reading its output.
func Start(opts Options) (*Session, error) {
	shell := opts.Shell
	if shell == "" {
		shell = os.Getenv("SHELL")
		if shell == "" {
			shell = "/bin/bash"
		}
	}

	cols, rows := opts.Cols, opts.Rows
	if cols <= 0 {
		cols = defaultCols
	}
	if rows <= 0 {
		rows = defaultRows
	}

	log := opts.Logger
	if log == nil {
		log = logging.NewNop()
	}

	cmd := exec.Command(shell, opts.Args...)
	cmd.Dir = opts.Dir
	cmd.Env = append(os.Environ(), "TERM=xterm-256color")
	cmd.Env = append(cmd.Env, opts.Env...)

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start PTY: %w", err)
	}

	mirror := opts.Mirror
	if mirror == nil {
		mirror = io.Discard
	}

	s := &Session{
		ID:         id.NewSessionID(),
		Shell:      shell,
		Cols:       cols,
		Rows:       rows,
		StartedAt:  time.Now(),
		cmd:        cmd,
		ptmx:       ptmx,
		output:     NewBuffer(opts.BufferSize),
		mirror:     mirror,
		readerDone: make(chan struct{}),
		exited:     make(chan struct{}),
	}
	s.log = log.Named("terminal").With(zap.String("session_id", s.ID.String()))

	go s.readOutput()
	go s.monitorProcess()

	s.log.Debug("Session started",
		zap.String("shell", shell),
		zap.Int("pid", cmd.Process.Pid),
		zap.Int("cols", cols),
		zap.Int("rows", rows))

	return s, nil
}

// readOutput copies pty output into the match buffer and the mirror.
func (s *Session) readOutput() {
	defer close(s.readerDone)

	buf := make([]byte, 4096)
	for {
		n, err := s.ptmx.Read(buf)
		if n > 0 {
			// Mirror before buffering: once a matcher can see these bytes,
			// the suppression state that applied to them is settled.
			s.mirrorWrite(buf[:n])
			s.output.Write(buf[:n])
		}
		if err != nil {
			// Linux reports EIO once the slave side is gone.
			if !errors.Is(err, io.EOF) && !errors.Is(err, syscall.EIO) && !errors.Is(err, os.ErrClosed) {
				s.log.Warn("PTY read failed", zap.Error(err))
			}
			return
		}
	}
}

func (s *Session) mirrorWrite(p []byte) {
	s.mirrorMu.Lock()
	defer s.mirrorMu.Unlock()

	if s.suppressed > 0 {
		return
	}
	if _, err := s.mirror.Write(p); err != nil {
		s.log.Debug("Mirror write failed", zap.Error(err))
	}
}

// monitorProcess waits for the shell to exit, lets the reader drain, then
// closes the pty so the reader cannot block on grandchildren holding it.
func (s *Session) monitorProcess() {
	err := s.cmd.Wait()
	close(s.exited)

	s.log.Debug("Shell exited", zap.Error(err))

	select {
	case <-s.readerDone:
	case <-time.After(drainGrace):
	}

	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.ptmx.Close()
}

// Write sends input to the shell.
func (s *Session) Write(p []byte) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return 0, ErrSessionClosed
	}
	return s.ptmx.Write(p)
}

// SuppressMirror stops mirroring output until the returned function is
// called. Calls nest; mirroring resumes once every scope is restored.
// The restore function is safe to call more than once.
func (s *Session) SuppressMirror() (restore func()) {
	s.mirrorMu.Lock()
	s.suppressed++
	s.mirrorMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mirrorMu.Lock()
			s.suppressed--
			s.mirrorMu.Unlock()
		})
	}
}

// Consume implements expect.Stream.
func (s *Session) Consume(re *regexp.Regexp) ([]byte, bool) {
	return s.output.Consume(re)
}

// Changed implements expect.Stream.
func (s *Session) Changed() <-chan struct{} {
	return s.output.Changed()
}

// Done is closed once the pty has no more output to deliver.
func (s *Session) Done() <-chan struct{} {
	return s.readerDone
}

// Pending returns output received but not consumed by a match.
func (s *Session) Pending() []byte {
	return s.output.Pending()
}

// Pid returns the shell's process ID.
func (s *Session) Pid() int {
	return s.cmd.Process.Pid
}

// Exited reports whether the shell process has been reaped.
func (s *Session) Exited() bool {
	select {
	case <-s.exited:
		return true
	default:
		return false
	}
}

// Resize changes terminal dimensions
func (s *Session) Resize(cols, rows int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}

	s.Cols = cols
	s.Rows = rows

	return pty.Setsize(s.ptmx, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
	})
}

// Close hangs up the shell, kills it if it lingers, closes the pty and
// waits for the process to be reaped. Safe to call more than once and
// from any goroutine.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		if !s.Exited() {
			_ = s.cmd.Process.Signal(syscall.SIGHUP)
			select {
			case <-s.exited:
			case <-time.After(hangupGrace):
				_ = s.cmd.Process.Kill()
			}
		}

		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()

		s.ptmx.Close()

		<-s.exited
		<-s.readerDone

		s.log.Debug("Session closed")
	})
	return nil
}
