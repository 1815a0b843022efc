package procwatch

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/shlex"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/GriffinCanCode/goodbot/internal/logging"
	"github.com/GriffinCanCode/goodbot/internal/resilience"
)

var (
	ErrNoExecutableFound = errors.New("no executable found in command")
	ErrProcessNotFound   = errors.New("process not found")
)

// commLen is the kernel's limit on the process name reported by ps.
const commLen = 15

const (
	defaultPollInterval = 100 * time.Millisecond
	defaultFindWindow   = 2 * time.Second

	// startSkew absorbs the rounding in ps's start times, which derive
	// from a whole-second boot time.
	startSkew = time.Second

	// listFailureThreshold consecutive listing failures stop the tracker
	// from running ps for listCooldown.
	listFailureThreshold = 3
	listCooldown         = 5 * time.Second
)

// ProcessRecord is one row of the OS process table.
type ProcessRecord struct {
	PID       int
	Name      string
	StartedAt time.Time
}

// ProcessQuery is read-only access to the OS process table.
type ProcessQuery interface {
	List(ctx context.Context) ([]ProcessRecord, error)
	Alive(pid int) bool
}

// Tracker maps a typed command line to the process it started and waits
// for that process to exit. It only observes; it never signals a process.
type Tracker struct {
	query        ProcessQuery
	lookPath     func(file string) (string, error)
	pollInterval time.Duration
	findWindow   time.Duration
	breaker      *resilience.Breaker
	log          *logging.Logger
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithPollInterval sets how often the process table is queried.
func WithPollInterval(d time.Duration) Option {
	return func(t *Tracker) {
		if d > 0 {
			t.pollInterval = d
		}
	}
}

// WithFindWindow bounds how long a freshly typed command may take to
// show up in the process table.
func WithFindWindow(d time.Duration) Option {
	return func(t *Tracker) {
		if d > 0 {
			t.findWindow = d
		}
	}
}

// WithLookPath replaces exec.LookPath for resolving executables.
func WithLookPath(lookPath func(string) (string, error)) Option {
	return func(t *Tracker) {
		t.lookPath = lookPath
	}
}

// WithLogger sets the logger.
func WithLogger(log *logging.Logger) Option {
	return func(t *Tracker) {
		t.log = log
	}
}

// New creates a Tracker over query.
func New(query ProcessQuery, opts ...Option) *Tracker {
	t := &Tracker{
		query:        query,
		lookPath:     exec.LookPath,
		pollInterval: defaultPollInterval,
		findWindow:   defaultFindWindow,
		log:          logging.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.log = t.log.Named("procwatch")
	t.breaker = resilience.New("process-list", resilience.Settings{
		FailureThreshold: listFailureThreshold,
		Cooldown:         listCooldown,
		OnStateChange: func(name string, from, to resilience.State) {
			t.log.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
	return t
}

// ResolveExecutable returns the path of the last word in commandLine that
// is an executable on PATH. Later matches win so leading VAR=value
// assignments and wrappers are skipped.
func (t *Tracker) ResolveExecutable(commandLine string) (string, error) {
	words, err := shlex.Split(commandLine)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrNoExecutableFound, commandLine, err)
	}

	var path string
	for _, word := range words {
		if p, err := t.lookPath(word); err == nil {
			path = p
		}
	}
	if path == "" {
		return "", fmt.Errorf("%w: %q", ErrNoExecutableFound, commandLine)
	}
	return path, nil
}

// FindNewestProcess polls for the most recently started process named
// after executable until one shows up or the find window elapses.
func (t *Tracker) FindNewestProcess(ctx context.Context, executable string) (ProcessRecord, error) {
	return t.find(ctx, executable, func(candidates []ProcessRecord) (ProcessRecord, bool) {
		return newest(candidates), true
	})
}

// FindProcess is FindNewestProcess for a command typed at sentAt. Only
// processes started no earlier than sentAt (to ps's one-second precision,
// less startSkew) qualify, and among those the one whose start time is
// closest to sentAt wins. Older same-named processes are never picked;
// polling continues until a qualifying one appears or the window ends.
func (t *Tracker) FindProcess(ctx context.Context, executable string, sentAt time.Time) (ProcessRecord, error) {
	if sentAt.IsZero() {
		return t.FindNewestProcess(ctx, executable)
	}
	cutoff := sentAt.Truncate(time.Second).Add(-startSkew)
	return t.find(ctx, executable, func(candidates []ProcessRecord) (ProcessRecord, bool) {
		fresh := startedSince(candidates, cutoff)
		if len(fresh) == 0 {
			return ProcessRecord{}, false
		}
		return MatchClosest(fresh, sentAt), true
	})
}

// find polls until pick accepts one of the processes named after
// executable.
func (t *Tracker) find(ctx context.Context, executable string, pick func([]ProcessRecord) (ProcessRecord, bool)) (ProcessRecord, error) {
	findCtx, cancel := context.WithTimeout(ctx, t.findWindow)
	defer cancel()

	limiter := rate.NewLimiter(rate.Every(t.pollInterval), 1)
	ignored := 0
	for {
		if err := limiter.Wait(findCtx); err != nil {
			if ctx.Err() != nil {
				return ProcessRecord{}, ctx.Err()
			}
			if ignored > 0 {
				return ProcessRecord{}, fmt.Errorf("%w: %s within %s (%d older processes ignored)",
					ErrProcessNotFound, filepath.Base(executable), t.findWindow, ignored)
			}
			return ProcessRecord{}, fmt.Errorf("%w: %s within %s", ErrProcessNotFound, filepath.Base(executable), t.findWindow)
		}

		if err := t.breaker.Allow(); err != nil {
			return ProcessRecord{}, fmt.Errorf("failed to list processes: %w", err)
		}
		records, err := t.query.List(findCtx)
		if err != nil {
			if ctx.Err() != nil {
				t.breaker.Record(nil)
				return ProcessRecord{}, ctx.Err()
			}
			if findCtx.Err() != nil {
				t.breaker.Record(nil)
				continue
			}
			if t.breaker.Record(err) == resilience.StateOpen {
				return ProcessRecord{}, fmt.Errorf("failed to list processes: %w", err)
			}
			t.log.Warn("Process listing failed, retrying", zap.Error(err))
			continue
		}
		t.breaker.Record(nil)

		candidates := filterByExecutable(records, executable)
		if len(candidates) == 0 {
			continue
		}
		if record, ok := pick(candidates); ok {
			return record, nil
		}
		ignored = len(candidates)
	}
}

// AwaitExit blocks until pid is gone. It has no timeout of its own.
func (t *Tracker) AwaitExit(ctx context.Context, pid int) error {
	limiter := rate.NewLimiter(rate.Every(t.pollInterval), 1)
	for {
		if err := limiter.Wait(ctx); err != nil {
			// The limiter refuses waits that would overrun the deadline;
			// sit out the remainder so callers see the real deadline, and
			// look once more in case the process exited meanwhile.
			<-ctx.Done()
			if errors.Is(ctx.Err(), context.DeadlineExceeded) && !t.query.Alive(pid) {
				return nil
			}
			return ctx.Err()
		}
		if !t.query.Alive(pid) {
			return nil
		}
	}
}

// Await resolves the executable behind commandLine, finds its process and
// waits for it to exit.
func (t *Tracker) Await(ctx context.Context, commandLine string, sentAt time.Time) error {
	executable, err := t.ResolveExecutable(commandLine)
	if err != nil {
		return err
	}

	record, err := t.FindProcess(ctx, executable, sentAt)
	if err != nil {
		return err
	}

	t.log.Debug("Watching process",
		zap.Int("pid", record.PID),
		zap.String("name", record.Name),
		zap.Time("started_at", record.StartedAt))

	if err := t.AwaitExit(ctx, record.PID); err != nil {
		return err
	}

	t.log.Debug("Process exited", zap.Int("pid", record.PID))
	return nil
}

// MatchClosest returns the candidate whose start time is nearest sentAt.
// Ties go to the later start, then to the higher PID. candidates must not
// be empty.
func MatchClosest(candidates []ProcessRecord, sentAt time.Time) ProcessRecord {
	best := candidates[0]
	bestGap := absDuration(best.StartedAt.Sub(sentAt))
	for _, c := range candidates[1:] {
		gap := absDuration(c.StartedAt.Sub(sentAt))
		switch {
		case gap < bestGap,
			gap == bestGap && c.StartedAt.After(best.StartedAt),
			gap == bestGap && c.StartedAt.Equal(best.StartedAt) && c.PID > best.PID:
			best, bestGap = c, gap
		}
	}
	return best
}

// startedSince keeps the candidates started at or after cutoff.
func startedSince(candidates []ProcessRecord, cutoff time.Time) []ProcessRecord {
	var out []ProcessRecord
	for _, c := range candidates {
		if !c.StartedAt.Before(cutoff) {
			out = append(out, c)
		}
	}
	return out
}

func newest(candidates []ProcessRecord) ProcessRecord {
	sorted := make([]ProcessRecord, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].StartedAt.Equal(sorted[j].StartedAt) {
			return sorted[i].PID > sorted[j].PID
		}
		return sorted[i].StartedAt.After(sorted[j].StartedAt)
	})
	return sorted[0]
}

func filterByExecutable(records []ProcessRecord, executable string) []ProcessRecord {
	name := processName(executable)
	var out []ProcessRecord
	for _, r := range records {
		if r.Name == name || processName(r.Name) == name {
			out = append(out, r)
		}
	}
	return out
}

// processName is the name ps reports for an executable path.
func processName(path string) string {
	name := filepath.Base(path)
	if len(name) > commLen {
		name = name[:commLen]
	}
	return name
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
