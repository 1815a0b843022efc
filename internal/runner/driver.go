package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/goodbot/internal/expect"
	"github.com/GriffinCanCode/goodbot/internal/logging"
	"github.com/GriffinCanCode/goodbot/internal/monitoring"
	"github.com/GriffinCanCode/goodbot/internal/script"
	"github.com/GriffinCanCode/goodbot/internal/shared/id"
	"github.com/GriffinCanCode/goodbot/internal/terminal"
	"github.com/GriffinCanCode/goodbot/internal/typing"
)

// Session is the live child process a run drives.
type Session interface {
	io.Writer
	expect.Stream
	typing.MirrorSuppressor
	Close() error
}

// Spawner starts the session for a run.
type Spawner func(opts terminal.Options) (Session, error)

// StartTerminal is the default Spawner.
func StartTerminal(opts terminal.Options) (Session, error) {
	sess, err := terminal.Start(opts)
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// Options configures a Driver.
type Options struct {
	Session      terminal.Options
	ReadyTimeout time.Duration
	StepTimeout  time.Duration
}

// Driver runs scripts, one session per run, one step at a time.
type Driver struct {
	opts    Options
	typist  *typing.Simulator
	matcher *expect.Matcher
	env     EnvironmentLookup
	spawn   Spawner
	metrics *monitoring.Metrics
	now     func() time.Time
	log     *logging.Logger
}

// Option configures a Driver.
type Option func(*Driver)

// WithEnvironment sets where secrets are looked up.
func WithEnvironment(env EnvironmentLookup) Option {
	return func(d *Driver) {
		d.env = env
	}
}

// WithSpawner replaces how sessions are started.
func WithSpawner(spawn Spawner) Option {
	return func(d *Driver) {
		d.spawn = spawn
	}
}

// WithMetrics records run and step metrics.
func WithMetrics(m *monitoring.Metrics) Option {
	return func(d *Driver) {
		d.metrics = m
	}
}

// WithLogger sets the logger.
func WithLogger(log *logging.Logger) Option {
	return func(d *Driver) {
		d.log = log
	}
}

// New creates a Driver.
func New(opts Options, typist *typing.Simulator, matcher *expect.Matcher, options ...Option) *Driver {
	d := &Driver{
		opts:    opts,
		typist:  typist,
		matcher: matcher,
		env:     OSEnvironment{},
		spawn:   StartTerminal,
		now:     time.Now,
		log:     logging.NewNop(),
	}
	for _, opt := range options {
		opt(d)
	}
	d.log = d.log.Named("runner")
	if d.opts.Session.Logger == nil {
		d.opts.Session.Logger = d.log
	}
	return d
}

// Run executes sc in a fresh session. Any failure aborts the run. The
// session is closed on every path, including cancellation of ctx.
func (d *Driver) Run(ctx context.Context, sc *script.Script) (err error) {
	runID := id.NewRunID()
	log := d.log.With(zap.String("run_id", runID.String()))
	start := d.now()

	defer func() {
		status := "succeeded"
		if err != nil {
			status = "failed"
			log.Error("Run failed", zap.Error(err))
		} else {
			log.Info("Run finished", zap.Duration("elapsed", d.now().Sub(start)))
		}
		d.metrics.RecordRun(status, d.now().Sub(start))
	}()

	if err := ctx.Err(); err != nil {
		return err
	}

	sess, err := d.spawn(d.opts.Session)
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	d.metrics.SessionOpened()
	defer func() {
		if cerr := sess.Close(); cerr != nil {
			log.Warn("Failed to close session", zap.Error(cerr))
		}
		d.metrics.SessionClosed()
	}()

	// Cancellation must unblock pending reads, so it closes the session.
	stop := context.AfterFunc(ctx, func() { _ = sess.Close() })
	defer stop()

	log.Info("Session started", zap.Int("steps", sc.Len()))

	if err := d.matcher.Await(ctx, sess, expect.ForPrompt(), expect.Sent{}, d.opts.ReadyTimeout); err != nil {
		return fmt.Errorf("waiting for initial prompt: %w", d.cause(ctx, err))
	}

	for i, step := range sc.Steps {
		if err := d.runStep(ctx, log, sess, i, step); err != nil {
			return &StepError{Index: i, Kind: step.Expect.Kind, Err: d.cause(ctx, err)}
		}
	}

	return nil
}

func (d *Driver) runStep(ctx context.Context, log *logging.Logger, sess Session, index int, step script.Step) (err error) {
	kind := step.Expect.Kind
	log = log.With(zap.Int("step", index), zap.String("kind", kind.String()))
	start := d.now()

	defer func() {
		d.metrics.RecordStep(kind.String(), stepStatus(err), d.now().Sub(start))
	}()

	switch step.Action.Kind() {
	case script.ActionSecret:
		key := step.Action.EnvKey()
		value, ok := d.env.LookupEnv(key)
		if !ok || value == "" {
			return fmt.Errorf("%w: %s", ErrMissingSecret, key)
		}
		log.Info("Sending secret", zap.String("env", key))

		// Hold suppression through the expectation so output echoed after
		// the write does not reach the mirror either.
		restore := sess.SuppressMirror()
		defer restore()

		if err := d.typist.TypeSecret(ctx, sess, value); err != nil {
			return err
		}
		d.metrics.IncSecretsSent()
		return d.matcher.Await(ctx, sess, step.Expect, expect.Sent{At: d.now()}, d.opts.StepTimeout)

	default:
		text := step.Action.Text()
		log.Debug("Typing command", zap.String("command", text))

		if err := d.typist.TypeLine(ctx, sess, text); err != nil {
			return err
		}
		sent := expect.Sent{Command: text, At: d.now()}
		if err := d.matcher.Await(ctx, sess, step.Expect, sent, d.opts.StepTimeout); err != nil {
			return err
		}
		log.Info("Step done", zap.Duration("elapsed", d.now().Sub(start)))
		return nil
	}
}

// cause prefers the run context's error over whatever a closed session
// reported when the run was cancelled.
func (d *Driver) cause(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
		return fmt.Errorf("%w (%v)", ctxErr, err)
	}
	return err
}

func stepStatus(err error) string {
	switch {
	case err == nil:
		return "satisfied"
	case errors.Is(err, expect.ErrExpectationTimedOut):
		return "timed_out"
	default:
		return "failed"
	}
}
