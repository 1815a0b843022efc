package expect

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/goodbot/internal/logging"
)

// Stream is the live output of a session as seen by the matcher.
type Stream interface {
	// Consume searches the unconsumed output for re. On a match it drops
	// everything through the end of the match and returns the matched bytes.
	Consume(re *regexp.Regexp) ([]byte, bool)
	// Changed returns a channel that is closed on the next write.
	Changed() <-chan struct{}
	// Done is closed once no more output will arrive.
	Done() <-chan struct{}
}

// ProcessAwaiter blocks until the process started by commandLine exits.
type ProcessAwaiter interface {
	Await(ctx context.Context, commandLine string, sentAt time.Time) error
}

// Sent describes the input a step transmitted.
type Sent struct {
	Command string
	At      time.Time
}

// Matcher decides when a step is done.
type Matcher struct {
	tracker ProcessAwaiter
	log     *logging.Logger
}

// NewMatcher creates a matcher. tracker may be nil when no script step
// uses the end-of-process expectation.
func NewMatcher(tracker ProcessAwaiter, log *logging.Logger) *Matcher {
	if log == nil {
		log = logging.NewNop()
	}
	return &Matcher{tracker: tracker, log: log.Named("expect")}
}

// Await blocks until exp is satisfied, the timeout elapses, or ctx ends.
// A zero timeout waits for ctx alone.
func (m *Matcher) Await(ctx context.Context, stream Stream, exp Expectation, sent Sent, timeout time.Duration) error {
	waitCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var err error
	switch exp.Kind {
	case EndOfProcess:
		if m.tracker == nil {
			return ErrNoTracker
		}
		err = m.tracker.Await(waitCtx, sent.Command, sent.At)
	default:
		err = m.waitFor(waitCtx, stream, exp.Pattern)
	}

	if err == nil {
		m.log.Debug("Expectation satisfied", zap.String("kind", exp.Kind.String()))
		return nil
	}
	if ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w after %s waiting for %s", ErrExpectationTimedOut, timeout, exp.Describe())
	}
	return err
}

func (m *Matcher) waitFor(ctx context.Context, stream Stream, re *regexp.Regexp) error {
	for {
		// Grab the notification channel before looking so a write landing
		// between the two is not missed.
		changed := stream.Changed()
		if _, ok := stream.Consume(re); ok {
			return nil
		}

		select {
		case <-changed:
		case <-stream.Done():
			if _, ok := stream.Consume(re); ok {
				return nil
			}
			return ErrSessionClosed
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
