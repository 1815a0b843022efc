package typing

import (
	"context"
	"errors"
	"io"
	"math/rand/v2"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

var ErrInvalidSecretKind = errors.New("secret must be a plain string")

const (
	baseDelayMin    = 120 // ms
	baseDelayMax    = 170
	speedupMin      = 30
	speedupMax      = 60
	pauseMin        = 500
	pauseMax        = 1000
	typoRateMin     = 0.01
	typoRateMax     = 0.03
	defaultFloor    = 10 * time.Millisecond
	backspace       = "\x7f"
	enter           = "\r"
	secretTerminate = "\n"
)

// MirrorSuppressor can stop a session from mirroring its output for a scope.
type MirrorSuppressor interface {
	SuppressMirror() (restore func())
}

// SecretWriter is the input side of a session that can hide a secret.
type SecretWriter interface {
	io.Writer
	MirrorSuppressor
}

// Observer is told about every keystroke sent.
type Observer interface {
	ObserveKeystroke(typo bool)
}

// Sleeper waits for d or until ctx ends.
type Sleeper func(ctx context.Context, d time.Duration) error

// Simulator turns text into human-looking keystrokes. It is not safe for
// concurrent use; a run types one step at a time.
type Simulator struct {
	rng      *rand.Rand
	floor    time.Duration
	typos    bool
	pause    bool
	sleep    Sleeper
	observer Observer
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithSeed makes the keystroke stream reproducible.
func WithSeed(seed int64) Option {
	return func(s *Simulator) {
		s.rng = rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
	}
}

// WithRand sets the random source.
func WithRand(rng *rand.Rand) Option {
	return func(s *Simulator) {
		s.rng = rng
	}
}

// WithDelayFloor sets the smallest delay between two keystrokes.
func WithDelayFloor(d time.Duration) Option {
	return func(s *Simulator) {
		if d > 0 {
			s.floor = d
		}
	}
}

// WithTypos enables or disables typo injection.
func WithTypos(enabled bool) Option {
	return func(s *Simulator) {
		s.typos = enabled
	}
}

// WithPause enables or disables the pause before pressing Enter.
func WithPause(enabled bool) Option {
	return func(s *Simulator) {
		s.pause = enabled
	}
}

// WithSleeper replaces the context-aware sleep between keystrokes.
func WithSleeper(sleep Sleeper) Option {
	return func(s *Simulator) {
		s.sleep = sleep
	}
}

// WithObserver reports keystrokes to o.
func WithObserver(o Observer) Option {
	return func(s *Simulator) {
		s.observer = o
	}
}

// New creates a Simulator with typos and pauses enabled.
func New(opts ...Option) *Simulator {
	s := &Simulator{
		floor: defaultFloor,
		typos: true,
		pause: true,
		sleep: sleepContext,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), uint64(time.Now().UnixNano())))
	}
	return s
}

// ShouldInjectTypo draws whether the next keystroke is a typo. The error
// rate itself is re-drawn from [1%, 3%] on every call.
func (s *Simulator) ShouldInjectTypo() bool {
	rate := typoRateMin + s.rng.Float64()*(typoRateMax-typoRateMin)
	return s.rng.Float64() < rate
}

// PickTypo returns a neighboring key to hit instead of next, if this
// keystroke is a typo. Characters without table entries never get one.
func (s *Simulator) PickTypo(next rune) (rune, bool) {
	if !s.typos {
		return 0, false
	}
	candidates := plausibleTypos[next]
	if len(candidates) == 0 {
		return 0, false
	}
	if !s.ShouldInjectTypo() {
		return 0, false
	}
	return candidates[s.rng.IntN(len(candidates))], true
}

// InterKeyDelay returns the time to wait after typing next following prev.
// The result lies in [max(floor, 60ms), 170ms].
func (s *Simulator) InterKeyDelay(prev, next rune) time.Duration {
	ms := baseDelayMin + s.rng.IntN(baseDelayMax-baseDelayMin+1)
	if IsAlternation(unicode.ToLower(prev), unicode.ToLower(next)) {
		ms -= speedupMin + s.rng.IntN(speedupMax-speedupMin+1)
	}

	d := time.Duration(ms) * time.Millisecond
	if d < s.floor {
		d = s.floor
	}
	return d
}

// PauseTime returns the hesitation before submitting a typed line.
func (s *Simulator) PauseTime() time.Duration {
	return time.Duration(pauseMin+s.rng.IntN(pauseMax-pauseMin+1)) * time.Millisecond
}

// TypeString sends text one character at a time. A typo is sent as the
// wrong key, a backspace and the right key before the delay. It returns
// once the whole string has been written.
func (s *Simulator) TypeString(ctx context.Context, w io.Writer, text string) error {
	var prev rune
	for _, r := range text {
		if err := ctx.Err(); err != nil {
			return err
		}

		if typo, ok := s.PickTypo(r); ok {
			if err := s.send(w, string(typo)+backspace+string(r)); err != nil {
				return err
			}
			s.observe(true)
		} else {
			if err := s.send(w, string(r)); err != nil {
				return err
			}
			s.observe(false)
		}

		if err := s.sleep(ctx, s.InterKeyDelay(prev, r)); err != nil {
			return err
		}
		prev = r
	}
	return nil
}

// TypeLine types text, hesitates, and presses Enter.
func (s *Simulator) TypeLine(ctx context.Context, w io.Writer, text string) error {
	if err := s.TypeString(ctx, w, text); err != nil {
		return err
	}
	if s.pause {
		if err := s.sleep(ctx, s.PauseTime()); err != nil {
			return err
		}
	}
	return s.send(w, enter)
}

// TypeSecret writes secret in one piece, newline-terminated, while w's
// mirror is suppressed. There is no cadence or typo simulation.
func (s *Simulator) TypeSecret(ctx context.Context, w SecretWriter, secret string) error {
	if !utf8.ValidString(secret) || strings.ContainsRune(secret, 0) {
		return ErrInvalidSecretKind
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	restore := w.SuppressMirror()
	defer restore()

	payload := []byte(secret)
	if !strings.HasSuffix(secret, secretTerminate) {
		payload = append(payload, secretTerminate...)
	}
	defer func() { clear(payload) }()

	_, err := w.Write(payload)
	return err
}

func (s *Simulator) send(w io.Writer, keys string) error {
	_, err := io.WriteString(w, keys)
	return err
}

func (s *Simulator) observe(typo bool) {
	if s.observer != nil {
		s.observer.ObserveKeystroke(typo)
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
