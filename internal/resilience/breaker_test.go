package resilience

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errFailed = errors.New("failed")

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestBreaker(settings Settings) (*Breaker, *fakeClock) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	b := New("test", settings)
	b.now = clock.now
	return b, clock
}

func call(b *Breaker, err error) error {
	if allowErr := b.Allow(); allowErr != nil {
		return allowErr
	}
	b.Record(err)
	return err
}

func TestBreakerStateTransitions(t *testing.T) {
	tests := []struct {
		name          string
		threshold     int
		requests      []bool // true = success, false = failure
		expectedState State
	}{
		{
			name:          "stays closed on successes",
			threshold:     3,
			requests:      []bool{true, true, true},
			expectedState: StateClosed,
		},
		{
			name:          "opens after consecutive failures",
			threshold:     3,
			requests:      []bool{false, false, false},
			expectedState: StateOpen,
		},
		{
			name:          "success resets the failure streak",
			threshold:     3,
			requests:      []bool{false, false, true, false, false},
			expectedState: StateClosed,
		},
		{
			name:          "default threshold",
			requests:      []bool{false, false, false},
			expectedState: StateOpen,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, _ := newTestBreaker(Settings{FailureThreshold: tt.threshold, Cooldown: time.Minute})

			for _, success := range tt.requests {
				var err error
				if !success {
					err = errFailed
				}
				_ = call(b, err)
			}

			assert.Equal(t, tt.expectedState, b.State())
		})
	}
}

func TestBreakerRefusesWhileOpen(t *testing.T) {
	b, clock := newTestBreaker(Settings{FailureThreshold: 1, Cooldown: time.Second})

	assert.Equal(t, StateOpen, func() State {
		require.NoError(t, b.Allow())
		return b.Record(errFailed)
	}())

	assert.ErrorIs(t, b.Allow(), ErrCircuitOpen)

	clock.advance(999 * time.Millisecond)
	assert.ErrorIs(t, b.Allow(), ErrCircuitOpen)

	clock.advance(time.Millisecond)
	assert.Equal(t, StateHalfOpen, b.State())
}

func TestBreakerHalfOpenTrial(t *testing.T) {
	tests := []struct {
		name      string
		trialErr  error
		wantState State
	}{
		{name: "trial success closes", wantState: StateClosed},
		{name: "trial failure reopens", trialErr: errFailed, wantState: StateOpen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, clock := newTestBreaker(Settings{FailureThreshold: 2, Cooldown: time.Second})
			_ = call(b, errFailed)
			_ = call(b, errFailed)
			clock.advance(time.Second)

			require.NoError(t, b.Allow())
			// Only one trial call at a time
			assert.ErrorIs(t, b.Allow(), ErrCircuitOpen)

			assert.Equal(t, tt.wantState, b.Record(tt.trialErr))
		})
	}
}

func TestBreakerStateChangeCallback(t *testing.T) {
	var transitions []string
	b, clock := newTestBreaker(Settings{
		FailureThreshold: 1,
		Cooldown:         time.Second,
		OnStateChange: func(name string, from, to State) {
			transitions = append(transitions, name+":"+from.String()+"->"+to.String())
		},
	})

	_ = call(b, errFailed)
	clock.advance(time.Second)
	_ = call(b, nil)

	assert.Equal(t, []string{
		"test:closed->open",
		"test:open->half-open",
		"test:half-open->closed",
	}, transitions)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "half-open", StateHalfOpen.String())
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "unknown", State(42).String())
}
