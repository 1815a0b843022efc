package main

import (
	"errors"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/goodbot/internal/logging"
	"github.com/GriffinCanCode/goodbot/internal/terminal"
)

type fakeResizer struct {
	mu    sync.Mutex
	sizes [][2]int
	err   error
	done  chan struct{}
}

func newFakeResizer() *fakeResizer {
	return &fakeResizer{done: make(chan struct{})}
}

func (f *fakeResizer) Resize(cols, rows int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sizes = append(f.sizes, [2]int{cols, rows})
	return nil
}

func (f *fakeResizer) Done() <-chan struct{} { return f.done }

func (f *fakeResizer) recorded() [][2]int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][2]int(nil), f.sizes...)
}

// sizeSeq returns each entry once, then repeats the last one.
func sizeSeq(sizes ...[3]any) func() (int, int, error) {
	var mu sync.Mutex
	i := 0
	return func() (int, int, error) {
		mu.Lock()
		defer mu.Unlock()
		s := sizes[i]
		if i < len(sizes)-1 {
			i++
		}
		err, _ := s[2].(error)
		return s[0].(int), s[1].(int), err
	}
}

func runFollow(r resizer, signals <-chan os.Signal, size func() (int, int, error)) <-chan struct{} {
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		followResize(r, signals, size, logging.NewNop())
	}()
	return finished
}

func TestFollowResize(t *testing.T) {
	tests := []struct {
		name    string
		sizes   [][3]any
		signals int
		want    [][2]int
	}{
		{
			name:    "each signal applies the current size",
			sizes:   [][3]any{{100, 40, nil}, {132, 50, nil}},
			signals: 2,
			want:    [][2]int{{100, 40}, {132, 50}},
		},
		{
			name:    "unreadable size is skipped",
			sizes:   [][3]any{{0, 0, errors.New("not a terminal")}, {90, 30, nil}},
			signals: 2,
			want:    [][2]int{{90, 30}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newFakeResizer()
			signals := make(chan os.Signal)
			finished := runFollow(r, signals, sizeSeq(tt.sizes...))

			for i := 0; i < tt.signals; i++ {
				signals <- syscall.SIGWINCH
			}
			require.Eventually(t, func() bool {
				return len(r.recorded()) == len(tt.want)
			}, time.Second, 5*time.Millisecond)
			assert.Equal(t, tt.want, r.recorded())

			close(r.done)
			select {
			case <-finished:
			case <-time.After(time.Second):
				t.Fatal("followResize did not return after the session finished")
			}
		})
	}
}

func TestFollowResizeStopsOnClosedSession(t *testing.T) {
	r := newFakeResizer()
	r.err = terminal.ErrSessionClosed
	signals := make(chan os.Signal, 1)
	finished := runFollow(r, signals, sizeSeq([3]any{80, 24, nil}))

	signals <- syscall.SIGWINCH
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("followResize kept running after a failed resize")
	}
	assert.Empty(t, r.recorded())
}

func TestSpawnerStartsSession(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	spawn := newSpawner(logging.NewNop(), false)
	sess, err := spawn(terminal.Options{Shell: "sh"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sess.Close() })

	_, err = sess.Write([]byte("exit\n"))
	require.NoError(t, err)
	select {
	case <-sess.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("shell did not exit")
	}
}
