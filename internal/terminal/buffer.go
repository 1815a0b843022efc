package terminal

import (
	"regexp"
	"sync"
)

// DefaultBufferSize bounds the unconsumed output kept for matching.
const DefaultBufferSize = 1024 * 1024

// Buffer is a thread-safe, bounded buffer of terminal output that has not
// been consumed by a match yet. When full, the oldest bytes are dropped.
type Buffer struct {
	mu      sync.Mutex
	data    []byte
	size    int
	changed chan struct{}
}

// NewBuffer creates a new buffer holding at most size bytes
func NewBuffer(size int) *Buffer {
	if size <= 0 {
		size = DefaultBufferSize
	}
	return &Buffer{
		size:    size,
		changed: make(chan struct{}),
	}
}

// Write appends p and wakes every goroutine waiting on Changed.
func (b *Buffer) Write(p []byte) (n int, err error) {
	if len(p) == 0 {
		return 0, nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.data = append(b.data, p...)
	if over := len(b.data) - b.size; over > 0 {
		b.data = append(b.data[:0], b.data[over:]...)
	}

	close(b.changed)
	b.changed = make(chan struct{})

	return len(p), nil
}

// Changed returns a channel closed by the next Write.
func (b *Buffer) Changed() <-chan struct{} {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.changed
}

// Consume finds the leftmost match of re and drops the buffer through the
// end of it.
func (b *Buffer) Consume(re *regexp.Regexp) ([]byte, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	loc := re.FindIndex(b.data)
	if loc == nil {
		return nil, false
	}

	match := make([]byte, loc[1]-loc[0])
	copy(match, b.data[loc[0]:loc[1]])
	b.data = append(b.data[:0], b.data[loc[1]:]...)

	return match, true
}

// Pending returns a copy of the unconsumed output.
func (b *Buffer) Pending() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]byte, len(b.data))
	copy(out, b.data)
	return out
}

// Len returns the number of unconsumed bytes.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.data)
}
