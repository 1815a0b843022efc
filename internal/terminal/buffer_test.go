package terminal

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferConsume(t *testing.T) {
	buf := NewBuffer(64)
	_, err := buf.Write([]byte("echo hi\r\nhi\r\n$ "))
	require.NoError(t, err)

	match, ok := buf.Consume(regexp.MustCompile(`hi\r\n`))
	require.True(t, ok)
	assert.Equal(t, "hi\r\n", string(match))
	assert.Equal(t, "hi\r\n$ ", string(buf.Pending()))

	match, ok = buf.Consume(regexp.MustCompile(`[#$%]`))
	require.True(t, ok)
	assert.Equal(t, "$", string(match))
	assert.Equal(t, " ", string(buf.Pending()))

	_, ok = buf.Consume(regexp.MustCompile(`missing`))
	assert.False(t, ok)
	assert.Equal(t, 1, buf.Len())
}

func TestBufferDropsOldest(t *testing.T) {
	buf := NewBuffer(8)

	_, _ = buf.Write([]byte("0123456789"))
	assert.Equal(t, "23456789", string(buf.Pending()))

	_, _ = buf.Write([]byte("ab"))
	assert.Equal(t, "456789ab", string(buf.Pending()))
}

func TestBufferChangedWakesWaiters(t *testing.T) {
	buf := NewBuffer(0)
	changed := buf.Changed()

	select {
	case <-changed:
		t.Fatal("changed fired before any write")
	default:
	}

	go func() {
		time.Sleep(10 * time.Millisecond)
		_, _ = buf.Write([]byte("x"))
	}()

	select {
	case <-changed:
	case <-time.After(time.Second):
		t.Fatal("changed did not fire after write")
	}

	// A fresh channel is handed out after each write
	assert.NotEqual(t, changed, buf.Changed())
}

func TestBufferEmptyWrite(t *testing.T) {
	buf := NewBuffer(4)
	changed := buf.Changed()

	n, err := buf.Write(nil)
	require.NoError(t, err)
	assert.Zero(t, n)

	select {
	case <-changed:
		t.Fatal("empty write must not wake waiters")
	default:
	}
}
