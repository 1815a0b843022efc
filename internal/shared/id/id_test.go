package id

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateUnique(t *testing.T) {
	gen := NewGenerator()

	assert.NotEqual(t, gen.Generate().String(), gen.Generate().String())
}

func TestGenerateWithPrefix(t *testing.T) {
	gen := NewGenerator()

	for _, prefix := range []string{RunPrefix, SessionPrefix} {
		t.Run(prefix, func(t *testing.T) {
			id := gen.GenerateWithPrefix(prefix)

			require.True(t, strings.HasPrefix(id, prefix+"_"), id)
			parts := strings.Split(id, "_")
			require.Len(t, parts, 2)
			_, err := ulid.Parse(parts[1])
			assert.NoError(t, err)
		})
	}
}

func TestTypedIDs(t *testing.T) {
	assert.True(t, strings.HasPrefix(NewRunID().String(), "run_"))
	assert.True(t, strings.HasPrefix(NewSessionID().String(), "sess_"))
}

func TestIDsOrderByCreation(t *testing.T) {
	first := NewRunID()
	time.Sleep(2 * time.Millisecond)
	second := NewRunID()

	a, err := ulid.Parse(strings.TrimPrefix(first.String(), RunPrefix+"_"))
	require.NoError(t, err)
	b, err := ulid.Parse(strings.TrimPrefix(second.String(), RunPrefix+"_"))
	require.NoError(t, err)
	assert.Less(t, a.Time(), b.Time())
}

func TestConcurrentGeneration(t *testing.T) {
	const n = 200
	var (
		mu   sync.Mutex
		seen = make(map[SessionID]struct{}, n)
		wg   sync.WaitGroup
	)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sid := NewSessionID()
			mu.Lock()
			seen[sid] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, n)
}
