package procwatch

import (
	"context"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePS(t *testing.T) {
	out := []byte(`    1 Mon Nov 29 22:50:01 2021 systemd
 2954 Mon Nov 29 22:53:06 2021 vim
 3001 Tue Nov  2 08:04:59 2021 tmux: server
garbage line
 abc Mon Nov 29 22:53:06 2021 bad-pid
 3002 Mon Nov 29 99:99:99 2021 bad-time
`)

	records, err := ParsePS(out, time.UTC)
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, 1, records[0].PID)
	assert.Equal(t, "systemd", records[0].Name)

	assert.Equal(t, 2954, records[1].PID)
	assert.Equal(t, "vim", records[1].Name)
	assert.Equal(t, time.Date(2021, 11, 29, 22, 53, 6, 0, time.UTC), records[1].StartedAt)

	assert.Equal(t, "tmux: server", records[2].Name)
	assert.Equal(t, time.Date(2021, 11, 2, 8, 4, 59, 0, time.UTC), records[2].StartedAt)
}

func TestParsePSEmpty(t *testing.T) {
	records, err := ParsePS(nil, time.UTC)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestPSQueryAlive(t *testing.T) {
	q := PSQuery{}
	assert.True(t, q.Alive(os.Getpid()))

	cmd := exec.Command("sh", "-c", "exit 0")
	if err := cmd.Run(); err != nil {
		t.Skip("sh not available")
	}
	// Reaped child pid no longer exists (barring immediate reuse)
	assert.False(t, q.Alive(cmd.Process.Pid))
}

func TestPSQueryListIncludesSelf(t *testing.T) {
	if _, err := exec.LookPath("ps"); err != nil {
		t.Skip("ps not available")
	}

	records, err := PSQuery{}.List(context.Background())
	require.NoError(t, err)

	found := false
	for _, r := range records {
		if r.PID == os.Getpid() {
			found = true
			assert.WithinDuration(t, time.Now(), r.StartedAt, 24*time.Hour)
		}
	}
	assert.True(t, found, "own pid missing from process table")
}
