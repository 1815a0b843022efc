package procwatch

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sys/unix"
)

// lstartLayout is ps's lstart column under the C locale.
const lstartLayout = "Mon Jan 2 15:04:05 2006"

// PSQuery reads the process table through ps(1).
type PSQuery struct {
	// Path to ps; defaults to "ps" on PATH.
	Path string
}

// List returns every process with its name and start time.
func (q PSQuery) List(ctx context.Context) ([]ProcessRecord, error) {
	path := q.Path
	if path == "" {
		path = "ps"
	}

	cmd := exec.CommandContext(ctx, path, "-eo", "pid=,lstart=,comm=")
	cmd.Env = append(os.Environ(), "LC_ALL=C")
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ps failed: %w", err)
	}

	return ParsePS(out, time.Local)
}

// Alive reports whether pid exists, using the null signal.
func (q PSQuery) Alive(pid int) bool {
	err := unix.Kill(pid, 0)
	return err == nil || errors.Is(err, unix.EPERM)
}

// ParsePS parses `ps -eo pid=,lstart=,comm=` output. Lines that do not
// parse are skipped.
func ParsePS(out []byte, loc *time.Location) ([]ProcessRecord, error) {
	var records []ProcessRecord

	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		record, ok := parsePSLine(scanner.Text(), loc)
		if ok {
			records = append(records, record)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ps output: %w", err)
	}

	return records, nil
}

// parsePSLine parses e.g. "2954 Mon Nov 29 22:53:06 2021 vim".
func parsePSLine(line string, loc *time.Location) (ProcessRecord, bool) {
	fields := strings.Fields(line)
	if len(fields) < 7 {
		return ProcessRecord{}, false
	}

	pid, err := strconv.Atoi(fields[0])
	if err != nil || pid <= 0 {
		return ProcessRecord{}, false
	}

	started, err := time.ParseInLocation(lstartLayout, strings.Join(fields[1:6], " "), loc)
	if err != nil {
		return ProcessRecord{}, false
	}

	return ProcessRecord{
		PID:       pid,
		Name:      strings.Join(fields[6:], " "),
		StartedAt: started,
	}, true
}
