package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/GriffinCanCode/goodbot/internal/script"
)

const (
	dockerEnvFile    = "/.dockerenv"
	containerDataDir = "/data"
	projectDataDir   = "/project"
)

type dataDirSelection struct {
	docker   bool
	noDocker bool
}

// resolve picks where scripts are read from. Inside a container the
// default is /data; the flags override detection either way.
func (s dataDirSelection) resolve(configured string, inContainer func() bool) string {
	switch {
	case s.docker:
		return projectDataDir
	case s.noDocker:
		return configured
	case inContainer():
		return containerDataDir
	default:
		return configured
	}
}

func runningInContainer() bool {
	_, err := os.Stat(dockerEnvFile)
	return err == nil
}

func scriptPath(dataDir, file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(dataDir, file)
}

// loadScript reads file relative to dataDir.
func loadScript(dataDir, file string) (*script.Script, string, error) {
	path := scriptPath(dataDir, file)
	sc, err := script.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, path, fmt.Errorf("script %q not found in data directory %q: %w", file, dataDir, err)
	}
	if err != nil {
		return nil, path, err
	}
	return sc, path, nil
}
