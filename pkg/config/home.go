package config

import (
	"os"
	"path/filepath"
	"sync"
)

const envHome = "LOCATOR_FINDER_HOME"

var (
	homeOnce sync.Once
	homeDir  string
)

// GetHome returns the workspace directory locator-finder reads its config
// from when --config is not given. $LOCATOR_FINDER_HOME wins; otherwise the
// nearest directory at or above the working directory holding a workspace
// config; otherwise the working directory itself.
func GetHome() string {
	homeOnce.Do(func() {
		homeDir = resolveHome()
	})
	return homeDir
}

func resolveHome() string {
	if env := os.Getenv(envHome); env != "" {
		return env
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}
	if dir, ok := findWorkspace(cwd); ok {
		return dir
	}
	return cwd
}

// findWorkspace walks from start up to the filesystem root.
func findWorkspace(start string) (string, bool) {
	dir := filepath.Clean(start)
	for {
		for _, name := range ConfigFileNames {
			if info, err := os.Stat(filepath.Join(dir, name)); err == nil && !info.IsDir() {
				return dir, true
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// ResetHome clears the cached directory so tests can change the environment.
func ResetHome() {
	homeOnce = sync.Once{}
	homeDir = ""
}
