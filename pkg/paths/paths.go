// Package paths resolves where sniper keeps its state on disk.
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	EnvLogDir    = "SNIPER_LOG_DIR"
	EnvRecordDir = "SNIPER_RECORD_DIR"
)

const stateDirName = ".sniper"

// StateDir is the per-user state directory, ~/.sniper. Without a home
// directory it falls back to .sniper relative to the working directory.
func StateDir() string {
	home, err := os.UserHomeDir()
	if err != nil || strings.TrimSpace(home) == "" {
		return stateDirName
	}
	return filepath.Join(home, stateDirName)
}

// LogsDir is where the diagnostic log is written.
func LogsDir() string {
	if dir := strings.TrimSpace(os.Getenv(EnvLogDir)); dir != "" {
		return filepath.Clean(ExpandHome(dir))
	}
	return filepath.Join(StateDir(), "logs")
}

// SessionsDir is where recorded event logs are written.
func SessionsDir() string {
	if dir := strings.TrimSpace(os.Getenv(EnvRecordDir)); dir != "" {
		return filepath.Clean(ExpandHome(dir))
	}
	return filepath.Join(StateDir(), "sessions")
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil || strings.TrimSpace(home) == "" {
			return path
		}
		if path == "~" {
			return home
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~/"))
	}
	return path
}

// Anchor resolves a relative dir against workdir. Absolute dirs and an empty
// workdir leave dir unchanged.
func Anchor(dir, workdir string) string {
	dir = ExpandHome(dir)
	if filepath.IsAbs(dir) || strings.TrimSpace(workdir) == "" {
		return dir
	}
	return filepath.Join(workdir, dir)
}
