// Package pidfile records the process running a long-lived docd command so
// other commands can tell whether it is alive.
package pidfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// Write records the current process ID at path
func Write(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create PID directory: %w", err)
	}

	content := fmt.Sprintf("%d\n", os.Getpid())
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write PID file: %w", err)
	}
	return nil
}

// Read returns the process ID recorded at path
func Read(path string) (int, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, fmt.Errorf("not running (PID file not found)")
		}
		return 0, fmt.Errorf("failed to read PID file: %w", err)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(content)))
	if err != nil {
		return 0, fmt.Errorf("invalid PID in file: %w", err)
	}
	return pid, nil
}

// Remove deletes the PID file at path
func Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove PID file: %w", err)
	}
	return nil
}

// Running reports whether the process recorded at path is alive, its PID
// and roughly when it started. A stale PID file is removed.
func Running(path string) (bool, int, time.Time) {
	pid, err := Read(path)
	if err != nil {
		return false, 0, time.Time{}
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return false, 0, time.Time{}
	}

	// signal 0 only checks that the process exists
	if err := process.Signal(syscall.Signal(0)); err != nil {
		_ = Remove(path)
		return false, 0, time.Time{}
	}

	var started time.Time
	if info, err := os.Stat(path); err == nil {
		started = info.ModTime()
	}
	return true, pid, started
}
