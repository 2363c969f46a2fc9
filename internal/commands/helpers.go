package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gerunddev/docd/internal/config"
	"github.com/gerunddev/docd/internal/logger"
	"github.com/gerunddev/docd/internal/state"
	"github.com/gerunddev/docd/internal/styles"
)

// hasFlag reports whether args contain the given flag
func hasFlag(args []string, names ...string) bool {
	for _, arg := range args {
		for _, name := range names {
			if arg == name {
				return true
			}
		}
	}
	return false
}

// flagValue returns the value following the given flag, or "" if absent
func flagValue(args []string, name string) string {
	for i, arg := range args {
		if arg == name && i+1 < len(args) {
			return args[i+1]
		}
		if v, ok := strings.CutPrefix(arg, name+"="); ok {
			return v
		}
	}
	return ""
}

// positional returns the arguments that are neither flags nor flag values
func positional(args []string, valueFlags ...string) []string {
	var out []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if strings.HasPrefix(arg, "-") && arg != "-" {
			if hasFlag(valueFlags, arg) {
				i++
			}
			continue
		}
		out = append(out, arg)
	}
	return out
}

// mustLoadConfig loads the configuration or exits
func mustLoadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println(styles.ErrorStyle.Render("✗ Error loading config: " + err.Error()))
		os.Exit(1)
	}
	return cfg
}

// mustLoadState loads the build state of cfg or exits
func mustLoadState(cfg *config.Config) *state.State {
	st, err := state.Load(cfg.StateFile)
	if err != nil {
		fmt.Println(styles.ErrorStyle.Render("✗ Error loading state: " + err.Error()))
		os.Exit(1)
	}
	return st
}

// watchPIDPath is where a running watch records its process ID
func watchPIDPath(cfg *config.Config) string {
	return filepath.Join(filepath.Dir(cfg.StateFile), "watch.pid")
}

// setupLogger opens the configured log file, also writing to console when
// it is not nil. The returned cleanup must be called before exiting.
func setupLogger(cfg *config.Config, console io.Writer) (*logger.Logger, func()) {
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		// config validation already rejected unknown levels
		level, _ = logger.ParseLevel("info")
	}

	if cfg.LogFile == "" {
		if console != nil {
			return logger.NewWithLevel(console, level), func() {}
		}
		return logger.Discard(), func() {}
	}

	if console == nil {
		l, cleanup, err := logger.NewFileLogger(cfg.LogFile, level)
		if err != nil {
			fmt.Fprintln(os.Stderr, styles.WarningStyle.Render("! Cannot open log file: "+err.Error()))
			return logger.Discard(), func() {}
		}
		return l, cleanup
	}

	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintln(os.Stderr, styles.WarningStyle.Render("! Cannot open log file: "+err.Error()))
		return logger.NewWithLevel(console, level), func() {}
	}
	return logger.NewMultiLogger(level, f, console), func() { f.Close() }
}

// ParseLogFile reads the last maxLines lines of the log file and extracts
// the time and page count of the most recent completed build
func ParseLogFile(logPath string, maxLines int) ([]string, time.Time, int) {
	content, err := os.ReadFile(logPath)
	if err != nil {
		return []string{"Unable to read log file"}, time.Time{}, 0
	}

	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")

	startIdx := 0
	if len(lines) > maxLines {
		startIdx = len(lines) - maxLines
	}
	recentLines := lines[startIdx:]

	var lastBuild time.Time
	pagesRendered := 0

	// Format: 2026-01-02 15:04:05 INFO build completed pages_rendered=3 ...
	for i := len(recentLines) - 1; i >= 0; i-- {
		line := recentLines[i]
		if !strings.Contains(line, "build completed") {
			continue
		}
		if len(line) > len(time.DateTime) {
			if t, err := time.ParseInLocation(time.DateTime, line[:len(time.DateTime)], time.Local); err == nil {
				lastBuild = t
			}
		}
		if idx := strings.Index(line, "pages_rendered="); idx != -1 {
			_, _ = fmt.Sscanf(line[idx:], "pages_rendered=%d", &pagesRendered) //nolint:errcheck // best effort parsing
		}
		break
	}

	return recentLines, lastBuild, pagesRendered
}
