package logger

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// Logger wraps charm/log for structured logging
type Logger struct {
	*log.Logger
}

// New creates a new logger with the given output
func New(w io.Writer) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})
	return &Logger{Logger: l}
}

// NewWithLevel creates a logger with a specific level
func NewWithLevel(w io.Writer, level log.Level) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           level,
	})
	return &Logger{Logger: l}
}

// NewFileLogger creates a logger that writes to a file
func NewFileLogger(path string, level log.Level) (*Logger, func(), error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		f.Close()
	}

	return NewWithLevel(f, level), cleanup, nil
}

// NewMultiLogger creates a logger that writes to multiple outputs
func NewMultiLogger(level log.Level, writers ...io.Writer) *Logger {
	return NewWithLevel(io.MultiWriter(writers...), level)
}

// Discard returns a logger that discards all output
func Discard() *Logger {
	return New(io.Discard)
}

// ParseLevel maps a config level name to a log level
func ParseLevel(name string) (log.Level, error) {
	return log.ParseLevel(name)
}

// BuildStarted logs the start of a site build
func (l *Logger) BuildStarted(sourceDir, outputDir string) {
	l.Info("build started",
		"source_dir", sourceDir,
		"output_dir", outputDir)
}

// BuildCompleted logs the completion of a site build
func (l *Logger) BuildCompleted(pagesRendered, skipped, errors int, duration time.Duration) {
	l.Info("build completed",
		"pages_rendered", pagesRendered,
		"skipped", skipped,
		"errors", errors,
		"duration", duration.Round(time.Millisecond))
}

// PageRendered logs a page written to the output directory
func (l *Logger) PageRendered(source, dest string) {
	l.Info("page rendered",
		"source", source,
		"dest", dest)
}

// Rendered logs one pass through the compiler pipeline
func (l *Logger) Rendered(tokens, nodes int, duration time.Duration) {
	l.Debug("source rendered",
		"tokens", tokens,
		"nodes", nodes,
		"duration", duration)
}

// TokenIgnored logs a token the parser has no rule for at its position
func (l *Logger) TokenIgnored(kind string, index int) {
	l.Debug("token ignored",
		"kind", kind,
		"index", index)
}

// FileError logs an error for a specific file
func (l *Logger) FileError(file string, err error) {
	l.Error("file error",
		"file", file,
		"error", err)
}

// StateError logs a state-related error
func (l *Logger) StateError(operation string, err error) {
	l.Error("state error",
		"operation", operation,
		"error", err)
}

// ConfigLoaded logs successful config loading
func (l *Logger) ConfigLoaded(sourceDir, outputDir string, debounce time.Duration) {
	l.Debug("config loaded",
		"source_dir", sourceDir,
		"output_dir", outputDir,
		"watch_debounce", debounce)
}

// Skipped logs when a file is skipped
func (l *Logger) Skipped(file, reason string) {
	l.Debug("file skipped",
		"file", file,
		"reason", reason)
}

// Request logs a request served by the preview server
func (l *Logger) Request(id, method, path string, status int, duration time.Duration) {
	l.Info("request",
		"request_id", id,
		"method", method,
		"path", path,
		"status", status,
		"duration", duration.Round(time.Microsecond))
}
