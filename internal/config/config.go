package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/gerunddev/docd/internal/logger"
	"github.com/gerunddev/docd/internal/renderer"
)

// Config represents the docd configuration
type Config struct {
	SourceDir     string
	OutputDir     string
	StateFile     string
	LogFile       string
	LogLevel      string
	TableClass    string
	WatchDebounce time.Duration
	Addr          string
}

// file is the on-disk form; durations are kept as strings like "250ms"
type file struct {
	SourceDir     string `yaml:"source_dir"`
	OutputDir     string `yaml:"output_dir"`
	StateFile     string `yaml:"state_file,omitempty"`
	LogFile       string `yaml:"log_file"`
	LogLevel      string `yaml:"log_level"`
	TableClass    string `yaml:"table_class"`
	WatchDebounce string `yaml:"watch_debounce"`
	Addr          string `yaml:"addr"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		SourceDir:     "content",
		OutputDir:     "public",
		StateFile:     StateFilePath(),
		LogFile:       filepath.Join(os.TempDir(), "docd.log"),
		LogLevel:      "info",
		TableClass:    renderer.DefaultTableClass,
		WatchDebounce: 250 * time.Millisecond,
		Addr:          "localhost:8080",
	}
}

// ConfigPath returns the path to the config file
// Uses ~/.config on all platforms for consistency
// Can be overridden for testing
var ConfigPath = func() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to XDG if home dir unavailable
		return filepath.Join(xdg.ConfigHome, "docd", "config.yaml")
	}
	return filepath.Join(home, ".config", "docd", "config.yaml")
}

// StateFilePath returns the default path of the build state file
// Can be overridden for testing
var StateFilePath = func() string {
	return filepath.Join(xdg.DataHome, "docd", "state.json")
}

// Load reads configuration from the config file. A missing file yields
// the defaults; keys absent from the file keep their default values.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, cfg.ExpandPaths()
		}
		return nil, err
	}

	raw := cfg.toFile()
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	debounce, err := time.ParseDuration(raw.WatchDebounce)
	if err != nil {
		return nil, fmt.Errorf("invalid watch_debounce format '%s': %w", raw.WatchDebounce, err)
	}

	cfg = &Config{
		SourceDir:     raw.SourceDir,
		OutputDir:     raw.OutputDir,
		StateFile:     raw.StateFile,
		LogFile:       raw.LogFile,
		LogLevel:      raw.LogLevel,
		TableClass:    raw.TableClass,
		WatchDebounce: debounce,
		Addr:          raw.Addr,
	}
	if cfg.StateFile == "" {
		cfg.StateFile = StateFilePath()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := cfg.ExpandPaths(); err != nil {
		return nil, fmt.Errorf("failed to expand paths: %w", err)
	}

	return cfg, nil
}

func (c *Config) toFile() file {
	return file{
		SourceDir:     c.SourceDir,
		OutputDir:     c.OutputDir,
		StateFile:     c.StateFile,
		LogFile:       c.LogFile,
		LogLevel:      c.LogLevel,
		TableClass:    c.TableClass,
		WatchDebounce: c.WatchDebounce.String(),
		Addr:          c.Addr,
	}
}

// Save writes configuration to the config file
func (c *Config) Save() error {
	configPath := ConfigPath()

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c.toFile())
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.SourceDir == "" {
		return fmt.Errorf("source_dir cannot be empty")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir cannot be empty")
	}
	if c.LogFile == "" {
		return fmt.Errorf("log_file cannot be empty")
	}
	if c.WatchDebounce <= 0 {
		return fmt.Errorf("watch_debounce must be positive")
	}
	if c.Addr == "" {
		return fmt.Errorf("addr cannot be empty")
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level '%s': must be one of: debug, info, warn, error", c.LogLevel)
	}
	return nil
}

// ExpandPaths expands any ~ or relative paths to absolute paths
func (c *Config) ExpandPaths() error {
	var err error

	c.SourceDir, err = expandPath(c.SourceDir)
	if err != nil {
		return fmt.Errorf("failed to expand source_dir: %w", err)
	}

	c.OutputDir, err = expandPath(c.OutputDir)
	if err != nil {
		return fmt.Errorf("failed to expand output_dir: %w", err)
	}

	c.StateFile, err = expandPath(c.StateFile)
	if err != nil {
		return fmt.Errorf("failed to expand state_file: %w", err)
	}

	c.LogFile, err = expandPath(c.LogFile)
	if err != nil {
		return fmt.Errorf("failed to expand log_file: %w", err)
	}

	return nil
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) (string, error) {
	if path == "" {
		return path, nil
	}

	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if len(path) == 1 {
			return homeDir, nil
		}
		path = filepath.Join(homeDir, path[1:])
	}

	return filepath.Abs(path)
}
