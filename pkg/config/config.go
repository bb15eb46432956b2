// Package config implements Monkey CLI configuration loading.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config file names, relative to the project and home directories.
const (
	ProjectFile = ".monkey.yaml"
	UserFile    = ".monkey/config.yaml"
)

// Colour modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config holds the REPL and CLI settings.
type Config struct {
	Prompt      string `yaml:"prompt"`
	HistoryFile string `yaml:"history_file"`
	Color       string `yaml:"color"`
	LogLevel    string `yaml:"log_level"`
	TraceFile   string `yaml:"trace_file"`
	Banner      bool   `yaml:"banner"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Prompt:      "@ ",
		HistoryFile: "~/.monkey_history",
		Color:       ColorAuto,
		LogLevel:    "warn",
		Banner:      true,
	}
}

// Load loads configuration from project and user config files.
// Precedence: project (.monkey.yaml) → user (~/.monkey/config.yaml) → defaults.
// The returned path is the file that was used, or "" for the defaults.
// A file that exists but cannot be parsed is an error, not a fallthrough.
func Load(projectDir string) (*Config, string, error) {
	candidates := []string{filepath.Join(projectDir, ProjectFile)}
	if homeDir, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(homeDir, UserFile))
	}

	for _, path := range candidates {
		cfg, err := LoadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, path, err
		}
		return cfg, path, nil
	}
	return Default(), "", nil
}

// LoadFile reads one config file. Keys missing from the file keep their
// default values; unknown keys are rejected.
func LoadFile(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	cfg := Default()
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks enumerated fields.
func (c *Config) Validate() error {
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("color must be one of auto, always, never (got %q)", c.Color)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ParseLevel maps a log_level setting to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelWarn, fmt.Errorf("log_level must be one of debug, info, warn, error (got %q)", s)
	}
	return level, nil
}

// SlogLevel returns the configured log level, falling back to warn.
func (c *Config) SlogLevel() slog.Level {
	level, _ := ParseLevel(c.LogLevel)
	return level
}

// HistoryPath returns the history file with a leading ~ expanded.
func (c *Config) HistoryPath() string {
	return expandHome(c.HistoryFile)
}

// TracePath returns the trace file with a leading ~ expanded, or "".
func (c *Config) TracePath() string {
	return expandHome(c.TraceFile)
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(homeDir, strings.TrimPrefix(path, "~"))
}

// Encode writes the configuration as YAML.
func (c *Config) Encode(w io.Writer) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("config: encoder close: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}
