// Package config loads trigon settings from YAML.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is used when neither a flag nor EnvPath names a file.
const DefaultPath = "trigon.yaml"

// EnvPath is the environment variable that overrides DefaultPath.
const EnvPath = "TRIGON_CONFIG"

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config holds all trigon settings.
type Config struct {
	// Logging
	LogLevel string `yaml:"log_level"` // debug, info, warn, error

	// Shell
	Prompt string `yaml:"prompt"`
	Banner string `yaml:"banner"`

	// Scripting
	EvalTimeout time.Duration `yaml:"eval_timeout"`

	// Export
	ExportDir string `yaml:"export_dir"`

	// Validation
	SliverArea float64 `yaml:"sliver_area"` // 0 disables the sliver warning
}

// Default returns Config with sensible defaults.
func Default() Config {
	return Config{
		LogLevel:    "info",
		Prompt:      "> ",
		Banner:      "trigon triangle shell",
		EvalTimeout: 5 * time.Second,
		ExportDir:   ".",
	}
}

// ResolvePath picks the config file: an explicit path wins, then EnvPath,
// then DefaultPath.
func ResolvePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	return DefaultPath
}

// Load reads config from a YAML file over the defaults.
// If the file doesn't exist, returns defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks field ranges.
func (c Config) Validate() error {
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.EvalTimeout <= 0 {
		return fmt.Errorf("%w: eval_timeout must be positive, got %s", ErrInvalid, c.EvalTimeout)
	}
	if c.SliverArea < 0 {
		return fmt.Errorf("%w: sliver_area must not be negative, got %v", ErrInvalid, c.SliverArea)
	}
	return nil
}

// Level returns the slog level for LogLevel, falling back to info.
func (c Config) Level() slog.Level {
	lvl, err := ParseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// ParseLevel maps debug, info, warn and error (any case) to slog levels.
// An empty string means info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("%w: unknown log_level %q", ErrInvalid, s)
}
