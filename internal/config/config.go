// Package config loads the optional dagstat configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete dagstat configuration. Every field has a
// usable default; the config file itself is optional.
type Config struct {
	LogLevel      string      `yaml:"log_level"`
	NoColor       bool        `yaml:"no_color"`
	FallbackWidth int         `yaml:"fallback_width"`
	Watch         WatchConfig `yaml:"watch,omitempty"`
}

// WatchConfig defines live-mode settings.
type WatchConfig struct {
	// Debounce is how long to wait after a file event before re-parsing.
	// The engine rewrites the status file in place, which can surface as a
	// burst of write events.
	Debounce time.Duration `yaml:"debounce"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		LogLevel:      "INFO",
		FallbackWidth: 80,
		Watch: WatchConfig{
			Debounce: 250 * time.Millisecond,
		},
	}
}

// Load reads and parses configuration from a file. An empty path falls back
// to discovery; a missing discovered file is not an error.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		discovered, err := DiscoverConfigPath()
		if err != nil {
			return nil, err
		}
		if discovered == "" {
			return Default(), nil
		}
		configPath = discovered
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("config file not found: %s\n"+
			"Hint: Check the path or run with --config flag", configPath)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", configPath, err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configPath, err)
	}
	return cfg, nil
}

// DiscoverConfigPath looks for config.yaml in the standard user config
// directory. Returns "" when no file exists.
func DiscoverConfigPath() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		base = filepath.Join(home, ".config")
	}

	path := filepath.Join(base, "dagstat", "config.yaml")
	if _, err := os.Stat(path); err != nil {
		return "", nil
	}
	return path, nil
}

func validate(cfg *Config) error {
	if cfg.FallbackWidth <= 0 {
		return fmt.Errorf("fallback_width must be positive, got %d", cfg.FallbackWidth)
	}
	if cfg.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative, got %s", cfg.Watch.Debounce)
	}
	return nil
}
