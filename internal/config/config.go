package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/masterypath/internal/decay"
)

// Environment overrides applied after the file is read.
const (
	EnvDBPath = "MASTERYPATH_DB"
	EnvListen = "MASTERYPATH_LISTEN"
)

// Config holds the full masterypath configuration.
type Config struct {
	Listen   string      `yaml:"listen"`
	DBPath   string      `yaml:"db_path"` // empty = platform default
	LogLevel string      `yaml:"log_level"`
	Decay    DecayConfig `yaml:"decay"`
}

// DecayConfig configures the background decay pass.
type DecayConfig struct {
	Enabled    bool          `yaml:"enabled"`
	Interval   time.Duration `yaml:"interval"`
	GraceDays  int           `yaml:"grace_days"`
	RatePerDay float64       `yaml:"rate_per_day"`
	Workers    int           `yaml:"workers"`
}

// Default returns sane defaults.
func Default() *Config {
	return &Config{
		Listen:   ":8080",
		LogLevel: "info",
		Decay: DecayConfig{
			Enabled:    true,
			Interval:   decay.DefaultInterval,
			GraceDays:  decay.DefaultGraceDays,
			RatePerDay: decay.DefaultRatePerDay,
			Workers:    decay.DefaultWorkers,
		},
	}
}

// Load reads a YAML config file over the defaults, applies environment
// overrides and validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.ApplyEnv()
	return cfg, cfg.Validate()
}

// ApplyEnv overrides fields from MASTERYPATH_* environment variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvDBPath); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv(EnvListen); v != "" {
		c.Listen = v
	}
}

// Validate checks that required fields are present and values are sane.
func (c *Config) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("listen is required")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.Decay.Interval < time.Minute {
		return fmt.Errorf("decay.interval must be at least 1m, got %s", c.Decay.Interval)
	}
	if c.Decay.GraceDays < 0 {
		return fmt.Errorf("decay.grace_days must be >= 0")
	}
	if c.Decay.RatePerDay <= 0 || c.Decay.RatePerDay > 1 {
		return fmt.Errorf("decay.rate_per_day must be in (0, 1], got %g", c.Decay.RatePerDay)
	}
	if c.Decay.Workers <= 0 {
		return fmt.Errorf("decay.workers must be > 0")
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unsupported log_level %q (use debug, info, warn or error)", c.LogLevel)
	}
}

// DecayPolicy returns the configured decay parameters.
func (c *Config) DecayPolicy() decay.Policy {
	return decay.Policy{GraceDays: c.Decay.GraceDays, RatePerDay: c.Decay.RatePerDay}
}
