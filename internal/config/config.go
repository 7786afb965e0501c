// Package config loads the vane settings file (config.toml).
package config

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/orowoletimothy/vane/internal/constants"
	"github.com/orowoletimothy/vane/internal/feasibility"
)

// Config represents the settings file.
type Config struct {
	Feasibility feasibility.Config `toml:"feasibility"`
	Server      Server             `toml:"server"`
	History     History            `toml:"history"`
	Log         Log                `toml:"log"`
}

// Server configures `vane serve`.
type Server struct {
	Addr string `toml:"addr"`
	// ShutdownTimeout is in seconds.
	ShutdownTimeout int `toml:"shutdown_timeout"`
	// AllowOrigins lists CORS origins; empty allows none.
	AllowOrigins []string `toml:"allow_origins"`
}

// History configures completion statistics.
type History struct {
	WindowDays int `toml:"window_days"`
}

// Log configures the file logger.
type Log struct {
	Debug bool `toml:"debug"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Feasibility: feasibility.DefaultConfig(),
		Server: Server{
			Addr:            constants.DefaultServerAddr,
			ShutdownTimeout: constants.DefaultShutdownTimeoutSec,
		},
		History: History{WindowDays: constants.DefaultHistoryWindowDays},
	}
}

// Load reads the settings file at path. A missing file yields the defaults;
// keys present in the file replace the corresponding defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	meta, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("config file %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if meta.IsDefined("server", "addr") {
		cfg.Server.Addr = strings.TrimSpace(cfg.Server.Addr)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Feasibility.Validate(); err != nil {
		return fmt.Errorf("[feasibility] %w", err)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("[server] addr must not be empty")
	}
	if c.Server.ShutdownTimeout < 1 {
		return fmt.Errorf("[server] shutdown_timeout must be at least 1, got %d", c.Server.ShutdownTimeout)
	}
	if c.History.WindowDays < 1 || c.History.WindowDays > constants.MaxHistoryDays {
		return fmt.Errorf("[history] window_days must be between 1 and %d, got %d", constants.MaxHistoryDays, c.History.WindowDays)
	}
	return nil
}

// ShutdownDuration returns the server shutdown grace period.
func (s Server) ShutdownDuration() time.Duration {
	return time.Duration(s.ShutdownTimeout) * time.Second
}

// Write encodes c to path, creating or truncating the file.
func Write(path string, c *Config) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("create config file %s: %w", path, err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("write config file %s: %w", path, err)
	}
	return nil
}
