// Copyright 2026 The Roombot Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the roombot service configuration.
type Config struct {
	// Platform configures the chat-platform connection.
	Platform PlatformConfig `yaml:"platform"`

	// Brain configures the persistent key-value store.
	Brain BrainConfig `yaml:"brain"`

	// RefreshInterval is how often the room list is reconciled against
	// the platform, as a Go duration string. Default: 60s.
	RefreshInterval string `yaml:"refresh_interval"`

	// InboxTimeoutMS is the long-poll timeout for the inbox, in
	// milliseconds. Default: 30000.
	InboxTimeoutMS int `yaml:"inbox_timeout_ms"`

	// LogLevel is one of debug, info, warn, error. Default: info.
	LogLevel string `yaml:"log_level"`
}

// PlatformConfig configures the chat-platform connection.
type PlatformConfig struct {
	// URL is the platform API base URL.
	URL string `yaml:"url"`

	// Token is the bot account's API token.
	Token string `yaml:"token"`

	// Username is the bot account's username. Join uses it to check
	// the bot's own moderator rights in a room.
	Username string `yaml:"username"`
}

// BrainConfig configures the persistent key-value store.
type BrainConfig struct {
	// Path is the SQLite database file path.
	Path string `yaml:"path"`

	// StateKey is the key the serialized room state lives under.
	// Default: roombot/state.
	StateKey string `yaml:"state_key"`
}

// Default returns the default configuration. Defaults cover the
// optional fields only; platform credentials and the brain path must
// come from the config file.
func Default() *Config {
	return &Config{
		RefreshInterval: "60s",
		InboxTimeoutMS:  30000,
		Brain: BrainConfig{
			StateKey: "roombot/state",
		},
		LogLevel: "info",
	}
}

// Load loads configuration from the ROOMBOT_CONFIG environment
// variable. There are no fallbacks: if ROOMBOT_CONFIG is not set,
// this fails.
func Load() (*Config, error) {
	path := os.Getenv("ROOMBOT_CONFIG")
	if path == "" {
		return nil, fmt.Errorf("ROOMBOT_CONFIG environment variable not set; " +
			"set it to the path of your roombot.yaml config file, or use --config flag")
	}
	return LoadFile(path)
}

// LoadFile loads configuration from a specific file path. The file is
// the single source of truth; environment variables do not override
// its values.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for errors. Every finding names
// its field; findings are joined so one pass reports them all.
func (c *Config) Validate() error {
	var errs []error

	if c.Platform.URL == "" {
		errs = append(errs, fmt.Errorf("platform.url is required"))
	} else if _, err := url.Parse(c.Platform.URL); err != nil {
		errs = append(errs, fmt.Errorf("platform.url: %w", err))
	}
	if c.Platform.Token == "" {
		errs = append(errs, fmt.Errorf("platform.token is required"))
	}
	if c.Platform.Username == "" {
		errs = append(errs, fmt.Errorf("platform.username is required"))
	}
	if c.Brain.Path == "" {
		errs = append(errs, fmt.Errorf("brain.path is required"))
	}
	if c.Brain.StateKey == "" {
		errs = append(errs, fmt.Errorf("brain.state_key is required"))
	}

	if interval, err := time.ParseDuration(c.RefreshInterval); err != nil {
		errs = append(errs, fmt.Errorf("refresh_interval: %w", err))
	} else if interval <= 0 {
		errs = append(errs, fmt.Errorf("refresh_interval must be positive"))
	}

	if c.InboxTimeoutMS < 0 {
		errs = append(errs, fmt.Errorf("inbox_timeout_ms must not be negative"))
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log_level must be one of debug, info, warn, error"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Refresh returns the parsed reconciliation interval. Call Validate
// first; an unparseable value here returns zero.
func (c *Config) Refresh() time.Duration {
	interval, err := time.ParseDuration(c.RefreshInterval)
	if err != nil {
		return 0
	}
	return interval
}
