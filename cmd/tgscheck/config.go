package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the tgscheck settings loadable from a TOML file.
// Flags override whatever the file provides.
type Config struct {
	Daemon DaemonConfig `toml:"daemon"`
	Watch  WatchConfig  `toml:"watch"`
}

// DaemonConfig controls how the tgs daemon is located and started.
type DaemonConfig struct {
	Path                  string `toml:"path"`
	StartupTimeoutSeconds int    `toml:"startup_timeout_seconds"`
	SkipVersionCheck      bool   `toml:"skip_version_check"`
}

// WatchConfig controls watch-mode behavior.
type WatchConfig struct {
	DebounceMillis int `toml:"debounce_millis"`
}

const defaultDebounceMillis = 200

// defaultConfigPath returns ~/.config/tgscheck/config.toml.
func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".config", "tgscheck", "config.toml")
}

// loadConfig reads the TOML config file at path.
//
// An explicit path that does not exist is an error; a missing default path
// just yields the zero config.
func loadConfig(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath()
	}

	cfg := &Config{}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}

		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}

// startupTimeout returns the configured startup timeout, or zero for the
// SDK default.
func (c *Config) startupTimeout() time.Duration {
	if c.Daemon.StartupTimeoutSeconds <= 0 {
		return 0
	}

	return time.Duration(c.Daemon.StartupTimeoutSeconds) * time.Second
}

// debounce returns the watch-mode debounce window.
func (c *Config) debounce() time.Duration {
	millis := c.Watch.DebounceMillis
	if millis <= 0 {
		millis = defaultDebounceMillis
	}

	return time.Duration(millis) * time.Millisecond
}
