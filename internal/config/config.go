package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type Config struct {
	History   HistoryConfig   `toml:"history"`
	Monitor   MonitorConfig   `toml:"monitor"`
	AutoClear AutoClearConfig `toml:"autoclear"`
	Logging   LoggingConfig   `toml:"logging"`
}

type HistoryConfig struct {
	MaxItems  int `toml:"max_items"`
	MaxPinned int `toml:"max_pinned"`
}

type MonitorConfig struct {
	MinPollMs      int `toml:"min_poll_ms"`
	MaxPollMs      int `toml:"max_poll_ms"`
	DedupIndexSize int `toml:"dedup_index_size"`
}

type AutoClearConfig struct {
	Enabled         bool `toml:"enabled"`
	IntervalMinutes int  `toml:"interval_minutes"`
}

type LoggingConfig struct {
	File       string `toml:"file"`
	Level      string `toml:"level"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxAgeDays int    `toml:"max_age_days"`
	MaxBackups int    `toml:"max_backups"`
}

func Load() (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".config", "clipvault")
	configPath := filepath.Join(configDir, "config.toml")

	// Create default config if it doesn't exist
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := createDefaultConfig(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	}

	var config Config
	if _, err := toml.DecodeFile(configPath, &config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	config.applyDefaults()

	return &config, nil
}

// applyDefaults fills in zero or invalid values with sane defaults.
func (c *Config) applyDefaults() {
	if c.History.MaxItems <= 0 {
		c.History.MaxItems = 500
	}
	if c.History.MaxPinned <= 0 {
		c.History.MaxPinned = 50
	}
	if c.Monitor.MinPollMs <= 0 {
		c.Monitor.MinPollMs = 500
	}
	if c.Monitor.MaxPollMs < c.Monitor.MinPollMs {
		c.Monitor.MaxPollMs = c.Monitor.MinPollMs * 2
	}
	if c.Monitor.DedupIndexSize <= 0 {
		c.Monitor.DedupIndexSize = 50
	}
	if c.AutoClear.IntervalMinutes <= 0 {
		c.AutoClear.IntervalMinutes = 15
	}
	if c.Logging.File == "" {
		c.Logging.File = "~/.config/clipvault/clipvault.log"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.MaxSizeMB <= 0 {
		c.Logging.MaxSizeMB = 10
	}
	if c.Logging.MaxAgeDays <= 0 {
		c.Logging.MaxAgeDays = 14
	}
	if c.Logging.MaxBackups <= 0 {
		c.Logging.MaxBackups = 3
	}
}

func createDefaultConfig(configPath string) error {
	// Ensure config directory exists
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}

	file, err := os.Create(configPath)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = file.WriteString(`[history]
max_items = 500
max_pinned = 50

[monitor]
min_poll_ms = 500
max_poll_ms = 1000
dedup_index_size = 50

[autoclear]
enabled = false
interval_minutes = 15

[logging]
file = "~/.config/clipvault/clipvault.log"
level = "info"
max_size_mb = 10
max_age_days = 14
max_backups = 3
`)

	return err
}
