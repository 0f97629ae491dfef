// Package config loads and saves the botwatch configuration file.
package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied when the config file is missing or partial.
const (
	DefaultBaseURL             = "http://localhost:8080"
	DefaultPollIntervalSeconds = 3
	DefaultTimeoutSeconds      = 10
)

// Config holds the client configuration.
type Config struct {
	BaseURL             string `yaml:"base_url"`
	PollIntervalSeconds int    `yaml:"poll_interval_seconds"`
	TimeoutSeconds      int    `yaml:"request_timeout_seconds"`
	JournalPath         string `yaml:"journal_path,omitempty"`
	LogPath             string `yaml:"log_path,omitempty"`
}

// Default returns a config populated with defaults.
func Default() *Config {
	return &Config{
		BaseURL:             DefaultBaseURL,
		PollIntervalSeconds: DefaultPollIntervalSeconds,
		TimeoutSeconds:      DefaultTimeoutSeconds,
		JournalPath:         filepath.Join(DataDir(), "journal.db"),
		LogPath:             filepath.Join(DataDir(), "botwatch.log"),
	}
}

// PollInterval returns the poll interval as a duration.
func (c *Config) PollInterval() time.Duration {
	if c.PollIntervalSeconds <= 0 {
		return DefaultPollIntervalSeconds * time.Second
	}
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

// Timeout returns the per-request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return DefaultTimeoutSeconds * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Load reads the config at path. A missing file is not an error; defaults
// are returned. Fields absent from the file keep their defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to path, creating parent directories as needed.
func Save(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// ConfigDir returns the directory holding the config file, honoring
// XDG_CONFIG_HOME.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "botwatch")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".botwatch"
	}
	return filepath.Join(home, ".config", "botwatch")
}

// ConfigPath returns the full path of the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// DataDir returns the directory for the journal and log files, honoring
// XDG_DATA_HOME.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "botwatch")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".botwatch"
	}
	return filepath.Join(home, ".local", "share", "botwatch")
}
