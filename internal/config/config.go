// Package config loads the dashboard configuration from a YAML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level daemon configuration.
type Config struct {
	// APIAddr is the REST/WebSocket API listen address.
	APIAddr string `yaml:"api_addr"`
	// WebAddr is the static web UI listen address.
	WebAddr string `yaml:"web_addr"`
	// SSHAddr is the terminal dashboard listen address.
	SSHAddr string `yaml:"ssh_addr"`
	// HostKeyPath is the SSH host key location.
	HostKeyPath string `yaml:"host_key"`

	// DBPath is the SQLite database location.
	DBPath string `yaml:"db_path"`

	// UpstreamURL is the base URL of the external events backend.
	UpstreamURL string `yaml:"upstream_url"`
	// CacheTTLMinutes bounds how long fetched events are served from cache.
	CacheTTLMinutes int `yaml:"cache_ttl_minutes"`
	// RefreshCron schedules background agenda refreshes, e.g. "*/15 * * * *".
	RefreshCron string `yaml:"refresh_cron"`

	// DevMode enables CORS for local web UI development.
	DevMode bool `yaml:"dev_mode"`
	// DevOrigin is the allowed origin in dev mode.
	DevOrigin string `yaml:"dev_origin"`
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "dayboard", "config.yaml")
}

// Default returns the built-in configuration.
func Default() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		APIAddr:         ":3333",
		WebAddr:         ":8080",
		SSHAddr:         ":2222",
		HostKeyPath:     filepath.Join(home, ".ssh", "dayboard_ed25519"),
		DBPath:          filepath.Join(home, ".local", "share", "dayboard", "dayboard.db"),
		UpstreamURL:     "http://localhost:9000",
		CacheTTLMinutes: 15,
		RefreshCron:     "*/15 * * * *",
		DevOrigin:       "http://localhost:5173",
	}
}

// Load reads the config file, creating it with defaults on first run.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg := Default()
		if err := Save(path, cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Save writes the config file with restrictive permissions.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
