package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadCreatesDefaultOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.APIAddr != ":3333" {
		t.Errorf("expected default api addr, got %q", cfg.APIAddr)
	}
	if cfg.RefreshCron == "" {
		t.Error("expected default refresh cron")
	}

	// First run writes the file with 0600.
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("expected config file to be created: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected 0600 permissions, got %v", info.Mode().Perm())
	}
}

func TestLoadMergesWithDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "api_addr: \":4444\"\nupstream_url: \"http://backend:9000\"\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.APIAddr != ":4444" {
		t.Errorf("expected overridden api addr, got %q", cfg.APIAddr)
	}
	if cfg.UpstreamURL != "http://backend:9000" {
		t.Errorf("expected overridden upstream url, got %q", cfg.UpstreamURL)
	}
	// Unset keys keep their defaults.
	if cfg.CacheTTLMinutes != 15 {
		t.Errorf("expected default cache ttl, got %d", cfg.CacheTTLMinutes)
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("api_addr: [unclosed"), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed yaml")
	}
}
