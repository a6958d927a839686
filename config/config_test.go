package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	c := Default()
	if c.Concurrency != 4 {
		t.Errorf("Concurrency: got %d, want 4", c.Concurrency)
	}
	if c.HostFile != "site.yaml" {
		t.Errorf("HostFile: got %q, want %q", c.HostFile, "site.yaml")
	}
	if err := c.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("base_url: https://journals.example.org\nconcurrency: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if c.BaseURL != "https://journals.example.org" {
		t.Errorf("BaseURL: got %q", c.BaseURL)
	}
	if c.Concurrency != 2 {
		t.Errorf("Concurrency: got %d, want 2", c.Concurrency)
	}
	if c.SettingsFile != "settings.json" {
		t.Errorf("SettingsFile should keep default, got %q", c.SettingsFile)
	}
}

func TestLoadMissingUserConfig(t *testing.T) {
	SetConfigDir(t.TempDir())
	defer SetConfigDir("")

	c, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if c.BaseURL != "http://localhost" {
		t.Errorf("BaseURL: got %q", c.BaseURL)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for explicit missing file")
	}
}

func TestValidate(t *testing.T) {
	c := Default()
	c.Concurrency = 0
	if err := c.Validate(); err == nil {
		t.Error("expected error for zero concurrency")
	}
}
