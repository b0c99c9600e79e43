package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.BackendURL == "" {
		t.Error("expected non-empty default backend_url")
	}
	if cfg.Port == 0 {
		t.Error("expected non-zero default port")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BackendURL != DefaultConfig().BackendURL {
		t.Errorf("expected default backend_url, got %q", cfg.BackendURL)
	}
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".clauselens.yml")
	content := "backend_url: https://api.example.com\nport: 9090\ncompany_name: Acme Legal\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BackendURL != "https://api.example.com" {
		t.Errorf("backend_url: got %q", cfg.BackendURL)
	}
	if cfg.Port != 9090 {
		t.Errorf("port: got %d", cfg.Port)
	}
	if cfg.CompanyName != "Acme Legal" {
		t.Errorf("company_name: got %q", cfg.CompanyName)
	}
	// Untouched fields keep defaults.
	if cfg.DataDir != ".clauselens" {
		t.Errorf("data_dir: got %q", cfg.DataDir)
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("CLAUSELENS_BACKEND_URL", "http://10.0.0.5:8000")
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BackendURL != "http://10.0.0.5:8000" {
		t.Errorf("expected env override, got %q", cfg.BackendURL)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"empty backend", func(c *Config) { c.BackendURL = "" }, true},
		{"relative backend", func(c *Config) { c.BackendURL = "localhost:8000" }, true},
		{"ftp scheme", func(c *Config) { c.BackendURL = "ftp://example.com" }, true},
		{"zero port", func(c *Config) { c.Port = 0 }, true},
		{"huge port", func(c *Config) { c.Port = 70000 }, true},
		{"empty data dir", func(c *Config) { c.DataDir = "" }, true},
		{"negative timeout", func(c *Config) { c.RequestTimeout = -1 }, true},
		{"negative max size", func(c *Config) { c.Upload.MaxSizeMB = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.yml")

	cfg := DefaultConfig()
	cfg.BackendURL = "https://api.example.com"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.BackendURL != cfg.BackendURL {
		t.Errorf("round trip backend_url: got %q", loaded.BackendURL)
	}
}
