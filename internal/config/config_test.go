package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadAppliesBoundsOnInvalidFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	body := "lobby_count: 99999\nport: 0\nbind_ip: \"\"\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	def := Default()
	if cfg.LobbyCount != def.LobbyCount {
		t.Errorf("LobbyCount = %d, want default %d", cfg.LobbyCount, def.LobbyCount)
	}
	if cfg.Port != def.Port {
		t.Errorf("Port = %d, want default %d", cfg.Port, def.Port)
	}
	if cfg.BindIP != def.BindIP {
		t.Errorf("BindIP = %q, want default %q", cfg.BindIP, def.BindIP)
	}
}

func TestLoadValidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	body := "lobby_count: 4\nport: 9000\nbind_ip: 127.0.0.1\nadmin_enabled: true\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LobbyCount != 4 || cfg.Port != 9000 || cfg.BindIP != "127.0.0.1" || !cfg.AdminEnabled {
		t.Errorf("unexpected config: %+v", cfg)
	}
}
