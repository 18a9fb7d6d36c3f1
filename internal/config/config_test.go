package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store.Backend != "memory" {
		t.Fatalf("expected default backend memory, got %q", cfg.Store.Backend)
	}
	if cfg.LogLevel() != slog.LevelInfo {
		t.Fatalf("expected default log level info, got %v", cfg.LogLevel())
	}
}

func TestLoadReadsTOMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "treestore.toml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}
	if _, err := decodeTOML(path); err != nil {
		t.Fatalf("decodeTOML: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store.Path != "treestore.bolt" {
		t.Fatalf("got store.path %q", cfg.Store.Path)
	}
}

func TestLoadOverridesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "treestore.toml")
	body := "[store]\nbackend = \"bolt\"\npath = \"custom.bolt\"\n\n[log]\nlevel = \"debug\"\n"
	if err := writeFile(path, body); err != nil {
		t.Fatalf("writeFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store.Backend != "bolt" || cfg.Store.Path != "custom.bolt" {
		t.Fatalf("unexpected config: %+v", cfg.Store)
	}
	if cfg.LogLevel() != slog.LevelDebug {
		t.Fatalf("expected debug level, got %v", cfg.LogLevel())
	}
}

func TestWatchReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "treestore.toml")
	if err := writeFile(path, "[store]\nbackend = \"memory\"\n"); err != nil {
		t.Fatalf("writeFile: %v", err)
	}

	logger := slog.New(slog.DiscardHandler)
	reloaded := make(chan *Config, 1)
	stop, err := Watch(path, logger, func(c *Config) { reloaded <- c })
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer stop()

	if err := writeFile(path, "[store]\nbackend = \"bolt\"\n"); err != nil {
		t.Fatalf("rewrite: %v", err)
	}

	select {
	case cfg := <-reloaded:
		if cfg.Store.Backend != "bolt" {
			t.Fatalf("got reloaded backend %q", cfg.Store.Backend)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for config reload")
	}
}

func writeFile(path, body string) error {
	return os.WriteFile(path, []byte(body), 0o644)
}
