package cascade_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cascadehq/cascade"
)

func TestDefaultConfig(t *testing.T) {
	cfg := cascade.DefaultConfig()

	if cfg.MaxWorkers != 10 {
		t.Errorf("MaxWorkers = %d, want 10", cfg.MaxWorkers)
	}
	if !cfg.StopOnFailure {
		t.Error("StopOnFailure should default to true")
	}
	if !cfg.AutoCheckpoint {
		t.Error("AutoCheckpoint should default to true")
	}
	if cfg.ShutdownTimeout != 30*time.Second {
		t.Errorf("ShutdownTimeout = %s, want 30s", cfg.ShutdownTimeout)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cascade.yaml")
	data := []byte("max_workers: 4\nstop_on_failure: false\nshutdown_timeout: 5s\ndispatch_rate: 50\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := cascade.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.MaxWorkers != 4 {
		t.Errorf("MaxWorkers = %d, want 4", cfg.MaxWorkers)
	}
	if cfg.StopOnFailure {
		t.Error("StopOnFailure should be overridden to false")
	}
	if cfg.ShutdownTimeout != 5*time.Second {
		t.Errorf("ShutdownTimeout = %s, want 5s", cfg.ShutdownTimeout)
	}
	if cfg.DispatchRate != 50 {
		t.Errorf("DispatchRate = %v, want 50", cfg.DispatchRate)
	}
	// Unset keys keep their defaults.
	if !cfg.AutoCheckpoint {
		t.Error("AutoCheckpoint should keep its default")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := cascade.LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadConfigInvalidWorkers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cascade.yaml")
	if err := os.WriteFile(path, []byte("max_workers: -1\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := cascade.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.MaxWorkers != 10 {
		t.Errorf("MaxWorkers = %d, want fallback 10", cfg.MaxWorkers)
	}
}
