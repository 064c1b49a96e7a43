package cascade

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds configuration for an engine.Executor.
type Config struct {
	// MaxWorkers is the maximum number of parallel-eligible steps
	// executed concurrently within one wave.
	MaxWorkers int `yaml:"max_workers"`

	// StopOnFailure aborts the scheduling loop after the first failed
	// step; every still-unresolved step is marked skipped.
	StopOnFailure bool `yaml:"stop_on_failure"`

	// AutoCheckpoint snapshots step results and shared state after each
	// fully-successful wave.
	AutoCheckpoint bool `yaml:"auto_checkpoint"`

	// ShutdownTimeout is the maximum time to wait for outstanding steps
	// during graceful shutdown.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// DispatchRate limits how many steps per second may be handed to the
	// worker pool. Zero means unlimited.
	DispatchRate float64 `yaml:"dispatch_rate"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxWorkers:      10,
		StopOnFailure:   true,
		AutoCheckpoint:  true,
		ShutdownTimeout: 30 * time.Second,
	}
}

// UnmarshalYAML implements yaml.Unmarshaler. Durations are written as Go
// duration strings ("30s", "1m30s"); keys absent from the document keep
// whatever value the Config already holds.
func (c *Config) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		MaxWorkers      *int     `yaml:"max_workers"`
		StopOnFailure   *bool    `yaml:"stop_on_failure"`
		AutoCheckpoint  *bool    `yaml:"auto_checkpoint"`
		ShutdownTimeout *string  `yaml:"shutdown_timeout"`
		DispatchRate    *float64 `yaml:"dispatch_rate"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}

	if raw.MaxWorkers != nil {
		c.MaxWorkers = *raw.MaxWorkers
	}
	if raw.StopOnFailure != nil {
		c.StopOnFailure = *raw.StopOnFailure
	}
	if raw.AutoCheckpoint != nil {
		c.AutoCheckpoint = *raw.AutoCheckpoint
	}
	if raw.ShutdownTimeout != nil {
		d, err := time.ParseDuration(*raw.ShutdownTimeout)
		if err != nil {
			return fmt.Errorf("shutdown_timeout: %w", err)
		}
		c.ShutdownTimeout = d
	}
	if raw.DispatchRate != nil {
		c.DispatchRate = *raw.DispatchRate
	}
	return nil
}

// LoadConfig reads a YAML config file and overlays it on DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("cascade: read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("cascade: parse config %s: %w", path, err)
	}
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = DefaultConfig().MaxWorkers
	}
	return cfg, nil
}
