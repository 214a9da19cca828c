package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads configuration from the given YAML file path. A missing file is
// not an error: defaults are returned. Values present in the file are
// applied on top of the defaults, so a partial file is fine.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Timing.SeriesCapacity <= 0 {
		return fmt.Errorf("timing.seriesCapacity must be positive, got %d", cfg.Timing.SeriesCapacity)
	}
	if cfg.Timing.MaxCommandDepth < 0 {
		return fmt.Errorf("timing.maxCommandDepth must not be negative, got %d", cfg.Timing.MaxCommandDepth)
	}
	if cfg.Timing.SlowThresholdMs < 0 || cfg.Timing.SuspiciousThresholdMs < 0 {
		return errors.New("timing thresholds must not be negative")
	}
	return nil
}
