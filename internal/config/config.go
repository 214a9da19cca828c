// Package config provides configuration management for the chronosh REPL.
// Configuration is loaded from an optional YAML file in the data directory;
// a missing file falls back to defaults.
package config

// TimingConfig holds tunables for the command timing instrumentation.
type TimingConfig struct {
	// SlowThresholdMs is the duration above which a slow-command notice is
	// printed before the next prompt.
	SlowThresholdMs int `yaml:"slowThresholdMs"`

	// SuspiciousThresholdMs is the duration above which a measurement is
	// flagged as likely spanning idle time rather than real execution.
	SuspiciousThresholdMs int `yaml:"suspiciousThresholdMs"`

	// MaxCommandDepth is the exec nesting depth above which a command is
	// treated as internal and never measured. The default of 3 matches the
	// shapes we have observed; it is a heuristic, not a derived constant.
	MaxCommandDepth int `yaml:"maxCommandDepth"`

	// SeriesCapacity bounds the per-command duration history.
	SeriesCapacity int `yaml:"seriesCapacity"`

	// Exclude lists command names that must never start a measurement.
	Exclude []string `yaml:"exclude"`
}

// Config holds all REPL configuration.
type Config struct {
	// Prompt is the base prompt text.
	Prompt string `yaml:"prompt"`

	// History controls whether command records are persisted to the
	// history database. Disabling it degrades to in-memory stats only.
	History bool `yaml:"history"`

	Timing TimingConfig `yaml:"timing"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Prompt:  "chronosh> ",
		History: true,
		Timing: TimingConfig{
			SlowThresholdMs:       1000,
			SuspiciousThresholdMs: 5000,
			MaxCommandDepth:       3,
			SeriesCapacity:        100,
			Exclude:               nil,
		},
	}
}
