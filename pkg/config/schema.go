package config

import (
	"time"
)

// Config is the on-disk configuration for both front ends.
type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Rates      RatesConfig      `yaml:"rates"`
	Logging    LoggingConfig    `yaml:"logging"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

// SimulationConfig holds the initial network and clock settings.
type SimulationConfig struct {
	Nodes        int      `yaml:"nodes" validate:"min=2,max=200"`
	TickInterval Duration `yaml:"tick_interval"`
	Mode         string   `yaml:"mode" validate:"required,oneof=worms trojan virus"`
	AutoSeed     *bool    `yaml:"auto_seed,omitempty"`
	Layout       string   `yaml:"layout" validate:"omitempty,oneof=circular force"`
}

// RatesConfig holds the initial slider positions.
type RatesConfig struct {
	Worm   *float64 `yaml:"worm,omitempty" validate:"omitnil,gte=0,lte=1"`
	Trojan *float64 `yaml:"trojan,omitempty" validate:"omitnil,gte=0,lte=1"`
	Patch  *float64 `yaml:"patch,omitempty" validate:"omitnil,gte=0,lte=1"`
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn warning error"`
	// File receives the log stream. The TUI needs one because it owns the
	// terminal; the headless runner falls back to stderr when empty.
	File string `yaml:"file,omitempty"`
}

// MetricsConfig configures the Prometheus endpoint of the headless runner.
type MetricsConfig struct {
	Listen string `yaml:"listen,omitempty"`
}

// Duration is a time.Duration written as a Go duration string in YAML.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
