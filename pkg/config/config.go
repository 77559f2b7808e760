// Package config loads simulation settings from YAML with environment
// overrides. Command-line flags are applied by the callers on top.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-malsim/pkg/controls"
	"github.com/dd0wney/cluso-malsim/pkg/logging"
	"github.com/dd0wney/cluso-malsim/pkg/simulation"
	"github.com/dd0wney/cluso-malsim/pkg/validation"
	"github.com/dd0wney/cluso-malsim/pkg/visualization"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Environment overrides, applied after the file is read.
const (
	EnvMode     = "MALSIM_MODE"
	EnvNodes    = "MALSIM_NODES"
	EnvLogLevel = "LOG_LEVEL"
)

// Defaults
const (
	DefaultNodes      = 20
	DefaultMode       = "worms"
	DefaultWormRate   = 0.25
	DefaultTrojanRate = 0.5
	DefaultPatchRate  = 0.02
	DefaultLogLevel   = "info"

	MinTickInterval = 10 * time.Millisecond
	MaxTickInterval = 10 * time.Second
)

// Load finds and loads the config file, or returns defaults if none is
// found. The returned path is empty when defaults were used.
func Load() (*Config, string, error) {
	path := FindConfigPath()
	if path == "" {
		cfg := DefaultConfig()
		if err := cfg.ApplyEnv(); err != nil {
			return nil, "", err
		}
		return cfg, "", nil
	}
	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path, fills in defaults and
// applies environment overrides. It does not validate.
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.ApplyEnv(); err != nil {
		return nil, path, err
	}
	return &cfg, path, nil
}

// DefaultConfig returns the settings used when no file is present.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	c.Simulation.Nodes = validation.DefaultOr(c.Simulation.Nodes, DefaultNodes)
	c.Simulation.Mode = validation.DefaultOr(c.Simulation.Mode, DefaultMode)
	c.Simulation.TickInterval = validation.DefaultOr(c.Simulation.TickInterval, Duration(simulation.DefaultTickInterval))
	if c.Simulation.AutoSeed == nil {
		on := true
		c.Simulation.AutoSeed = &on
	}
	c.Rates.Worm = floatOr(c.Rates.Worm, DefaultWormRate)
	c.Rates.Trojan = floatOr(c.Rates.Trojan, DefaultTrojanRate)
	c.Rates.Patch = floatOr(c.Rates.Patch, DefaultPatchRate)
	c.Simulation.Layout = validation.DefaultOr(c.Simulation.Layout, visualization.LayoutCircular)
	c.Logging.Level = validation.DefaultOr(c.Logging.Level, DefaultLogLevel)
}

// floatOr keeps an explicit zero rate, which a plain zero-value check would lose.
func floatOr(v *float64, def float64) *float64 {
	if v != nil {
		return v
	}
	return &def
}

// ApplyEnv overrides file values with MALSIM_MODE, MALSIM_NODES and LOG_LEVEL.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvMode); v != "" {
		c.Simulation.Mode = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv(EnvNodes); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidConfig, EnvNodes, v)
		}
		c.Simulation.Nodes = n
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = strings.ToLower(strings.TrimSpace(v))
	}
	return nil
}

// Validate checks every field and reports all failures at once.
func (c *Config) Validate() error {
	tagErr := validation.Struct(c)

	rangeErr := validation.NewConfigValidator("simulation").
		RangeDuration("tick_interval", c.Simulation.TickInterval.Duration(), MinTickInterval, MaxTickInterval).
		Validate()

	listenErr := validation.NewConfigValidator("metrics").
		When(c.Metrics.Listen != "", func(cv *validation.ConfigValidator) {
			cv.Custom("listen", func() error {
				_, _, err := net.SplitHostPort(c.Metrics.Listen)
				return err
			})
		}).
		Validate()

	if err := errors.Join(tagErr, rangeErr, listenErr); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Mode parses the configured interaction mode.
func (c *Config) Mode() (simulation.Mode, error) {
	return simulation.ParseMode(c.Simulation.Mode)
}

// LogLevel returns the configured logger level.
func (c *Config) LogLevel() logging.Level {
	return logging.ParseLevel(c.Logging.Level)
}

// RateConfig returns the configured rates, treating unset ones as defaults.
func (c *Config) RateConfig() simulation.RateConfig {
	return simulation.RateConfig{
		WormRate:   deref(c.Rates.Worm, DefaultWormRate),
		TrojanRate: deref(c.Rates.Trojan, DefaultTrojanRate),
		PatchRate:  deref(c.Rates.Patch, DefaultPatchRate),
	}
}

// Panel builds a live control panel seeded with this configuration.
func (c *Config) Panel() *controls.Panel {
	autoSeed := c.Simulation.AutoSeed == nil || *c.Simulation.AutoSeed
	return controls.NewPanel(c.RateConfig(), c.Simulation.TickInterval.Duration(), c.Simulation.Nodes, autoSeed)
}

// Layout builds the configured node layout on the default canvas.
func (c *Config) Layout() (visualization.Layout, error) {
	return visualization.NewLayout(c.Simulation.Layout, visualization.DefaultLayoutConfig())
}

func deref(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

// Overrides carries command-line values. Zero fields leave the config alone.
type Overrides struct {
	Mode          string
	Nodes         int
	TickInterval  time.Duration
	AutoSeed      *bool
	Layout        string
	LogLevel      string
	LogFile       string
	MetricsListen string
}

// Apply copies every non-zero override into c.
func (c *Config) Apply(o Overrides) {
	if o.Mode != "" {
		c.Simulation.Mode = strings.ToLower(o.Mode)
	}
	if o.Nodes != 0 {
		c.Simulation.Nodes = o.Nodes
	}
	if o.TickInterval != 0 {
		c.Simulation.TickInterval = Duration(o.TickInterval)
	}
	if o.AutoSeed != nil {
		c.Simulation.AutoSeed = o.AutoSeed
	}
	if o.Layout != "" {
		c.Simulation.Layout = strings.ToLower(o.Layout)
	}
	if o.LogLevel != "" {
		c.Logging.Level = strings.ToLower(o.LogLevel)
	}
	if o.LogFile != "" {
		c.Logging.File = o.LogFile
	}
	if o.MetricsListen != "" {
		c.Metrics.Listen = o.MetricsListen
	}
}

// LoadWithOverrides loads path (or the default lookup when path is empty),
// applies o and validates the result.
func LoadWithOverrides(path string, o Overrides) (*Config, string, error) {
	var (
		cfg *Config
		err error
	)
	if path != "" {
		cfg, path, err = LoadFromPath(path)
	} else {
		cfg, path, err = Load()
	}
	if err != nil {
		return nil, path, err
	}

	cfg.Apply(o)
	if err := cfg.Validate(); err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}
