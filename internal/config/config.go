// Package config loads run parameters from YAML and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"restaurantsim/internal/simulation"
)

// Config represents the application configuration
type Config struct {
	Customers       int           `yaml:"customers"`
	Cooks           int           `yaml:"cooks"`
	Tables          int           `yaml:"tables"`
	MachineCapacity int           `yaml:"machine_capacity"`
	RandomOrders    bool          `yaml:"random_orders"`
	CookTimeUnit    time.Duration `yaml:"cook_time_unit"`
	Seed            int64         `yaml:"seed"`
	LogLevel        string        `yaml:"log_level"`
	Trace           bool          `yaml:"trace"`
	Metrics         bool          `yaml:"metrics"`
}

// Default returns the configuration used when no file is given
func Default() Config {
	return Config{
		Customers:       10,
		Cooks:           3,
		Tables:          4,
		MachineCapacity: 2,
		RandomOrders:    true,
		CookTimeUnit:    time.Millisecond,
		LogLevel:        "info",
		Trace:           true,
	}
}

// Load reads a YAML file on top of the defaults
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values no run can use
func (c Config) Validate() error {
	var errs []error
	if c.Customers < 0 {
		errs = append(errs, fmt.Errorf("customers must not be negative, got %d", c.Customers))
	}
	if c.Cooks < 0 {
		errs = append(errs, fmt.Errorf("cooks must not be negative, got %d", c.Cooks))
	}
	if c.Tables < 0 {
		errs = append(errs, fmt.Errorf("tables must not be negative, got %d", c.Tables))
	}
	if c.MachineCapacity < 0 {
		errs = append(errs, fmt.Errorf("machine_capacity must not be negative, got %d", c.MachineCapacity))
	}
	if c.CookTimeUnit < 0 {
		errs = append(errs, fmt.Errorf("cook_time_unit must not be negative, got %s", c.CookTimeUnit))
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	return errors.Join(errs...)
}

// Level returns the configured log level, defaulting to info
func (c Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || c.LogLevel == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

// Simulation converts the configuration into run parameters
func (c Config) Simulation() simulation.Config {
	return simulation.Config{
		Customers:       c.Customers,
		Cooks:           c.Cooks,
		Tables:          c.Tables,
		MachineCapacity: c.MachineCapacity,
		RandomOrders:    c.RandomOrders,
		CookTimeUnit:    c.CookTimeUnit,
		Seed:            c.Seed,
	}
}
