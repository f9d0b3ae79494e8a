package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/globalpizza/Reto-Cohete/internal/flight"
	"github.com/globalpizza/Reto-Cohete/internal/physics"
)

const (
	DefaultIntegrator     = "rk4"
	DefaultDt             = 0.005
	DefaultSampleInterval = 0.1
	DefaultMaxDuration    = 100.0
	// About real time at the 30 fps live view.
	DefaultStepsPerFrame = 7
)

type Config struct {
	Name           string             `yaml:"name,omitempty"`
	Integrator     string             `yaml:"integrator"`
	AirModel       string             `yaml:"air_model"`
	Dt             float64            `yaml:"dt"`
	SampleInterval float64            `yaml:"sample_interval"`
	MaxDuration    float64            `yaml:"max_duration"`
	HistoryLimit   int                `yaml:"history_limit"`
	StepsPerFrame  int                `yaml:"steps_per_frame"`
	Rocket         physics.UserParams `yaml:"rocket"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:           "default",
		Integrator:     DefaultIntegrator,
		AirModel:       string(physics.AirNone),
		Dt:             DefaultDt,
		SampleInterval: DefaultSampleInterval,
		MaxDuration:    DefaultMaxDuration,
		StepsPerFrame:  DefaultStepsPerFrame,
		Rocket:         physics.DefaultUserParams(),
	}
}

// Load overlays the YAML file at path on the defaults.
func Load(path string) (*Config, error) {
	return Overlay(path, DefaultConfig())
}

// Overlay reads the YAML file at path on top of a copy of base. Keys the
// file omits keep the base values.
func Overlay(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base.Clone()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Params converts the rocket section to SI and validates it.
func (c *Config) Params() (physics.Params, error) {
	p := physics.ToSI(c.Rocket)
	am, err := physics.ParseAirModel(c.AirModel)
	if err != nil {
		return p, err
	}
	p.AirModel = am
	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}

func (c *Config) Flight() flight.Config {
	return flight.Config{
		Dt:             c.Dt,
		SampleInterval: c.SampleInterval,
		MaxDuration:    c.MaxDuration,
		HistoryLimit:   c.HistoryLimit,
	}
}

func (c *Config) Validate() error {
	switch {
	case c.Integrator == "":
		return fmt.Errorf("integrator is required")
	case !(c.Dt > 0):
		return fmt.Errorf("dt must be positive, got %g", c.Dt)
	case !(c.SampleInterval > 0):
		return fmt.Errorf("sample_interval must be positive, got %g", c.SampleInterval)
	case !(c.MaxDuration > 0):
		return fmt.Errorf("max_duration must be positive, got %g", c.MaxDuration)
	case c.HistoryLimit < 0:
		return fmt.Errorf("history_limit must not be negative, got %d", c.HistoryLimit)
	case c.StepsPerFrame < 1:
		return fmt.Errorf("steps_per_frame must be at least 1, got %d", c.StepsPerFrame)
	}
	if _, err := c.Params(); err != nil {
		return fmt.Errorf("rocket: %w", err)
	}
	return nil
}

func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}
