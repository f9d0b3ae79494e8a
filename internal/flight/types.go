package flight

import (
	"fmt"

	"github.com/globalpizza/Reto-Cohete/internal/physics"
)

// Config controls stepping and recording. It does not touch the physics.
type Config struct {
	Dt             float64 // s, fixed integration step
	SampleInterval float64 // s, history spacing
	MaxDuration    float64 // s, Run gives up after this much simulated time
	HistoryLimit   int     // 0 keeps every sample
}

func DefaultConfig() Config {
	return Config{
		Dt:             0.005,
		SampleInterval: 0.1,
		MaxDuration:    100,
	}
}

func (c Config) validate() error {
	switch {
	case !(c.Dt > 0):
		return fmt.Errorf("dt must be positive, got %f", c.Dt)
	case !(c.SampleInterval > 0):
		return fmt.Errorf("sample interval must be positive, got %f", c.SampleInterval)
	case !(c.MaxDuration > 0):
		return fmt.Errorf("max duration must be positive, got %f", c.MaxDuration)
	case c.HistoryLimit < 0:
		return fmt.Errorf("history limit must not be negative, got %d", c.HistoryLimit)
	}
	return nil
}

// Snapshot is a copy of the flight state at one instant.
type Snapshot struct {
	Time      float64       `json:"time"`
	Position  physics.Vec   `json:"position"`
	Velocity  physics.Vec   `json:"velocity"`
	WaterMass float64       `json:"water_mass"`
	AirMass   float64       `json:"air_mass"`
	Pressure  float64       `json:"pressure"`
	Phase     physics.Phase `json:"phase"`
	Active    bool          `json:"active"`
}

func (s Snapshot) Speed() float64 {
	return s.Velocity.Norm()
}

// Metric accumulates a statistic over a flight.
type Metric interface {
	Name() string
	Observe(s Snapshot)
	Value() float64
	Reset()
}

// Observer is notified after every step.
type Observer interface {
	OnStep(s Snapshot)
}

type ObserverFunc func(s Snapshot)

func (f ObserverFunc) OnStep(s Snapshot) { f(s) }

type Result struct {
	History []Snapshot         `json:"history"`
	Final   Snapshot           `json:"final"`
	Steps   int                `json:"steps"`
	Metrics map[string]float64 `json:"metrics"`
	Landed  bool               `json:"landed"`
}
