package config

import (
	"sort"

	"github.com/globalpizza/Reto-Cohete/internal/physics"
)

func preset(name string, tune func(u *physics.UserParams)) *Config {
	cfg := DefaultConfig()
	cfg.Name = name
	tune(&cfg.Rocket)
	return cfg
}

// Presets are the launch setups offered by the classroom web app, plus the
// vertical reference launch.
var Presets = map[string]*Config{
	"default": DefaultConfig(),
	"beginner": preset("beginner", func(u *physics.UserParams) {
		u.PressurePSI, u.WaterVolumeL, u.DryMassG = 50, 0.5, 60
		u.DragCoeff, u.NozzleAreaCm2, u.LaunchAngleDeg = 0.75, 4.5, 45
	}),
	"optimal": preset("optimal", func(u *physics.UserParams) {
		u.PressurePSI, u.WaterVolumeL, u.DryMassG = 85, 0.7, 45
		u.DragCoeff, u.NozzleAreaCm2, u.LaunchAngleDeg = 0.55, 5.0, 30
	}),
	"max-height": preset("max-height", func(u *physics.UserParams) {
		u.PressurePSI, u.WaterVolumeL, u.DryMassG = 100, 0.8, 40
		u.DragCoeff, u.NozzleAreaCm2, u.LaunchAngleDeg = 0.5, 4.0, 85
	}),
	"max-range": preset("max-range", func(u *physics.UserParams) {
		u.PressurePSI, u.WaterVolumeL, u.DryMassG = 90, 0.65, 45
		u.DragCoeff, u.NozzleAreaCm2, u.LaunchAngleDeg = 0.5, 5.5, 30
	}),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
