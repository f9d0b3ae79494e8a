package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/globalpizza/Reto-Cohete/internal/config"
	"github.com/globalpizza/Reto-Cohete/internal/experiment"
	"github.com/globalpizza/Reto-Cohete/internal/physics"
)

// flagName maps a rocket parameter to its command-line flag.
func flagName(param string) string {
	return strings.ReplaceAll(param, "_", "-")
}

var paramUsage = map[string]string{
	"pressure_psi":     "initial gauge pressure (psi)",
	"bottle_volume_l":  "bottle volume (L)",
	"water_volume_l":   "water load (L)",
	"nozzle_area_cm2":  "nozzle exit area (cm²)",
	"bottle_area_cm2":  "bottle cross-section (cm²)",
	"dry_mass_g":       "empty rocket mass (g)",
	"tube_length_m":    "launch tube length (m)",
	"drag_coeff":       "drag coefficient",
	"ref_area_cm2":     "drag reference area (cm²)",
	"launch_angle_deg": "launch angle from horizontal (deg), 0 flies vertical",
}

func addParamFlags(cmd *cobra.Command) {
	u := physics.DefaultUserParams()
	defaults := u.GetParams()
	for _, name := range physics.ParamNames() {
		cmd.PersistentFlags().Float64(flagName(name), defaults[name], paramUsage[name])
	}
}

// resolveConfig layers defaults, --preset, --config and explicitly set flags,
// in that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if presetName != "" {
		p := config.GetPreset(presetName)
		if p == nil {
			return nil, fmt.Errorf("unknown preset %q (have %s)", presetName, strings.Join(config.ListPresets(), ", "))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Overlay(configFile, cfg)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("air-model") {
		cfg.AirModel = airModel
	}
	if flags.Changed("max-duration") {
		cfg.MaxDuration = maxDuration
	}

	for _, name := range physics.ParamNames() {
		fn := flagName(name)
		if !flags.Changed(fn) {
			continue
		}
		v, err := flags.GetFloat64(fn)
		if err != nil {
			return nil, err
		}
		if err := cfg.Rocket.SetParam(name, v); err != nil {
			return nil, err
		}
	}

	if _, err := experiment.NewRegistry().GetIntegrator(cfg.Integrator); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
