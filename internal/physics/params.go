package physics

import (
	"fmt"
	"math"
	"sort"

	"github.com/globalpizza/Reto-Cohete/internal/dynamo"
)

// UserParams is the parameter set in the units people tune a launch in.
type UserParams struct {
	PressurePSI    float64 `yaml:"pressure_psi" json:"pressure_psi"`
	BottleVolumeL  float64 `yaml:"bottle_volume_l" json:"bottle_volume_l"`
	WaterVolumeL   float64 `yaml:"water_volume_l" json:"water_volume_l"`
	NozzleAreaCm2  float64 `yaml:"nozzle_area_cm2" json:"nozzle_area_cm2"`
	BottleAreaCm2  float64 `yaml:"bottle_area_cm2" json:"bottle_area_cm2"`
	DryMassG       float64 `yaml:"dry_mass_g" json:"dry_mass_g"`
	TubeLengthM    float64 `yaml:"tube_length_m" json:"tube_length_m"`
	DragCoeff      float64 `yaml:"drag_coeff" json:"drag_coeff"`
	RefAreaCm2     float64 `yaml:"ref_area_cm2" json:"ref_area_cm2"`
	LaunchAngleDeg float64 `yaml:"launch_angle_deg" json:"launch_angle_deg"`
}

// DefaultUserParams is a 2 L bottle at 70 psi with a quarter fill.
func DefaultUserParams() UserParams {
	return UserParams{
		PressurePSI:   70.0,
		BottleVolumeL: 2.0,
		WaterVolumeL:  0.5,
		NozzleAreaCm2: 4.5,
		BottleAreaCm2: 95.0,
		DryMassG:      55.0,
		TubeLengthM:   1.0,
		DragCoeff:     0.75,
		RefAreaCm2:    100.0,
	}
}

func (u *UserParams) fields() map[string]*float64 {
	return map[string]*float64{
		"pressure_psi":     &u.PressurePSI,
		"bottle_volume_l":  &u.BottleVolumeL,
		"water_volume_l":   &u.WaterVolumeL,
		"nozzle_area_cm2":  &u.NozzleAreaCm2,
		"bottle_area_cm2":  &u.BottleAreaCm2,
		"dry_mass_g":       &u.DryMassG,
		"tube_length_m":    &u.TubeLengthM,
		"drag_coeff":       &u.DragCoeff,
		"ref_area_cm2":     &u.RefAreaCm2,
		"launch_angle_deg": &u.LaunchAngleDeg,
	}
}

func (u *UserParams) GetParams() map[string]float64 {
	out := make(map[string]float64)
	for k, v := range u.fields() {
		out[k] = *v
	}
	return out
}

func (u *UserParams) SetParam(name string, value float64) error {
	p, ok := u.fields()[name]
	if !ok {
		return fmt.Errorf("unknown param: %s", name)
	}
	*p = value
	return nil
}

// ParamNames lists the tunable fields in a stable order.
func ParamNames() []string {
	var u UserParams
	names := make([]string, 0, 10)
	for k := range u.fields() {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Params is the SI parameter set for one run.
type Params struct {
	InitialPressure    float64 // Pa, absolute
	BottleVolume       float64 // m^3
	InitialWaterVolume float64 // m^3
	NozzleArea         float64 // m^2
	BottleArea         float64 // m^2
	DryMass            float64 // kg
	TubeLength         float64 // m
	DragCoeff          float64
	RefArea            float64 // m^2
	LaunchAngle        float64 // rad, 0 selects vertical-only flight
	AirModel           AirModel
}

// ToSI converts user units to SI. It never fails; use Validate before
// building a flight.
func ToSI(u UserParams) Params {
	return Params{
		InitialPressure:    u.PressurePSI*PascalPerPSI + AtmosphericPressure,
		BottleVolume:       u.BottleVolumeL / LitersPerCubicM,
		InitialWaterVolume: u.WaterVolumeL / LitersPerCubicM,
		NozzleArea:         u.NozzleAreaCm2 / SquareCmPerSqM,
		BottleArea:         u.BottleAreaCm2 / SquareCmPerSqM,
		DryMass:            u.DryMassG / GramsPerKilogram,
		TubeLength:         u.TubeLengthM,
		DragCoeff:          u.DragCoeff,
		RefArea:            u.RefAreaCm2 / SquareCmPerSqM,
		LaunchAngle:        u.LaunchAngleDeg * math.Pi / 180,
	}
}

// Planar reports whether the run tracks horizontal motion.
func (p Params) Planar() bool {
	return p.LaunchAngle != 0
}

func (p Params) InitialWaterMass() float64 {
	return p.InitialWaterVolume * WaterDensity
}

func (p Params) InitialAirVolume() float64 {
	return p.BottleVolume - p.InitialWaterVolume
}

// InitialAirMass is the gas trapped above the water at fill temperature.
func (p Params) InitialAirMass() float64 {
	return p.InitialPressure * p.InitialAirVolume() / (AirGasConstant * FillTemperature)
}

func (p Params) Validate() error {
	named := []struct {
		name string
		v    float64
	}{
		{"initial_pressure", p.InitialPressure},
		{"bottle_volume", p.BottleVolume},
		{"initial_water_volume", p.InitialWaterVolume},
		{"nozzle_area", p.NozzleArea},
		{"bottle_area", p.BottleArea},
		{"dry_mass", p.DryMass},
		{"tube_length", p.TubeLength},
		{"drag_coeff", p.DragCoeff},
		{"ref_area", p.RefArea},
		{"launch_angle", p.LaunchAngle},
	}
	for _, f := range named {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return &dynamo.ParamError{Field: f.name, Value: f.v, Reason: "must be finite"}
		}
	}

	switch {
	case p.InitialPressure < AtmosphericPressure:
		return &dynamo.ParamError{Field: "initial_pressure", Value: p.InitialPressure, Reason: "must not be below atmospheric"}
	case p.BottleVolume <= 0:
		return &dynamo.ParamError{Field: "bottle_volume", Value: p.BottleVolume, Reason: "must be positive"}
	case p.InitialWaterVolume < 0:
		return &dynamo.ParamError{Field: "initial_water_volume", Value: p.InitialWaterVolume, Reason: "must not be negative"}
	case p.InitialWaterVolume >= p.BottleVolume:
		return &dynamo.ParamError{Field: "initial_water_volume", Value: p.InitialWaterVolume, Reason: "must be smaller than bottle volume"}
	case p.NozzleArea <= 0:
		return &dynamo.ParamError{Field: "nozzle_area", Value: p.NozzleArea, Reason: "must be positive"}
	case p.BottleArea <= 0:
		return &dynamo.ParamError{Field: "bottle_area", Value: p.BottleArea, Reason: "must be positive"}
	case p.NozzleArea >= p.BottleArea:
		return &dynamo.ParamError{Field: "nozzle_area", Value: p.NozzleArea, Reason: "must be smaller than bottle area"}
	case p.DryMass <= 0:
		return &dynamo.ParamError{Field: "dry_mass", Value: p.DryMass, Reason: "must be positive"}
	case p.TubeLength < 0:
		return &dynamo.ParamError{Field: "tube_length", Value: p.TubeLength, Reason: "must not be negative"}
	case p.DragCoeff < 0:
		return &dynamo.ParamError{Field: "drag_coeff", Value: p.DragCoeff, Reason: "must not be negative"}
	case p.RefArea < 0:
		return &dynamo.ParamError{Field: "ref_area", Value: p.RefArea, Reason: "must not be negative"}
	case p.LaunchAngle < 0 || p.LaunchAngle > math.Pi/2:
		return &dynamo.ParamError{Field: "launch_angle", Value: p.LaunchAngle, Reason: "must be within [0, pi/2]"}
	}

	if _, err := ParseAirModel(string(p.AirModel)); err != nil {
		return err
	}
	return nil
}
