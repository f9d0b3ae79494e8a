package physics

import (
	"fmt"
	"strings"

	"github.com/globalpizza/Reto-Cohete/internal/dynamo"
)

// Phase is a flight regime. The numeric order is the order a flight moves through.
type Phase int

const (
	LaunchTube Phase = iota
	WaterThrust
	AirThrust
	Ballistic
)

func (p Phase) String() string {
	switch p {
	case LaunchTube:
		return "Launch Tube"
	case WaterThrust:
		return "Water Thrust"
	case AirThrust:
		return "Air Thrust"
	case Ballistic:
		return "Ballistic"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Classify labels a state. The position gate is checked first so a long tube
// can outlast the water.
func (m *Model) Classify(x dynamo.State) Phase {
	switch {
	case x[IdxY] < m.p.TubeLength:
		return LaunchTube
	case x[IdxWater] > WaterPhaseThreshold:
		return WaterThrust
	case m.Pressure(x[IdxWater], x[IdxAir]) > AtmosphericPressure+VentTolerance:
		return AirThrust
	default:
		return Ballistic
	}
}

// AirModel selects how residual gas acts once the water is gone.
type AirModel string

const (
	// AirNone vents the gas without thrust; AirThrust is only a label.
	AirNone AirModel = "none"
	// AirBlowdown adds isentropic nozzle thrust from the venting gas.
	AirBlowdown AirModel = "blowdown"
)

func ParseAirModel(s string) (AirModel, error) {
	switch AirModel(strings.ToLower(strings.TrimSpace(s))) {
	case "", AirNone:
		return AirNone, nil
	case AirBlowdown:
		return AirBlowdown, nil
	default:
		return "", fmt.Errorf("%w: %q", dynamo.ErrUnknownAirModel, s)
	}
}
