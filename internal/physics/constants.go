package physics

// Fixed physical constants (SI).
const (
	WaterDensity        = 997.0    // kg/m^3
	Gravity             = 9.81     // m/s^2
	AdiabaticIndex      = 1.4      // dry air
	AirDensity          = 1.225    // kg/m^3, sea level
	AtmosphericPressure = 101325.0 // Pa

	// Used only to size the trapped gas inventory.
	AirGasConstant  = 287.05 // J/(kg K)
	FillTemperature = 293.15 // K
)

// Unit conversions from the user-facing parameter set.
const (
	PascalPerPSI     = 6894.76
	LitersPerCubicM  = 1000.0
	SquareCmPerSqM   = 10000.0
	GramsPerKilogram = 1000.0
)

const (
	// Below this the nozzle carries no water.
	FlowCutoff = 1e-5 // kg

	// Above this the flight is labelled WaterThrust.
	WaterPhaseThreshold = 1e-4 // kg

	// Gauge pressure treated as fully vented.
	VentTolerance = 1.0 // Pa

	// Speeds below this count as stationary for thrust direction and drag.
	StationarySpeed = 1e-6 // m/s
)
