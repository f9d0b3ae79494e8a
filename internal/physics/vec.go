package physics

import "math"

// Vec is a horizontal/vertical pair. Vertical-only runs leave X at zero.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (v Vec) Norm() float64 {
	return math.Hypot(v.X, v.Y)
}

// Unit returns the direction of v, or the zero vector when v is stationary.
func (v Vec) Unit() Vec {
	n := v.Norm()
	if n < StationarySpeed {
		return Vec{}
	}
	return Vec{v.X / n, v.Y / n}
}

func (v Vec) Scale(f float64) Vec {
	return Vec{v.X * f, v.Y * f}
}

func (v Vec) Add(o Vec) Vec {
	return Vec{v.X + o.X, v.Y + o.Y}
}

// State vector layout shared by the model and the flight integrator.
const (
	IdxX = iota
	IdxY
	IdxVX
	IdxVY
	IdxWater
	IdxAir
	StateDim
)
