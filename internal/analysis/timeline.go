package analysis

import (
	"github.com/globalpizza/Reto-Cohete/internal/flight"
	"github.com/globalpizza/Reto-Cohete/internal/physics"
)

// Span is the interval a flight spent in one phase.
type Span struct {
	Phase physics.Phase `json:"phase"`
	Start float64       `json:"start"`
	End   float64       `json:"end"`
}

func (s Span) Duration() float64 { return s.End - s.Start }

// Crossing is an interpolated event on the trajectory.
type Crossing struct {
	Time     float64 `json:"time"`
	Altitude float64 `json:"altitude"`
	Range    float64 `json:"range"`
}

// Timeline collects phase spans and the apex from a stream of snapshots.
type Timeline struct {
	spans   []Span
	last    flight.Snapshot
	seen    bool
	apex    Crossing
	hasApex bool
}

func NewTimeline() *Timeline {
	return &Timeline{}
}

// Attach seeds a timeline with the flight's current snapshot and registers
// it as an observer.
func Attach(f *flight.Flight) *Timeline {
	tl := NewTimeline()
	tl.OnStep(f.Snapshot())
	f.AddObserver(tl)
	return tl
}

// FromHistory builds a timeline from sampled snapshots. Boundaries are only
// as precise as the sample interval.
func FromHistory(history []flight.Snapshot) *Timeline {
	tl := NewTimeline()
	for _, s := range history {
		tl.OnStep(s)
	}
	return tl
}

func (tl *Timeline) OnStep(s flight.Snapshot) {
	if !tl.seen {
		tl.spans = append(tl.spans, Span{Phase: s.Phase, Start: s.Time, End: s.Time})
		tl.last = s
		tl.seen = true
		return
	}

	// first positive-to-nonpositive crossing of vy
	if !tl.hasApex && tl.last.Velocity.Y > 0 && s.Velocity.Y <= 0 {
		frac := tl.last.Velocity.Y / (tl.last.Velocity.Y - s.Velocity.Y)
		tl.apex = Crossing{
			Time:     lerp(tl.last.Time, s.Time, frac),
			Altitude: lerp(tl.last.Position.Y, s.Position.Y, frac),
			Range:    lerp(tl.last.Position.X, s.Position.X, frac),
		}
		tl.hasApex = true
	}

	cur := &tl.spans[len(tl.spans)-1]
	cur.End = s.Time
	if s.Phase != cur.Phase {
		tl.spans = append(tl.spans, Span{Phase: s.Phase, Start: s.Time, End: s.Time})
	}
	tl.last = s
}

// Spans returns the phases in the order they were entered.
func (tl *Timeline) Spans() []Span {
	out := make([]Span, len(tl.spans))
	copy(out, tl.spans)
	return out
}

// Duration is the total time spent in phase p.
func (tl *Timeline) Duration(p physics.Phase) float64 {
	d := 0.0
	for _, s := range tl.spans {
		if s.Phase == p {
			d += s.Duration()
		}
	}
	return d
}

// Apex reports the interpolated highest point, once the rocket has started
// to descend.
func (tl *Timeline) Apex() (Crossing, bool) {
	return tl.apex, tl.hasApex
}

func lerp(a, b, frac float64) float64 {
	return a + (b-a)*frac
}
