package analysis

import (
	"strings"

	"github.com/globalpizza/Reto-Cohete/internal/flight"
)

type Point struct {
	X, Y float64
}

// Portrait is a 2D projection of a flight.
type Portrait struct {
	XLabel, YLabel string
	Points         []Point
}

// Trajectory plots altitude against downrange distance, or against time for
// a vertical flight.
func Trajectory(history []flight.Snapshot) *Portrait {
	planar := false
	for _, s := range history {
		if s.Position.X != 0 {
			planar = true
			break
		}
	}

	p := &Portrait{XLabel: "range (m)", YLabel: "altitude (m)", Points: make([]Point, len(history))}
	if !planar {
		p.XLabel = "time (s)"
	}
	for i, s := range history {
		x := s.Position.X
		if !planar {
			x = s.Time
		}
		p.Points[i] = Point{x, s.Position.Y}
	}
	return p
}

// PhasePlane plots vertical velocity against altitude.
func PhasePlane(history []flight.Snapshot) *Portrait {
	p := &Portrait{XLabel: "altitude (m)", YLabel: "vertical velocity (m/s)", Points: make([]Point, len(history))}
	for i, s := range history {
		p.Points[i] = Point{s.Position.Y, s.Velocity.Y}
	}
	return p
}

// Render draws the points on a width x height character grid with axes
// where they fall inside the bounds, followed by an axis legend.
func (p *Portrait) Render(width, height int) string {
	if p == nil || len(p.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := p.Points[0].X, p.Points[0].X
	minY, maxY := p.Points[0].Y, p.Points[0].Y
	for _, pt := range p.Points {
		minX, maxX = min(minX, pt.X), max(maxX, pt.X)
		minY, maxY = min(minY, pt.Y), max(maxY, pt.Y)
	}

	rangeX, rangeY := maxX-minX, maxY-minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.05
	maxX += rangeX * 0.05
	minY -= rangeY * 0.05
	maxY += rangeY * 0.05
	rangeX, rangeY = maxX-minX, maxY-minY

	col := func(x float64) int { return int((x - minX) / rangeX * float64(width-1)) }
	row := func(y float64) int { return height - 1 - int((y-minY)/rangeY*float64(height-1)) }

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}

	if minX <= 0 && maxX >= 0 {
		c := col(0)
		for r := range grid {
			grid[r][c] = '│'
		}
	}
	if minY <= 0 && maxY >= 0 {
		r := row(0)
		for c := range grid[r] {
			if grid[r][c] == '│' {
				grid[r][c] = '┼'
			} else {
				grid[r][c] = '─'
			}
		}
	}

	for _, pt := range p.Points {
		r, c := row(pt.Y), col(pt.X)
		if r >= 0 && r < height && c >= 0 && c < width {
			grid[r][c] = '•'
		}
	}

	var sb strings.Builder
	for _, line := range grid {
		sb.WriteString(string(line))
		sb.WriteByte('\n')
	}
	sb.WriteString("x: " + p.XLabel + "  y: " + p.YLabel + "\n")
	return sb.String()
}
