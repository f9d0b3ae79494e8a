package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/globalpizza/Reto-Cohete/internal/flight"
)

var csvHeader = []string{"time", "x", "y", "vx", "vy", "water_mass", "air_mass", "pressure", "phase"}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// WriteCSV writes one row per snapshot.
func WriteCSV(w io.Writer, history []flight.Snapshot) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, s := range history {
		row := []string{
			formatFloat(s.Time),
			formatFloat(s.Position.X),
			formatFloat(s.Position.Y),
			formatFloat(s.Velocity.X),
			formatFloat(s.Velocity.Y),
			formatFloat(s.WaterMass),
			formatFloat(s.AirMass),
			strconv.FormatFloat(s.Pressure, 'f', 1, 64),
			s.Phase.String(),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
