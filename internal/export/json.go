package export

import (
	"encoding/json"
	"io"

	"github.com/globalpizza/Reto-Cohete/internal/flight"
	"github.com/globalpizza/Reto-Cohete/internal/physics"
)

// Meta describes how a run was configured.
type Meta struct {
	Name       string             `json:"name,omitempty"`
	Integrator string             `json:"integrator"`
	AirModel   string             `json:"air_model"`
	Dt         float64            `json:"dt"`
	Rocket     physics.UserParams `json:"rocket"`
}

type Document struct {
	Meta    Meta               `json:"meta"`
	Steps   int                `json:"steps"`
	Landed  bool               `json:"landed"`
	Metrics map[string]float64 `json:"metrics"`
	Final   flight.Snapshot    `json:"final"`
	Samples []flight.Snapshot  `json:"samples"`
}

// WriteJSON writes an indented document with the run metadata, metrics and
// sampled trajectory.
func WriteJSON(w io.Writer, meta Meta, result *flight.Result) error {
	doc := Document{
		Meta:    meta,
		Steps:   result.Steps,
		Landed:  result.Landed,
		Metrics: result.Metrics,
		Final:   result.Final,
		Samples: result.History,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(doc)
}
