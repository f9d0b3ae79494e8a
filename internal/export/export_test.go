package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/globalpizza/Reto-Cohete/internal/flight"
	"github.com/globalpizza/Reto-Cohete/internal/integrators"
	"github.com/globalpizza/Reto-Cohete/internal/physics"
)

func runDefault(t *testing.T) *flight.Result {
	t.Helper()
	f, err := flight.New(physics.ToSI(physics.DefaultUserParams()), integrators.NewRK4(), flight.DefaultConfig())
	require.NoError(t, err)
	res, err := f.Run(context.Background())
	require.NoError(t, err)
	return res
}

func TestWriteCSV(t *testing.T) {
	res := runDefault(t)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, res.History))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, len(res.History)+1)

	assert.Equal(t, []string{"time", "x", "y", "vx", "vy", "water_mass", "air_mass", "pressure", "phase"}, rows[0])
	assert.Equal(t, "0.000000", rows[1][0])
	assert.Equal(t, "Launch Tube", rows[1][8])

	last := rows[len(rows)-1]
	assert.Equal(t, "Ballistic", last[8])
	assert.Equal(t, "0.000000", last[2])

	tl, err := strconv.ParseFloat(last[0], 64)
	require.NoError(t, err)
	assert.InDelta(t, res.Final.Time, tl, 1e-6)
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "time,x,y,vx,vy,water_mass,air_mass,pressure,phase\n", buf.String())
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteCSV_WriterError(t *testing.T) {
	err := WriteCSV(failWriter{}, []flight.Snapshot{{}})
	assert.EqualError(t, err, "disk full")
}

func TestWriteJSON(t *testing.T) {
	res := runDefault(t)
	meta := Meta{
		Name:       "default",
		Integrator: "rk4",
		AirModel:   "none",
		Dt:         0.005,
		Rocket:     physics.DefaultUserParams(),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, meta, res))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, true, doc["landed"])
	assert.Equal(t, float64(res.Steps), doc["steps"])
	assert.Equal(t, "rk4", doc["meta"].(map[string]any)["integrator"])
	assert.Equal(t, 70.0, doc["meta"].(map[string]any)["rocket"].(map[string]any)["pressure_psi"])

	samples := doc["samples"].([]any)
	assert.Len(t, samples, len(res.History))
	first := samples[0].(map[string]any)
	assert.Equal(t, "Launch Tube", first["phase"])
	assert.Contains(t, first, "position")

	final := doc["final"].(map[string]any)
	assert.Equal(t, "Ballistic", final["phase"])
	assert.Equal(t, false, final["active"])
}
