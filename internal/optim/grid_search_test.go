package optim

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/globalpizza/Reto-Cohete/internal/config"
)

func TestSteps(t *testing.T) {
	assert.InDeltaSlice(t, []float64{0.2, 0.4, 0.6, 0.8}, Steps(0.2, 0.8, 0.2), 1e-12)
	assert.Equal(t, []float64{5}, Steps(5, 1, 1))
	assert.Equal(t, []float64{5}, Steps(5, 10, 0))
}

func TestGridSearch_WaterVolume(t *testing.T) {
	g := NewGridSearch([]string{"water_volume_l"}, [][]float64{{0.1, 0.5, 0.9, 2.5}})

	out, err := g.Search(context.Background(), config.DefaultConfig(), "max_altitude")
	require.NoError(t, err)
	require.Len(t, out.Points, 4)

	assert.False(t, out.Points[3].Feasible, "overfilled bottle should be skipped")
	for _, p := range out.Points[:3] {
		assert.True(t, p.Feasible)
		assert.LessOrEqual(t, p.Value, out.Best.Value)
	}
	assert.Greater(t, out.Best.Value, 10.0)
}

func TestGridSearch_TwoParams(t *testing.T) {
	g := NewGridSearch(
		[]string{"pressure_psi", "launch_angle_deg"},
		[][]float64{{40, 80}, {30, 45, 60}},
	)

	out, err := g.Search(context.Background(), config.DefaultConfig(), "range")
	require.NoError(t, err)
	assert.Len(t, out.Points, 6)
	assert.Equal(t, 80.0, out.Best.Params["pressure_psi"])
}

func TestGridSearch_Minimize(t *testing.T) {
	g := NewGridSearch([]string{"pressure_psi"}, [][]float64{{30, 60, 90}}).Minimize()

	out, err := g.Search(context.Background(), config.DefaultConfig(), "max_altitude")
	require.NoError(t, err)
	assert.Equal(t, 30.0, out.Best.Params["pressure_psi"])
}

func TestGridSearch_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := NewGridSearch([]string{"pressure_psi"}, nil).Search(ctx, config.DefaultConfig(), "range")
	assert.Error(t, err)

	_, err = NewGridSearch([]string{"warp"}, [][]float64{{1}}).Search(ctx, config.DefaultConfig(), "range")
	assert.Error(t, err)

	_, err = NewGridSearch([]string{"pressure_psi"}, [][]float64{{50}}).Search(ctx, config.DefaultConfig(), "nope")
	assert.Error(t, err)

	_, err = NewGridSearch([]string{"water_volume_l"}, [][]float64{{3}}).Search(ctx, config.DefaultConfig(), "range")
	assert.Error(t, err)
}

func TestGridSearch_UnknownMetricWithoutFeasiblePoints(t *testing.T) {
	gs := NewGridSearch([]string{"water_volume_l"}, [][]float64{{3, 4}})
	out, err := gs.Search(context.Background(), config.DefaultConfig(), "altitude")
	require.Error(t, err)
	assert.Nil(t, out)
	assert.Contains(t, err.Error(), "unknown metric")
	assert.Contains(t, err.Error(), "max_altitude")
}
