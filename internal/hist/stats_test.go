package hist

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeStatsTwoPointDistribution(t *testing.T) {
	// Equal mass at 0 and 10: mean 5, population stddev 5.
	centers := []float64{0, 10}
	values := []float64{50, 50}

	s, err := ComputeStats(centers, values)
	require.NoError(t, err)

	assert.InDelta(t, 100, s.Total, 1e-12)
	assert.InDelta(t, 5, s.Mean, 1e-12)
	assert.InDelta(t, 5, s.StdDev, 1e-12)
}

func TestComputeStatsPercentilesOrdered(t *testing.T) {
	h, err := FromSamples([]float64{1, 2, 2, 3, 3, 3, 4, 4, 5, 9}, Spec{Bins: 10, Min: 0, Max: 10})
	require.NoError(t, err)

	centers := h.Centers()
	values := make([]float64, len(h.Counts))
	for i, c := range h.Counts {
		values[i] = float64(c)
	}

	s, err := ComputeStats(centers, values)
	require.NoError(t, err)

	assert.LessOrEqual(t, s.P01, s.P05)
	assert.LessOrEqual(t, s.P05, s.P95)
	assert.LessOrEqual(t, s.P95, s.P99)
	assert.GreaterOrEqual(t, s.P01, 0.0)
	assert.LessOrEqual(t, s.P99, 10.0)
}

func TestComputeStatsKLNearZeroForGaussianShape(t *testing.T) {
	// Bin a dense Gaussian profile; its divergence from the fitted Gaussian
	// should be small, and certainly smaller than a bimodal distribution's.
	centers := make([]float64, 101)
	gaussVals := make([]float64, 101)
	bimodal := make([]float64, 101)
	for i := range centers {
		x := float64(i)
		centers[i] = x
		d := (x - 50) / 10
		gaussVals[i] = 1000 * math.Exp(-d*d/2)
	}
	bimodal[10] = 500
	bimodal[90] = 500

	gs, err := ComputeStats(centers, gaussVals)
	require.NoError(t, err)
	bs, err := ComputeStats(centers, bimodal)
	require.NoError(t, err)

	assert.Less(t, gs.KLGaussian, 0.01)
	assert.Greater(t, bs.KLGaussian, gs.KLGaussian)
}

func TestComputeStatsDegenerate(t *testing.T) {
	// All mass in one bin: stddev 0, KL undefined.
	s, err := ComputeStats([]float64{1, 2, 3}, []float64{0, 10, 0})
	require.NoError(t, err)
	assert.Equal(t, 0.0, s.StdDev)
	assert.True(t, math.IsNaN(s.KLGaussian))
}

func TestComputeStatsErrors(t *testing.T) {
	_, err := ComputeStats([]float64{1}, []float64{1, 2})
	assert.Error(t, err)

	_, err = ComputeStats(nil, nil)
	assert.Error(t, err)

	_, err = ComputeStats([]float64{1, 2}, []float64{0, 0})
	assert.Error(t, err, "zero-count histogram has no statistics")
}
