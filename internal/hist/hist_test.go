package hist

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRebinConservesInRangeCounts(t *testing.T) {
	raw := []int64{3, 1, 4, 1, 5, 9, 2, 6}
	h, err := Rebin(raw, Spec{Bins: 4, Min: 0, Max: 7})
	require.NoError(t, err)

	var rawTotal int64
	for _, c := range raw {
		rawTotal += c
	}
	assert.Equal(t, rawTotal, h.Total(), "all levels in range, totals must match")
}

func TestRebinExcludesOutOfRangeCounts(t *testing.T) {
	// Levels 0..9; range covers only 2..6. Levels outside must be dropped,
	// not clamped into the edge bins.
	raw := []int64{100, 100, 1, 1, 1, 1, 1, 200, 200, 200}
	h, err := Rebin(raw, Spec{Bins: 5, Min: 2, Max: 6})
	require.NoError(t, err)

	assert.Equal(t, int64(5), h.Total())
	assert.Equal(t, int64(1), h.Counts[0], "level 2 must not absorb levels 0 and 1")
	assert.Equal(t, int64(1), h.Counts[len(h.Counts)-1], "level 6 must not absorb levels 7..9")
}

func TestRebinRightEdgeClampsIntoLastBin(t *testing.T) {
	// A count at exactly x == Max floors to index Bins after the division
	// and must be clamped back into bin Bins-1.
	raw := make([]int64, 11)
	raw[10] = 7
	h, err := Rebin(raw, Spec{Bins: 5, Min: 0, Max: 10})
	require.NoError(t, err)

	assert.Equal(t, int64(7), h.Counts[4])
	assert.Equal(t, int64(7), h.Total())
}

func TestRebinBinCountInvariant(t *testing.T) {
	for _, n := range []int{0, 1, 5, 65536} {
		raw := make([]int64, n)
		h, err := Rebin(raw, Spec{Bins: 10, Min: 0, Max: 100})
		require.NoError(t, err)
		assert.Len(t, h.Counts, 10, "raw length %d", n)
	}
}

func TestCentersMonotonicByExactlyOneWidth(t *testing.T) {
	spec := Spec{Bins: 1000, Min: 0, Max: 17097.80}
	h, err := New(spec)
	require.NoError(t, err)

	centers := h.Centers()
	require.Len(t, centers, spec.Bins)
	w := spec.Width()
	for k := 1; k < len(centers); k++ {
		assert.InDelta(t, w, centers[k]-centers[k-1], 1e-9)
	}
	assert.InDelta(t, spec.Min+0.5*w, centers[0], 1e-12)
}

func TestInvalidRangeRejected(t *testing.T) {
	for _, spec := range []Spec{
		{Bins: 10, Min: 5, Max: 5},
		{Bins: 10, Min: 5, Max: 4},
	} {
		h, err := Rebin([]int64{1, 2, 3}, spec)
		assert.Nil(t, h, "no partial output on invalid range")
		var ire *InvalidRangeError
		require.True(t, errors.As(err, &ire), "want InvalidRangeError, got %v", err)
		assert.Equal(t, spec.Min, ire.Min)
		assert.Equal(t, spec.Max, ire.Max)
	}
}

func TestRebinZeroBinsRejected(t *testing.T) {
	_, err := Rebin([]int64{1}, Spec{Bins: 0, Min: 0, Max: 10})
	require.Error(t, err)
}

func TestRebinConcreteScenario(t *testing.T) {
	// raw [10 0 5 0 100] over intensities 0..4, two bins spanning [0, 4]:
	// bin 0 covers [0,2) -> 10, bin 1 covers [2,4] -> 105.
	raw := []int64{10, 0, 5, 0, 100}
	h, err := Rebin(raw, Spec{Bins: 2, Min: 0, Max: 4})
	require.NoError(t, err)

	assert.Equal(t, []int64{10, 105}, h.Counts)
	assert.Equal(t, int64(115), h.Total())
}

func TestFromSamplesMatchesRebin(t *testing.T) {
	// The delegating variant must agree with the summation variant when fed
	// the expanded samples of the same raw histogram.
	raw := []int64{2, 0, 3, 1}
	var samples []float64
	for level, c := range raw {
		for i := int64(0); i < c; i++ {
			samples = append(samples, float64(level))
		}
	}

	spec := Spec{Bins: 2, Min: 0, Max: 3}
	fromRaw, err := Rebin(raw, spec)
	require.NoError(t, err)
	fromSamples, err := FromSamples(samples, spec)
	require.NoError(t, err)

	assert.Equal(t, fromRaw.Counts, fromSamples.Counts)
}

func TestFromSamplesDropsNaN(t *testing.T) {
	samples := []float64{1, math.NaN(), 2, math.NaN()}
	h, err := FromSamples(samples, Spec{Bins: 4, Min: 0, Max: 4})
	require.NoError(t, err)
	assert.Equal(t, int64(2), h.Total())
}

func TestFromSamplesLog10(t *testing.T) {
	h, err := FromSamplesLog10([]float64{0.01, 0.1, 1, 10, 100}, Spec{Bins: 4, Min: 0.01, Max: 100})
	require.NoError(t, err)

	assert.InDelta(t, -2, h.Spec.Min, 1e-12)
	assert.InDelta(t, 2, h.Spec.Max, 1e-12)
	assert.Equal(t, int64(5), h.Total())
	// 100 sits on the right edge and clamps into the last bin with 10.
	assert.Equal(t, []int64{1, 1, 1, 2}, h.Counts)
}

func TestFromSamplesLog10NonpositiveBoundFloored(t *testing.T) {
	h, err := FromSamplesLog10([]float64{1}, Spec{Bins: 2, Min: 0, Max: 10})
	require.NoError(t, err)
	assert.InDelta(t, -16, h.Spec.Min, 1e-12)
}
