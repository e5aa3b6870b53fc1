package hist

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Stats summarizes a binned distribution. Mean and standard deviation are
// computed from bin centers weighted by counts; percentiles are interpolated
// on the cumulative distribution; KLGaussian measures divergence from a
// Gaussian with the same moments (NaN when the distribution is degenerate).
type Stats struct {
	Total      float64
	Mean       float64
	StdDev     float64
	P01        float64
	P05        float64
	P95        float64
	P99        float64
	KLGaussian float64
}

// statPercentiles are the percentile cut points reported for every
// histogram, matching the downstream analysis convention.
var statPercentiles = []float64{0.01, 0.05, 0.95, 0.99}

// ComputeStats derives summary statistics from bin centers and counts.
func ComputeStats(centers, values []float64) (*Stats, error) {
	if len(centers) != len(values) {
		return nil, fmt.Errorf("centers and values length mismatch: %d vs %d", len(centers), len(values))
	}
	if len(centers) == 0 {
		return nil, fmt.Errorf("empty histogram")
	}

	total := 0.0
	for _, v := range values {
		total += v
	}
	if total <= 0 {
		return nil, fmt.Errorf("histogram has no counts")
	}

	mean := stat.Mean(centers, values)

	// Population variance over the binned distribution, not the sample
	// variance gonum's stat.Variance would give.
	variance := 0.0
	for i, c := range centers {
		d := c - mean
		variance += d * d * values[i]
	}
	variance /= total
	stddev := math.Sqrt(variance)

	// Interpolate percentiles on the cumulative distribution.
	cdf := make([]float64, len(values))
	run := 0.0
	for i, v := range values {
		run += v
		cdf[i] = run / total
	}
	pct := make([]float64, len(statPercentiles))
	for i, q := range statPercentiles {
		pct[i] = interp(q, cdf, centers)
	}

	return &Stats{
		Total:      total,
		Mean:       mean,
		StdDev:     stddev,
		P01:        pct[0],
		P05:        pct[1],
		P95:        pct[2],
		P99:        pct[3],
		KLGaussian: klGaussian(centers, values, mean, stddev),
	}, nil
}

// klGaussian compares the histogram against a Gaussian with the same mean
// and standard deviation, scaled to the same area.
func klGaussian(centers, values []float64, mean, stddev float64) float64 {
	if stddev <= 0 || math.IsNaN(stddev) {
		return math.NaN()
	}
	norm := distuv.Normal{Mu: mean, Sigma: stddev}

	gauss := make([]float64, len(centers))
	histArea, gaussArea := 0.0, 0.0
	for i, c := range centers {
		gauss[i] = norm.Prob(c)
		histArea += values[i]
		gaussArea += gauss[i]
	}
	if gaussArea <= 0 {
		return math.NaN()
	}

	// Offset both by a small epsilon so empty bins do not blow up the
	// divergence, then normalize to proper distributions.
	const eps = 1e-10
	p := make([]float64, len(values))
	q := make([]float64, len(values))
	pSum, qSum := 0.0, 0.0
	for i := range values {
		p[i] = values[i] + eps
		q[i] = gauss[i]*(histArea/gaussArea) + eps
		pSum += p[i]
		qSum += q[i]
	}
	for i := range p {
		p[i] /= pSum
		q[i] /= qSum
	}
	return stat.KullbackLeibler(p, q)
}

// interp linearly interpolates y(x) for a target x over the piecewise-linear
// function defined by xs (ascending) and ys, clamping outside the domain.
func interp(x float64, xs, ys []float64) float64 {
	if x <= xs[0] {
		return ys[0]
	}
	last := len(xs) - 1
	if x >= xs[last] {
		return ys[last]
	}
	for i := 1; i <= last; i++ {
		if x <= xs[i] {
			if xs[i] == xs[i-1] {
				return ys[i]
			}
			t := (x - xs[i-1]) / (xs[i] - xs[i-1])
			return ys[i-1] + t*(ys[i]-ys[i-1])
		}
	}
	return ys[last]
}
