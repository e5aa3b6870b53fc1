// Package hist implements fixed-width histogram rebinning and statistics for
// FLIM intensity data. A raw per-intensity-level histogram (index ==
// intensity value) can be rebinned onto a coarser target binning, or raw
// pixel samples can be binned directly when no per-level histogram is
// available.
package hist

import (
	"fmt"
	"math"
)

// InvalidRangeError reports a histogram specification whose value range is
// empty. The rebinner refuses to produce any output for such a range.
type InvalidRangeError struct {
	Min float64
	Max float64
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid histogram range [%g, %g]: max must be strictly greater than min", e.Min, e.Max)
}

// Spec describes a target binning: Bins equal-width bins spanning the closed
// interval [Min, Max].
type Spec struct {
	Bins int
	Min  float64
	Max  float64
}

// Validate checks the spec before any counts are accumulated.
func (s Spec) Validate() error {
	if s.Bins <= 0 {
		return fmt.Errorf("bin count must be positive, got %d", s.Bins)
	}
	if !(s.Max > s.Min) {
		return &InvalidRangeError{Min: s.Min, Max: s.Max}
	}
	return nil
}

// Width returns the width of a single bin.
func (s Spec) Width() float64 {
	return (s.Max - s.Min) / float64(s.Bins)
}

// Histogram holds binned counts for a Spec. Counts always has exactly
// Spec.Bins entries.
type Histogram struct {
	Spec   Spec
	Counts []int64
}

// New returns an empty histogram for the given spec.
func New(spec Spec) (*Histogram, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &Histogram{Spec: spec, Counts: make([]int64, spec.Bins)}, nil
}

// binIndex maps a value onto a bin index, or -1 if the value is outside
// [Min, Max]. Out-of-range values are excluded, not clamped into edge bins.
// The exact right edge x == Max lands one bin past the end after the
// floating-point division and is clamped back into the last bin.
func (s Spec) binIndex(x float64) int {
	if math.IsNaN(x) || x < s.Min || x > s.Max {
		return -1
	}
	idx := int((x - s.Min) / s.Width())
	if idx >= s.Bins {
		idx = s.Bins - 1
	}
	return idx
}

// Rebin aggregates a raw per-intensity-level histogram (raw[i] counts pixels
// of intensity i) into the target binning. Counts at intensities outside
// [Min, Max] are dropped; the total of the result is therefore less than or
// equal to the raw total, with equality when every level is in range.
func Rebin(raw []int64, spec Spec) (*Histogram, error) {
	h, err := New(spec)
	if err != nil {
		return nil, err
	}
	for i, c := range raw {
		idx := spec.binIndex(float64(i))
		if idx < 0 {
			continue
		}
		h.Counts[idx] += c
	}
	return h, nil
}

// FromSamples bins raw pixel values directly. This is the delegating variant
// of the rebinner: it is equivalent to Rebin with the summation performed
// here instead of by an upstream per-level histogram. NaN samples (pixels
// invalidated by thresholding) are dropped along with out-of-range values.
func FromSamples(values []float64, spec Spec) (*Histogram, error) {
	h, err := New(spec)
	if err != nil {
		return nil, err
	}
	for _, x := range values {
		idx := spec.binIndex(x)
		if idx < 0 {
			continue
		}
		h.Counts[idx]++
	}
	return h, nil
}

// FromSamplesLog10 bins samples on a base-10 logarithmic axis. Spec.Min and
// Spec.Max are given in linear units and transformed; nonpositive bounds and
// samples are floored to 1e-16 before the transform, matching the ratio
// histogram convention for free/bound data. The returned histogram's Spec is
// in log10 units.
func FromSamplesLog10(values []float64, spec Spec) (*Histogram, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	logSpec := Spec{Bins: spec.Bins, Min: log10Floor(spec.Min), Max: log10Floor(spec.Max)}
	logged := make([]float64, len(values))
	for i, v := range values {
		if math.IsNaN(v) {
			logged[i] = math.NaN()
			continue
		}
		logged[i] = log10Floor(v)
	}
	return FromSamples(logged, logSpec)
}

func log10Floor(v float64) float64 {
	if v <= 0 {
		v = 1e-16
	}
	return math.Log10(v)
}

// Centers returns the midpoint value of every bin, strictly increasing by
// exactly one bin width.
func (h *Histogram) Centers() []float64 {
	w := h.Spec.Width()
	centers := make([]float64, h.Spec.Bins)
	for k := range centers {
		centers[k] = h.Spec.Min + (float64(k)+0.5)*w
	}
	return centers
}

// Total returns the sum of all binned counts.
func (h *Histogram) Total() int64 {
	var total int64
	for _, c := range h.Counts {
		total += c
	}
	return total
}
