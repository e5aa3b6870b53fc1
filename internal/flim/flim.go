// Package flim implements the pixel-level operations of the lifetime
// analysis workflow: threshold masking of unreliable pixels and the
// free/bound amplitude ratio.
package flim

import (
	"fmt"
	"math"

	"github.com/flimlab/flimtools/internal/asc"
)

// Rule invalidates pixels whose value for Variable falls outside [Min, Max].
type Rule struct {
	Variable string  `json:"variable"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
}

// DefaultRules are the acceptance windows used for fitted lifetime exports.
// The photons floor is the minimum count for a usable fit; the ceiling marks
// the onset of detector saturation.
var DefaultRules = []Rule{
	{Variable: "a1", Min: 0, Max: 1e20},
	{Variable: "a2", Min: 0, Max: 1e20},
	{Variable: "chi", Min: 0.75, Max: 1.5},
	{Variable: "photons", Min: 3000.0 / 7 / 7 / 45, Max: 0.005 * 3600},
}

// Invalidate sets data pixels to NaN wherever the matching pixel of variable
// is outside [min, max] or already NaN. Returns the number of pixels
// invalidated by this call.
func Invalidate(data, variable *asc.Grid, min, max float64) (int, error) {
	if !data.SameSize(variable) {
		return 0, fmt.Errorf("grid size mismatch: %dx%d vs %dx%d",
			data.Width, data.Height, variable.Width, variable.Height)
	}
	n := 0
	for i, v := range variable.Data {
		if math.IsNaN(v) || v < min || v > max {
			if !math.IsNaN(data.Data[i]) {
				data.Data[i] = math.NaN()
				n++
			}
		}
	}
	return n, nil
}

// ApplyRules masks every grid in the dataset using every rule whose variable
// is present. Rules naming absent variables are skipped: not every export
// set carries every variable.
func ApplyRules(dataset map[string]*asc.Grid, rules []Rule) (int, error) {
	total := 0
	for _, r := range rules {
		variable, ok := dataset[r.Variable]
		if !ok {
			continue
		}
		for name, g := range dataset {
			if name == r.Variable {
				continue
			}
			n, err := Invalidate(g, variable, r.Min, r.Max)
			if err != nil {
				return total, fmt.Errorf("rule %s on %s: %w", r.Variable, name, err)
			}
			total += n
		}
	}
	return total, nil
}

// FreeBoundRatio computes a1/a2 per pixel. Pixels where either amplitude is
// nonpositive (division by zero, or a negative fit the exporter sometimes
// produces) are set to the invalid marker instead.
func FreeBoundRatio(a1, a2 *asc.Grid, invalid float64) (*asc.Grid, error) {
	if !a1.SameSize(a2) {
		return nil, fmt.Errorf("grid size mismatch: %dx%d vs %dx%d",
			a1.Width, a1.Height, a2.Width, a2.Height)
	}
	out := asc.NewGrid(a1.Width, a1.Height)
	for i := range a1.Data {
		free, bound := a1.Data[i], a2.Data[i]
		if free <= 0 || bound <= 0 || math.IsNaN(free) || math.IsNaN(bound) {
			out.Data[i] = invalid
			continue
		}
		out.Data[i] = free / bound
	}
	return out, nil
}

// ValidSamples flattens a grid into the sample values usable for
// histogramming, skipping NaN and any pixel equal to the invalid marker.
func ValidSamples(g *asc.Grid, invalid float64) []float64 {
	out := make([]float64, 0, len(g.Data))
	for _, v := range g.Data {
		if math.IsNaN(v) || v == invalid {
			continue
		}
		out = append(out, v)
	}
	return out
}
