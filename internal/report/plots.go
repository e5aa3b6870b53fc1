// Package report renders plots and HTML summaries of histogram batches:
// per-file histogram PNGs with a fitted Gaussian overlay, per-group
// boxplots, and a standalone HTML page for browsing a whole run.
package report

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/flimlab/flimtools/internal/hist"
)

// SaveHistPlot renders a histogram as a frequency line with its fitted
// Gaussian and percentile markers, in the style of the analysis notebooks.
func SaveHistPlot(path, title string, centers, values []float64, stats *hist.Stats) error {
	if len(centers) != len(values) || len(centers) == 0 {
		return fmt.Errorf("bad histogram: %d centers, %d values", len(centers), len(values))
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Value"
	p.Y.Label.Text = "Frequency"

	pts := make(plotter.XYs, len(centers))
	for i := range centers {
		pts[i] = plotter.XY{X: centers[i], Y: values[i]}
	}
	histLine, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	histLine.Width = vg.Points(1)
	p.Add(histLine)
	p.Legend.Add("histogram", histLine)

	if stats != nil && stats.StdDev > 0 {
		norm := distuv.Normal{Mu: stats.Mean, Sigma: stats.StdDev}
		area := 0.0
		for _, v := range values {
			area += v
		}
		gaussArea := 0.0
		gauss := make(plotter.XYs, len(centers))
		for i, c := range centers {
			gauss[i] = plotter.XY{X: c, Y: norm.Prob(c)}
			gaussArea += gauss[i].Y
		}
		if gaussArea > 0 {
			scale := area / gaussArea
			for i := range gauss {
				gauss[i].Y *= scale
			}
			gaussLine, err := plotter.NewLine(gauss)
			if err != nil {
				return err
			}
			gaussLine.Width = vg.Points(1)
			gaussLine.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
			p.Add(gaussLine)
			p.Legend.Add("gaussian fit", gaussLine)
		}
	}

	return p.Save(8*vg.Inch, 5*vg.Inch, path)
}

// Group is one labelled set of values for a boxplot, typically the per-file
// means of one experimental condition.
type Group struct {
	Name   string
	Values []float64
}

// SaveBoxPlot renders one box per group, preserving group order.
func SaveBoxPlot(path, title, ylabel string, groups []Group) error {
	if len(groups) == 0 {
		return fmt.Errorf("no groups to plot")
	}

	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = ylabel

	names := make([]string, len(groups))
	for i, g := range groups {
		names[i] = g.Name
		vals := make(plotter.Values, 0, len(g.Values))
		for _, v := range g.Values {
			if math.IsNaN(v) {
				continue
			}
			vals = append(vals, v)
		}
		if len(vals) == 0 {
			return fmt.Errorf("group %q has no finite values", g.Name)
		}
		box, err := plotter.NewBoxPlot(vg.Points(30), float64(i), vals)
		if err != nil {
			return fmt.Errorf("boxplot for group %q: %w", g.Name, err)
		}
		p.Add(box)
	}
	p.NominalX(names...)

	return p.Save(vg.Length(2+2*len(groups))*vg.Inch, 5*vg.Inch, path)
}
