package report

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// Series is one histogram to include in an HTML report page.
type Series struct {
	Title   string
	Centers []float64
	Values  []float64
}

// maxHTMLBins caps the number of points per chart so a 10000-bin histogram
// does not produce a multi-megabyte page; bins are stride-sampled above it.
const maxHTMLBins = 2000

// WriteHTML renders the histograms as a self-contained HTML page of bar
// charts for quick visual inspection without a plotting environment.
func WriteHTML(path, pageTitle string, series []Series) error {
	if len(series) == 0 {
		return fmt.Errorf("no histograms to report")
	}

	page := components.NewPage()
	page.PageTitle = pageTitle

	for _, s := range series {
		if len(s.Centers) != len(s.Values) {
			return fmt.Errorf("series %q: %d centers, %d values", s.Title, len(s.Centers), len(s.Values))
		}
		stride := 1
		if len(s.Centers) > maxHTMLBins {
			stride = (len(s.Centers) + maxHTMLBins - 1) / maxHTMLBins
		}

		labels := make([]string, 0, len(s.Centers)/stride+1)
		data := make([]opts.BarData, 0, len(s.Centers)/stride+1)
		for i := 0; i < len(s.Centers); i += stride {
			labels = append(labels, fmt.Sprintf("%.4g", s.Centers[i]))
			data = append(data, opts.BarData{Value: s.Values[i]})
		}

		bar := charts.NewBar()
		bar.SetGlobalOptions(
			charts.WithTitleOpts(opts.Title{Title: s.Title}),
			charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
		)
		bar.SetXAxis(labels).AddSeries("counts", data)
		page.AddCharts(bar)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report %s: %w", path, err)
	}
	if err := page.Render(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to render report: %w", err)
	}
	return f.Close()
}
