package report

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/flimlab/flimtools/internal/hist"
)

func testHistogram() (centers, values []float64) {
	for i := 0; i < 100; i++ {
		x := float64(i)
		centers = append(centers, x)
		d := (x - 50) / 12
		values = append(values, 500*math.Exp(-d*d/2))
	}
	return
}

func TestSaveHistPlot(t *testing.T) {
	centers, values := testHistogram()
	stats, err := hist.ComputeStats(centers, values)
	if err != nil {
		t.Fatalf("ComputeStats failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "hist.png")
	if err := SaveHistPlot(path, "pos_0001_photons", centers, values, stats); err != nil {
		t.Fatalf("SaveHistPlot failed: %v", err)
	}
	assertNonEmptyFile(t, path)
}

func TestSaveHistPlotWithoutStats(t *testing.T) {
	centers, values := testHistogram()
	path := filepath.Join(t.TempDir(), "hist.png")
	if err := SaveHistPlot(path, "no fit", centers, values, nil); err != nil {
		t.Fatalf("SaveHistPlot failed: %v", err)
	}
	assertNonEmptyFile(t, path)
}

func TestSaveHistPlotBadInput(t *testing.T) {
	if err := SaveHistPlot("x.png", "t", []float64{1}, []float64{1, 2}, nil); err == nil {
		t.Error("expected error for mismatched lengths")
	}
}

func TestSaveBoxPlot(t *testing.T) {
	groups := []Group{
		{Name: "control", Values: []float64{2100, 2200, 2150, 2300, math.NaN()}},
		{Name: "treated", Values: []float64{2500, 2600, 2700, 2550}},
	}
	path := filepath.Join(t.TempDir(), "box.png")
	if err := SaveBoxPlot(path, "mean lifetime", "ps", groups); err != nil {
		t.Fatalf("SaveBoxPlot failed: %v", err)
	}
	assertNonEmptyFile(t, path)
}

func TestSaveBoxPlotEmptyGroup(t *testing.T) {
	groups := []Group{{Name: "empty", Values: []float64{math.NaN()}}}
	if err := SaveBoxPlot(filepath.Join(t.TempDir(), "box.png"), "t", "y", groups); err == nil {
		t.Error("expected error for group with no finite values")
	}
}

func TestWriteHTML(t *testing.T) {
	centers, values := testHistogram()
	path := filepath.Join(t.TempDir(), "report.html")
	err := WriteHTML(path, "batch report", []Series{
		{Title: "pos_0001", Centers: centers, Values: values},
		{Title: "pos_0002", Centers: centers, Values: values},
	})
	if err != nil {
		t.Fatalf("WriteHTML failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	html := string(data)
	if !strings.Contains(html, "pos_0001") || !strings.Contains(html, "pos_0002") {
		t.Error("report missing chart titles")
	}
}

func TestWriteHTMLStridesLargeHistograms(t *testing.T) {
	centers := make([]float64, 10000)
	values := make([]float64, 10000)
	for i := range centers {
		centers[i] = float64(i)
	}
	path := filepath.Join(t.TempDir(), "report.html")
	if err := WriteHTML(path, "big", []Series{{Title: "big", Centers: centers, Values: values}}); err != nil {
		t.Fatalf("WriteHTML failed: %v", err)
	}
	assertNonEmptyFile(t, path)
}

func assertNonEmptyFile(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("output missing: %v", err)
	}
	if info.Size() == 0 {
		t.Errorf("output %s is empty", path)
	}
}
