// flimreport renders a batch of histogram artifacts into browsable output:
// an HTML page of bar charts and a boxplot of per-artifact means grouped by
// parent directory. With -catalog and -run it reports a recorded run instead
// of scanning the filesystem.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/flimlab/flimtools/internal/catalog"
	"github.com/flimlab/flimtools/internal/fsutil"
	"github.com/flimlab/flimtools/internal/hist"
	"github.com/flimlab/flimtools/internal/monitoring"
	"github.com/flimlab/flimtools/internal/report"
)

func main() {
	var (
		htmlPath    string
		boxPath     string
		title       string
		ylabel      string
		catalogPath string
		runID       string
		recursive   bool
		verbose     bool
	)
	flag.StringVar(&htmlPath, "html", "", "write an HTML page of histogram charts")
	flag.StringVar(&boxPath, "box", "", "write a boxplot PNG of per-artifact means")
	flag.StringVar(&title, "title", "histogram report", "report title")
	flag.StringVar(&ylabel, "ylabel", "mean", "boxplot y axis label")
	flag.StringVar(&catalogPath, "catalog", "", "sqlite catalog to report from")
	flag.StringVar(&runID, "run", "", "run ID to report (requires -catalog)")
	flag.BoolVar(&recursive, "recursive", false, "recurse into input directories")
	flag.BoolVar(&verbose, "v", false, "verbose logging")
	flag.Parse()

	monitoring.SetVerbose(verbose)

	if htmlPath == "" && boxPath == "" {
		log.Fatalf("nothing to do: pass -html and/or -box")
	}

	if catalogPath != "" {
		if runID == "" {
			log.Fatalf("-catalog requires -run")
		}
		if err := reportFromCatalog(catalogPath, runID, boxPath, title, ylabel); err != nil {
			log.Fatalf("%v", err)
		}
		return
	}

	if flag.NArg() == 0 {
		log.Fatalf("usage: flimreport [options] <hist-csv-or-dir> ...")
	}
	var files []string
	for _, arg := range flag.Args() {
		found, err := fsutil.FindFiles(arg, []string{"-hist.csv"}, recursive)
		if err != nil {
			log.Fatalf("scan %s: %v", arg, err)
		}
		files = append(files, found...)
	}
	if len(files) == 0 {
		log.Fatalf("no histogram artifacts matched")
	}

	if err := reportFromArtifacts(files, htmlPath, boxPath, title, ylabel); err != nil {
		log.Fatalf("%v", err)
	}
}

func reportFromArtifacts(files []string, htmlPath, boxPath, title, ylabel string) error {
	var series []report.Series
	groups := map[string]*report.Group{}
	var order []string

	for _, path := range files {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		centers, values, err := hist.ReadCSV(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		name := strings.TrimSuffix(filepath.Base(path), "-hist.csv")
		series = append(series, report.Series{Title: name, Centers: centers, Values: values})

		stats, err := hist.ComputeStats(centers, values)
		if err != nil {
			monitoring.Verbosef("%s: no stats: %v", path, err)
			continue
		}
		key := filepath.Base(filepath.Dir(path))
		g, ok := groups[key]
		if !ok {
			g = &report.Group{Name: key}
			groups[key] = g
			order = append(order, key)
		}
		g.Values = append(g.Values, stats.Mean)
	}

	if htmlPath != "" {
		if err := report.WriteHTML(htmlPath, title, series); err != nil {
			return err
		}
		monitoring.Logf("wrote %s (%d charts)", htmlPath, len(series))
	}
	if boxPath != "" {
		ordered := make([]report.Group, 0, len(order))
		for _, key := range order {
			ordered = append(ordered, *groups[key])
		}
		if err := report.SaveBoxPlot(boxPath, title, ylabel, ordered); err != nil {
			return err
		}
		monitoring.Logf("wrote %s (%d groups)", boxPath, len(ordered))
	}
	return nil
}

// reportFromCatalog boxplots the recorded means of a run, grouped by ROI.
func reportFromCatalog(catalogPath, runID, boxPath, title, ylabel string) error {
	if boxPath == "" {
		return fmt.Errorf("catalog reporting needs -box")
	}
	db, err := catalog.Open(catalogPath)
	if err != nil {
		return err
	}
	defer db.Close()

	rows, err := db.StatsForRun(runID)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("run %s has no recorded stats", runID)
	}

	groups := map[string]*report.Group{}
	var order []string
	for _, r := range rows {
		key := r.ROI
		if key == "" {
			key = "full"
		}
		g, ok := groups[key]
		if !ok {
			g = &report.Group{Name: key}
			groups[key] = g
			order = append(order, key)
		}
		g.Values = append(g.Values, r.Mean)
	}
	ordered := make([]report.Group, 0, len(order))
	for _, key := range order {
		ordered = append(ordered, *groups[key])
	}
	if err := report.SaveBoxPlot(boxPath, title, ylabel, ordered); err != nil {
		return err
	}
	monitoring.Logf("wrote %s (%d groups, %d histograms)", boxPath, len(ordered), len(rows))
	return nil
}
