// flimstats summarizes histogram CSV artifacts produced by flimhist: mean,
// standard deviation, tail percentiles and the KL divergence from a fitted
// Gaussian, one row per artifact. Results go to stdout or -out as CSV and,
// with -catalog, into the sqlite catalog.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/flimlab/flimtools/internal/catalog"
	"github.com/flimlab/flimtools/internal/fsutil"
	"github.com/flimlab/flimtools/internal/hist"
	"github.com/flimlab/flimtools/internal/monitoring"
)

const statsHeader = "source,total,mean,stddev,p01,p05,p95,p99,kl_gaussian"

func main() {
	var (
		outPath     string
		catalogPath string
		recursive   bool
		verbose     bool
	)
	flag.StringVar(&outPath, "out", "", "output CSV path (default stdout)")
	flag.StringVar(&catalogPath, "catalog", "", "sqlite catalog to record the run in")
	flag.BoolVar(&recursive, "recursive", false, "recurse into input directories")
	flag.BoolVar(&verbose, "v", false, "verbose logging")
	flag.Parse()

	monitoring.SetVerbose(verbose)

	if flag.NArg() == 0 {
		log.Fatalf("usage: flimstats [options] <hist-csv-or-dir> ...")
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

	var db *catalog.DB
	var runID string
	if catalogPath != "" {
		var err error
		db, err = catalog.Open(catalogPath)
		if err != nil {
			log.Fatalf("open catalog: %v", err)
		}
		defer db.Close()
		runID, err = db.BeginRun("flimstats", os.Args[1:])
		if err != nil {
			log.Fatalf("begin run: %v", err)
		}
	}

	out := io.Writer(os.Stdout)
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			log.Fatalf("create %s: %v", outPath, err)
		}
		defer f.Close()
		out = f
	}

	fmt.Fprintln(out, statsHeader)
	for _, path := range files {
		stats, err := statsForArtifact(path)
		if err != nil {
			log.Fatalf("%s: %v", path, err)
		}
		fmt.Fprintf(out, "%s,%d,%g,%g,%g,%g,%g,%g,%g\n",
			path, int64(stats.Total), stats.Mean, stats.StdDev,
			stats.P01, stats.P05, stats.P95, stats.P99, stats.KLGaussian)

		if db != nil {
			id, err := db.RecordHistogram(runID, catalog.HistogramRecord{
				Source:   sourceName(path),
				Total:    int64(stats.Total),
				Artifact: path,
			})
			if err != nil {
				log.Fatalf("record %s: %v", path, err)
			}
			if err := db.RecordStats(id, stats); err != nil {
				log.Fatalf("record stats for %s: %v", path, err)
			}
		}
	}
	monitoring.Verbosef("summarized %d artifacts", len(files))
}

func statsForArtifact(path string) (*hist.Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	centers, values, err := hist.ReadCSV(f)
	if err != nil {
		return nil, err
	}
	return hist.ComputeStats(centers, values)
}

// sourceName recovers the image/ROI identifier from an artifact filename.
func sourceName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), "-hist.csv")
}
