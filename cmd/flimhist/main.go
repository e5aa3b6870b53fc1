// flimhist extracts rebinned histograms from FLIM exports. Inputs are .asc
// parameter maps or greyscale TIFFs, given as files or directories; each
// input/ROI pair yields one CSV artifact and optionally a PNG plot. With
// -catalog the run and its histograms are recorded in a sqlite database.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/flimlab/flimtools/internal/asc"
	"github.com/flimlab/flimtools/internal/catalog"
	"github.com/flimlab/flimtools/internal/config"
	"github.com/flimlab/flimtools/internal/flim"
	"github.com/flimlab/flimtools/internal/fsutil"
	"github.com/flimlab/flimtools/internal/hist"
	"github.com/flimlab/flimtools/internal/imgio"
	"github.com/flimlab/flimtools/internal/monitoring"
	"github.com/flimlab/flimtools/internal/report"
	"github.com/flimlab/flimtools/internal/roi"
	"github.com/flimlab/flimtools/internal/version"
)

func main() {
	var (
		configPath  string
		bins        int
		rangeMin    float64
		rangeMax    float64
		precision   int
		encoding    string
		outDir      string
		recursive   bool
		useLog10    bool
		threshold   bool
		plot        bool
		catalogPath string
		verbose     bool
		showVersion bool
	)
	var rois []roi.ROI

	flag.StringVar(&configPath, "config", "", "batch config file (.json)")
	flag.IntVar(&bins, "bins", 0, "number of bins (overrides config)")
	flag.Float64Var(&rangeMin, "min", math.NaN(), "range minimum (overrides config)")
	flag.Float64Var(&rangeMax, "max", math.NaN(), "range maximum (overrides config)")
	flag.IntVar(&precision, "precision", -1, "bin center decimal places (overrides config)")
	flag.StringVar(&encoding, "encoding", "", "bin center encoding: raw or scaled (overrides config)")
	flag.StringVar(&outDir, "out", ".", "output directory for histogram artifacts")
	flag.BoolVar(&recursive, "recursive", false, "recurse into input directories")
	flag.BoolVar(&useLog10, "log10", false, "histogram log10 of the pixel values (for ratio maps)")
	flag.BoolVar(&threshold, "threshold", false, "apply quality thresholds to .asc inputs before binning")
	flag.BoolVar(&plot, "plot", false, "also save a PNG plot next to each CSV")
	flag.StringVar(&catalogPath, "catalog", "", "sqlite catalog to record the run in")
	flag.BoolVar(&verbose, "v", false, "verbose logging")
	flag.BoolVar(&showVersion, "version", false, "print version and exit")
	flag.Func("roi", "region of interest as name:x,y,w,h (repeatable)", func(s string) error {
		r, err := roi.Parse(s)
		if err != nil {
			return err
		}
		rois = append(rois, r)
		return nil
	})
	flag.Func("roi-mask", "TIFF mask whose nonzero pixels form the region (repeatable)", func(s string) error {
		img, err := imgio.LoadTIFF(s)
		if err != nil {
			return err
		}
		name := strings.TrimSuffix(filepath.Base(s), filepath.Ext(s))
		rois = append(rois, roi.FromMask(name, img))
		return nil
	})
	flag.Parse()

	monitoring.SetVerbose(verbose)

	if showVersion {
		fmt.Println("flimhist " + version.String())
		return
	}
	if flag.NArg() == 0 {
		log.Fatalf("usage: flimhist [options] <file-or-dir> ...")
	}

	cfg := config.Empty()
	if configPath != "" {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
	}
	spec := cfg.Spec()
	if bins > 0 {
		spec.Bins = bins
	}
	if !math.IsNaN(rangeMin) {
		spec.Min = rangeMin
	}
	if !math.IsNaN(rangeMax) {
		spec.Max = rangeMax
	}
	if err := spec.Validate(); err != nil {
		log.Fatalf("invalid histogram spec: %v", err)
	}
	prec := cfg.GetPrecision()
	if precision >= 0 {
		prec = precision
	}
	enc := cfg.GetEncoding()
	if encoding != "" {
		var err error
		enc, err = hist.ParseEncoding(encoding)
		if err != nil {
			log.Fatalf("%v", err)
		}
	}

	var files []string
	for _, arg := range flag.Args() {
		found, err := fsutil.FindFiles(arg, cfg.GetSuffixes(), recursive || cfg.GetRecursive())
		if err != nil {
			log.Fatalf("scan %s: %v", arg, err)
		}
		files = append(files, found...)
	}
	if len(files) == 0 {
		log.Fatalf("no input files matched")
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
		runID, err = db.BeginRun("flimhist", os.Args[1:])
		if err != nil {
			log.Fatalf("begin run: %v", err)
		}
	}

	failed := 0
	for _, path := range files {
		if err := processFile(path, spec, prec, enc, outDir, rois, useLog10, threshold, plot, cfg, db, runID); err != nil {
			log.Printf("%s: %v", path, err)
			failed++
		}
	}
	if failed > 0 {
		log.Fatalf("%d of %d inputs failed", failed, len(files))
	}
	monitoring.Logf("wrote histograms for %d inputs to %s", len(files), outDir)
}

func processFile(path string, spec hist.Spec, precision int, enc hist.Encoding, outDir string, rois []roi.ROI, useLog10, threshold, plot bool, cfg *config.BatchConfig, db *catalog.DB, runID string) error {
	regions := rois
	if len(regions) == 0 {
		regions = []roi.ROI{{}}
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".asc":
		grid, err := asc.Load(path)
		if err != nil {
			return err
		}
		if threshold {
			if err := applyThresholds(path, grid, cfg); err != nil {
				return err
			}
		}
		for i := range regions {
			r := regions[i]
			if r.Rect.Empty() {
				r = roi.Full(grid.Width, grid.Height)
				r.Name = regions[i].Name
			}
			h, err := buildFromSamples(roi.Samples(grid, r), spec, useLog10)
			if err != nil {
				return err
			}
			if err := emit(path, r.Name, h, precision, enc, outDir, plot, db, runID); err != nil {
				return err
			}
		}
		return nil
	case ".tif", ".tiff":
		img, err := imgio.LoadTIFF(path)
		if err != nil {
			return err
		}
		for i := range regions {
			r := regions[i]
			if r.Rect.Empty() {
				b := img.Bounds()
				r = roi.Full(b.Dx(), b.Dy())
				r.Name = regions[i].Name
			}
			h, err := hist.Rebin(roi.RawHistogram(img, r), spec)
			if err != nil {
				return err
			}
			if err := emit(path, r.Name, h, precision, enc, outDir, plot, db, runID); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unsupported input type %q", ext)
	}
}

func buildFromSamples(samples []float64, spec hist.Spec, useLog10 bool) (*hist.Histogram, error) {
	if useLog10 {
		return hist.FromSamplesLog10(samples, spec)
	}
	return hist.FromSamples(samples, spec)
}

// applyThresholds invalidates low-quality pixels using the companion maps
// exported alongside the input (chi, photons and friends).
func applyThresholds(path string, grid *asc.Grid, cfg *config.BatchConfig) error {
	for _, rule := range cfg.GetThresholds() {
		variable, err := asc.LoadRelated(path, rule.Variable)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				monitoring.Verbosef("no %s map for %s, skipping rule", rule.Variable, path)
				continue
			}
			return err
		}
		n, err := flim.Invalidate(grid, variable, rule.Min, rule.Max)
		if err != nil {
			return err
		}
		monitoring.Verbosef("%s: %s rule invalidated %d pixels", path, rule.Variable, n)
	}
	return nil
}

func emit(path, roiName string, h *hist.Histogram, precision int, enc hist.Encoding, outDir string, plot bool, db *catalog.DB, runID string) error {
	out := hist.OutputPath(outDir, path, roiName)
	if err := hist.WriteCSVFile(out, h, precision, enc); err != nil {
		return err
	}
	monitoring.Verbosef("wrote %s (%d counts)", out, h.Total())

	if plot {
		centers := h.Centers()
		values := make([]float64, len(h.Counts))
		for i, c := range h.Counts {
			values[i] = float64(c)
		}
		stats, err := hist.ComputeStats(centers, values)
		if err != nil {
			stats = nil
		}
		pngPath := strings.TrimSuffix(out, ".csv") + ".png"
		title := strings.TrimSuffix(filepath.Base(out), "-hist.csv")
		if err := report.SaveHistPlot(pngPath, title, centers, values, stats); err != nil {
			return err
		}
	}

	if db != nil {
		_, err := db.RecordHistogram(runID, catalog.HistogramRecord{
			Source:   path,
			ROI:      roiName,
			Spec:     h.Spec,
			Encoding: enc,
			Total:    h.Total(),
			Artifact: out,
		})
		if err != nil {
			return err
		}
	}
	return nil
}
