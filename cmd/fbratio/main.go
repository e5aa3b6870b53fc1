// fbratio computes the free/bound amplitude ratio a1/a2 for each FLIM export
// set. Inputs name any file in a set; the companion _a1 and _a2 maps are
// located by suffix. Pixels failing the quality thresholds are invalidated
// before the division. Output is a _fbratio.asc map, optionally also rendered
// as a rainbow TIFF.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"

	"github.com/flimlab/flimtools/internal/asc"
	"github.com/flimlab/flimtools/internal/config"
	"github.com/flimlab/flimtools/internal/flim"
	"github.com/flimlab/flimtools/internal/imgio"
	"github.com/flimlab/flimtools/internal/monitoring"
)

func main() {
	var (
		configPath string
		threshold  bool
		tiffOut    bool
		lo         float64
		hi         float64
		verbose    bool
	)
	flag.StringVar(&configPath, "config", "", "batch config file (.json)")
	flag.BoolVar(&threshold, "threshold", true, "apply quality thresholds before the ratio")
	flag.BoolVar(&tiffOut, "tiff", false, "also write a rainbow color TIFF of the ratio")
	flag.Float64Var(&lo, "min", 0, "TIFF color range minimum")
	flag.Float64Var(&hi, "max", 10, "TIFF color range maximum")
	flag.BoolVar(&verbose, "v", false, "verbose logging")
	flag.Parse()

	monitoring.SetVerbose(verbose)

	if flag.NArg() == 0 {
		log.Fatalf("usage: fbratio [options] <export-file> ...")
	}

	cfg := config.Empty()
	if configPath != "" {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
	}

	for _, path := range flag.Args() {
		if err := process(path, cfg, threshold, tiffOut, lo, hi); err != nil {
			log.Fatalf("%s: %v", path, err)
		}
	}
}

func process(path string, cfg *config.BatchConfig, threshold, tiffOut bool, lo, hi float64) error {
	dataset, err := asc.LoadAllRelated(path)
	if err != nil {
		return err
	}
	a1, a2 := dataset["a1"], dataset["a2"]
	if a1 == nil || a2 == nil {
		return fmt.Errorf("export set is missing the a1 or a2 map")
	}

	if threshold {
		n, err := flim.ApplyRules(dataset, cfg.GetThresholds())
		if err != nil {
			return err
		}
		monitoring.Verbosef("%s: thresholds invalidated %d pixels", path, n)
	}

	ratio, err := flim.FreeBoundRatio(a1, a2, math.NaN())
	if err != nil {
		return err
	}

	out := asc.Stem(path) + "_fbratio.asc"
	if err := asc.Export(out, ratio); err != nil {
		return err
	}
	monitoring.Logf("wrote %s", out)

	if tiffOut {
		img, err := imgio.Colorize(ratio, lo, hi)
		if err != nil {
			return err
		}
		tifPath := asc.Stem(path) + "_fbratio.tif"
		if err := imgio.SaveTIFF(tifPath, img); err != nil {
			return err
		}
		monitoring.Logf("wrote %s", tifPath)
	}
	return nil
}
