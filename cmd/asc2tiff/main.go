// asc2tiff converts float .asc parameter maps to 16-bit greyscale TIFFs,
// linearly mapping the value range (auto-ranged unless -min/-max are given).
// An optional calibration scale bar is burned into the lower-right corner.
package main

import (
	"flag"
	"log"
	"path/filepath"
	"strings"

	"github.com/flimlab/flimtools/internal/asc"
	"github.com/flimlab/flimtools/internal/fsutil"
	"github.com/flimlab/flimtools/internal/imgio"
	"github.com/flimlab/flimtools/internal/monitoring"
)

func main() {
	var (
		lo        float64
		hi        float64
		outDir    string
		recursive bool
		barUM     float64
		pixelUM   float64
		verbose   bool
	)
	flag.Float64Var(&lo, "min", 0, "value mapped to black (0 with -max 0 auto-ranges)")
	flag.Float64Var(&hi, "max", 0, "value mapped to white (0 with -min 0 auto-ranges)")
	flag.StringVar(&outDir, "out", ".", "output directory")
	flag.BoolVar(&recursive, "recursive", false, "recurse into input directories")
	flag.Float64Var(&barUM, "scalebar", 0, "scale bar length in micrometers (0 disables)")
	flag.Float64Var(&pixelUM, "pixel-size", 0, "pixel size in micrometers (required with -scalebar)")
	flag.BoolVar(&verbose, "v", false, "verbose logging")
	flag.Parse()

	monitoring.SetVerbose(verbose)

	if flag.NArg() == 0 {
		log.Fatalf("usage: asc2tiff [options] <asc-or-dir> ...")
	}
	if barUM > 0 && pixelUM <= 0 {
		log.Fatalf("-scalebar requires -pixel-size")
	}

	var files []string
	for _, arg := range flag.Args() {
		found, err := fsutil.FindFiles(arg, []string{".asc"}, recursive)
		if err != nil {
			log.Fatalf("scan %s: %v", arg, err)
		}
		files = append(files, found...)
	}
	if len(files) == 0 {
		log.Fatalf("no .asc inputs matched")
	}

	for _, path := range files {
		grid, err := asc.Load(path)
		if err != nil {
			log.Fatalf("%v", err)
		}
		img := imgio.Gray16FromGrid(grid, lo, hi)
		if barUM > 0 {
			bar := imgio.ScaleBar{LengthUM: barUM, PixelSizeUM: pixelUM}
			if err := bar.Draw(img); err != nil {
				log.Fatalf("%s: %v", path, err)
			}
		}
		out := filepath.Join(outDir, strings.TrimSuffix(filepath.Base(path), ".asc")+".tif")
		if err := imgio.SaveTIFF(out, img); err != nil {
			log.Fatalf("%v", err)
		}
		monitoring.Verbosef("wrote %s", out)
	}
	monitoring.Logf("converted %d files to %s", len(files), outDir)
}
