// colorize renders float .asc maps or grayscale TIFFs as rainbow color
// TIFFs: -min maps to blue, -max to red, NaN pixels to black. -legend
// writes the colormap strip as a separate image for figure assembly.
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
		legend    string
		recursive bool
		barUM     float64
		pixelUM   float64
		verbose   bool
	)
	flag.Float64Var(&lo, "min", 0, "value mapped to blue")
	flag.Float64Var(&hi, "max", 1, "value mapped to red")
	flag.StringVar(&outDir, "out", ".", "output directory")
	flag.StringVar(&legend, "legend", "", "also write the colormap strip to this path")
	flag.BoolVar(&recursive, "recursive", false, "recurse into input directories")
	flag.Float64Var(&barUM, "scalebar", 0, "scale bar length in micrometers (0 disables)")
	flag.Float64Var(&pixelUM, "pixel-size", 0, "pixel size in micrometers (required with -scalebar)")
	flag.BoolVar(&verbose, "v", false, "verbose logging")
	flag.Parse()

	monitoring.SetVerbose(verbose)

	if flag.NArg() == 0 {
		log.Fatalf("usage: colorize [options] <asc-or-dir> ...")
	}
	if barUM > 0 && pixelUM <= 0 {
		log.Fatalf("-scalebar requires -pixel-size")
	}

	var files []string
	for _, arg := range flag.Args() {
		found, err := fsutil.FindFiles(arg, []string{".asc", ".tif", ".tiff"}, recursive)
		if err != nil {
			log.Fatalf("scan %s: %v", arg, err)
		}
		files = append(files, found...)
	}
	if len(files) == 0 {
		log.Fatalf("no inputs matched")
	}

	for _, path := range files {
		grid, err := loadGrid(path)
		if err != nil {
			log.Fatalf("%v", err)
		}
		img, err := imgio.Colorize(grid, lo, hi)
		if err != nil {
			log.Fatalf("%s: %v", path, err)
		}
		if barUM > 0 {
			bar := imgio.ScaleBar{LengthUM: barUM, PixelSizeUM: pixelUM}
			if err := bar.Draw(img); err != nil {
				log.Fatalf("%s: %v", path, err)
			}
		}
		base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		out := filepath.Join(outDir, base+"_color.tif")
		if err := imgio.SaveTIFF(out, img); err != nil {
			log.Fatalf("%v", err)
		}
		monitoring.Verbosef("wrote %s", out)
	}

	if legend != "" {
		if err := imgio.SaveTIFF(legend, imgio.ColormapStrip(256, 24)); err != nil {
			log.Fatalf("write legend: %v", err)
		}
	}
	monitoring.Logf("colorized %d files to %s", len(files), outDir)
}

// loadGrid reads either a float .asc map or a grayscale TIFF as a grid of
// intensity levels.
func loadGrid(path string) (*asc.Grid, error) {
	if strings.EqualFold(filepath.Ext(path), ".asc") {
		return asc.Load(path)
	}
	img, err := imgio.LoadTIFF(path)
	if err != nil {
		return nil, err
	}
	return imgio.GridFromImage(img), nil
}
