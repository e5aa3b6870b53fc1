// croptif extracts a fixed-size corner crop from TIFF images. Acquisition
// exports pad on the right and bottom, so the default is an upper-left crop
// back to the sensor size.
package main

import (
	"flag"
	"log"
	"path/filepath"
	"strings"

	"github.com/flimlab/flimtools/internal/fsutil"
	"github.com/flimlab/flimtools/internal/imgio"
	"github.com/flimlab/flimtools/internal/monitoring"
)

func main() {
	var (
		sizeX     int
		sizeY     int
		cornerArg string
		outDir    string
		recursive bool
		verbose   bool
	)
	flag.IntVar(&sizeX, "width", 512, "crop width in pixels")
	flag.IntVar(&sizeY, "height", 512, "crop height in pixels")
	flag.StringVar(&cornerArg, "corner", string(imgio.UpperLeft), "anchor corner: upper-left, upper-right, lower-left, lower-right")
	flag.StringVar(&outDir, "out", ".", "output directory")
	flag.BoolVar(&recursive, "recursive", false, "recurse into input directories")
	flag.BoolVar(&verbose, "v", false, "verbose logging")
	flag.Parse()

	monitoring.SetVerbose(verbose)

	if flag.NArg() == 0 {
		log.Fatalf("usage: croptif [options] <tif-or-dir> ...")
	}
	corner, err := imgio.ParseCorner(cornerArg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	var files []string
	for _, arg := range flag.Args() {
		found, err := fsutil.FindFiles(arg, []string{".tif", ".tiff"}, recursive)
		if err != nil {
			log.Fatalf("scan %s: %v", arg, err)
		}
		files = append(files, found...)
	}
	if len(files) == 0 {
		log.Fatalf("no TIFF inputs matched")
	}

	for _, path := range files {
		img, err := imgio.LoadTIFF(path)
		if err != nil {
			log.Fatalf("%v", err)
		}
		cropped, err := imgio.Crop(img, sizeX, sizeY, corner)
		if err != nil {
			log.Fatalf("%s: %v", path, err)
		}
		base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		out := filepath.Join(outDir, base+"_crop.tif")
		if err := imgio.SaveTIFF(out, cropped); err != nil {
			log.Fatalf("%v", err)
		}
		monitoring.Verbosef("wrote %s", out)
	}
	monitoring.Logf("cropped %d files to %s", len(files), outDir)
}
