// tileconfig converts a stage-position CSV (x,y,z per row, micrometers) into
// the TileConfiguration.txt layout consumed by the Grid/Collection stitching
// plugin. Stage coordinates are negated and divided by the pixel size to land
// in image space.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/flimlab/flimtools/internal/host"
	"github.com/flimlab/flimtools/internal/monitoring"
)

func main() {
	var (
		pixelUM float64
		prefix  string
		suffix  string
		outPath string
	)
	flag.Float64Var(&pixelUM, "pixel-size", 0.7, "pixel size in micrometers")
	flag.StringVar(&prefix, "prefix", "", "tile filename prefix (default pos_)")
	flag.StringVar(&suffix, "suffix", "", "tile filename suffix before .tif (e.g. _color_image)")
	flag.StringVar(&outPath, "out", "TileConfiguration.txt", "output layout file")
	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatalf("usage: tileconfig [options] <coordinates.csv>")
	}

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		log.Fatalf("open coordinates: %v", err)
	}
	coords, err := host.ReadCoordinates(f)
	f.Close()
	if err != nil {
		log.Fatalf("read coordinates: %v", err)
	}

	tc := host.TileConfig{PixelSizeUM: pixelUM, Prefix: prefix, Suffix: suffix}
	if err := tc.WriteFile(outPath, coords); err != nil {
		log.Fatalf("write layout: %v", err)
	}
	monitoring.Logf("wrote %s (%d tiles)", outPath, len(coords))
}
