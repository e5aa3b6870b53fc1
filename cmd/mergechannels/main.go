// mergechannels composites the per-channel greyscale TIFFs the stitcher
// emits (img_t1_z1_c1 .. c4) into one color image per directory. Channels 1-3
// become red, green and blue; channel 4, when present, becomes alpha.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"io/fs"
	"log"
	"path/filepath"

	"github.com/flimlab/flimtools/internal/imgio"
	"github.com/flimlab/flimtools/internal/monitoring"
)

func main() {
	var (
		outName string
		noAlpha bool
		verbose bool
	)
	flag.StringVar(&outName, "out", "merged.tif", "output filename (written inside each input directory)")
	flag.BoolVar(&noAlpha, "no-alpha", false, "ignore channel 4 even if present")
	flag.BoolVar(&verbose, "v", false, "verbose logging")
	flag.Parse()

	monitoring.SetVerbose(verbose)

	if flag.NArg() == 0 {
		log.Fatalf("usage: mergechannels [options] <dir> ...")
	}

	for _, dir := range flag.Args() {
		if err := mergeDir(dir, outName, noAlpha); err != nil {
			log.Fatalf("%s: %v", dir, err)
		}
	}
}

func mergeDir(dir, outName string, noAlpha bool) error {
	channels := make([]image.Image, 4)
	for i := range channels {
		path := filepath.Join(dir, fmt.Sprintf("%s%d.tif", imgio.ChannelFilePrefix, i+1))
		img, err := imgio.LoadTIFF(path)
		if err != nil {
			if i == 3 && errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
		channels[i] = img
	}
	if channels[0] == nil || channels[1] == nil || channels[2] == nil {
		return fmt.Errorf("need channels 1-3 (%s1..3.tif)", imgio.ChannelFilePrefix)
	}
	alpha := channels[3]
	if noAlpha {
		alpha = nil
	}

	merged, err := imgio.MergeChannels(channels[0], channels[1], channels[2], alpha)
	if err != nil {
		return err
	}
	out := filepath.Join(dir, outName)
	if err := imgio.SaveTIFF(out, merged); err != nil {
		return err
	}
	monitoring.Logf("wrote %s", out)
	return nil
}
