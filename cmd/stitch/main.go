// stitch drives the host ImageJ/Fiji installation to fuse a tile directory
// using the Grid/Collection stitching plugin. The plugin itself does the
// work; this tool only assembles the macro and the invocation. -dry-run
// prints the command instead of executing it.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/flimlab/flimtools/internal/host"
	"github.com/flimlab/flimtools/internal/monitoring"
)

func main() {
	var (
		imagej  string
		layout  string
		outDir  string
		overlap bool
		timeout time.Duration
		dryRun  bool
		verbose bool
	)
	flag.StringVar(&imagej, "imagej", "ImageJ-linux64", "ImageJ/Fiji executable")
	flag.StringVar(&layout, "layout", "TileConfiguration.txt", "layout file inside the tile directory")
	flag.StringVar(&outDir, "out", "", "fused output directory (default: tile directory)")
	flag.BoolVar(&overlap, "compute-overlap", true, "let the plugin refine tile positions")
	flag.DurationVar(&timeout, "timeout", 2*time.Hour, "abort stitching after this long")
	flag.BoolVar(&dryRun, "dry-run", false, "print the ImageJ invocation without running it")
	flag.BoolVar(&verbose, "v", false, "verbose logging")
	flag.Parse()

	monitoring.SetVerbose(verbose)

	if flag.NArg() != 1 {
		log.Fatalf("usage: stitch [options] <tile-dir>")
	}
	dir := flag.Arg(0)
	if outDir == "" {
		outDir = dir
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := host.DefaultStitchOptions(dir, layout, outDir)
	opts.ComputeOverlap = overlap

	r := &host.Runner{Executable: imagej, DryRun: dryRun}
	if err := r.Stitch(ctx, opts); err != nil {
		log.Fatalf("stitch failed: %v", err)
	}
	monitoring.Logf("stitched %s into %s", dir, outDir)
}
