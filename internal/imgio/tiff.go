// Package imgio handles the TIFF side of the workflow: loading and saving
// images, grayscale conversion of ASC grids, channel merging, cropping,
// colormap application and scale-bar overlays. Image handles are passed
// explicitly; nothing here keeps a "current image".
package imgio

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"os"

	"golang.org/x/image/tiff"

	"github.com/flimlab/flimtools/internal/asc"
)

// LoadTIFF decodes a TIFF file.
func LoadTIFF(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	img, err := tiff.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return img, nil
}

// SaveTIFF encodes img to path with deflate compression.
func SaveTIFF(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	opts := &tiff.Options{Compression: tiff.Deflate}
	if err := tiff.Encode(f, img, opts); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Close()
}

// Gray16FromGrid maps a float grid linearly onto 16-bit grayscale over
// [lo, hi]. Pass lo == hi to scale over the grid's own finite value range.
// NaN pixels map to level 0.
func Gray16FromGrid(g *asc.Grid, lo, hi float64) *image.Gray16 {
	if lo == hi {
		lo, hi = finiteRange(g)
	}
	img := image.NewGray16(image.Rect(0, 0, g.Width, g.Height))
	span := hi - lo
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			v := g.At(x, y)
			if math.IsNaN(v) {
				continue
			}
			t := 0.0
			if span > 0 {
				t = (v - lo) / span
			}
			if t < 0 {
				t = 0
			} else if t > 1 {
				t = 1
			}
			level := uint16(math.Round(t * 65535))
			i := img.PixOffset(x, y)
			img.Pix[i] = uint8(level >> 8)
			img.Pix[i+1] = uint8(level)
		}
	}
	return img
}

// GridFromImage converts a grayscale image into a float grid of 16-bit
// intensity levels, for running the grid pipeline on TIFF inputs.
func GridFromImage(img image.Image) *asc.Grid {
	b := img.Bounds()
	g := asc.NewGrid(b.Dx(), b.Dy())
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			gray := color.Gray16Model.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray16)
			g.Set(x, y, float64(gray.Y))
		}
	}
	return g
}

func finiteRange(g *asc.Grid) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range g.Data {
		if math.IsNaN(v) {
			continue
		}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if lo > hi {
		return 0, 0
	}
	return lo, hi
}
