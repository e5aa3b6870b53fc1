package imgio

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"gonum.org/v1/plot/palette"

	"github.com/flimlab/flimtools/internal/asc"
)

// rainbowColors is the resolution of the sampled rainbow colormap.
const rainbowColors = 256

// Colorize maps a float grid onto a rainbow colormap: lo renders blue, hi
// renders red, values outside clamp to the ends. NaN pixels render black.
// Free-lifetime values sit at the blue end and bound at the red end by the
// workflow's convention.
func Colorize(g *asc.Grid, lo, hi float64) (*image.NRGBA, error) {
	if hi == lo {
		return nil, fmt.Errorf("colorize range is empty: lo == hi == %g", lo)
	}
	if hi < lo {
		lo, hi = hi, lo
	}

	colors := palette.Rainbow(rainbowColors, palette.Blue, palette.Red, 1, 1, 1).Colors()
	out := image.NewNRGBA(image.Rect(0, 0, g.Width, g.Height))
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			v := g.At(x, y)
			if math.IsNaN(v) {
				out.SetNRGBA(x, y, color.NRGBA{A: 255})
				continue
			}
			t := (v - lo) / (hi - lo)
			if t < 0 {
				t = 0
			} else if t > 1 {
				t = 1
			}
			out.Set(x, y, colors[int(t*float64(rainbowColors-1))])
		}
	}
	return out, nil
}

// ColormapStrip renders the colormap itself as a legend image, low values on
// the left.
func ColormapStrip(width, height int) *image.NRGBA {
	colors := palette.Rainbow(rainbowColors, palette.Blue, palette.Red, 1, 1, 1).Colors()
	out := image.NewNRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		c := colors[x*(rainbowColors-1)/max(width-1, 1)]
		for y := 0; y < height; y++ {
			out.Set(x, y, c)
		}
	}
	return out
}
