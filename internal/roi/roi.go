// Package roi restricts pixel sampling to a region of interest. ROIs are
// threaded explicitly through function arguments; there is no ambient
// "current selection" state.
package roi

import (
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"

	"github.com/flimlab/flimtools/internal/asc"
)

// ROI is a named spatial mask over image coordinates. The common case is a
// bare rectangle; a bitmap mask further restricts sampling to its nonzero
// pixels.
type ROI struct {
	// Name feeds the output artifact filename; empty means whole image.
	Name string
	Rect image.Rectangle

	mask image.Image
}

// Full returns a whole-image ROI for the given dimensions.
func Full(width, height int) ROI {
	return ROI{Rect: image.Rect(0, 0, width, height)}
}

// FromMask builds a bitmap ROI from a mask image: pixels where the mask is
// nonzero are inside. The bounding rectangle is the mask's bounds.
func FromMask(name string, mask image.Image) ROI {
	return ROI{Name: name, Rect: mask.Bounds(), mask: mask}
}

// Contains reports whether the pixel (x, y) is inside the region.
func (r ROI) Contains(x, y int) bool {
	if !image.Pt(x, y).In(r.Rect) {
		return false
	}
	if r.mask == nil {
		return true
	}
	g := color.Gray16Model.Convert(r.mask.At(x, y)).(color.Gray16)
	return g.Y != 0
}

// Parse reads a rectangular ROI from its CLI form "name:x,y,w,h" (or
// "x,y,w,h" for an anonymous region).
func Parse(s string) (ROI, error) {
	var r ROI
	spec := s
	if i := strings.IndexByte(s, ':'); i >= 0 {
		r.Name = s[:i]
		spec = s[i+1:]
	}
	parts := strings.Split(spec, ",")
	if len(parts) != 4 {
		return ROI{}, fmt.Errorf("roi %q: want x,y,w,h", s)
	}
	vals := make([]int, 4)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return ROI{}, fmt.Errorf("roi %q: %w", s, err)
		}
		vals[i] = v
	}
	if vals[2] <= 0 || vals[3] <= 0 {
		return ROI{}, fmt.Errorf("roi %q: width and height must be positive", s)
	}
	r.Rect = image.Rect(vals[0], vals[1], vals[0]+vals[2], vals[1]+vals[3])
	return r, nil
}

// Samples collects the grid values inside the ROI, clipped to the grid
// bounds. NaN pixels are kept; the histogram layer decides their fate.
func Samples(g *asc.Grid, r ROI) []float64 {
	rect := r.Rect.Intersect(image.Rect(0, 0, g.Width, g.Height))
	out := make([]float64, 0, rect.Dx()*rect.Dy())
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if !r.Contains(x, y) {
				continue
			}
			out = append(out, g.At(x, y))
		}
	}
	return out
}

// RawHistogram builds a per-intensity-level histogram of the pixels inside
// the ROI: index == intensity value. 8-bit images yield 256 levels, anything
// else 65536. This is the raw input the rebinner consumes.
func RawHistogram(img image.Image, r ROI) []int64 {
	levels := 65536
	if _, ok := img.(*image.Gray); ok {
		levels = 256
	}
	raw := make([]int64, levels)
	rect := r.Rect.Intersect(img.Bounds())
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if !r.Contains(x, y) {
				continue
			}
			gray := color.Gray16Model.Convert(img.At(x, y)).(color.Gray16)
			level := int(gray.Y)
			if levels == 256 {
				level >>= 8
			}
			raw[level]++
		}
	}
	return raw
}
