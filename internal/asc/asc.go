// Package asc reads and writes the whitespace-delimited ASCII pixel grids
// exported by the FLIM acquisition software. Each file is a rectangular
// matrix of float values, one image row per line; invalid pixels are
// represented as NaN.
package asc

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Grid is a row-major matrix of pixel values.
type Grid struct {
	Width  int
	Height int
	Data   []float64
}

// NewGrid allocates a zero-filled grid.
func NewGrid(width, height int) *Grid {
	return &Grid{Width: width, Height: height, Data: make([]float64, width*height)}
}

// At returns the value at (x, y).
func (g *Grid) At(x, y int) float64 {
	return g.Data[y*g.Width+x]
}

// Set stores v at (x, y).
func (g *Grid) Set(x, y int, v float64) {
	g.Data[y*g.Width+x] = v
}

// SameSize reports whether two grids have identical dimensions.
func (g *Grid) SameSize(other *Grid) bool {
	return other != nil && g.Width == other.Width && g.Height == other.Height
}

// Read parses a grid from r. Every row must have the same number of columns.
func Read(r io.Reader) (*Grid, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var data []float64
	width, height := 0, 0
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if width == 0 {
			width = len(fields)
		} else if len(fields) != width {
			return nil, fmt.Errorf("line %d: %d columns, want %d", line, len(fields), width)
		}
		for _, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: bad value %q: %w", line, f, err)
			}
			data = append(data, v)
		}
		height++
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if height == 0 {
		return nil, fmt.Errorf("empty grid")
	}
	return &Grid{Width: width, Height: height, Data: data}, nil
}

// Load reads a grid from a file.
func Load(path string) (*Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	g, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return g, nil
}

// Write serializes the grid with seven significant digits, space-delimited,
// matching the acquisition software's own export format.
func (g *Grid) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if x > 0 {
				if err := bw.WriteByte(' '); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintf(bw, "%.7g", g.At(x, y)); err != nil {
				return err
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Export writes the grid to a file.
func Export(path string, g *Grid) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := g.Write(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
