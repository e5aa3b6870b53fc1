// Package host prepares inputs for, and drives, the external stitching host
// (ImageJ/Fiji run headless). Stitching and registration themselves are the
// host's job; this package only builds its inputs and option strings.
package host

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// Coordinate is one stage position from the acquisition CSV (x, y, z in
// micrometers).
type Coordinate struct {
	X float64
	Y float64
	Z float64
}

// ReadCoordinates parses a headerless acquisition CSV of x,y,z rows.
func ReadCoordinates(r io.Reader) ([]Coordinate, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	var coords []Coordinate
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(rec) != 3 {
			return nil, fmt.Errorf("row %d: want 3 columns x,y,z, got %d", len(coords)+1, len(rec))
		}
		var c Coordinate
		for i, dst := range []*float64{&c.X, &c.Y, &c.Z} {
			v, err := strconv.ParseFloat(rec[i], 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %d: %w", len(coords)+1, i+1, err)
			}
			*dst = v
		}
		coords = append(coords, c)
	}
	if len(coords) == 0 {
		return nil, fmt.Errorf("no coordinates in input")
	}
	return coords, nil
}

// TileConfig maps stage coordinates onto the pixel-space tile layout the
// stitcher consumes.
type TileConfig struct {
	// PixelSizeUM converts stage micrometers to pixels; 0 means 1.
	PixelSizeUM float64
	// Prefix and Suffix bracket the zero-padded tile index in each
	// filename: <prefix>0000<suffix>.tif.
	Prefix string
	Suffix string
}

// Write emits a two-dimensional TileConfiguration layout. Stage coordinates
// are negated: the stage moves opposite to image space.
func (tc TileConfig) Write(w io.Writer, coords []Coordinate) error {
	pixelSize := tc.PixelSizeUM
	if pixelSize == 0 {
		pixelSize = 1
	}
	prefix := tc.Prefix
	if prefix == "" {
		prefix = "pos_"
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "# Define the number of dimensions we are working on")
	fmt.Fprintln(bw, "dim = 2")
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "# Define the image coordinates")
	for i, c := range coords {
		x := c.X / -pixelSize
		y := c.Y / -pixelSize
		if _, err := fmt.Fprintf(bw, "%s%04d%s.tif ; ; (%g, %g)\n", prefix, i, tc.Suffix, x, y); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFile writes the layout to path.
func (tc TileConfig) WriteFile(path string, coords []Coordinate) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := tc.Write(f, coords); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
