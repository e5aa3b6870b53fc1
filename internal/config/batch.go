// Package config loads the JSON batch parameters shared by the histogram
// tools. Fields are pointers so a partial config file only overrides what it
// names; the Get* accessors supply defaults for the rest.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/flimlab/flimtools/internal/flim"
	"github.com/flimlab/flimtools/internal/hist"
)

// Default binning parameters. The 0..20000 range covers raw integer
// intensity levels; scaled float exports use 0..10000 with the centers
// divided down on output (see hist.Encoding).
const (
	DefaultBins     = 10000
	DefaultRangeMin = 0.0
	DefaultRangeMax = 20000.0

	// DefaultPrecision is the fixed decimal precision of reported bin
	// centers.
	DefaultPrecision = 2
)

// BatchConfig is the root configuration for a histogram batch run.
type BatchConfig struct {
	Bins      *int     `json:"bins,omitempty"`
	RangeMin  *float64 `json:"range_min,omitempty"`
	RangeMax  *float64 `json:"range_max,omitempty"`
	Precision *int     `json:"precision,omitempty"`
	Encoding  *string  `json:"encoding,omitempty"` // "raw" or "scaled"

	// Recursive controls directory traversal when an input is a directory.
	Recursive *bool `json:"recursive,omitempty"`

	// Suffixes selects which files a directory input contributes.
	Suffixes []string `json:"suffixes,omitempty"`

	// InvalidMarker is the pixel value marking invalid ratio pixels.
	InvalidMarker *float64 `json:"invalid_marker,omitempty"`

	// PixelSizeUM calibrates stage coordinates and scale bars.
	PixelSizeUM *float64 `json:"pixel_size_um,omitempty"`

	// Thresholds override the default pixel acceptance rules.
	Thresholds []flim.Rule `json:"thresholds,omitempty"`
}

// Empty returns a BatchConfig with all fields unset.
func Empty() *BatchConfig {
	return &BatchConfig{}
}

// Load reads a BatchConfig from a JSON file. The file must have a .json
// extension and stay under the size cap. Fields omitted from the file
// retain their defaults, so partial configs are safe.
func Load(path string) (*BatchConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Empty()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate rejects configurations the rebinner would refuse anyway, before
// any image data is touched.
func (c *BatchConfig) Validate() error {
	if err := c.Spec().Validate(); err != nil {
		return err
	}
	if c.Precision != nil && *c.Precision < 0 {
		return fmt.Errorf("precision must be non-negative, got %d", *c.Precision)
	}
	if c.Encoding != nil {
		if _, err := hist.ParseEncoding(*c.Encoding); err != nil {
			return err
		}
	}
	for _, r := range c.Thresholds {
		if r.Variable == "" {
			return fmt.Errorf("threshold rule without variable")
		}
		if r.Max < r.Min {
			return fmt.Errorf("threshold rule %s: max %g below min %g", r.Variable, r.Max, r.Min)
		}
	}
	return nil
}

// Spec assembles the rebin specification from the configured binning.
func (c *BatchConfig) Spec() hist.Spec {
	return hist.Spec{Bins: c.GetBins(), Min: c.GetRangeMin(), Max: c.GetRangeMax()}
}

// GetBins returns the target bin count.
func (c *BatchConfig) GetBins() int {
	if c.Bins != nil {
		return *c.Bins
	}
	return DefaultBins
}

// GetRangeMin returns the lower edge of the binned range.
func (c *BatchConfig) GetRangeMin() float64 {
	if c.RangeMin != nil {
		return *c.RangeMin
	}
	return DefaultRangeMin
}

// GetRangeMax returns the upper edge of the binned range.
func (c *BatchConfig) GetRangeMax() float64 {
	if c.RangeMax != nil {
		return *c.RangeMax
	}
	return DefaultRangeMax
}

// GetPrecision returns the bin-center decimal precision.
func (c *BatchConfig) GetPrecision() int {
	if c.Precision != nil {
		return *c.Precision
	}
	return DefaultPrecision
}

// GetEncoding returns the pixel encoding convention.
func (c *BatchConfig) GetEncoding() hist.Encoding {
	if c.Encoding == nil {
		return hist.EncodingRaw
	}
	enc, err := hist.ParseEncoding(*c.Encoding)
	if err != nil {
		return hist.EncodingRaw
	}
	return enc
}

// GetRecursive reports whether directory inputs are walked recursively.
func (c *BatchConfig) GetRecursive() bool {
	if c.Recursive != nil {
		return *c.Recursive
	}
	return false
}

// GetSuffixes returns the input filename suffixes.
func (c *BatchConfig) GetSuffixes() []string {
	if len(c.Suffixes) > 0 {
		return c.Suffixes
	}
	return []string{".asc", ".tif", ".tiff"}
}

// GetInvalidMarker returns the invalid-pixel marker for ratio grids.
func (c *BatchConfig) GetInvalidMarker() float64 {
	if c.InvalidMarker != nil {
		return *c.InvalidMarker
	}
	return -1
}

// GetPixelSizeUM returns the spatial calibration in micrometers per pixel.
func (c *BatchConfig) GetPixelSizeUM() float64 {
	if c.PixelSizeUM != nil && *c.PixelSizeUM > 0 {
		return *c.PixelSizeUM
	}
	return 1
}

// GetThresholds returns the pixel acceptance rules.
func (c *BatchConfig) GetThresholds() []flim.Rule {
	if len(c.Thresholds) > 0 {
		return c.Thresholds
	}
	return flim.DefaultRules
}
