package asc

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// RelatedSuffixes lists the per-variable files the acquisition software
// exports alongside each image, sharing a common stem:
// <stem>_a1.asc, <stem>_chi.asc and so on. statistic_all and phasor are
// excluded; they have different dimensions from the pixel grids.
var RelatedSuffixes = []string{
	"a1", "a2", "t1", "t2", "a1[%]", "a2[%]", "chi",
	"phasor_G", "phasor_S", "scatter", "color coded value",
	"photons", "offset", "shift", "color_image",
}

// Stem strips the variable suffix and extension from one file of an export
// set, returning the stem shared by its related files. A path with no known
// suffix is returned with only its extension stripped.
func Stem(path string) string {
	name := strings.TrimSuffix(path, filepath.Ext(path))
	for _, s := range RelatedSuffixes {
		if strings.HasSuffix(name, "_"+s) {
			return strings.TrimSuffix(name, "_"+s)
		}
	}
	return name
}

// RelatedPath builds the path of the related file with the given variable
// suffix for any file in an export set.
func RelatedPath(path, suffix string) string {
	return Stem(path) + "_" + suffix + ".asc"
}

// LoadRelated loads the related grid with the given variable suffix.
func LoadRelated(path, suffix string) (*Grid, error) {
	return Load(RelatedPath(path, suffix))
}

// LoadAllRelated loads every related grid that exists on disk, keyed by
// variable suffix. Missing variables are skipped; at least one must exist.
func LoadAllRelated(path string) (map[string]*Grid, error) {
	dataset := make(map[string]*Grid)
	for _, s := range RelatedSuffixes {
		p := RelatedPath(path, s)
		if _, err := os.Stat(p); err != nil {
			continue
		}
		g, err := Load(p)
		if err != nil {
			return nil, err
		}
		dataset[s] = g
	}
	if len(dataset) == 0 {
		return nil, fmt.Errorf("no related files found for %s", path)
	}
	return dataset, nil
}
