package hist

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// csvHeader is the artifact header consumed by the downstream stats and
// plotting tools.
const csvHeader = "bin_center,value"

// WriteCSV writes the histogram as a two-column CSV artifact, one row per
// bin, with bin centers at the given fixed decimal precision. The encoding
// controls the scale of the reported centers.
func WriteCSV(w io.Writer, h *Histogram, precision int, enc Encoding) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, csvHeader); err != nil {
		return err
	}
	scale := enc.centerScale()
	for k, center := range h.Centers() {
		if _, err := fmt.Fprintf(bw, "%.*f,%d\n", precision, center/scale, h.Counts[k]); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteCSVFile writes the histogram artifact to path, creating parent
// directories as needed. A failed open or write is fatal to the invocation;
// there is no partial-write recovery.
func WriteCSVFile(path string, h *Histogram, precision int, enc Encoding) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create histogram artifact: %w", err)
	}
	if err := WriteCSV(f, h, precision, enc); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

// OutputPath derives the artifact path for an image/ROI pair:
// <outputDir>/<image basename>-<roi name>-hist.csv. The ROI segment is
// omitted for whole-image histograms.
func OutputPath(outputDir, imagePath, roiName string) string {
	base := strings.TrimSuffix(filepath.Base(imagePath), filepath.Ext(imagePath))
	if roiName != "" {
		base = base + "-" + roiName
	}
	return filepath.Join(outputDir, base+"-hist.csv")
}

// ReadCSV parses a histogram artifact back into bin centers and values. Used
// by the stats and report tools, which consume artifacts produced by earlier
// invocations.
func ReadCSV(r io.Reader) (centers []float64, values []float64, err error) {
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		if line == 1 && text == csvHeader {
			continue
		}
		fields := strings.Split(text, ",")
		if len(fields) != 2 {
			return nil, nil, fmt.Errorf("line %d: expected 2 columns, got %d", line, len(fields))
		}
		c, err := strconv.ParseFloat(strings.TrimSpace(fields[0]), 64)
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: bad bin center: %w", line, err)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: bad value: %w", line, err)
		}
		centers = append(centers, c)
		values = append(values, v)
	}
	if err := sc.Err(); err != nil {
		return nil, nil, err
	}
	return centers, values, nil
}
