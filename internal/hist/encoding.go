package hist

import "fmt"

// Encoding names the two pixel-encoding conventions observed in exported
// FLIM data. Raw exports carry integer intensity levels (histogrammed over
// 0..20000); scaled exports carry float values a factor of 1000 larger than
// the raw levels, so reported bin centers are divided back down on output.
//
// TODO: the /1000 correction for scaled exports compensates for a suspected
// float-vs-integer ambiguity in the exporter and has not been verified
// against the acquisition software; confirm against a known-intensity slide.
type Encoding int

const (
	// EncodingRaw reports bin centers as-is.
	EncodingRaw Encoding = iota

	// EncodingScaled divides bin centers by 1000 before output.
	EncodingScaled
)

const scaledCenterDivisor = 1000.0

// ParseEncoding maps the CLI names "raw" and "scaled" onto an Encoding.
func ParseEncoding(name string) (Encoding, error) {
	switch name {
	case "raw":
		return EncodingRaw, nil
	case "scaled":
		return EncodingScaled, nil
	}
	return EncodingRaw, fmt.Errorf("unknown encoding %q (want raw or scaled)", name)
}

func (e Encoding) String() string {
	if e == EncodingScaled {
		return "scaled"
	}
	return "raw"
}

// centerScale returns the divisor applied to bin centers on output.
func (e Encoding) centerScale() float64 {
	if e == EncodingScaled {
		return scaledCenterDivisor
	}
	return 1.0
}
