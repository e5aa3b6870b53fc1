package imgio

import (
	"fmt"
	"image"
	"image/draw"
)

// Corner anchors a fixed-size crop within a larger image.
type Corner string

const (
	UpperLeft  Corner = "upper-left"
	UpperRight Corner = "upper-right"
	LowerLeft  Corner = "lower-left"
	LowerRight Corner = "lower-right"
)

// ParseCorner validates a corner name from the CLI.
func ParseCorner(s string) (Corner, error) {
	switch Corner(s) {
	case UpperLeft, UpperRight, LowerLeft, LowerRight:
		return Corner(s), nil
	}
	return "", fmt.Errorf("invalid corner %q", s)
}

// Crop extracts a sizeX by sizeY region anchored at the given corner.
// Exports from the acquisition software pad on the right and bottom, so the
// usual call is an upper-left crop back to the sensor size.
func Crop(img image.Image, sizeX, sizeY int, corner Corner) (image.Image, error) {
	b := img.Bounds()
	if sizeX <= 0 || sizeY <= 0 || sizeX > b.Dx() || sizeY > b.Dy() {
		return nil, fmt.Errorf("crop %dx%d does not fit in %dx%d", sizeX, sizeY, b.Dx(), b.Dy())
	}

	var origin image.Point
	switch corner {
	case UpperLeft:
		origin = b.Min
	case UpperRight:
		origin = image.Pt(b.Max.X-sizeX, b.Min.Y)
	case LowerLeft:
		origin = image.Pt(b.Min.X, b.Max.Y-sizeY)
	case LowerRight:
		origin = image.Pt(b.Max.X-sizeX, b.Max.Y-sizeY)
	default:
		return nil, fmt.Errorf("invalid corner %q", corner)
	}

	rect := image.Rectangle{Min: origin, Max: origin.Add(image.Pt(sizeX, sizeY))}

	// Stdlib image types all expose SubImage, which preserves the pixel
	// format. Fall back to a color draw for anything exotic.
	if sub, ok := img.(interface {
		SubImage(image.Rectangle) image.Image
	}); ok {
		return sub.SubImage(rect), nil
	}
	out := image.NewNRGBA64(image.Rect(0, 0, sizeX, sizeY))
	draw.Draw(out, out.Bounds(), img, origin, draw.Src)
	return out, nil
}
