package imgio

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// ScaleBar describes a calibration bar burned into the lower-right corner of
// an output image.
type ScaleBar struct {
	// LengthUM is the physical length the bar represents, in micrometers.
	LengthUM float64
	// PixelSizeUM is the image calibration, micrometers per pixel.
	PixelSizeUM float64
	// Thickness is the bar height in pixels; 0 means 4.
	Thickness int
	// Color is the bar and label color; nil means white.
	Color color.Color
}

// Draw overlays the scale bar onto img.
func (sb ScaleBar) Draw(img draw.Image) error {
	if sb.PixelSizeUM <= 0 || sb.LengthUM <= 0 {
		return fmt.Errorf("scale bar needs positive length and pixel size")
	}
	barLen := int(math.Round(sb.LengthUM / sb.PixelSizeUM))
	b := img.Bounds()
	if barLen <= 0 || barLen > b.Dx() {
		return fmt.Errorf("scale bar of %d px does not fit in %d px image", barLen, b.Dx())
	}

	thickness := sb.Thickness
	if thickness <= 0 {
		thickness = 4
	}
	col := sb.Color
	if col == nil {
		col = color.White
	}

	const margin = 10
	bar := image.Rect(b.Max.X-margin-barLen, b.Max.Y-margin-thickness, b.Max.X-margin, b.Max.Y-margin)
	draw.Draw(img, bar, image.NewUniform(col), image.Point{}, draw.Src)

	label := fmt.Sprintf("%g um", sb.LengthUM)
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
	}
	w := d.MeasureString(label)
	d.Dot = fixed.Point26_6{
		X: fixed.I(bar.Min.X+barLen/2) - w/2,
		Y: fixed.I(bar.Min.Y - 4),
	}
	d.DrawString(label)
	return nil
}
