package imgio

import (
	"fmt"
	"image"
	"image/color"
)

// ChannelFilePrefix is the per-channel filename stem the stitcher writes:
// img_t1_z1_c1 .. img_t1_z1_c4, without extension.
const ChannelFilePrefix = "img_t1_z1_c"

// MergeChannels composites grayscale channel images into a color image.
// Red, green and blue are required; alpha is optional (pass nil). All
// channels must share dimensions.
func MergeChannels(red, green, blue, alpha image.Image) (image.Image, error) {
	bounds := red.Bounds()
	for name, ch := range map[string]image.Image{"green": green, "blue": blue} {
		if ch == nil {
			return nil, fmt.Errorf("missing %s channel", name)
		}
		if ch.Bounds().Size() != bounds.Size() {
			return nil, fmt.Errorf("%s channel is %v, want %v", name, ch.Bounds().Size(), bounds.Size())
		}
	}
	if alpha != nil && alpha.Bounds().Size() != bounds.Size() {
		return nil, fmt.Errorf("alpha channel is %v, want %v", alpha.Bounds().Size(), bounds.Size())
	}

	out := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			a := uint8(255)
			if alpha != nil {
				a = grayAt(alpha, x, y)
			}
			out.SetNRGBA(x, y, color.NRGBA{
				R: grayAt(red, x, y),
				G: grayAt(green, x, y),
				B: grayAt(blue, x, y),
				A: a,
			})
		}
	}
	return out, nil
}

// grayAt samples a channel image as 8-bit grayscale at its own origin
// offset.
func grayAt(img image.Image, x, y int) uint8 {
	min := img.Bounds().Min
	g := color.GrayModel.Convert(img.At(min.X+x, min.Y+y)).(color.Gray)
	return g.Y
}
