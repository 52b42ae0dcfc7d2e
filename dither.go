package epdimg

import (
	"math"

	"github.com/epdgen/epdimg/imageutil"
)

// Dither maps every pixel of img onto its nearest palette entry and
// diffuses the quantization error to not-yet-visited neighbors using
// the Floyd-Steinberg coefficients: 7/16 to the right, 3/16 below-left,
// 5/16 below, 1/16 below-right. The image is modified in place; after
// the pass every pixel is an exact palette member.
//
// Input that is already palette-conformant passes through unchanged,
// since every pixel quantizes to itself with zero error.
func (p Palette) Dither(img *imageutil.RGBAImage) {
	height, width := img.Height(), img.Width()

	diffuseError := func(y, x int, err [3]float64, factor float64) {
		if y < 0 || y >= height || x < 0 || x >= width {
			return
		}
		pixel := img.GetRGB(x, y)
		newR := uint8(math.Max(0, math.Min(255,
			float64(pixel.R)+err[0]*factor)))
		newG := uint8(math.Max(0, math.Min(255,
			float64(pixel.G)+err[1]*factor)))
		newB := uint8(math.Max(0, math.Min(255,
			float64(pixel.B)+err[2]*factor)))
		img.SetRGB(x, y, imageutil.RGB{R: newR, G: newG, B: newB})
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			px := img.GetRGB(x, y)
			original := RGB{R: px.R, G: px.G, B: px.B}
			chosen := p.ColorOf(p.IndexOf(original))
			img.SetRGB(x, y, imageutil.RGB{R: chosen.R, G: chosen.G, B: chosen.B})

			err := original.ditherError(chosen)
			diffuseError(y, x+1, err, 7.0/16.0)
			diffuseError(y+1, x-1, err, 3.0/16.0)
			diffuseError(y+1, x, err, 5.0/16.0)
			diffuseError(y+1, x+1, err, 1.0/16.0)
		}
	}
}
