package epdimg

import (
	"fmt"

	"github.com/epdgen/epdimg/imageutil"
)

// PackPlane extracts a single channel plane from a dithered image: bit
// 1 where a pixel's palette index equals the requested channel, bit 0
// elsewhere. Bits are packed MSB-first, eight per byte, and each row is
// padded with zero bits to a byte boundary. Multi-layer displays take
// one such plane per accent color.
//
// It returns the packed bytes and the padded row width in pixels, which
// is the width the display must be told about.
func PackPlane(img *imageutil.RGBAImage, p Palette, channel int) ([]byte, int, error) {
	if channel < 0 || channel >= len(p) {
		return nil, 0, &ConfigError{
			Option: "channel",
			Reason: fmt.Sprintf("index %d out of range for %d-color palette", channel, len(p)),
		}
	}

	width, height := img.Width(), img.Height()
	stride := (width + 7) / 8

	out := make([]byte, 0, stride*height)
	for y := 0; y < height; y++ {
		var n uint8
		for x := 0; x < width; x++ {
			px := img.GetRGB(x, y)
			if p.IndexOf(RGB{R: px.R, G: px.G, B: px.B}) == channel {
				n |= 1 << (7 - x%8)
			}
			if x%8 == 7 {
				out = append(out, n)
				n = 0
			}
		}
		if width%8 != 0 {
			out = append(out, n)
		}
	}

	return out, stride * 8, nil
}

// PackQuad packs 2-bit palette indices four pixels per byte, MSB-first:
// the first pixel of each group occupies the two most significant bits.
// Rows are padded individually with zero bits so every row ends on a
// byte boundary, matching the channel-plane layout.
//
// It returns the packed bytes and the padded row width in pixels. The
// palette may hold at most four colors so that every index fits in two
// bits.
func PackQuad(img *imageutil.RGBAImage, p Palette) ([]byte, int, error) {
	if len(p) > 4 {
		return nil, 0, &ConfigError{
			Option: "palette",
			Reason: fmt.Sprintf("%d colors do not fit 2-bit indices", len(p)),
		}
	}

	width, height := img.Width(), img.Height()
	stride := (width + 3) / 4

	out := make([]byte, 0, stride*height)
	for y := 0; y < height; y++ {
		var n uint8
		var filled int
		for x := 0; x < width; x++ {
			px := img.GetRGB(x, y)
			ix := p.IndexOf(RGB{R: px.R, G: px.G, B: px.B})
			n = n<<2 | uint8(ix)&0x03
			filled++
			if filled == 4 {
				out = append(out, n)
				n, filled = 0, 0
			}
		}
		if filled > 0 {
			// Shift the remaining pixels into the high bits and
			// zero-fill the rest of the byte.
			n <<= uint(2 * (4 - filled))
			out = append(out, n)
		}
	}

	return out, stride * 4, nil
}
