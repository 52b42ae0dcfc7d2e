package epdimg

import (
	"fmt"

	"github.com/epdgen/epdimg/imageutil"
)

// BitDepth is the number of bits used to encode one pixel's gray level
// in packed output.
type BitDepth int

// Supported packing depths. Gray8 is a pass-through; the others pack
// 8/depth samples per byte.
const (
	Gray1 BitDepth = 1
	Gray2 BitDepth = 2
	Gray4 BitDepth = 4
	Gray8 BitDepth = 8
)

// Valid reports whether the depth is one of the supported values.
func (d BitDepth) Valid() bool {
	switch d {
	case Gray1, Gray2, Gray4, Gray8:
		return true
	}
	return false
}

// PixelsPerGroup returns how many consecutive samples share one packed
// byte at this depth.
func (d BitDepth) PixelsPerGroup() int {
	return 8 / int(d)
}

// PackGray compresses an 8-bit grayscale canvas into packed bytes at
// the given bit depth. Samples are grouped in scan order, 8/depth per
// byte, packed MSB-first with each sample contributing its top bits:
// the first sample of a group lands in the most significant position.
//
// The canvas width must be a multiple of 8/depth so that groups never
// straddle row boundaries; unaligned widths are rejected rather than
// silently producing corrupt output.
func PackGray(img *imageutil.GrayImage, depth BitDepth) ([]byte, error) {
	if !depth.Valid() {
		return nil, &ConfigError{
			Option: "bitDepth",
			Reason: fmt.Sprintf("unsupported depth %d, want 1, 2, 4, or 8", int(depth)),
		}
	}

	width, height := img.Width(), img.Height()
	group := depth.PixelsPerGroup()
	if width%group != 0 {
		return nil, &LayoutError{
			Reason: fmt.Sprintf("width %d is not a multiple of %d, packed groups would cross rows", width, group),
		}
	}

	out := make([]byte, 0, width*height/group)
	for y := 0; y < height; y++ {
		row := img.Row(y)
		switch depth {
		case Gray8:
			out = append(out, row...)
		case Gray4:
			for x := 0; x < width; x += 2 {
				out = append(out, (row[x+1]>>4)|(row[x]&0xF0))
			}
		case Gray2:
			for x := 0; x < width; x += 4 {
				out = append(out,
					(row[x+3]>>6)|
						((row[x+2]>>4)&0x0C)|
						((row[x+1]>>2)&0x30)|
						(row[x]&0xC0))
			}
		case Gray1:
			for x := 0; x < width; x += 8 {
				out = append(out,
					(row[x+7]>>7)|
						((row[x+6]>>6)&0x02)|
						((row[x+5]>>5)&0x04)|
						((row[x+4]>>4)&0x08)|
						((row[x+3]>>3)&0x10)|
						((row[x+2]>>2)&0x20)|
						((row[x+1]>>1)&0x40)|
						(row[x]&0x80))
			}
		}
	}

	return out, nil
}
