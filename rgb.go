package epdimg

// RGB represents a color in the RGB color space with 8-bit channels,
// where each channel ranges from 0 to 255.
type RGB struct {
	R, G, B uint8
}

// ToUint32 converts an RGB color to a 32-bit unsigned integer of the
// form 0xRRGGBB.
func (c RGB) ToUint32() uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// RGBFromUint32 converts a 32-bit unsigned integer of the form
// 0xRRGGBB to an RGB color.
func RGBFromUint32(v uint32) RGB {
	return RGB{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
	}
}

// distanceSq returns the squared Euclidean distance between two RGB
// colors. Nearest-entry comparisons never need the root, so the squared
// form is used throughout.
func (c RGB) distanceSq(other RGB) int {
	dr := int(c.R) - int(other.R)
	dg := int(c.G) - int(other.G)
	db := int(c.B) - int(other.B)
	return dr*dr + dg*dg + db*db
}

// ditherError calculates the per-channel quantization error between an
// original color and the palette color chosen for it. It returns the
// signed difference (original - chosen) for the red, green, and blue
// channels, respectively.
func (c RGB) ditherError(chosen RGB) [3]float64 {
	return [3]float64{
		float64(c.R) - float64(chosen.R),
		float64(c.G) - float64(chosen.G),
		float64(c.B) - float64(chosen.B),
	}
}
