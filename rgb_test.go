package epdimg

import "testing"

func TestRGBUint32RoundTrip(t *testing.T) {
	tests := []struct {
		c    RGB
		want uint32
	}{
		{RGB{0x00, 0x00, 0x00}, 0x000000},
		{RGB{0xFF, 0xFF, 0xFF}, 0xFFFFFF},
		{RGB{0xFF, 0x00, 0x00}, 0xFF0000},
		{RGB{0x12, 0x34, 0x56}, 0x123456},
	}

	for _, tt := range tests {
		if got := tt.c.ToUint32(); got != tt.want {
			t.Errorf("ToUint32(%+v) = %#06x, want %#06x", tt.c, got, tt.want)
		}
		if got := RGBFromUint32(tt.want); got != tt.c {
			t.Errorf("RGBFromUint32(%#06x) = %+v, want %+v", tt.want, got, tt.c)
		}
	}
}

// TestPaletteHexExport verifies that every built-in palette survives a
// trip through its hex form, the same encoding the colordata files use.
func TestPaletteHexExport(t *testing.T) {
	for _, p := range []Palette{BW, BWR, BWRY} {
		for i, c := range p {
			if got := RGBFromUint32(c.ToUint32()); got != c {
				t.Errorf("palette entry %d: %+v round trips to %+v", i, c, got)
			}
		}
	}
}
