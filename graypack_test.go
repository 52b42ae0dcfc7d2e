package epdimg

import (
	"bytes"
	"errors"
	"testing"

	"github.com/epdgen/epdimg/imageutil"
)

// grayCanvas builds a canvas from rows of samples for packer tests.
func grayCanvas(t *testing.T, rows [][]uint8) *imageutil.GrayImage {
	t.Helper()
	if len(rows) == 0 {
		t.Fatal("grayCanvas needs at least one row")
	}
	img := imageutil.NewGrayImage(len(rows[0]), len(rows))
	for y, row := range rows {
		for x, v := range row {
			img.SetGrayValue(x, y, v)
		}
	}
	return img
}

// TestPackGrayBitLayout documents the packed byte layout for each
// supported depth. Samples are grouped in scan order and packed
// MSB-first, each sample contributing its top bits, so the first sample
// of a group always lands in the most significant position:
//
//	depth 4: byte = (s1 >> 4) | (s0 & 0xF0)
//	depth 2: byte = (s3>>6) | ((s2>>4)&0x0C) | ((s1>>2)&0x30) | (s0&0xC0)
//	depth 1: byte = (s7>>7) | ((s6>>6)&0x02) | ... | (s0&0x80)
func TestPackGrayBitLayout(t *testing.T) {
	tests := []struct {
		name    string
		depth   BitDepth
		samples []uint8
		want    []byte
	}{
		{
			name:    "depth 4 high nibble from first sample",
			depth:   Gray4,
			samples: []uint8{0xF0, 0x0F},
			want:    []byte{0xF0},
		},
		{
			name:    "depth 4 two groups",
			depth:   Gray4,
			samples: []uint8{0x12, 0x34, 0xAB, 0xCD},
			want:    []byte{0x13, 0xAC},
		},
		{
			name:    "depth 2 top two bits per sample",
			depth:   Gray2,
			samples: []uint8{0xC0, 0x80, 0x40, 0x00},
			want:    []byte{0b11100100},
		},
		{
			name:    "depth 1 first sample in high bit",
			depth:   Gray1,
			samples: []uint8{0xFF, 0x00, 0xFF, 0x00, 0xFF, 0x00, 0xFF, 0x00},
			want:    []byte{0b10101010},
		},
		{
			name:    "depth 1 all white",
			depth:   Gray1,
			samples: []uint8{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF},
			want:    []byte{0xFF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := grayCanvas(t, [][]uint8{tt.samples})
			got, err := PackGray(img, tt.depth)
			if err != nil {
				t.Fatalf("PackGray failed: %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("PackGray(%#v, depth %d) = %#v, want %#v",
					tt.samples, tt.depth, got, tt.want)
			}
		})
	}
}

// TestPackGrayIdentity verifies the identity law: at depth 8 the packed
// bytes equal the raw grayscale buffer exactly.
func TestPackGrayIdentity(t *testing.T) {
	rows := [][]uint8{
		{0x00, 0x3C, 0x7F, 0xFF, 0x01},
		{0x80, 0x81, 0x82, 0x83, 0x84},
	}
	img := grayCanvas(t, rows)

	got, err := PackGray(img, Gray8)
	if err != nil {
		t.Fatalf("PackGray failed: %v", err)
	}

	want := append(append([]byte{}, rows[0]...), rows[1]...)
	if !bytes.Equal(got, want) {
		t.Errorf("depth 8 packing is not the identity: got %#v, want %#v", got, want)
	}
}

// TestPackGrayRowIndependence verifies that groups never straddle row
// boundaries: two rows pack to the concatenation of their individual
// packings.
func TestPackGrayRowIndependence(t *testing.T) {
	rowA := []uint8{0xFF, 0xFF, 0x00, 0x00, 0xFF, 0x00, 0xFF, 0x00}
	rowB := []uint8{0x00, 0x00, 0xFF, 0xFF, 0x00, 0xFF, 0x00, 0xFF}

	both, err := PackGray(grayCanvas(t, [][]uint8{rowA, rowB}), Gray1)
	if err != nil {
		t.Fatalf("PackGray failed: %v", err)
	}

	justA, _ := PackGray(grayCanvas(t, [][]uint8{rowA}), Gray1)
	justB, _ := PackGray(grayCanvas(t, [][]uint8{rowB}), Gray1)

	want := append(append([]byte{}, justA...), justB...)
	if !bytes.Equal(both, want) {
		t.Errorf("rows are not packed independently: got %#v, want %#v", both, want)
	}
}

// TestPackGrayUnalignedWidth verifies that an unaligned canvas width is
// rejected instead of silently corrupting output across rows.
func TestPackGrayUnalignedWidth(t *testing.T) {
	tests := []struct {
		width int
		depth BitDepth
		ok    bool
	}{
		{width: 8, depth: Gray1, ok: true},
		{width: 7, depth: Gray1, ok: false},
		{width: 6, depth: Gray2, ok: false},
		{width: 8, depth: Gray2, ok: true},
		{width: 3, depth: Gray4, ok: false},
		{width: 4, depth: Gray4, ok: true},
		{width: 5, depth: Gray8, ok: true},
	}

	for _, tt := range tests {
		img := imageutil.NewGrayImage(tt.width, 2)
		_, err := PackGray(img, tt.depth)
		if tt.ok && err != nil {
			t.Errorf("width %d at depth %d: unexpected error %v", tt.width, tt.depth, err)
		}
		if !tt.ok {
			var layoutErr *LayoutError
			if !errors.As(err, &layoutErr) {
				t.Errorf("width %d at depth %d: want LayoutError, got %v", tt.width, tt.depth, err)
			}
		}
	}
}

// TestPackGrayInvalidDepth verifies that unsupported depths are a
// configuration error.
func TestPackGrayInvalidDepth(t *testing.T) {
	for _, depth := range []BitDepth{0, 3, 5, 6, 7, 16} {
		img := imageutil.NewGrayImage(8, 1)
		_, err := PackGray(img, depth)
		var cfgErr *ConfigError
		if !errors.As(err, &cfgErr) {
			t.Errorf("depth %d: want ConfigError, got %v", depth, err)
		}
	}
}

// TestPackGrayLength verifies the packed length formula
// width*height*depth/8 for every depth.
func TestPackGrayLength(t *testing.T) {
	img := imageutil.NewGrayImage(16, 5)
	for _, depth := range []BitDepth{Gray1, Gray2, Gray4, Gray8} {
		got, err := PackGray(img, depth)
		if err != nil {
			t.Fatalf("depth %d: %v", depth, err)
		}
		want := 16 * 5 * int(depth) / 8
		if len(got) != want {
			t.Errorf("depth %d: packed %d bytes, want %d", depth, len(got), want)
		}
	}
}
