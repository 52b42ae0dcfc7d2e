package epdimg

import (
	"embed"
	"encoding/json"
	"fmt"
	"math/bits"
	"os"
	"strconv"
	"strings"
)

//go:embed colordata/bw.json
//go:embed colordata/bwr.json
//go:embed colordata/bwry.json
var colorFS embed.FS

// Palette is an ordered sequence of fixed colors. A color's position in
// the sequence is its index code in packed output, so order matters and
// must match the target display's expectations.
type Palette []RGB

// Built-in palettes for common e-paper panels. BW is plain monochrome,
// BWR adds the red accent plane, BWRY is the quad-color variant.
var (
	BW   = Palette{{0x00, 0x00, 0x00}, {0xFF, 0xFF, 0xFF}}
	BWR  = Palette{{0x00, 0x00, 0x00}, {0xFF, 0xFF, 0xFF}, {0xFF, 0x00, 0x00}}
	BWRY = Palette{{0x00, 0x00, 0x00}, {0xFF, 0xFF, 0xFF}, {0xFF, 0x00, 0x00}, {0xFF, 0xFF, 0x00}}
)

// IndexOf returns the index of the palette entry nearest to c, using
// squared Euclidean distance over the RGB channels. Ties resolve to the
// lowest index, which keeps the result stable for any palette order.
func (p Palette) IndexOf(c RGB) int {
	best := 0
	bestDist := int(^uint(0) >> 1)
	for i, entry := range p {
		dist := c.distanceSq(entry)
		if dist < bestDist {
			bestDist = dist
			best = i
		}
	}
	return best
}

// ColorOf returns the palette entry at the given index.
func (p Palette) ColorOf(index int) RGB {
	return p[index]
}

// Contains reports whether c is an exact member of the palette.
func (p Palette) Contains(c RGB) bool {
	for _, entry := range p {
		if entry == c {
			return true
		}
	}
	return false
}

// Bits returns the number of bits needed to encode a palette index,
// ceil(log2(len(p))). A single-entry palette still takes one bit.
func (p Palette) Bits() int {
	if len(p) <= 2 {
		return 1
	}
	return bits.Len(uint(len(p) - 1))
}

// GrayPalette returns an evenly spaced grayscale ramp with 2^depth
// levels, ordered dark to light. Used to quantize photographs for
// grayscale e-paper panels before bit-depth packing.
func GrayPalette(depth BitDepth) Palette {
	levels := 1 << uint(depth)
	p := make(Palette, levels)
	for i := 0; i < levels; i++ {
		v := uint8(i * 255 / (levels - 1))
		p[i] = RGB{v, v, v}
	}
	return p
}

// LoadPalette resolves a palette by name. The name is first looked up
// in the embedded colordata files, then treated as a filesystem path.
// Palette files are JSON arrays of "#RRGGBB" strings in index order.
func LoadPalette(name string) (Palette, error) {
	data, vfsErr := colorFS.ReadFile(fmt.Sprintf("colordata/%s.json", name))
	if vfsErr != nil {
		var fsErr error
		data, fsErr = os.ReadFile(name)
		if fsErr != nil {
			return nil, &ResourceError{Path: name, Err: fsErr}
		}
	}
	p, err := parsePalette(data)
	if err != nil {
		return nil, &ResourceError{Path: name, Err: err}
	}
	return p, nil
}

// parsePalette decodes a JSON array of hex color strings into a
// Palette, preserving order.
func parsePalette(data []byte) (Palette, error) {
	var hexColors []string
	if err := json.Unmarshal(data, &hexColors); err != nil {
		return nil, fmt.Errorf("error unmarshalling JSON: %w", err)
	}
	if len(hexColors) == 0 {
		return nil, fmt.Errorf("palette has no entries")
	}

	p := make(Palette, 0, len(hexColors))
	for _, hexColor := range hexColors {
		hexColor = strings.TrimPrefix(hexColor, "#")
		colorUint, err := strconv.ParseUint(hexColor, 16, 32)
		if err != nil {
			return nil, fmt.Errorf("error parsing color %s: %w", hexColor, err)
		}
		p = append(p, RGBFromUint32(uint32(colorUint)))
	}
	return p, nil
}
