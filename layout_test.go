package epdimg

import (
	"errors"
	"reflect"
	"testing"

	"github.com/epdgen/epdimg/imageutil"
)

// fixedMeasurer is a stub font capability with a constant line height
// and a width proportional to the rune count.
type fixedMeasurer struct {
	lineHeight int
	runeWidth  int
}

func (m fixedMeasurer) LineHeight() int { return m.lineHeight }

func (m fixedMeasurer) MeasureLine(line string) int {
	n := 0
	for range line {
		n++
	}
	return n * m.runeWidth
}

func TestLayoutTextHeightFormula(t *testing.T) {
	// Three lines of height 20 with spacing 2: 20*3 + 2*2 = 64.
	m := fixedMeasurer{lineHeight: 20, runeWidth: 8}
	lay, err := LayoutText(m, "one\ntwo\nthree", 2, Gray1)
	if err != nil {
		t.Fatalf("LayoutText failed: %v", err)
	}
	if lay.Height != 64 {
		t.Errorf("height = %d, want 64", lay.Height)
	}
	if len(lay.Lines) != 3 {
		t.Errorf("lines = %d, want 3", len(lay.Lines))
	}
}

func TestLayoutTextWidthPadding(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		depth     BitDepth
		wantWidth int
	}{
		// "three" is 5 runes * 8px + 1 margin = 41.
		{"depth 1 pads to 8", "three", Gray1, 48},
		{"depth 2 pads to 4", "three", Gray2, 44},
		{"depth 4 pads to 2", "three", Gray4, 42},
		{"depth 8 needs no padding", "three", Gray8, 41},
		// Already aligned: 7 runes * 8px + 1 = 57 -> 64 at depth 1.
		{"widest line wins", "a\nlongest\nbb", Gray1, 64},
	}

	m := fixedMeasurer{lineHeight: 10, runeWidth: 8}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lay, err := LayoutText(m, tt.text, 0, tt.depth)
			if err != nil {
				t.Fatalf("LayoutText failed: %v", err)
			}
			if lay.Width != tt.wantWidth {
				t.Errorf("width = %d, want %d", lay.Width, tt.wantWidth)
			}
			if lay.Width*int(tt.depth)%8 != 0 {
				t.Errorf("width %d * depth %d is not byte aligned", lay.Width, tt.depth)
			}
		})
	}
}

func TestLayoutTextDegenerateInput(t *testing.T) {
	m := fixedMeasurer{lineHeight: 0, runeWidth: 0}

	if _, err := LayoutText(m, "", 0, Gray1); err == nil {
		t.Error("empty text should not lay out")
	} else {
		var layoutErr *LayoutError
		if !errors.As(err, &layoutErr) {
			t.Errorf("want LayoutError for empty text, got %v", err)
		}
	}

	// A zero line height makes the canvas height zero.
	if _, err := LayoutText(m, "x", 0, Gray1); err == nil {
		t.Error("zero-height layout should be rejected")
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{"hello", []string{"hello"}},
		{"a\nb\nc", []string{"a", "b", "c"}},
		{"trailing\n", []string{"trailing"}},
		{"a\r\nb", []string{"a", "b"}},
		{"a\n\nb", []string{"a", "", "b"}},
		{"\n", []string{""}},
		{"", nil},
	}

	for _, tt := range tests {
		got := splitLines(tt.text)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitLines(%q) = %#v, want %#v", tt.text, got, tt.want)
		}
	}
}

// recordingDrawer captures draw calls so the rasterizer's offsets can
// be checked without a real font.
type recordingDrawer struct {
	fixedMeasurer
	calls []drawCall
}

type drawCall struct {
	line string
	x, y int
	luma uint8
}

func (d *recordingDrawer) DrawLine(dst *imageutil.GrayImage, line string, x, y int, luma uint8) error {
	d.calls = append(d.calls, drawCall{line: line, x: x, y: y, luma: luma})
	return nil
}

func TestRasterizePlacement(t *testing.T) {
	d := &recordingDrawer{fixedMeasurer: fixedMeasurer{lineHeight: 20, runeWidth: 8}}
	lay, err := LayoutText(d, "one\ntwo\nthree", 2, Gray1)
	if err != nil {
		t.Fatalf("LayoutText failed: %v", err)
	}

	canvas, err := Rasterize(d, lay, false)
	if err != nil {
		t.Fatalf("Rasterize failed: %v", err)
	}

	if canvas.Width() != lay.Width || canvas.Height() != lay.Height {
		t.Errorf("canvas %dx%d does not match layout %dx%d",
			canvas.Width(), canvas.Height(), lay.Width, lay.Height)
	}

	// Lines sit at (lineHeight+spacing)*i - 1, shifted right by the
	// one-pixel blending margin.
	want := []drawCall{
		{line: "one", x: 1, y: -1, luma: 0xFF},
		{line: "two", x: 1, y: 21, luma: 0xFF},
		{line: "three", x: 1, y: 43, luma: 0xFF},
	}
	if !reflect.DeepEqual(d.calls, want) {
		t.Errorf("draw calls = %#v, want %#v", d.calls, want)
	}
}

func TestRasterizeBackground(t *testing.T) {
	d := &recordingDrawer{fixedMeasurer: fixedMeasurer{lineHeight: 10, runeWidth: 8}}
	lay, err := LayoutText(d, "x", 0, Gray1)
	if err != nil {
		t.Fatalf("LayoutText failed: %v", err)
	}

	normal, err := Rasterize(d, lay, false)
	if err != nil {
		t.Fatalf("Rasterize failed: %v", err)
	}
	if got := normal.GetGray(0, 0); got != 0x00 {
		t.Errorf("normal background = %#x, want 0x00", got)
	}

	inverse, err := Rasterize(d, lay, true)
	if err != nil {
		t.Fatalf("Rasterize failed: %v", err)
	}
	if got := inverse.GetGray(0, 0); got != 0xFF {
		t.Errorf("inverse background = %#x, want 0xFF", got)
	}
	if d.calls[len(d.calls)-1].luma != 0x00 {
		t.Errorf("inverse foreground luma = %#x, want 0x00", d.calls[len(d.calls)-1].luma)
	}
}
