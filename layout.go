package epdimg

import (
	"fmt"
	"strings"
)

// Layout describes the canvas geometry computed for a text request:
// the split lines, the padded pixel dimensions, and the vertical
// spacing used to place each line.
type Layout struct {
	Lines       []string
	Width       int
	Height      int
	LineHeight  int
	LineSpacing int
}

// LayoutText computes the canvas geometry for the given text. Each line
// is measured through the font capability; the canvas width is the
// widest line plus a one-pixel blending margin, padded up so that a row
// of packed pixels ends exactly on a byte boundary at the requested bit
// depth. The height is lineHeight*n + lineSpacing*(n-1).
//
// Degenerate input that would produce no lines or non-positive
// dimensions yields a LayoutError.
func LayoutText(m TextMeasurer, text string, lineSpacingPx int, depth BitDepth) (*Layout, error) {
	lines := splitLines(text)
	if len(lines) == 0 {
		return nil, &LayoutError{Reason: "text produced no lines"}
	}

	lineHeight := m.LineHeight()
	width := 0
	for _, line := range lines {
		if lw := m.MeasureLine(line); lw > width {
			width = lw
		}
	}

	// One pixel of margin on the right edge for anti-aliased
	// blending, mirrored by the one-pixel draw offset on the left.
	width++

	// Pad the width so that width*depth is a whole number of bytes.
	group := depth.PixelsPerGroup()
	if width%group != 0 {
		width = (width/group + 1) * group
	}

	height := lineHeight*len(lines) + lineSpacingPx*(len(lines)-1)
	if width <= 0 || height <= 0 {
		return nil, &LayoutError{
			Reason: fmt.Sprintf("non-positive canvas dimensions %dx%d", width, height),
		}
	}

	return &Layout{
		Lines:       lines,
		Width:       width,
		Height:      height,
		LineHeight:  lineHeight,
		LineSpacing: lineSpacingPx,
	}, nil
}

// splitLines splits text on line breaks. Windows line endings are
// tolerated, and a trailing line break does not produce an empty final
// line.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	if len(lines) > 1 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
