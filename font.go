package epdimg

import (
	"image"
	"image/color"
	"math"
	"os"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/epdgen/epdimg/imageutil"
)

// fontDPI is fixed at 72 so that point sizes and pixel sizes coincide.
const fontDPI = 72

// TextMeasurer is the part of the font capability the layout engine
// needs: vertical metrics and per-line advance widths.
type TextMeasurer interface {
	// LineHeight returns the height of one text line in pixels,
	// derived from the font's ascent, descent, and line gap.
	LineHeight() int
	// MeasureLine returns the rendered width of a single line of
	// text in pixels.
	MeasureLine(line string) int
}

// LineDrawer extends TextMeasurer with the ability to paint a line of
// shaped glyphs into a grayscale canvas.
type LineDrawer interface {
	TextMeasurer
	// DrawLine draws one line of text with its top-left corner at
	// (x, y), painting the given luma wherever a glyph has ink
	// coverage. Drawing outside the canvas bounds is clipped.
	DrawLine(dst *imageutil.GrayImage, line string, x, y int, luma uint8) error
}

// Font wraps a parsed TrueType font at a fixed pixel size. It satisfies
// LineDrawer and is created fresh for each generation call.
type Font struct {
	ttf  *truetype.Font
	face xfont.Face
	size float64
}

// LoadFont reads and parses a TrueType font file at the given pixel
// size. Unreadable or malformed font files yield a ResourceError.
func LoadFont(path string, sizePx float64) (*Font, error) {
	fontBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, &ResourceError{Path: path, Err: err}
	}

	ttf, err := freetype.ParseFont(fontBytes)
	if err != nil {
		return nil, &ResourceError{Path: path, Err: err}
	}

	face := truetype.NewFace(ttf, &truetype.Options{
		Size:    sizePx,
		DPI:     fontDPI,
		Hinting: xfont.HintingFull,
	})

	return &Font{ttf: ttf, face: face, size: sizePx}, nil
}

// Close releases the glyph cache held by the font face.
func (f *Font) Close() error {
	return f.face.Close()
}

// LineHeight returns ceil(|ascent - descent + lineGap|) in pixels.
// Face metrics report descent as a positive distance below the
// baseline, so it is negated to match the conventional signed form.
func (f *Font) LineHeight() int {
	m := f.face.Metrics()
	ascent := fixedToFloat(m.Ascent)
	descent := -fixedToFloat(m.Descent)
	lineGap := fixedToFloat(m.Height) - ascent + descent
	return int(math.Ceil(math.Abs(ascent - descent + lineGap)))
}

// Ascent returns the distance from the top of a line to its baseline,
// rounded up to whole pixels.
func (f *Font) Ascent() int {
	return f.face.Metrics().Ascent.Ceil()
}

// MeasureLine returns the advance width of one line of text in pixels.
func (f *Font) MeasureLine(line string) int {
	return xfont.MeasureString(f.face, line).Ceil()
}

// DrawLine draws one line of text into a grayscale canvas with its
// top-left corner at (x, y). The freetype rasterizer anti-aliases glyph
// edges, blending the ink luma toward the existing background.
func (f *Font) DrawLine(dst *imageutil.GrayImage, line string, x, y int, luma uint8) error {
	ctx := freetype.NewContext()
	ctx.SetDPI(fontDPI)
	ctx.SetFont(f.ttf)
	ctx.SetFontSize(f.size)
	ctx.SetClip(dst.Bounds())
	ctx.SetDst(dst.Gray)
	ctx.SetSrc(image.NewUniform(color.Gray{Y: luma}))
	ctx.SetHinting(xfont.HintingFull)

	// The drawing origin is on the baseline, not the line top.
	pt := freetype.Pt(x, y+f.Ascent())
	_, err := ctx.DrawString(line, pt)
	return err
}

// fixedToFloat converts a 26.6 fixed-point value to a float64.
func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64.0
}
