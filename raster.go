package epdimg

import "github.com/epdgen/epdimg/imageutil"

// Background and foreground luma values for the text canvas. The pair
// swaps when rendering inverse.
const (
	lumaDark  = 0x00
	lumaLight = 0xFF
)

// Rasterize allocates a grayscale canvas for the layout, fills it with
// the background value, and draws each line of shaped glyphs into it.
// The draw position reserves the one-pixel blending margin established
// during layout: x starts at 1 and each line top is shifted up by one.
// The result is deterministic for identical inputs.
func Rasterize(d LineDrawer, lay *Layout, inverse bool) (*imageutil.GrayImage, error) {
	canvas := imageutil.NewGrayImage(lay.Width, lay.Height)

	bg, fg := uint8(lumaDark), uint8(lumaLight)
	if inverse {
		bg, fg = fg, bg
	}
	if bg != 0 {
		canvas.Fill(bg)
	}

	for i, line := range lay.Lines {
		y := (lay.LineHeight+lay.LineSpacing)*i - 1
		if err := d.DrawLine(canvas, line, 1, y, fg); err != nil {
			return nil, err
		}
	}

	return canvas, nil
}
