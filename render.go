package epdimg

import (
	"fmt"

	"github.com/epdgen/epdimg/imageutil"
)

// PackedImage is the externally observable result of a generation call:
// the post-padding pixel dimensions and the packed, device-ready bytes.
type PackedImage struct {
	Width        uint32
	Height       uint32
	BitsPerPixel int
	Data         []byte
}

// Default option values applied by NewRenderer.
const (
	DefaultFontSize = 16.0
	DefaultDepth    = Gray1
)

// Renderer encapsulates the configuration for generating packed display
// assets. All state is per-call: fonts, canvases, and dither buffers are
// created fresh inside each Render method and released on return, so a
// Renderer may be reused across calls.
type Renderer struct {
	// FontPath and FontSize configure the text path. FontPath is
	// required for RenderText.
	FontPath string
	FontSize float64

	// Inverse swaps the background and foreground luma of the text
	// canvas (dark-on-light instead of the default light-on-dark).
	Inverse bool

	// LineSpacing is the extra vertical gap between lines, in pixels.
	LineSpacing int

	// Depth selects the packed bit depth for the grayscale paths.
	Depth BitDepth

	// Palette and Channel configure the image paths. Channel selects
	// which palette index RenderPlane emits as its bit plane.
	Palette Palette
	Channel int

	// TargetWidth, when non-zero, rescales source images to this
	// width before quantization, preserving aspect ratio.
	TargetWidth int
}

// Option is a functional option for configuring a Renderer.
type Option func(*Renderer)

// NewRenderer creates a Renderer with the given options applied on top
// of the defaults: font size 16px, bit depth 1, BWR palette, channel 0,
// no inversion, no extra line spacing, no rescaling.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		FontSize: DefaultFontSize,
		Depth:    DefaultDepth,
		Palette:  BWR,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// WithFont sets the TrueType font file used for text rendering.
func WithFont(path string) Option {
	return func(r *Renderer) { r.FontPath = path }
}

// WithFontSize sets the font size in pixels.
func WithFontSize(sizePx float64) Option {
	return func(r *Renderer) { r.FontSize = sizePx }
}

// WithInverse renders dark text on a light background instead of the
// default light-on-dark.
func WithInverse(inverse bool) Option {
	return func(r *Renderer) { r.Inverse = inverse }
}

// WithLineSpacing sets the extra gap between text lines in pixels.
func WithLineSpacing(px int) Option {
	return func(r *Renderer) { r.LineSpacing = px }
}

// WithBitDepth sets the packed bit depth for grayscale output.
func WithBitDepth(d BitDepth) Option {
	return func(r *Renderer) { r.Depth = d }
}

// WithPalette sets the quantization palette for image output.
func WithPalette(p Palette) Option {
	return func(r *Renderer) { r.Palette = p }
}

// WithChannel selects the palette index emitted by RenderPlane.
func WithChannel(index int) Option {
	return func(r *Renderer) { r.Channel = index }
}

// WithTargetWidth rescales source images to the given width before
// quantization. Zero keeps the source size.
func WithTargetWidth(width int) Option {
	return func(r *Renderer) { r.TargetWidth = width }
}

// RenderText lays out and rasterizes the given text, then packs the
// grayscale canvas at the configured bit depth. The text and font
// options are validated before the font file is opened.
func (r *Renderer) RenderText(text string) (*PackedImage, error) {
	canvas, _, err := r.RasterizeText(text)
	if err != nil {
		return nil, err
	}
	return r.PackCanvas(canvas)
}

// PackCanvas packs an already-rasterized grayscale canvas at the
// configured bit depth. RenderText runs it after RasterizeText; callers
// holding the canvas for a preview can pack it directly instead of
// rendering twice.
func (r *Renderer) PackCanvas(canvas *imageutil.GrayImage) (*PackedImage, error) {
	data, err := PackGray(canvas, r.Depth)
	if err != nil {
		return nil, err
	}

	return &PackedImage{
		Width:        uint32(canvas.Width()),
		Height:       uint32(canvas.Height()),
		BitsPerPixel: int(r.Depth),
		Data:         data,
	}, nil
}

// RasterizeText runs the text path up to the raw 8-bit canvas, which is
// also useful for previewing output before packing.
func (r *Renderer) RasterizeText(text string) (*imageutil.GrayImage, *Layout, error) {
	if text == "" {
		return nil, nil, &ConfigError{Option: "text", Reason: "required option is missing"}
	}
	if r.FontPath == "" {
		return nil, nil, &ConfigError{Option: "font", Reason: "required option is missing"}
	}
	if !r.Depth.Valid() {
		return nil, nil, &ConfigError{
			Option: "bitDepth",
			Reason: fmt.Sprintf("unsupported depth %d, want 1, 2, 4, or 8", int(r.Depth)),
		}
	}

	font, err := LoadFont(r.FontPath, r.FontSize)
	if err != nil {
		return nil, nil, err
	}
	defer font.Close()

	lay, err := LayoutText(font, text, r.LineSpacing, r.Depth)
	if err != nil {
		return nil, nil, err
	}

	canvas, err := Rasterize(font, lay, r.Inverse)
	if err != nil {
		return nil, nil, err
	}
	return canvas, lay, nil
}

// DitherImage loads a source image, optionally rescales it, and
// quantizes it onto the configured palette with error diffusion. The
// returned image is palette-conformant and shared by the plane and
// quad packers; it doubles as the preview for image output.
func (r *Renderer) DitherImage(path string) (*imageutil.RGBAImage, error) {
	if len(r.Palette) == 0 {
		return nil, &ConfigError{Option: "palette", Reason: "palette has no entries"}
	}

	img, err := r.loadSource(path)
	if err != nil {
		return nil, err
	}

	r.Palette.Dither(img)
	return img, nil
}

// RenderPlane generates a single-channel bit plane from an image:
// quantize onto the palette, then emit one bit per pixel marking where
// the configured channel's color landed. Used for monochrome-plus-
// accent displays that take one buffer per color layer.
func (r *Renderer) RenderPlane(path string) (*PackedImage, error) {
	if r.Channel < 0 || r.Channel >= len(r.Palette) {
		return nil, &ConfigError{
			Option: "channel",
			Reason: fmt.Sprintf("index %d out of range for %d-color palette", r.Channel, len(r.Palette)),
		}
	}

	img, err := r.DitherImage(path)
	if err != nil {
		return nil, err
	}
	return r.PackPlaneImage(img)
}

// PackPlaneImage packs an already-dithered image as the configured
// channel's bit plane.
func (r *Renderer) PackPlaneImage(img *imageutil.RGBAImage) (*PackedImage, error) {
	data, paddedWidth, err := PackPlane(img, r.Palette, r.Channel)
	if err != nil {
		return nil, err
	}

	return &PackedImage{
		Width:        uint32(paddedWidth),
		Height:       uint32(img.Height()),
		BitsPerPixel: 1,
		Data:         data,
	}, nil
}

// RenderQuad generates a 2-bit-per-pixel buffer for quad-color panels:
// quantize onto the palette, then pack each pixel's palette index
// directly.
func (r *Renderer) RenderQuad(path string) (*PackedImage, error) {
	if len(r.Palette) > 4 {
		return nil, &ConfigError{
			Option: "palette",
			Reason: fmt.Sprintf("%d colors do not fit 2-bit indices", len(r.Palette)),
		}
	}

	img, err := r.DitherImage(path)
	if err != nil {
		return nil, err
	}
	return r.PackQuadImage(img)
}

// PackQuadImage packs an already-dithered image as 2-bit palette
// indices.
func (r *Renderer) PackQuadImage(img *imageutil.RGBAImage) (*PackedImage, error) {
	data, paddedWidth, err := PackQuad(img, r.Palette)
	if err != nil {
		return nil, err
	}

	return &PackedImage{
		Width:        uint32(paddedWidth),
		Height:       uint32(img.Height()),
		BitsPerPixel: 2,
		Data:         data,
	}, nil
}

// RenderGray converts an image for grayscale panels: desaturate,
// quantize onto an evenly spaced gray ramp with error diffusion, and
// pack at the configured bit depth. Rows are padded with black samples
// up to the packing alignment, mirroring the text path's width padding.
func (r *Renderer) RenderGray(path string) (*PackedImage, error) {
	if !r.Depth.Valid() {
		return nil, &ConfigError{
			Option: "bitDepth",
			Reason: fmt.Sprintf("unsupported depth %d, want 1, 2, 4, or 8", int(r.Depth)),
		}
	}

	rgba, err := r.DitherGray(path)
	if err != nil {
		return nil, err
	}
	return r.PackGrayImage(rgba)
}

// PackGrayImage packs an image already quantized to the gray ramp for
// the configured bit depth, padding each row with black samples up to
// the packing alignment.
func (r *Renderer) PackGrayImage(rgba *imageutil.RGBAImage) (*PackedImage, error) {
	if !r.Depth.Valid() {
		return nil, &ConfigError{
			Option: "bitDepth",
			Reason: fmt.Sprintf("unsupported depth %d, want 1, 2, 4, or 8", int(r.Depth)),
		}
	}

	width, height := rgba.Width(), rgba.Height()
	group := r.Depth.PixelsPerGroup()
	paddedWidth := width
	if paddedWidth%group != 0 {
		paddedWidth = (paddedWidth/group + 1) * group
	}

	canvas := imageutil.NewGrayImage(paddedWidth, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			// Channels are equal after the gray-ramp dither.
			canvas.SetGrayValue(x, y, rgba.GetRGB(x, y).R)
		}
	}

	data, err := PackGray(canvas, r.Depth)
	if err != nil {
		return nil, err
	}

	return &PackedImage{
		Width:        uint32(paddedWidth),
		Height:       uint32(height),
		BitsPerPixel: int(r.Depth),
		Data:         data,
	}, nil
}

// DitherGray loads a source image, desaturates it, and quantizes it
// onto the gray ramp for the configured bit depth. RenderGray packs the
// result; callers may also use it directly for previews.
func (r *Renderer) DitherGray(path string) (*imageutil.RGBAImage, error) {
	img, err := r.loadSource(path)
	if err != nil {
		return nil, err
	}

	rgba := imageutil.GrayscaleToRGBA(imageutil.ToGrayscale(img))
	GrayPalette(r.Depth).Dither(rgba)
	return rgba, nil
}

// loadSource reads and decodes a source image, applying the optional
// target-width rescale. Decode failures surface as ResourceError.
func (r *Renderer) loadSource(path string) (*imageutil.RGBAImage, error) {
	img, err := imageutil.LoadImage(path)
	if err != nil {
		return nil, &ResourceError{Path: path, Err: err}
	}
	if r.TargetWidth > 0 && img.Width() != r.TargetWidth {
		img = imageutil.ResizeToWidth(img, r.TargetWidth, imageutil.InterpolationArea)
	}
	return img, nil
}
