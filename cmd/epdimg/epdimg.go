// Command epdimg generates packed bitmap assets for low-bit-depth
// display hardware. It is meant to run as a build step: it writes the
// packed bytes to <output>.bin and the width/height/depth metadata to
// <output>.json, which the target firmware consumes as data files.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"image"
	"os"

	"github.com/epdgen/epdimg"
	"github.com/epdgen/epdimg/imageutil"
)

func main() {
	configFile := flag.String("config", "",
		"Path to a JSON request file (overrides the other flags)")
	mode := flag.String("mode", "text",
		"Generation mode: text, plane, quad, or gray")
	text := flag.String("text", "",
		"Text to render (mode text)")
	fontPath := flag.String("font", "",
		"Path to a TrueType font file (mode text)")
	fontSize := flag.Float64("size", epdimg.DefaultFontSize,
		"Font size in pixels")
	inverse := flag.Bool("inverse", false,
		"Render dark text on a light background")
	lineSpacing := flag.Int("spacing", 0,
		"Extra vertical spacing between lines in pixels")
	bitDepth := flag.Int("depth", 1,
		"Packed bit depth for text and gray modes: 1, 2, 4, or 8")
	imagePath := flag.String("image", "",
		"Path to the source image (modes plane, quad, gray)")
	paletteName := flag.String("palette", "bwr",
		"Palette name (embedded: bw, bwr, bwry) or path to a palette JSON file")
	channel := flag.Int("channel", 0,
		"Palette index emitted as the bit plane (mode plane)")
	targetWidth := flag.Int("width", 0,
		"Rescale the source image to this width, 0 keeps the source size")
	outputBase := flag.String("output", "",
		"Output base path; writes <output>.bin and <output>.json (required)")
	previewFile := flag.String("preview", "",
		"Optional path for a preview of the pre-packing canvas (format by extension)")
	flag.Parse()

	if *outputBase == "" {
		fmt.Fprintln(os.Stderr, "error: -output is required")
		flag.Usage()
		os.Exit(2)
	}

	req, err := buildRequest(*configFile, &epdimg.Request{
		Mode:        *mode,
		Text:        *text,
		Font:        *fontPath,
		FontSize:    *fontSize,
		Inverse:     *inverse,
		LineSpacing: *lineSpacing,
		BitDepth:    *bitDepth,
		Image:       *imagePath,
		Palette:     *paletteName,
		Channel:     *channel,
		Width:       *targetWidth,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	packed, err := generate(req, *previewFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if err := writeAsset(packed, *outputBase); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%s: %dx%d at %d bpp, %d bytes\n",
		*outputBase, packed.Width, packed.Height,
		packed.BitsPerPixel, len(packed.Data))
}

// buildRequest returns the request from the config file if given,
// otherwise the one assembled from flags.
func buildRequest(configFile string, fromFlags *epdimg.Request) (*epdimg.Request, error) {
	if configFile == "" {
		if err := fromFlags.Validate(); err != nil {
			return nil, err
		}
		return fromFlags, nil
	}

	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return epdimg.ParseRequest(data)
}

// generate runs the request's pipeline once: it produces the
// pre-packing intermediate (the grayscale text canvas or the dithered
// image), writes it to previewPath when set, and packs that same
// intermediate into the final asset.
func generate(req *epdimg.Request, previewPath string) (*epdimg.PackedImage, error) {
	r, err := req.Renderer()
	if err != nil {
		return nil, err
	}

	switch req.Mode {
	case epdimg.ModeText:
		canvas, _, err := r.RasterizeText(req.Text)
		if err != nil {
			return nil, err
		}
		writePreview(canvas.Gray, previewPath)
		return r.PackCanvas(canvas)
	case epdimg.ModeGray:
		img, err := r.DitherGray(req.Image)
		if err != nil {
			return nil, err
		}
		writePreview(img.RGBA, previewPath)
		return r.PackGrayImage(img)
	case epdimg.ModePlane:
		img, err := r.DitherImage(req.Image)
		if err != nil {
			return nil, err
		}
		writePreview(img.RGBA, previewPath)
		return r.PackPlaneImage(img)
	case epdimg.ModeQuad:
		img, err := r.DitherImage(req.Image)
		if err != nil {
			return nil, err
		}
		writePreview(img.RGBA, previewPath)
		return r.PackQuadImage(img)
	}
	return nil, fmt.Errorf("unknown mode %q", req.Mode)
}

// writePreview saves the pre-packing intermediate for visual
// inspection. The format follows the file extension (png, jpg, gif),
// defaulting to PNG. A failed preview warns but never fails the build.
func writePreview(img image.Image, path string) {
	if path == "" {
		return
	}
	if err := imageutil.SaveImage(img, path); err != nil {
		fmt.Fprintf(os.Stderr, "warning: preview failed: %v\n", err)
	}
}

// assetMeta is the sidecar metadata written next to the packed bytes.
type assetMeta struct {
	Width        uint32 `json:"width"`
	Height       uint32 `json:"height"`
	BitsPerPixel int    `json:"bitsPerPixel"`
}

func writeAsset(packed *epdimg.PackedImage, base string) error {
	if err := os.WriteFile(base+".bin", packed.Data, 0o644); err != nil {
		return fmt.Errorf("writing %s.bin: %w", base, err)
	}

	meta, err := json.MarshalIndent(assetMeta{
		Width:        packed.Width,
		Height:       packed.Height,
		BitsPerPixel: packed.BitsPerPixel,
	}, "", "  ")
	if err != nil {
		return err
	}
	meta = append(meta, '\n')

	if err := os.WriteFile(base+".json", meta, 0o644); err != nil {
		return fmt.Errorf("writing %s.json: %w", base, err)
	}
	return nil
}
