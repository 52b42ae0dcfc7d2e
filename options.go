package epdimg

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Request modes, one per output encoding.
const (
	ModeText  = "text"  // text -> grayscale canvas -> bit-depth pack
	ModePlane = "plane" // image -> dither -> single channel plane, 1bpp
	ModeQuad  = "quad"  // image -> dither -> palette indices, 2bpp
	ModeGray  = "gray"  // image -> gray ramp dither -> bit-depth pack
)

// CurrentRequestVersion is the schema version Validate accepts. Version
// 0 is treated as current so hand-written requests can omit the field.
const CurrentRequestVersion = 1

// Request is the versioned options schema for one generation call,
// typically decoded from a JSON file driving a build step. Exactly one
// of Text or Image is required depending on Mode; everything else is
// optional with the documented defaults.
type Request struct {
	Version int    `json:"version,omitempty"`
	Mode    string `json:"mode"`

	// Text path options. Font is required for ModeText.
	Text        string  `json:"text,omitempty"`
	Font        string  `json:"font,omitempty"`
	FontSize    float64 `json:"fontSize,omitempty"` // default 16
	Inverse     bool    `json:"inverse,omitempty"`
	LineSpacing int     `json:"lineSpacing,omitempty"`

	// BitDepth applies to ModeText and ModeGray. Default 1.
	BitDepth int `json:"bitDepth,omitempty"`

	// Image path options. Palette names a built-in or a palette file;
	// default "bwr". Width of 0 keeps the source size.
	Image   string `json:"image,omitempty"`
	Palette string `json:"palette,omitempty"`
	Channel int    `json:"channel,omitempty"`
	Width   int    `json:"width,omitempty"`
}

// ParseRequest decodes a JSON request strictly: unknown option names,
// wrong literal types, and trailing data after the request object are
// configuration errors, reported before any font, image, or palette
// file is touched.
func ParseRequest(data []byte) (*Request, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var req Request
	if err := dec.Decode(&req); err != nil {
		return nil, &ConfigError{Option: optionFromJSONError(err), Reason: err.Error()}
	}
	if dec.More() {
		return nil, &ConfigError{Option: "request", Reason: "trailing data after the request object"}
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return &req, nil
}

// optionFromJSONError extracts the offending field name from a JSON
// decode error where possible.
func optionFromJSONError(err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return typeErr.Field
	}
	msg := err.Error()
	if i := strings.Index(msg, `unknown field "`); i >= 0 {
		rest := msg[i+len(`unknown field "`):]
		if j := strings.IndexByte(rest, '"'); j >= 0 {
			return rest[:j]
		}
	}
	return "request"
}

// Validate checks the request for structural errors and applies
// defaults in place. It never touches the filesystem, so a returned
// ConfigError guarantees no resource access occurred.
func (q *Request) Validate() error {
	if q.Version != 0 && q.Version != CurrentRequestVersion {
		return &ConfigError{
			Option: "version",
			Reason: fmt.Sprintf("unsupported schema version %d, want %d", q.Version, CurrentRequestVersion),
		}
	}
	q.Version = CurrentRequestVersion

	if q.FontSize == 0 {
		q.FontSize = DefaultFontSize
	}
	if q.BitDepth == 0 {
		q.BitDepth = int(DefaultDepth)
	}
	if q.Palette == "" {
		q.Palette = "bwr"
	}

	switch q.Mode {
	case ModeText:
		if q.Text == "" {
			return &ConfigError{Option: "text", Reason: "required option is missing"}
		}
		if q.Font == "" {
			return &ConfigError{Option: "font", Reason: "required option is missing"}
		}
	case ModePlane, ModeQuad, ModeGray:
		if q.Image == "" {
			return &ConfigError{Option: "image", Reason: "required option is missing"}
		}
	default:
		return &ConfigError{
			Option: "mode",
			Reason: fmt.Sprintf("unknown mode %q, want text, plane, quad, or gray", q.Mode),
		}
	}

	if !BitDepth(q.BitDepth).Valid() {
		return &ConfigError{
			Option: "bitDepth",
			Reason: fmt.Sprintf("unsupported depth %d, want 1, 2, 4, or 8", q.BitDepth),
		}
	}
	if q.Channel < 0 {
		return &ConfigError{Option: "channel", Reason: "must not be negative"}
	}
	if q.Width < 0 {
		return &ConfigError{Option: "width", Reason: "must not be negative"}
	}

	return nil
}

// Renderer builds a configured Renderer from the request, resolving the
// palette by name. The request must already be validated.
func (q *Request) Renderer() (*Renderer, error) {
	opts := []Option{
		WithFont(q.Font),
		WithFontSize(q.FontSize),
		WithInverse(q.Inverse),
		WithLineSpacing(q.LineSpacing),
		WithBitDepth(BitDepth(q.BitDepth)),
		WithChannel(q.Channel),
		WithTargetWidth(q.Width),
	}

	if q.Mode != ModeText {
		p, err := LoadPalette(q.Palette)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithPalette(p))
	}

	return NewRenderer(opts...), nil
}

// Run executes the request end to end and returns the packed asset.
func (q *Request) Run() (*PackedImage, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	r, err := q.Renderer()
	if err != nil {
		return nil, err
	}

	switch q.Mode {
	case ModeText:
		return r.RenderText(q.Text)
	case ModePlane:
		return r.RenderPlane(q.Image)
	case ModeQuad:
		return r.RenderQuad(q.Image)
	case ModeGray:
		return r.RenderGray(q.Image)
	}
	return nil, &ConfigError{Option: "mode", Reason: fmt.Sprintf("unknown mode %q", q.Mode)}
}
